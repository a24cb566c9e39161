package main

import (
	"github.com/spf13/cobra"

	"vitalscan/internal/logging"
	"vitalscan/internal/recording"
	"vitalscan/internal/simulate"
	"vitalscan/internal/vitals"
)

func newReplayCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <id>",
		Short: "Re-run a recorded trace through the estimation pipeline",
		Long: `Replay feeds a stored trace through the pipeline using the current
configuration, so tuning changes can be evaluated against previously
captured signals.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			log := logging.NewComponentLogger(logger, "replay")

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			trace, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			log.Info("replaying trace",
				logging.Args(
					logging.String("id", trace.ID),
					logging.String("method", string(trace.Method)),
					logging.Int("samples", len(trace.Samples)),
				)...)

			session := vitals.NewSession(trace.Method, trace.SampleRate, trace.Target, cfg.EngineTuning())
			driveSession(session, trace.Samples)

			out := cmd.OutOrStdout()
			reading, err := session.Finalize()
			if err != nil {
				renderFailure(out, err)
				return nil
			}
			renderReading(out, reading)
			return nil
		},
	}
	return cmd
}

// driveSession pushes samples with their recorded offsets. Camera traces
// store only the pulse-bearing green channel, so frames are rebuilt with
// the synthetic perfusion ratios the contact gate expects.
func driveSession(session *vitals.Session, samples []recording.Sample) {
	base := session.StartedAt()
	for _, sample := range samples {
		at := base.Add(sample.Offset)
		if session.Method() == vitals.MethodCamera {
			session.PushFrame(simulate.CameraFrame(sample.Value), at)
			continue
		}
		session.Push(sample.Value, at)
	}
}
