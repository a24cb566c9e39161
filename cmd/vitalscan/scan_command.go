package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"vitalscan/internal/logging"
	"vitalscan/internal/recording"
	"vitalscan/internal/simulate"
	"vitalscan/internal/vitals"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var (
		methodFlag   string
		bpmFlag      float64
		rateFlag     float64
		durationFlag float64
		noiseFlag    float64
		wanderFlag   float64
		seedFlag     int64
		saveLabel    string
		inputFlag    string
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run a simulated scan through the estimation pipeline",
		Long: `Scan synthesizes a pulse signal with the given heart rate and noise
level, feeds it through the full estimation pipeline, and prints the
resulting reading. Pass --input to analyze a CSV trace instead of a
synthetic signal, and --save to keep the raw trace for later replay.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			log := logging.NewComponentLogger(logger, "scan")

			method := cfg.ScanMethod()
			if strings.TrimSpace(methodFlag) != "" {
				method = vitals.Method(strings.ToLower(strings.TrimSpace(methodFlag)))
			}
			if !method.Valid() {
				return fmt.Errorf("method %q is not one of camera, microphone, accelerometer", method)
			}

			rate := cfg.Scan.SampleRate
			if rateFlag != 0 {
				// Same bound validateScan enforces on the config file; the
				// store persists offsets at millisecond resolution, so rates
				// above 1 kHz would collapse adjacent samples.
				if rateFlag < 1 || rateFlag > 1000 {
					return fmt.Errorf("--rate %v outside [1, 1000] Hz", rateFlag)
				}
				rate = rateFlag
			}
			duration := cfg.ScanDuration()
			if durationFlag > 0 {
				duration = time.Duration(durationFlag * float64(time.Second))
			}

			var samples []recording.Sample
			if input := strings.TrimSpace(inputFlag); input != "" {
				samples, err = readTraceCSV(input)
				if err != nil {
					return err
				}
				if span := samples[len(samples)-1].Offset; durationFlag <= 0 && span > duration {
					duration = span
				}
				log.Info("analyzing trace file",
					logging.Args(
						logging.String("path", input),
						logging.String("method", string(method)),
						logging.Int("samples", len(samples)),
					)...)
			} else {
				if bpmFlag <= 0 {
					return fmt.Errorf("--bpm must be positive, got %v", bpmFlag)
				}
				opts := simulate.DefaultPulseOptions()
				opts.BPM = bpmFlag
				opts.SampleRate = rate
				opts.Duration = duration
				opts.NoiseStdDev = noiseFlag
				opts.WanderAmplitude = wanderFlag
				opts.Seed = seedFlag
				if method != vitals.MethodCamera {
					// Scalar sources sit in the gate's RMS amplitude band, not the
					// camera brightness band.
					opts.Baseline = 0.1
					opts.Amplitude = 0.3
					opts.WanderAmplitude = wanderFlag * 0.01
					opts.NoiseStdDev = noiseFlag * 0.01
				}

				log.Info("starting scan",
					logging.Args(
						logging.String("method", string(method)),
						logging.Float64("bpm", opts.BPM),
						logging.Float64("rate_hz", rate),
						logging.Duration("duration", duration),
						logging.Float64("noise", opts.NoiseStdDev),
					)...)

				step := time.Duration(float64(time.Second) / rate)
				values := simulate.PulseTrain(opts)
				samples = make([]recording.Sample, 0, len(values))
				for i, value := range values {
					samples = append(samples, recording.Sample{
						Value:  value,
						Offset: time.Duration(i+1) * step,
					})
				}
			}

			session := vitals.NewSession(method, rate, duration, cfg.EngineTuning())
			driveSession(session, samples)

			out := cmd.OutOrStdout()
			reading, err := session.Finalize()
			if err != nil {
				log.Warn("scan produced no reading", logging.Args(logging.Error(err))...)
				renderFailure(out, err)
				return nil
			}

			log.Info("scan complete",
				logging.Args(
					logging.Int("bpm", int(reading.HeartRateBPM)),
					logging.Int("confidence_pct", reading.ConfidencePct),
					logging.String("quality", string(reading.Quality)),
				)...)
			renderReading(out, reading)

			if strings.TrimSpace(saveLabel) != "" {
				id, err := saveTrace(cmd, ctx, session, samples, saveLabel)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Saved trace %s\n", id)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&methodFlag, "method", "m", "", "Acquisition method: camera, microphone, accelerometer")
	cmd.Flags().Float64Var(&bpmFlag, "bpm", 72, "Simulated heart rate in BPM")
	cmd.Flags().Float64Var(&rateFlag, "rate", 0, "Sample rate in Hz (default from config)")
	cmd.Flags().Float64VarP(&durationFlag, "duration", "d", 0, "Scan length in seconds (default from config)")
	cmd.Flags().Float64Var(&noiseFlag, "noise", 0, "Gaussian noise standard deviation")
	cmd.Flags().Float64Var(&wanderFlag, "wander", 0.5, "Baseline wander amplitude")
	cmd.Flags().Int64Var(&seedFlag, "seed", 0, "Noise seed for reproducible scans")
	cmd.Flags().StringVar(&saveLabel, "save", "", "Save the raw trace under this label")
	cmd.Flags().StringVar(&inputFlag, "input", "", "Analyze a CSV trace (offset_ms,value) instead of simulating")
	return cmd
}

func saveTrace(cmd *cobra.Command, ctx *commandContext, session *vitals.Session, samples []recording.Sample, label string) (string, error) {
	store, err := ctx.openStore()
	if err != nil {
		return "", err
	}
	defer store.Close()

	trace := &recording.Trace{
		ID:         session.ID().String(),
		Label:      strings.TrimSpace(label),
		Method:     session.Method(),
		SampleRate: session.SampleRate(),
		Target:     session.Target(),
		CreatedAt:  session.StartedAt(),
		Samples:    samples,
	}
	if err := store.Save(cmd.Context(), trace); err != nil {
		return "", fmt.Errorf("save trace: %w", err)
	}
	return trace.ID, nil
}
