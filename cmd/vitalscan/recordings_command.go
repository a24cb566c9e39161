package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

func newRecordingsCommand(ctx *commandContext) *cobra.Command {
	recordingsCmd := &cobra.Command{
		Use:   "recordings",
		Short: "Manage stored scan traces",
	}

	recordingsCmd.AddCommand(newRecordingsListCommand(ctx))
	recordingsCmd.AddCommand(newRecordingsShowCommand(ctx))
	recordingsCmd.AddCommand(newRecordingsExportCommand(ctx))
	recordingsCmd.AddCommand(newRecordingsDeleteCommand(ctx))

	return recordingsCmd
}

func newRecordingsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored traces, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			summaries, err := store.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(summaries) == 0 {
				fmt.Fprintln(out, "No recordings stored")
				return nil
			}

			rows := make([][]string, 0, len(summaries))
			for _, s := range summaries {
				rows = append(rows, []string{
					s.ID,
					s.Label,
					string(s.Method),
					fmt.Sprintf("%.0f Hz", s.SampleRate),
					fmt.Sprintf("%.0fs", s.Target.Seconds()),
					strconv.Itoa(s.SampleCount),
					s.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Label", "Method", "Rate", "Target", "Samples", "Created"},
				rows, 5))
			return nil
		},
	}
}

func newRecordingsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a stored trace in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			trace, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			values := make([]float64, len(trace.Samples))
			span := time.Duration(0)
			for i, sample := range trace.Samples {
				values[i] = sample.Value
				span = sample.Offset
			}

			rows := [][]string{
				{"ID", trace.ID},
				{"Label", trace.Label},
				{"Method", string(trace.Method)},
				{"Sample rate", fmt.Sprintf("%.0f Hz", trace.SampleRate)},
				{"Target", fmt.Sprintf("%.0fs", trace.Target.Seconds())},
				{"Samples", strconv.Itoa(len(trace.Samples))},
				{"Span", fmt.Sprintf("%.1fs", span.Seconds())},
				{"Created", trace.CreatedAt.Local().Format("2006-01-02 15:04:05")},
			}
			if len(values) > 0 {
				rows = append(rows,
					[]string{"Mean value", fmt.Sprintf("%.3f", stat.Mean(values, nil))},
					[]string{"Value range", fmt.Sprintf("%.3f to %.3f", floats.Min(values), floats.Max(values))},
				)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows))
			return nil
		},
	}
}

func newRecordingsExportCommand(ctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a stored trace as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			trace, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			path := strings.TrimSpace(outputPath)
			if path == "" {
				path = trace.ID + ".csv"
			}
			file, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create %s: %w", path, err)
			}
			if err := writeTraceCSV(file, trace.Samples); err != nil {
				file.Close()
				return fmt.Errorf("export %s: %w", trace.ID, err)
			}
			if err := file.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d samples to %s\n", len(trace.Samples), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination file (default <id>.csv)")
	return cmd
}

func newRecordingsDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored trace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !removed {
				fmt.Fprintf(out, "No recording with id %s\n", args[0])
				return nil
			}
			fmt.Fprintf(out, "Deleted %s\n", args[0])
			return nil
		},
	}
}
