package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"vitalscan/internal/classify"
	"vitalscan/internal/vitals"
)

const (
	ansiReset  = "\x1b[0m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiRed    = "\x1b[31m"
)

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func bandColor(band classify.Band) string {
	switch band {
	case classify.BandNormal:
		return ansiGreen
	case classify.BandMonitor:
		return ansiYellow
	default:
		return ansiRed
	}
}

// renderReading prints the reading table plus the risk assessment.
func renderReading(out io.Writer, reading *vitals.Reading) {
	spo2 := "-"
	if reading.SpO2Pct != nil {
		spo2 = fmt.Sprintf("%d%% (est)", *reading.SpO2Pct)
	}

	rows := [][]string{{
		strconv.Itoa(int(reading.HeartRateBPM)),
		fmt.Sprintf("%d%%", reading.ConfidencePct),
		string(reading.Quality),
		spo2,
		string(reading.Method),
		strconv.Itoa(int(reading.SampleCount)),
	}}
	fmt.Fprintln(out, renderTable(
		[]string{"BPM", "Confidence", "Quality", "SpO2", "Method", "Samples"},
		rows, 0, 1, 5))

	assessment := classify.Classify(classify.Input{
		HeartRateBPM: int(reading.HeartRateBPM),
		SpO2Pct:      reading.SpO2Pct,
	})

	label := strings.ToUpper(assessment.Band.String())
	if shouldColorize(out) {
		label = bandColor(assessment.Band) + label + ansiReset
	}
	fmt.Fprintf(out, "Risk band: %s\n", label)
	fmt.Fprintln(out, assessment.Recommendation)
}

// renderFailure prints the typed scan failure with its remediation hint.
func renderFailure(out io.Writer, err error) {
	fmt.Fprintf(out, "Scan failed: %v\n", err)
	fmt.Fprintln(out, vitals.Guidance(err))
}
