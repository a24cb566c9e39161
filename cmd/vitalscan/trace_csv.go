package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"vitalscan/internal/recording"
)

// Trace CSV files carry a header row followed by one row per sample,
// offset_ms then value. Offsets must be strictly increasing.

func writeTraceCSV(w io.Writer, samples []recording.Sample) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"offset_ms", "value"}); err != nil {
		return err
	}
	for _, sample := range samples {
		row := []string{
			strconv.FormatInt(sample.Offset.Milliseconds(), 10),
			strconv.FormatFloat(sample.Value, 'g', -1, 64),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func readTraceCSV(path string) ([]recording.Sample, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = 2
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s holds no samples", path)
	}

	samples := make([]recording.Sample, 0, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2
		offsetMillis, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: offset %q: %w", path, line, row[0], err)
		}
		value, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: value %q: %w", path, line, row[1], err)
		}
		offset := time.Duration(offsetMillis) * time.Millisecond
		if len(samples) > 0 && offset <= samples[len(samples)-1].Offset {
			return nil, fmt.Errorf("%s line %d: offset %dms does not increase", path, line, offsetMillis)
		}
		samples = append(samples, recording.Sample{Value: value, Offset: offset})
	}
	return samples, nil
}
