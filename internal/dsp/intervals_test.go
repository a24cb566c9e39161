package dsp

import (
	"reflect"
	"testing"
)

func TestIntervals(t *testing.T) {
	tests := []struct {
		name  string
		peaks []int
		want  []int
	}{
		{"empty", nil, nil},
		{"single peak", []int{10}, nil},
		{"regular", []int{10, 35, 60, 85}, []int{25, 25, 25}},
		{"irregular", []int{5, 20, 50}, []int{15, 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Intervals(tt.peaks)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Intervals(%v) = %v, want %v", tt.peaks, got, tt.want)
			}
		})
	}
}

func TestIntervalsPanicsOnRegression(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Intervals() with non-increasing peaks did not panic")
		}
	}()
	Intervals([]int{10, 10, 20})
}

func TestFilterOutliersRemovesMissedBeat(t *testing.T) {
	// One doubled interval from a missed beat among regular 25-sample beats.
	intervals := []int{25, 26, 24, 50, 25, 25}
	got := FilterOutliers(intervals, 0.30)

	want := []int{25, 26, 24, 25, 25}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterOutliers() = %v, want %v", got, want)
	}
}

func TestFilterOutliersKeepsRegularRhythm(t *testing.T) {
	intervals := []int{25, 25, 26, 24, 25}
	got := FilterOutliers(intervals, 0.30)
	if len(got) != len(intervals) {
		t.Errorf("FilterOutliers() dropped %d regular intervals", len(intervals)-len(got))
	}
}

func TestMedianInt(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		want   float64
	}{
		{"odd count", []int{3, 1, 2}, 2},
		{"single", []int{7}, 7},
		{"skewed", []int{25, 25, 25, 50}, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MedianInt(tt.values); got != tt.want {
				t.Errorf("MedianInt(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestStdDevIntShortSlices(t *testing.T) {
	if got := StdDevInt([]int{25}); got != 0 {
		t.Errorf("StdDevInt(single) = %v, want 0", got)
	}
}
