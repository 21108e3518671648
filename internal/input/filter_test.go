package input

import (
	"math"
	"testing"
)

func TestFilter_DeadZone(t *testing.T) {
	f, err := NewFilter(0.2, nil)
	if err != nil {
		t.Fatalf("Failed to create filter: %v", err)
	}

	// Any raw value scaled below the threshold must map to exactly 0.
	for _, raw := range []int16{0, 1, -1, 100, -100, 4915, -4915, 6552, -6552} {
		if got := f.Apply(0, raw); got != 0 {
			t.Errorf("Apply(0, %d) = %v, want 0", raw, got)
		}
	}
}

func TestFilter_Rescaling(t *testing.T) {
	f, err := NewFilter(0.2, nil)
	if err != nil {
		t.Fatalf("Failed to create filter: %v", err)
	}

	// Scaled value 0.6 with dead zone 0.2 rescales to (0.6-0.2)/0.8 = 0.5.
	raw := int16(19660) // 0.6 of full deflection
	if got := f.Apply(0, raw); math.Abs(got-0.5) > 1e-3 {
		t.Errorf("Apply(0, %d) = %v, want 0.5", raw, got)
	}

	// Negative side is symmetric.
	if got := f.Apply(0, -raw); math.Abs(got+0.5) > 1e-3 {
		t.Errorf("Apply(0, %d) = %v, want -0.5", -raw, got)
	}
}

func TestFilter_ContinuousAtThreshold(t *testing.T) {
	f, err := NewFilter(0.2, nil)
	if err != nil {
		t.Fatalf("Failed to create filter: %v", err)
	}

	threshold := int16(6569) // just past 0.2 of full deflection
	if got := f.Apply(0, threshold); got < 0 || got > 0.01 {
		t.Errorf("Apply just above threshold = %v, want near 0", got)
	}
}

func TestFilter_FullRangeAtExtremes(t *testing.T) {
	f, err := NewFilter(0.2, nil)
	if err != nil {
		t.Fatalf("Failed to create filter: %v", err)
	}

	if got := f.Apply(0, math.MaxInt16); got != 1 {
		t.Errorf("Apply(0, MaxInt16) = %v, want 1", got)
	}
	if got := f.Apply(0, math.MinInt16); got != -1 {
		t.Errorf("Apply(0, MinInt16) = %v, want -1", got)
	}
}

func TestFilter_PerAxisOverride(t *testing.T) {
	f, err := NewFilter(0.05, map[int]float64{2: 0.5})
	if err != nil {
		t.Fatalf("Failed to create filter: %v", err)
	}

	raw := int16(13107) // 0.4 of full deflection
	if got := f.Apply(2, raw); got != 0 {
		t.Errorf("Apply(2, %d) = %v, want 0 with per-axis dead zone 0.5", raw, got)
	}
	if got := f.Apply(0, raw); got == 0 {
		t.Errorf("Apply(0, %d) = 0, want non-zero with default dead zone 0.05", raw)
	}
}

func TestFilter_InvalidDeadZone(t *testing.T) {
	testCases := []struct {
		name    string
		dead    float64
		perAxis map[int]float64
	}{
		{"negative default", -0.1, nil},
		{"default at one", 1, nil},
		{"default above one", 1.5, nil},
		{"per-axis at one", 0.1, map[int]float64{0: 1}},
		{"per-axis negative", 0.1, map[int]float64{3: -0.2}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewFilter(tc.dead, tc.perAxis); err == nil {
				t.Error("Expected error for invalid dead zone")
			}
		})
	}
}
