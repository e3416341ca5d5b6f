package main

import (
	"math"
	"testing"
)

func TestComputeSampleStatsBasic(t *testing.T) {
	stats := computeSampleStats([]float64{1, 2, 3, 4, 5})
	if stats.N != 5 {
		t.Fatalf("N = %d, want 5", stats.N)
	}
	if stats.Avg != 3 {
		t.Errorf("Avg = %v, want 3", stats.Avg)
	}
	if stats.Min != 1 || stats.Max != 5 {
		t.Errorf("Min/Max = %v/%v, want 1/5", stats.Min, stats.Max)
	}
	wantSdev := math.Sqrt(2) // population variance of {1..5} is 2
	if math.Abs(stats.Sdev-wantSdev) > 1e-9 {
		t.Errorf("Sdev = %v, want %v", stats.Sdev, wantSdev)
	}
}

func TestComputeSampleStatsEmpty(t *testing.T) {
	stats := computeSampleStats(nil)
	if stats.N != 0 {
		t.Fatalf("N = %d, want 0", stats.N)
	}
}

func TestComputeSampleStatsSingleValueHasZeroSdev(t *testing.T) {
	stats := computeSampleStats([]float64{7})
	if stats.Sdev != 0 {
		t.Errorf("Sdev = %v, want 0 for a single sample", stats.Sdev)
	}
	if stats.Avg != 7 || stats.Min != 7 || stats.Max != 7 {
		t.Errorf("got %+v, want avg=min=max=7", stats)
	}
}
