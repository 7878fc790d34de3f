package book

import (
	"encoding/json"
	"testing"
)

func TestSampleMarshalJSON(t *testing.T) {
	tests := []struct {
		name   string
		sample Sample
		want   string
	}{
		{"valid price", Sample{Price: 101.25, Valid: true}, "101.25"},
		{"absent", Sample{}, "null"},
		{"zero price still a price", Sample{Price: 0, Valid: true}, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.sample)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSeriesEvictsOldestFirst(t *testing.T) {
	var s series
	for i := 0; i < maxSamples+10; i++ {
		s.push(Sample{Price: float64(i), Valid: true})
	}

	if s.len() != maxSamples {
		t.Fatalf("length %d, want %d", s.len(), maxSamples)
	}
	snap := s.snapshot()
	if snap[0].Price != 10 {
		t.Errorf("oldest retained sample %v, want 10", snap[0].Price)
	}
	if snap[len(snap)-1].Price != float64(maxSamples+9) {
		t.Errorf("newest sample %v, want %d", snap[len(snap)-1].Price, maxSamples+9)
	}
}

func TestSeriesSnapshotIsCopy(t *testing.T) {
	var s series
	s.push(Sample{Price: 1, Valid: true})

	snap := s.snapshot()
	snap[0].Price = 42
	if s.samples[0].Price != 1 {
		t.Error("snapshot aliases internal storage")
	}
}
