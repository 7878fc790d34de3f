package book

import "encoding/json"

// maxSamples caps each price history series at the most recent samples.
const maxSamples = 250

// Sample is one point of a price series. An invalid sample marks an instant
// where the side (or either side, for mids) was empty; it marshals as null so
// chart consumers see a gap instead of a fabricated price.
type Sample struct {
	Price float64
	Valid bool
}

func (s Sample) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(s.Price)
}

func (s *Sample) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Sample{}
		return nil
	}
	var p float64
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = Sample{Price: p, Valid: true}
	return nil
}

// series is a FIFO-bounded price history. Not safe for concurrent use on its
// own; the owning book serializes access.
type series struct {
	samples []Sample
}

func (s *series) push(v Sample) {
	s.samples = append(s.samples, v)
	if len(s.samples) > maxSamples {
		s.samples = s.samples[1:]
	}
}

func (s *series) snapshot() []Sample {
	out := make([]Sample, len(s.samples))
	copy(out, s.samples)
	return out
}

func (s *series) len() int { return len(s.samples) }
