package engagement

// Mean accumulates an unweighted arithmetic mean.
type Mean struct {
	sum   float64
	count int
}

// Add records one observation.
func (m *Mean) Add(v float64) {
	m.sum += v
	m.count++
}

// Count returns the number of observations.
func (m *Mean) Count() int { return m.count }

// Value returns the mean, or nil when nothing was added.
func (m *Mean) Value() *float64 {
	if m.count == 0 {
		return nil
	}
	v := m.sum / float64(m.count)
	return &v
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// Fraction returns num/den clamped to [0,1], or nil when den is not positive.
func Fraction(num, den float64) *float64 {
	if den <= 0 {
		return nil
	}
	v := clamp01(num / den)
	return &v
}
