package model

// MetricResult is the uniform envelope returned by every analytics operation.
// Value holds a float64, a string ("N/A", "Infinite", "27 days") or a structured payload.
type MetricResult struct {
	Value       any            `json:"value"`
	Inputs      map[string]any `json:"inputs"`
	Metric      string         `json:"metric"`
	Risk        RiskLevel      `json:"risk"`
	Explanation string         `json:"explanation"`
}

// Number returns Value as a float64 when it holds one.
func (m *MetricResult) Number() (float64, bool) {
	if m == nil {
		return 0, false
	}
	v, ok := m.Value.(float64)
	return v, ok
}

// Input returns a numeric input by name.
func (m *MetricResult) Input(name string) (float64, bool) {
	if m == nil || m.Inputs == nil {
		return 0, false
	}
	v, ok := m.Inputs[name].(float64)
	return v, ok
}
