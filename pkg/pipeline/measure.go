package pipeline

import (
	"sort"
	"time"
)

// Metric accumulates the execution time of one operation name across runs.
type Metric struct {
	Name  string
	Count int64
	Total time.Duration
}

// Avg returns the average duration of one execution.
func (m Metric) Avg() time.Duration {
	if m.Count == 0 {
		return 0
	}

	return m.Total / time.Duration(m.Count)
}

type measure struct {
	metrics map[string]*Metric
}

func newMeasure() *measure {
	return &measure{metrics: make(map[string]*Metric)}
}

func (m *measure) add(name string, elapsed time.Duration) {
	metric, ok := m.metrics[name]
	if !ok {
		metric = &Metric{Name: name}
		m.metrics[name] = metric
	}
	metric.Count++
	metric.Total += elapsed
}

// Metrics returns per-operation timings sorted by name. It is empty unless
// the pipeline was built with WithMeasure.
func (p *Pipeline) Metrics() []Metric {
	if p.measure == nil {
		return nil
	}

	out := make([]Metric, 0, len(p.measure.metrics))
	for _, metric := range p.measure.metrics {
		out = append(out, *metric)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}
