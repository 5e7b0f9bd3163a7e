package Switch

import (
	"VeraoNet/Consensus"
	"VeraoNet/Metrics"

	"github.com/montanaflynn/stats"
)

// DefaultWindow is how many recent observations Summary keeps per label
const DefaultWindow = 10000

// Summary counts every decision of a switcher run. Latency and user statistics cover
// only the last window observations of each label so a long interval run stays bounded.
type Summary struct {
	window  int
	counts  map[Consensus.Label]int
	latency map[Consensus.Label]stats.Float64Data
	users   map[Consensus.Label]stats.Float64Data
}

// NewSummary keeps window observations per label; window <= 0 uses DefaultWindow
func NewSummary(window int) *Summary {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Summary{
		window:  window,
		counts:  make(map[Consensus.Label]int),
		latency: make(map[Consensus.Label]stats.Float64Data),
		users:   make(map[Consensus.Label]stats.Float64Data),
	}
}

func (s *Summary) Add(l Consensus.Label, m Metrics.NodeMetrics) {
	s.counts[l]++
	s.latency[l] = push(s.latency[l], float64(m.LatencyMS), s.window)
	s.users[l] = push(s.users[l], float64(m.ActiveUsers), s.window)
}

// push appends v and drops the oldest values beyond window
func push(data stats.Float64Data, v float64, window int) stats.Float64Data {
	data = append(data, v)
	if len(data) > window {
		data = append(data[:0], data[len(data)-window:]...)
	}
	return data
}

// Decisions is how often l was selected over the whole run
func (s *Summary) Decisions(l Consensus.Label) int {
	return s.counts[l]
}

type LabelReport struct {
	Label         Consensus.Label
	Decisions     int
	MeanLatency   float64
	MedianLatency float64
	P95Latency    float64
	MeanUsers     float64
}

// Report describes every label selected at least once, in cycle order. The
// statistics cover the current window.
func (s *Summary) Report() ([]LabelReport, error) {

	var reports []LabelReport
	for _, l := range Consensus.Cycle {
		lat := s.latency[l]
		if len(lat) == 0 {
			continue
		}

		r := LabelReport{Label: l, Decisions: s.counts[l]}
		var err error
		if r.MeanLatency, err = stats.Mean(lat); err != nil {
			return nil, err
		}
		if r.MedianLatency, err = stats.Median(lat); err != nil {
			return nil, err
		}
		if len(lat) == 1 {
			r.P95Latency = lat[0]
		} else if r.P95Latency, err = stats.Percentile(lat, 95); err != nil {
			return nil, err
		}
		if r.MeanUsers, err = stats.Mean(s.users[l]); err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, nil

}
