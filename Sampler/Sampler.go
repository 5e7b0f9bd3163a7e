// Package Sampler holds every random draw the generator makes. All draws go through one
// *rand.Rand so a seed reproduces a whole run.
package Sampler

import (
	"VeraoNet/Consensus"
	"VeraoNet/Metrics"
	"math"
	"math/rand"
)

// MinUsers is the floor applied to every sampled user count
const MinUsers = 5

// Bracket is a half-open uniform range [Min, Max)
type Bracket struct {
	Min, Max float64
}

var (
	latencyMultiplier = map[Consensus.Label]Bracket{
		Consensus.PoW:  {2.0, 3.0},
		Consensus.APoW: {1.4, 2.1},
		Consensus.PoS:  {0.6, 0.9},
		Consensus.DPoS: {0.45, 0.75},
	}
	gasGwei = map[Consensus.Label]Bracket{
		Consensus.PoW:  {30000, 50000},
		Consensus.APoW: {26000, 47000},
		Consensus.PoS:  {2000, 5000},
		Consensus.DPoS: {5000, 12000},
	}
	energyNormalized = map[Consensus.Label]Bracket{
		Consensus.PoW:  {0.75, 0.95},
		Consensus.APoW: {0.55, 0.75},
		Consensus.PoS:  {0.10, 0.25},
		Consensus.DPoS: {0.15, 0.30},
	}
)

// LatencyMultiplier, GasBracket and EnergyBracket expose the per-consensus ranges
func LatencyMultiplier(l Consensus.Label) Bracket { return latencyMultiplier[l] }
func GasBracket(l Consensus.Label) Bracket        { return gasGwei[l] }
func EnergyBracket(l Consensus.Label) Bracket     { return energyNormalized[l] }

type Sampler struct {
	rng *rand.Rand
}

func NewSampler(rng *rand.Rand) *Sampler {
	return &Sampler{rng: rng}
}

// Uniform draws from [min, max)
func (s *Sampler) Uniform(min, max float64) float64 {
	return min + (max-min)*s.rng.Float64()
}

func (s *Sampler) draw(b Bracket) float64 {
	return s.Uniform(b.Min, b.Max)
}

// SampleUsers draws a user count around target with stddev max(10, 0.15*target),
// truncated toward zero and floored at MinUsers
func (s *Sampler) SampleUsers(target int) int {

	sigma := math.Max(10, 0.15*float64(target))
	users := int(s.rng.NormFloat64()*sigma + float64(target))
	if users < MinUsers {
		return MinUsers
	}
	return users

}

// SampleRow draws the base measurement for a user count. Only LatencyMS feeds the
// latency table; throughput and energy are drawn to keep the draw sequence intact.
func (s *Sampler) SampleRow(users int) Metrics.NodeMetrics {

	var tps float64
	switch {
	case users < 500:
		tps = s.Uniform(50, 170)
	case users < 5000:
		tps = s.Uniform(200, 600)
	default:
		tps = s.Uniform(500, 1400)
	}
	latency := int(s.Uniform(80, 220))
	energy := s.Uniform(0.05, 0.20)

	return Metrics.NodeMetrics{
		ActiveUsers:      users,
		ThroughputTPS:    Round(tps, 2),
		LatencyMS:        latency,
		EnergyNormalized: Round(energy, 3),
	}
}

// Latency scales a base latency by the consensus multiplier
func (s *Sampler) Latency(l Consensus.Label, base int) int {
	return int(float64(base) * s.draw(latencyMultiplier[l]))
}

func (s *Sampler) Gas(l Consensus.Label) int {
	return int(s.draw(gasGwei[l]))
}

func (s *Sampler) Energy(l Consensus.Label) float64 {
	return Round(s.draw(energyNormalized[l]), 3)
}

// Round rounds half away from zero to the given decimal places
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
