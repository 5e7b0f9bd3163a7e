package Consensus

import (
	"VeraoNet/Metrics"
	"fmt"
)

// Thresholds drive Decide. Loads are user counts, LatencyThreshold is in ms and
// EnergyThreshold is normalized to 0..1.
type Thresholds struct {
	LowLoad          int     `json:"low_load" toml:"low_load" yaml:"low_load"`
	MediumLoad       int     `json:"medium_load" toml:"medium_load" yaml:"medium_load"`
	HighLoad         int     `json:"high_load" toml:"high_load" yaml:"high_load"`
	LatencyThreshold int     `json:"latency_threshold" toml:"latency_threshold" yaml:"latency_threshold"`
	EnergyThreshold  float64 `json:"energy_threshold" toml:"energy_threshold" yaml:"energy_threshold"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		LowLoad:          250,
		MediumLoad:       2500,
		HighLoad:         7000,
		LatencyThreshold: 500,
		EnergyThreshold:  0.8,
	}
}

// Validate rejects non-positive thresholds and out of order loads
func (t Thresholds) Validate() error {

	if t.LowLoad <= 0 || t.MediumLoad <= 0 || t.HighLoad <= 0 {
		return fmt.Errorf("invalid load thresholds: low=%d med=%d high=%d", t.LowLoad, t.MediumLoad, t.HighLoad)
	}
	if t.LowLoad > t.MediumLoad || t.MediumLoad > t.HighLoad {
		return fmt.Errorf("load thresholds not ascending: low=%d med=%d high=%d", t.LowLoad, t.MediumLoad, t.HighLoad)
	}
	if t.LatencyThreshold <= 0 {
		return fmt.Errorf("invalid latency threshold: %dms", t.LatencyThreshold)
	}
	if t.EnergyThreshold <= 0 {
		return fmt.Errorf("invalid energy threshold: %v", t.EnergyThreshold)
	}
	return nil

}

// Decide picks the consensus for one observation and says why. Latency and energy
// guardrails are checked before load.
func Decide(m Metrics.NodeMetrics, t Thresholds) (Label, string) {

	if m.LatencyMS > t.LatencyThreshold || m.EnergyNormalized > t.EnergyThreshold {
		if m.ActiveUsers >= t.MediumLoad {
			return DPoS, "latency/energy over threshold at medium-high load -> DPoS"
		}
		return PoS, "latency/energy over threshold at low-medium load -> PoS"
	}

	switch {
	case m.ActiveUsers < t.LowLoad:
		return PoW, "low load -> PoW"
	case m.ActiveUsers < t.MediumLoad:
		return APoW, "medium load -> APoW"
	case m.ActiveUsers < t.HighLoad:
		return PoS, "high load -> PoS"
	default:
		return DPoS, "very high load -> DPoS"
	}

}
