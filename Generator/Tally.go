package Generator

import (
	"VeraoNet/Consensus"
	"math"
)

// Aggregate is a running count/min/max/sum. It keeps no samples.
type Aggregate struct {
	Count int
	Min   float64
	Max   float64
	Sum   float64
}

func (a *Aggregate) Add(v float64) {

	if a.Count == 0 {
		a.Min, a.Max = v, v
	} else {
		a.Min = math.Min(a.Min, v)
		a.Max = math.Max(a.Max, v)
	}
	a.Count++
	a.Sum += v

}

func (a Aggregate) Mean() float64 {
	if a.Count == 0 {
		return 0
	}
	return a.Sum / float64(a.Count)
}

// LabelTally aggregates one consensus label across the three tables
type LabelTally struct {
	Users   Aggregate
	Latency Aggregate
	Gas     Aggregate
	Energy  Aggregate
}

// Tally is the per-label summary of a generator run
type Tally map[Consensus.Label]*LabelTally

func (t Tally) add(label Consensus.Label, users, latency, gas int, energy float64) {

	lt, ok := t[label]
	if !ok {
		lt = new(LabelTally)
		t[label] = lt
	}
	lt.Users.Add(float64(users))
	lt.Latency.Add(float64(latency))
	lt.Gas.Add(float64(gas))
	lt.Energy.Add(energy)

}
