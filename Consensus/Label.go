package Consensus

import (
	"fmt"
	"strings"
)

// Label is one of the four consensus mechanisms metrics are attributed to
type Label string

const (
	PoW  Label = "PoW"
	APoW Label = "APoW"
	PoS  Label = "PoS"
	DPoS Label = "DPoS"
)

// Cycle is the round-robin order steps are labelled in
var Cycle = [...]Label{PoW, APoW, PoS, DPoS}

// ForStep returns the label of a 1-based step
func ForStep(step int) Label {

	idx := (step - 1) % len(Cycle)
	if idx < 0 {
		idx += len(Cycle)
	}
	return Cycle[idx]

}

// Parse matches a label name, ignoring case
func Parse(s string) (Label, error) {

	for _, l := range Cycle {
		if strings.EqualFold(strings.TrimSpace(s), string(l)) {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown consensus %q", s)

}
