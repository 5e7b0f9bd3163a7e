package Consensus

// Node is what main.go starts for the selected mode: the metrics generator or the
// adaptive switcher
type Node interface {
	Run() error
}
