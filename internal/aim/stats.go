package aim

import "fmt"

// Stats is a snapshot of engine counters.
type Stats struct {
	// Decisions is the number of heuristic evaluations.
	Decisions uint64
	// Delayed is how many of those returned a delay.
	Delayed uint64
	// Activations counts Activate notifications.
	Activations uint64
	// Deactivations counts Deactivate notifications.
	Deactivations uint64
	// StaleFires counts timer callbacks that lost their slot before running.
	StaleFires uint64
}

// String formats the counters for a status line.
func (s Stats) String() string {
	return fmt.Sprintf("decisions=%d delayed=%d activations=%d deactivations=%d stale=%d",
		s.Decisions, s.Delayed, s.Activations, s.Deactivations, s.StaleFires)
}

// Stats returns the current counters.
func (e *Engine[R]) Stats() Stats {
	return Stats{
		Decisions:     e.stats.decisions.Load(),
		Delayed:       e.stats.delayed.Load(),
		Activations:   e.stats.activations.Load(),
		Deactivations: e.stats.deactivations.Load(),
		StaleFires:    e.stats.staleFires.Load(),
	}
}
