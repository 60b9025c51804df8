// Package sim implements the fixed-point driver that settles a circuit.Store
// to a stable assignment for the current input values.
package sim

import (
	"fmt"

	"github.com/CRISvsGAME/sirc-go/pkg/circuit"
	"github.com/CRISvsGAME/sirc-go/pkg/logicvalue"
)

// Status is the terminal state of a Tick.
type Status int

const (
	Settled Status = iota
	NonConvergent
)

func (s Status) String() string {
	if s == NonConvergent {
		return "NonConvergent"
	}
	return "Settled"
}

// Outcome reports how a Tick finished and how many fixed-point iterations
// it took.
type Outcome struct {
	Status     Status
	Iterations int
}

func (o Outcome) String() string {
	return fmt.Sprintf("%s(%d)", o.Status, o.Iterations)
}

// minIterCap is the floor of the iteration cap regardless of transistor
// count, so that tiny combinational loops still get a few rounds to settle
// or be declared non-convergent.
const minIterCap = 16

// Tick runs the fixed-point state machine: Seed, then iterate
// BuildDynamic -> Resolve -> Check until no GATE node's resolved value
// changes, or the iteration cap is hit.
//
// The combined resolve-and-reevaluate step is not monotone in general — a
// gate can oscillate across iterations if the netlist contains a
// combinational loop (an SR latch driven into metastability, a ring
// oscillator). The cap bounds that: on exhaustion, every node that flipped
// across the final two iterations is forced to X and NonConvergent is
// reported. The store remains usable afterwards.
func Tick(s *circuit.Store) (Outcome, error) {
	if !s.Built() {
		return Outcome{}, &circuit.UseBeforeBuildError{Op: "Tick"}
	}

	s.Seed()

	maxIter := 2*s.TransistorCount() + minIterCap

	n := s.NodeCount()
	bufs := [3][]logicvalue.Value{
		make([]logicvalue.Value, n),
		make([]logicvalue.Value, n),
		make([]logicvalue.Value, n),
	}

	iter := 0
	for ; iter < maxIter; iter++ {
		s.RebuildDynamic()
		gateChanged := s.ResolveComponents()
		s.SnapshotResolved(bufs[iter%3])

		if !gateChanged {
			return Outcome{Status: Settled, Iterations: iter + 1}, nil
		}
	}

	// Cap exhausted: iter == maxIter here, and the live node state already
	// holds the snapshot for iteration maxIter. bufs[(iter-2)%3] and
	// bufs[(iter-3)%3] hold iterations maxIter-1 and maxIter-2
	// respectively (guaranteed to exist since maxIter >= minIterCap >= 3),
	// giving the three-iteration window needed to detect a node that
	// flipped at either of the final two transitions.
	prev1 := bufs[(iter-2)%3]
	prev2 := bufs[(iter-3)%3]
	s.ForceOscillatingToX(prev1, prev2)

	return Outcome{Status: NonConvergent, Iterations: maxIter}, nil
}
