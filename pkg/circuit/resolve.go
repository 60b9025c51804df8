package circuit

import "github.com/CRISvsGAME/sirc-go/pkg/logicvalue"

// Seed resets every node's resolved value to its current default, per the
// fixed-point driver's Seed state. It must run once per Tick before the
// first dynamic-topology build.
func (s *Store) Seed() {
	for i := range s.nodes {
		s.nodes[i].Resolved = s.nodes[i].Default
	}
}

// RebuildDynamic rebuilds dynamic edges from transistor conductance against
// the latest resolved gate values. Exported for the fixed-point driver in
// pkg/sim.
func (s *Store) RebuildDynamic() {
	s.rebuildDynamicTopology()
}

// ResolveComponents computes connected components over the union of static
// and dynamic adjacency with an iterative DFS, multi-resolves each
// component's member defaults, and writes the result into every member's
// resolved value. It reports whether any GATE node's resolved value changed
// from what it held before this call — the Check transition of the
// fixed-point state machine.
func (s *Store) ResolveComponents() (gateChanged bool) {
	n := len(s.nodes)
	for i := 0; i < n; i++ {
		s.visited[i] = false
	}

	for start := 0; start < n; start++ {
		startID := NodeID(start)
		if s.visited[startID] {
			continue
		}

		s.stack = append(s.stack[:0], startID)
		s.visited[startID] = true
		s.groupScratch = s.groupScratch[:0]

		for len(s.stack) > 0 {
			top := s.stack[len(s.stack)-1]
			s.stack = s.stack[:len(s.stack)-1]
			s.groupScratch = append(s.groupScratch, top)

			for _, nb := range s.staticNeighbors[top] {
				if !s.visited[nb] {
					s.visited[nb] = true
					s.stack = append(s.stack, nb)
				}
			}
			for _, nb := range s.dynamicNeighbors[top] {
				if !s.visited[nb] {
					s.visited[nb] = true
					s.stack = append(s.stack, nb)
				}
			}
		}

		s.resolveComponent(s.groupScratch, &gateChanged)
	}

	return gateChanged
}

// resolveComponent computes the wired-OR resolution of one component's
// member defaults and writes it into every member's resolved value,
// flagging gateChanged if a GATE member's resolved value moved.
func (s *Store) resolveComponent(group []NodeID, gateChanged *bool) {
	s.scratchDefaults = s.scratchDefaults[:0]
	for _, id := range group {
		s.scratchDefaults = append(s.scratchDefaults, s.nodes[id].Default)
	}
	v := logicvalue.ResolveAll(s.scratchDefaults)

	for _, id := range group {
		n := &s.nodes[id]
		if n.Kind == GateNode && n.Resolved != v {
			*gateChanged = true
		}
		n.Resolved = v
	}
}

// SnapshotResolved copies every node's current resolved value into dst,
// which must have length NodeCount(). Used by the fixed-point driver to
// detect oscillation once the iteration cap is hit.
func (s *Store) SnapshotResolved(dst []logicvalue.Value) {
	for i := range s.nodes {
		dst[i] = s.nodes[i].Resolved
	}
}

// ForceOscillatingToX forces every node whose resolved value differs
// between the live state and newer, or between newer and older, to X. Used
// when the fixed-point driver's iteration cap is exhausted: a node that has
// flipped across the final two iterations is reported as unknown.
func (s *Store) ForceOscillatingToX(newer, older []logicvalue.Value) {
	for i := range s.nodes {
		if s.nodes[i].Resolved != newer[i] || newer[i] != older[i] {
			s.nodes[i].Resolved = logicvalue.X
		}
	}
}
