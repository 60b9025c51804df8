package circuit

// BuildTopology freezes the static edge list into adjacency arrays. It must
// be called at least once before the first Tick or Probe. Calling it again
// is idempotent: prior topology state is discarded and rebuilt from the
// current node/wire set, which must not change afterwards.
func (s *Store) BuildTopology() {
	n := len(s.nodes)

	s.staticNeighbors = make([][]NodeID, n)
	s.dynamicNeighbors = make([][]NodeID, n)
	for _, w := range s.wires {
		s.staticNeighbors[w.lo] = append(s.staticNeighbors[w.lo], w.hi)
		s.staticNeighbors[w.hi] = append(s.staticNeighbors[w.hi], w.lo)
	}

	s.visited = make([]bool, n)
	s.stack = s.stack[:0]
	s.groupScratch = s.groupScratch[:0]
	s.scratchDefaults = s.scratchDefaults[:0]

	s.built = true
}

// rebuildDynamicTopology clears every dynamic adjacency slice in place (not
// freeing the backing array) and re-derives dynamic edges from transistors
// whose channel currently conducts, based on the latest resolved gate
// values.
func (s *Store) rebuildDynamicTopology() {
	for i := range s.dynamicNeighbors {
		s.dynamicNeighbors[i] = s.dynamicNeighbors[i][:0]
	}
	for _, t := range s.transistors {
		gateVal := s.nodes[t.Gate].Resolved
		if !t.IsConducting(gateVal) {
			continue
		}
		s.dynamicNeighbors[t.Drain] = append(s.dynamicNeighbors[t.Drain], t.Source)
		s.dynamicNeighbors[t.Source] = append(s.dynamicNeighbors[t.Source], t.Drain)
	}
}
