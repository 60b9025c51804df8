package circuit

import (
	"github.com/CRISvsGAME/sirc-go/pkg/logicvalue"
)

// Store is a value-typed arena holding every node, device, transistor and
// wire registered for one circuit. Nodes, devices, transistors and wires
// are append-only once registered: the engine does not support deletion
// after BuildTopology.
type Store struct {
	nodes       []Node
	devices     []Device
	transistors []Transistor

	wires     []wirePair
	wireIndex map[wirePair]int

	// gateToTransistor maps a GATE node id to the index of the transistor it
	// controls. A node id absent from this map is not a gate.
	gateToTransistor map[NodeID]int

	built bool

	staticNeighbors  [][]NodeID
	dynamicNeighbors [][]NodeID

	// component-solver scratch, reused across ticks to avoid per-iteration
	// allocation.
	visited         []bool
	stack           []NodeID
	groupScratch    []NodeID
	scratchDefaults []logicvalue.Value
}

// NewStore returns an empty circuit arena ready for construction.
func NewStore() *Store {
	return &Store{
		wireIndex:        make(map[wirePair]int),
		gateToTransistor: make(map[NodeID]int),
	}
}

func (s *Store) addNode(kind NodeKind, def logicvalue.Value) NodeID {
	id := NodeID(len(s.nodes))
	s.nodes = append(s.nodes, Node{ID: id, Kind: kind, Default: def, Resolved: logicvalue.Z})
	return id
}

func (s *Store) addDevice(kind DeviceKind, node NodeID) DeviceID {
	id := DeviceID(len(s.devices))
	s.devices = append(s.devices, Device{ID: id, Kind: kind, Node: node})
	return id
}

// AddGND registers a GND device: a BASE node forced to Zero.
func (s *Store) AddGND() (DeviceID, NodeID, error) {
	if s.built {
		return 0, 0, &RegistrationError{Op: "AddGND"}
	}
	n := s.addNode(BaseNode, logicvalue.Zero)
	return s.addDevice(GND, n), n, nil
}

// AddVDD registers a VDD device: a BASE node forced to One.
func (s *Store) AddVDD() (DeviceID, NodeID, error) {
	if s.built {
		return 0, 0, &RegistrationError{Op: "AddVDD"}
	}
	n := s.addNode(BaseNode, logicvalue.One)
	return s.addDevice(VDD, n), n, nil
}

// AddInput registers a mutable Input device, initially driven with initial.
func (s *Store) AddInput(initial logicvalue.Value) (DeviceID, NodeID, error) {
	if s.built {
		return 0, 0, &RegistrationError{Op: "AddInput"}
	}
	n := s.addNode(BaseNode, initial)
	return s.addDevice(InputDevice, n), n, nil
}

// AddProbe registers a read-only Probe device; its node's default stays Z.
func (s *Store) AddProbe() (DeviceID, NodeID, error) {
	if s.built {
		return 0, 0, &RegistrationError{Op: "AddProbe"}
	}
	n := s.addNode(BaseNode, logicvalue.Z)
	return s.addDevice(ProbeDevice, n), n, nil
}

// AddPort registers a passive Port device; its node's default stays Z.
func (s *Store) AddPort() (DeviceID, NodeID, error) {
	if s.built {
		return 0, 0, &RegistrationError{Op: "AddPort"}
	}
	n := s.addNode(BaseNode, logicvalue.Z)
	return s.addDevice(PortDevice, n), n, nil
}

// Terminals names the three nodes a transistor creation call allocates.
type Terminals struct {
	Gate, Source, Drain NodeID
}

func (s *Store) addTransistor(kind TransistorKind) (TransistorID, Terminals, error) {
	if s.built {
		return 0, Terminals{}, &RegistrationError{Op: "AddTransistor"}
	}

	gate := s.addNode(GateNode, logicvalue.Z)
	source := s.addNode(BaseNode, logicvalue.Z)
	drain := s.addNode(BaseNode, logicvalue.Z)

	if err := validateTransistorTerminals(s.nodes[gate], s.nodes[source], s.nodes[drain]); err != nil {
		return 0, Terminals{}, err
	}

	id := TransistorID(len(s.transistors))
	s.transistors = append(s.transistors, Transistor{ID: id, Kind: kind, Gate: gate, Source: source, Drain: drain})
	s.gateToTransistor[gate] = int(id)

	return id, Terminals{Gate: gate, Source: source, Drain: drain}, nil
}

// validateTransistorTerminals enforces the ConstructionError invariants: the
// gate must be GATE-kind, source and drain must be BASE-kind, and all three
// node ids must be pairwise distinct. Exercised directly by white-box tests
// since AddNMOS/AddPMOS can never violate it through the public API (they
// always allocate three fresh, correctly-kinded nodes).
func validateTransistorTerminals(gate, source, drain Node) error {
	if gate.Kind != GateNode {
		return &ConstructionError{Op: "NewTransistor", Message: "gate terminal is not GATE-kind"}
	}
	if source.Kind != BaseNode {
		return &ConstructionError{Op: "NewTransistor", Message: "source terminal is not BASE-kind"}
	}
	if drain.Kind != BaseNode {
		return &ConstructionError{Op: "NewTransistor", Message: "drain terminal is not BASE-kind"}
	}
	if gate.ID == source.ID || gate.ID == drain.ID || source.ID == drain.ID {
		return &ConstructionError{Op: "NewTransistor", Message: "transistor terminals must be pairwise distinct"}
	}
	return nil
}

// AddNMOS registers an n-type transistor: conducts iff its gate resolves to One.
func (s *Store) AddNMOS() (TransistorID, Terminals, error) {
	return s.addTransistor(NMOS)
}

// AddPMOS registers a p-type transistor: conducts iff its gate resolves to Zero.
func (s *Store) AddPMOS() (TransistorID, Terminals, error) {
	return s.addTransistor(PMOS)
}

// Connect records an undirected wire between two nodes. Self-wires are
// no-ops; duplicate wires are no-ops; the wire set is a set, not a
// multiset.
func (s *Store) Connect(a, b NodeID) error {
	if s.built {
		return &RegistrationError{Op: "Connect"}
	}
	if a == b {
		return nil
	}
	w := canonicalWire(a, b)
	if _, exists := s.wireIndex[w]; exists {
		return nil
	}
	s.wireIndex[w] = len(s.wires)
	s.wires = append(s.wires, w)
	return nil
}

// Disconnect removes a previously-recorded wire via swap-pop, fixing up the
// moved entry's index. It is only meaningful on the pre-build staging
// collection.
func (s *Store) Disconnect(a, b NodeID) error {
	if s.built {
		return &RegistrationError{Op: "Disconnect"}
	}
	if a == b {
		return nil
	}
	w := canonicalWire(a, b)
	idx, exists := s.wireIndex[w]
	if !exists {
		return nil
	}

	last := len(s.wires) - 1
	s.wires[idx] = s.wires[last]
	s.wires = s.wires[:last]
	delete(s.wireIndex, w)
	if idx < len(s.wires) {
		s.wireIndex[s.wires[idx]] = idx
	}
	return nil
}

// SetInput mutates a specific Input device's driven value. id must name a
// device registered by AddInput.
func (s *Store) SetInput(id DeviceID, v logicvalue.Value) error {
	if int(id) < 0 || int(id) >= len(s.devices) {
		return &ConstructionError{Op: "SetInput", Message: "unknown device id"}
	}
	dev := s.devices[id]
	if dev.Kind != InputDevice {
		return &ConstructionError{Op: "SetInput", Message: "device is not an Input"}
	}
	s.nodes[dev.Node].Default = v
	return nil
}

// Probe samples the most recently resolved value of a Probe device's node.
// Requires BuildTopology to have run at least once.
func (s *Store) Probe(id DeviceID) (logicvalue.Value, error) {
	if !s.built {
		return logicvalue.Z, &UseBeforeBuildError{Op: "Probe"}
	}
	if int(id) < 0 || int(id) >= len(s.devices) {
		return logicvalue.Z, &ConstructionError{Op: "Probe", Message: "unknown device id"}
	}
	dev := s.devices[id]
	if dev.Kind != ProbeDevice {
		return logicvalue.Z, &ConstructionError{Op: "Probe", Message: "device is not a Probe"}
	}
	return s.nodes[dev.Node].Resolved, nil
}

// Built reports whether BuildTopology has run.
func (s *Store) Built() bool { return s.built }

// NodeCount returns the number of registered nodes.
func (s *Store) NodeCount() int { return len(s.nodes) }

// TransistorCount returns the number of registered transistors.
func (s *Store) TransistorCount() int { return len(s.transistors) }

// Node returns a copy of the node with the given id, for debug/inspection.
func (s *Store) Node(id NodeID) Node { return s.nodes[id] }

// Transistor returns a copy of the transistor with the given id.
func (s *Store) Transistor(id TransistorID) Transistor { return s.transistors[id] }

// Device returns a copy of the device with the given id.
func (s *Store) Device(id DeviceID) Device { return s.devices[id] }

// StaticNeighbors returns node id's statically-wired neighbors, valid after
// BuildTopology.
func (s *Store) StaticNeighbors(id NodeID) []NodeID { return s.staticNeighbors[id] }
