package circuit

import (
	"fmt"

	"github.com/CRISvsGAME/sirc-go/pkg/logicvalue"
)

// NodeID, DeviceID and TransistorID are dense, monotonic identifiers
// allocated by three separate counters — ids collide across categories but
// never within one. They double as direct indices into the Store's
// node/device/transistor arenas.
type NodeID int32
type DeviceID int32
type TransistorID int32

// NodeKind distinguishes an ordinary electrical junction from the control
// terminal of a transistor.
type NodeKind uint8

const (
	BaseNode NodeKind = iota
	GateNode
)

func (k NodeKind) String() string {
	if k == GateNode {
		return "GATE"
	}
	return "BASE"
}

// Node is a passive connection point in the circuit graph.
type Node struct {
	ID       NodeID
	Kind     NodeKind
	Default  logicvalue.Value // driven by the owning device
	Resolved logicvalue.Value // last value written by the solver; Z initially
}

// String renders the canonical debug form mandated by the embedder
// interface: substrings are load-bearing, whitespace and ordering are not.
func (n Node) String() string {
	return fmt.Sprintf("<Node id=%d kind=%s default_value=%s resolved_value=%s>", n.ID, n.Kind, n.Default, n.Resolved)
}

// DeviceKind is the discriminant of the tagged single-terminal device sum.
type DeviceKind uint8

const (
	GND DeviceKind = iota
	VDD
	InputDevice
	ProbeDevice
	PortDevice
)

func (k DeviceKind) String() string {
	switch k {
	case GND:
		return "GND"
	case VDD:
		return "VDD"
	case InputDevice:
		return "Input"
	case ProbeDevice:
		return "Probe"
	case PortDevice:
		return "Port"
	default:
		return "Unknown"
	}
}

// Device is a tagged single-terminal owner of exactly one BASE node.
type Device struct {
	ID   DeviceID
	Kind DeviceKind
	Node NodeID
}

// TransistorKind is the discriminant of the tagged transistor sum.
type TransistorKind uint8

const (
	NMOS TransistorKind = iota
	PMOS
)

func (k TransistorKind) String() string {
	if k == PMOS {
		return "PMOS"
	}
	return "NMOS"
}

// Transistor is a three-terminal, gate-controlled, bidirectional switch.
// Source and Drain are interchangeable; the channel is undirected.
type Transistor struct {
	ID     TransistorID
	Kind   TransistorKind
	Gate   NodeID
	Source NodeID
	Drain  NodeID
}

// String renders the canonical debug form for a transistor.
func (t Transistor) String() string {
	return fmt.Sprintf("<%s id=%d gate=%d source=%d drain=%d>", t.Kind, t.ID, t.Gate, t.Source, t.Drain)
}

// IsConducting reports whether the transistor's channel is open given the
// current resolved value of its gate node. All gate values other than the
// one that turns the device on (X, Z, or the opposite rail) leave it
// non-conducting.
func (t Transistor) IsConducting(gateResolved logicvalue.Value) bool {
	switch t.Kind {
	case NMOS:
		return gateResolved == logicvalue.One
	case PMOS:
		return gateResolved == logicvalue.Zero
	default:
		return false
	}
}

// wirePair is an unordered pair of distinct node ids, canonically stored
// with the smaller id first so that (a,b) and (b,a) hash identically.
type wirePair struct {
	lo, hi NodeID
}

func canonicalWire(a, b NodeID) wirePair {
	if a <= b {
		return wirePair{a, b}
	}
	return wirePair{b, a}
}
