// Package factory stamps named handles onto a circuit.Store, mirroring the
// id-stamping factories (NodeFactory, LogicDeviceFactory, TransistorFactory)
// that the original implementation composes in front of its simulator
// state. circuit.Store itself only hands out anonymous, dense ids; Registry
// is the naming layer that lets a netlist or a hand-written test refer to
// "vdd" or "inv3.gate" instead of a bare integer.
package factory

import (
	"fmt"

	"github.com/CRISvsGAME/sirc-go/pkg/circuit"
	"github.com/CRISvsGAME/sirc-go/pkg/logicvalue"
)

// Registry binds human-readable names to the node, device and transistor
// handles a circuit.Store allocates. It is pre-build scaffolding only: once
// the underlying store is built, names already bound remain resolvable but
// no new ones can be registered.
type Registry struct {
	store *circuit.Store

	nodes       map[string]circuit.NodeID
	devices     map[string]circuit.DeviceID
	transistors map[string]circuit.TransistorID
}

// New returns a Registry stamping names onto store.
func New(store *circuit.Store) *Registry {
	return &Registry{
		store:       store,
		nodes:       make(map[string]circuit.NodeID),
		devices:     make(map[string]circuit.DeviceID),
		transistors: make(map[string]circuit.TransistorID),
	}
}

func (r *Registry) bindNode(name string, id circuit.NodeID) error {
	if _, exists := r.nodes[name]; exists {
		return fmt.Errorf("factory: identifier %q already bound", name)
	}
	r.nodes[name] = id
	return nil
}

// DefineGND registers a GND device under name.
func (r *Registry) DefineGND(name string) (circuit.DeviceID, error) {
	dev, node, err := r.store.AddGND()
	if err != nil {
		return 0, err
	}
	if err := r.bindNode(name, node); err != nil {
		return 0, err
	}
	r.devices[name] = dev
	return dev, nil
}

// DefineVDD registers a VDD device under name.
func (r *Registry) DefineVDD(name string) (circuit.DeviceID, error) {
	dev, node, err := r.store.AddVDD()
	if err != nil {
		return 0, err
	}
	if err := r.bindNode(name, node); err != nil {
		return 0, err
	}
	r.devices[name] = dev
	return dev, nil
}

// DefineInput registers a mutable Input device under name, initially driven
// with initial.
func (r *Registry) DefineInput(name string, initial logicvalue.Value) (circuit.DeviceID, error) {
	dev, node, err := r.store.AddInput(initial)
	if err != nil {
		return 0, err
	}
	if err := r.bindNode(name, node); err != nil {
		return 0, err
	}
	r.devices[name] = dev
	return dev, nil
}

// DefineProbe registers a Probe device under name.
func (r *Registry) DefineProbe(name string) (circuit.DeviceID, error) {
	dev, node, err := r.store.AddProbe()
	if err != nil {
		return 0, err
	}
	if err := r.bindNode(name, node); err != nil {
		return 0, err
	}
	r.devices[name] = dev
	return dev, nil
}

// DefinePort registers a passive Port device under name.
func (r *Registry) DefinePort(name string) (circuit.DeviceID, error) {
	dev, node, err := r.store.AddPort()
	if err != nil {
		return 0, err
	}
	if err := r.bindNode(name, node); err != nil {
		return 0, err
	}
	r.devices[name] = dev
	return dev, nil
}

// defineTransistor registers a transistor under name and binds its three
// terminals as "name.gate", "name.source" and "name.drain" so Wire can
// reach them individually.
func (r *Registry) defineTransistor(name string, add func() (circuit.TransistorID, circuit.Terminals, error)) (circuit.TransistorID, error) {
	id, term, err := add()
	if err != nil {
		return 0, err
	}
	if err := r.bindNode(name+".gate", term.Gate); err != nil {
		return 0, err
	}
	if err := r.bindNode(name+".source", term.Source); err != nil {
		return 0, err
	}
	if err := r.bindNode(name+".drain", term.Drain); err != nil {
		return 0, err
	}
	r.transistors[name] = id
	return id, nil
}

// DefineNMOS registers an NMOS transistor under name.
func (r *Registry) DefineNMOS(name string) (circuit.TransistorID, error) {
	return r.defineTransistor(name, r.store.AddNMOS)
}

// DefinePMOS registers a PMOS transistor under name.
func (r *Registry) DefinePMOS(name string) (circuit.TransistorID, error) {
	return r.defineTransistor(name, r.store.AddPMOS)
}

// Resolve looks up a previously bound identifier: a device name, or a
// transistor terminal name of the form "name.gate"/"name.source"/"name.drain".
func (r *Registry) Resolve(name string) (circuit.NodeID, error) {
	id, ok := r.nodes[name]
	if !ok {
		return 0, fmt.Errorf("factory: unknown identifier %q", name)
	}
	return id, nil
}

// Wire connects two previously bound identifiers.
func (r *Registry) Wire(a, b string) error {
	na, err := r.Resolve(a)
	if err != nil {
		return err
	}
	nb, err := r.Resolve(b)
	if err != nil {
		return err
	}
	return r.store.Connect(na, nb)
}

// Device resolves a device name to its id.
func (r *Registry) Device(name string) (circuit.DeviceID, error) {
	id, ok := r.devices[name]
	if !ok {
		return 0, fmt.Errorf("factory: unknown device %q", name)
	}
	return id, nil
}

// ProbeNames returns the names of every device registered via DefineProbe.
func (r *Registry) ProbeNames() []string {
	var names []string
	for name, id := range r.devices {
		if r.store.Device(id).Kind == circuit.ProbeDevice {
			names = append(names, name)
		}
	}
	return names
}
