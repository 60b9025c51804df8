package sim

import (
	"testing"

	"github.com/CRISvsGAME/sirc-go/pkg/circuit"
	"github.com/CRISvsGAME/sirc-go/pkg/logicvalue"
)

func mustProbe(t *testing.T, s *circuit.Store, id circuit.DeviceID) logicvalue.Value {
	t.Helper()
	v, err := s.Probe(id)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	return v
}

func TestDirectDrive(t *testing.T) {
	s := circuit.NewStore()
	inDev, inNode, _ := s.AddInput(logicvalue.Z)
	probeDev, probeNode, _ := s.AddProbe()
	if err := s.Connect(inNode, probeNode); err != nil {
		t.Fatal(err)
	}
	s.BuildTopology()

	for _, v := range []logicvalue.Value{logicvalue.One, logicvalue.Zero, logicvalue.X, logicvalue.Z} {
		if err := s.SetInput(inDev, v); err != nil {
			t.Fatal(err)
		}
		outcome, err := Tick(s)
		if err != nil {
			t.Fatal(err)
		}
		if outcome.Status != Settled {
			t.Fatalf("Input=%v: outcome=%v, want Settled", v, outcome)
		}
		if got := mustProbe(t, s, probeDev); got != v {
			t.Errorf("Input=%v: probe=%v, want %v", v, got, v)
		}
	}
}

func TestConflict(t *testing.T) {
	s := circuit.NewStore()
	_, gndNode, _ := s.AddGND()
	_, vddNode, _ := s.AddVDD()
	probeDev, probeNode, _ := s.AddProbe()
	s.Connect(gndNode, probeNode)
	s.Connect(vddNode, probeNode)
	s.BuildTopology()

	outcome, err := Tick(s)
	if err != nil {
		t.Fatal(err)
	}
	if outcome.Status != Settled {
		t.Fatalf("outcome=%v, want Settled", outcome)
	}
	if got := mustProbe(t, s, probeDev); got != logicvalue.X {
		t.Errorf("probe=%v, want X", got)
	}
}

// buildInverter wires up one CMOS inverter: VDD--PMOS.Source, GND--NMOS.Source,
// PMOS.Drain==NMOS.Drain (the output net), PMOS.Gate==NMOS.Gate (the input
// net). It returns the input and output net node ids.
func buildInverter(t *testing.T, s *circuit.Store, vdd, gnd circuit.NodeID) (in, out circuit.NodeID) {
	t.Helper()
	_, pTerm, err := s.AddPMOS()
	if err != nil {
		t.Fatal(err)
	}
	_, nTerm, err := s.AddNMOS()
	if err != nil {
		t.Fatal(err)
	}
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(s.Connect(vdd, pTerm.Source))
	must(s.Connect(gnd, nTerm.Source))
	must(s.Connect(pTerm.Drain, nTerm.Drain))
	must(s.Connect(pTerm.Gate, nTerm.Gate))
	return pTerm.Gate, pTerm.Drain
}

func TestCMOSInverter(t *testing.T) {
	s := circuit.NewStore()
	_, gndNode, _ := s.AddGND()
	_, vddNode, _ := s.AddVDD()
	inDev, inNode, _ := s.AddInput(logicvalue.Z)
	probeDev, probeNode, _ := s.AddProbe()

	gate, out := buildInverter(t, s, vddNode, gndNode)
	if err := s.Connect(inNode, gate); err != nil {
		t.Fatal(err)
	}
	if err := s.Connect(out, probeNode); err != nil {
		t.Fatal(err)
	}
	s.BuildTopology()

	tests := []struct {
		in   logicvalue.Value
		want logicvalue.Value
	}{
		{logicvalue.Zero, logicvalue.One},
		{logicvalue.One, logicvalue.Zero},
		{logicvalue.X, logicvalue.Z},
		{logicvalue.Z, logicvalue.Z},
	}
	for _, tt := range tests {
		if err := s.SetInput(inDev, tt.in); err != nil {
			t.Fatal(err)
		}
		if _, err := Tick(s); err != nil {
			t.Fatal(err)
		}
		if got := mustProbe(t, s, probeDev); got != tt.want {
			t.Errorf("Input=%v: probe=%v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInverterChain(t *testing.T) {
	const length = 1001

	s := circuit.NewStore()
	_, gndNode, _ := s.AddGND()
	_, vddNode, _ := s.AddVDD()
	inDev, inNode, _ := s.AddInput(logicvalue.Z)
	probeDev, probeNode, _ := s.AddProbe()

	prev := inNode
	for i := 0; i < length; i++ {
		gate, out := buildInverter(t, s, vddNode, gndNode)
		if err := s.Connect(prev, gate); err != nil {
			t.Fatal(err)
		}
		prev = out
	}
	if err := s.Connect(prev, probeNode); err != nil {
		t.Fatal(err)
	}
	s.BuildTopology()

	for _, tt := range []struct {
		in   logicvalue.Value
		want logicvalue.Value
	}{
		{logicvalue.One, logicvalue.Zero},
		{logicvalue.Zero, logicvalue.One},
	} {
		if err := s.SetInput(inDev, tt.in); err != nil {
			t.Fatal(err)
		}
		outcome, err := Tick(s)
		if err != nil {
			t.Fatal(err)
		}
		if outcome.Status != Settled {
			t.Fatalf("outcome=%v, want Settled", outcome)
		}
		if outcome.Iterations > length+16 {
			t.Errorf("took %d iterations to settle a %d-stage chain, want <= %d", outcome.Iterations, length, length+16)
		}
		if got := mustProbe(t, s, probeDev); got != tt.want {
			t.Errorf("Input=%v: probe=%v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPassGate(t *testing.T) {
	s := circuit.NewStore()
	_, vddNode, _ := s.AddVDD()
	inDev, inNode, _ := s.AddInput(logicvalue.Z)
	probeDev, probeNode, _ := s.AddProbe()

	_, nTerm, err := s.AddNMOS()
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Connect(vddNode, nTerm.Source); err != nil {
		t.Fatal(err)
	}
	if err := s.Connect(probeNode, nTerm.Drain); err != nil {
		t.Fatal(err)
	}
	if err := s.Connect(inNode, nTerm.Gate); err != nil {
		t.Fatal(err)
	}
	s.BuildTopology()

	if err := s.SetInput(inDev, logicvalue.One); err != nil {
		t.Fatal(err)
	}
	if _, err := Tick(s); err != nil {
		t.Fatal(err)
	}
	if got := mustProbe(t, s, probeDev); got != logicvalue.One {
		t.Errorf("Input=ONE: probe=%v, want ONE", got)
	}

	if err := s.SetInput(inDev, logicvalue.Zero); err != nil {
		t.Fatal(err)
	}
	if _, err := Tick(s); err != nil {
		t.Fatal(err)
	}
	if got := mustProbe(t, s, probeDev); got != logicvalue.Z {
		t.Errorf("Input=ZERO: probe=%v, want Z", got)
	}
}

// TestRingOscillatorNonConvergent builds a 3-stage CMOS inverter ring whose
// first stage's gate is additionally tied to a fixed reference (a ZERO
// Input), instead of floating purely on the ring. A pure all-floating ring
// — no node anywhere statically touching a rail or an Input — is a
// legitimate fixed point at all-Z under the reference algorithm, since no
// component ever contains a non-Z default until some transistor conducts,
// and no transistor can begin conducting without a gate that already holds
// a real value. Tying one gate to a fixed reference breaks that symmetry
// and creates a genuine, hand-verified period-5 contention loop between the
// reference value and the rail pulled in once the loop's far end starts
// conducting — exactly the combinational-loop divergence spec.md describes.
func TestRingOscillatorNonConvergent(t *testing.T) {
	s := circuit.NewStore()
	_, gndNode, _ := s.AddGND()
	_, vddNode, _ := s.AddVDD()
	_, refNode, _ := s.AddInput(logicvalue.Zero)
	probeDev, probeNode, _ := s.AddProbe()

	gate1, out1 := buildInverter(t, s, vddNode, gndNode)
	gate2, out2 := buildInverter(t, s, vddNode, gndNode)
	gate3, out3 := buildInverter(t, s, vddNode, gndNode)

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(s.Connect(out1, gate2))
	must(s.Connect(out2, gate3))
	must(s.Connect(out3, gate1)) // closes the ring
	must(s.Connect(refNode, gate1))
	must(s.Connect(probeNode, gate1))

	s.BuildTopology()

	outcome, err := Tick(s)
	if err != nil {
		t.Fatal(err)
	}
	if outcome.Status != NonConvergent {
		t.Fatalf("outcome=%v, want NonConvergent", outcome)
	}
	if want := 2*s.TransistorCount() + minIterCap; outcome.Iterations != want {
		t.Errorf("outcome.Iterations=%d, want %d", outcome.Iterations, want)
	}
	if got := mustProbe(t, s, probeDev); got != logicvalue.X {
		t.Errorf("gate1 net=%v, want X after non-convergence", got)
	}
}

func TestTickBeforeBuildTopology(t *testing.T) {
	s := circuit.NewStore()
	if _, err := Tick(s); err == nil {
		t.Fatal("Tick before BuildTopology: want error, got nil")
	}
}
