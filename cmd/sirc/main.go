// Command sirc loads a switch-level circuit description, drives its Input
// devices from the command line, ticks it to a fixed point, and reports
// every Probe's resolved value.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/CRISvsGAME/sirc-go/internal/factory"
	"github.com/CRISvsGAME/sirc-go/internal/netlist"
	"github.com/CRISvsGAME/sirc-go/pkg/circuit"
	"github.com/CRISvsGAME/sirc-go/pkg/logicvalue"
	"github.com/CRISvsGAME/sirc-go/pkg/sim"
)

// setFlag is one parsed -set name=value flag; setFlags accumulates repeated
// ones, e.g. -set in=1 -set sel=0.
type setFlag struct {
	name  string
	value logicvalue.Value
}

type setFlags []setFlag

func (f *setFlags) String() string {
	if f == nil {
		return ""
	}
	parts := make([]string, len(*f))
	for i, s := range *f {
		parts[i] = fmt.Sprintf("%s=%s", s.name, s.value)
	}
	return strings.Join(parts, ",")
}

func (f *setFlags) Set(raw string) error {
	name, val, ok := strings.Cut(raw, "=")
	if !ok {
		return fmt.Errorf("-set %q: want name=value", raw)
	}
	v, err := logicvalue.Parse(val)
	if err != nil {
		return fmt.Errorf("-set %q: %w", raw, err)
	}
	*f = append(*f, setFlag{name: name, value: v})
	return nil
}

func run(path string, sets setFlags) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading circuit file: %w", err)
	}

	desc, err := netlist.Parse(string(content))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	store := circuit.NewStore()
	reg := factory.New(store)
	if err := netlist.Build(desc, reg); err != nil {
		return fmt.Errorf("building %s: %w", path, err)
	}
	store.BuildTopology()

	for _, s := range sets {
		dev, err := reg.Device(s.name)
		if err != nil {
			return err
		}
		if err := store.SetInput(dev, s.value); err != nil {
			return fmt.Errorf("setting %s: %w", s.name, err)
		}
	}

	outcome, err := sim.Tick(store)
	if err != nil {
		return fmt.Errorf("tick: %w", err)
	}

	fmt.Printf("%s: %s\n", desc.Title, outcome)
	if outcome.Status == sim.NonConvergent {
		log.Printf("warning: %s did not settle within the iteration cap; oscillating nodes read X", path)
	}

	probeNames := reg.ProbeNames()
	sort.Strings(probeNames)

	for _, name := range probeNames {
		dev, err := reg.Device(name)
		if err != nil {
			return err
		}
		v, err := store.Probe(dev)
		if err != nil {
			return err
		}
		fmt.Printf("  %s = %s\n", name, v)
	}

	return nil
}

func main() {
	var sets setFlags
	flag.Var(&sets, "set", "drive an Input device: -set name=value (repeatable)")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("usage: sirc [-set name=value ...] <circuit-file>")
	}

	if err := run(flag.Arg(0), sets); err != nil {
		log.Fatal(err)
	}
}
