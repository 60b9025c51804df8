// Package netlist parses a minimal textual circuit description and builds
// it onto a circuit.Store through a factory.Registry. The format mirrors
// the line-oriented, whitespace-field style of a SPICE netlist — a title
// line, comment lines starting with "*", one declaration per line — cut
// down to what a switch-level description actually needs: devices,
// transistors, and wires.
//
// Example:
//
//	* single CMOS inverter
//	VDD vdd
//	GND gnd
//	INPUT in Z
//	PROBE out
//	PMOS p1
//	NMOS n1
//	WIRE vdd p1.source
//	WIRE gnd n1.source
//	WIRE p1.drain n1.drain
//	WIRE p1.gate n1.gate
//	WIRE in p1.gate
//	WIRE p1.drain out
package netlist

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/CRISvsGAME/sirc-go/internal/factory"
	"github.com/CRISvsGAME/sirc-go/pkg/logicvalue"
)

// Declaration is one non-comment, non-blank line of a circuit description.
type Declaration struct {
	Line int // 1-based source line, for error reporting
	Op   string
	Args []string
}

// Description is a parsed, not-yet-built circuit description.
type Description struct {
	Title        string
	Declarations []Declaration
}

// Parse splits input into a title and a sequence of declarations. It
// performs no semantic validation — unknown ops and arity errors surface
// from Build.
func Parse(input string) (*Description, error) {
	scanner := bufio.NewScanner(strings.NewReader(input))
	desc := &Description{}

	lineNo := 0
	if scanner.Scan() {
		lineNo++
		desc.Title = strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "*"))
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "*") {
			continue
		}

		fields := strings.Fields(line)
		desc.Declarations = append(desc.Declarations, Declaration{
			Line: lineNo,
			Op:   strings.ToUpper(fields[0]),
			Args: fields[1:],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("netlist: %w", err)
	}

	return desc, nil
}

// Build walks desc's declarations in order, defining devices and
// transistors and wiring them through reg. It does not call
// BuildTopology — the caller decides when construction is finished.
func Build(desc *Description, reg *factory.Registry) error {
	for _, d := range desc.Declarations {
		if err := applyDeclaration(reg, d); err != nil {
			return fmt.Errorf("netlist: line %d (%s): %w", d.Line, d.Op, err)
		}
	}
	return nil
}

func applyDeclaration(reg *factory.Registry, d Declaration) error {
	switch d.Op {
	case "GND":
		if len(d.Args) != 1 {
			return fmt.Errorf("GND takes exactly one name")
		}
		_, err := reg.DefineGND(d.Args[0])
		return err

	case "VDD":
		if len(d.Args) != 1 {
			return fmt.Errorf("VDD takes exactly one name")
		}
		_, err := reg.DefineVDD(d.Args[0])
		return err

	case "INPUT":
		if len(d.Args) != 2 {
			return fmt.Errorf("INPUT takes a name and an initial value")
		}
		v, err := logicvalue.Parse(d.Args[1])
		if err != nil {
			return err
		}
		_, err = reg.DefineInput(d.Args[0], v)
		return err

	case "PROBE":
		if len(d.Args) != 1 {
			return fmt.Errorf("PROBE takes exactly one name")
		}
		_, err := reg.DefineProbe(d.Args[0])
		return err

	case "PORT":
		if len(d.Args) != 1 {
			return fmt.Errorf("PORT takes exactly one name")
		}
		_, err := reg.DefinePort(d.Args[0])
		return err

	case "NMOS":
		if len(d.Args) != 1 {
			return fmt.Errorf("NMOS takes exactly one name")
		}
		_, err := reg.DefineNMOS(d.Args[0])
		return err

	case "PMOS":
		if len(d.Args) != 1 {
			return fmt.Errorf("PMOS takes exactly one name")
		}
		_, err := reg.DefinePMOS(d.Args[0])
		return err

	case "WIRE":
		if len(d.Args) != 2 {
			return fmt.Errorf("WIRE takes exactly two identifiers")
		}
		return reg.Wire(d.Args[0], d.Args[1])

	default:
		return fmt.Errorf("unsupported declaration %q", d.Op)
	}
}
