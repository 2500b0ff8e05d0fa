// SPDX-License-Identifier: MIT

package programs

import (
	"encoding/json"
	"fmt"
)

// FormatJaqcd is the Braket-style JSON instruction format. Measurements and
// barriers are not representable: Braket devices measure every qubit
// implicitly, so both are dropped on encode.
const FormatJaqcd = "jaqcd"

type jaqcdHeader struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type jaqcdInstruction struct {
	Type     string   `json:"type"`
	Target   *int     `json:"target,omitempty"`
	Targets  []int    `json:"targets,omitempty"`
	Control  *int     `json:"control,omitempty"`
	Controls []int    `json:"controls,omitempty"`
	Angle    *float64 `json:"angle,omitempty"`
}

type jaqcdProgram struct {
	Header       jaqcdHeader        `json:"braketSchemaHeader"`
	Instructions []jaqcdInstruction `json:"instructions"`
	Results      []json.RawMessage  `json:"results,omitempty"`
}

const jaqcdSchemaName = "braket.ir.jaqcd.program"

// gate name mapping, IR -> jaqcd type.
var toJaqcd = map[GateName]string{
	GateI:     "i",
	GateX:     "x",
	GateY:     "y",
	GateZ:     "z",
	GateH:     "h",
	GateS:     "s",
	GateSdg:   "si",
	GateT:     "t",
	GateTdg:   "ti",
	GateSX:    "v",
	GateRX:    "rx",
	GateRY:    "ry",
	GateRZ:    "rz",
	GateP:     "phaseshift",
	GateCX:    "cnot",
	GateCY:    "cy",
	GateCZ:    "cz",
	GateSwap:  "swap",
	GateCP:    "cphaseshift",
	GateCCX:   "ccnot",
	GateCSwap: "cswap",
}

var fromJaqcd = func() map[string]GateName {
	out := make(map[string]GateName, len(toJaqcd))
	for k, v := range toJaqcd {
		out[v] = k
	}
	return out
}()

type jaqcdCodec struct{}

func (jaqcdCodec) Encode(p *Program) ([]byte, error) {
	out := jaqcdProgram{
		Header:       jaqcdHeader{Name: jaqcdSchemaName, Version: "1"},
		Instructions: make([]jaqcdInstruction, 0, len(p.Instructions)),
	}
	for i, inst := range p.Instructions {
		switch inst.Gate {
		case GateMeasure, GateBarrier:
			continue
		}
		typ, ok := toJaqcd[inst.Gate]
		if !ok {
			return nil, fmt.Errorf("jaqcd: instruction %d: gate %s not representable", i, inst.Gate)
		}
		ji := jaqcdInstruction{Type: typ}
		if len(inst.Params) == 1 {
			if !inst.Params[0].IsBound() {
				return nil, fmt.Errorf("jaqcd: instruction %d: %w", i, ErrUnboundParam)
			}
			angle := inst.Params[0].Value
			ji.Angle = &angle
		}
		switch len(inst.Qubits) {
		case 1:
			q := inst.Qubits[0]
			ji.Target = &q
		case 2:
			if inst.Gate == GateSwap {
				ji.Targets = []int{inst.Qubits[0], inst.Qubits[1]}
			} else {
				c, t := inst.Qubits[0], inst.Qubits[1]
				ji.Control = &c
				ji.Target = &t
			}
		case 3:
			if inst.Gate == GateCSwap {
				ji.Controls = []int{inst.Qubits[0]}
				ji.Targets = []int{inst.Qubits[1], inst.Qubits[2]}
			} else {
				t := inst.Qubits[2]
				ji.Controls = []int{inst.Qubits[0], inst.Qubits[1]}
				ji.Target = &t
			}
		}
		out.Instructions = append(out.Instructions, ji)
	}
	return json.MarshalIndent(out, "", "  ")
}

func (jaqcdCodec) Decode(data []byte) (*Program, error) {
	var in jaqcdProgram
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("jaqcd: decode: %w", err)
	}
	if in.Header.Name != "" && in.Header.Name != jaqcdSchemaName {
		return nil, fmt.Errorf("jaqcd: unexpected schema %q", in.Header.Name)
	}
	p := &Program{Format: FormatJaqcd}
	maxQubit := -1
	note := func(qs ...int) {
		for _, q := range qs {
			if q > maxQubit {
				maxQubit = q
			}
		}
	}
	for i, ji := range in.Instructions {
		gate, ok := fromJaqcd[ji.Type]
		if !ok {
			return nil, fmt.Errorf("jaqcd: instruction %d: unknown type %q", i, ji.Type)
		}
		inst := Instruction{Gate: gate}
		switch {
		case len(ji.Controls) > 0:
			inst.Qubits = append(inst.Qubits, ji.Controls...)
		case ji.Control != nil:
			inst.Qubits = append(inst.Qubits, *ji.Control)
		}
		switch {
		case len(ji.Targets) > 0:
			inst.Qubits = append(inst.Qubits, ji.Targets...)
		case ji.Target != nil:
			inst.Qubits = append(inst.Qubits, *ji.Target)
		}
		if ji.Angle != nil {
			inst.Params = []Param{Number(*ji.Angle)}
		}
		note(inst.Qubits...)
		p.Instructions = append(p.Instructions, inst)
	}
	p.NumQubits = maxQubit + 1
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
