// SPDX-License-Identifier: MIT

// Package programs defines the vendor-neutral intermediate representation of
// quantum programs. Qubits and classical bits are plain integer indices,
// gate applications are typed instructions, and symbolic parameters are
// tracked by name with a stable first-appearance index so that they survive
// conversions between program formats.
package programs

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks at the package boundary.
var (
	ErrUnsupportedFormat = errors.New("programs: unsupported format")
	ErrInvalidProgram    = errors.New("programs: invalid program")
	ErrUnboundParam      = errors.New("programs: unbound symbolic parameter")
)

// Param is a gate parameter: either a bound float64 value or a named
// symbolic parameter. Symbolic parameters carry an index assigned at parse
// time in first-appearance order.
type Param struct {
	Symbol string  `json:"symbol,omitempty"`
	Index  int     `json:"index,omitempty"`
	Value  float64 `json:"value"`
}

// Number returns a bound numeric parameter.
func Number(v float64) Param {
	return Param{Value: v}
}

// Symbol returns a symbolic parameter with the given name and index.
func Symbol(name string, index int) Param {
	return Param{Symbol: name, Index: index}
}

// IsBound reports whether the parameter carries a concrete value.
func (p Param) IsBound() bool {
	return p.Symbol == ""
}

func (p Param) String() string {
	if p.IsBound() {
		return fmt.Sprintf("%g", p.Value)
	}
	return p.Symbol
}

// Instruction is a single operation applied to qubits and, for measurement,
// classical bits.
type Instruction struct {
	Gate   GateName `json:"gate"`
	Qubits []int    `json:"qubits"`
	Clbits []int    `json:"clbits,omitempty"`
	Params []Param  `json:"params,omitempty"`
}

// Program is the neutral circuit representation all converters operate on.
type Program struct {
	Format       string        `json:"format"`
	NumQubits    int           `json:"numQubits"`
	NumClbits    int           `json:"numClbits"`
	Instructions []Instruction `json:"instructions"`
}

// Clone returns a deep copy of the program. Converters must not mutate
// their input, so every conversion edge starts from a clone.
func (p *Program) Clone() *Program {
	out := &Program{
		Format:       p.Format,
		NumQubits:    p.NumQubits,
		NumClbits:    p.NumClbits,
		Instructions: make([]Instruction, len(p.Instructions)),
	}
	for i, inst := range p.Instructions {
		cp := Instruction{Gate: inst.Gate}
		cp.Qubits = append([]int(nil), inst.Qubits...)
		cp.Clbits = append([]int(nil), inst.Clbits...)
		cp.Params = append([]Param(nil), inst.Params...)
		out.Instructions[i] = cp
	}
	return out
}

// Depth returns the length of the critical path through the circuit.
// Barriers do not add depth but fence reordering: they raise the frontier
// of every involved qubit to the common maximum.
func (p *Program) Depth() int {
	qubitFrontier := make([]int, p.NumQubits)
	clbitFrontier := make([]int, p.NumClbits)

	max := func(vals ...int) int {
		m := 0
		for _, v := range vals {
			if v > m {
				m = v
			}
		}
		return m
	}

	depth := 0
	for _, inst := range p.Instructions {
		frontier := 0
		for _, q := range inst.Qubits {
			frontier = max(frontier, qubitFrontier[q])
		}
		for _, c := range inst.Clbits {
			frontier = max(frontier, clbitFrontier[c])
		}

		if inst.Gate == GateBarrier {
			for _, q := range inst.Qubits {
				qubitFrontier[q] = frontier
			}
			continue
		}

		next := frontier + 1
		for _, q := range inst.Qubits {
			qubitFrontier[q] = next
		}
		for _, c := range inst.Clbits {
			clbitFrontier[c] = next
		}
		depth = max(depth, next)
	}
	return depth
}

// Symbols returns the distinct symbolic parameter names in first-appearance
// order.
func (p *Program) Symbols() []string {
	seen := make(map[string]bool)
	var out []string
	for _, inst := range p.Instructions {
		for _, prm := range inst.Params {
			if prm.Symbol != "" && !seen[prm.Symbol] {
				seen[prm.Symbol] = true
				out = append(out, prm.Symbol)
			}
		}
	}
	return out
}

// Bind returns a copy of the program with symbolic parameters replaced by
// the supplied values. Missing bindings yield ErrUnboundParam.
func (p *Program) Bind(values map[string]float64) (*Program, error) {
	out := p.Clone()
	for i := range out.Instructions {
		for j, prm := range out.Instructions[i].Params {
			if prm.IsBound() {
				continue
			}
			v, ok := values[prm.Symbol]
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnboundParam, prm.Symbol)
			}
			out.Instructions[i].Params[j] = Number(v)
		}
	}
	return out, nil
}

// Validate checks structural soundness: known gates, index ranges, arity
// and parameter counts.
func (p *Program) Validate() error {
	if p.NumQubits <= 0 {
		return fmt.Errorf("%w: program has no qubits", ErrInvalidProgram)
	}
	for i, inst := range p.Instructions {
		def, ok := gateDefs[inst.Gate]
		if !ok {
			return fmt.Errorf("%w: instruction %d: unknown gate %q", ErrInvalidProgram, i, inst.Gate)
		}
		if def.qubits > 0 && len(inst.Qubits) != def.qubits {
			return fmt.Errorf("%w: instruction %d: gate %s expects %d qubits, got %d",
				ErrInvalidProgram, i, inst.Gate, def.qubits, len(inst.Qubits))
		}
		if def.qubits == 0 && len(inst.Qubits) == 0 {
			return fmt.Errorf("%w: instruction %d: gate %s needs at least one qubit",
				ErrInvalidProgram, i, inst.Gate)
		}
		if len(inst.Params) != def.params {
			return fmt.Errorf("%w: instruction %d: gate %s expects %d params, got %d",
				ErrInvalidProgram, i, inst.Gate, def.params, len(inst.Params))
		}
		seen := make(map[int]bool, len(inst.Qubits))
		for _, q := range inst.Qubits {
			if q < 0 || q >= p.NumQubits {
				return fmt.Errorf("%w: instruction %d: qubit %d out of range [0,%d)",
					ErrInvalidProgram, i, q, p.NumQubits)
			}
			if seen[q] {
				return fmt.Errorf("%w: instruction %d: duplicate qubit %d", ErrInvalidProgram, i, q)
			}
			seen[q] = true
		}
		for _, c := range inst.Clbits {
			if c < 0 || c >= p.NumClbits {
				return fmt.Errorf("%w: instruction %d: clbit %d out of range [0,%d)",
					ErrInvalidProgram, i, c, p.NumClbits)
			}
		}
		if inst.Gate == GateMeasure && len(inst.Clbits) != 1 {
			return fmt.Errorf("%w: instruction %d: measure requires a target clbit", ErrInvalidProgram, i)
		}
	}
	return nil
}
