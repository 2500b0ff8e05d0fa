// SPDX-License-Identifier: MIT

package qasm

import (
	"math"
	"strconv"

	"github.com/qbraid/qbraid-go/internal/programs"
)

type register struct {
	name   string
	size   int
	offset int
}

type parser struct {
	lex     *lexer
	tok     token
	version int
	qregs   map[string]*register
	qorder  []*register
	cregs   map[string]*register
	corder  []*register
	symbols map[string]int
	prog    *programs.Program
}

// Parse parses OpenQASM source text. The version header (2.x or 3.x)
// selects the dialect. The returned program carries no format tag; callers
// set it.
func Parse(src string) (*programs.Program, int, error) {
	p := &parser{
		lex:     newLexer(src),
		qregs:   make(map[string]*register),
		cregs:   make(map[string]*register),
		symbols: make(map[string]int),
		prog:    &programs.Program{},
	}
	if err := p.advance(); err != nil {
		return nil, 0, err
	}
	if err := p.parseHeader(); err != nil {
		return nil, 0, err
	}
	for p.tok.kind != tokEOF {
		if err := p.parseStatement(); err != nil {
			return nil, 0, err
		}
	}
	if err := p.prog.Validate(); err != nil {
		return nil, 0, err
	}
	return p.prog, p.version, nil
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) errf(format string, args ...any) error {
	return p.lex.errf(p.tok.line, p.tok.col, format, args...)
}

func (p *parser) expectSymbol(s string) error {
	if p.tok.kind != tokSymbol || p.tok.text != s {
		return p.errf("expected %q, got %q", s, p.tok.text)
	}
	return p.advance()
}

func (p *parser) expectIdent() (string, error) {
	if p.tok.kind != tokIdent {
		return "", p.errf("expected identifier, got %q", p.tok.text)
	}
	name := p.tok.text
	return name, p.advance()
}

func (p *parser) expectInt() (int, error) {
	if p.tok.kind != tokNumber {
		return 0, p.errf("expected integer, got %q", p.tok.text)
	}
	n, err := strconv.Atoi(p.tok.text)
	if err != nil {
		return 0, p.errf("invalid integer %q", p.tok.text)
	}
	return n, p.advance()
}

func (p *parser) parseHeader() error {
	if p.tok.kind != tokIdent || p.tok.text != "OPENQASM" {
		return p.errf("expected OPENQASM header")
	}
	if err := p.advance(); err != nil {
		return err
	}
	if p.tok.kind != tokNumber {
		return p.errf("expected version number after OPENQASM")
	}
	switch {
	case p.tok.text == "2.0":
		p.version = 2
	case p.tok.text == "3" || p.tok.text == "3.0":
		p.version = 3
	default:
		return p.errf("unsupported OpenQASM version %q", p.tok.text)
	}
	if err := p.advance(); err != nil {
		return err
	}
	return p.expectSymbol(";")
}

func (p *parser) parseStatement() error {
	if p.tok.kind != tokIdent {
		return p.errf("expected statement, got %q", p.tok.text)
	}
	switch p.tok.text {
	case "include":
		if err := p.advance(); err != nil {
			return err
		}
		if p.tok.kind != tokString {
			return p.errf("expected include path string")
		}
		if err := p.advance(); err != nil {
			return err
		}
		return p.expectSymbol(";")

	case "qreg", "creg":
		if p.version != 2 {
			return p.errf("%s declarations are OpenQASM 2 syntax", p.tok.text)
		}
		return p.parseRegDecl2()

	case "qubit", "bit":
		if p.version != 3 {
			return p.errf("%s declarations are OpenQASM 3 syntax", p.tok.text)
		}
		return p.parseRegDecl3()

	case "input":
		if p.version != 3 {
			return p.errf("input declarations are OpenQASM 3 syntax")
		}
		return p.parseInputDecl()

	case "measure":
		if p.version != 2 {
			return p.errf("arrow measurement is OpenQASM 2 syntax")
		}
		return p.parseMeasure2()

	case "barrier":
		return p.parseBarrier()

	case "reset":
		return p.parseReset()
	}

	// OpenQASM 3 measurement assignment: c[i] = measure q[i];
	if p.version == 3 {
		if _, ok := p.cregs[p.tok.text]; ok {
			return p.parseMeasure3()
		}
	}
	return p.parseGate()
}

func (p *parser) declareQreg(name string, size int) {
	reg := &register{name: name, size: size, offset: p.prog.NumQubits}
	p.qregs[name] = reg
	p.qorder = append(p.qorder, reg)
	p.prog.NumQubits += size
}

func (p *parser) declareCreg(name string, size int) {
	reg := &register{name: name, size: size, offset: p.prog.NumClbits}
	p.cregs[name] = reg
	p.corder = append(p.corder, reg)
	p.prog.NumClbits += size
}

// qreg q[2]; / creg c[2];
func (p *parser) parseRegDecl2() error {
	kind := p.tok.text
	if err := p.advance(); err != nil {
		return err
	}
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	if err := p.expectSymbol("["); err != nil {
		return err
	}
	size, err := p.expectInt()
	if err != nil {
		return err
	}
	if err := p.expectSymbol("]"); err != nil {
		return err
	}
	if err := p.expectSymbol(";"); err != nil {
		return err
	}
	if size <= 0 {
		return p.errf("register %q must have positive size", name)
	}
	if kind == "qreg" {
		p.declareQreg(name, size)
	} else {
		p.declareCreg(name, size)
	}
	return nil
}

// qubit[2] q; / bit[2] c; / qubit q;
func (p *parser) parseRegDecl3() error {
	kind := p.tok.text
	if err := p.advance(); err != nil {
		return err
	}
	size := 1
	if p.tok.kind == tokSymbol && p.tok.text == "[" {
		if err := p.advance(); err != nil {
			return err
		}
		var err error
		size, err = p.expectInt()
		if err != nil {
			return err
		}
		if err := p.expectSymbol("]"); err != nil {
			return err
		}
	}
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	if err := p.expectSymbol(";"); err != nil {
		return err
	}
	if size <= 0 {
		return p.errf("register %q must have positive size", name)
	}
	if kind == "qubit" {
		p.declareQreg(name, size)
	} else {
		p.declareCreg(name, size)
	}
	return nil
}

// input float theta;
func (p *parser) parseInputDecl() error {
	if err := p.advance(); err != nil {
		return err
	}
	typ, err := p.expectIdent()
	if err != nil {
		return err
	}
	if typ != "float" && typ != "angle" {
		return p.errf("unsupported input type %q", typ)
	}
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	if _, ok := p.symbols[name]; !ok {
		p.symbols[name] = len(p.symbols)
	}
	return p.expectSymbol(";")
}

// qubitArg parses name or name[idx] and resolves to flat qubit indices.
func (p *parser) qubitArg() ([]int, error) {
	return p.regArg(p.qregs, "qubit register")
}

func (p *parser) clbitArg() ([]int, error) {
	return p.regArg(p.cregs, "classical register")
}

func (p *parser) regArg(regs map[string]*register, what string) ([]int, error) {
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	reg, ok := regs[name]
	if !ok {
		return nil, p.errf("unknown %s %q", what, name)
	}
	if p.tok.kind == tokSymbol && p.tok.text == "[" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		idx, err := p.expectInt()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol("]"); err != nil {
			return nil, err
		}
		if idx < 0 || idx >= reg.size {
			return nil, p.errf("index %d out of range for %s %q[%d]", idx, what, name, reg.size)
		}
		return []int{reg.offset + idx}, nil
	}
	// Whole register.
	out := make([]int, reg.size)
	for i := range out {
		out[i] = reg.offset + i
	}
	return out, nil
}

// measure q[0] -> c[0];
func (p *parser) parseMeasure2() error {
	if err := p.advance(); err != nil {
		return err
	}
	qs, err := p.qubitArg()
	if err != nil {
		return err
	}
	if err := p.expectSymbol("->"); err != nil {
		return err
	}
	cs, err := p.clbitArg()
	if err != nil {
		return err
	}
	if err := p.expectSymbol(";"); err != nil {
		return err
	}
	return p.emitMeasure(qs, cs)
}

// c[0] = measure q[0];
func (p *parser) parseMeasure3() error {
	cs, err := p.clbitArg()
	if err != nil {
		return err
	}
	if err := p.expectSymbol("="); err != nil {
		return err
	}
	kw, err := p.expectIdent()
	if err != nil {
		return err
	}
	if kw != "measure" {
		return p.errf("expected measure, got %q", kw)
	}
	qs, err := p.qubitArg()
	if err != nil {
		return err
	}
	if err := p.expectSymbol(";"); err != nil {
		return err
	}
	return p.emitMeasure(qs, cs)
}

func (p *parser) emitMeasure(qs, cs []int) error {
	if len(qs) != len(cs) {
		return p.errf("measurement maps %d qubits to %d clbits", len(qs), len(cs))
	}
	for i := range qs {
		p.prog.Instructions = append(p.prog.Instructions, programs.Instruction{
			Gate:   programs.GateMeasure,
			Qubits: []int{qs[i]},
			Clbits: []int{cs[i]},
		})
	}
	return nil
}

func (p *parser) parseBarrier() error {
	if err := p.advance(); err != nil {
		return err
	}
	var qubits []int
	for {
		qs, err := p.qubitArg()
		if err != nil {
			return err
		}
		qubits = append(qubits, qs...)
		if p.tok.kind == tokSymbol && p.tok.text == "," {
			if err := p.advance(); err != nil {
				return err
			}
			continue
		}
		break
	}
	if err := p.expectSymbol(";"); err != nil {
		return err
	}
	p.prog.Instructions = append(p.prog.Instructions, programs.Instruction{
		Gate:   programs.GateBarrier,
		Qubits: qubits,
	})
	return nil
}

func (p *parser) parseReset() error {
	if err := p.advance(); err != nil {
		return err
	}
	qs, err := p.qubitArg()
	if err != nil {
		return err
	}
	if err := p.expectSymbol(";"); err != nil {
		return err
	}
	for _, q := range qs {
		p.prog.Instructions = append(p.prog.Instructions, programs.Instruction{
			Gate:   programs.GateReset,
			Qubits: []int{q},
		})
	}
	return nil
}

// gate aliases accepted on input, normalized to the neutral gate set.
var gateAliases = map[string]programs.GateName{
	"CX": programs.GateCX,
	"u1": programs.GateP,
	"i":  programs.GateI,
}

func (p *parser) parseGate() error {
	name := p.tok.text
	line, col := p.tok.line, p.tok.col
	if err := p.advance(); err != nil {
		return err
	}

	gate := programs.GateName(name)
	if alias, ok := gateAliases[name]; ok {
		gate = alias
	}
	if !gate.IsValid() || !gate.IsGate() {
		return p.lex.errf(line, col, "unknown gate %q", name)
	}

	var params []programs.Param
	if p.tok.kind == tokSymbol && p.tok.text == "(" {
		if err := p.advance(); err != nil {
			return err
		}
		for {
			prm, err := p.parseParam()
			if err != nil {
				return err
			}
			params = append(params, prm)
			if p.tok.kind == tokSymbol && p.tok.text == "," {
				if err := p.advance(); err != nil {
					return err
				}
				continue
			}
			break
		}
		if err := p.expectSymbol(")"); err != nil {
			return err
		}
	}

	var args [][]int
	for {
		qs, err := p.qubitArg()
		if err != nil {
			return err
		}
		args = append(args, qs)
		if p.tok.kind == tokSymbol && p.tok.text == "," {
			if err := p.advance(); err != nil {
				return err
			}
			continue
		}
		break
	}
	if err := p.expectSymbol(";"); err != nil {
		return err
	}

	// Whole-register broadcast is only defined for single-qubit gates.
	if len(args) == 1 && len(args[0]) > 1 {
		for _, q := range args[0] {
			p.prog.Instructions = append(p.prog.Instructions, programs.Instruction{
				Gate:   gate,
				Qubits: []int{q},
				Params: params,
			})
		}
		return nil
	}
	qubits := make([]int, 0, len(args))
	for _, qs := range args {
		if len(qs) != 1 {
			return p.lex.errf(line, col, "gate %q cannot broadcast over register operands", name)
		}
		qubits = append(qubits, qs[0])
	}
	p.prog.Instructions = append(p.prog.Instructions, programs.Instruction{
		Gate:   gate,
		Qubits: qubits,
		Params: params,
	})
	return nil
}

// parseParam parses a parameter expression. Numeric expressions (numbers,
// pi, + - * /, parentheses) are evaluated; a bare identifier is a symbolic
// parameter. Symbols inside arithmetic are rejected.
func (p *parser) parseParam() (programs.Param, error) {
	if p.tok.kind == tokIdent && p.tok.text != "pi" {
		name := p.tok.text
		if err := p.advance(); err != nil {
			return programs.Param{}, err
		}
		if p.tok.kind == tokSymbol {
			switch p.tok.text {
			case "+", "-", "*", "/":
				return programs.Param{}, p.errf("symbolic parameter %q cannot appear in expressions", name)
			}
		}
		idx, ok := p.symbols[name]
		if !ok {
			idx = len(p.symbols)
			p.symbols[name] = idx
		}
		return programs.Symbol(name, idx), nil
	}
	v, err := p.parseExpr()
	if err != nil {
		return programs.Param{}, err
	}
	return programs.Number(v), nil
}

func (p *parser) parseExpr() (float64, error) {
	v, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for p.tok.kind == tokSymbol && (p.tok.text == "+" || p.tok.text == "-") {
		op := p.tok.text
		if err := p.advance(); err != nil {
			return 0, err
		}
		rhs, err := p.parseTerm()
		if err != nil {
			return 0, err
		}
		if op == "+" {
			v += rhs
		} else {
			v -= rhs
		}
	}
	return v, nil
}

func (p *parser) parseTerm() (float64, error) {
	v, err := p.parseFactor()
	if err != nil {
		return 0, err
	}
	for p.tok.kind == tokSymbol && (p.tok.text == "*" || p.tok.text == "/") {
		op := p.tok.text
		if err := p.advance(); err != nil {
			return 0, err
		}
		rhs, err := p.parseFactor()
		if err != nil {
			return 0, err
		}
		if op == "*" {
			v *= rhs
		} else {
			if rhs == 0 {
				return 0, p.errf("division by zero in parameter expression")
			}
			v /= rhs
		}
	}
	return v, nil
}

func (p *parser) parseFactor() (float64, error) {
	switch {
	case p.tok.kind == tokSymbol && p.tok.text == "-":
		if err := p.advance(); err != nil {
			return 0, err
		}
		v, err := p.parseFactor()
		return -v, err

	case p.tok.kind == tokSymbol && p.tok.text == "(":
		if err := p.advance(); err != nil {
			return 0, err
		}
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		return v, p.expectSymbol(")")

	case p.tok.kind == tokIdent && p.tok.text == "pi":
		if err := p.advance(); err != nil {
			return 0, err
		}
		return math.Pi, nil

	case p.tok.kind == tokNumber:
		v, err := strconv.ParseFloat(p.tok.text, 64)
		if err != nil {
			return 0, p.errf("invalid number %q", p.tok.text)
		}
		return v, p.advance()
	}
	return 0, p.errf("expected parameter expression, got %q", p.tok.text)
}
