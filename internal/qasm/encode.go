// SPDX-License-Identifier: MIT

package qasm

import (
	"fmt"
	"strings"

	"github.com/qbraid/qbraid-go/internal/programs"
)

// Encode2 serializes p as OpenQASM 2.0 with a single flat qubit register q
// and classical register c.
func Encode2(p *programs.Program) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", p.NumQubits)
	if p.NumClbits > 0 {
		fmt.Fprintf(&sb, "creg c[%d];\n", p.NumClbits)
	}
	for i, inst := range p.Instructions {
		switch inst.Gate {
		case programs.GateMeasure:
			fmt.Fprintf(&sb, "measure q[%d] -> c[%d];\n", inst.Qubits[0], inst.Clbits[0])
		case programs.GateBarrier:
			fmt.Fprintf(&sb, "barrier %s;\n", qubitList(inst.Qubits))
		case programs.GateReset:
			fmt.Fprintf(&sb, "reset q[%d];\n", inst.Qubits[0])
		default:
			if !inst.Gate.IsGate() {
				return nil, fmt.Errorf("qasm2: instruction %d: cannot encode %q", i, inst.Gate)
			}
			sb.WriteString(gateLine(inst))
		}
	}
	return []byte(sb.String()), nil
}

// Encode3 serializes p as OpenQASM 3.0. Symbolic parameters become input
// float declarations.
func Encode3(p *programs.Program) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString("OPENQASM 3.0;\n")
	sb.WriteString("include \"stdgates.inc\";\n")
	for _, sym := range p.Symbols() {
		fmt.Fprintf(&sb, "input float %s;\n", sym)
	}
	fmt.Fprintf(&sb, "qubit[%d] q;\n", p.NumQubits)
	if p.NumClbits > 0 {
		fmt.Fprintf(&sb, "bit[%d] c;\n", p.NumClbits)
	}
	for i, inst := range p.Instructions {
		switch inst.Gate {
		case programs.GateMeasure:
			fmt.Fprintf(&sb, "c[%d] = measure q[%d];\n", inst.Clbits[0], inst.Qubits[0])
		case programs.GateBarrier:
			fmt.Fprintf(&sb, "barrier %s;\n", qubitList(inst.Qubits))
		case programs.GateReset:
			fmt.Fprintf(&sb, "reset q[%d];\n", inst.Qubits[0])
		default:
			if !inst.Gate.IsGate() {
				return nil, fmt.Errorf("qasm3: instruction %d: cannot encode %q", i, inst.Gate)
			}
			sb.WriteString(gateLine(inst))
		}
	}
	return []byte(sb.String()), nil
}

func gateLine(inst programs.Instruction) string {
	var sb strings.Builder
	sb.WriteString(string(inst.Gate))
	if len(inst.Params) > 0 {
		parts := make([]string, len(inst.Params))
		for i, prm := range inst.Params {
			parts[i] = prm.String()
		}
		fmt.Fprintf(&sb, "(%s)", strings.Join(parts, ", "))
	}
	sb.WriteString(" " + qubitList(inst.Qubits) + ";\n")
	return sb.String()
}

func qubitList(qubits []int) string {
	parts := make([]string, len(qubits))
	for i, q := range qubits {
		parts[i] = fmt.Sprintf("q[%d]", q)
	}
	return strings.Join(parts, ", ")
}
