// SPDX-License-Identifier: MIT

package qasm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qbraid/qbraid-go/internal/programs"
)

const bell2 = `OPENQASM 2.0;
include "qelib1.inc";
qreg q[2];
creg c[2];
h q[0];
cx q[0], q[1];
measure q[0] -> c[0];
measure q[1] -> c[1];
`

const bell3 = `OPENQASM 3.0;
include "stdgates.inc";
qubit[2] q;
bit[2] c;
h q[0];
cx q[0], q[1];
c[0] = measure q[0];
c[1] = measure q[1];
`

func TestParseBell2(t *testing.T) {
	p, version, err := Parse(bell2)
	require.NoError(t, err)
	assert.Equal(t, 2, version)
	assert.Equal(t, 2, p.NumQubits)
	assert.Equal(t, 2, p.NumClbits)
	require.Len(t, p.Instructions, 4)
	assert.Equal(t, programs.GateH, p.Instructions[0].Gate)
	assert.Equal(t, programs.GateCX, p.Instructions[1].Gate)
	assert.Equal(t, []int{0, 1}, p.Instructions[1].Qubits)
	assert.Equal(t, programs.GateMeasure, p.Instructions[2].Gate)
	assert.Equal(t, []int{0}, p.Instructions[2].Clbits)
}

func TestParseBell3(t *testing.T) {
	p, version, err := Parse(bell3)
	require.NoError(t, err)
	assert.Equal(t, 3, version)
	assert.Equal(t, 2, p.NumQubits)
	require.Len(t, p.Instructions, 4)
}

func TestParseMultipleRegisters(t *testing.T) {
	src := `OPENQASM 2.0;
qreg a[2];
qreg b[1];
creg c[3];
h a[1];
x b[0];
measure b[0] -> c[2];
`
	p, _, err := Parse(src)
	require.NoError(t, err)
	assert.Equal(t, 3, p.NumQubits)
	// b[0] flattens after a's two qubits.
	assert.Equal(t, []int{1}, p.Instructions[0].Qubits)
	assert.Equal(t, []int{2}, p.Instructions[1].Qubits)
	assert.Equal(t, []int{2}, p.Instructions[2].Qubits)
	assert.Equal(t, []int{2}, p.Instructions[2].Clbits)
}

func TestParseBroadcast(t *testing.T) {
	src := `OPENQASM 2.0;
qreg q[3];
h q;
`
	p, _, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, p.Instructions, 3)
	for i, inst := range p.Instructions {
		assert.Equal(t, programs.GateH, inst.Gate)
		assert.Equal(t, []int{i}, inst.Qubits)
	}
}

func TestParseBroadcastRejectedForTwoQubitGates(t *testing.T) {
	src := `OPENQASM 2.0;
qreg q[2];
qreg r[2];
cx q, r;
`
	_, _, err := Parse(src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot broadcast")
}

func TestParseParamExpressions(t *testing.T) {
	src := `OPENQASM 2.0;
qreg q[1];
rx(pi/2) q[0];
rz(-pi) q[0];
p(2*pi/4 + 0.5) q[0];
`
	p, _, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, p.Instructions, 3)
	assert.InDelta(t, math.Pi/2, p.Instructions[0].Params[0].Value, 1e-12)
	assert.InDelta(t, -math.Pi, p.Instructions[1].Params[0].Value, 1e-12)
	assert.InDelta(t, math.Pi/2+0.5, p.Instructions[2].Params[0].Value, 1e-12)
}

func TestParseSymbolicParams(t *testing.T) {
	src := `OPENQASM 3.0;
input float theta;
qubit[1] q;
rx(theta) q[0];
ry(phi) q[0];
rz(theta) q[0];
`
	p, _, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, p.Instructions, 3)

	theta := p.Instructions[0].Params[0]
	assert.Equal(t, "theta", theta.Symbol)
	assert.Equal(t, 0, theta.Index)
	assert.False(t, theta.IsBound())

	phi := p.Instructions[1].Params[0]
	assert.Equal(t, "phi", phi.Symbol)
	assert.Equal(t, 1, phi.Index)

	// Repeated use keeps the first-appearance index.
	assert.Equal(t, 0, p.Instructions[2].Params[0].Index)
	assert.Equal(t, []string{"theta", "phi"}, p.Symbols())
}

func TestParseAliases(t *testing.T) {
	src := `OPENQASM 2.0;
qreg q[2];
CX q[0], q[1];
u1(0.25) q[0];
`
	p, _, err := Parse(src)
	require.NoError(t, err)
	assert.Equal(t, programs.GateCX, p.Instructions[0].Gate)
	assert.Equal(t, programs.GateP, p.Instructions[1].Gate)
}

func TestParseComments(t *testing.T) {
	src := `OPENQASM 2.0;
// a line comment
qreg q[1]; /* block
comment */ h q[0];
`
	p, _, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, p.Instructions, 1)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"missing header", "qreg q[1];", "expected OPENQASM header"},
		{"bad version", "OPENQASM 4.0;", "unsupported OpenQASM version"},
		{"qreg in qasm3", "OPENQASM 3.0;\nqreg q[1];", "OpenQASM 2 syntax"},
		{"qubit in qasm2", "OPENQASM 2.0;\nqubit[1] q;", "OpenQASM 3 syntax"},
		{"unknown gate", "OPENQASM 2.0;\nqreg q[1];\nfoo q[0];", "unknown gate"},
		{"unknown register", "OPENQASM 2.0;\nqreg q[1];\nh r[0];", "unknown qubit register"},
		{"index out of range", "OPENQASM 2.0;\nqreg q[1];\nh q[3];", "out of range"},
		{"zero-size register", "OPENQASM 2.0;\nqreg q[0];", "positive size"},
		{"symbol in expression", "OPENQASM 3.0;\nqubit[1] q;\nrx(theta*2) q[0];", "cannot appear in expressions"},
		{"division by zero", "OPENQASM 2.0;\nqreg q[1];\nrx(1/0) q[0];", "division by zero"},
		{"unterminated comment", "OPENQASM 2.0;\n/* oops", "unterminated block comment"},
		{"measure is an instruction", "OPENQASM 2.0;\nqreg q[1];\ncreg c[2];\nmeasure q -> c;", "maps 1 qubits to 2 clbits"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse(tt.src)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, _, err := Parse("OPENQASM 2.0;\nqreg q[1];\nfoo q[0];")
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 3, perr.Line)
	assert.Equal(t, 1, perr.Col)
}

func TestEncodeDecodeRoundTrip2(t *testing.T) {
	p, _, err := Parse(bell2)
	require.NoError(t, err)

	out, err := Encode2(p)
	require.NoError(t, err)
	assert.Contains(t, string(out), "OPENQASM 2.0;")
	assert.Contains(t, string(out), `include "qelib1.inc";`)

	back, version, err := Parse(string(out))
	require.NoError(t, err)
	assert.Equal(t, 2, version)
	assert.Equal(t, p.NumQubits, back.NumQubits)
	assert.Equal(t, p.Instructions, back.Instructions)
}

func TestEncode3SymbolicInputs(t *testing.T) {
	p := &programs.Program{
		NumQubits: 1,
		Instructions: []programs.Instruction{
			{Gate: programs.GateRX, Qubits: []int{0}, Params: []programs.Param{programs.Symbol("theta", 0)}},
		},
	}
	out, err := Encode3(p)
	require.NoError(t, err)
	assert.Contains(t, string(out), "OPENQASM 3.0;")
	assert.Contains(t, string(out), "input float theta;")
	assert.Contains(t, string(out), "rx(theta) q[0];")

	back, version, err := Parse(string(out))
	require.NoError(t, err)
	assert.Equal(t, 3, version)
	assert.Equal(t, "theta", back.Instructions[0].Params[0].Symbol)
}

func TestCodecVersionMismatch(t *testing.T) {
	_, err := programs.Decode(Format2, []byte(bell3))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declares OpenQASM 3")

	_, err = programs.Decode(Format3, []byte(bell2))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declares OpenQASM 2")
}
