// SPDX-License-Identifier: MIT

package programs

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-9

func TestUnitaryBell(t *testing.T) {
	u, err := Unitary(bell())
	require.NoError(t, err)

	s := complex(1/math.Sqrt2, 0)
	// H on qubit 0 then CX(0,1), qubit 0 most significant.
	want := [][]complex128{
		{s, 0, s, 0},
		{0, s, 0, s},
		{0, s, 0, -s},
		{s, 0, -s, 0},
	}
	assert.True(t, AllCloseUpToGlobalPhase(u, want, tol))
}

func TestUnitaryHHIsIdentity(t *testing.T) {
	p := &Program{
		NumQubits: 1,
		Instructions: []Instruction{
			{Gate: GateH, Qubits: []int{0}},
			{Gate: GateH, Qubits: []int{0}},
		},
	}
	u, err := Unitary(p)
	require.NoError(t, err)
	assert.True(t, AllCloseUpToGlobalPhase(u, identFull(2), tol))
}

func TestUnitaryPhaseEquivalence(t *testing.T) {
	// RZ(pi) equals Z up to a global phase but not elementwise.
	rz := &Program{
		NumQubits: 1,
		Instructions: []Instruction{
			{Gate: GateRZ, Qubits: []int{0}, Params: []Param{Number(math.Pi)}},
		},
	}
	z := &Program{
		NumQubits: 1,
		Instructions: []Instruction{
			{Gate: GateZ, Qubits: []int{0}},
		},
	}
	uRZ, err := Unitary(rz)
	require.NoError(t, err)
	uZ, err := Unitary(z)
	require.NoError(t, err)

	assert.NotEqual(t, uRZ, uZ)
	assert.True(t, AllCloseUpToGlobalPhase(uRZ, uZ, tol))
}

func TestUnitaryRejectsMidCircuitMeasure(t *testing.T) {
	p := &Program{
		NumQubits: 1,
		NumClbits: 1,
		Instructions: []Instruction{
			{Gate: GateMeasure, Qubits: []int{0}, Clbits: []int{0}},
			{Gate: GateX, Qubits: []int{0}},
		},
	}
	_, err := Unitary(p)
	assert.ErrorIs(t, err, ErrNotUnitary)
}

func TestUnitaryRejectsReset(t *testing.T) {
	p := &Program{
		NumQubits: 1,
		Instructions: []Instruction{
			{Gate: GateReset, Qubits: []int{0}},
		},
	}
	_, err := Unitary(p)
	assert.ErrorIs(t, err, ErrNotUnitary)
}

func TestUnitaryRejectsUnboundParams(t *testing.T) {
	p := &Program{
		NumQubits: 1,
		Instructions: []Instruction{
			{Gate: GateRX, Qubits: []int{0}, Params: []Param{Symbol("theta", 0)}},
		},
	}
	_, err := Unitary(p)
	assert.ErrorIs(t, err, ErrUnboundParam)
}

func TestUnitaryReversedControl(t *testing.T) {
	// CX with control on qubit 1: |q0 q1> basis, flips q0 when q1 is 1.
	p := &Program{
		NumQubits: 2,
		Instructions: []Instruction{
			{Gate: GateCX, Qubits: []int{1, 0}},
		},
	}
	u, err := Unitary(p)
	require.NoError(t, err)

	want := [][]complex128{
		{1, 0, 0, 0},
		{0, 0, 0, 1},
		{0, 0, 1, 0},
		{0, 1, 0, 0},
	}
	assert.True(t, AllCloseUpToGlobalPhase(u, want, tol))
}
