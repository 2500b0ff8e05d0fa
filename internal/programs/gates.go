// SPDX-License-Identifier: MIT

package programs

import "math"

// GateName identifies an operation in the neutral gate set. Names follow
// OpenQASM / qelib1 spelling.
type GateName string

const (
	GateI     GateName = "id"
	GateX     GateName = "x"
	GateY     GateName = "y"
	GateZ     GateName = "z"
	GateH     GateName = "h"
	GateS     GateName = "s"
	GateSdg   GateName = "sdg"
	GateT     GateName = "t"
	GateTdg   GateName = "tdg"
	GateSX    GateName = "sx"
	GateRX    GateName = "rx"
	GateRY    GateName = "ry"
	GateRZ    GateName = "rz"
	GateP     GateName = "p"
	GateCX    GateName = "cx"
	GateCY    GateName = "cy"
	GateCZ    GateName = "cz"
	GateCH    GateName = "ch"
	GateSwap  GateName = "swap"
	GateCRX   GateName = "crx"
	GateCRY   GateName = "cry"
	GateCRZ   GateName = "crz"
	GateCP    GateName = "cp"
	GateCCX   GateName = "ccx"
	GateCSwap GateName = "cswap"

	// Non-unitary operations. These are instructions, not gates with a
	// matrix; Unitary rejects measure and reset.
	GateMeasure GateName = "measure"
	GateBarrier GateName = "barrier"
	GateReset   GateName = "reset"
)

type gateDef struct {
	qubits int // 0 means variadic (barrier)
	params int
}

var gateDefs = map[GateName]gateDef{
	GateI:     {qubits: 1},
	GateX:     {qubits: 1},
	GateY:     {qubits: 1},
	GateZ:     {qubits: 1},
	GateH:     {qubits: 1},
	GateS:     {qubits: 1},
	GateSdg:   {qubits: 1},
	GateT:     {qubits: 1},
	GateTdg:   {qubits: 1},
	GateSX:    {qubits: 1},
	GateRX:    {qubits: 1, params: 1},
	GateRY:    {qubits: 1, params: 1},
	GateRZ:    {qubits: 1, params: 1},
	GateP:     {qubits: 1, params: 1},
	GateCX:    {qubits: 2},
	GateCY:    {qubits: 2},
	GateCZ:    {qubits: 2},
	GateCH:    {qubits: 2},
	GateSwap:  {qubits: 2},
	GateCRX:   {qubits: 2, params: 1},
	GateCRY:   {qubits: 2, params: 1},
	GateCRZ:   {qubits: 2, params: 1},
	GateCP:    {qubits: 2, params: 1},
	GateCCX:   {qubits: 3},
	GateCSwap: {qubits: 3},

	GateMeasure: {qubits: 1},
	GateBarrier: {qubits: 0},
	GateReset:   {qubits: 1},
}

// IsGate reports whether name is a known unitary gate (excludes measure,
// barrier and reset).
func (g GateName) IsGate() bool {
	switch g {
	case GateMeasure, GateBarrier, GateReset:
		return false
	}
	_, ok := gateDefs[g]
	return ok
}

// IsValid reports whether name is any known instruction.
func (g GateName) IsValid() bool {
	_, ok := gateDefs[g]
	return ok
}

// NumParams returns the number of parameters the gate expects.
func (g GateName) NumParams() int {
	return gateDefs[g].params
}

type matrix [][]complex128

func ident(n int) matrix {
	m := make(matrix, n)
	for i := range m {
		m[i] = make([]complex128, n)
		m[i][i] = 1
	}
	return m
}

// controlled wraps a single- or multi-qubit matrix with one control qubit:
// block diag(I, m).
func controlled(m matrix) matrix {
	n := len(m)
	out := ident(2 * n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out[n+i][n+j] = m[i][j]
		}
	}
	return out
}

var (
	matX = matrix{{0, 1}, {1, 0}}
	matY = matrix{{0, complex(0, -1)}, {complex(0, 1), 0}}
	matZ = matrix{{1, 0}, {0, -1}}
	matH = matrix{
		{complex(1/math.Sqrt2, 0), complex(1/math.Sqrt2, 0)},
		{complex(1/math.Sqrt2, 0), complex(-1/math.Sqrt2, 0)},
	}
	matSwap = matrix{
		{1, 0, 0, 0},
		{0, 0, 1, 0},
		{0, 1, 0, 0},
		{0, 0, 0, 1},
	}
)

func phaseMat(theta float64) matrix {
	return matrix{{1, 0}, {0, cis(theta)}}
}

func cis(theta float64) complex128 {
	return complex(math.Cos(theta), math.Sin(theta))
}

func rxMat(theta float64) matrix {
	c := complex(math.Cos(theta/2), 0)
	s := complex(0, -math.Sin(theta/2))
	return matrix{{c, s}, {s, c}}
}

func ryMat(theta float64) matrix {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return matrix{{c, -s}, {s, c}}
}

func rzMat(theta float64) matrix {
	return matrix{{cis(-theta / 2), 0}, {0, cis(theta / 2)}}
}

func sxMat() matrix {
	a := complex(0.5, 0.5)
	b := complex(0.5, -0.5)
	return matrix{{a, b}, {b, a}}
}

// gateMatrix returns the unitary of a gate instruction. The first qubit of
// a controlled gate is the control. Returns false for non-unitary
// instructions.
func gateMatrix(inst Instruction) (matrix, bool) {
	theta := func() float64 {
		return inst.Params[0].Value
	}
	switch inst.Gate {
	case GateI:
		return ident(2), true
	case GateX:
		return matX, true
	case GateY:
		return matY, true
	case GateZ:
		return matZ, true
	case GateH:
		return matH, true
	case GateS:
		return phaseMat(math.Pi / 2), true
	case GateSdg:
		return phaseMat(-math.Pi / 2), true
	case GateT:
		return phaseMat(math.Pi / 4), true
	case GateTdg:
		return phaseMat(-math.Pi / 4), true
	case GateSX:
		return sxMat(), true
	case GateRX:
		return rxMat(theta()), true
	case GateRY:
		return ryMat(theta()), true
	case GateRZ:
		return rzMat(theta()), true
	case GateP:
		return phaseMat(theta()), true
	case GateCX:
		return controlled(matX), true
	case GateCY:
		return controlled(matY), true
	case GateCZ:
		return controlled(matZ), true
	case GateCH:
		return controlled(matH), true
	case GateSwap:
		return matSwap, true
	case GateCRX:
		return controlled(rxMat(theta())), true
	case GateCRY:
		return controlled(ryMat(theta())), true
	case GateCRZ:
		return controlled(rzMat(theta())), true
	case GateCP:
		return controlled(phaseMat(theta())), true
	case GateCCX:
		return controlled(controlled(matX)), true
	case GateCSwap:
		return controlled(matSwap), true
	default:
		return nil, false
	}
}
