// SPDX-License-Identifier: MIT

package programs

import (
	"errors"
	"fmt"
	"math/cmplx"
)

// ErrNotUnitary is returned when a program contains operations without a
// matrix representation (measure, reset).
var ErrNotUnitary = errors.New("programs: program contains non-unitary operations")

// Unitary computes the dense 2^n x 2^n matrix of the program. Qubit 0 is
// the most significant bit of the basis index. Trailing measurements and
// barriers are ignored; mid-circuit measurement or reset is an error, as
// are unbound symbolic parameters.
func Unitary(p *Program) ([][]complex128, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	n := p.NumQubits
	dim := 1 << n
	u := identFull(dim)

	measured := false
	for i, inst := range p.Instructions {
		switch inst.Gate {
		case GateBarrier:
			continue
		case GateMeasure:
			measured = true
			continue
		case GateReset:
			return nil, fmt.Errorf("%w: reset at instruction %d", ErrNotUnitary, i)
		}
		if measured {
			return nil, fmt.Errorf("%w: gate %s after measurement at instruction %d",
				ErrNotUnitary, inst.Gate, i)
		}
		for _, prm := range inst.Params {
			if !prm.IsBound() {
				return nil, fmt.Errorf("%w: %s", ErrUnboundParam, prm.Symbol)
			}
		}
		m, ok := gateMatrix(inst)
		if !ok {
			return nil, fmt.Errorf("%w: gate %s has no matrix", ErrNotUnitary, inst.Gate)
		}
		u = mulMat(expand(m, inst.Qubits, n), u)
	}
	return u, nil
}

// AllCloseUpToGlobalPhase reports whether a and b are elementwise close
// after factoring out a global phase. The phase is taken from the first
// element pair with magnitude above tol.
func AllCloseUpToGlobalPhase(a, b [][]complex128, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	phase := complex(1, 0)
	found := false
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if !found && cmplx.Abs(a[i][j]) > tol && cmplx.Abs(b[i][j]) > tol {
				phase = a[i][j] / b[i][j]
				phase /= complex(cmplx.Abs(phase), 0)
				found = true
			}
		}
	}
	for i := range a {
		for j := range a[i] {
			if cmplx.Abs(a[i][j]-phase*b[i][j]) > tol {
				return false
			}
		}
	}
	return true
}

func identFull(dim int) [][]complex128 {
	u := make([][]complex128, dim)
	for i := range u {
		u[i] = make([]complex128, dim)
		u[i][i] = 1
	}
	return u
}

func mulMat(a, b [][]complex128) [][]complex128 {
	n := len(a)
	out := make([][]complex128, n)
	for i := 0; i < n; i++ {
		out[i] = make([]complex128, n)
		for k := 0; k < n; k++ {
			if a[i][k] == 0 {
				continue
			}
			aik := a[i][k]
			for j := 0; j < n; j++ {
				out[i][j] += aik * b[k][j]
			}
		}
	}
	return out
}

// expand lifts a gate matrix acting on the given qubits to the full
// 2^n-dimensional space. qubits[0] addresses the most significant subspace
// bit of the gate matrix.
func expand(m matrix, qubits []int, n int) [][]complex128 {
	dim := 1 << n
	k := len(qubits)
	sub := 1 << k
	out := make([][]complex128, dim)
	for i := range out {
		out[i] = make([]complex128, dim)
	}

	// Bit position of qubit q in a full basis index (qubit 0 most
	// significant).
	bitPos := func(q int) uint {
		return uint(n - 1 - q)
	}

	for in := 0; in < dim; in++ {
		// Extract the sub-index addressed by the gate's qubits.
		j := 0
		for b, q := range qubits {
			if in&(1<<bitPos(q)) != 0 {
				j |= 1 << uint(k-1-b)
			}
		}
		for i := 0; i < sub; i++ {
			if m[i][j] == 0 {
				continue
			}
			// Replace the gate's qubit bits with sub-index i.
			outIdx := in
			for b, q := range qubits {
				mask := 1 << bitPos(q)
				if i&(1<<uint(k-1-b)) != 0 {
					outIdx |= mask
				} else {
					outIdx &^= mask
				}
			}
			out[outIdx][in] += m[i][j]
		}
	}
	return out
}
