// SPDX-License-Identifier: MIT

package qasm

import (
	"fmt"

	"github.com/qbraid/qbraid-go/internal/programs"
)

// Format tags registered with the programs codec registry.
const (
	Format2 = "qasm2"
	Format3 = "qasm3"
)

type codec2 struct{}

func (codec2) Decode(data []byte) (*programs.Program, error) {
	p, version, err := Parse(string(data))
	if err != nil {
		return nil, err
	}
	if version != 2 {
		return nil, fmt.Errorf("qasm2: source declares OpenQASM %d", version)
	}
	return p, nil
}

func (codec2) Encode(p *programs.Program) ([]byte, error) {
	return Encode2(p)
}

type codec3 struct{}

func (codec3) Decode(data []byte) (*programs.Program, error) {
	p, version, err := Parse(string(data))
	if err != nil {
		return nil, err
	}
	if version != 3 {
		return nil, fmt.Errorf("qasm3: source declares OpenQASM %d", version)
	}
	return p, nil
}

func (codec3) Encode(p *programs.Program) ([]byte, error) {
	return Encode3(p)
}

func init() {
	programs.Register(Format2, codec2{})
	programs.Register(Format3, codec3{})
}
