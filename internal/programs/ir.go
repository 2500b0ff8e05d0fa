// SPDX-License-Identifier: MIT

package programs

import (
	"encoding/json"
	"fmt"
)

// FormatIR is the native JSON serialization of the neutral representation.
// It is the hub format every converter path passes through.
const FormatIR = "ir"

type irCodec struct{}

func (irCodec) Decode(data []byte) (*Program, error) {
	var p Program
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("ir: decode: %w", err)
	}
	p.Format = FormatIR
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (irCodec) Encode(p *Program) ([]byte, error) {
	cp := p.Clone()
	cp.Format = FormatIR
	return json.MarshalIndent(cp, "", "  ")
}

func init() {
	Register(FormatIR, irCodec{})
	Register(FormatJaqcd, jaqcdCodec{})
}
