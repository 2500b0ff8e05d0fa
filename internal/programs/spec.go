// SPDX-License-Identifier: MIT

package programs

import "fmt"

// Spec pins the program format a device accepts, with an optional extra
// validation hook (e.g. qubit count limits) applied after structural
// validation.
type Spec struct {
	Format   string
	Validate func(*Program) error
}

// NewSpec returns a Spec for the given registered format.
func NewSpec(format string) (Spec, error) {
	if !IsSupported(format) {
		return Spec{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return Spec{Format: format}, nil
}

// Accepts validates p against the spec. The program must already be in the
// spec's format.
func (s Spec) Accepts(p *Program) error {
	if p.Format != s.Format {
		return fmt.Errorf("%w: program format %q, device expects %q",
			ErrUnsupportedFormat, p.Format, s.Format)
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if s.Validate != nil {
		return s.Validate(p)
	}
	return nil
}
