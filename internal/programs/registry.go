// SPDX-License-Identifier: MIT

package programs

import (
	"fmt"
	"sort"
	"sync"
)

// Codec translates between a concrete program format and the neutral IR.
type Codec interface {
	// Decode parses serialized program text into the IR.
	Decode(data []byte) (*Program, error)
	// Encode serializes the IR into the codec's format.
	Encode(p *Program) ([]byte, error)
}

var (
	regMu  sync.RWMutex
	codecs = make(map[string]Codec)
)

// Register installs a codec for the given format tag. Re-registering a
// format replaces the previous codec.
func Register(format string, c Codec) {
	regMu.Lock()
	defer regMu.Unlock()
	codecs[format] = c
}

// Lookup returns the codec registered for format.
func Lookup(format string) (Codec, error) {
	regMu.RLock()
	defer regMu.RUnlock()
	c, ok := codecs[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %v)", ErrUnsupportedFormat, format, supportedLocked())
	}
	return c, nil
}

// Decode parses data in the given format into the IR.
func Decode(format string, data []byte) (*Program, error) {
	c, err := Lookup(format)
	if err != nil {
		return nil, err
	}
	p, err := c.Decode(data)
	if err != nil {
		return nil, err
	}
	p.Format = format
	return p, nil
}

// Encode serializes p into the given format.
func Encode(format string, p *Program) ([]byte, error) {
	c, err := Lookup(format)
	if err != nil {
		return nil, err
	}
	return c.Encode(p)
}

// Supported returns the registered format tags, sorted.
func Supported() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	return supportedLocked()
}

func supportedLocked() []string {
	out := make([]string, 0, len(codecs))
	for f := range codecs {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// IsSupported reports whether a codec is registered for format.
func IsSupported(format string) bool {
	regMu.RLock()
	defer regMu.RUnlock()
	_, ok := codecs[format]
	return ok
}
