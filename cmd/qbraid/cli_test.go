// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qbraid/qbraid-go/internal/version"
)

func TestFormatFromExtension(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"bell.qasm", "qasm3"},
		{"bell.qasm3", "qasm3"},
		{"bell.qasm2", "qasm2"},
		{"circuit.json", "ir"},
		{"circuit.QASM2", "qasm2"},
		{"program.txt", "qasm3"},
		{"noext", "qasm3"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, formatFromExtension(tt.path))
		})
	}
}

func TestParseTags(t *testing.T) {
	assert.Nil(t, parseTags(nil))

	tags := parseTags([]string{"experiment=bell", "run=1", "=skipme", "notag"})
	assert.Equal(t, map[string]string{"experiment": "bell", "run": "1"}, tags)
}

func TestVersionCommandJSON(t *testing.T) {
	flagJSON = true
	t.Cleanup(func() { flagJSON = false })

	out := new(bytes.Buffer)
	versionCmd.SetOut(out)
	versionCmd.Run(versionCmd, nil)

	assert.Contains(t, out.String(), `"version"`)
	assert.Contains(t, out.String(), version.Version)
}
