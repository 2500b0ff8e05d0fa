// SPDX-License-Identifier: MIT

package programs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJaqcdEncodeBell(t *testing.T) {
	data, err := Encode(FormatJaqcd, bell())
	require.NoError(t, err)

	var out jaqcdProgram
	require.NoError(t, json.Unmarshal(data, &out))

	assert.Equal(t, jaqcdSchemaName, out.Header.Name)
	// Measurements are implicit on Braket and so are dropped.
	require.Len(t, out.Instructions, 2)

	assert.Equal(t, "h", out.Instructions[0].Type)
	require.NotNil(t, out.Instructions[0].Target)
	assert.Equal(t, 0, *out.Instructions[0].Target)

	assert.Equal(t, "cnot", out.Instructions[1].Type)
	require.NotNil(t, out.Instructions[1].Control)
	assert.Equal(t, 0, *out.Instructions[1].Control)
	require.NotNil(t, out.Instructions[1].Target)
	assert.Equal(t, 1, *out.Instructions[1].Target)
}

func TestJaqcdEncodeAngles(t *testing.T) {
	p := &Program{
		NumQubits: 2,
		Instructions: []Instruction{
			{Gate: GateRX, Qubits: []int{0}, Params: []Param{Number(0.5)}},
			{Gate: GateSwap, Qubits: []int{0, 1}},
		},
	}

	data, err := Encode(FormatJaqcd, p)
	require.NoError(t, err)

	var out jaqcdProgram
	require.NoError(t, json.Unmarshal(data, &out))
	require.Len(t, out.Instructions, 2)

	require.NotNil(t, out.Instructions[0].Angle)
	assert.Equal(t, 0.5, *out.Instructions[0].Angle)

	// swap uses targets, not control/target.
	assert.Equal(t, []int{0, 1}, out.Instructions[1].Targets)
	assert.Nil(t, out.Instructions[1].Control)
}

func TestJaqcdEncodeRejectsUnrepresentable(t *testing.T) {
	p := &Program{
		NumQubits: 2,
		Instructions: []Instruction{
			{Gate: GateCH, Qubits: []int{0, 1}},
		},
	}
	_, err := Encode(FormatJaqcd, p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not representable")
}

func TestJaqcdEncodeRejectsUnboundParam(t *testing.T) {
	p := &Program{
		NumQubits: 1,
		Instructions: []Instruction{
			{Gate: GateRX, Qubits: []int{0}, Params: []Param{Symbol("theta", 0)}},
		},
	}
	_, err := Encode(FormatJaqcd, p)
	assert.ErrorIs(t, err, ErrUnboundParam)
}

func TestJaqcdDecode(t *testing.T) {
	src := `{
	  "braketSchemaHeader": {"name": "braket.ir.jaqcd.program", "version": "1"},
	  "instructions": [
	    {"type": "h", "target": 0},
	    {"type": "cnot", "control": 0, "target": 1},
	    {"type": "rx", "target": 2, "angle": 1.5707963267948966},
	    {"type": "ccnot", "controls": [0, 1], "target": 2}
	  ]
	}`
	p, err := Decode(FormatJaqcd, []byte(src))
	require.NoError(t, err)

	assert.Equal(t, 3, p.NumQubits)
	require.Len(t, p.Instructions, 4)
	assert.Equal(t, GateCX, p.Instructions[1].Gate)
	assert.Equal(t, []int{0, 1}, p.Instructions[1].Qubits)
	assert.Equal(t, GateCCX, p.Instructions[3].Gate)
	assert.Equal(t, []int{0, 1, 2}, p.Instructions[3].Qubits)
}

func TestJaqcdDecodeUnknownType(t *testing.T) {
	src := `{"instructions": [{"type": "xy", "target": 0}]}`
	_, err := Decode(FormatJaqcd, []byte(src))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown type")
}

func TestJaqcdDecodeWrongSchema(t *testing.T) {
	src := `{"braketSchemaHeader": {"name": "braket.ir.openqasm.program"}, "instructions": []}`
	_, err := Decode(FormatJaqcd, []byte(src))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected schema")
}
