// SPDX-License-Identifier: MIT

package runtime

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsDefaults(t *testing.T) {
	opts := DefaultOptions()

	v, ok := opts.Get("transpile")
	require.True(t, ok)
	assert.Equal(t, true, v)
	assert.True(t, opts.GetBool("transpile", false))
	assert.True(t, opts.GetBool("validate", false))
}

func TestOptionsSetAndGet(t *testing.T) {
	opts := DefaultOptions()

	require.NoError(t, opts.Set("transpile", false))
	assert.False(t, opts.GetBool("transpile", true))

	require.NoError(t, opts.Set("tag", "bell-state"))
	v, ok := opts.Get("tag")
	require.True(t, ok)
	assert.Equal(t, "bell-state", v)
}

func TestOptionsValidatorRejectsBadValues(t *testing.T) {
	opts := DefaultOptions()

	err := opts.Set("transpile", "yes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transpile")

	// Value untouched after a failed set.
	assert.True(t, opts.GetBool("transpile", false))
}

func TestOptionsSetValidatorChecksCurrentValue(t *testing.T) {
	opts := NewOptions(map[string]any{"shots_limit": "many"})

	err := opts.SetValidator("shots_limit", func(v any) error {
		if _, ok := v.(int); !ok {
			return fmt.Errorf("expected int, got %T", v)
		}
		return nil
	})
	assert.Error(t, err)
}

func TestOptionsDeleteDefaultField(t *testing.T) {
	opts := DefaultOptions()

	err := opts.Delete("transpile")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default")

	require.NoError(t, opts.Set("extra", 1))
	require.NoError(t, opts.Delete("extra"))
	_, ok := opts.Get("extra")
	assert.False(t, ok)

	assert.Error(t, opts.Delete("never_set"))
}

func TestOptionsUpdate(t *testing.T) {
	opts := DefaultOptions()

	require.NoError(t, opts.Update(map[string]any{
		"transpile": false,
		"tag":       "vqe",
	}))
	assert.False(t, opts.GetBool("transpile", true))

	err := opts.Update(map[string]any{"transpile": 3})
	assert.Error(t, err)
}

func TestOptionsFieldsSnapshot(t *testing.T) {
	opts := DefaultOptions()
	snap := opts.Fields()
	snap["transpile"] = false

	// Mutating the snapshot does not affect the bag.
	assert.True(t, opts.GetBool("transpile", false))
}

func TestOptionsGetTags(t *testing.T) {
	opts := DefaultOptions()
	assert.Nil(t, opts.GetTags())

	require.NoError(t, opts.Set(OptionTags, map[string]string{"experiment": "bell"}))
	assert.Equal(t, map[string]string{"experiment": "bell"}, opts.GetTags())

	require.NoError(t, opts.Set(OptionTags, "not-a-map"))
	assert.Nil(t, opts.GetTags())
}
