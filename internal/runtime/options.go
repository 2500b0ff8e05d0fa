// SPDX-License-Identifier: MIT

package runtime

import (
	"fmt"
	"sort"
	"sync"
)

// Validator checks a single option value before it is stored.
type Validator func(value any) error

// Options is a dynamic bag of runtime settings for job submission.
// Providers seed it with default fields; callers may add or override
// fields at run time. Default fields can be changed but never removed.
// Options is safe for concurrent use.
type Options struct {
	mu         sync.RWMutex
	fields     map[string]any
	defaults   map[string]struct{}
	validators map[string]Validator
}

// NewOptions builds an options bag seeded with the given defaults.
func NewOptions(defaults map[string]any) *Options {
	o := &Options{
		fields:     make(map[string]any, len(defaults)),
		defaults:   make(map[string]struct{}, len(defaults)),
		validators: make(map[string]Validator),
	}
	for k, v := range defaults {
		o.fields[k] = v
		o.defaults[k] = struct{}{}
	}
	return o
}

// DefaultOptions returns the standard option set shared by all devices.
func DefaultOptions() *Options {
	o := NewOptions(map[string]any{
		"transpile": true,
		"validate":  true,
	})
	o.SetValidator("transpile", BoolValidator)
	o.SetValidator("validate", BoolValidator)
	return o
}

// OptionTags is the conventional field carrying job tags; providers
// attach its value to the submitted job document.
const OptionTags = "tags"

// GetTags returns the tags option, or nil when absent or mistyped.
func (o *Options) GetTags() map[string]string {
	v, ok := o.Get(OptionTags)
	if !ok {
		return nil
	}
	tags, ok := v.(map[string]string)
	if !ok {
		return nil
	}
	return tags
}

// BoolValidator accepts only boolean values.
func BoolValidator(value any) error {
	if _, ok := value.(bool); !ok {
		return fmt.Errorf("expected bool, got %T", value)
	}
	return nil
}

// SetValidator registers a validator for a field. The current value, if
// any, is checked immediately.
func (o *Options) SetValidator(field string, v Validator) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if current, ok := o.fields[field]; ok {
		if err := v(current); err != nil {
			return fmt.Errorf("option %q: %w", field, err)
		}
	}
	o.validators[field] = v
	return nil
}

// Get returns the value of a field.
func (o *Options) Get(field string) (any, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	v, ok := o.fields[field]
	return v, ok
}

// GetBool returns a boolean field, or the fallback if the field is
// absent or not a bool.
func (o *Options) GetBool(field string, fallback bool) bool {
	v, ok := o.Get(field)
	if !ok {
		return fallback
	}
	b, ok := v.(bool)
	if !ok {
		return fallback
	}
	return b
}

// Set stores a field value after running its validator, if one is
// registered.
func (o *Options) Set(field string, value any) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if v, ok := o.validators[field]; ok {
		if err := v(value); err != nil {
			return fmt.Errorf("option %q: %w", field, err)
		}
	}
	o.fields[field] = value
	return nil
}

// Delete removes a non-default field. Removing a default field is an
// error: providers rely on their seeded fields being present.
func (o *Options) Delete(field string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.defaults[field]; ok {
		return fmt.Errorf("cannot delete default option %q", field)
	}
	if _, ok := o.fields[field]; !ok {
		return fmt.Errorf("unknown option %q", field)
	}
	delete(o.fields, field)
	return nil
}

// Update applies multiple field values, validating each. It stops at
// the first invalid value, leaving earlier updates in place.
func (o *Options) Update(values map[string]any) error {
	// Deterministic application order so a failing batch is reproducible.
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := o.Set(k, values[k]); err != nil {
			return err
		}
	}
	return nil
}

// Fields returns a snapshot of the current field values.
func (o *Options) Fields() map[string]any {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make(map[string]any, len(o.fields))
	for k, v := range o.fields {
		out[k] = v
	}
	return out
}

func (o *Options) String() string {
	return fmt.Sprintf("Options(%v)", o.Fields())
}
