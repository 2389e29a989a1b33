package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// ExtrasState is the state of an object type's additionalProperties facet
type ExtrasState int

const (
	// ExtrasUnset means the author made no decision; global policy applies.
	ExtrasUnset ExtrasState = iota
	// ExtrasForbidden means no fields beyond the declared properties.
	ExtrasForbidden
	// ExtrasPermitted means extra fields are allowed and must match Type.
	ExtrasPermitted
)

// String returns the state name
func (s ExtrasState) String() string {
	switch s {
	case ExtrasForbidden:
		return "forbidden"
	case ExtrasPermitted:
		return "permitted"
	default:
		return "unset"
	}
}

// AdditionalProperties is the three-state additionalProperties facet of an
// object type. The zero value is Unset.
type AdditionalProperties struct {
	state ExtrasState
	typ   *TypeDescriptor
}

// Forbid returns a Forbidden value
func Forbid() AdditionalProperties {
	return AdditionalProperties{state: ExtrasForbidden}
}

// Permit returns a value permitting extra fields of type t. A nil t permits
// any value.
func Permit(t *TypeDescriptor) AdditionalProperties {
	if t == nil {
		t = AnyType()
	}
	return AdditionalProperties{state: ExtrasPermitted, typ: t}
}

// State returns which of the three states the value is in
func (a AdditionalProperties) State() ExtrasState {
	return a.state
}

// Type returns the descriptor extra fields must match. It is nil unless the
// state is ExtrasPermitted.
func (a AdditionalProperties) Type() *TypeDescriptor {
	return a.typ
}

// IsZero reports whether the value is Unset. Both encoders use it to omit the
// key entirely.
func (a AdditionalProperties) IsZero() bool {
	return a.state == ExtrasUnset
}

// MarshalJSON encodes Forbidden as false and Permitted as the descriptor
func (a AdditionalProperties) MarshalJSON() ([]byte, error) {
	switch a.state {
	case ExtrasForbidden:
		return []byte("false"), nil
	case ExtrasPermitted:
		return json.Marshal(a.typ)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes false, true, null or a descriptor object
func (a *AdditionalProperties) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch string(trimmed) {
	case "null":
		*a = AdditionalProperties{}
		return nil
	case "false":
		*a = Forbid()
		return nil
	case "true":
		*a = Permit(nil)
		return nil
	}

	var t TypeDescriptor
	if err := json.Unmarshal(trimmed, &t); err != nil {
		return fmt.Errorf("additionalProperties must be a boolean or a type descriptor: %w", err)
	}
	*a = Permit(&t)
	return nil
}

// MarshalYAML mirrors MarshalJSON
func (a AdditionalProperties) MarshalYAML() (interface{}, error) {
	switch a.state {
	case ExtrasForbidden:
		return false, nil
	case ExtrasPermitted:
		return a.typ, nil
	default:
		return nil, nil
	}
}

// UnmarshalYAML mirrors UnmarshalJSON
func (a *AdditionalProperties) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		switch node.Tag {
		case "!!null":
			*a = AdditionalProperties{}
			return nil
		case "!!bool":
			var b bool
			if err := node.Decode(&b); err != nil {
				return err
			}
			if b {
				*a = Permit(nil)
			} else {
				*a = Forbid()
			}
			return nil
		}
		return fmt.Errorf("line %d: additionalProperties must be a boolean or a type descriptor, got %q", node.Line, node.Value)
	}

	var t TypeDescriptor
	if err := node.Decode(&t); err != nil {
		return err
	}
	*a = Permit(&t)
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
