// Package models turns the type registry into the normalized model dictionary
// the generated routes module validates requests and responses against.
package models

import (
	"encoding/json"

	"github.com/pclements12/tsoa/internal/metadata"
)

// Model is one entry of the normalized model dictionary. The concrete types
// are ObjectModel, EnumModel and AliasModel.
type Model interface {
	ModelType() metadata.DataType
	isModel()
}

// Models maps type names to their normalized model. encoding/json sorts map
// keys, so marshalled output is stable for identical input.
type Models map[string]Model

// Extras is a resolved additionalProperties value. Unlike
// metadata.AdditionalProperties it has no unset state: the zero value forbids
// extras, and PermitExtras is the only way to allow them.
type Extras struct {
	permits *metadata.TypeDescriptor
}

// ForbidExtras returns an Extras that rejects undeclared fields
func ForbidExtras() Extras {
	return Extras{}
}

// PermitExtras returns an Extras whose undeclared fields must match t
func PermitExtras(t *metadata.TypeDescriptor) Extras {
	if t == nil {
		t = metadata.AnyType()
	}
	return Extras{permits: t}
}

// Permitted reports whether undeclared fields are allowed
func (e Extras) Permitted() bool {
	return e.permits != nil
}

// Type returns the descriptor undeclared fields must match, or nil when
// extras are forbidden.
func (e Extras) Type() *metadata.TypeDescriptor {
	return e.permits
}

// MarshalJSON encodes forbidden extras as false and permitted ones as their descriptor
func (e Extras) MarshalJSON() ([]byte, error) {
	if e.permits == nil {
		return []byte("false"), nil
	}
	return json.Marshal(e.permits)
}

// PropertySchema is an object model property keyed by name in ObjectModel
type PropertySchema struct {
	Type        *metadata.TypeDescriptor `json:"type"`
	Required    bool                     `json:"required"`
	Description string                   `json:"description,omitempty"`
	Validators  map[string]any           `json:"validators,omitempty"`
	Default     any                      `json:"default,omitempty"`
	Deprecated  bool                     `json:"deprecated,omitempty"`
}

// ObjectModel is the normalized form of a refObject entry
type ObjectModel struct {
	Properties           map[string]PropertySchema `json:"properties"`
	AdditionalProperties Extras                    `json:"additionalProperties"`
	Description          string                    `json:"description,omitempty"`
	Deprecated           bool                      `json:"deprecated,omitempty"`
}

// EnumModel is the normalized form of a refEnum entry
type EnumModel struct {
	Enums       []any  `json:"enums"`
	Description string `json:"description,omitempty"`
	Deprecated  bool   `json:"deprecated,omitempty"`
}

// AliasModel is the normalized form of a refAlias entry, and of any registry
// entry that is not an object or an enum.
type AliasModel struct {
	Type        *metadata.TypeDescriptor `json:"type"`
	Format      string                   `json:"format,omitempty"`
	Default     any                      `json:"default,omitempty"`
	Description string                   `json:"description,omitempty"`
	Deprecated  bool                     `json:"deprecated,omitempty"`
}

func (ObjectModel) ModelType() metadata.DataType { return metadata.DataTypeRefObject }
func (EnumModel) ModelType() metadata.DataType   { return metadata.DataTypeRefEnum }
func (AliasModel) ModelType() metadata.DataType  { return metadata.DataTypeRefAlias }

func (ObjectModel) isModel() {}
func (EnumModel) isModel()   {}
func (AliasModel) isModel()  {}

// MarshalJSON adds the dataType discriminator
func (m ObjectModel) MarshalJSON() ([]byte, error) {
	type plain ObjectModel
	return json.Marshal(struct {
		DataType metadata.DataType `json:"dataType"`
		plain
	}{m.ModelType(), plain(m)})
}

// MarshalJSON adds the dataType discriminator
func (m EnumModel) MarshalJSON() ([]byte, error) {
	type plain EnumModel
	return json.Marshal(struct {
		DataType metadata.DataType `json:"dataType"`
		plain
	}{m.ModelType(), plain(m)})
}

// MarshalJSON adds the dataType discriminator
func (m AliasModel) MarshalJSON() ([]byte, error) {
	type plain AliasModel
	return json.Marshal(struct {
		DataType metadata.DataType `json:"dataType"`
		plain
	}{m.ModelType(), plain(m)})
}
