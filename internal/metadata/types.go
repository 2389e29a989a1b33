// Package metadata describes the API surface handed to the route generator by
// the static-analysis stage: controllers, their methods, and the registry of
// named types those methods reference. Everything here is read-only input.
package metadata

// DataType discriminates the variants of a TypeDescriptor
type DataType string

const (
	DataTypeString              DataType = "string"
	DataTypeDouble              DataType = "double"
	DataTypeFloat               DataType = "float"
	DataTypeInteger             DataType = "integer"
	DataTypeLong                DataType = "long"
	DataTypeBoolean             DataType = "boolean"
	DataTypeDate                DataType = "date"
	DataTypeDatetime            DataType = "datetime"
	DataTypeBuffer              DataType = "buffer"
	DataTypeBinary              DataType = "binary"
	DataTypeByte                DataType = "byte"
	DataTypeVoid                DataType = "void"
	DataTypeUndefined           DataType = "undefined"
	DataTypeNull                DataType = "null"
	DataTypeObject              DataType = "object"
	DataTypeAny                 DataType = "any"
	DataTypeFile                DataType = "file"
	DataTypeArray               DataType = "array"
	DataTypeEnum                DataType = "enum"
	DataTypeUnion               DataType = "union"
	DataTypeIntersection        DataType = "intersection"
	DataTypeNestedObjectLiteral DataType = "nestedObjectLiteral"
	DataTypeRefObject           DataType = "refObject"
	DataTypeRefEnum             DataType = "refEnum"
	DataTypeRefAlias            DataType = "refAlias"
)

var knownDataTypes = map[DataType]bool{
	DataTypeString: true, DataTypeDouble: true, DataTypeFloat: true, DataTypeInteger: true,
	DataTypeLong: true, DataTypeBoolean: true, DataTypeDate: true, DataTypeDatetime: true,
	DataTypeBuffer: true, DataTypeBinary: true, DataTypeByte: true, DataTypeVoid: true,
	DataTypeUndefined: true, DataTypeNull: true, DataTypeObject: true, DataTypeAny: true,
	DataTypeFile: true, DataTypeArray: true, DataTypeEnum: true, DataTypeUnion: true,
	DataTypeIntersection: true, DataTypeNestedObjectLiteral: true, DataTypeRefObject: true,
	DataTypeRefEnum: true, DataTypeRefAlias: true,
}

// IsKnown reports whether d is one of the recognised data types
func (d DataType) IsKnown() bool {
	return knownDataTypes[d]
}

// IsReference reports whether d names a registry entry kind
func (d DataType) IsReference() bool {
	return d == DataTypeRefObject || d == DataTypeRefEnum || d == DataTypeRefAlias
}

// TypeDescriptor is a tagged variant describing a data shape. DataType selects
// which of the remaining fields are meaningful:
//
//	refObject, nestedObjectLiteral  Properties, AdditionalProperties
//	refEnum, enum                   Enums
//	refAlias                        Type
//	array                           ElementType
//	union, intersection             Types
//
// When a ref* descriptor appears inside another type it is a reference and
// RefName names the registry entry it points at.
type TypeDescriptor struct {
	DataType             DataType             `json:"dataType" yaml:"dataType"`
	RefName              string               `json:"refName,omitempty" yaml:"refName,omitempty"`
	Properties           []Property           `json:"properties,omitempty" yaml:"properties,omitempty"`
	AdditionalProperties AdditionalProperties `json:"additionalProperties,omitzero" yaml:"additionalProperties,omitempty"`
	Enums                []any                `json:"enums,omitempty" yaml:"enums,omitempty"`
	Type                 *TypeDescriptor      `json:"type,omitempty" yaml:"type,omitempty"`
	ElementType          *TypeDescriptor      `json:"elementType,omitempty" yaml:"elementType,omitempty"`
	Types                []*TypeDescriptor    `json:"types,omitempty" yaml:"types,omitempty"`
	Format               string               `json:"format,omitempty" yaml:"format,omitempty"`
	Default              any                  `json:"default,omitempty" yaml:"default,omitempty"`
	Description          string               `json:"description,omitempty" yaml:"description,omitempty"`
	Deprecated           bool                 `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
}

// AnyType returns a descriptor that accepts any JSON-compatible value
func AnyType() *TypeDescriptor {
	return &TypeDescriptor{DataType: DataTypeAny}
}

// Property is a named member of an object type
type Property struct {
	Name        string          `json:"name" yaml:"name"`
	Type        *TypeDescriptor `json:"type" yaml:"type"`
	Required    bool            `json:"required" yaml:"required"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Validators  map[string]any  `json:"validators,omitempty" yaml:"validators,omitempty"`
	Default     any             `json:"default,omitempty" yaml:"default,omitempty"`
	Deprecated  bool            `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
}

// TypeRegistry maps globally unique type names to their descriptors
type TypeRegistry map[string]*TypeDescriptor

// Names returns the registry keys in sorted order
func (r TypeRegistry) Names() []string {
	return sortedKeys(r)
}

// Controller is a source-level controller unit
type Controller struct {
	Location string     `json:"location" yaml:"location"` // source file, absolute or project-relative
	Name     string     `json:"name" yaml:"name"`
	Path     string     `json:"path" yaml:"path"`
	Methods  []Method   `json:"methods" yaml:"methods"`
	Security []Security `json:"security,omitempty" yaml:"security,omitempty"`
}

// Method is a controller action. The generator never interprets it beyond
// handing it to the template.
type Method struct {
	Name          string          `json:"name" yaml:"name"`
	Method        string          `json:"method" yaml:"method"` // HTTP verb, lower case
	Path          string          `json:"path" yaml:"path"`
	Parameters    []Parameter     `json:"parameters" yaml:"parameters"`
	Type          *TypeDescriptor `json:"type,omitempty" yaml:"type,omitempty"`
	SuccessStatus int             `json:"successStatus,omitempty" yaml:"successStatus,omitempty"`
	Security      []Security      `json:"security,omitempty" yaml:"security,omitempty"`
	Deprecated    bool            `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
	IsHidden      bool            `json:"isHidden,omitempty" yaml:"isHidden,omitempty"`
}

// Parameter is a method argument and where it is bound from
type Parameter struct {
	Name          string          `json:"name" yaml:"name"`                   // name on the wire
	ParameterName string          `json:"parameterName" yaml:"parameterName"` // name in the handler signature
	In            string          `json:"in" yaml:"in"`                       // path, query, queries, header, body, body-prop, formData, request, res
	Required      bool            `json:"required" yaml:"required"`
	Type          *TypeDescriptor `json:"type" yaml:"type"`
	Validators    map[string]any  `json:"validators,omitempty" yaml:"validators,omitempty"`
	Default       any             `json:"default,omitempty" yaml:"default,omitempty"`
}

// Security maps a security scheme name to its required scopes
type Security map[string][]string

// Metadata is the full output of the static-analysis stage
type Metadata struct {
	Controllers      []Controller `json:"controllers" yaml:"controllers"`
	ReferenceTypeMap TypeRegistry `json:"referenceTypeMap" yaml:"referenceTypeMap"`
}
