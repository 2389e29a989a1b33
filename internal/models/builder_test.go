package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	generrors "github.com/pclements12/tsoa/internal/errors"
	"github.com/pclements12/tsoa/internal/metadata"
)

func stringType() *metadata.TypeDescriptor {
	return &metadata.TypeDescriptor{DataType: metadata.DataTypeString}
}

func objectWith(ap metadata.AdditionalProperties) *metadata.TypeDescriptor {
	return &metadata.TypeDescriptor{
		DataType: metadata.DataTypeRefObject,
		Properties: []metadata.Property{
			{Name: "aStringOnTheObject", Required: true, Type: stringType(), Validators: map[string]any{}},
		},
		AdditionalProperties: ap,
	}
}

func TestBuildModels_NoExtrasUnlessExplicitlyStated(t *testing.T) {
	registry := metadata.TypeRegistry{
		"refThatShouldNotAllowExtras": {
			DataType: metadata.DataTypeRefObject,
			RefName:  "refThatShouldNotAllowExtras",
			Properties: []metadata.Property{
				{Name: "aStringOnTheObject", Required: true, Type: stringType(), Validators: map[string]any{}},
			},
		},
		"refWithExtraStrings": {
			DataType:             metadata.DataTypeRefObject,
			RefName:              "refThatShouldNotAllowExtras",
			AdditionalProperties: metadata.Permit(stringType()),
		},
	}

	models, err := BuildModels(registry, PolicySilentlyRemoveExtras)
	require.NoError(t, err)

	strict, ok := models["refThatShouldNotAllowExtras"].(ObjectModel)
	require.True(t, ok, "expected an object model for refThatShouldNotAllowExtras")
	assert.False(t, strict.AdditionalProperties.Permitted())

	dictionary, ok := models["refWithExtraStrings"].(ObjectModel)
	require.True(t, ok, "expected an object model for refWithExtraStrings")
	require.True(t, dictionary.AdditionalProperties.Permitted())
	assert.Equal(t, &metadata.TypeDescriptor{DataType: metadata.DataTypeString}, dictionary.AdditionalProperties.Type())
}

func TestBuildModels_ExplicitExtrasWinOverPolicy(t *testing.T) {
	for _, policy := range Policies {
		t.Run(string(policy), func(t *testing.T) {
			registry := metadata.TypeRegistry{
				"Closed": objectWith(metadata.Forbid()),
				"Open":   objectWith(metadata.Permit(&metadata.TypeDescriptor{DataType: metadata.DataTypeDouble})),
			}

			models, err := BuildModels(registry, policy)
			require.NoError(t, err)

			closed := models["Closed"].(ObjectModel)
			assert.False(t, closed.AdditionalProperties.Permitted())

			open := models["Open"].(ObjectModel)
			require.True(t, open.AdditionalProperties.Permitted())
			assert.Equal(t, metadata.DataTypeDouble, open.AdditionalProperties.Type().DataType)
		})
	}
}

func TestBuildModels_UnsetExtrasFollowPolicy(t *testing.T) {
	tests := []struct {
		policy       ExtraPropertiesPolicy
		wantPermit   bool
		wantDataType metadata.DataType
	}{
		{policy: PolicySilentlyRemoveExtras, wantPermit: false},
		{policy: PolicyThrowOnExtras, wantPermit: false},
		{policy: PolicyIgnore, wantPermit: true, wantDataType: metadata.DataTypeAny},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			registry := metadata.TypeRegistry{"Thing": objectWith(metadata.AdditionalProperties{})}

			models, err := BuildModels(registry, tt.policy)
			require.NoError(t, err)

			model := models["Thing"].(ObjectModel)
			assert.Equal(t, tt.wantPermit, model.AdditionalProperties.Permitted())
			if tt.wantPermit {
				require.NotNil(t, model.AdditionalProperties.Type())
				assert.Equal(t, tt.wantDataType, model.AdditionalProperties.Type().DataType)
			}
		})
	}
}

func TestBuildModels_NonObjectEntriesPassThrough(t *testing.T) {
	union := &metadata.TypeDescriptor{
		DataType: metadata.DataTypeUnion,
		Types:    []*metadata.TypeDescriptor{stringType(), {DataType: metadata.DataTypeDouble}},
	}
	registry := metadata.TypeRegistry{
		"Status": {DataType: metadata.DataTypeRefEnum, Enums: []any{"on", "off"}, Description: "switch state"},
		"UserId": {DataType: metadata.DataTypeRefAlias, Type: stringType(), Format: "uuid"},
		"Either": union,
	}

	models, err := BuildModels(registry, PolicyThrowOnExtras)
	require.NoError(t, err)

	enum := models["Status"].(EnumModel)
	assert.Equal(t, []any{"on", "off"}, enum.Enums)
	assert.Equal(t, "switch state", enum.Description)

	alias := models["UserId"].(AliasModel)
	assert.Equal(t, metadata.DataTypeString, alias.Type.DataType)
	assert.Equal(t, "uuid", alias.Format)

	either := models["Either"].(AliasModel)
	assert.Same(t, union, either.Type)
}

func TestBuildModels_DanglingReferenceFailsFast(t *testing.T) {
	tests := []struct {
		name     string
		entry    *metadata.TypeDescriptor
		wantPath string
	}{
		{
			name: "property",
			entry: &metadata.TypeDescriptor{
				DataType: metadata.DataTypeRefObject,
				Properties: []metadata.Property{
					{Name: "address", Type: &metadata.TypeDescriptor{DataType: metadata.DataTypeRefObject, RefName: "Address"}},
				},
			},
			wantPath: "properties.address",
		},
		{
			name: "array element",
			entry: &metadata.TypeDescriptor{
				DataType: metadata.DataTypeRefObject,
				Properties: []metadata.Property{
					{Name: "addresses", Type: &metadata.TypeDescriptor{
						DataType:    metadata.DataTypeArray,
						ElementType: &metadata.TypeDescriptor{DataType: metadata.DataTypeRefObject, RefName: "Address"},
					}},
				},
			},
			wantPath: "properties.addresses.elementType",
		},
		{
			name: "additional properties",
			entry: &metadata.TypeDescriptor{
				DataType:             metadata.DataTypeRefObject,
				AdditionalProperties: metadata.Permit(&metadata.TypeDescriptor{DataType: metadata.DataTypeRefObject, RefName: "Address"}),
			},
			wantPath: "additionalProperties",
		},
		{
			name: "alias target",
			entry: &metadata.TypeDescriptor{
				DataType: metadata.DataTypeRefAlias,
				Type:     &metadata.TypeDescriptor{DataType: metadata.DataTypeRefAlias, RefName: "Address"},
			},
			wantPath: "type",
		},
		{
			name: "union member",
			entry: &metadata.TypeDescriptor{
				DataType: metadata.DataTypeRefAlias,
				Type: &metadata.TypeDescriptor{
					DataType: metadata.DataTypeUnion,
					Types:    []*metadata.TypeDescriptor{stringType(), {DataType: metadata.DataTypeRefEnum, RefName: "Address"}},
				},
			},
			wantPath: "type.types[1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := metadata.TypeRegistry{"User": tt.entry}

			models, err := BuildModels(registry, PolicySilentlyRemoveExtras)
			require.Error(t, err)
			assert.Nil(t, models, "no partial dictionary on failure")

			var refErr *generrors.ReferenceError
			require.ErrorAs(t, err, &refErr)
			assert.Equal(t, "Address", refErr.TypeName)
			assert.Equal(t, "User", refErr.ReferencedBy)
			assert.Equal(t, tt.wantPath, refErr.Path)
		})
	}
}

func TestBuildModels_ResolvedReferencesAreAccepted(t *testing.T) {
	registry := metadata.TypeRegistry{
		"User": {
			DataType: metadata.DataTypeRefObject,
			Properties: []metadata.Property{
				{Name: "address", Required: true, Type: &metadata.TypeDescriptor{DataType: metadata.DataTypeRefObject, RefName: "Address"}},
			},
		},
		"Address": objectWith(metadata.AdditionalProperties{}),
	}

	models, err := BuildModels(registry, PolicyIgnore)
	require.NoError(t, err)
	assert.Len(t, models, 2)
}

func TestBuildModels_MalformedEntries(t *testing.T) {
	tests := []struct {
		name  string
		entry *metadata.TypeDescriptor
	}{
		{name: "nil entry", entry: nil},
		{name: "alias without target", entry: &metadata.TypeDescriptor{DataType: metadata.DataTypeRefAlias}},
		{name: "property without type", entry: &metadata.TypeDescriptor{
			DataType:   metadata.DataTypeRefObject,
			Properties: []metadata.Property{{Name: "x"}},
		}},
		{name: "duplicate property", entry: &metadata.TypeDescriptor{
			DataType:   metadata.DataTypeRefObject,
			Properties: []metadata.Property{{Name: "x", Type: stringType()}, {Name: "x", Type: stringType()}},
		}},
		{name: "reference without name", entry: &metadata.TypeDescriptor{
			DataType:   metadata.DataTypeRefObject,
			Properties: []metadata.Property{{Name: "x", Type: &metadata.TypeDescriptor{DataType: metadata.DataTypeRefObject}}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildModels(metadata.TypeRegistry{"Bad": tt.entry}, PolicyIgnore)
			require.Error(t, err)

			var metaErr *generrors.MetadataError
			require.ErrorAs(t, err, &metaErr)
			assert.Equal(t, "Bad", metaErr.Subject)
		})
	}
}

func TestBuildModels_InvalidPolicy(t *testing.T) {
	_, err := BuildModels(metadata.TypeRegistry{}, ExtraPropertiesPolicy("allow-everything"))
	require.Error(t, err)
	assert.Equal(t, generrors.ConfigurationErrorCode, generrors.CodeOf(err))
}

func TestBuildModels_DoesNotMutateRegistry(t *testing.T) {
	entry := objectWith(metadata.AdditionalProperties{})
	registry := metadata.TypeRegistry{"Thing": entry}

	models, err := BuildModels(registry, PolicyIgnore)
	require.NoError(t, err)

	assert.Equal(t, metadata.ExtrasUnset, entry.AdditionalProperties.State())

	model := models["Thing"].(ObjectModel)
	model.Properties["aStringOnTheObject"].Validators["minLength"] = 3
	assert.Empty(t, entry.Properties[0].Validators)
}

func TestBuildModels_Idempotent(t *testing.T) {
	registry := metadata.TypeRegistry{
		"A": objectWith(metadata.AdditionalProperties{}),
		"B": objectWith(metadata.Forbid()),
		"C": {DataType: metadata.DataTypeRefEnum, Enums: []any{1.0, 2.0}},
		"D": {DataType: metadata.DataTypeRefAlias, Type: stringType()},
	}

	first, err := BuildModels(registry, PolicyIgnore)
	require.NoError(t, err)
	second, err := BuildModels(registry, PolicyIgnore)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestModels_MarshalJSON(t *testing.T) {
	registry := metadata.TypeRegistry{
		"Strict": objectWith(metadata.AdditionalProperties{}),
		"Color":  {DataType: metadata.DataTypeRefEnum, Enums: []any{"red"}},
	}

	models, err := BuildModels(registry, PolicyThrowOnExtras)
	require.NoError(t, err)

	out, err := json.Marshal(models)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"Color": {"dataType": "refEnum", "enums": ["red"]},
		"Strict": {
			"dataType": "refObject",
			"properties": {
				"aStringOnTheObject": {"type": {"dataType": "string"}, "required": true}
			},
			"additionalProperties": false
		}
	}`, string(out))
}

func TestParsePolicy(t *testing.T) {
	for _, p := range Policies {
		got, err := ParsePolicy(string(p))
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	got, err := ParsePolicy("  ignore ")
	require.NoError(t, err)
	assert.Equal(t, PolicyIgnore, got)

	_, err = ParsePolicy("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")

	_, err = ParsePolicy("remove")
	require.Error(t, err)
	var cfgErr *generrors.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "noImplicitAdditionalProperties", cfgErr.Option)
	assert.NotEmpty(t, cfgErr.Suggestions())
}

func TestResolveExtras(t *testing.T) {
	e, err := ResolveExtras(metadata.AdditionalProperties{}, PolicyThrowOnExtras)
	require.NoError(t, err)
	assert.False(t, e.Permitted())

	e, err = ResolveExtras(metadata.Permit(stringType()), PolicyThrowOnExtras)
	require.NoError(t, err)
	assert.True(t, e.Permitted())

	_, err = ResolveExtras(metadata.AdditionalProperties{}, ExtraPropertiesPolicy("nope"))
	assert.Error(t, err)
}
