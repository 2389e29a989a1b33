package models

import (
	"fmt"
	"maps"
	"slices"

	generrors "github.com/pclements12/tsoa/internal/errors"
	"github.com/pclements12/tsoa/internal/metadata"
)

// unsetExtras resolves an object type that left additionalProperties unset.
// silently-remove-extras and throw-on-extras produce the same model; the
// generated validator tells them apart by the policy name, which travels
// next to the models rather than inside them.
var unsetExtras = map[ExtraPropertiesPolicy]func() Extras{
	PolicySilentlyRemoveExtras: ForbidExtras,
	PolicyThrowOnExtras:        ForbidExtras,
	PolicyIgnore:               func() Extras { return PermitExtras(metadata.AnyType()) },
}

// ResolveExtras materializes an additionalProperties facet. An explicit
// author decision is kept as is; only unset facets consult the policy.
func ResolveExtras(ap metadata.AdditionalProperties, policy ExtraPropertiesPolicy) (Extras, error) {
	switch ap.State() {
	case metadata.ExtrasForbidden:
		return ForbidExtras(), nil
	case metadata.ExtrasPermitted:
		return PermitExtras(ap.Type()), nil
	}

	policy, err := ParsePolicy(string(policy))
	if err != nil {
		return Extras{}, err
	}
	return unsetExtras[policy](), nil
}

// BuildModels produces the model dictionary for every registry entry. It
// fails on the first problem found and never returns a partial dictionary.
// Entries are visited in name order so the reported error is deterministic.
func BuildModels(registry metadata.TypeRegistry, policy ExtraPropertiesPolicy) (Models, error) {
	policy, err := ParsePolicy(string(policy))
	if err != nil {
		return nil, err
	}

	out := make(Models, len(registry))
	for _, name := range registry.Names() {
		t := registry[name]
		if t == nil {
			return nil, generrors.NewMetadataError(name, "registry entry is empty")
		}

		if err := checkReferences(registry, name, t, ""); err != nil {
			return nil, err
		}

		model, err := buildModel(name, t, policy)
		if err != nil {
			return nil, err
		}
		out[name] = model
	}
	return out, nil
}

func buildModel(name string, t *metadata.TypeDescriptor, policy ExtraPropertiesPolicy) (Model, error) {
	switch t.DataType {
	case metadata.DataTypeRefObject:
		return buildObjectModel(name, t, policy)

	case metadata.DataTypeRefEnum:
		return EnumModel{
			Enums:       slices.Clone(t.Enums),
			Description: t.Description,
			Deprecated:  t.Deprecated,
		}, nil

	case metadata.DataTypeRefAlias:
		if t.Type == nil {
			return nil, generrors.NewMetadataError(name, "alias has no target type")
		}
		return AliasModel{
			Type:        t.Type,
			Format:      t.Format,
			Default:     t.Default,
			Description: t.Description,
			Deprecated:  t.Deprecated,
		}, nil
	}

	// Enums, unions, primitives and arrays registered under a name pass
	// through untouched.
	return AliasModel{
		Type:        t,
		Description: t.Description,
		Deprecated:  t.Deprecated,
	}, nil
}

func buildObjectModel(name string, t *metadata.TypeDescriptor, policy ExtraPropertiesPolicy) (Model, error) {
	props := make(map[string]PropertySchema, len(t.Properties))
	for _, p := range t.Properties {
		if p.Type == nil {
			return nil, generrors.NewMetadataError(name, fmt.Sprintf("property '%s' has no type", p.Name))
		}
		if _, dup := props[p.Name]; dup {
			return nil, generrors.NewMetadataError(name, fmt.Sprintf("property '%s' is declared twice", p.Name))
		}
		props[p.Name] = PropertySchema{
			Type:        p.Type,
			Required:    p.Required,
			Description: p.Description,
			Validators:  maps.Clone(p.Validators),
			Default:     p.Default,
			Deprecated:  p.Deprecated,
		}
	}

	extras, err := ResolveExtras(t.AdditionalProperties, policy)
	if err != nil {
		return nil, err
	}

	return ObjectModel{
		Properties:           props,
		AdditionalProperties: extras,
		Description:          t.Description,
		Deprecated:           t.Deprecated,
	}, nil
}

// checkReferences walks the inline parts of a registry entry and verifies
// every nested reference resolves. References are not followed: the entry
// they point at is checked on its own turn.
func checkReferences(registry metadata.TypeRegistry, owner string, t *metadata.TypeDescriptor, path string) error {
	if t == nil {
		return nil
	}

	if path != "" && t.DataType.IsReference() {
		if t.RefName == "" {
			return generrors.NewMetadataError(owner, fmt.Sprintf("reference at %s has no refName", path))
		}
		if _, ok := registry[t.RefName]; !ok {
			return generrors.NewReferenceError(t.RefName, owner, path)
		}
		return nil
	}

	for _, p := range t.Properties {
		if err := checkReferences(registry, owner, p.Type, join(path, "properties."+p.Name)); err != nil {
			return err
		}
	}
	if t.AdditionalProperties.State() == metadata.ExtrasPermitted {
		if err := checkReferences(registry, owner, t.AdditionalProperties.Type(), join(path, "additionalProperties")); err != nil {
			return err
		}
	}
	if err := checkReferences(registry, owner, t.Type, join(path, "type")); err != nil {
		return err
	}
	if err := checkReferences(registry, owner, t.ElementType, join(path, "elementType")); err != nil {
		return err
	}
	for i, member := range t.Types {
		if err := checkReferences(registry, owner, member, join(path, fmt.Sprintf("types[%d]", i))); err != nil {
			return err
		}
	}
	return nil
}

func join(path, segment string) string {
	if path == "" {
		return segment
	}
	return path + "." + segment
}
