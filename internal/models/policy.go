package models

import (
	"strings"

	generrors "github.com/pclements12/tsoa/internal/errors"
)

// ExtraPropertiesPolicy decides what happens to fields an object type does
// not declare, for object types that leave additionalProperties unset.
type ExtraPropertiesPolicy string

const (
	// PolicySilentlyRemoveExtras drops undeclared fields before validation.
	PolicySilentlyRemoveExtras ExtraPropertiesPolicy = "silently-remove-extras"
	// PolicyThrowOnExtras fails validation on any undeclared field.
	PolicyThrowOnExtras ExtraPropertiesPolicy = "throw-on-extras"
	// PolicyIgnore lets undeclared fields through untouched.
	PolicyIgnore ExtraPropertiesPolicy = "ignore"
)

// Policies lists every valid policy in display order
var Policies = []ExtraPropertiesPolicy{
	PolicySilentlyRemoveExtras,
	PolicyThrowOnExtras,
	PolicyIgnore,
}

// ParsePolicy converts a configured policy name. There is no default: an
// empty or unknown name is a configuration error.
func ParsePolicy(name string) (ExtraPropertiesPolicy, error) {
	p := ExtraPropertiesPolicy(strings.TrimSpace(name))
	if p.IsValid() {
		return p, nil
	}

	names := make([]string, len(Policies))
	for i, known := range Policies {
		names[i] = string(known)
	}

	reason := "unknown extra-properties policy"
	if p == "" {
		reason = "extra-properties policy is required"
	}
	return "", generrors.NewConfigurationError("noImplicitAdditionalProperties", name, reason).
		WithSuggestion("Set noImplicitAdditionalProperties to one of: " + strings.Join(names, ", "))
}

// IsValid reports whether p is one of the known policies
func (p ExtraPropertiesPolicy) IsValid() bool {
	for _, known := range Policies {
		if p == known {
			return true
		}
	}
	return false
}

// ForbidsExtras reports whether unset object types resolve to no extras
func (p ExtraPropertiesPolicy) ForbidsExtras() bool {
	return p == PolicySilentlyRemoveExtras || p == PolicyThrowOnExtras
}

// String returns the configured name
func (p ExtraPropertiesPolicy) String() string {
	return string(p)
}
