package templates

import (
	"github.com/pclements12/tsoa/internal/metadata"
	"github.com/pclements12/tsoa/internal/models"
)

// RouteContext is the data every routes template renders against
type RouteContext struct {
	Controllers      []ControllerContext
	ReferenceTypeMap metadata.TypeRegistry
	Models           models.Models
	ValidationConfig ValidationConfig

	// Resolved import specifiers, empty when not configured
	AuthenticationModule string
	IocModule            string

	BasePath string
	ESM      bool
}

// ControllerContext is a controller as found in the metadata plus the import
// specifier the routes module uses to reach it
type ControllerContext struct {
	metadata.Controller
	ModulePath string
}

// ValidationConfig is handed to the runtime validator verbatim. The policy
// name is what separates silently-remove-extras from throw-on-extras, since
// the models themselves are identical for both.
type ValidationConfig struct {
	NoImplicitAdditionalProperties models.ExtraPropertiesPolicy `json:"noImplicitAdditionalProperties"`
	BodyCoercion                   bool                         `json:"bodyCoercion"`
}

// HasAuthentication reports whether any controller or method declares security
func (c *RouteContext) HasAuthentication() bool {
	for _, ctrl := range c.Controllers {
		if len(ctrl.Security) > 0 {
			return true
		}
		for _, m := range ctrl.Methods {
			if len(m.Security) > 0 {
				return true
			}
		}
	}
	return false
}
