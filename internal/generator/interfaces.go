package generator

import "github.com/pclements12/tsoa/internal/models"

// CodeGenerator defines the interface for producing a routes module from metadata
type CodeGenerator interface {
	BuildModels() (models.Models, error)
	BuildContent(templateText string) (string, error)
	GenerateRoutes() (*GeneratedRoutes, error)
}

var _ CodeGenerator = (*RouteGenerator)(nil)
