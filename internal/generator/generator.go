// Package generator turns extracted controller metadata into a routes module.
package generator

import (
	"github.com/google/uuid"

	"github.com/pclements12/tsoa/internal/config"
	generrors "github.com/pclements12/tsoa/internal/errors"
	"github.com/pclements12/tsoa/internal/metadata"
	"github.com/pclements12/tsoa/internal/models"
	"github.com/pclements12/tsoa/internal/modulepath"
	"github.com/pclements12/tsoa/internal/templates"
	"github.com/pclements12/tsoa/internal/utils"
	"github.com/pclements12/tsoa/internal/utils/fileops"
)

// GeneratedRoutes is a rendered routes module and where it belongs
type GeneratedRoutes struct {
	FilePath string
	Content  string
	// RunID identifies the run in diagnostics only; it never appears in Content
	RunID string
}

// RouteGenerator builds models and routes content for one metadata set. It
// keeps no state between calls.
type RouteGenerator struct {
	metadata  *metadata.Metadata
	options   *config.Options
	diag      *utils.DiagnosticSystem
	resolver  *modulepath.Resolver
	renderer  *templates.Renderer
	templates *templates.TemplateRegistry
	fileOps   *fileops.FileOps
}

// New creates a route generator. A nil diag discards diagnostics.
func New(meta *metadata.Metadata, opts *config.Options, diag *utils.DiagnosticSystem) *RouteGenerator {
	if diag == nil {
		diag = utils.NewSilentDiagnostics()
	}
	return &RouteGenerator{
		metadata:  meta,
		options:   opts,
		diag:      diag,
		resolver:  modulepath.NewResolver(""),
		renderer:  templates.NewRenderer(),
		templates: templates.NewTemplateRegistry(),
		fileOps:   fileops.NewFileOps(),
	}
}

// BuildModels normalizes the reference type map under the configured policy
func (g *RouteGenerator) BuildModels() (models.Models, error) {
	if err := g.check(); err != nil {
		return nil, err
	}

	built, err := models.BuildModels(g.metadata.ReferenceTypeMap, g.options.Policy())
	if err != nil {
		return nil, err
	}

	g.diag.Verbose("built %d models", len(built))
	return built, nil
}

// BuildContent renders templateText against the metadata. Nothing is
// rendered unless every model and module path resolves.
func (g *RouteGenerator) BuildContent(templateText string) (string, error) {
	return g.buildContent("routes", templateText)
}

// GenerateRoutes renders the routes module with the configured template
func (g *RouteGenerator) GenerateRoutes() (*GeneratedRoutes, error) {
	if err := g.check(); err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	g.diag.Verbose("routes run %s: %s", runID, g.options)

	name, text, err := g.templateText()
	if err != nil {
		return nil, err
	}

	content, err := g.buildContent(name, text)
	if err != nil {
		g.diag.Verbose("routes run %s failed", runID)
		return nil, err
	}

	return &GeneratedRoutes{
		FilePath: g.options.RoutesFile(),
		Content:  content,
		RunID:    runID,
	}, nil
}

// Write writes generated routes to disk, creating the routes directory
func (g *RouteGenerator) Write(routes *GeneratedRoutes) error {
	g.diag.PhaseProgress("Writing " + routes.FilePath)
	return g.fileOps.WriteFile(routes.FilePath, []byte(routes.Content), 0o644)
}

func (g *RouteGenerator) buildContent(name, templateText string) (string, error) {
	built, err := g.BuildModels()
	if err != nil {
		return "", err
	}

	ctx, err := g.routeContext(built)
	if err != nil {
		return "", err
	}

	return g.renderer.Render(name, templateText, ctx)
}

func (g *RouteGenerator) routeContext(built models.Models) (*templates.RouteContext, error) {
	system := g.options.ModuleSystem()

	controllers := make([]templates.ControllerContext, 0, len(g.metadata.Controllers))
	for _, c := range g.metadata.Controllers {
		modulePath, err := g.resolver.Resolve(c.Location, g.options.RoutesDir, system)
		if err != nil {
			return nil, err
		}
		g.diag.Debug("controller %s: %s -> %s", c.Name, c.Location, modulePath)

		controllers = append(controllers, templates.ControllerContext{
			Controller: c,
			ModulePath: modulePath,
		})
	}

	authModule, err := g.resolveOptional("authenticationModule", g.options.AuthenticationModule, system)
	if err != nil {
		return nil, err
	}
	iocModule, err := g.resolveOptional("iocModule", g.options.IocModule, system)
	if err != nil {
		return nil, err
	}

	return &templates.RouteContext{
		Controllers:      controllers,
		ReferenceTypeMap: g.metadata.ReferenceTypeMap,
		Models:           built,
		ValidationConfig: templates.ValidationConfig{
			NoImplicitAdditionalProperties: g.options.Policy(),
			BodyCoercion:                   g.options.BodyCoercion,
		},
		AuthenticationModule: authModule,
		IocModule:            iocModule,
		BasePath:             g.options.BasePath,
		ESM:                  g.options.ESM,
	}, nil
}

// resolveOptional resolves a helper module location, leaving unset ones empty
func (g *RouteGenerator) resolveOptional(option, location string, system modulepath.ModuleSystem) (string, error) {
	if location == "" {
		return "", nil
	}

	resolved, err := g.resolver.Resolve(location, g.options.RoutesDir, system)
	if err != nil {
		return "", generrors.WrapConfigurationError(option, location, err)
	}
	g.diag.Debug("%s: %s -> %s", option, location, resolved)
	return resolved, nil
}

// templateText returns the custom template when one is configured, otherwise
// the built-in template for the configured middleware
func (g *RouteGenerator) templateText() (string, string, error) {
	if path := g.options.MiddlewareTemplate; path != "" {
		content, err := g.fileOps.ReadFile(path)
		if err != nil {
			return "", "", generrors.WrapConfigurationError("middlewareTemplate", path, err)
		}
		return path, string(content), nil
	}

	name := string(g.options.Middleware)
	text, ok := g.templates.Get(name)
	if !ok {
		return "", "", generrors.NewConfigurationError("middleware", name, "no built-in template").
			WithSuggestion("Use express, koa or hapi, or set middlewareTemplate")
	}
	return name, text, nil
}

func (g *RouteGenerator) check() error {
	if g.metadata == nil {
		return generrors.NewMetadataError("metadata", "no metadata to generate from")
	}
	if g.options == nil {
		return generrors.NewConfigurationError("config", nil, "no options")
	}
	return nil
}
