// Package templates renders the routes module from a RouteContext.
package templates

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	generrors "github.com/pclements12/tsoa/internal/errors"
	"github.com/pclements12/tsoa/internal/metadata"
	"github.com/pclements12/tsoa/internal/routepath"
)

var httpMethods = map[string]bool{
	"get": true, "post": true, "put": true, "patch": true,
	"delete": true, "head": true, "options": true,
}

// Renderer executes route templates. It holds no per-render state and is
// safe for concurrent use.
type Renderer struct {
	funcs template.FuncMap
}

// NewRenderer creates a renderer with the standard route template functions
func NewRenderer() *Renderer {
	return &Renderer{funcs: FuncMap()}
}

// Render parses templateText and executes it against ctx
func (r *Renderer) Render(name, templateText string, ctx *RouteContext) (string, error) {
	if ctx == nil {
		return "", generrors.WrapTemplateError(name, "execute", fmt.Errorf("route context is nil"))
	}

	tmpl, err := template.New(name).Funcs(r.funcs).Parse(templateText)
	if err != nil {
		return "", generrors.WrapTemplateError(name, "parse", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return "", generrors.WrapTemplateError(name, "execute", err)
	}

	return buf.String(), nil
}

// FuncMap returns the functions available to route templates
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"json":        toJSON,
		"quote":       quote,
		"lower":       strings.ToLower,
		"expressPath": routepath.Colon,
		"hapiPath":    routepath.Braced,
		"joinPath":    routepath.Join,
		"httpMethod":  httpMethod,
		"paramSchema": paramSchema,
		"security":    security,
	}
}

// toJSON encodes v without HTML escaping. Map keys come out sorted, so equal
// input always renders the same text.
func toJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// quote renders s as a string literal valid in both JSON and TypeScript
func quote(s string) (string, error) {
	return toJSON(s)
}

func httpMethod(method string) (string, error) {
	m := strings.ToLower(strings.TrimSpace(method))
	if !httpMethods[m] {
		return "", fmt.Errorf("unsupported HTTP method '%s'", method)
	}
	return m, nil
}

// paramSchema keys parameters by their handler argument name
func paramSchema(params []metadata.Parameter) map[string]metadata.Parameter {
	out := make(map[string]metadata.Parameter, len(params))
	for _, p := range params {
		key := p.ParameterName
		if key == "" {
			key = p.Name
		}
		out[key] = p
	}
	return out
}

// security returns the method's security requirements, falling back to the
// controller's when the method declares none
func security(ctrl ControllerContext, m metadata.Method) []metadata.Security {
	if len(m.Security) > 0 {
		return m.Security
	}
	return ctrl.Security
}
