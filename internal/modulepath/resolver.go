// Package modulepath computes the relative import specifiers a generated
// routes module uses to reach controller and helper modules.
package modulepath

import (
	"path/filepath"
	"strings"

	generrors "github.com/pclements12/tsoa/internal/errors"
)

// ModuleSystem describes the module system the generated code targets
type ModuleSystem struct {
	ESM                             bool // emit ECMAScript module imports
	RewriteRelativeImportExtensions bool // keep .ts/.mts/.cts in ESM imports
}

// importStyle is the row selector of the extension table
type importStyle int

const (
	styleExtensionless importStyle = iota // CommonJS: loader resolves the extension
	styleCompiled                         // ESM: point at the emitted JavaScript file
	styleSource                           // ESM with rewriteRelativeImportExtensions
)

func (m ModuleSystem) style() importStyle {
	switch {
	case !m.ESM:
		return styleExtensionless
	case m.RewriteRelativeImportExtensions:
		return styleSource
	default:
		return styleCompiled
	}
}

// extensionTable maps a source extension to its output extension per import
// style. Keys are matched against the end of the final path segment only.
var extensionTable = map[string]map[importStyle]string{
	".ts":  {styleExtensionless: "", styleCompiled: ".js", styleSource: ".ts"},
	".mts": {styleExtensionless: "", styleCompiled: ".mjs", styleSource: ".mts"},
	".cts": {styleExtensionless: "", styleCompiled: ".cjs", styleSource: ".cts"},
}

// SourceExtension returns the recognised source extension of the final
// segment of p, or "" when it has none. Matching is anchored to the end of
// the string, so "a.tsx" and "with.tsInName" do not match.
func SourceExtension(p string) string {
	base := p
	if i := strings.LastIndex(p, "/"); i >= 0 {
		base = p[i+1:]
	}
	for ext := range extensionTable {
		if strings.HasSuffix(base, ext) && len(base) > len(ext) {
			return ext
		}
	}
	return ""
}

// RewriteExtension applies the extension table to a slash-separated path
func RewriteExtension(p string, system ModuleSystem) string {
	ext := SourceExtension(p)
	if ext == "" {
		return p
	}
	return strings.TrimSuffix(p, ext) + extensionTable[ext][system.style()]
}

// Resolver computes import specifiers. BaseDir anchors relative inputs when
// the other input is absolute; when empty the working directory is used.
type Resolver struct {
	BaseDir string
}

// NewResolver creates a resolver anchored at baseDir
func NewResolver(baseDir string) *Resolver {
	return &Resolver{BaseDir: baseDir}
}

// Resolve returns the import specifier for location as seen from routesDir
func Resolve(location, routesDir string, system ModuleSystem) (string, error) {
	return (&Resolver{}).Resolve(location, routesDir, system)
}

// Resolve returns the import specifier for location as seen from routesDir.
// The result always starts with "./" or "../" and uses forward slashes.
func (r *Resolver) Resolve(location, routesDir string, system ModuleSystem) (string, error) {
	if strings.TrimSpace(location) == "" {
		return "", generrors.NewConfigurationError("location", location, "controller location is empty")
	}
	if strings.TrimSpace(routesDir) == "" {
		return "", generrors.NewConfigurationError("routesDir", routesDir, "routes directory is empty").
			WithSuggestion("Set routesDir to the directory the routes file is written to")
	}

	rel, err := r.relative(location, routesDir)
	if err != nil {
		return "", err
	}

	return RewriteExtension(rel, system), nil
}

// relative computes a "./"-prefixed forward-slash path from routesDir to location
func (r *Resolver) relative(location, routesDir string) (string, error) {
	from, to := filepath.Clean(routesDir), filepath.Clean(location)

	if filepath.IsAbs(from) != filepath.IsAbs(to) {
		var err error
		if from, err = r.absolute(from); err != nil {
			return "", generrors.WrapConfigurationError("routesDir", routesDir, err)
		}
		if to, err = r.absolute(to); err != nil {
			return "", generrors.WrapConfigurationError("location", location, err).
				WithLocation(generrors.SourceLocation{File: location})
		}
	}

	rel, err := filepath.Rel(from, to)
	if err != nil && !filepath.IsAbs(from) {
		// Lexical Rel gives up when routesDir climbs above the working
		// directory ("../out"); anchoring both sides settles it.
		absFrom, fromErr := r.absolute(from)
		absTo, toErr := r.absolute(to)
		if fromErr == nil && toErr == nil {
			rel, err = filepath.Rel(absFrom, absTo)
		}
	}
	if err != nil {
		return "", generrors.NewConfigurationError("location", location, "not reachable by a relative path from routesDir").
			WithCause(err).
			WithLocation(generrors.SourceLocation{File: location}).
			WithContext("routesDir", routesDir).
			WithSuggestion("Place routesDir and the controllers on the same volume")
	}

	rel = filepath.ToSlash(rel)
	if rel == "." || rel == ".." || strings.HasSuffix(rel, "/..") {
		return "", generrors.NewConfigurationError("location", location, "resolves to a directory, not a module file").
			WithLocation(generrors.SourceLocation{File: location}).
			WithContext("routesDir", routesDir)
	}

	if !strings.HasPrefix(rel, "./") && !strings.HasPrefix(rel, "../") {
		rel = "./" + rel
	}
	return rel, nil
}

func (r *Resolver) absolute(p string) (string, error) {
	if filepath.IsAbs(p) {
		return p, nil
	}
	if r.BaseDir != "" {
		base, err := filepath.Abs(r.BaseDir)
		if err != nil {
			return "", err
		}
		return filepath.Join(base, p), nil
	}
	return filepath.Abs(p)
}
