// Package routepath parses controller and method route paths and renders them
// in the parameter syntax each server framework expects.
package routepath

import (
	"regexp"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	generrors "github.com/pclements12/tsoa/internal/errors"
)

// Path is a parsed route path
type Path struct {
	Segments []*Segment `parser:"@@*"`
}

// Segment is one slash, one literal run or one {param}
type Segment struct {
	Slash   bool    `parser:"  @Slash"`
	Param   *string `parser:"| Open @Text Close"`
	Literal *string `parser:"| @Text"`
}

var (
	pathLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Slash", Pattern: `/`},
		{Name: "Open", Pattern: `\{`},
		{Name: "Close", Pattern: `\}`},
		{Name: "Text", Pattern: `[^/{}]+`},
	})

	pathParser = participle.MustBuild[Path](
		participle.Lexer(pathLexer),
	)

	paramName = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
)

// Parse parses a route path such as "/users/{userId}/posts"
func Parse(path string) (*Path, error) {
	p, err := pathParser.ParseString("", path)
	if err != nil {
		return nil, generrors.NewMetadataError(path, "malformed route path").
			WithCause(err)
	}

	for _, seg := range p.Segments {
		if seg.Param != nil && !paramName.MatchString(*seg.Param) {
			return nil, generrors.NewMetadataError(path, "invalid path parameter name '"+*seg.Param+"'")
		}
	}
	return p, nil
}

// Colon renders the path with express/koa style parameters (/users/:id)
func (p *Path) Colon() string {
	return p.render(func(name string) string { return ":" + name })
}

// Braced renders the path with hapi style parameters (/users/{id})
func (p *Path) Braced() string {
	return p.render(func(name string) string { return "{" + name + "}" })
}

// String returns the path as parsed
func (p *Path) String() string {
	return p.Braced()
}

// Params returns the parameter names in order of appearance
func (p *Path) Params() []string {
	var names []string
	for _, seg := range p.Segments {
		if seg.Param != nil {
			names = append(names, *seg.Param)
		}
	}
	return names
}

func (p *Path) render(param func(string) string) string {
	var b strings.Builder
	for _, seg := range p.Segments {
		switch {
		case seg.Slash:
			b.WriteByte('/')
		case seg.Param != nil:
			b.WriteString(param(*seg.Param))
		case seg.Literal != nil:
			b.WriteString(*seg.Literal)
		}
	}
	return b.String()
}

// Join concatenates path parts into a single route path with exactly one
// leading slash, no empty segments and no trailing slash. Joining nothing, or
// only slashes, gives "/".
func Join(parts ...string) string {
	var segments []string
	for _, part := range parts {
		for _, s := range strings.Split(part, "/") {
			if s != "" {
				segments = append(segments, s)
			}
		}
	}
	return "/" + strings.Join(segments, "/")
}

// Colon joins parts and renders the result with colon parameters
func Colon(parts ...string) (string, error) {
	p, err := Parse(Join(parts...))
	if err != nil {
		return "", err
	}
	return p.Colon(), nil
}

// Braced joins parts and renders the result with braced parameters
func Braced(parts ...string) (string, error) {
	p, err := Parse(Join(parts...))
	if err != nil {
		return "", err
	}
	return p.Braced(), nil
}
