package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	generrors "github.com/pclements12/tsoa/internal/errors"
)

// DiagnosticReporter provides user-friendly error reporting
type DiagnosticReporter struct {
	verbose bool
	out     io.Writer
}

// NewDiagnosticReporter creates a new diagnostic reporter writing to out
func NewDiagnosticReporter(out io.Writer, verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{
		verbose: verbose,
		out:     out,
	}
}

// ReportError prints err with its code, location, context and suggestions.
// Joined errors are reported one after another.
func (r *DiagnosticReporter) ReportError(err error) {
	color.New(color.FgRed, color.Bold).Fprintf(r.out, "\nERROR: Route Generation Failed\n")
	fmt.Fprintf(r.out, "==============================\n\n")

	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}

	for _, e := range errs {
		var genErr generrors.GenError
		if errors.As(e, &genErr) {
			r.reportGenError(e, genErr)
		} else {
			fmt.Fprintf(r.out, "Message: %s\n\n", e.Error())
		}
	}

	if !r.verbose {
		fmt.Fprintf(r.out, "Run with --verbose for more detailed output\n")
	}
}

func (r *DiagnosticReporter) reportGenError(err error, genErr generrors.GenError) {
	title := r.errorTitle(genErr.ErrorCode())
	fmt.Fprintf(r.out, "Type: %s\n", title)
	fmt.Fprintf(r.out, "%s\n\n", strings.Repeat("-", len(title)+6))

	fmt.Fprintf(r.out, "Message: %s\n\n", err.Error())

	if loc := genErr.Location(); !loc.IsEmpty() {
		fmt.Fprintf(r.out, "Location: %s\n\n", loc)
	}

	if ctx := genErr.Context(); len(ctx) > 0 {
		r.printContext(ctx)
	}

	if suggestions := genErr.Suggestions(); len(suggestions) > 0 {
		r.printSuggestions(suggestions)
	}

	if r.verbose {
		r.printErrorChain(genErr.Unwrap())
	}
}

func (r *DiagnosticReporter) errorTitle(code generrors.ErrorCode) string {
	switch code {
	case generrors.ConfigurationErrorCode:
		return "Configuration Error"
	case generrors.ReferenceErrorCode:
		return "Reference Error"
	case generrors.MetadataErrorCode:
		return "Metadata Error"
	case generrors.GenerationErrorCode:
		return "Generation Error"
	case generrors.TemplateErrorCode:
		return "Template Error"
	case generrors.FileSystemErrorCode:
		return "File System Error"
	default:
		return "Unknown Error"
	}
}

// printContext prints context in key order
func (r *DiagnosticReporter) printContext(context map[string]interface{}) {
	keys := make([]string, 0, len(context))
	for key := range context {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Fprintf(r.out, "Context:\n")
	for _, key := range keys {
		fmt.Fprintf(r.out, "   %s: %v\n", r.formatContextKey(key), context[key])
	}
	fmt.Fprintf(r.out, "\n")
}

// formatContextKey converts keys like type_name or routesDir to a readable label
func (r *DiagnosticReporter) formatContextKey(key string) string {
	switch key {
	case "type_name":
		return "Type"
	case "referenced_by":
		return "Referenced By"
	case "routesDir":
		return "Routes Dir"
	}

	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

// printSuggestions prints actionable suggestions
func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	fmt.Fprintf(r.out, "Suggestions:\n")
	for i, suggestion := range suggestions {
		fmt.Fprintf(r.out, "   %d. %s\n", i+1, suggestion)
	}
	fmt.Fprintf(r.out, "\n")
}

func (r *DiagnosticReporter) printErrorChain(err error) {
	if err == nil {
		return
	}

	fmt.Fprintf(r.out, "Error Chain:\n")
	for level := 1; err != nil; level++ {
		fmt.Fprintf(r.out, "   %d. %s\n", level, err.Error())
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = unwrapper.Unwrap()
	}
	fmt.Fprintf(r.out, "\n")
}
