package errors

import "fmt"

// ConfigurationError reports an invalid or unusable configuration value.
// These abort the whole generation run.
type ConfigurationError struct {
	*BaseError
	Option string      // option name as written in the config file
	Value  interface{} // offending value
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(option string, value interface{}, reason string) *ConfigurationError {
	message := fmt.Sprintf("invalid configuration for '%s': %s", option, reason)

	err := &ConfigurationError{
		BaseError: New(ConfigurationErrorCode, message),
		Option:    option,
		Value:     value,
	}
	err.BaseError.WithContext("option", option)
	err.BaseError.WithContext("value", value)
	return err
}

// WithLocation adds location information to the error
func (e *ConfigurationError) WithLocation(loc SourceLocation) *ConfigurationError {
	e.BaseError.WithLocation(loc)
	return e
}

// WithCause adds an underlying error cause
func (e *ConfigurationError) WithCause(cause error) *ConfigurationError {
	e.BaseError.WithCause(cause)
	return e
}

// WithContext adds context data to the error
func (e *ConfigurationError) WithContext(key string, value interface{}) *ConfigurationError {
	e.BaseError.WithContext(key, value)
	return e
}

// WithSuggestion adds a helpful suggestion for fixing the error
func (e *ConfigurationError) WithSuggestion(suggestion string) *ConfigurationError {
	e.BaseError.WithSuggestion(suggestion)
	return e
}

// ReferenceError reports a type reference that does not resolve in the
// type registry.
type ReferenceError struct {
	*BaseError
	TypeName     string // the missing type name
	ReferencedBy string // the registry entry holding the dangling reference
	Path         string // where inside ReferencedBy the reference sits
}

// NewReferenceError creates a new reference error
func NewReferenceError(typeName, referencedBy, path string) *ReferenceError {
	message := fmt.Sprintf("type '%s' referenced by '%s' is not in the type registry", typeName, referencedBy)
	if path != "" {
		message = fmt.Sprintf("type '%s' referenced by '%s' (at %s) is not in the type registry", typeName, referencedBy, path)
	}

	err := &ReferenceError{
		BaseError:    New(ReferenceErrorCode, message),
		TypeName:     typeName,
		ReferencedBy: referencedBy,
		Path:         path,
	}
	err.BaseError.WithContext("type_name", typeName)
	err.BaseError.WithContext("referenced_by", referencedBy)
	err.BaseError.WithSuggestion("Re-run metadata extraction so the registry contains every referenced type")
	return err
}

// MetadataError reports malformed metadata input (nil entries, unknown data types).
type MetadataError struct {
	*BaseError
	Subject string // type name or controller name the problem belongs to
}

// NewMetadataError creates a new metadata error
func NewMetadataError(subject, message string) *MetadataError {
	err := &MetadataError{
		BaseError: New(MetadataErrorCode, fmt.Sprintf("invalid metadata for '%s': %s", subject, message)),
		Subject:   subject,
	}
	err.BaseError.WithContext("subject", subject)
	return err
}

// WithCause adds an underlying error cause
func (e *MetadataError) WithCause(cause error) *MetadataError {
	e.BaseError.WithCause(cause)
	return e
}

// GenerationError represents an error during content generation
type GenerationError struct {
	*BaseError
	GenerationType string // what was being generated (routes, models, template)
	TargetFile     string // template name or file being produced
	Stage          string // generation stage (parse, execute, build)
}
