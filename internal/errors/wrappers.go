package errors

import "fmt"

// Common error wrapping patterns used throughout the generator

// WrapConfigurationError wraps configuration-related errors
func WrapConfigurationError(option string, value interface{}, cause error) *ConfigurationError {
	return NewConfigurationError(option, value, "could not be resolved").WithCause(cause)
}

// WrapTemplateError wraps template processing errors
func WrapTemplateError(templateName, operation string, cause error) *GenerationError {
	message := fmt.Sprintf("failed to %s template '%s'", operation, templateName)
	return &GenerationError{
		BaseError:      Wrap(TemplateErrorCode, message, cause),
		GenerationType: "template",
		TargetFile:     templateName,
		Stage:          operation,
	}
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapMetadataError wraps metadata decoding errors
func WrapMetadataError(subject string, cause error) *MetadataError {
	return NewMetadataError(subject, "could not be decoded").WithCause(cause)
}

// WrapGenerateError wraps an error with a "failed to generate" message
func WrapGenerateError(generationType, item string, cause error) *GenerationError {
	return &GenerationError{
		BaseError:      Wrap(GenerationErrorCode, fmt.Sprintf("failed to generate %s", item), cause),
		GenerationType: generationType,
		TargetFile:     item,
	}
}
