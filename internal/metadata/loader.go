package metadata

import (
	"encoding/json"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	generrors "github.com/pclements12/tsoa/internal/errors"
	"github.com/pclements12/tsoa/internal/utils/fileops"
)

// Format identifies the encoding of a metadata document
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the decoder from a file extension
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", generrors.NewConfigurationError("metadataFile", path, "unsupported metadata file extension").
		WithSuggestion("Use a .json, .yaml or .yml metadata file")
}

// Load reads and decodes the metadata file at path
func Load(path string) (*Metadata, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}

	data, err := fileops.NewFileOps().ReadFile(path)
	if err != nil {
		return nil, err
	}

	meta, err := Decode(data, format)
	if err != nil {
		return nil, err
	}
	return meta, nil
}

// Decode parses a metadata document and checks it is structurally usable
func Decode(data []byte, format Format) (*Metadata, error) {
	var meta Metadata

	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &meta); err != nil {
			return nil, generrors.WrapMetadataError("metadata", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &meta); err != nil {
			return nil, generrors.WrapMetadataError("metadata", err)
		}
	default:
		return nil, generrors.NewConfigurationError("metadataFormat", string(format), "unknown metadata format")
	}

	if meta.ReferenceTypeMap == nil {
		meta.ReferenceTypeMap = TypeRegistry{}
	}

	if err := meta.Validate(); err != nil {
		return nil, err
	}
	return &meta, nil
}

// Validate checks the structural requirements the generator relies on:
// every registry entry is present and of a known kind, and every controller
// has a location.
func (m *Metadata) Validate() error {
	for _, name := range m.ReferenceTypeMap.Names() {
		t := m.ReferenceTypeMap[name]
		if t == nil {
			return generrors.NewMetadataError(name, "registry entry is empty")
		}
		if !t.DataType.IsKnown() {
			return generrors.NewMetadataError(name, "unknown dataType '"+string(t.DataType)+"'")
		}
	}

	for i, c := range m.Controllers {
		if strings.TrimSpace(c.Location) == "" {
			subject := c.Name
			if subject == "" {
				subject = "controllers[" + strconv.Itoa(i) + "]"
			}
			return generrors.NewMetadataError(subject, "controller has no location")
		}
	}
	return nil
}
