// Package config loads and validates generator options from routegen.yaml,
// routegen.json or ROUTEGEN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	generrors "github.com/pclements12/tsoa/internal/errors"
	"github.com/pclements12/tsoa/internal/models"
	"github.com/pclements12/tsoa/internal/modulepath"
)

// Middleware names a supported server framework
type Middleware string

const (
	MiddlewareExpress Middleware = "express"
	MiddlewareKoa     Middleware = "koa"
	MiddlewareHapi    Middleware = "hapi"
)

var middlewares = []Middleware{MiddlewareExpress, MiddlewareKoa, MiddlewareHapi}

const (
	// ConfigName is the config file base name searched for in the working directory
	ConfigName = "routegen"
	// EnvPrefix prefixes every environment override
	EnvPrefix = "ROUTEGEN"
)

// Options holds the route generation configuration
type Options struct {
	EntryFile      string `mapstructure:"entryFile"`
	RoutesDir      string `mapstructure:"routesDir"`
	RoutesFileName string `mapstructure:"routesFileName"`

	// NoImplicitAdditionalProperties is required; there is no default policy
	NoImplicitAdditionalProperties models.ExtraPropertiesPolicy `mapstructure:"noImplicitAdditionalProperties"`
	BodyCoercion                   bool                         `mapstructure:"bodyCoercion"`

	ESM                             bool `mapstructure:"esm"`
	RewriteRelativeImportExtensions bool `mapstructure:"rewriteRelativeImportExtensions"`

	Middleware         Middleware `mapstructure:"middleware"`
	MiddlewareTemplate string     `mapstructure:"middlewareTemplate"`

	BasePath             string `mapstructure:"basePath"`
	AuthenticationModule string `mapstructure:"authenticationModule"`
	IocModule            string `mapstructure:"iocModule"`

	MetadataFile string `mapstructure:"metadataFile"`

	// ConfigFile is the file the options were read from, empty when none
	ConfigFile string `mapstructure:"-"`
}

// keys lists every option with its environment variable suffix
var keys = map[string]string{
	"entryFile":                       "ENTRY_FILE",
	"routesDir":                       "ROUTES_DIR",
	"routesFileName":                  "ROUTES_FILE_NAME",
	"noImplicitAdditionalProperties":  "NO_IMPLICIT_ADDITIONAL_PROPERTIES",
	"bodyCoercion":                    "BODY_COERCION",
	"esm":                             "ESM",
	"rewriteRelativeImportExtensions": "REWRITE_RELATIVE_IMPORT_EXTENSIONS",
	"middleware":                      "MIDDLEWARE",
	"middlewareTemplate":              "MIDDLEWARE_TEMPLATE",
	"basePath":                        "BASE_PATH",
	"authenticationModule":            "AUTHENTICATION_MODULE",
	"iocModule":                       "IOC_MODULE",
	"metadataFile":                    "METADATA_FILE",
}

// Defaults returns options carrying every default value. RoutesDir and
// NoImplicitAdditionalProperties are left for the caller to set.
func Defaults() *Options {
	return &Options{
		RoutesFileName: "routes.ts",
		BodyCoercion:   true,
		Middleware:     MiddlewareExpress,
		BasePath:       "/",
	}
}

// SetDefaults registers the option defaults on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("routesFileName", "routes.ts")
	v.SetDefault("bodyCoercion", true)
	v.SetDefault("esm", false)
	v.SetDefault("rewriteRelativeImportExtensions", false)
	v.SetDefault("middleware", string(MiddlewareExpress))
	v.SetDefault("basePath", "/")
}

// BindEnv binds every option to its ROUTEGEN_* environment variable
func BindEnv(v *viper.Viper) {
	for key, suffix := range keys {
		// BindEnv only errors when called without a key
		_ = v.BindEnv(key, EnvPrefix+"_"+suffix)
	}
}

// NewViper creates a viper instance with defaults and environment bindings.
// When path is empty, routegen.{yaml,yml,json} is searched for in the
// working directory.
func NewViper(path string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	BindEnv(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(".")
	}
	return v
}

// Load reads options from path (or the default config file, if present),
// applies environment overrides and validates the result
func Load(path string) (*Options, error) {
	v := NewViper(path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, generrors.WrapConfigurationError("config", path, err).
				WithSuggestion("Check that the config file exists and is valid YAML or JSON")
		}
		// No config file - defaults and environment only
	}

	return LoadWithViper(v)
}

// LoadWithViper decodes and validates options from an already populated viper instance
func LoadWithViper(v *viper.Viper) (*Options, error) {
	var opts Options
	if err := v.Unmarshal(&opts); err != nil {
		return nil, generrors.WrapConfigurationError("config", v.ConfigFileUsed(), err)
	}
	opts.ConfigFile = v.ConfigFileUsed()

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &opts, nil
}

// Validate reports every invalid option, joined into one error
func (o *Options) Validate() error {
	var errs []error

	if strings.TrimSpace(o.RoutesDir) == "" {
		errs = append(errs, generrors.NewConfigurationError("routesDir", o.RoutesDir, "is required").
			WithSuggestion("Set routesDir to the directory the routes file should be written to"))
	}

	if strings.TrimSpace(o.RoutesFileName) == "" {
		errs = append(errs, generrors.NewConfigurationError("routesFileName", o.RoutesFileName, "must not be empty"))
	} else if strings.ContainsAny(o.RoutesFileName, `/\`) {
		errs = append(errs, generrors.NewConfigurationError("routesFileName", o.RoutesFileName, "must be a file name, not a path").
			WithSuggestion("Put the directory part in routesDir"))
	}

	policy, err := models.ParsePolicy(string(o.NoImplicitAdditionalProperties))
	if err != nil {
		errs = append(errs, err)
	} else {
		o.NoImplicitAdditionalProperties = policy
	}

	if o.MiddlewareTemplate == "" && !o.Middleware.IsValid() {
		names := make([]string, len(middlewares))
		for i, m := range middlewares {
			names[i] = string(m)
		}
		errs = append(errs, generrors.NewConfigurationError("middleware", string(o.Middleware), "unknown middleware").
			WithSuggestion("Use one of: "+strings.Join(names, ", ")+", or set middlewareTemplate"))
	}

	return errors.Join(errs...)
}

// IsValid reports whether m is a supported middleware
func (m Middleware) IsValid() bool {
	for _, known := range middlewares {
		if m == known {
			return true
		}
	}
	return false
}

// ModuleSystem returns the import style generated code should use
func (o *Options) ModuleSystem() modulepath.ModuleSystem {
	return modulepath.ModuleSystem{
		ESM:                             o.ESM,
		RewriteRelativeImportExtensions: o.RewriteRelativeImportExtensions,
	}
}

// Policy returns the configured extra-properties policy
func (o *Options) Policy() models.ExtraPropertiesPolicy {
	return o.NoImplicitAdditionalProperties
}

// RoutesFile returns the path the routes module is written to
func (o *Options) RoutesFile() string {
	return filepath.Join(o.RoutesDir, o.RoutesFileName)
}

// String summarizes the options for verbose output
func (o *Options) String() string {
	return fmt.Sprintf("routesDir=%s middleware=%s policy=%s esm=%t", o.RoutesDir, o.Middleware, o.NoImplicitAdditionalProperties, o.ESM)
}
