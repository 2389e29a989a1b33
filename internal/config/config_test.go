package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	generrors "github.com/pclements12/tsoa/internal/errors"
	"github.com/pclements12/tsoa/internal/models"
	"github.com/pclements12/tsoa/internal/modulepath"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "routegen.yaml", `
entryFile: src/app.ts
routesDir: build
noImplicitAdditionalProperties: throw-on-extras
esm: true
middleware: koa
authenticationModule: src/auth.ts
`)

	opts, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "src/app.ts", opts.EntryFile)
	assert.Equal(t, "build", opts.RoutesDir)
	assert.Equal(t, models.PolicyThrowOnExtras, opts.Policy())
	assert.True(t, opts.ESM)
	assert.Equal(t, MiddlewareKoa, opts.Middleware)
	assert.Equal(t, "src/auth.ts", opts.AuthenticationModule)
	assert.Equal(t, path, opts.ConfigFile)

	// defaults
	assert.Equal(t, "routes.ts", opts.RoutesFileName)
	assert.True(t, opts.BodyCoercion)
	assert.Equal(t, "/", opts.BasePath)
	assert.False(t, opts.RewriteRelativeImportExtensions)
}

func TestLoad_JSON(t *testing.T) {
	path := writeConfig(t, "routegen.json", `{
  "routesDir": "out",
  "routesFileName": "generated.ts",
  "noImplicitAdditionalProperties": "ignore",
  "bodyCoercion": false,
  "middleware": "hapi",
  "basePath": "/api"
}`)

	opts, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("out", "generated.ts"), opts.RoutesFile())
	assert.Equal(t, models.PolicyIgnore, opts.Policy())
	assert.False(t, opts.BodyCoercion)
	assert.Equal(t, MiddlewareHapi, opts.Middleware)
	assert.Equal(t, "/api", opts.BasePath)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "routegen.yaml", `
routesDir: build
noImplicitAdditionalProperties: ignore
`)
	t.Setenv("ROUTEGEN_ROUTES_DIR", "dist")
	t.Setenv("ROUTEGEN_NO_IMPLICIT_ADDITIONAL_PROPERTIES", "silently-remove-extras")
	t.Setenv("ROUTEGEN_ESM", "true")
	t.Setenv("ROUTEGEN_REWRITE_RELATIVE_IMPORT_EXTENSIONS", "true")

	opts, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dist", opts.RoutesDir)
	assert.Equal(t, models.PolicySilentlyRemoveExtras, opts.Policy())
	assert.Equal(t, modulepath.ModuleSystem{ESM: true, RewriteRelativeImportExtensions: true}, opts.ModuleSystem())
}

func TestLoad_SearchesWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "routegen.yaml"), []byte("routesDir: gen\nnoImplicitAdditionalProperties: ignore\n"), 0o644))
	chdir(t, dir)

	opts, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "gen", opts.RoutesDir)
	assert.NotEmpty(t, opts.ConfigFile)
}

func TestLoad_NoConfigFileUsesEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ROUTEGEN_ROUTES_DIR", "env-routes")
	t.Setenv("ROUTEGEN_NO_IMPLICIT_ADDITIONAL_PROPERTIES", "throw-on-extras")

	opts, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "env-routes", opts.RoutesDir)
	assert.Empty(t, opts.ConfigFile)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Equal(t, generrors.ConfigurationErrorCode, generrors.CodeOf(err))
	})

	t.Run("malformed file", func(t *testing.T) {
		path := writeConfig(t, "routegen.json", `{"routesDir": `)
		_, err := Load(path)
		require.Error(t, err)
		assert.Equal(t, generrors.ConfigurationErrorCode, generrors.CodeOf(err))
	})

	t.Run("policy is required", func(t *testing.T) {
		path := writeConfig(t, "routegen.yaml", "routesDir: build\n")
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "noImplicitAdditionalProperties")
	})
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	opts := &Options{
		RoutesFileName:                 "nested/routes.ts",
		NoImplicitAdditionalProperties: "allow-everything",
		Middleware:                     "fastify",
	}

	err := opts.Validate()
	require.Error(t, err)
	assert.Equal(t, generrors.ConfigurationErrorCode, generrors.CodeOf(err))

	msg := err.Error()
	assert.Contains(t, msg, "'routesDir': is required")
	assert.Contains(t, msg, "'routesFileName': must be a file name")
	assert.Contains(t, msg, "unknown extra-properties policy")
	assert.Contains(t, msg, "'middleware': unknown middleware")
}

func TestValidate_CustomTemplateSkipsMiddlewareCheck(t *testing.T) {
	opts := Defaults()
	opts.RoutesDir = "build"
	opts.NoImplicitAdditionalProperties = models.PolicyIgnore
	opts.Middleware = "fastify"
	opts.MiddlewareTemplate = "templates/fastify.tmpl"

	assert.NoError(t, opts.Validate())
}

func TestValidate_NormalizesPolicy(t *testing.T) {
	opts := Defaults()
	opts.RoutesDir = "build"
	opts.NoImplicitAdditionalProperties = "  ignore "

	require.NoError(t, opts.Validate())
	assert.Equal(t, models.PolicyIgnore, opts.Policy())
}

func TestModuleSystem(t *testing.T) {
	opts := Defaults()
	assert.Equal(t, modulepath.ModuleSystem{}, opts.ModuleSystem())

	opts.ESM = true
	assert.Equal(t, modulepath.ModuleSystem{ESM: true}, opts.ModuleSystem())
}

// chdir changes the working directory for the duration of the test
// (equivalent to testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
