package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateRegistry_Names(t *testing.T) {
	tr := NewTemplateRegistry()

	assert.Equal(t, []string{"express", "hapi", "koa"}, tr.Names())

	_, ok := tr.Get("fastify")
	assert.False(t, ok)
	assert.Panics(t, func() { tr.MustGet("fastify") })
}

func TestTemplateRegistry_Express(t *testing.T) {
	out, err := NewRenderer().Render("express", NewTemplateRegistry().MustGet("express"), sampleContext())
	require.NoError(t, err)

	assert.Contains(t, out, `import { UserController } from "./users";`)
	assert.Contains(t, out, `import { expressAuthentication } from "./authentication";`)
	assert.Contains(t, out, `new ExpressTemplateService(models, {"noImplicitAdditionalProperties":"throw-on-extras","bodyCoercion":true})`)
	assert.Contains(t, out, `app.get("/v1/users/:userId",`)
	assert.Contains(t, out, `app.post("/v1/users",`)
	assert.Contains(t, out, `authenticateMiddleware([{"jwt":["admin"]}]),`)
	assert.Contains(t, out, `successStatus: 200,`)
	assert.Contains(t, out, `successStatus: undefined,`)
	assert.Contains(t, out, `const controller = new UserController();`)
	assert.Contains(t, out, `function authenticateMiddleware(`)
	assert.NotContains(t, out, "internal", "hidden methods are not routed")
	assert.NotContains(t, out, "iocContainer")
}

func TestTemplateRegistry_ExpressWithIoc(t *testing.T) {
	ctx := sampleContext()
	ctx.IocModule = "../ioc"
	ctx.AuthenticationModule = ""
	for i := range ctx.Controllers[0].Methods {
		ctx.Controllers[0].Methods[i].Security = nil
	}

	out, err := NewRenderer().Render("express", NewTemplateRegistry().MustGet("express"), ctx)
	require.NoError(t, err)

	assert.Contains(t, out, `import { iocContainer } from "../ioc";`)
	assert.Contains(t, out, `await container.get<UserController>(UserController);`)
	assert.NotContains(t, out, "new UserController()")
	assert.NotContains(t, out, "authenticateMiddleware")
	assert.NotContains(t, out, "expressAuthentication")
}

func TestTemplateRegistry_Koa(t *testing.T) {
	out, err := NewRenderer().Render("koa", NewTemplateRegistry().MustGet("koa"), sampleContext())
	require.NoError(t, err)

	assert.Contains(t, out, `new KoaTemplateService(models,`)
	assert.Contains(t, out, `router.get("/v1/users/:userId",`)
	assert.Contains(t, out, `import { koaAuthentication } from "./authentication";`)
}

func TestTemplateRegistry_Hapi(t *testing.T) {
	out, err := NewRenderer().Render("hapi", NewTemplateRegistry().MustGet("hapi"), sampleContext())
	require.NoError(t, err)

	assert.Contains(t, out, `new HapiTemplateService(models,`)
	assert.Contains(t, out, `method: "get",`)
	assert.Contains(t, out, `path: "/v1/users/{userId}",`)
	assert.Contains(t, out, `method: "post",`)
	assert.Contains(t, out, `{ method: authenticateMiddleware([{"jwt":["admin"]}]) },`)
}

func TestTemplateRegistry_EmptyContext(t *testing.T) {
	tr := NewTemplateRegistry()
	for _, name := range tr.Names() {
		out, err := NewRenderer().Render(name, tr.MustGet(name), &RouteContext{BasePath: "/"})
		require.NoError(t, err, name)
		assert.Contains(t, out, "const models: TsoaRoute.Models = null;", name)
		assert.Contains(t, out, "export function RegisterRoutes(", name)
	}
}
