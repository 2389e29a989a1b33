package templates

import "sort"

// TemplateRegistry provides a centralized way to access the built-in routes
// templates, keyed by middleware name
type TemplateRegistry struct {
	templates map[string]string
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}

	registry.registerRouteTemplates()

	return registry
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (string, bool) {
	template, exists := tr.templates[name]
	return template, exists
}

// MustGet retrieves a template by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) string {
	template, exists := tr.templates[name]
	if !exists {
		panic("template not found: " + name)
	}
	return template
}

// Names lists the registered template names in sorted order
func (tr *TemplateRegistry) Names() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

const routesHeader = `/* tslint:disable */
/* eslint-disable */
// WARNING: This file was auto-generated with routegen. Do not modify it manually.
`

// registerRouteTemplates registers the routes module template for each supported middleware
func (tr *TemplateRegistry) registerRouteTemplates() {
	tr.templates["express"] = routesHeader + `import type { TsoaRoute } from '@tsoa/runtime';
import { fetchMiddlewares, ExpressTemplateService } from '@tsoa/runtime';
{{range .Controllers}}import { {{.Name}} } from {{quote .ModulePath}};
{{end}}{{if .AuthenticationModule}}import { expressAuthentication } from {{quote .AuthenticationModule}};
{{end}}{{if .IocModule}}import { iocContainer } from {{quote .IocModule}};
import type { IocContainer, IocContainerFactory } from '@tsoa/runtime';
{{end}}import type { Request as ExRequest, Response as ExResponse, RequestHandler, Router } from 'express';

const models: TsoaRoute.Models = {{json .Models}};
const templateService = new ExpressTemplateService(models, {{json .ValidationConfig}});

export function RegisterRoutes(app: Router) {
{{range $c := .Controllers}}{{range $m := $c.Methods}}{{if not $m.IsHidden}}
    const args{{$c.Name}}_{{$m.Name}}: Record<string, TsoaRoute.ParameterSchema> = {{json (paramSchema $m.Parameters)}};
    app.{{httpMethod $m.Method}}({{quote (expressPath $.BasePath $c.Path $m.Path)}},
{{with security $c $m}}        authenticateMiddleware({{json .}}),
{{end}}        ...(fetchMiddlewares<RequestHandler>({{$c.Name}})),
        ...(fetchMiddlewares<RequestHandler>({{$c.Name}}.prototype.{{$m.Name}})),

        async function {{$c.Name}}_{{$m.Name}}(request: ExRequest, response: ExResponse, next: any) {
            let validatedArgs: any[] = [];
            try {
                validatedArgs = templateService.getValidatedArgs({ args: args{{$c.Name}}_{{$m.Name}}, request, response });
{{if $.IocModule}}
                const container: IocContainer = typeof iocContainer === 'function' ? (iocContainer as IocContainerFactory)(request) : iocContainer;
                const controller: any = await container.get<{{$c.Name}}>({{$c.Name}});
{{else}}
                const controller = new {{$c.Name}}();
{{end}}
                await templateService.apiHandler({
                    methodName: {{quote $m.Name}},
                    controller,
                    response,
                    next,
                    validatedArgs,
                    successStatus: {{if $m.SuccessStatus}}{{$m.SuccessStatus}}{{else}}undefined{{end}},
                });
            } catch (err) {
                return next(err);
            }
        });
{{end}}{{end}}{{end}}{{if .HasAuthentication}}
    function authenticateMiddleware(security: TsoaRoute.Security[] = []) {
        return async function runAuthenticationMiddleware(request: any, response: any, next: any) {
            const failedAttempts: any[] = [];
            for (const secMethod of security) {
                for (const name in secMethod) {
                    try {
                        request['user'] = await expressAuthentication(request, name, secMethod[name]);
                        return next();
                    } catch (error) {
                        failedAttempts.push(error);
                    }
                }
            }
            return next(failedAttempts.pop());
        };
    }
{{end}}}
`

	tr.templates["koa"] = routesHeader + `import type { TsoaRoute } from '@tsoa/runtime';
import { fetchMiddlewares, KoaTemplateService } from '@tsoa/runtime';
{{range .Controllers}}import { {{.Name}} } from {{quote .ModulePath}};
{{end}}{{if .AuthenticationModule}}import { koaAuthentication } from {{quote .AuthenticationModule}};
{{end}}{{if .IocModule}}import { iocContainer } from {{quote .IocModule}};
import type { IocContainer, IocContainerFactory } from '@tsoa/runtime';
{{end}}import type { Context, Next, Middleware, Request as KRequest, Response as KResponse } from 'koa';
import type * as KoaRouter from '@koa/router';

const models: TsoaRoute.Models = {{json .Models}};
const templateService = new KoaTemplateService(models, {{json .ValidationConfig}});

export function RegisterRoutes(router: KoaRouter) {
{{range $c := .Controllers}}{{range $m := $c.Methods}}{{if not $m.IsHidden}}
    const args{{$c.Name}}_{{$m.Name}}: Record<string, TsoaRoute.ParameterSchema> = {{json (paramSchema $m.Parameters)}};
    router.{{httpMethod $m.Method}}({{quote (expressPath $.BasePath $c.Path $m.Path)}},
{{with security $c $m}}        authenticateMiddleware({{json .}}),
{{end}}        ...(fetchMiddlewares<Middleware>({{$c.Name}})),
        ...(fetchMiddlewares<Middleware>({{$c.Name}}.prototype.{{$m.Name}})),

        async function {{$c.Name}}_{{$m.Name}}(context: Context, next: Next) {
            let validatedArgs: any[] = [];
            try {
                validatedArgs = templateService.getValidatedArgs({ args: args{{$c.Name}}_{{$m.Name}}, context, next });
            } catch (err) {
                const error = err as any;
                error.message ||= JSON.stringify({ fields: error.fields });
                context.status = error.status;
                context.throw(context.status, error.message, error);
            }
{{if $.IocModule}}
            const container: IocContainer = typeof iocContainer === 'function' ? (iocContainer as IocContainerFactory)(context.request) : iocContainer;
            const controller: any = await container.get<{{$c.Name}}>({{$c.Name}});
{{else}}
            const controller = new {{$c.Name}}();
{{end}}
            return templateService.apiHandler({
                methodName: {{quote $m.Name}},
                controller,
                context,
                validatedArgs,
                successStatus: {{if $m.SuccessStatus}}{{$m.SuccessStatus}}{{else}}undefined{{end}},
            });
        });
{{end}}{{end}}{{end}}{{if .HasAuthentication}}
    function authenticateMiddleware(security: TsoaRoute.Security[] = []) {
        return async function runAuthenticationMiddleware(context: any, next: any) {
            const failedAttempts: any[] = [];
            for (const secMethod of security) {
                for (const name in secMethod) {
                    try {
                        context.request['user'] = await koaAuthentication(context.request, name, secMethod[name]);
                        return next();
                    } catch (error) {
                        failedAttempts.push(error);
                    }
                }
            }
            const error = failedAttempts.pop();
            context.status = error?.status || 401;
            context.throw(context.status, error?.message, error);
        };
    }
{{end}}}
`

	tr.templates["hapi"] = routesHeader + `import type { TsoaRoute } from '@tsoa/runtime';
import { fetchMiddlewares, HapiTemplateService } from '@tsoa/runtime';
{{range .Controllers}}import { {{.Name}} } from {{quote .ModulePath}};
{{end}}{{if .AuthenticationModule}}import { hapiAuthentication } from {{quote .AuthenticationModule}};
{{end}}{{if .IocModule}}import { iocContainer } from {{quote .IocModule}};
import type { IocContainer, IocContainerFactory } from '@tsoa/runtime';
{{end}}import { boomify, isBoom, type Payload } from '@hapi/boom';
import type { Request, ResponseToolkit, RouteOptionsPreAllOptions } from '@hapi/hapi';

const models: TsoaRoute.Models = {{json .Models}};
const templateService = new HapiTemplateService(models, {{json .ValidationConfig}}, { boomify, isBoom });

export function RegisterRoutes(server: any) {
{{range $c := .Controllers}}{{range $m := $c.Methods}}{{if not $m.IsHidden}}
    const args{{$c.Name}}_{{$m.Name}}: Record<string, TsoaRoute.ParameterSchema> = {{json (paramSchema $m.Parameters)}};
    server.route({
        method: {{quote (httpMethod $m.Method)}},
        path: {{quote (hapiPath $.BasePath $c.Path $m.Path)}},
        options: {
            pre: [
{{with security $c $m}}                { method: authenticateMiddleware({{json .}}) },
{{end}}                ...(fetchMiddlewares<RouteOptionsPreAllOptions>({{$c.Name}})),
                ...(fetchMiddlewares<RouteOptionsPreAllOptions>({{$c.Name}}.prototype.{{$m.Name}})),
            ],
            handler: async function {{$c.Name}}_{{$m.Name}}(request: Request, h: ResponseToolkit) {
                let validatedArgs: any[] = [];
                try {
                    validatedArgs = templateService.getValidatedArgs({ args: args{{$c.Name}}_{{$m.Name}}, request, h });
                } catch (err) {
                    const error = err as any;
                    if (isBoom(error)) {
                        throw error;
                    }
                    const boomErr = boomify(error instanceof Error ? error : new Error(error.message));
                    boomErr.output.statusCode = error.status || 500;
                    boomErr.output.payload = { name: error.name, fields: error.fields, message: error.message } as unknown as Payload;
                    throw boomErr;
                }
{{if $.IocModule}}
                const container: IocContainer = typeof iocContainer === 'function' ? (iocContainer as IocContainerFactory)(request) : iocContainer;
                const controller: any = await container.get<{{$c.Name}}>({{$c.Name}});
{{else}}
                const controller = new {{$c.Name}}();
{{end}}
                return templateService.apiHandler({
                    methodName: {{quote $m.Name}},
                    controller,
                    h,
                    validatedArgs,
                    successStatus: {{if $m.SuccessStatus}}{{$m.SuccessStatus}}{{else}}undefined{{end}},
                });
            },
        },
    });
{{end}}{{end}}{{end}}{{if .HasAuthentication}}
    function authenticateMiddleware(security: TsoaRoute.Security[] = []) {
        return async function runAuthenticationMiddleware(request: any, h: any) {
            const failedAttempts: any[] = [];
            for (const secMethod of security) {
                for (const name in secMethod) {
                    try {
                        request['user'] = await hapiAuthentication(request, name, secMethod[name]);
                        return request['user'];
                    } catch (error) {
                        failedAttempts.push(error);
                    }
                }
            }
            const error = failedAttempts.pop();
            throw isBoom(error) ? error : boomify(error instanceof Error ? error : new Error(String(error)), { statusCode: error?.status || 401 });
        };
    }
{{end}}}
`
}
