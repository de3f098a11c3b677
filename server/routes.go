package server

import (
	"caption-service/handlers"

	"github.com/umakantv/go-utils/httpserver"
)

type route struct {
	httpserver.Route
	Handler httpserver.HandlerFunc
}

// routes lists every endpoint. All of them are registered with AuthType
// "none": token routes are gated by AccountHandler.Authenticated so that
// rejections carry a JSON body.
func routes(h *handlers.AccountHandler, cors *handlers.CORS) []route {
	table := []route{
		{
			Route:   httpserver.Route{Name: "HealthCheck", Method: "GET", Path: "/health", AuthType: "none"},
			Handler: httpserver.HandlerFunc(handlers.Health),
		},
		{
			Route:   httpserver.Route{Name: "Register", Method: "POST", Path: "/register", AuthType: "none"},
			Handler: httpserver.HandlerFunc(h.Register),
		},
		{
			Route:   httpserver.Route{Name: "Login", Method: "POST", Path: "/login", AuthType: "none"},
			Handler: httpserver.HandlerFunc(h.Login),
		},
		{
			Route:   httpserver.Route{Name: "ForgotPassword", Method: "POST", Path: "/forgot_password", AuthType: "none"},
			Handler: httpserver.HandlerFunc(h.ForgotPassword),
		},
		{
			Route:   httpserver.Route{Name: "Me", Method: "GET", Path: "/me", AuthType: "none"},
			Handler: h.Authenticated(h.Me),
		},
		{
			Route:   httpserver.Route{Name: "SaveSettings", Method: "POST", Path: "/savesettings", AuthType: "none"},
			Handler: h.Authenticated(h.SaveSettings),
		},
		{
			Route:   httpserver.Route{Name: "GetSettings", Method: "GET", Path: "/getsettings", AuthType: "none"},
			Handler: h.Authenticated(h.GetSettings),
		},
	}

	all := make([]route, 0, 2*len(table))
	for _, rt := range table {
		all = append(all,
			route{Route: rt.Route, Handler: cors.Wrap(rt.Handler)},
			route{
				Route: httpserver.Route{
					Name:     rt.Name + "Preflight",
					Method:   "OPTIONS",
					Path:     rt.Path,
					AuthType: "none",
				},
				Handler: httpserver.HandlerFunc(cors.Preflight),
			},
		)
	}
	return all
}
