package server

import (
	"context"
	"net/http"

	"costbook/internal/handlers"
	applog "costbook/internal/log"
)

type route struct {
	path      string
	handler   http.HandlerFunc
	protected bool
}

var routes = []route{
	{path: "/healthz", handler: handlers.Health},
	{path: "/login", handler: handlers.Login},
	{path: "/logout", handler: handlers.Logout},
	{path: "/app", handler: handlers.Dashboard, protected: true},
	{path: "/app/tables", handler: handlers.EditTable, protected: true},
	{path: "/app/api/dashboard", handler: handlers.DashboardMetrics, protected: true},
	{path: "/app/api/tables/", handler: handlers.Tables, protected: true},
	{path: "/app/api/recompute", handler: handlers.Recompute, protected: true},
	{path: "/app/api/price-list", handler: handlers.ImportPriceList, protected: true},
	{path: "/app/workbook/save", handler: handlers.SaveWorkbook, protected: true},
	{path: "/app/workbook/download", handler: handlers.DownloadWorkbook, protected: true},
	{path: "/app/workbook/upload", handler: handlers.UploadWorkbook, protected: true},
}

func newRouter() http.Handler {
	mux := http.NewServeMux()
	for _, rt := range routes {
		var h http.Handler = rt.handler
		if rt.protected {
			h = handlers.RequireAuthentication(h)
		}
		mux.Handle(rt.path, h)
		applog.Debug(context.Background(), "route registered", "path", rt.path, "protected", rt.protected)
	}
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/app", http.StatusSeeOther)
	})
	return mux
}
