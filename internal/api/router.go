package api

import (
	"net/http"

	"courier-route-service/internal/api/handlers"
	"courier-route-service/internal/ports"
	"courier-route-service/internal/services"
)

// Deps collects everything the HTTP surface needs. Handlers stay
// unaware of concrete adapters; this is the API composition root.
type Deps struct {
	Engine        *services.RouteState
	Refresher     *services.Refresher
	Extractor     ports.StopExtractor
	Optimizer     ports.RouteOptimizer
	Weather       ports.WeatherProvider
	Store         ports.RouteStore
	WaypointLimit int
}

// NewRouter wires the HTTP handlers and returns an http.Handler.
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	extract := &handlers.ExtractHandler{Extractor: deps.Extractor, Engine: deps.Engine}
	route := &handlers.RouteHandler{Engine: deps.Engine}
	optimize := &handlers.OptimizeHandler{Engine: deps.Engine, Optimizer: deps.Optimizer}
	links := &handlers.LinksHandler{Engine: deps.Engine, DefaultLimit: deps.WaypointLimit}
	reports := &handlers.ReportsHandler{Refresher: deps.Refresher, Weather: deps.Weather}
	snapshot := &handlers.SnapshotHandler{Engine: deps.Engine, Store: deps.Store}

	mux.HandleFunc("GET /health", handlers.Health)

	mux.HandleFunc("POST /route/extract", extract.Extract)

	mux.HandleFunc("GET /route", route.Get)
	mux.HandleFunc("DELETE /route", route.Clear)
	mux.HandleFunc("POST /route/reorder", route.Reorder)
	mux.HandleFunc("POST /route/move", route.Move)
	mux.HandleFunc("POST /route/reset-order", route.ResetOrder)
	mux.HandleFunc("PATCH /route/stops/{stop}", route.Edit)
	mux.HandleFunc("DELETE /route/stops/{stop}", route.DeleteStop)
	mux.HandleFunc("POST /route/stops/{stop}/status", route.SetStatus)

	mux.HandleFunc("POST /route/optimize", optimize.Optimize)
	mux.HandleFunc("GET /route/links", links.Links)

	mux.HandleFunc("GET /route/summary", reports.Summary)
	mux.HandleFunc("GET /route/traffic", reports.Traffic)
	mux.HandleFunc("GET /weather", reports.CurrentWeather)

	mux.HandleFunc("POST /route/save", snapshot.Save)
	mux.HandleFunc("POST /route/load", snapshot.Load)
	mux.HandleFunc("DELETE /route/saved", snapshot.DeleteSaved)

	return loggingMiddleware(mux)
}
