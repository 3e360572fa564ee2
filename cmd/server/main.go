package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"courier-route-service/internal/adapters/cache"
	"courier-route-service/internal/adapters/gemini"
	"courier-route-service/internal/adapters/repositories"
	"courier-route-service/internal/api"
	"courier-route-service/internal/config"
	"courier-route-service/internal/platform/db"
	"courier-route-service/internal/ports"
	"courier-route-service/internal/services"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires the Gemini provider, snapshot store and report caches behind
// ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := config.Get("PORT", "8080")
	geminiKey := config.MustGet("GEMINI_API_KEY")
	geminiModel := config.Get("GEMINI_MODEL", "gemini-2.5-flash")
	waypointLimit := config.GetInt("WAYPOINT_LIMIT", services.DefaultWaypointLimit)
	trafficRefresh := config.GetDuration("TRAFFIC_REFRESH", services.DefaultTrafficInterval)

	provider, err := gemini.New(geminiKey, geminiModel)
	if err != nil {
		log.Fatal(err)
	}

	store, closeStore, err := openRouteStore()
	if err != nil {
		log.Fatal(err)
	}
	defer closeStore()

	// Traffic and weather go through the Redis cache when one is
	// configured; without it every request hits the provider.
	var traffic ports.TrafficProvider = provider
	var weather ports.WeatherProvider = provider
	if addr := os.Getenv("REDIS_ADDR"); strings.TrimSpace(addr) != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		defer client.Close()

		reports := cache.NewRedisReportCache(client)
		traffic = &cache.CachedTraffic{Provider: provider, Cache: reports}
		weather = &cache.CachedWeather{Provider: provider, Cache: reports}
		log.Printf("report cache enabled addr=%s", addr)
	}

	refresher := services.NewRefresher(provider, traffic, trafficRefresh)
	defer refresher.Close()

	engine := services.NewRouteState(refresher.RouteChanged)

	router := api.NewRouter(api.Deps{
		Engine:        engine,
		Refresher:     refresher,
		Extractor:     provider,
		Optimizer:     provider,
		Weather:       weather,
		Store:         store,
		WaypointLimit: waypointLimit,
	})

	// Write timeout is generous: extraction fans out to the model and
	// waits for the slowest screenshot.
	log.Printf("Server listening addr=:%s model=%s", port, geminiModel)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// openRouteStore picks Postgres when DATABASE_URL is set, otherwise a
// local SQLite file.
func openRouteStore() (ports.RouteStore, func(), error) {
	if databaseURL := os.Getenv("DATABASE_URL"); strings.TrimSpace(databaseURL) != "" {
		pg, err := db.Open(databaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := repositories.InitPgSchema(pg); err != nil {
			pg.Close()
			return nil, nil, err
		}
		return repositories.NewPgRouteStore(pg), func() { pg.Close() }, nil
	}

	dbPath := config.Get("DB_PATH", "data/route.db")
	lite, err := openSqlite(dbPath)
	if err != nil {
		return nil, nil, err
	}
	if err := repositories.InitSqliteSchema(lite); err != nil {
		lite.Close()
		return nil, nil, err
	}
	return repositories.NewSqliteRouteStore(lite), func() { lite.Close() }, nil
}

func openSqlite(dbPath string) (*sql.DB, error) {
	lite, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := lite.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return lite, nil
}
