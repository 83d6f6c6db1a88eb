package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"delivery-geo-engine/internal/core/cache"
	"delivery-geo-engine/internal/core/config"
	"delivery-geo-engine/internal/core/geo"
	"delivery-geo-engine/internal/core/logger"
	"delivery-geo-engine/internal/core/server"
	geoadapter "delivery-geo-engine/internal/features/geocoding/adapters"
	geohandler "delivery-geo-engine/internal/features/geocoding/handler"
	geoports "delivery-geo-engine/internal/features/geocoding/ports"
	geoservice "delivery-geo-engine/internal/features/geocoding/service"
	locadapter "delivery-geo-engine/internal/features/location/adapters"
	lochandler "delivery-geo-engine/internal/features/location/handler"
	locports "delivery-geo-engine/internal/features/location/ports"
	locservice "delivery-geo-engine/internal/features/location/service"
	routehandler "delivery-geo-engine/internal/features/routing/handler"
	routeservice "delivery-geo-engine/internal/features/routing/service"
	trackadapter "delivery-geo-engine/internal/features/tracking/adapters"
	trackhandler "delivery-geo-engine/internal/features/tracking/handler"
	trackservice "delivery-geo-engine/internal/features/tracking/service"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// One Redis client is shared by the geocode cache and the position
	// publisher.
	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		l.Fatal("Invalid redis URL", zap.Error(err))
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		l.Fatal("Redis connection failed", zap.Error(err))
	}
	l.Info("Redis connection verified")

	geocodeCache, err := buildGeocodeCache(ctx, cfg, redisClient)
	if err != nil {
		l.Fatal("Failed to initialize geocode cache", zap.Error(err))
	}
	l.Info("Geocode cache initialized", zap.String("backend", cfg.Geocoding.CacheBackend))

	geocoder, reverseGeocoder, err := buildGeocoder(cfg)
	if err != nil {
		l.Fatal("Failed to initialize geocoder", zap.Error(err))
	}
	l.Info("Geocoder initialized", zap.String("provider", cfg.Geocoding.Provider))

	addressResolver := geoservice.NewAddressResolver(geocodeCache, geocoder, reverseGeocoder)
	geocodeHandler := geohandler.NewGeocodeHandler(addressResolver)

	// Current-location chain: reported device fixes first, IP geolocation
	// providers next, fixed default last.
	sensor := locadapter.NewReportedPositionSensor()
	locators := []locports.IPLocator{
		locadapter.NewIPAPIAdapter(cfg.Location.IPAPIURL),
		locadapter.NewIPInfoAdapter(cfg.Location.IPInfoURL),
	}
	locationResolver := locservice.NewLocationResolver(sensor, locators, locservice.Options{
		SensorTimeout:     time.Duration(cfg.Location.SensorTimeoutSeconds) * time.Second,
		SensorMaxAge:      time.Duration(cfg.Location.SensorMaxAgeSeconds) * time.Second,
		DefaultCoordinate: geo.Coordinate{Lat: cfg.Location.DefaultLat, Lng: cfg.Location.DefaultLng},
	})
	locationHandler := lochandler.NewLocationHandler(locationResolver, sensor)

	routeOptimizer := routeservice.NewRouteOptimizer(addressResolver)
	routeHandler := routehandler.NewRouteHandler(routeOptimizer)

	publisher := trackadapter.NewRedisPublisherFromClient(redisClient, cfg.Tracking.ChannelPrefix)
	tracker := trackservice.NewTracker(locationResolver, publisher,
		time.Duration(cfg.Tracking.PushIntervalSeconds)*time.Second)
	trackingHandler := trackhandler.NewTrackingHandler(tracker)

	go tracker.Run(ctx)

	srv := server.New(cfg)

	srv.App.Get("/geocode", geocodeHandler.Geocode)
	srv.App.Get("/geocode/reverse", geocodeHandler.Reverse)
	srv.App.Get("/location/current", locationHandler.Current)
	srv.App.Post("/location/report", locationHandler.Report)
	srv.App.Post("/routes/optimize", routeHandler.Optimize)
	srv.App.Post("/tracking/:orderID/start", trackingHandler.Start)
	srv.App.Post("/tracking/:orderID/stop", trackingHandler.Stop)
	srv.App.Get("/tracking/:orderID", trackingHandler.Status)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Run()
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			l.Fatal("Server failed", zap.Error(err))
		}
	case <-ctx.Done():
		l.Info("Shutdown signal received")
		if err := srv.Shutdown(); err != nil {
			l.Error("Server shutdown failed", zap.Error(err))
		}
	}
}

// buildGeocodeCache selects the geocode cache backend from configuration.
func buildGeocodeCache(ctx context.Context, cfg *config.AppConfig, redisClient *redis.Client) (geoports.GeocodeCache, error) {
	switch cfg.Geocoding.CacheBackend {
	case "redis":
		return geoadapter.NewRedisGeocodeCache(cache.NewRedisAdapterFromClient(redisClient)), nil
	case "postgres":
		return geoadapter.OpenPostgresGeocodeCache(ctx, cfg.Postgres.URL)
	default:
		return geoadapter.NewMemoryGeocodeCache(), nil
	}
}

// buildGeocoder selects the geocoding provider from configuration.
func buildGeocoder(cfg *config.AppConfig) (geoports.Geocoder, geoports.ReverseGeocoder, error) {
	if cfg.Geocoding.Provider == "google" {
		g, err := geoadapter.NewGoogleAdapter(cfg.Geocoding.GoogleAPIKey)
		if err != nil {
			return nil, nil, err
		}
		return g, g, nil
	}

	n := geoadapter.NewNominatimAdapter(cfg.Geocoding.NominatimURL)
	return n, n, nil
}
