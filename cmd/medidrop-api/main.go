// README: Entry point; loads config, wires providers and services, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"medidrop/internal/ai"
	"medidrop/internal/config"
	httptransport "medidrop/internal/http"
	"medidrop/internal/infra"
	"medidrop/internal/maps"
	"medidrop/internal/modules/delivery"
	"medidrop/internal/modules/eta"
	"medidrop/internal/modules/tracking"
	"medidrop/internal/obs"
	"medidrop/internal/types"
	"medidrop/internal/weather"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := obs.SetupLogging(cfg.Log.Level, cfg.Log.JSON); err != nil {
		log.Fatal(err)
	}
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := time.LoadLocation(cfg.Engine.TimeZone)
	if err != nil {
		log.Fatalf("failed to load %s location: %v", cfg.Engine.TimeZone, err)
	}

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer dbPool.Close()
	if cfg.DB.AutoMigrate {
		applied, err := infra.ApplyMigrations(ctx, dbPool, cfg.DB.MigrationsDir)
		if err != nil {
			log.Fatalf("migrate: %v", err)
		}
		log.WithField("files", applied).Info("migrations applied")
	}

	routeStore, closeStore, err := newRouteStore(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeStore()

	geocoder, err := maps.NewGeocodeService(cfg.Providers.GoogleMapsKey, maps.ServiceRegion{
		Country:    cfg.Region.Country,
		State:      cfg.Region.State,
		Localities: cfg.Region.Localities,
	})
	if err != nil {
		log.Fatal(err)
	}
	router, err := maps.NewRouteService(cfg.Providers.GoogleMapsKey)
	if err != nil {
		log.Fatal(err)
	}
	weatherClient := weather.NewClient(cfg.Providers.OpenWeatherKey, cfg.Providers.OpenWeatherURL, cfg.Engine.ProviderTimeout)

	predictor, closePredictor, err := ai.NewFromConfig(ctx, cfg.Predictor, cfg.Providers.GeminiKey)
	if err != nil {
		log.Fatalf("predictor init: %v", err)
	}
	defer closePredictor()

	engine := delivery.NewEngine(geocoder, weatherClient, router, predictor, delivery.EngineOptions{
		Origin:              types.Point{Lat: cfg.Engine.OriginLat, Lng: cfg.Engine.OriginLng},
		DistanceFactor:      cfg.Engine.DistanceFactor,
		ProviderTimeout:     cfg.Engine.ProviderTimeout,
		FallbackLiveTraffic: cfg.Engine.FallbackLiveTraffic,
		Location:            loc,
		Calculator:          eta.NewCalculator(cfg.Engine.DroneSpeedKmph, cfg.Engine.RoadBaseSpeedKmph),
	})
	deliverySvc := delivery.NewService(delivery.NewStore(dbPool), engine)
	trackingSvc := tracking.NewService(routeStore)

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Delivery: deliverySvc,
		Tracking: trackingSvc,
	})
	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.WithFields(log.Fields{
		"addr":      cfg.HTTP.Addr,
		"tracking":  cfg.Tracking.Store,
		"predictor": cfg.Predictor.Kind,
	}).Info("medidrop api listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func newRouteStore(ctx context.Context, cfg config.Config) (tracking.RouteStore, func(), error) {
	if cfg.Tracking.Store != config.TrackingStoreRedis {
		return tracking.NewMemoryStore(), func() {}, nil
	}
	client, err := infra.NewRedis(ctx, cfg.Redis.Addr)
	if err != nil {
		return nil, nil, err
	}
	return tracking.NewRedisStore(client, cfg.Tracking.RouteTTL), func() { _ = client.Close() }, nil
}
