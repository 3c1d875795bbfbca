package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "outage-api/docs"
	"outage-api/internal/config"
	"outage-api/internal/handler"
	"outage-api/internal/ingest"
	"outage-api/internal/logging"
	"outage-api/internal/metrics"
	"outage-api/internal/middleware"
	"outage-api/internal/repository"
	"outage-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Outage API
//	@version		1.0
//	@description	Address search, map viewport queries, outage proximity status and reported incidents.
//	@BasePath		/

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization

func main() {
	_ = godotenv.Load(".env.local")

	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	logging.Setup(config.LogLevel, config.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database connection
	conn, err := pgxpool.New(ctx, config.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close()

	repo := repository.NewRepository(conn)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("cannot prepare schema")
	}

	// Feed state survives restarts only with Redis
	var state ingest.FeedState = ingest.NewMemoryFeedState()
	if config.RedisAddress != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     config.RedisAddress,
			Password: config.RedisPassword,
			DB:       config.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis unavailable, feed state kept in memory")
		} else {
			state = ingest.NewRedisFeedState(rdb)
		}
	}

	syncer := ingest.NewSynchronizer(repo, ingest.NewFetcher(&http.Client{Timeout: 5 * time.Minute}), state, map[string]string{
		repository.TableAddresses:    config.AddressesURL,
		repository.TableServiceLines: config.ServiceLinesURL,
		repository.TableOutageLines:  config.OutageLinesURL,
		repository.TableIncidents:    config.IncidentsURL,
	})
	scheduler := ingest.NewScheduler(syncer, map[string]time.Duration{
		repository.TableAddresses:    config.AddressSyncInterval,
		repository.TableServiceLines: config.ServiceLinesSyncInterval,
		repository.TableOutageLines:  config.OutageLinesSyncInterval,
		repository.TableIncidents:    config.IncidentsSyncInterval,
	})
	scheduler.Start(ctx)

	// Initialize layers
	searchService := service.NewSearchService(repo, config.SearchMaxResults)
	regionService := service.NewRegionService(repo, service.RegionConfig{
		MaxResults:         config.RegionMaxResults,
		ClusterCellDegrees: config.ClusterCellDegrees,
		ClusterMaxZoom:     config.ClusterMaxZoom,
	})
	outageService := service.NewOutageService(repo, config.OutageThresholdMeters)
	incidentService := service.NewIncidentService(repo, config.RegionMaxResults)

	searchHandler := handler.NewSearchHandler(searchService)
	regionHandler := handler.NewRegionHandler(regionService)
	outageHandler := handler.NewOutageHandler(outageService)
	incidentHandler := handler.NewIncidentHandler(incidentService)
	healthHandler := handler.NewHealthHandler(repo)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())

	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/", middleware.Timeout(config.RequestTimeout))
	{
		limiter := middleware.NewRateLimiter(config.SearchRateLimit, config.SearchRateBurst)
		api.GET("/search", middleware.RateLimit(limiter), searchHandler.Search)

		api.GET("/map/addresses", regionHandler.MapAddresses)
		api.GET("/map/clusters", regionHandler.Clusters)
		api.GET("/map/lines/:kind", regionHandler.Lines)
		api.GET("/lines/:kind/nearby", regionHandler.NearbyLines)

		api.GET("/outages/:id", outageHandler.Status)
		api.POST("/outages/status", outageHandler.StatusMany)

		api.GET("/incidents/nearby", incidentHandler.Nearby)
		api.GET("/incidents/zip/:zip", incidentHandler.ZipSummary)
	}

	if config.AdminToken != "" {
		syncHandler := handler.NewSyncHandler(syncer)
		r.POST("/admin/sync/:table", middleware.RequireToken(config.AdminToken), syncHandler.Sync)
	} else {
		log.Info().Msg("ADMIN_TOKEN not set, manual sync disabled")
	}

	srv := &http.Server{
		Addr:              config.ServerAddress,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", config.ServerAddress).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	scheduler.Wait()
}
