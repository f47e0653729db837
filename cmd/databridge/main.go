package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/databridge/databridge/internal/ai"
	"github.com/databridge/databridge/internal/config"
	"github.com/databridge/databridge/internal/db"
	"github.com/databridge/databridge/internal/embedcache"
	"github.com/databridge/databridge/internal/events"
	"github.com/databridge/databridge/internal/handler"
	"github.com/databridge/databridge/internal/job"
	"github.com/databridge/databridge/internal/middleware"
	"github.com/databridge/databridge/internal/repo"
	"github.com/databridge/databridge/internal/scanner"
	"github.com/databridge/databridge/internal/schedule"
	"github.com/databridge/databridge/internal/search"
	"github.com/databridge/databridge/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "databridge",
		Short: "databridge backend server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run databridge server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			database, err := db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := db.ApplyMigrations(database); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, database)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, database *sql.DB) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logutil.GetLogger(ctx).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.Bool("scanner", cfg.Scanner.Enable),
	)

	businessRepo := repo.NewBusinessRepo(database)
	businessReportRepo := repo.NewBusinessReportRepo(database)
	reportRepo := repo.NewReportRepo(database)
	eventRepo := repo.NewEventRepo(database)
	feedPostRepo := repo.NewFeedPostRepo(database)
	searchSummaryRepo := repo.NewSearchSummaryRepo(database)
	embeddingCacheRepo := repo.NewEmbeddingCacheRepo(database)

	searcher, err := search.NewClient(ctx, cfg.Search.APIKey, cfg.Search.CSEID, time.Duration(cfg.Search.TimeoutSeconds)*time.Second)
	if err != nil {
		return fmt.Errorf("init search client: %w", err)
	}
	fetcher := search.NewFetcher(time.Duration(cfg.Search.TimeoutSeconds) * time.Second)

	providerArgs := cfg.AI.Data
	if providerArgs == nil {
		providerArgs = cfg.AI
	}
	aiProvider, err := ai.NewProvider(cfg.AI.Provider, providerArgs)
	if err != nil {
		return fmt.Errorf("init ai provider: %w", err)
	}
	aiTimeout := time.Duration(cfg.AI.TimeoutSeconds) * time.Second
	generator := ai.NewGenerator(aiProvider, cfg.AI.Model, aiTimeout)
	embedder := ai.NewEmbedder(aiProvider, cfg.AI.EmbedModel, aiTimeout)
	embedder = embedcache.WrapDB(embedder, embeddingCacheRepo)
	embedder = embedcache.WrapLRU(embedder, 4096, time.Hour)

	eventPipeline := events.NewPipeline(searcher)
	ticketmaster := events.NewTicketmasterClient(
		cfg.Events.TicketmasterAPIKey,
		cfg.Events.RadiusMiles,
		time.Duration(cfg.Events.TimeoutSeconds)*time.Second,
	)

	freshness := time.Duration(cfg.Report.FreshnessDays) * 24 * time.Hour
	reportCfg := service.ReportConfig{
		ChunkSize:    cfg.Report.ChunkSize,
		ChunkOverlap: cfg.Report.ChunkOverlap,
		TopK:         cfg.Report.TopK,
		Freshness:    freshness,
	}

	reportService := service.NewReportService(searcher, fetcher, generator, embedder, eventPipeline, reportRepo, reportCfg)
	insightService := service.NewInsightService(searcher)
	businessService := service.NewBusinessService(businessRepo, businessReportRepo, insightService, freshness)
	searchService := service.NewSearchService(searcher, generator, embedder, searchSummaryRepo, reportCfg)
	eventService := service.NewEventService(ticketmaster, eventRepo)
	feedService := service.NewFeedService(feedPostRepo)

	deps := handler.RouterDeps{
		Businesses: handler.NewBusinessHandler(businessService),
		Reports:    handler.NewReportHandler(reportService),
		Searches:   handler.NewSearchHandler(searchService),
		Events:     handler.NewEventHandler(eventService),
		Posts:      handler.NewPostHandler(feedService),
		JWTSecret:  []byte(cfg.JWTSecret),
	}

	engine, err := webapi.NewEngine(
		"/api",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORSOrigins),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}

	scheduler := schedule.NewCronScheduler()
	if cfg.Scanner.Enable {
		redditClient := scanner.NewRedditClient(cfg.Scanner.UserAgent, time.Duration(cfg.Search.TimeoutSeconds)*time.Second)
		scanJob := job.NewFeedScanJob(redditClient, feedService, cfg.Scanner.Subreddits, cfg.Scanner.Limit)
		if err := scheduler.AddJob(scanJob, cfg.Scanner.Cron); err != nil {
			return fmt.Errorf("schedule feed scan: %w", err)
		}
	}
	cleanupJob := job.NewEmbeddingCacheCleanupJob(embeddingCacheRepo, 30)
	if err := scheduler.AddJob(cleanupJob, "0 4 * * *"); err != nil {
		return fmt.Errorf("schedule cache cleanup: %w", err)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	logutil.GetLogger(ctx).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))
	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
