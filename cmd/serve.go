package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"wellness/config"
	"wellness/controllers"
	"wellness/routes"
	"wellness/services"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := config.NewLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	db, err := config.InitDB(cfg)
	if err != nil {
		return err
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return fmt.Errorf("load AWS config: %w", err)
	}

	policy, err := services.ParseModerationPolicy(cfg.ModerationPolicy)
	if err != nil {
		return err
	}

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := buildRouter(cfg, db, awsCfg, policy, log)

	handler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	}).Handler(router)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

func buildRouter(cfg *config.Config, db *gorm.DB, awsCfg aws.Config, policy services.ModerationPolicy, log *zap.Logger) *gin.Engine {
	var store services.ResolvedItemStore = services.NewGormItemStore(db)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		store = services.NewCachedItemStore(store, rdb, cfg.ItemCacheTTL, log)
		log.Info("resolved item cache enabled", zap.String("addr", cfg.RedisAddr))
	}

	openai := services.NewOpenAIClient(services.OpenAIConfig{
		APIKey:          cfg.OpenAIAPIKey,
		Organization:    cfg.OpenAIOrganization,
		Project:         cfg.OpenAIProject,
		BaseURL:         cfg.OpenAIBaseURL,
		Model:           cfg.OpenAIModel,
		ModerationModel: cfg.OpenAIModerationModel,
	}, log)
	evaluator := services.NewEvaluator(store, openai, openai, policy, log)

	hub := services.NewRealtimeHub(log)
	verifier := services.NewVerificationService(ses.NewFromConfig(awsCfg), sns.NewFromConfig(awsCfg), cfg.SESEmail, log)

	var uploader services.PictureUploader
	if cfg.S3Bucket != "" {
		s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) { o.Region = cfg.S3Region })
		uploader = services.NewImageUploader(s3Client, cfg.S3Bucket, cfg.CloudFrontURL)
	}

	return routes.SetupRouter(routes.Deps{
		JWTSecret: cfg.JWTSecret,
		Log:       log,
		Auth:      controllers.NewAuthController(services.NewAuthService(db, verifier, cfg.JWTSecret, log)),
		Users: controllers.NewUserController(
			services.NewUserService(db, uploader),
			services.NewCalorieGoalService(db),
		),
		Wellness: controllers.NewWellnessController(services.NewWellnessService(db, evaluator, hub, log)),
		Suggestions: controllers.NewSuggestionController(
			evaluator,
			services.NewFoodImageService(rekognition.NewFromConfig(awsCfg)),
		),
		Realtime: controllers.NewRealtimeController(hub),
	})
}
