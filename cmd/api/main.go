package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/healthbuzzonline/post-gateway/docs"
	"github.com/healthbuzzonline/post-gateway/internal/api/handlers"
	"github.com/healthbuzzonline/post-gateway/internal/api/routes"
	"github.com/healthbuzzonline/post-gateway/internal/config"
	"github.com/healthbuzzonline/post-gateway/internal/contentsource"
	"github.com/healthbuzzonline/post-gateway/internal/gateway"
	"github.com/healthbuzzonline/post-gateway/internal/observability"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// @title           Post Gateway API
// @version         1.0
// @description     Gateway de artigos que serve metadados sociais para crawlers e redireciona visitantes para o host canônico

// @contact.name   HealthBuzz Online
// @contact.url    https://healthbuzzonline.com

// @BasePath  /

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Erro ao carregar configuração: %v", err)
	}

	logger, err := config.InitLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Erro ao inicializar logger: %v", err)
	}

	err = run(cfg, logger)
	if err != nil {
		logger.Error("servidor encerrado com erro", zap.Error(err))
	}
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	observability.InitTracer(cfg)
	defer observability.ShutdownTracer()

	source, checks, closeSource, err := buildSource(cfg, logger)
	if err != nil {
		return err
	}
	defer closeSource()

	policy, err := gateway.NewPolicy(cfg.DispatchPolicy, cfg.CanonicalHost)
	if err != nil {
		return eris.Wrap(err, "dispatch policy")
	}

	engine := gateway.NewEngine(
		gateway.NewClassifier(cfg.CrawlerSignatures, cfg.SocialReferrerDomains),
		policy,
		source,
		gateway.WithLogger(logger.Named("gateway")),
		gateway.WithSourceName(cfg.ContentSource),
		gateway.WithFetchTimeout(cfg.ContentSourceTimeout),
	)

	gin.SetMode(cfg.GinMode)
	r := routes.SetupRouter(cfg, engine, logger.Named("http"), checks...)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("servidor iniciado",
			zap.String("port", cfg.ServerPort),
			zap.String("policy", policy.Name()),
			zap.String("content_source", cfg.ContentSource),
			zap.String("canonical_host", cfg.CanonicalHost),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("encerrando servidor")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// buildSource escolhe a fonte de conteúdo configurada e, com CACHE_REDIS_URL,
// envolve a fonte no cache Redis
func buildSource(cfg *config.Config, logger *zap.Logger) (contentsource.Source, []handlers.HealthCheck, func(), error) {
	var (
		source contentsource.Source
		pinger contentsource.Pinger
	)

	switch cfg.ContentSource {
	case config.ContentSourceTypesense:
		client := contentsource.NewTypesenseClient(cfg.Typesense.ServerURL(), cfg.Typesense.APIKey, cfg.ContentSourceTimeout)
		ts := contentsource.NewTypesenseSource(client, cfg.Typesense.Collection, cfg.ContentSourceTimeout)
		source, pinger = ts, ts
	case config.ContentSourceGraphQL:
		gql := contentsource.NewGraphQLSource(
			cfg.ContentSourceEndpoint,
			contentsource.WithToken(cfg.ContentSourceToken),
			contentsource.WithTimeout(cfg.ContentSourceTimeout),
		)
		source, pinger = gql, gql
	default:
		return nil, nil, nil, fmt.Errorf("%w: CONTENT_SOURCE %q", config.ErrInvalidValue, cfg.ContentSource)
	}

	checks := []handlers.HealthCheck{
		{Name: cfg.ContentSource, Critical: true, Check: pinger.Ping},
	}

	if cfg.CacheRedisURL == "" {
		return source, checks, func() {}, nil
	}

	rdb, err := contentsource.NewRedisClient(cfg.CacheRedisURL)
	if err != nil {
		return nil, nil, nil, eris.Wrap(err, "parse CACHE_REDIS_URL")
	}

	checks = append(checks, handlers.HealthCheck{
		Name:  "redis",
		Check: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	})

	cached := contentsource.NewCachedSource(source, rdb, cfg.CacheTTL, logger.Named("cache"))
	closeFn := func() {
		if err := rdb.Close(); err != nil {
			logger.Warn("falha ao fechar cliente redis", zap.Error(err))
		}
	}

	return cached, checks, closeFn, nil
}
