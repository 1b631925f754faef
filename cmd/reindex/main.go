package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/healthbuzzonline/post-gateway/internal/config"
	"github.com/healthbuzzonline/post-gateway/internal/contentsource"
	"github.com/healthbuzzonline/post-gateway/internal/mirror"
	"github.com/healthbuzzonline/post-gateway/internal/utils"
	"go.uber.org/zap"
)

func main() {
	collection := flag.String("collection", "", "Collection alvo (default: TYPESENSE_COLLECTION)")
	batchSize := flag.Int("batch", 50, "Posts por página do CMS")
	workers := flag.Int("workers", 3, "Workers paralelos")
	maxPages := flag.Int("max-pages", 0, "Limite de páginas (0 = todas)")
	dryRun := flag.Bool("dry-run", false, "Simular sem alterar")
	path := flag.String("path", "", "Sincronizar apenas o post deste path")
	writeRate := flag.Float64("rate", 0, "Gravações por segundo no Typesense (0 = sem limite)")

	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Erro ao carregar configuração: %v", err)
	}
	if cfg.ContentSourceEndpoint == "" || cfg.Typesense.APIKey == "" {
		log.Fatal("CONTENT_SOURCE_ENDPOINT e TYPESENSE_API_KEY são obrigatórios para a sincronização")
	}

	logger, err := config.InitLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Erro ao inicializar logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	name := *collection
	if name == "" {
		name = cfg.Typesense.Collection
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cms := contentsource.NewGraphQLSource(
		cfg.ContentSourceEndpoint,
		contentsource.WithToken(cfg.ContentSourceToken),
		contentsource.WithTimeout(time.Minute),
	)
	client := contentsource.NewTypesenseClient(cfg.Typesense.ServerURL(), cfg.Typesense.APIKey, time.Minute)
	target := contentsource.NewTypesenseSource(client, name, time.Minute)

	logger.Info("iniciando sincronização",
		zap.String("collection", name),
		zap.Int("batch", *batchSize),
		zap.Int("workers", *workers),
		zap.Bool("dry_run", *dryRun),
		zap.Float64("rate", *writeRate),
	)

	if *path != "" {
		normalized := utils.NormalizePath(*path)
		found, err := mirror.SyncPath(ctx, cms, target, normalized)
		if err != nil {
			logger.Fatal("erro ao sincronizar post", zap.String("path", normalized), zap.Error(err))
		}
		if !found {
			logger.Fatal("post não encontrado no CMS", zap.String("path", normalized))
		}
		logger.Info("post sincronizado", zap.String("path", normalized))
		return
	}

	syncer := mirror.NewSyncer(cms, target, mirror.Config{
		BatchSize:       *batchSize,
		Workers:         *workers,
		MaxPages:        *maxPages,
		DryRun:          *dryRun,
		WritesPerSecond: *writeRate,
	}, logger.Named("mirror"))

	stats, err := syncer.Run(ctx)
	if err != nil {
		logger.Fatal("erro na sincronização", zap.Error(err))
	}
	if stats.Errors > 0 {
		logger.Warn("sincronização terminou com erros", zap.Int64("errors", stats.Errors))
	}
}
