// Package mirror copia os posts publicados do CMS para a collection Typesense
// usada pela fonte de conteúdo typesense.
package mirror

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/healthbuzzonline/post-gateway/internal/contentsource"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Lister pagina os artigos publicados do CMS
type Lister interface {
	ListArticles(ctx context.Context, after string, first int) (*contentsource.Page, error)
}

// Writer grava um artigo na collection espelho
type Writer interface {
	Upsert(ctx context.Context, entry contentsource.Entry) error
}

// Config controla a sincronização. WritesPerSecond limita as gravações no
// Typesense somando todos os workers; zero desativa o limite.
type Config struct {
	BatchSize       int
	Workers         int
	MaxPages        int
	DryRun          bool
	WritesPerSecond float64
}

// Stats resume uma execução
type Stats struct {
	Listed    int64
	Upserted  int64
	Invalid   int64
	Errors    int64
	Pages     int64
	StartTime time.Time
}

// Syncer lê páginas do Lister e grava cada artigo no Writer com workers paralelos
type Syncer struct {
	lister  Lister
	writer  Writer
	config  Config
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewSyncer cria o sincronizador com defaults para valores não positivos
func NewSyncer(lister Lister, writer Writer, cfg Config, logger *zap.Logger) *Syncer {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.WritesPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.WritesPerSecond), cfg.Workers)
	}
	return &Syncer{lister: lister, writer: writer, config: cfg, limiter: limiter, logger: logger}
}

// Run percorre todas as páginas. Falhas de listagem interrompem a execução;
// falhas de gravação são contadas e a execução continua.
func (s *Syncer) Run(ctx context.Context) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}

	var wg sync.WaitGroup
	entries := make(chan contentsource.Entry, s.config.Workers*2)

	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for entry := range entries {
				s.write(ctx, workerID, entry, stats)
			}
		}(i)
	}

	err := s.list(ctx, entries, stats)
	close(entries)
	wg.Wait()

	s.logger.Info("sincronização finalizada",
		zap.Int64("pages", stats.Pages),
		zap.Int64("listed", stats.Listed),
		zap.Int64("upserted", atomic.LoadInt64(&stats.Upserted)),
		zap.Int64("invalid", stats.Invalid),
		zap.Int64("errors", atomic.LoadInt64(&stats.Errors)),
		zap.Duration("elapsed", time.Since(stats.StartTime)),
		zap.Bool("dry_run", s.config.DryRun),
	)

	return stats, err
}

func (s *Syncer) list(ctx context.Context, entries chan<- contentsource.Entry, stats *Stats) error {
	cursor := ""
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		page, err := s.lister.ListArticles(ctx, cursor, s.config.BatchSize)
		if err != nil {
			return err
		}

		stats.Pages++
		stats.Invalid += int64(page.Invalid)
		if page.Invalid > 0 {
			s.logger.Warn("posts fora do schema ignorados", zap.Int("count", page.Invalid), zap.String("cursor", cursor))
		}

		for _, entry := range page.Entries {
			stats.Listed++
			select {
			case entries <- entry:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		s.logger.Info("progresso",
			zap.Int64("pages", stats.Pages),
			zap.Int64("listed", stats.Listed),
			zap.Int64("errors", atomic.LoadInt64(&stats.Errors)),
		)

		if !page.HasNext || page.EndCursor == "" || page.EndCursor == cursor {
			return nil
		}
		if s.config.MaxPages > 0 && stats.Pages >= int64(s.config.MaxPages) {
			return nil
		}
		cursor = page.EndCursor
	}
}

func (s *Syncer) write(ctx context.Context, workerID int, entry contentsource.Entry, stats *Stats) {
	if s.config.DryRun {
		s.logger.Debug("dry-run", zap.String("path", entry.Path))
		atomic.AddInt64(&stats.Upserted, 1)
		return
	}

	if err := s.limiter.Wait(ctx); err != nil {
		atomic.AddInt64(&stats.Errors, 1)
		return
	}

	if err := s.writer.Upsert(ctx, entry); err != nil {
		s.logger.Error("falha ao gravar artigo",
			zap.Int("worker", workerID),
			zap.String("path", entry.Path),
			zap.Error(err),
		)
		atomic.AddInt64(&stats.Errors, 1)
		return
	}
	atomic.AddInt64(&stats.Upserted, 1)
}

// SyncPath copia um único artigo buscado pelo path
func SyncPath(ctx context.Context, source contentsource.Source, writer Writer, path string) (bool, error) {
	article, err := source.FetchByPath(ctx, path)
	if err != nil {
		return false, err
	}
	if article == nil {
		return false, nil
	}
	return true, writer.Upsert(ctx, contentsource.Entry{Path: path, Article: article})
}
