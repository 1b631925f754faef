// Package gateway decide, para cada requisição de artigo, entre servir a
// página com metadados sociais, redirecionar para o host canônico ou
// responder "não encontrado".
//
// O fluxo é sempre o mesmo: classificar a requisição, buscar o artigo quando
// a política pede, decidir a ação e renderizar a resposta. O Engine não guarda
// estado entre requisições.
package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/healthbuzzonline/post-gateway/internal/contentsource"
	"github.com/healthbuzzonline/post-gateway/internal/models"
	"github.com/healthbuzzonline/post-gateway/internal/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// OutcomeFetchError é o rótulo de resultado quando o upstream falhou
const OutcomeFetchError = "fetch_error"

// Result descreve o que foi feito com uma requisição
type Result struct {
	Class    models.TrafficClass
	Outcome  string
	Fetched  bool
	Response *Response
}

// Option configura o Engine
type Option func(*Engine)

// WithLogger define o logger do Engine
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithSourceName define o rótulo da fonte usado em métricas e logs
func WithSourceName(name string) Option {
	return func(e *Engine) {
		e.sourceName = name
	}
}

// WithFetchTimeout limita cada busca no upstream, inclusive em Sources sem
// timeout próprio
func WithFetchTimeout(timeout time.Duration) Option {
	return func(e *Engine) {
		e.fetchTimeout = timeout
	}
}

// Engine é o motor de classificação e despacho
type Engine struct {
	classifier   *Classifier
	policy       Policy
	source       contentsource.Source
	renderer     *Renderer
	sourceName   string
	fetchTimeout time.Duration
	logger       *zap.Logger
	tracer       trace.Tracer
}

// NewEngine cria o motor com a política escolhida na inicialização
func NewEngine(classifier *Classifier, policy Policy, source contentsource.Source, opts ...Option) *Engine {
	e := &Engine{
		classifier: classifier,
		policy:     policy,
		source:     source,
		renderer:   NewRenderer(),
		sourceName: "content",
		logger:     zap.NewNop(),
		tracer:     otel.Tracer("gateway"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// PolicyName retorna o nome da política ativa
func (e *Engine) PolicyName() string {
	return e.policy.Name()
}

// Serve processa uma requisição. Falhas do upstream viram resposta 502/504
// no Result; o erro retornado indica apenas falha de renderização.
func (e *Engine) Serve(ctx context.Context, rc models.RequestContext) (*Result, error) {
	class := e.classifier.Classify(rc)
	result := &Result{Class: class}

	var article *models.Article
	if e.policy.NeedsFetch(class) {
		result.Fetched = true

		fetched, err := e.fetch(ctx, rc.Path, class)
		if err != nil {
			fe := e.asFetchError(rc.Path, err)
			e.logger.Error("falha ao buscar artigo",
				zap.String("path", rc.Path),
				zap.String("class", class.String()),
				zap.String("source", fe.Source),
				zap.Int("status", fe.Status),
				zap.Bool("timeout", fe.Timeout),
				zap.Error(err),
			)
			result.Outcome = OutcomeFetchError
			result.Response = e.renderer.RenderFailure(fe)
			observability.RequestsTotal.WithLabelValues(class.String(), OutcomeFetchError).Inc()
			return result, nil
		}
		article = fetched
	}

	action := e.policy.Decide(rc, class, article)

	resp, err := e.renderer.Render(action, rc)
	if err != nil {
		return nil, err
	}

	result.Outcome = string(action.Kind)
	result.Response = resp
	observability.RequestsTotal.WithLabelValues(class.String(), result.Outcome).Inc()

	e.logger.Debug("requisição despachada",
		zap.String("path", rc.Path),
		zap.String("class", class.String()),
		zap.String("action", result.Outcome),
		zap.String("policy", e.policy.Name()),
	)

	return result, nil
}

func (e *Engine) fetch(ctx context.Context, path string, class models.TrafficClass) (*models.Article, error) {
	ctx, span := e.tracer.Start(ctx, "content.fetch")
	defer span.End()

	if e.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.fetchTimeout)
		defer cancel()
	}

	span.SetAttributes(
		attribute.String("content.path", path),
		attribute.String("content.source", e.sourceName),
		attribute.String("gateway.class", class.String()),
	)

	start := time.Now()
	article, err := e.source.FetchByPath(ctx, path)
	elapsed := time.Since(start).Seconds()

	outcome := observability.FetchOutcomeFound
	switch {
	case err != nil:
		outcome = observability.FetchOutcomeError
		if fe, ok := contentsource.AsFetchError(err); ok && fe.Timeout {
			outcome = observability.FetchOutcomeTimeout
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "content fetch failed")
	case article == nil:
		outcome = observability.FetchOutcomeNotFound
	}

	span.SetAttributes(attribute.String("content.outcome", outcome))
	observability.ContentFetchDuration.WithLabelValues(e.sourceName, outcome).Observe(elapsed)

	return article, err
}

// asFetchError garante um *FetchError mesmo para Sources que retornam erros simples
func (e *Engine) asFetchError(path string, err error) *contentsource.FetchError {
	if fe, ok := contentsource.AsFetchError(err); ok {
		return fe
	}
	return &contentsource.FetchError{
		Source:  e.sourceName,
		Path:    path,
		Timeout: errors.Is(err, context.DeadlineExceeded),
		Err:     err,
	}
}
