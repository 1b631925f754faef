// Package contentsource busca artigos por path na fonte de conteúdo upstream.
//
// Um Source retorna (artigo, nil) quando encontra o artigo, (nil, nil) quando o
// upstream informa explicitamente que não existe artigo no path, e
// (nil, *FetchError) para qualquer falha: transporte, timeout, autenticação,
// resposta malformada ou payload fora do schema esperado. Falhas nunca são
// convertidas em "não encontrado".
package contentsource

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/healthbuzzonline/post-gateway/internal/models"
)

const (
	SourceGraphQL   = "graphql"
	SourceTypesense = "typesense"

	DefaultTimeout = 10 * time.Second
)

// Source busca um único artigo pelo path normalizado
type Source interface {
	FetchByPath(ctx context.Context, path string) (*models.Article, error)
}

// Pinger é implementado por Sources capazes de verificar a conectividade com
// o upstream sem buscar um artigo
type Pinger interface {
	Ping(ctx context.Context) error
}

// FetchError representa uma falha recuperável ao consultar o upstream
type FetchError struct {
	Source  string
	Path    string
	Status  int
	Timeout bool
	Err     error
}

func (e *FetchError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("%s: timeout ao buscar %q: %v", e.Source, e.Path, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s: status %d ao buscar %q: %v", e.Source, e.Status, e.Path, e.Err)
	default:
		return fmt.Sprintf("%s: falha ao buscar %q: %v", e.Source, e.Path, e.Err)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// AsFetchError extrai um *FetchError da cadeia de erros
func AsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// newFetchError classifica err como timeout antes de embrulhá-lo
func newFetchError(ctx context.Context, source, path string, status int, err error) *FetchError {
	return &FetchError{
		Source:  source,
		Path:    path,
		Status:  status,
		Timeout: isTimeout(ctx, err),
		Err:     err,
	}
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if ctx != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// newValidator cria o validador usado nos payloads do upstream
func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// normalizeTimestamp converte datas do upstream para RFC 3339 em UTC.
// Datas sem fuso (ex: dateGmt do WordPress) são tratadas como UTC; valores
// em formato desconhecido são mantidos como vieram.
func normalizeTimestamp(value string) string {
	if value == "" {
		return ""
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC().Format(time.RFC3339)
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", value, time.UTC); err == nil {
		return t.Format(time.RFC3339)
	}
	return value
}
