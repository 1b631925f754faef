package contentsource

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/healthbuzzonline/post-gateway/internal/models"
	"github.com/rotisserie/eris"
	"github.com/typesense/typesense-go/v3/typesense"
	"github.com/typesense/typesense-go/v3/typesense/api"
	"github.com/typesense/typesense-go/v3/typesense/api/pointer"
)

// typesenseDocument é o documento indexado espelhando um post do CMS
type typesenseDocument struct {
	ID          string `json:"id" validate:"required"`
	Path        string `json:"path" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Excerpt     string `json:"excerpt"`
	Content     string `json:"content"`
	Link        string `json:"link" validate:"required,url"`
	DateGmt     string `json:"date_gmt"`
	ModifiedGmt string `json:"modified_gmt"`
	AuthorName  string `json:"author_name,omitempty"`
	ImageURL    string `json:"image_url,omitempty" validate:"omitempty,url"`
	ImageAlt    string `json:"image_alt,omitempty"`
}

func (d *typesenseDocument) toArticle() *models.Article {
	article := &models.Article{
		ID:            d.ID,
		Title:         d.Title,
		ExcerptHTML:   d.Excerpt,
		ContentHTML:   d.Content,
		CanonicalLink: d.Link,
		PublishedAt:   normalizeTimestamp(d.DateGmt),
		ModifiedAt:    normalizeTimestamp(d.ModifiedGmt),
		AuthorName:    d.AuthorName,
	}
	if d.ImageURL != "" {
		article.FeaturedImage = &models.Image{URL: d.ImageURL, AltText: d.ImageAlt}
	}
	return article
}

// TypesenseSource busca artigos em uma collection do Typesense
type TypesenseSource struct {
	client     *typesense.Client
	collection string
	timeout    time.Duration
	validator  *validator.Validate
}

// NewTypesenseClient cria o cliente Typesense a partir do endereço do servidor
func NewTypesenseClient(serverURL, apiKey string, timeout time.Duration) *typesense.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return typesense.NewClient(
		typesense.WithServer(serverURL),
		typesense.WithAPIKey(apiKey),
		typesense.WithConnectionTimeout(timeout),
	)
}

// NewTypesenseSource cria uma fonte de conteúdo para a collection informada
func NewTypesenseSource(client *typesense.Client, collection string, timeout time.Duration) *TypesenseSource {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &TypesenseSource{
		client:     client,
		collection: collection,
		timeout:    timeout,
		validator:  newValidator(),
	}
}

// FetchByPath busca o documento cujo campo path é igual ao path informado
func (s *TypesenseSource) FetchByPath(ctx context.Context, path string) (*models.Article, error) {
	if path == "" {
		return nil, &FetchError{Source: SourceTypesense, Err: ErrEmptyPath}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	searchParams := &api.SearchCollectionParams{
		Q:        pointer.String("*"),
		FilterBy: pointer.String(pathFilter(path)),
		PerPage:  pointer.Int(1),
	}

	result, err := s.client.Collection(s.collection).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, newFetchError(ctx, SourceTypesense, path, 0, eris.Wrapf(err, "typesense: search collection %s", s.collection))
	}

	if result.Hits == nil || len(*result.Hits) == 0 {
		return nil, nil
	}

	hit := (*result.Hits)[0]
	if hit.Document == nil {
		return nil, &FetchError{Source: SourceTypesense, Path: path, Err: fmt.Errorf("%w: hit sem documento", ErrMalformedResponse)}
	}

	// Converte o documento genérico para o schema tipado
	raw, err := json.Marshal(*hit.Document)
	if err != nil {
		return nil, &FetchError{Source: SourceTypesense, Path: path, Err: fmt.Errorf("%w: %v", ErrMalformedResponse, err)}
	}

	var doc typesenseDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &FetchError{Source: SourceTypesense, Path: path, Err: fmt.Errorf("%w: %v", ErrSchemaMismatch, err)}
	}

	if err := s.validator.Struct(&doc); err != nil {
		return nil, &FetchError{Source: SourceTypesense, Path: path, Err: fmt.Errorf("%w: %v", ErrSchemaMismatch, err)}
	}

	return doc.toArticle(), nil
}

// Ping consulta o endpoint de saúde do Typesense
func (s *TypesenseSource) Ping(ctx context.Context) error {
	healthy, err := s.client.Health(ctx, 2*time.Second)
	if err != nil {
		return eris.Wrap(err, "typesense: health check")
	}
	if !healthy {
		return eris.New("typesense: server reported unhealthy")
	}
	return nil
}

// pathFilter monta o filter_by de igualdade exata, escapando o valor com crases
func pathFilter(path string) string {
	return fmt.Sprintf("path:=`%s`", strings.ReplaceAll(path, "`", ""))
}
