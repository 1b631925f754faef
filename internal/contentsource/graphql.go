package contentsource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/healthbuzzonline/post-gateway/internal/models"
	"github.com/rotisserie/eris"
)

// postByURIQuery pede exatamente os campos de models.Article
const postByURIQuery = `query PostByURI($uri: ID!) {
  post(id: $uri, idType: URI) {
    id
    excerpt
    title
    link
    dateGmt
    modifiedGmt
    content
    author {
      node {
        name
      }
    }
    featuredImage {
      node {
        sourceUrl
        altText
      }
    }
  }
}`

// maxResponseBytes limita o corpo lido do upstream
const maxResponseBytes = 8 << 20

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse[T any] struct {
	Data   *T             `json:"data"`
	Errors []graphQLError `json:"errors,omitempty"`
}

type postData struct {
	Post *wpPost `json:"post"`
}

type wpPost struct {
	ID            string           `json:"id" validate:"required"`
	Excerpt       string           `json:"excerpt"`
	Title         string           `json:"title" validate:"required"`
	Link          string           `json:"link" validate:"required,url"`
	DateGmt       string           `json:"dateGmt"`
	ModifiedGmt   string           `json:"modifiedGmt"`
	Content       string           `json:"content"`
	Author        *wpAuthor        `json:"author"`
	FeaturedImage *wpFeaturedImage `json:"featuredImage"`
}

type wpAuthor struct {
	Node *struct {
		Name string `json:"name"`
	} `json:"node"`
}

type wpFeaturedImage struct {
	Node *struct {
		SourceURL string `json:"sourceUrl" validate:"omitempty,url"`
		AltText   string `json:"altText"`
	} `json:"node"`
}

func (p *wpPost) toArticle() *models.Article {
	article := &models.Article{
		ID:            p.ID,
		Title:         p.Title,
		ExcerptHTML:   p.Excerpt,
		ContentHTML:   p.Content,
		CanonicalLink: p.Link,
		PublishedAt:   normalizeTimestamp(p.DateGmt),
		ModifiedAt:    normalizeTimestamp(p.ModifiedGmt),
	}
	if p.Author != nil && p.Author.Node != nil {
		article.AuthorName = p.Author.Node.Name
	}
	if p.FeaturedImage != nil && p.FeaturedImage.Node != nil && p.FeaturedImage.Node.SourceURL != "" {
		article.FeaturedImage = &models.Image{
			URL:     p.FeaturedImage.Node.SourceURL,
			AltText: p.FeaturedImage.Node.AltText,
		}
	}
	return article
}

// GraphQLOption configura o GraphQLSource
type GraphQLOption func(*GraphQLSource)

// WithHTTPClient define um cliente HTTP customizado
func WithHTTPClient(hc *http.Client) GraphQLOption {
	return func(s *GraphQLSource) {
		s.http = hc
	}
}

// WithToken envia o token como Bearer em cada consulta
func WithToken(token string) GraphQLOption {
	return func(s *GraphQLSource) {
		s.token = token
	}
}

// WithTimeout define o tempo máximo de cada consulta
func WithTimeout(timeout time.Duration) GraphQLOption {
	return func(s *GraphQLSource) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// GraphQLSource busca posts em um endpoint WPGraphQL
type GraphQLSource struct {
	endpoint  string
	token     string
	timeout   time.Duration
	http      *http.Client
	validator *validator.Validate
}

// NewGraphQLSource cria uma fonte de conteúdo para o endpoint informado
func NewGraphQLSource(endpoint string, opts ...GraphQLOption) *GraphQLSource {
	s := &GraphQLSource{
		endpoint: endpoint,
		timeout:  DefaultTimeout,
		http: &http.Client{
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		validator: newValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchByPath busca o post cujo URI é "/{path}/"
func (s *GraphQLSource) FetchByPath(ctx context.Context, path string) (*models.Article, error) {
	if path == "" {
		return nil, &FetchError{Source: SourceGraphQL, Err: ErrEmptyPath}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var result graphQLResponse[postData]
	status, err := query(ctx, s, path, graphQLRequest{
		Query:     postByURIQuery,
		Variables: map[string]any{"uri": "/" + path + "/"},
	}, &result)
	if err != nil {
		return nil, err
	}

	if result.Data.Post == nil {
		return nil, nil
	}

	if err := s.validator.Struct(result.Data.Post); err != nil {
		return nil, &FetchError{Source: SourceGraphQL, Path: path, Status: status, Err: fmt.Errorf("%w: %v", ErrSchemaMismatch, err)}
	}

	return result.Data.Post.toArticle(), nil
}

// Ping envia uma consulta mínima e exige status 200 sem erros GraphQL
func (s *GraphQLSource) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var result graphQLResponse[json.RawMessage]
	_, err := query(ctx, s, "", graphQLRequest{Query: "{ __typename }"}, &result)
	return err
}

// query executa uma consulta GraphQL e decodifica a resposta em out. Falhas de
// transporte, status diferente de 200, JSON inválido, array errors e data
// ausente viram *FetchError.
func query[T any](ctx context.Context, s *GraphQLSource, path string, gqlReq graphQLRequest, out *graphQLResponse[T]) (int, error) {
	payload, err := json.Marshal(gqlReq)
	if err != nil {
		return 0, &FetchError{Source: SourceGraphQL, Path: path, Err: eris.Wrap(err, "graphql: encode request")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, &FetchError{Source: SourceGraphQL, Path: path, Err: eris.Wrap(err, "graphql: create request")}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return 0, newFetchError(ctx, SourceGraphQL, path, 0, eris.Wrap(err, "graphql: request failed"))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, newFetchError(ctx, SourceGraphQL, path, resp.StatusCode, eris.Wrap(err, "graphql: read response body"))
	}

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, &FetchError{
			Source: SourceGraphQL,
			Path:   path,
			Status: resp.StatusCode,
			Err:    eris.Errorf("graphql: unexpected status %d: %s", resp.StatusCode, truncate(body, 256)),
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return resp.StatusCode, &FetchError{Source: SourceGraphQL, Path: path, Status: resp.StatusCode, Err: fmt.Errorf("%w: %v", ErrMalformedResponse, err)}
	}

	if len(out.Errors) > 0 {
		return resp.StatusCode, &FetchError{Source: SourceGraphQL, Path: path, Status: resp.StatusCode, Err: fmt.Errorf("%w: %s", ErrUpstreamQuery, out.Errors[0].Message)}
	}

	if out.Data == nil {
		return resp.StatusCode, &FetchError{Source: SourceGraphQL, Path: path, Status: resp.StatusCode, Err: fmt.Errorf("%w: campo data ausente", ErrMalformedResponse)}
	}

	return resp.StatusCode, nil
}

func truncate(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + "..."
}
