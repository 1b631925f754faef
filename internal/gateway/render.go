package gateway

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"net/http"

	"github.com/healthbuzzonline/post-gateway/internal/contentsource"
	"github.com/healthbuzzonline/post-gateway/internal/models"
	"github.com/healthbuzzonline/post-gateway/internal/utils"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	// noStore é o mesmo cabeçalho que páginas renderizadas por requisição recebiam
	noStore = "private, no-cache, no-store, max-age=0, must-revalidate"
)

// Response é a resposta pronta para ser escrita na fronteira HTTP
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// pageData alimenta o template do documento
type pageData struct {
	Enriched       bool
	Title          string
	Description    string
	URL            string
	SiteName       string
	PublishedAt    string
	ModifiedAt     string
	Author         string
	ImageURL       string
	ImageAlt       string
	ClientRedirect string
	Content        template.HTML
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<meta property="og:title" content="{{.Title}}">
<meta property="og:description" content="{{.Description}}">
<meta property="og:url" content="{{.URL}}">
{{- if .Enriched}}
<meta property="og:type" content="article">
<meta property="og:locale" content="en_US">
<meta property="og:site_name" content="{{.SiteName}}">
<meta property="article:published_time" content="{{.PublishedAt}}">
<meta property="article:modified_time" content="{{.ModifiedAt}}">
{{- if .Author}}
<meta property="article:author" content="{{.Author}}">
{{- end}}
{{- end}}
{{- if .ImageURL}}
<meta property="og:image" content="{{.ImageURL}}">
<meta property="og:image:alt" content="{{.ImageAlt}}">
{{- end}}
{{- if .Enriched}}
<link rel="canonical" href="{{.URL}}">
{{- end}}
{{- if .ClientRedirect}}
<script>window.location.replace({{.ClientRedirect}});</script>
{{- end}}
</head>
<body>
<div class="post-container">
<h1>{{.Title}}</h1>
{{- if .ImageURL}}
<img src="{{.ImageURL}}" alt="{{.ImageAlt}}">
{{- end}}
<article>{{.Content}}</article>
</div>
</body>
</html>
`))

// Renderer transforma Actions em Responses
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer cria o renderer com o template padrão
func NewRenderer() *Renderer {
	return &Renderer{tmpl: pageTemplate}
}

// Render produz a resposta de uma Action
func (r *Renderer) Render(action models.Action, rc models.RequestContext) (*Response, error) {
	switch action.Kind {
	case models.ActionRedirect:
		return &Response{
			Status: http.StatusTemporaryRedirect,
			Header: http.Header{
				"Location":      []string{action.Target},
				"Cache-Control": []string{"no-store"},
			},
		}, nil

	case models.ActionNotFound:
		return emptyResponse(http.StatusNotFound), nil

	case models.ActionRenderEnriched:
		if action.Article == nil {
			return nil, fmt.Errorf("%w: %s sem artigo", ErrUnknownAction, action.Kind)
		}
		return r.page(enrichedData(action.Article, rc, action.ClientRedirect))

	case models.ActionRenderPlain:
		if action.Article == nil {
			return nil, fmt.Errorf("%w: %s sem artigo", ErrUnknownAction, action.Kind)
		}
		return r.page(plainData(action.Article, action.ClientRedirect))

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action.Kind)
	}
}

// RenderFailure produz a resposta de falha do upstream: 504 em timeout, 502 no resto
func (r *Renderer) RenderFailure(fe *contentsource.FetchError) *Response {
	if fe != nil && fe.Timeout {
		return emptyResponse(http.StatusGatewayTimeout)
	}
	return emptyResponse(http.StatusBadGateway)
}

func (r *Renderer) page(data pageData) (*Response, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("erro ao renderizar página: %w", err)
	}

	return &Response{
		Status: http.StatusOK,
		Header: http.Header{
			"Content-Type":  []string{contentTypeHTML},
			"Cache-Control": []string{noStore},
			"Vary":          []string{"User-Agent, Referer"},
		},
		Body: buf.Bytes(),
	}, nil
}

func emptyResponse(status int) *Response {
	return &Response{
		Status: status,
		Header: http.Header{"Cache-Control": []string{"no-store"}},
	}
}

func enrichedData(article *models.Article, rc models.RequestContext, clientRedirect string) pageData {
	data := baseData(article, clientRedirect)
	data.Enriched = true
	data.URL = utils.CanonicalURL(rc.Host, rc.Path)
	data.SiteName = utils.SiteName(rc.Host)
	data.PublishedAt = article.PublishedAt
	data.ModifiedAt = article.ModifiedAt
	data.Author = article.AuthorName
	return data
}

func plainData(article *models.Article, clientRedirect string) pageData {
	data := baseData(article, clientRedirect)
	data.URL = article.CanonicalLink
	return data
}

func baseData(article *models.Article, clientRedirect string) pageData {
	data := pageData{
		Title:          article.Title,
		Description:    html.UnescapeString(utils.RemoveTags(article.ExcerptHTML)),
		ClientRedirect: clientRedirect,
		// Corpo confiável vindo do CMS próprio, renderizado sem escape
		Content: template.HTML(article.ContentHTML),
	}
	if article.HasImage() {
		data.ImageURL = article.FeaturedImage.URL
		data.ImageAlt = article.ImageAlt()
	}
	return data
}
