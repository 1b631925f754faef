package contentsource

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/healthbuzzonline/post-gateway/internal/models"
	"github.com/healthbuzzonline/post-gateway/internal/utils"
	"github.com/rotisserie/eris"
	"github.com/typesense/typesense-go/v3/typesense/api"
)

// listPostsQuery pagina os posts publicados com os mesmos campos de postByURIQuery
const listPostsQuery = `query ListPosts($first: Int!, $after: String) {
  posts(first: $first, after: $after, where: {status: PUBLISH}) {
    pageInfo {
      hasNextPage
      endCursor
    }
    nodes {
      uri
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
  }
}`

// MaxPageSize é o limite de posts por página aceito pelo WPGraphQL
const MaxPageSize = 100

// Entry é um artigo junto do path pelo qual o gateway o encontra
type Entry struct {
	Path    string
	Article *models.Article
}

// Page é uma página da listagem de posts do CMS
type Page struct {
	Entries   []Entry
	Invalid   int
	EndCursor string
	HasNext   bool
}

type listedPost struct {
	URI string `json:"uri"`
	wpPost
}

type postsData struct {
	Posts *struct {
		PageInfo struct {
			HasNextPage bool   `json:"hasNextPage"`
			EndCursor   string `json:"endCursor"`
		} `json:"pageInfo"`
		Nodes []listedPost `json:"nodes"`
	} `json:"posts"`
}

// ListArticles lista uma página de posts publicados a partir do cursor after.
// Posts fora do schema não interrompem a listagem; são contados em Page.Invalid.
func (s *GraphQLSource) ListArticles(ctx context.Context, after string, first int) (*Page, error) {
	if first <= 0 || first > MaxPageSize {
		first = MaxPageSize
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	variables := map[string]any{"first": first}
	if after != "" {
		variables["after"] = after
	}

	var result graphQLResponse[postsData]
	if _, err := query(ctx, s, "", graphQLRequest{Query: listPostsQuery, Variables: variables}, &result); err != nil {
		return nil, err
	}
	if result.Data.Posts == nil {
		return nil, &FetchError{Source: SourceGraphQL, Err: fmt.Errorf("%w: campo posts ausente", ErrMalformedResponse)}
	}

	page := &Page{
		EndCursor: result.Data.Posts.PageInfo.EndCursor,
		HasNext:   result.Data.Posts.PageInfo.HasNextPage,
	}
	for i := range result.Data.Posts.Nodes {
		node := &result.Data.Posts.Nodes[i]

		path := utils.NormalizePath(node.URI)
		if path == "" || s.validator.Struct(&node.wpPost) != nil {
			page.Invalid++
			continue
		}
		page.Entries = append(page.Entries, Entry{Path: path, Article: node.wpPost.toArticle()})
	}

	return page, nil
}

// newTypesenseDocument converte um artigo no documento da collection espelho
func newTypesenseDocument(entry Entry) (*typesenseDocument, int64) {
	article := entry.Article
	doc := &typesenseDocument{
		ID:          typesenseID(article.ID),
		Path:        entry.Path,
		Title:       article.Title,
		Excerpt:     article.ExcerptHTML,
		Content:     article.ContentHTML,
		Link:        article.CanonicalLink,
		DateGmt:     article.PublishedAt,
		ModifiedGmt: article.ModifiedAt,
		AuthorName:  article.AuthorName,
	}
	if article.HasImage() {
		doc.ImageURL = article.FeaturedImage.URL
		doc.ImageAlt = article.FeaturedImage.AltText
	}
	return doc, publishedUnix(article.PublishedAt)
}

// typesenseID evita caracteres que o Typesense não aceita em ids de documento
func typesenseID(id string) string {
	return strings.NewReplacer("/", "_", "=", "").Replace(id)
}

// publishedUnix converte a data de publicação em segundos para ordenação; datas
// inválidas ficam em zero
func publishedUnix(value string) int64 {
	t, err := time.Parse(time.RFC3339, normalizeTimestamp(value))
	if err != nil {
		return 0
	}
	return t.Unix()
}

// Upsert grava o artigo na collection espelho, substituindo a versão anterior
func (s *TypesenseSource) Upsert(ctx context.Context, entry Entry) error {
	if entry.Path == "" || entry.Article == nil {
		return ErrEmptyPath
	}

	doc, publishedAt := newTypesenseDocument(entry)
	if err := s.validator.Struct(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}

	fields := map[string]any{
		"id":           doc.ID,
		"path":         doc.Path,
		"title":        doc.Title,
		"excerpt":      doc.Excerpt,
		"content":      doc.Content,
		"link":         doc.Link,
		"date_gmt":     doc.DateGmt,
		"modified_gmt": doc.ModifiedGmt,
		"published_at": publishedAt,
	}
	if doc.AuthorName != "" {
		fields["author_name"] = doc.AuthorName
	}
	if doc.ImageURL != "" {
		fields["image_url"] = doc.ImageURL
		fields["image_alt"] = doc.ImageAlt
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.client.Collection(s.collection).Documents().Upsert(ctx, fields, &api.DocumentIndexParameters{}); err != nil {
		return eris.Wrapf(err, "typesense: upsert %s", entry.Path)
	}
	return nil
}

// EnsureCollection cria a collection espelho caso ainda não exista
func (s *TypesenseSource) EnsureCollection(ctx context.Context, schema *api.CollectionSchema) (bool, error) {
	if _, err := s.client.Collection(s.collection).Retrieve(ctx); err == nil {
		return false, nil
	}

	schema.Name = s.collection
	if _, err := s.client.Collections().Create(ctx, schema); err != nil {
		return false, eris.Wrapf(err, "typesense: create collection %s", s.collection)
	}
	return true, nil
}

// DropCollection remove a collection espelho
func (s *TypesenseSource) DropCollection(ctx context.Context) error {
	if _, err := s.client.Collection(s.collection).Delete(ctx); err != nil {
		return eris.Wrapf(err, "typesense: delete collection %s", s.collection)
	}
	return nil
}
