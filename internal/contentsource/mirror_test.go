package contentsource

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/healthbuzzonline/post-gateway/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/typesense/typesense-go/v3/typesense/api"
)

const postsPageJSON = `{
  "data": {
    "posts": {
      "pageInfo": {"hasNextPage": true, "endCursor": "YXJyYXljb25uZWN0aW9uOjEy"},
      "nodes": [
        {
          "uri": "/healthy-living/tips/",
          "id": "cG9zdDoxMjM=",
          "excerpt": "<p>Ten small habits</p>",
          "title": "Tips",
          "link": "https://healthbuzzonline.com/healthy-living/tips/",
          "dateGmt": "2024-03-01T10:00:00",
          "modifiedGmt": "2024-03-02T11:30:00",
          "content": "<p>Drink water.</p>",
          "author": {"node": {"name": "Dana Reyes"}},
          "featuredImage": null
        },
        {
          "uri": "/broken/",
          "id": "cG9zdDoxMjQ=",
          "title": "",
          "link": "https://healthbuzzonline.com/broken/"
        },
        {
          "uri": "/",
          "id": "cG9zdDoxMjU=",
          "title": "Home",
          "link": "https://healthbuzzonline.com/"
        }
      ]
    }
  }
}`

func TestGraphQLListArticles(t *testing.T) {
	t.Parallel()

	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		var req graphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Query, "posts(first: $first, after: $after")
		assert.EqualValues(t, 50, req.Variables["first"])
		assert.Equal(t, "cursor-1", req.Variables["after"])

		w.Write([]byte(postsPageJSON))
	})

	page, err := NewGraphQLSource(srv.URL).ListArticles(context.Background(), "cursor-1", 50)
	require.NoError(t, err)

	assert.True(t, page.HasNext)
	assert.Equal(t, "YXJyYXljb25uZWN0aW9uOjEy", page.EndCursor)
	assert.Equal(t, 2, page.Invalid)
	require.Len(t, page.Entries, 1)
	assert.Equal(t, "healthy-living/tips", page.Entries[0].Path)
	assert.Equal(t, "Tips", page.Entries[0].Article.Title)
	assert.Equal(t, "2024-03-01T10:00:00Z", page.Entries[0].Article.PublishedAt)
}

func TestGraphQLListArticles_FirstPageAndLimits(t *testing.T) {
	t.Parallel()

	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		var req graphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.EqualValues(t, MaxPageSize, req.Variables["first"])
		_, hasAfter := req.Variables["after"]
		assert.False(t, hasAfter)

		w.Write([]byte(`{"data":{"posts":{"pageInfo":{"hasNextPage":false,"endCursor":""},"nodes":[]}}}`))
	})

	page, err := NewGraphQLSource(srv.URL).ListArticles(context.Background(), "", 1000)
	require.NoError(t, err)
	assert.False(t, page.HasNext)
	assert.Empty(t, page.Entries)
}

func TestGraphQLListArticles_MissingPosts(t *testing.T) {
	t.Parallel()

	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"posts":null}}`))
	})

	_, err := NewGraphQLSource(srv.URL).ListArticles(context.Background(), "", 10)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestNewTypesenseDocument(t *testing.T) {
	entry := Entry{
		Path: "healthy-living/tips",
		Article: &models.Article{
			ID:            "cG9z/dDoxMjM=",
			Title:         "Tips",
			CanonicalLink: "https://healthbuzzonline.com/healthy-living/tips/",
			PublishedAt:   "2024-03-01T10:00:00Z",
			FeaturedImage: &models.Image{URL: "https://cdn.example.com/tips.jpg", AltText: "Water"},
		},
	}

	doc, publishedAt := newTypesenseDocument(entry)

	assert.Equal(t, "cG9z_dDoxMjM", doc.ID)
	assert.Equal(t, "healthy-living/tips", doc.Path)
	assert.Equal(t, "https://cdn.example.com/tips.jpg", doc.ImageURL)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC).Unix(), publishedAt)

	// ida e volta preserva o artigo
	back := doc.toArticle()
	assert.Equal(t, entry.Article.Title, back.Title)
	assert.Equal(t, entry.Article.FeaturedImage, back.FeaturedImage)
}

func TestPublishedUnix(t *testing.T) {
	assert.Equal(t, int64(0), publishedUnix(""))
	assert.Equal(t, int64(0), publishedUnix("ontem"))
	assert.Equal(t, int64(1709287200), publishedUnix("2024-03-01T10:00:00"))
}

// fakeTypesense simula os endpoints usados pela sincronização da collection
type fakeTypesense struct {
	collectionExists bool
	created          *api.CollectionSchema
	upserted         []map[string]any
}

func (f *fakeTypesense) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /collections/posts", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !f.collectionExists {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"Not Found"}`))
			return
		}
		w.Write([]byte(`{"name":"posts","fields":[],"num_documents":0,"created_at":1}`))
	})
	mux.HandleFunc("POST /collections", func(w http.ResponseWriter, r *http.Request) {
		var schema api.CollectionSchema
		require.NoError(t, json.NewDecoder(r.Body).Decode(&schema))
		f.created = &schema
		f.collectionExists = true

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"name":"posts","fields":[],"num_documents":0,"created_at":1}`))
	})
	mux.HandleFunc("POST /collections/posts/documents", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "upsert", r.URL.Query().Get("action"))

		var doc map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&doc))
		f.upserted = append(f.upserted, doc)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(doc)
	})
	return mux
}

func newFakeTypesenseSource(t *testing.T, fake *fakeTypesense) *TypesenseSource {
	t.Helper()
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)
	return NewTypesenseSource(NewTypesenseClient(srv.URL, "test-key", time.Second), "posts", time.Second)
}

func TestTypesenseUpsert(t *testing.T) {
	fake := &fakeTypesense{collectionExists: true}
	source := newFakeTypesenseSource(t, fake)

	err := source.Upsert(context.Background(), Entry{
		Path: "healthy-living/tips",
		Article: &models.Article{
			ID:            "cG9zdDoxMjM=",
			Title:         "Tips",
			CanonicalLink: "https://healthbuzzonline.com/healthy-living/tips/",
			PublishedAt:   "2024-03-01T10:00:00Z",
			AuthorName:    "Dana Reyes",
		},
	})
	require.NoError(t, err)

	require.Len(t, fake.upserted, 1)
	doc := fake.upserted[0]
	assert.Equal(t, "healthy-living/tips", doc["path"])
	assert.Equal(t, "Dana Reyes", doc["author_name"])
	assert.EqualValues(t, 1709287200, doc["published_at"])
	_, hasImage := doc["image_url"]
	assert.False(t, hasImage)
}

func TestTypesenseUpsert_RejectsInvalidArticle(t *testing.T) {
	fake := &fakeTypesense{collectionExists: true}
	source := newFakeTypesenseSource(t, fake)

	err := source.Upsert(context.Background(), Entry{Path: "x", Article: &models.Article{ID: "1"}})
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	err = source.Upsert(context.Background(), Entry{})
	assert.ErrorIs(t, err, ErrEmptyPath)

	assert.Empty(t, fake.upserted)
}

func TestTypesenseEnsureCollection(t *testing.T) {
	fake := &fakeTypesense{}
	source := newFakeTypesenseSource(t, fake)

	schema := &api.CollectionSchema{
		Name:   "ignored",
		Fields: []api.Field{{Name: "path", Type: "string"}},
	}

	created, err := source.EnsureCollection(context.Background(), schema)
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, fake.created)
	assert.Equal(t, "posts", fake.created.Name)

	created, err = source.EnsureCollection(context.Background(), schema)
	require.NoError(t, err)
	assert.False(t, created)
}
