package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	_ "github.com/healthbuzzonline/post-gateway/docs"
	"github.com/healthbuzzonline/post-gateway/internal/api/handlers"
	"github.com/healthbuzzonline/post-gateway/internal/config"
	"github.com/healthbuzzonline/post-gateway/internal/gateway"
	"github.com/healthbuzzonline/post-gateway/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	crawlerUA = "facebookexternalhit/1.1 (+http://www.facebook.com/externalhit_uatext.php)"
	browserUA = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 Chrome/126.0 Safari/537.36"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeSource responde por path; paths ausentes viram NotFound
type fakeSource struct {
	calls    atomic.Int32
	articles map[string]*models.Article
	block    bool
}

func (s *fakeSource) FetchByPath(ctx context.Context, path string) (*models.Article, error) {
	s.calls.Add(1)
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.articles[path], nil
}

func newFakeSource() *fakeSource {
	return &fakeSource{articles: map[string]*models.Article{
		"healthy-living/tips": {
			ID:            "cG9zdDoxMjM=",
			Title:         "Tips",
			ExcerptHTML:   "<p>Ten small habits</p>",
			ContentHTML:   "<p>Drink water.</p>",
			CanonicalLink: "https://cms.healthbuzzonline.com/healthy-living/tips/",
			PublishedAt:   "2024-03-01T10:00:00Z",
			ModifiedAt:    "2024-03-02T11:30:00Z",
		},
	}}
}

func newRouter(t *testing.T, source *fakeSource, fetchTimeout time.Duration) *gin.Engine {
	t.Helper()

	cfg := &config.Config{
		CanonicalHost:  "healthbuzzonline.com",
		DispatchPolicy: gateway.PolicyPrefetchRedirect,
		TrackingParams: []string{"fbclid"},
	}

	policy, err := gateway.NewPolicy(cfg.DispatchPolicy, cfg.CanonicalHost)
	require.NoError(t, err)

	engine := gateway.NewEngine(
		gateway.NewClassifier(nil, nil),
		policy,
		source,
		gateway.WithSourceName("fake"),
		gateway.WithFetchTimeout(fetchTimeout),
	)

	check := handlers.HealthCheck{Name: "fake", Critical: true, Check: func(context.Context) error { return nil }}
	return SetupRouter(cfg, engine, nil, check)
}

func get(r http.Handler, target, userAgent string) *httptest.ResponseRecorder {
	return do(r, http.MethodGet, target, userAgent)
}

func do(r http.Handler, method, target, userAgent string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	req.Host = "share.healthbuzz.net"
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCrawlerReceivesEnrichedPage(t *testing.T) {
	source := newFakeSource()
	r := newRouter(t, source, time.Second)

	w := get(r, "/healthy-living/tips", crawlerUA)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Location"))
	assert.Equal(t, "User-Agent, Referer", w.Header().Get("Vary"))
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(w.Body.String()))
	require.NoError(t, err)

	title, _ := doc.Find(`meta[property="og:title"]`).Attr("content")
	assert.Equal(t, "Tips", title)
	url, _ := doc.Find(`meta[property="og:url"]`).Attr("content")
	assert.Equal(t, "https://share.healthbuzz.net/healthy-living/tips", url)
	assert.Equal(t, int32(1), source.calls.Load())
}

func TestBrowserIsRedirectedWithoutFetch(t *testing.T) {
	source := newFakeSource()
	r := newRouter(t, source, time.Second)

	w := get(r, "/healthy-living/tips", browserUA)

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "https://healthbuzzonline.com/healthy-living/tips", w.Header().Get("Location"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Equal(t, int32(0), source.calls.Load())
}

func TestRedirectKeepsEscapedPath(t *testing.T) {
	r := newRouter(t, newFakeSource(), time.Second)

	w := get(r, "/what-is-bmi%3F-explained", browserUA)

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "https://healthbuzzonline.com/what-is-bmi%3F-explained", w.Header().Get("Location"))
}

func TestMissingArticle(t *testing.T) {
	r := newRouter(t, newFakeSource(), time.Second)

	for _, method := range []string{http.MethodGet, http.MethodHead} {
		w := do(r, method, "/missing-article", crawlerUA)

		assert.Equal(t, http.StatusNotFound, w.Code, method)
		assert.Empty(t, w.Body.String(), method)
		assert.Empty(t, w.Header().Get("Content-Type"), method)
	}
}

func TestSourceTimeoutIsServerFailure(t *testing.T) {
	source := newFakeSource()
	source.block = true
	r := newRouter(t, source, 50*time.Millisecond)

	w := get(r, "/healthy-living/tips", crawlerUA)

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.NotEqual(t, http.StatusNotFound, w.Code)
}

func TestReservedRoutes(t *testing.T) {
	source := newFakeSource()
	r := newRouter(t, source, time.Second)

	for _, path := range []string{"/liveness", "/readiness", "/health"} {
		w := get(r, path, crawlerUA)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json", path)
	}

	// gera ao menos uma amostra das métricas do gateway
	get(r, "/healthy-living/tips", browserUA)

	metrics := get(r, "/metrics", "")
	assert.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), "gateway_requests_total")

	swagger := get(r, "/swagger/doc.json", "")
	assert.Equal(t, http.StatusOK, swagger.Code)
	assert.Contains(t, swagger.Body.String(), "Post Gateway API")

	assert.Equal(t, int32(0), source.calls.Load())
}

func TestRequestIDHeader(t *testing.T) {
	r := newRouter(t, newFakeSource(), time.Second)

	generated := get(r, "/liveness", "")
	assert.Len(t, generated.Header().Get("X-Request-ID"), 36)

	req := httptest.NewRequest(http.MethodGet, "/healthy-living/tips", nil)
	req.Header.Set("X-Request-ID", "edge-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "edge-42", w.Header().Get("X-Request-ID"))
}
