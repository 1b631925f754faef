package gateway

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/healthbuzzonline/post-gateway/internal/contentsource"
	"github.com/healthbuzzonline/post-gateway/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	crawlerUA = "facebookexternalhit/1.1 (+http://www.facebook.com/externalhit_uatext.php)"
	safariUA  = "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_0) AppleWebKit/605.1.15 Version/17.0 Safari/605.1.15"
)

// stubSource conta chamadas e devolve o resultado configurado
type stubSource struct {
	calls   atomic.Int32
	article *models.Article
	err     error
	block   bool
}

func (s *stubSource) FetchByPath(ctx context.Context, path string) (*models.Article, error) {
	s.calls.Add(1)
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.article, s.err
}

func newTestEngine(t *testing.T, policyName string, source contentsource.Source, opts ...Option) *Engine {
	t.Helper()
	policy, err := NewPolicy(policyName, "healthbuzzonline.com")
	require.NoError(t, err)
	return NewEngine(NewClassifier(nil, nil), policy, source, opts...)
}

func requestWith(path, userAgent, referrer, tracking string) models.RequestContext {
	return models.RequestContext{
		Path:          path,
		Host:          "share.healthbuzz.net",
		UserAgent:     userAgent,
		Referrer:      referrer,
		TrackingParam: tracking,
	}
}

func TestEngine_CrawlerReceivesEnrichedPage(t *testing.T) {
	source := &stubSource{article: testArticle()}
	engine := newTestEngine(t, PolicyPrefetchRedirect, source)

	result, err := engine.Serve(context.Background(), requestWith("healthy-living/tips", crawlerUA, "", ""))
	require.NoError(t, err)

	assert.Equal(t, models.ClassAutomatedCrawler, result.Class)
	assert.Equal(t, string(models.ActionRenderEnriched), result.Outcome)
	assert.True(t, result.Fetched)
	assert.Equal(t, int32(1), source.calls.Load())
	assert.Equal(t, http.StatusOK, result.Response.Status)

	title, ok := metaProperty(parseBody(t, result.Response.Body), "og:title")
	assert.True(t, ok)
	assert.Equal(t, "Tips", title)
}

func TestEngine_PrefetchRedirectSkipsFetch(t *testing.T) {
	tests := []struct {
		name      string
		rc        models.RequestContext
		wantClass models.TrafficClass
	}{
		{"navegador direto", requestWith("healthy-living/tips", safariUA, "", ""), models.ClassDirect},
		{"referrer social", requestWith("healthy-living/tips", safariUA, "https://www.facebook.com/", ""), models.ClassSocialReferral},
		{"parâmetro de rastreio", requestWith("healthy-living/tips", safariUA, "", "IwAR0abc"), models.ClassSocialReferral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &stubSource{article: testArticle()}
			engine := newTestEngine(t, PolicyPrefetchRedirect, source)

			result, err := engine.Serve(context.Background(), tt.rc)
			require.NoError(t, err)

			assert.Equal(t, tt.wantClass, result.Class)
			assert.False(t, result.Fetched)
			assert.Equal(t, int32(0), source.calls.Load())
			assert.Equal(t, http.StatusTemporaryRedirect, result.Response.Status)
			assert.Equal(t, "https://healthbuzzonline.com/healthy-living/tips", result.Response.Header.Get("Location"))
		})
	}
}

func TestEngine_NotFoundRegardlessOfClass(t *testing.T) {
	requests := []models.RequestContext{
		requestWith("missing-article", crawlerUA, "", ""),
		requestWith("missing-article", safariUA, "https://l.facebook.com/", ""),
		requestWith("missing-article", safariUA, "", ""),
	}

	for _, policyName := range []string{PolicyClientRedirect, PolicyClientRedirectWWW} {
		for _, rc := range requests {
			engine := newTestEngine(t, policyName, &stubSource{})

			result, err := engine.Serve(context.Background(), rc)
			require.NoError(t, err)
			assert.Equal(t, http.StatusNotFound, result.Response.Status, "%s/%s", policyName, result.Class)
			assert.Equal(t, string(models.ActionNotFound), result.Outcome)
		}
	}

	engine := newTestEngine(t, PolicyPrefetchRedirect, &stubSource{})
	result, err := engine.Serve(context.Background(), requests[0])
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, result.Response.Status)
}

func TestEngine_ClientRedirectRendersForEveryClass(t *testing.T) {
	source := &stubSource{article: testArticle()}
	engine := newTestEngine(t, PolicyClientRedirect, source)

	social, err := engine.Serve(context.Background(), requestWith("healthy-living/tips", safariUA, "https://m.facebook.com/", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, social.Response.Status)
	assert.Contains(t, parseBody(t, social.Response.Body).Find("head script").Text(), "window.location.replace(")

	direct, err := engine.Serve(context.Background(), requestWith("healthy-living/tips", safariUA, "", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, direct.Response.Status)
	assert.Equal(t, 0, parseBody(t, direct.Response.Body).Find("script").Length())

	assert.Equal(t, int32(2), source.calls.Load())
}

func TestEngine_FetchErrorIsNotNotFound(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			"status de autenticação",
			&contentsource.FetchError{Source: "graphql", Status: http.StatusUnauthorized, Err: errors.New("unauthorized")},
			http.StatusBadGateway,
		},
		{
			"erro simples",
			errors.New("connection reset by peer"),
			http.StatusBadGateway,
		},
		{
			"timeout informado pela fonte",
			&contentsource.FetchError{Source: "graphql", Timeout: true, Err: context.DeadlineExceeded},
			http.StatusGatewayTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(t, PolicyPrefetchRedirect, &stubSource{err: tt.err})

			result, err := engine.Serve(context.Background(), requestWith("healthy-living/tips", crawlerUA, "", ""))
			require.NoError(t, err)

			assert.Equal(t, OutcomeFetchError, result.Outcome)
			assert.Equal(t, tt.wantStatus, result.Response.Status)
			assert.Empty(t, result.Response.Body)
		})
	}
}

func TestEngine_FetchTimeout(t *testing.T) {
	source := &stubSource{block: true}
	engine := newTestEngine(t, PolicyPrefetchRedirect, source, WithFetchTimeout(50*time.Millisecond))

	start := time.Now()
	result, err := engine.Serve(context.Background(), requestWith("healthy-living/tips", crawlerUA, "", ""))
	require.NoError(t, err)

	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, OutcomeFetchError, result.Outcome)
	assert.Equal(t, http.StatusGatewayTimeout, result.Response.Status)
	assert.NotEqual(t, http.StatusNotFound, result.Response.Status)
}

func TestEngine_PlainPageWithoutHost(t *testing.T) {
	engine := newTestEngine(t, PolicyPrefetchRedirect, &stubSource{article: testArticle()})

	rc := requestWith("healthy-living/tips", crawlerUA, "", "")
	rc.Host = ""

	result, err := engine.Serve(context.Background(), rc)
	require.NoError(t, err)

	assert.Equal(t, string(models.ActionRenderPlain), result.Outcome)
	_, ok := metaProperty(parseBody(t, result.Response.Body), "og:locale")
	assert.False(t, ok)
}

func TestEngine_PolicyName(t *testing.T) {
	engine := newTestEngine(t, PolicyClientRedirectWWW, &stubSource{}, WithSourceName("graphql"), WithLogger(nil))
	assert.Equal(t, PolicyClientRedirectWWW, engine.PolicyName())
	assert.Equal(t, "graphql", engine.sourceName)
	assert.NotNil(t, engine.logger)
}
