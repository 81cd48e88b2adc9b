package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagesnap/internal/observability"
)

func scrapeMetrics(t *testing.T, metrics *observability.GraphQLMetrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestGraphQLMetricsMiddleware_RecordsQueryOutcome(t *testing.T) {
	metrics := observability.NewGraphQLMetrics()
	handler := GraphQLMetricsMiddleware(metrics)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"data":{"page":null}}`))
	}))

	body := strings.NewReader(`{"query": "query { page(id: \"x\") { __typename } }"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1", body)
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	scraped := scrapeMetrics(t, metrics)
	assert.Contains(t, scraped, `graphql_requests_total{operation="query",status="ok"} 1`)
}

func TestGraphQLMetricsMiddleware_DetectsGraphQLErrors(t *testing.T) {
	metrics := observability.NewGraphQLMetrics()
	handler := GraphQLMetricsMiddleware(metrics)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"data":null,"errors":[{"message":"boom"}]}`))
	}))

	body := strings.NewReader(`{"query": "mutation { deletePage(id: \"x\") { status } }"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1", body)
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	scraped := scrapeMetrics(t, metrics)
	assert.Contains(t, scraped, `graphql_requests_total{operation="mutation",status="error"} 1`)
}

func TestGraphQLMetricsMiddleware_SkipsNonPost(t *testing.T) {
	metrics := observability.NewGraphQLMetrics()
	called := false
	handler := GraphQLMetricsMiddleware(metrics)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1", nil))

	assert.True(t, called)
	assert.NotContains(t, scrapeMetrics(t, metrics), `graphql_requests_total{`)
}

func TestGraphQLMetricsMiddleware_BodyRestoredForHandler(t *testing.T) {
	metrics := observability.NewGraphQLMetrics()
	var seen string
	handler := GraphQLMetricsMiddleware(metrics)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		seen = string(payload)
		w.WriteHeader(http.StatusOK)
	}))

	raw := `{"query": "{ pages { __typename } }"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1", strings.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, raw, seen)
}

func TestExtractOperationType(t *testing.T) {
	assert.Equal(t, "query", extractOperationType(`{ pages { __typename } }`, ""))
	assert.Equal(t, "mutation", extractOperationType(`mutation M { deletePage(id: "x") { status } }`, "M"))
	assert.Equal(t, "", extractOperationType(`mutation M { deletePage { status } }`, "Other"))
	assert.Equal(t, "", extractOperationType(`not graphql`, ""))
	assert.Equal(t, "", extractOperationType("", ""))
}

func TestResponseHasGraphQLErrors(t *testing.T) {
	assert.False(t, responseHasGraphQLErrors(nil))
	assert.False(t, responseHasGraphQLErrors([]byte(`{"data":{}}`)))
	assert.False(t, responseHasGraphQLErrors([]byte(`{"data":null,"errors":null}`)))
	assert.False(t, responseHasGraphQLErrors([]byte(`{"errors":[]}`)))
	assert.True(t, responseHasGraphQLErrors([]byte(`{"errors":[{"message":"x"}]}`)))
}
