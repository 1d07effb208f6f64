package wiki_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prereq-orchestrator/internal/adapter/wiki"
	"prereq-orchestrator/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestClient(serverURL string, batchSize int) *wiki.Client {
	return wiki.NewClient(serverURL, &http.Client{}, 1000, batchSize, testLogger())
}

func TestFetchPaginated_MergesLinkListsAcrossPages(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if n == 1 {
			// First page: partial link list plus a continuation token.
			_, _ = w.Write([]byte(`{
				"continue": {"plcontinue": "7039|0|Feedback", "continue": "||"},
				"query": {"pages": [{"title": "Control theory", "links": [{"ns":0,"title":"Algebra"},{"ns":0,"title":"Calculus"}]}]}
			}`))
			return
		}
		_, _ = w.Write([]byte(`{
			"batchcomplete": true,
			"query": {"pages": [{"title": "Control theory", "links": [{"ns":0,"title":"Feedback"}]}]}
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 50)
	resp, status := client.FetchPaginated(context.Background(), wiki.Params{"action": "query"}, 5)

	require.Equal(t, domain.StatusOkay, status)
	require.Len(t, resp.Query.Pages, 1)

	page := resp.Query.Pages[0]
	assert.Equal(t, "Control theory", page.Title)

	var titles []string
	for _, l := range page.Links {
		titles = append(titles, l.Title)
	}
	assert.ElementsMatch(t, []string{"Algebra", "Calculus", "Feedback"}, titles)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchPaginated_EchoesContinueParams(t *testing.T) {
	var secondQuery string
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if n == 1 {
			_, _ = w.Write([]byte(`{
				"continue": {"plcontinue": "token-1", "continue": "||"},
				"query": {"pages": []}
			}`))
			return
		}
		secondQuery = r.URL.Query().Get("plcontinue")
		_, _ = w.Write([]byte(`{"batchcomplete": true, "query": {"pages": []}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 50)
	_, status := client.FetchPaginated(context.Background(), wiki.Params{"action": "query"}, 5)

	require.Equal(t, domain.StatusOkay, status)
	assert.Equal(t, "token-1", secondQuery)
}

func TestFetchPaginated_ErrorPayloadFailsWholeCall(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if n == 1 {
			_, _ = w.Write([]byte(`{
				"continue": {"plcontinue": "x", "continue": "||"},
				"query": {"pages": [{"title": "Partial", "links": [{"ns":0,"title":"Kept?"}]}]}
			}`))
			return
		}
		_, _ = w.Write([]byte(`{"error": {"code": "ratelimited", "info": "Too many requests"}, "query": {"pages": []}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 50)
	resp, status := client.FetchPaginated(context.Background(), wiki.Params{"action": "query"}, 5)

	// Previously merged pages are discarded: the call fails as a whole.
	assert.Equal(t, domain.StatusUpstreamFailure, status)
	require.NotNil(t, resp)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Too many requests", resp.Error.Info)
	assert.Empty(t, resp.Query.Pages)
}

func TestFetchPaginated_TransportErrorIsUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 50)
	resp, status := client.FetchPaginated(context.Background(), wiki.Params{"action": "query"}, 5)

	assert.Equal(t, domain.StatusUpstreamFailure, status)
	assert.Nil(t, resp)
}

func TestFetchPaginated_BudgetExhaustionIsIncomplete(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		// Always more pages, never batchcomplete.
		_, _ = w.Write([]byte(`{
			"continue": {"plcontinue": "next", "continue": "||"},
			"query": {"pages": [{"title": "Endless"}]}
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 50)
	resp, status := client.FetchPaginated(context.Background(), wiki.Params{"action": "query"}, 3)

	assert.Equal(t, domain.StatusIncomplete, status)
	require.NotNil(t, resp)
	// Initial request plus the continuation budget.
	assert.Equal(t, int32(4), calls.Load())
}

func TestFetchPaginated_ScalarFieldsTakeLastValue(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if n == 1 {
			_, _ = w.Write([]byte(`{
				"continue": {"continue": "||"},
				"query": {"pages": [{"title": "Algebra", "links": [{"ns":0,"title":"Numbers"}]}]}
			}`))
			return
		}
		_, _ = w.Write([]byte(`{
			"batchcomplete": true,
			"query": {"pages": [{"title": "Algebra", "extract": "Algebra is the study of symbols."}]}
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 50)
	resp, status := client.FetchPaginated(context.Background(), wiki.Params{"action": "query"}, 5)

	require.Equal(t, domain.StatusOkay, status)
	require.Len(t, resp.Query.Pages, 1)
	page := resp.Query.Pages[0]
	assert.Equal(t, "Algebra is the study of symbols.", page.Extract)
	require.Len(t, page.Links, 1)
	assert.Equal(t, "Numbers", page.Links[0].Title)
}

func TestFetchPaginated_DisjointTitlesKeepAllPages(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if n == 1 {
			_, _ = w.Write([]byte(`{
				"continue": {"continue": "||"},
				"query": {"pages": [{"title": "Algebra"}]}
			}`))
			return
		}
		_, _ = w.Write([]byte(`{
			"batchcomplete": true,
			"query": {"pages": [{"title": "Geometry"}]}
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 50)
	resp, status := client.FetchPaginated(context.Background(), wiki.Params{"action": "query"}, 5)

	require.Equal(t, domain.StatusOkay, status)
	var titles []string
	for _, p := range resp.Query.Pages {
		titles = append(titles, p.Title)
	}
	assert.ElementsMatch(t, []string{"Algebra", "Geometry"}, titles)
}

func decodeTitles(t *testing.T, r *http.Request) []string {
	t.Helper()
	raw := r.URL.Query().Get("titles")
	if raw == "" {
		return nil
	}
	var out []string
	for _, title := range splitPipe(raw) {
		out = append(out, title)
	}
	return out
}

func splitPipe(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '|' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}

func writeJSON(t *testing.T, w http.ResponseWriter, v interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}
