package wiki_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prereq-orchestrator/internal/domain"
)

type pageJSON map[string]interface{}

func queryResponse(pages ...pageJSON) map[string]interface{} {
	return map[string]interface{}{
		"batchcomplete": true,
		"query":         map[string]interface{}{"pages": pages},
	}
}

func TestGetTopicInfo_EmptyTitlesShortCircuits(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(t, w, queryResponse())
	}))
	defer server.Close()

	client := newTestClient(server.URL, 50)
	result := client.GetTopicInfo(context.Background(), nil, []domain.Property{domain.PropertyLinks}, nil, 5)

	assert.Empty(t, result)
	assert.NotNil(t, result)
	assert.Equal(t, int32(0), calls.Load(), "no network call for empty input")
}

func TestGetTopicInfo_PartitionsIntoBatches(t *testing.T) {
	var calls atomic.Int32
	var mu sync.Mutex
	var batchSizes []int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		titles := decodeTitles(t, r)
		mu.Lock()
		batchSizes = append(batchSizes, len(titles))
		mu.Unlock()

		var pages []pageJSON
		for _, title := range titles {
			pages = append(pages, pageJSON{"title": title, "extract": "about " + title})
		}
		writeJSON(t, w, queryResponse(pages...))
	}))
	defer server.Close()

	titles := make([]string, 120)
	for i := range titles {
		titles[i] = fmt.Sprintf("Topic %03d", i)
	}

	client := newTestClient(server.URL, 50)
	result := client.GetTopicInfo(context.Background(), titles, []domain.Property{domain.PropertyDescription}, nil, 5)

	// ceil(120/50) concurrent sub-fetches, merged back to the full set.
	assert.Equal(t, int32(3), calls.Load())
	assert.ElementsMatch(t, []int{50, 50, 20}, batchSizes)
	assert.Len(t, result, 120)
	for _, title := range titles {
		meta, ok := result[title]
		require.True(t, ok, "missing %s", title)
		assert.Equal(t, "about "+title, meta.Description)
	}
}

func TestGetTopicInfo_BatchFailureIsLocal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		titles := decodeTitles(t, r)
		for _, title := range titles {
			if title == "Poison" {
				writeJSON(t, w, map[string]interface{}{
					"error": map[string]string{"code": "internal", "info": "boom"},
				})
				return
			}
		}
		var pages []pageJSON
		for _, title := range titles {
			pages = append(pages, pageJSON{"title": title, "extract": "ok"})
		}
		writeJSON(t, w, queryResponse(pages...))
	}))
	defer server.Close()

	// Batch size 2: ["A", "Poison"] and ["B", "C"].
	client := newTestClient(server.URL, 2)
	result := client.GetTopicInfo(context.Background(),
		[]string{"A", "Poison", "B", "C"},
		[]domain.Property{domain.PropertyDescription}, nil, 5)

	assert.NotContains(t, result, "A", "failed batch contributes nothing")
	assert.NotContains(t, result, "Poison")
	assert.Contains(t, result, "B", "sibling batch unaffected")
	assert.Contains(t, result, "C")
}

func TestGetTopicInfo_PropertyExtraction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "600", r.URL.Query().Get("pithumbsize"))
		assert.Equal(t, "1", r.URL.Query().Get("exintro"))
		writeJSON(t, w, queryResponse(pageJSON{
			"title":   "Control theory",
			"extract": "Control theory deals with dynamical systems.",
			"links": []pageJSON{
				{"ns": 0, "title": "Mathematics"},
				{"ns": 0, "title": "Feedback"},
			},
			"pageviews": map[string]interface{}{
				"2023-01-01": 120,
				"2023-01-02": nil,
				"2023-01-03": 80,
			},
			"thumbnail": pageJSON{"source": "https://img.example/ct.png", "width": 600, "height": 400},
		}))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 50)
	result := client.GetTopicInfo(context.Background(),
		[]string{"Control theory"},
		[]domain.Property{domain.PropertyLinks, domain.PropertyDescription, domain.PropertyPageviews, domain.PropertyImage},
		nil, 5)

	meta, ok := result["Control theory"]
	require.True(t, ok)
	assert.Equal(t, []string{"Mathematics", "Feedback"}, meta.Links)
	assert.Equal(t, "Control theory deals with dynamical systems.", meta.Description)
	assert.Equal(t, 200, meta.Pageviews, "null buckets are skipped, the rest summed")
	assert.Equal(t, "https://img.example/ct.png", meta.Image)
}

func TestGetTopicInfo_UnrequestedPropertiesStayZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, queryResponse(pageJSON{
			"title":   "Algebra",
			"extract": "should be ignored",
			"links":   []pageJSON{{"ns": 0, "title": "Numbers"}},
		}))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 50)
	result := client.GetTopicInfo(context.Background(),
		[]string{"Algebra"},
		[]domain.Property{domain.PropertyLinks}, nil, 5)

	meta := result["Algebra"]
	assert.Equal(t, []string{"Numbers"}, meta.Links)
	assert.Empty(t, meta.Description)
	assert.Zero(t, meta.Pageviews)
}

func TestGetTopicInfo_ExtraParamsForwarded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "300", r.URL.Query().Get("pllimit"))
		writeJSON(t, w, queryResponse(pageJSON{"title": "Algebra"}))
	}))
	defer server.Close()

	client := newTestClient(server.URL, 50)
	client.GetTopicInfo(context.Background(),
		[]string{"Algebra"},
		[]domain.Property{domain.PropertyLinks},
		map[string]string{"pllimit": "300"}, 5)
}
