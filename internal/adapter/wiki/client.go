package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"prereq-orchestrator/internal/domain"
)

const defaultBatchSize = 50

// Params carries the query-string parameters of one API request.
type Params map[string]string

// APIError is the error payload the encyclopedia API attaches to a
// failed response. Its presence makes the whole call fatal.
type APIError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

// Thumbnail is the page-image descriptor returned for pageimages.
type Thumbnail struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Link is one outbound link entry of a page.
type Link struct {
	NS    int    `json:"ns"`
	Title string `json:"title"`
}

// Page is one per-title record inside a query response. Which fields
// are populated depends on the requested prop set. Pageviews values can
// be null for days without data, hence the pointer values.
type Page struct {
	Title     string          `json:"title"`
	PageID    int             `json:"pageid"`
	Index     int             `json:"index"`
	Wordcount int             `json:"wordcount"`
	Extract   string          `json:"extract"`
	Links     []Link          `json:"links"`
	Pageviews map[string]*int `json:"pageviews"`
	Thumbnail *Thumbnail      `json:"thumbnail"`
}

// Response is one page of the paginated query protocol, or the merged
// view of several.
type Response struct {
	BatchComplete bool                   `json:"batchcomplete"`
	Continue      map[string]interface{} `json:"continue"`
	Error         *APIError              `json:"error"`
	Query         struct {
		Pages []Page `json:"pages"`
	} `json:"query"`
}

// Client talks to the encyclopedia query API. All requests flow through
// a shared rate limiter; the upstream throttles aggressively.
type Client struct {
	baseURL   string
	http      *http.Client
	limiter   *rate.Limiter
	batchSize int
	logger    *slog.Logger
}

// NewClient constructs a client for the given API endpoint. batchSize
// caps the titles-per-request fan-out; zero selects the API default.
func NewClient(baseURL string, httpClient *http.Client, ratePerSec float64, batchSize int, logger *slog.Logger) *Client {
	if ratePerSec <= 0 {
		ratePerSec = 10
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      httpClient,
		limiter:   rate.NewLimiter(rate.Limit(ratePerSec), int(ratePerSec)),
		batchSize: batchSize,
		logger:    logger,
	}
}

// FetchPaginated sends params to the API and follows the continuation
// protocol for up to maxContinue extra requests, merging all pages into
// one response. An error payload fails the whole call: previously
// merged pages are discarded and the offending page is returned with
// StatusUpstreamFailure. StatusIncomplete means the continuation budget
// ran out before the API signaled batch completion.
func (c *Client) FetchPaginated(ctx context.Context, params Params, maxContinue int) (*Response, domain.Status) {
	current := make(Params, len(params))
	for k, v := range params {
		current[k] = v
	}

	remaining := maxContinue
	var responses []*Response
	for {
		resp, err := c.do(ctx, current)
		if err != nil {
			c.logger.Warn("wiki request failed", slog.String("error", err.Error()))
			return nil, domain.StatusUpstreamFailure
		}
		if resp.Error != nil {
			c.logger.Warn("wiki returned error payload",
				slog.String("code", resp.Error.Code),
				slog.String("info", resp.Error.Info))
			return resp, domain.StatusUpstreamFailure
		}
		responses = append(responses, resp)

		if len(resp.Continue) == 0 || remaining <= 0 {
			break
		}
		remaining--
		// The continue block is echoed back verbatim into the next
		// request's parameters.
		for k, v := range resp.Continue {
			current[k] = fmt.Sprint(v)
		}
	}

	return mergeResponses(responses)
}

func (c *Client) do(ctx context.Context, params Params) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+values.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create wiki request: %w", err)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call wiki endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wiki endpoint returned %d", resp.StatusCode)
	}

	var decoded Response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode wiki response: %w", err)
	}

	c.logger.Debug("wiki request completed",
		slog.String("action", params["action"]),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	return &decoded, nil
}

// mergeResponses consolidates the pages of one paginated call.
// Pagination returns the same title across pages with different partial
// field sets, so pages are grouped by title and merged: list fields are
// concatenated, scalar fields take the last value seen.
func mergeResponses(responses []*Response) (*Response, domain.Status) {
	merged := &Response{}

	batchComplete := false
	var flat []Page
	for _, resp := range responses {
		batchComplete = batchComplete || resp.BatchComplete
		flat = append(flat, resp.Query.Pages...)
		merged.Continue = resp.Continue
	}
	merged.BatchComplete = batchComplete

	var order []string
	grouped := make(map[string][]Page)
	for _, p := range flat {
		if _, ok := grouped[p.Title]; !ok {
			order = append(order, p.Title)
		}
		grouped[p.Title] = append(grouped[p.Title], p)
	}

	merged.Query.Pages = make([]Page, 0, len(order))
	for _, title := range order {
		merged.Query.Pages = append(merged.Query.Pages, mergePages(grouped[title]))
	}

	status := domain.StatusIncomplete
	if batchComplete {
		status = domain.StatusOkay
	}
	return merged, status
}

func mergePages(pages []Page) Page {
	out := pages[0]
	for _, p := range pages[1:] {
		out.Links = append(out.Links, p.Links...)
		if p.PageID != 0 {
			out.PageID = p.PageID
		}
		if p.Index != 0 {
			out.Index = p.Index
		}
		if p.Wordcount != 0 {
			out.Wordcount = p.Wordcount
		}
		if p.Extract != "" {
			out.Extract = p.Extract
		}
		if p.Pageviews != nil {
			out.Pageviews = p.Pageviews
		}
		if p.Thumbnail != nil {
			out.Thumbnail = p.Thumbnail
		}
	}
	return out
}
