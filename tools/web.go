package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

const (
	httpRequestTimeout = 30 * time.Second
	// httpBodyLimit bounds response bodies before they enter the prompt.
	httpBodyLimit = 64 * 1024

	searchEndpoint   = "https://serpapi.com/search"
	searchResultsMax = 5
)

// HTTPRequestTool performs a bounded HTTP request.
func HTTPRequestTool() Tool {
	return Tool{
		Spec: mcptypes.NewTool("http_request",
			mcptypes.WithDescription("Perform an HTTP request and return status and body."),
			mcptypes.WithString("url", mcptypes.Required(), mcptypes.Description("Request URL")),
			mcptypes.WithString("method", mcptypes.Description("HTTP method (default GET)")),
			mcptypes.WithString("body", mcptypes.Description("Request body for POST/PUT")),
		),
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			rawURL, ok := stringArg(args, "url")
			if !ok {
				return nil, fmt.Errorf("url is required")
			}
			method, _ := stringArg(args, "method")
			if method == "" {
				method = http.MethodGet
			}
			method = strings.ToUpper(method)

			var body io.Reader
			if payload, ok := stringArg(args, "body"); ok && payload != "" {
				body = strings.NewReader(payload)
			}

			ctx, cancel := context.WithTimeout(ctx, httpRequestTimeout)
			defer cancel()

			req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
			if err != nil {
				return nil, fmt.Errorf("invalid request: %w", err)
			}
			if body != nil {
				req.Header.Set("Content-Type", "application/json")
			}

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return nil, fmt.Errorf("request failed: %w", err)
			}
			defer resp.Body.Close()

			data, err := io.ReadAll(io.LimitReader(resp.Body, httpBodyLimit))
			if err != nil {
				return nil, fmt.Errorf("failed to read response: %w", err)
			}

			return map[string]any{
				"status": resp.StatusCode,
				"body":   string(data),
			}, nil
		},
	}
}

// searchResult is the slice of a search hit the model gets to see.
type searchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// WebSearchTool queries a SerpAPI-compatible endpoint. The key comes from
// the agent config (search_api_key); the SERPAPI_API_KEY environment
// variable is the fallback when the config leaves it empty.
func WebSearchTool(configKey string) Tool {
	return Tool{
		Spec: mcptypes.NewTool("web_search",
			mcptypes.WithDescription("Search the web. Returns the top results with title, link and snippet."),
			mcptypes.WithString("query", mcptypes.Required(), mcptypes.Description("Search query")),
		),
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			query, ok := stringArg(args, "query")
			if !ok || strings.TrimSpace(query) == "" {
				return nil, fmt.Errorf("query is required")
			}
			apiKey := configKey
			if apiKey == "" {
				apiKey = os.Getenv("SERPAPI_API_KEY")
			}
			if apiKey == "" {
				return nil, fmt.Errorf("web search requires search_api_key in config or SERPAPI_API_KEY to be set")
			}

			params := url.Values{}
			params.Set("q", query)
			params.Set("api_key", apiKey)
			params.Set("engine", "google")

			ctx, cancel := context.WithTimeout(ctx, httpRequestTimeout)
			defer cancel()

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchEndpoint+"?"+params.Encode(), nil)
			if err != nil {
				return nil, err
			}

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return nil, fmt.Errorf("search request failed: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return nil, fmt.Errorf("search returned status %d", resp.StatusCode)
			}

			var payload struct {
				OrganicResults []searchResult `json:"organic_results"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
				return nil, fmt.Errorf("failed to decode search response: %w", err)
			}

			results := payload.OrganicResults
			if len(results) > searchResultsMax {
				results = results[:searchResultsMax]
			}
			return results, nil
		},
	}
}
