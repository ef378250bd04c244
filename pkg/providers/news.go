package providers

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/nutnell/marketminds/pkg/httpclient"
)

// NewsAPIAdapter fetches recent articles about a company or topic from
// NewsAPI's everything endpoint.
type NewsAPIAdapter struct {
	apiKey  string
	baseURL string
	client  *httpclient.Client
}

func NewNewsAPI(cfg Config) *NewsAPIAdapter {
	return &NewsAPIAdapter{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		client:  newHTTPClient(cfg.Timeout),
	}
}

func (a *NewsAPIAdapter) Name() string {
	return "newsapi"
}

type newsResponse struct {
	Articles []struct {
		Title  string `json:"title"`
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Description string `json:"description"`
	} `json:"articles"`
}

func (a *NewsAPIAdapter) Invoke(ctx context.Context, params Params) Result {
	query := params.Company
	if query == "" {
		return Failure("news search requires a company or topic")
	}
	if a.apiKey == "" {
		return Failure("news api key is not configured")
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("apiKey", a.apiKey)
	q.Set("sortBy", "publishedAt")
	q.Set("pageSize", "5")
	q.Set("language", "en")

	var resp newsResponse
	if err := getJSON(ctx, a.client, a.baseURL+"/everything?"+q.Encode(), &resp); err != nil {
		return Failuref("error fetching news: %v", err)
	}

	if len(resp.Articles) == 0 {
		return Failuref("no recent news found for %q", query)
	}

	formatted := make([]string, 0, len(resp.Articles))
	for _, article := range resp.Articles {
		snippet := article.Description
		if snippet == "" {
			snippet = "N/A"
		}
		formatted = append(formatted, fmt.Sprintf(
			"Title: %s\nSource: %s\nSnippet: %s\n-----------------",
			article.Title, article.Source.Name, snippet))
	}

	return Success(strings.Join(formatted, "\n\n"))
}

var _ Adapter = (*NewsAPIAdapter)(nil)
