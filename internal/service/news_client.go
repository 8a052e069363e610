package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jjenkins/civic/internal/config"
	"github.com/jjenkins/civic/internal/model"
	"github.com/jjenkins/civic/internal/telemetry"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	adapterNewsAPI = "newsapi"
	civicQuery     = "congress OR legislation OR \"city council\" OR election"
	reasonNoAPIKey = "no api key"
)

// NewsQuery is what the news listing asks NewsAPI for
type NewsQuery struct {
	Query    string
	Category model.NewsCategory
	PageSize int
	Page     int
}

// NewsPage is one page of upstream articles
type NewsPage struct {
	Articles []model.NewsArticle
	Total    int
}

// NewsClient fetches articles from NewsAPI
type NewsClient struct {
	apiKey  string
	baseURL string
	country string
	fetch   *fetcher
	parser  *Parser
	cache   *cache.Cache
	logger  *zap.Logger
	metrics *telemetry.Metrics
}

// NewNewsClient creates a new NewsAPI client
func NewNewsClient(cfg config.NewsAPIConfig, parser *Parser, c *cache.Cache, logger *zap.Logger, metrics *telemetry.Metrics) *NewsClient {
	return &NewsClient{
		apiKey:  cfg.APIKey.Value(),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		country: cfg.Country,
		fetch:   newFetcher(cfg.Timeout, 0, 1),
		parser:  parser,
		cache:   c,
		logger:  logger.Named(adapterNewsAPI),
		metrics: metrics,
	}
}

// newsAPIResponse represents both /everything and /top-headlines
type newsAPIResponse struct {
	Status       string `json:"status"`
	Code         string `json:"code"`
	Message      string `json:"message"`
	TotalResults int    `json:"totalResults"`
	Articles     []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Author      string `json:"author"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		URLToImage  string `json:"urlToImage"`
		PublishedAt string `json:"publishedAt"`
		Content     string `json:"content"`
	} `json:"articles"`
}

// Search returns civic news matching q
func (c *NewsClient) Search(ctx context.Context, q NewsQuery) Result[NewsPage] {
	if q.Category == model.NewsBreaking {
		res := c.Breaking(ctx)
		return Result[NewsPage]{Data: NewsPage{Articles: res.Data, Total: len(res.Data)}, Source: res.Source, Reason: res.Reason}
	}

	params := url.Values{}
	query := civicQuery
	if q.Query != "" {
		query = q.Query
	}
	if q.Category == model.NewsLocal {
		query += " AND local"
	}
	params.Set("q", query)
	params.Set("language", "en")
	params.Set("sortBy", "publishedAt")
	if q.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}

	category := q.Category
	if !category.Valid() {
		category = model.NewsNational
	}
	return c.fetchPage(ctx, "/everything?"+params.Encode(), category)
}

// Breaking returns current top headlines
func (c *NewsClient) Breaking(ctx context.Context) Result[[]model.NewsArticle] {
	params := url.Values{}
	params.Set("country", c.country)
	params.Set("category", "general")

	res := c.fetchPage(ctx, "/top-headlines?"+params.Encode(), model.NewsBreaking)
	return Result[[]model.NewsArticle]{Data: res.Data.Articles, Source: res.Source, Reason: res.Reason}
}

func (c *NewsClient) fetchPage(ctx context.Context, path string, category model.NewsCategory) Result[NewsPage] {
	if c.apiKey == "" {
		c.metrics.AdapterCall(adapterNewsAPI, string(SourceFallback))
		return Fallback(fallbackNewsPage(), reasonNoAPIKey)
	}

	key := "newsapi:" + path
	if cached, ok := c.cache.Get(key); ok {
		return Live(cached.(NewsPage))
	}

	page, err := c.fetchArticles(ctx, path, category)
	if err != nil {
		c.logger.Warn("serving fallback news", zap.String("path", strings.SplitN(path, "?", 2)[0]), zap.Error(err))
		c.metrics.AdapterCall(adapterNewsAPI, string(SourceFallback))
		return Fallback(fallbackNewsPage(), err.Error())
	}

	c.cache.SetDefault(key, page)
	c.metrics.AdapterCall(adapterNewsAPI, string(SourceLive))
	return Live(page)
}

func (c *NewsClient) fetchArticles(ctx context.Context, path string, category model.NewsCategory) (NewsPage, error) {
	header := http.Header{}
	header.Set("X-Api-Key", c.apiKey)

	body, err := c.fetch.fetchWithRetry(ctx, c.baseURL+path, header)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) {
			// NewsAPI explains 4xx responses in the body; the fetcher drops it
			return NewsPage{}, fmt.Errorf("newsapi rejected request: %w", err)
		}
		return NewsPage{}, fmt.Errorf("failed to fetch news: %w", err)
	}

	var resp newsAPIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return NewsPage{}, fmt.Errorf("failed to parse news response: %w", err)
	}
	if resp.Status != "ok" {
		return NewsPage{}, fmt.Errorf("newsapi error %s: %s", resp.Code, resp.Message)
	}

	articles := make([]model.NewsArticle, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		if a.URL == "" || a.Title == "[Removed]" {
			continue
		}
		published, _ := time.Parse(time.RFC3339, a.PublishedAt)
		articles = append(articles, model.NewsArticle{
			ID:          "newsapi-" + Checksum(a.URL)[:16],
			Title:       a.Title,
			Description: c.parser.Clean(a.Description),
			Content:     c.parser.Clean(a.Content),
			URL:         a.URL,
			ImageURL:    a.URLToImage,
			Source:      a.Source.Name,
			Author:      a.Author,
			Category:    category,
			PublishedAt: published.UTC(),
		})
	}
	return NewsPage{Articles: articles, Total: resp.TotalResults}, nil
}

func fallbackNewsPage() NewsPage {
	articles := fallbackNews()
	return NewsPage{Articles: articles, Total: len(articles)}
}
