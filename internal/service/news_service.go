package service

import (
	"context"

	"github.com/jjenkins/civic/internal/model"
	"github.com/jjenkins/civic/internal/store"
)

// NewsService combines NewsAPI and the local RSS feeds and caches what they return
type NewsService struct {
	news  *NewsClient
	feeds *FeedReader
	store *store.NewsStore
}

// NewNewsService creates a new NewsService
func NewNewsService(news *NewsClient, feeds *FeedReader, articles *store.NewsStore) *NewsService {
	return &NewsService{news: news, feeds: feeds, store: articles}
}

// Search returns civic news for the listing page
func (s *NewsService) Search(ctx context.Context, q NewsQuery) Result[NewsPage] {
	res := s.news.Search(ctx, q)
	if !res.IsFallback() {
		s.store.UpsertMany(res.Data.Articles)
	}
	if res.Data.Articles == nil {
		res.Data.Articles = []model.NewsArticle{}
	}
	return res
}

// Breaking returns current headlines
func (s *NewsService) Breaking(ctx context.Context) Result[[]model.NewsArticle] {
	return s.cache(s.news.Breaking(ctx))
}

// Local returns local news from RSS, optionally filtered by location
func (s *NewsService) Local(ctx context.Context, location string) Result[[]model.NewsArticle] {
	return s.cache(s.feeds.Local(ctx, location))
}

// Warm loads breaking and local news into the table
func (s *NewsService) Warm(ctx context.Context) (fetched, inserted int) {
	for _, res := range []Result[[]model.NewsArticle]{s.news.Breaking(ctx), s.feeds.Local(ctx, "")} {
		if res.IsFallback() {
			continue
		}
		fetched += len(res.Data)
		inserted += s.store.UpsertMany(res.Data)
	}
	return fetched, inserted
}

func (s *NewsService) cache(res Result[[]model.NewsArticle]) Result[[]model.NewsArticle] {
	if !res.IsFallback() {
		s.store.UpsertMany(res.Data)
	}
	if res.Data == nil {
		res.Data = []model.NewsArticle{}
	}
	return res
}
