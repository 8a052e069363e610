package model

import "time"

// NewsCategory groups articles for the news feed tabs
type NewsCategory string

const (
	NewsBreaking  NewsCategory = "breaking"
	NewsLocal     NewsCategory = "local"
	NewsNational  NewsCategory = "national"
	NewsExplainer NewsCategory = "explainer"
)

// Valid reports whether c is a known category
func (c NewsCategory) Valid() bool {
	switch c {
	case NewsBreaking, NewsLocal, NewsNational, NewsExplainer:
		return true
	}
	return false
}

// NewsArticle represents a news story shown in the portal
type NewsArticle struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Content     string       `json:"content,omitempty"`
	URL         string       `json:"url"`
	ImageURL    string       `json:"imageUrl,omitempty"`
	Source      string       `json:"source"`
	Author      string       `json:"author,omitempty"`
	Category    NewsCategory `json:"category"`
	Location    string       `json:"location,omitempty"`
	PublishedAt time.Time    `json:"publishedAt"`
}
