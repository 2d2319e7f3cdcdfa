package news

import (
	"context"
	"time"
)

// Article is one news item as returned by the news provider.
type Article struct {
	Title       string
	Description string
	URL         string
	ImageURL    string
	SourceName  string
	PublishedAt *time.Time
}

// Query selects articles from the provider.
type Query struct {
	Text     string
	Language string
	SortBy   string
	PageSize int
}

// Provider fetches raw articles.
type Provider interface {
	Search(ctx context.Context, query Query) ([]Article, error)
}
