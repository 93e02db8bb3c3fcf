package feeds

import (
	"context"
	"net/url"
	"strings"
)

const maxArticles = 15

var newsCategories = map[string]string{
	"national":      "politics",
	"international": "world",
	"economy":       "business",
	"sports":        "sports",
	"technology":    "technology",
	"entertainment": "entertainment",
}

// NewsCategory maps a UI category to the NewsData.io one. Unknown values
// pass through; "" and "all" mean no filter.
func NewsCategory(category string) string {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" || category == "all" {
		return ""
	}
	if mapped, ok := newsCategories[category]; ok {
		return mapped
	}
	return category
}

// Article is one Bangladeshi news item.
type Article struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	Source      string   `json:"source"`
	SourceURL   string   `json:"sourceUrl"`
	Link        string   `json:"link"`
	Image       *string  `json:"image"`
	PubDate     string   `json:"pubDate"`
	Category    string   `json:"category"`
	Country     []string `json:"country"`
	Language    string   `json:"language"`
}

// NewsFeed is the /api/news response.
type NewsFeed struct {
	Articles []Article `json:"articles"`
	Total    int       `json:"total"`
	Message  string    `json:"message,omitempty"`
}

type newsResponse struct {
	Status  string `json:"status"`
	Results []struct {
		ArticleID   string   `json:"article_id"`
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Content     string   `json:"content"`
		SourceID    string   `json:"source_id"`
		SourceURL   string   `json:"source_url"`
		Link        string   `json:"link"`
		ImageURL    *string  `json:"image_url"`
		PubDate     string   `json:"pubDate"`
		Category    []string `json:"category"`
		Country     []string `json:"country"`
		Language    string   `json:"language"`
	} `json:"results"`
}

// News returns up to fifteen Bengali articles from Bangladesh, optionally
// filtered by category.
func (s *Service) News(ctx context.Context, category string) (*NewsFeed, error) {
	if s.cfg.NewsAPIKey == "" {
		return nil, &Error{Feed: "News", Err: ErrNotConfigured}
	}
	mapped := NewsCategory(category)
	feed, err := cached(ctx, s, "news:"+mapped, func(ctx context.Context) (*NewsFeed, error) {
		return s.fetchNews(ctx, mapped)
	})
	if err != nil {
		s.logger.Error("News API failed", "category", mapped, "error", err)
		return nil, &Error{Feed: "News", Err: err}
	}
	return feed, nil
}

func (s *Service) fetchNews(ctx context.Context, category string) (*NewsFeed, error) {
	q := url.Values{}
	q.Set("apikey", s.cfg.NewsAPIKey)
	q.Set("country", "bd")
	q.Set("language", "bn")
	if category != "" {
		q.Set("category", category)
	}

	var resp newsResponse
	if _, err := s.getJSON(ctx, s.cfg.NewsURL+"/api/1/news?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "success" {
		s.logger.Warn("News API returned non-success", "status", resp.Status)
		return &NewsFeed{Articles: []Article{}, Message: "No news found"}, nil
	}

	results := resp.Results
	if len(results) > maxArticles {
		results = results[:maxArticles]
	}
	articles := make([]Article, 0, len(results))
	for _, r := range results {
		a := Article{
			ID:          r.ArticleID,
			Title:       r.Title,
			Description: r.Description,
			Content:     r.Content,
			Source:      r.SourceID,
			SourceURL:   r.SourceURL,
			Link:        r.Link,
			Image:       r.ImageURL,
			PubDate:     r.PubDate,
			Category:    "general",
			Country:     r.Country,
			Language:    r.Language,
		}
		if a.Source == "" {
			a.Source = "Unknown"
		}
		if len(r.Category) > 0 {
			a.Category = r.Category[0]
		}
		if a.Country == nil {
			a.Country = []string{"bd"}
		}
		if a.Language == "" {
			a.Language = "bn"
		}
		articles = append(articles, a)
	}
	s.logger.Info("News API returned articles", "count", len(articles))
	return &NewsFeed{Articles: articles, Total: len(articles)}, nil
}
