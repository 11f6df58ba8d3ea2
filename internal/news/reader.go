// Package news reads ticker headlines and scores their sentiment.
package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"StockAnalyzer/internal/logger"
	"StockAnalyzer/internal/model"
)

var log = logger.With("news")

// DefaultLimit is the number of headlines shown on the dashboard.
const DefaultLimit = 10

const yahooHeadlineURL = "https://feeds.finance.yahoo.com/rss/2.0/headline"

// Reader fetches headline feeds for a ticker.
type Reader struct {
	FeedURL string
	parser  *gofeed.Parser
}

// NewReader creates a Reader for the Yahoo Finance headline feed.
func NewReader(client *http.Client) *Reader {
	p := gofeed.NewParser()
	p.UserAgent = "Mozilla/5.0"
	if client != nil {
		p.Client = client
	}
	return &Reader{FeedURL: yahooHeadlineURL, parser: p}
}

func (r *Reader) feedURL(ticker string) string {
	q := url.Values{}
	q.Set("s", ticker)
	q.Set("region", "US")
	q.Set("lang", "en-US")
	return r.FeedURL + "?" + q.Encode()
}

// Headlines returns the newest limit articles for ticker, each scored for
// title and summary sentiment. limit <= 0 means DefaultLimit.
func (r *Reader) Headlines(ctx context.Context, ticker string, limit int) ([]model.NewsArticle, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, fmt.Errorf("news: ticker is required")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	feed, err := r.parser.ParseURLWithContext(r.feedURL(ticker), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed for %s: %w", ticker, err)
	}

	articles := make([]model.NewsArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		summary := cleanHTML(item.Description)
		a := model.NewsArticle{
			Title:            strings.TrimSpace(item.Title),
			URL:              item.Link,
			Summary:          summary,
			TitleSentiment:   Score(item.Title),
			SummarySentiment: Score(summary),
		}
		if item.PublishedParsed != nil {
			a.PublishedAt = item.PublishedParsed.UTC()
		}
		articles = append(articles, a)
	}

	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})
	if len(articles) > limit {
		articles = articles[:limit]
	}
	log.Debugf("%d headlines for %s", len(articles), ticker)
	return articles, nil
}

// cleanHTML strips HTML tags from a string using goquery.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Age formats how long ago an article was published.
func Age(published, now time.Time) string {
	if published.IsZero() {
		return ""
	}
	d := now.Sub(published)
	switch {
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return published.Format("2006-01-02")
	}
}
