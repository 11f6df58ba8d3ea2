package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
<title>Yahoo! Finance: AAPL News</title>
<item>
  <title>Apple shares surge after strong earnings beat</title>
  <link>https://example.com/a</link>
  <description>&lt;p&gt;Revenue &lt;b&gt;grew&lt;/b&gt; and profits rose.&lt;/p&gt;</description>
  <pubDate>Tue, 02 Jan 2024 15:00:00 +0000</pubDate>
</item>
<item>
  <title>Apple faces lawsuit over App Store fees</title>
  <link>https://example.com/b</link>
  <description>Regulators raise concerns.</description>
  <pubDate>Wed, 03 Jan 2024 09:30:00 +0000</pubDate>
</item>
<item>
  <title>Apple to hold annual meeting</title>
  <link>https://example.com/c</link>
  <description></description>
  <pubDate>Mon, 01 Jan 2024 12:00:00 +0000</pubDate>
</item>
</channel></rss>`

func newTestReader(t *testing.T) (*Reader, *string) {
	t.Helper()
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(rssFixture))
	}))
	t.Cleanup(srv.Close)
	r := NewReader(srv.Client())
	r.FeedURL = srv.URL + "/rss"
	return r, &query
}

func TestHeadlines(t *testing.T) {
	r, query := newTestReader(t)
	articles, err := r.Headlines(context.Background(), "aapl", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *query != "lang=en-US&region=US&s=AAPL" {
		t.Errorf("unexpected query %q", *query)
	}
	if len(articles) != 3 {
		t.Fatalf("expected 3 articles, got %d", len(articles))
	}
	if articles[0].URL != "https://example.com/b" || articles[2].URL != "https://example.com/c" {
		t.Errorf("expected newest first, got %s, %s, %s", articles[0].URL, articles[1].URL, articles[2].URL)
	}
	if got := articles[1].Summary; got != "Revenue grew and profits rose." {
		t.Errorf("expected HTML stripped, got %q", got)
	}
	if Label(articles[1].TitleSentiment) != Positive {
		t.Errorf("expected positive title, got %v", articles[1].TitleSentiment)
	}
	if Label(articles[0].TitleSentiment) != Negative {
		t.Errorf("expected negative title, got %v", articles[0].TitleSentiment)
	}
	if articles[2].SummarySentiment != 0 {
		t.Errorf("empty summary should score 0, got %v", articles[2].SummarySentiment)
	}
}

func TestHeadlines_Limit(t *testing.T) {
	r, _ := newTestReader(t)
	articles, err := r.Headlines(context.Background(), "AAPL", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(articles) != 2 {
		t.Errorf("expected 2 articles, got %d", len(articles))
	}
}

func TestHeadlines_Errors(t *testing.T) {
	r, _ := newTestReader(t)
	if _, err := r.Headlines(context.Background(), " ", 5); err == nil {
		t.Error("expected error for empty ticker")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()
	bad := NewReader(srv.Client())
	bad.FeedURL = srv.URL
	if _, err := bad.Headlines(context.Background(), "AAPL", 5); err == nil {
		t.Error("expected error for failing feed")
	}
}

func TestCleanHTML(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"plain text", "plain text"},
		{"<p>Hello <a href='x'>world</a></p>", "Hello world"},
		{"<div>\n  spaced\n\n out </div>", "spaced out"},
	}
	for _, tt := range tests {
		if got := cleanHTML(tt.in); got != tt.want {
			t.Errorf("cleanHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAge(t *testing.T) {
	now := time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		published time.Time
		want      string
	}{
		{time.Time{}, ""},
		{now.Add(-15 * time.Minute), "15m ago"},
		{now.Add(-5 * time.Hour), "5h ago"},
		{now.Add(-72 * time.Hour), "2023-12-31"},
	}
	for _, tt := range tests {
		if got := Age(tt.published, now); got != tt.want {
			t.Errorf("Age(%v) = %q, want %q", tt.published, got, tt.want)
		}
	}
}
