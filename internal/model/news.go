package model

import "time"

// NewsArticle is a headline with its sentiment scores.
type NewsArticle struct {
	Title            string    `json:"title"`
	URL              string    `json:"url"`
	Summary          string    `json:"summary"`
	PublishedAt      time.Time `json:"published_at"`
	TitleSentiment   float64   `json:"title_sentiment"`
	SummarySentiment float64   `json:"summary_sentiment"`
}

// StatementKind selects a financial statement.
type StatementKind string

const (
	BalanceSheet    StatementKind = "BALANCE_SHEET"
	IncomeStatement StatementKind = "INCOME_STATEMENT"
	CashFlow        StatementKind = "CASH_FLOW"
)

// Statement is a set of annual reports, newest first. Each report maps the
// provider's field names to their raw string values.
type Statement struct {
	Symbol  string
	Kind    StatementKind
	Fields  []string
	Reports []map[string]string
}
