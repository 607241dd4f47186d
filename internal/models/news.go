package models

// NewsItem is the uniform shape every ingestion source produces.
// Published keeps the raw feed text; an empty string means the feed had no date.
type NewsItem struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Summary   string `json:"summary"`
	Published string `json:"published,omitempty"`
	Source    string `json:"source"`
}

// Article is the trimmed record kept for every item matched to a country.
type Article struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Source    string `json:"source"`
	Published string `json:"published,omitempty"`
	Lead      string `json:"lead"`
}
