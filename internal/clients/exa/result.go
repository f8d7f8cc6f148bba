package exa

import "github.com/samber/lo"

// Result is a search hit as returned by the API. Every field may be absent or null.
type Result struct {
	ID            string   `json:"id"`
	Title         *string  `json:"title"`
	URL           *string  `json:"url"`
	Text          *string  `json:"text"`
	PublishedDate *string  `json:"publishedDate"`
	Author        *string  `json:"author"`
	Score         *float64 `json:"score"`
}

// Fields is a Result with absent values resolved: text fields default to "" and score to 0.
type Fields struct {
	Title         string
	URL           string
	Text          string
	PublishedDate string
	Author        string
	Score         float64
}

func (r Result) Fields() Fields {
	return Fields{
		Title:         lo.FromPtr(r.Title),
		URL:           lo.FromPtr(r.URL),
		Text:          lo.FromPtr(r.Text),
		PublishedDate: lo.FromPtr(r.PublishedDate),
		Author:        lo.FromPtr(r.Author),
		Score:         lo.FromPtr(r.Score),
	}
}
