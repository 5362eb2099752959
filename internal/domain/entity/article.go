// Package entity defines the core domain types of the news pipeline.
// It contains the article metadata returned by the News API, the combined
// record that is persisted to the warehouse, and the date window a run covers.
package entity

import "time"

// ArticleSource identifies the publisher of an article as reported by the News API.
type ArticleSource struct {
	ID   *string `json:"id"`
	Name string  `json:"name"`
}

// NewsArticle is one element of the "articles" array of an everything response.
// Optional fields are nil when the API omits them or sends null.
type NewsArticle struct {
	Source      ArticleSource `json:"source"`
	Author      *string       `json:"author"`
	Title       *string       `json:"title"`
	Description *string       `json:"description"`
	URL         string        `json:"url"`
	URLToImage  *string       `json:"urlToImage"`
	PublishedAt string        `json:"publishedAt"`
	Content     *string       `json:"content"`
}

// ArticleRecord is the unit persisted to the snapshot file and the warehouse.
// A nil pointer means the value is absent.
type ArticleRecord struct {
	Source         string
	Author         *string
	Title          *string
	Description    *string
	URL            string
	PublishedAt    string
	ContentNewsAPI *string
	ContentScraped *string
}

// RecordColumns lists the persisted column names in storage order.
var RecordColumns = []string{
	"source",
	"author",
	"title",
	"description",
	"url",
	"publishedAt",
	"content_newsapi",
	"content_scraped",
}

// Values returns the record as a row aligned with RecordColumns.
func (r ArticleRecord) Values() []*string {
	source, url, published := r.Source, r.URL, r.PublishedAt
	return []*string{
		&source,
		r.Author,
		r.Title,
		r.Description,
		&url,
		&published,
		r.ContentNewsAPI,
		r.ContentScraped,
	}
}

// RecordFromValues builds a record from a row aligned with RecordColumns.
// Absent required fields become empty strings.
func RecordFromValues(values []*string) (ArticleRecord, error) {
	if len(values) != len(RecordColumns) {
		return ArticleRecord{}, &ValidationError{
			Field:   "row",
			Message: "unexpected column count",
		}
	}
	return ArticleRecord{
		Source:         deref(values[0]),
		Author:         values[1],
		Title:          values[2],
		Description:    values[3],
		URL:            deref(values[4]),
		PublishedAt:    deref(values[5]),
		ContentNewsAPI: values[6],
		ContentScraped: values[7],
	}, nil
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ArticleQuery selects articles of the search endpoint.
// Zero values are omitted from the request.
type ArticleQuery struct {
	Sources  []string
	Language string
	From     time.Time
	To       time.Time
}
