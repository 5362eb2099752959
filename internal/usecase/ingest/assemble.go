package ingest

import "news-etl/internal/domain/entity"

// Assemble pairs each article with its scrape result and builds one record
// per article in input order. A missing or failed result leaves
// ContentScraped absent.
func Assemble(articles []entity.NewsArticle, results []ScrapeResult) []entity.ArticleRecord {
	records := make([]entity.ArticleRecord, len(articles))
	for i, a := range articles {
		rec := entity.ArticleRecord{
			Source:         a.Source.Name,
			Author:         a.Author,
			Title:          a.Title,
			Description:    a.Description,
			URL:            a.URL,
			PublishedAt:    a.PublishedAt,
			ContentNewsAPI: a.Content,
		}
		if i < len(results) && results[i].OK() {
			text := results[i].Text
			rec.ContentScraped = &text
		}
		records[i] = rec
	}
	return records
}
