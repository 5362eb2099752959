package entity

// SourceCatalogEntry is one source object of the News API catalog flattened
// into column name to cell value. Nested objects use dotted keys.
type SourceCatalogEntry map[string]string

// Name returns the "name" column of the entry.
func (e SourceCatalogEntry) Name() string {
	return e["name"]
}

// DefaultSources is the publisher list used when none is configured.
var DefaultSources = []string{
	"the-wall-street-journal",
	"bloomberg",
	"business-insider",
	"fortune",
}
