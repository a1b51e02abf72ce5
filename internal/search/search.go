package search

// Result is a single search hit returned to the caller. CategoryID and
// UserID ride along so the caller can run its access checks per hit.
type Result struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Snippet    string `json:"snippet"`
	CategoryID string `json:"categoryId,omitempty"`
	UserID     string `json:"userId,omitempty"`
	Status     string `json:"status"`
}

// Query describes a search request.
type Query struct {
	Text   string
	Limit  int
	Offset int
}

// Response is the envelope returned by the search endpoint.
type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
	Query   string   `json:"query"`
}

// Searcher can execute a full-text search.
type Searcher interface {
	Search(q Query) ([]Result, int, error)
	Healthy() bool
}

// Indexer can push suggestions into a search index.
type Indexer interface {
	IndexSuggestion(record SuggestionRecord) error
	DeleteSuggestion(id string) error
}

// SuggestionRecord is the data we index for a suggestion.
type SuggestionRecord struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	AutoCategory string `json:"autoCategory"`
	CategoryID   string `json:"categoryId"`
	UserID       string `json:"userId"`
	Status       string `json:"status"`
}
