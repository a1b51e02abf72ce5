package search

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// PgFTS implements Searcher using PostgreSQL full-text search as a fallback.
type PgFTS struct {
	db *sql.DB
}

// NewPgFTS creates a PostgreSQL FTS searcher.
func NewPgFTS(db *sql.DB) *PgFTS {
	return &PgFTS{db: db}
}

// Healthy always returns true; if Postgres is down, the whole app is down.
func (p *PgFTS) Healthy() bool {
	return true
}

// Search queries suggestions using plainto_tsquery and ts_rank, with
// ts_headline for snippets.
func (p *PgFTS) Search(q Query) ([]Result, int, error) {
	if strings.TrimSpace(q.Text) == "" {
		return nil, 0, nil
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	ctx := context.Background()

	var total int
	if err := p.db.QueryRowContext(ctx, `
		SELECT count(*)
		FROM suggestions s
		WHERE s.fts @@ plainto_tsquery('english', $1)
	`, q.Text).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgfts count: %w", err)
	}

	rows, err := p.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT s.id, s.title,
			ts_headline('english', coalesce(s.content, ''), plainto_tsquery('english', $1), 'MaxFragments=1,MaxWords=30') AS snippet,
			coalesce(s.category_id, ''), coalesce(s.user_id, ''), s.status
		FROM suggestions s
		WHERE s.fts @@ plainto_tsquery('english', $1)
		ORDER BY ts_rank(s.fts, plainto_tsquery('english', $1)) DESC
		LIMIT %d OFFSET %d`, limit, offset), q.Text)
	if err != nil {
		return nil, 0, fmt.Errorf("pgfts query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.ID, &r.Title, &r.Snippet, &r.CategoryID, &r.UserID, &r.Status); err != nil {
			return nil, 0, fmt.Errorf("pgfts scan: %w", err)
		}
		results = append(results, r)
	}

	return results, total, rows.Err()
}

// LoadAllRecords returns every suggestion as an indexable record, used for
// full reindexing into Meilisearch.
func (p *PgFTS) LoadAllRecords(ctx context.Context) ([]SuggestionRecord, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, title, content, coalesce(auto_category, ''), coalesce(category_id, ''), coalesce(user_id, ''), status
		FROM suggestions
	`)
	if err != nil {
		return nil, fmt.Errorf("load suggestions: %w", err)
	}
	defer rows.Close()

	records := make([]SuggestionRecord, 0)
	for rows.Next() {
		var rec SuggestionRecord
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Content, &rec.AutoCategory, &rec.CategoryID, &rec.UserID, &rec.Status); err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate suggestions: %w", err)
	}

	return records, nil
}
