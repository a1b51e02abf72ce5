package export

import (
	"context"
	"fmt"
)

// DataStore defines the data access the export service needs.
type DataStore interface {
	GetExportSuggestion(ctx context.Context, id string) (Suggestion, error)
	ListExportReplies(ctx context.Context, suggestionID string) ([]Reply, error)
}

// Service renders suggestion reports.
type Service struct {
	store DataStore
}

// NewService creates a new export service
func NewService(store DataStore) *Service {
	return &Service{store: store}
}

// Export generates a report in the requested format.
func (s *Service) Export(ctx context.Context, req Request) (*Result, error) {
	sugg, err := s.store.GetExportSuggestion(ctx, req.SuggestionID)
	if err != nil {
		return nil, fmt.Errorf("get suggestion: %w", err)
	}

	data := TemplateData{
		Title:        sugg.Title,
		Content:      sugg.Content,
		Author:       sugg.Author,
		CategoryName: sugg.CategoryName,
		Status:       sugg.Status,
		AutoCategory: sugg.AutoCategory,
		CreatedAt:    sugg.CreatedAt,
		Replies:      []TemplateReply{},
	}
	if sugg.Sentiment != nil {
		data.Sentiment = fmt.Sprintf("%.2f", *sugg.Sentiment)
	}

	if req.IncludeReplies {
		replies, err := s.store.ListExportReplies(ctx, req.SuggestionID)
		if err != nil {
			return nil, fmt.Errorf("list replies: %w", err)
		}
		for _, r := range replies {
			data.Replies = append(data.Replies, TemplateReply{
				Author:    r.Author,
				Content:   r.Content,
				CreatedAt: r.CreatedAt,
			})
		}
	}

	switch req.Format {
	case FormatMarkdown:
		return exportMarkdown(data, sugg.Title)
	case FormatHTML:
		html, err := RenderSuggestionHTML(data)
		if err != nil {
			return nil, fmt.Errorf("render template: %w", err)
		}
		return &Result{
			Data:     []byte(html),
			Filename: sanitizeFilename(sugg.Title) + ".html",
			MimeType: "text/html; charset=utf-8",
		}, nil
	case FormatPDF:
		html, err := RenderSuggestionHTML(data)
		if err != nil {
			return nil, fmt.Errorf("render template: %w", err)
		}
		return exportPDF(html, sugg.Title)
	default:
		return nil, fmt.Errorf("unsupported format: %s", req.Format)
	}
}
