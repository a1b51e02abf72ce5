// Package export renders suggestion reports as HTML, Markdown, and PDF.
package export

import (
	"errors"
	"time"
)

// Format represents the export output format
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
	FormatPDF      Format = "pdf"
)

// Request contains parameters for an export operation
type Request struct {
	SuggestionID   string
	Format         Format
	IncludeReplies bool
}

// Suggestion is the exportable view of a suggestion
type Suggestion struct {
	ID           string
	Title        string
	Content      string
	Author       string
	CategoryName string
	Status       string
	Sentiment    *float64
	IsSpam       bool
	AutoCategory string
	CreatedAt    time.Time
}

// Reply is an admin reply included in the report
type Reply struct {
	Author    string
	Content   string
	CreatedAt time.Time
}

// Result contains the export output
type Result struct {
	Data     []byte
	Filename string
	MimeType string
}

var (
	// ErrContentUnavailable indicates suggestion content could not be loaded for export.
	ErrContentUnavailable = errors.New("export content unavailable")
	// ErrPDFDependencyMissing indicates PDF export runtime dependencies are unavailable.
	ErrPDFDependencyMissing = errors.New("export pdf dependency missing")
)
