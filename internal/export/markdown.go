package export

import (
	"fmt"
	"strings"
)

// exportMarkdown renders the report as a Markdown document.
func exportMarkdown(data TemplateData, title string) (*Result, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", data.Title)

	meta := []string{data.Author}
	if data.CategoryName != "" {
		meta = append(meta, data.CategoryName)
	}
	meta = append(meta, strings.ToUpper(data.Status), data.CreatedAt.Format("Jan 2, 2006"))
	fmt.Fprintf(&b, "_%s_\n\n", strings.Join(meta, " | "))

	if data.Sentiment != "" {
		fmt.Fprintf(&b, "Sentiment: %s\n\n", data.Sentiment)
	}
	if data.AutoCategory != "" {
		fmt.Fprintf(&b, "Suggested category: %s\n\n", data.AutoCategory)
	}

	b.WriteString(data.Content)
	b.WriteString("\n")

	if len(data.Replies) > 0 {
		b.WriteString("\n## Replies\n")
		for _, r := range data.Replies {
			fmt.Fprintf(&b, "\n**%s** (%s):\n\n", r.Author, r.CreatedAt.Format("Jan 2, 2006 15:04"))
			fmt.Fprintf(&b, "> %s\n", strings.ReplaceAll(r.Content, "\n", "\n> "))
		}
	}

	return &Result{
		Data:     []byte(b.String()),
		Filename: sanitizeFilename(title) + ".md",
		MimeType: "text/markdown; charset=utf-8",
	}, nil
}
