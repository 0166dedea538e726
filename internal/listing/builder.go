// Package listing emits the consolidated document listing page: every
// scanned document grouped by category, rendered into the text template
// produced by the page generator.
package listing

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"os"
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/sitegen/internal/docscan"
	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/fsutil"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/template"
)

// Builder renders the listing page from scanned entries.
type Builder struct {
	templatePath string
	outputPath   string
	webPrefix    string

	titleCaser cases.Caser
}

// NewBuilder creates a listing builder. webPrefix is the absolute web path
// the document root is published under; entry links are webPrefix joined
// with the entry's relative path.
func NewBuilder(templatePath, outputPath, webPrefix string) *Builder {
	return &Builder{
		templatePath: templatePath,
		outputPath:   outputPath,
		webPrefix:    webPrefix,
		titleCaser:   cases.Title(language.English),
	}
}

// Build groups entries by category (entries arrive in the scanner's fixed
// order), renders the category blocks into the text template and writes the
// listing page. The text template is produced by the page generator, which
// is why the listing stage must run after it.
func (b *Builder) Build(ctx context.Context, entries []docscan.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmplData, err := os.ReadFile(b.templatePath)
	if err != nil {
		return serrors.TemplateNotFound(b.templatePath, err)
	}

	fragment := b.renderEntries(entries)

	// Text templates historically name their placeholder public_doc_content;
	// plain content is accepted too. Unused keys are permitted by the engine.
	out, err := template.Render(string(tmplData), map[string]string{
		"content":            fragment,
		"public_doc_content": fragment,
	})
	if err != nil {
		return serrors.RenderFailed(b.templatePath, err)
	}

	if err := fsutil.WriteFileAtomic(b.outputPath, []byte(out), 0o644); err != nil {
		return serrors.DestinationWrite(b.outputPath, err)
	}

	slog.Info("Listing generated", logfields.Entries(len(entries)), logfields.Path(b.outputPath))
	return nil
}

// renderEntries emits one heading plus an ordered list per category.
func (b *Builder) renderEntries(entries []docscan.Entry) string {
	var sb strings.Builder
	current := ""
	open := false

	for _, entry := range entries {
		if entry.Category != current {
			if open {
				sb.WriteString("</ul>\n")
			}
			current = entry.Category
			open = true
			fmt.Fprintf(&sb, "<h2>%s</h2>\n<ul>\n", html.EscapeString(b.categoryTitle(current)))
		}
		sb.WriteString(b.renderEntry(entry))
	}
	if open {
		sb.WriteString("</ul>\n")
	}
	return sb.String()
}

func (b *Builder) renderEntry(entry docscan.Entry) string {
	var sb strings.Builder
	href := path.Join(b.webPrefix, entry.RelPath)

	sb.WriteString("<li>\n")
	fmt.Fprintf(&sb, "<a href=%q>%s</a>", href, html.EscapeString(entry.Title))
	if !entry.ModTime.IsZero() {
		sb.WriteString(" " + muted("(last compiled "+entry.ModTime.Format("02 Jan 2006")+")"))
	}
	if entry.Description != "" {
		sb.WriteString("\n<br>\n")
		sb.WriteString(muted("(" + html.EscapeString(entry.Description) + ")"))
	}
	sb.WriteString("\n</li>\n")
	return sb.String()
}

// categoryTitle turns a category key into its display form:
// "study_notes" becomes "Study Notes".
func (b *Builder) categoryTitle(key string) string {
	key = strings.ReplaceAll(key, "_", " ")
	key = strings.ReplaceAll(key, "-", " ")
	return b.titleCaser.String(key)
}

// muted wraps text in the site's dimmed inline styling for secondary
// annotations, matching the published pages' look.
func muted(text string) string {
	return `<text style="opacity: 0.6; color: #666; font-style: italic;"> ` + text + `</text>`
}
