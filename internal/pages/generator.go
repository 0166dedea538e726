// Package pages renders the page-source tree through the master template
// into a mirrored output tree.
package pages

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/fsutil"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/template"
)

// Generator renders page fragments through a master template.
type Generator struct {
	inputDir     string
	outputDir    string
	templatePath string
	siteTitle    string
}

// NewGenerator creates a page generator. siteTitle is the fallback title for
// fragments that declare none.
func NewGenerator(inputDir, outputDir, templatePath, siteTitle string) *Generator {
	return &Generator{
		inputDir:     inputDir,
		outputDir:    outputDir,
		templatePath: templatePath,
		siteTitle:    siteTitle,
	}
}

// Generate walks the input tree, renders every page fragment and writes the
// mirrored output tree. Every run is a full rebuild: existing outputs are
// overwritten, never compared. Returns the number of pages written.
//
// A render or write failure aborts the whole run; a partially generated site
// is worse than the previous complete one, and atomic per-file writes mean
// an aborted run leaves only stale-but-valid files behind.
func (g *Generator) Generate(ctx context.Context) (int, error) {
	tmplData, err := os.ReadFile(g.templatePath)
	if err != nil {
		return 0, serrors.TemplateNotFound(g.templatePath, err)
	}
	tmpl := string(tmplData)

	if !fsutil.DirExists(g.inputDir) {
		return 0, serrors.SourceNotFound(g.inputDir, fs.ErrNotExist)
	}

	count := 0
	err = filepath.WalkDir(g.inputDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return serrors.SourceNotFound(p, err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if strings.HasPrefix(d.Name(), ".") && p != g.inputDir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(p))
		if ext != ".html" && ext != ".htm" && ext != ".md" {
			return nil
		}

		rel, err := filepath.Rel(g.inputDir, p)
		if err != nil {
			return err
		}

		if err := g.renderPage(p, rel, ext, tmpl); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return count, err
	}

	slog.Info("Pages generated", logfields.Pages(count), logfields.Path(g.outputDir))
	return count, nil
}

func (g *Generator) renderPage(srcPath, rel, ext, tmpl string) error {
	raw, err := os.ReadFile(srcPath)
	if err != nil {
		return serrors.SourceNotFound(srcPath, err)
	}

	body := string(raw)
	if ext == ".md" {
		body, err = markdownToHTML(raw)
		if err != nil {
			return serrors.RenderFailed(rel, err)
		}
		rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + ".html"
	}

	title := extractTitle(body)
	if title == "" {
		title = titleFromPath(rel)
	}
	if title == "" {
		title = g.siteTitle
	}

	bindings := map[string]string{
		"content": body,
		"title":   title,
	}

	html, err := template.Render(tmpl, bindings)
	if err != nil {
		return serrors.RenderFailed(rel, err)
	}

	outPath := filepath.Join(g.outputDir, rel)
	if err := fsutil.WriteFileAtomic(outPath, []byte(html), 0o644); err != nil {
		return serrors.DestinationWrite(outPath, err)
	}

	slog.Debug("Page generated", logfields.Path(rel))
	return nil
}

// titleFromPath derives a display title from a relative output path:
// "posts/reading-list.html" becomes "reading list".
func titleFromPath(rel string) string {
	stem := strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))
	if stem == "index" {
		dir := filepath.Base(filepath.Dir(rel))
		if dir != "." && dir != string(filepath.Separator) {
			stem = dir
		}
	}
	stem = strings.ReplaceAll(stem, "_", " ")
	stem = strings.ReplaceAll(stem, "-", " ")
	return strings.Join(strings.Fields(stem), " ")
}
