// Package docscan discovers academic documents (PDFs) under a document root
// and derives the metadata the listing page is built from.
package docscan

import (
	"context"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/fsutil"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// UncategorizedKey is the sentinel category for documents sitting directly
// under the document root.
const UncategorizedKey = "uncategorized"

// Entry represents one discovered document.
type Entry struct {
	RelPath     string    // Slash-separated path relative to the document root
	Category    string    // First path segment, or UncategorizedKey
	Title       string    // Display title derived from the filename
	Description string    // Optional, filled by Enrich
	ModTime     time.Time // Last modification time of the file
	PageCount   int       // PDF page count, 0 when unreadable
	Text        string    // Extracted text for the description provider, may be empty
}

// Scanner discovers PDF documents under a root directory.
type Scanner struct {
	root  string
	names map[string]string // relative path -> configured display title
}

// NewScanner creates a scanner for root. names may be nil.
func NewScanner(root string, names map[string]string) *Scanner {
	return &Scanner{root: root, names: names}
}

// Scan walks the document root and returns the discovered entries in a fixed
// order: category lexicographic, then relative path lexicographic within a
// category. Filesystem enumeration order is never relied upon, so two scans
// of the same snapshot always agree.
func (s *Scanner) Scan(ctx context.Context) ([]Entry, error) {
	if !fsutil.DirExists(s.root) {
		return nil, serrors.SourceNotFound(s.root, fs.ErrNotExist)
	}

	var entries []Entry
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		// Skip hidden files and directories silently.
		if strings.HasPrefix(d.Name(), ".") && p != s.root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(p), ".pdf") {
			return nil
		}

		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		entry := Entry{
			RelPath:  rel,
			Category: categoryOf(rel),
			Title:    s.titleOf(rel),
		}

		if info, err := d.Info(); err == nil {
			entry.ModTime = info.ModTime()
		}

		// PDF metadata and text are best-effort: an unreadable document
		// still appears in the listing.
		if pdf, err := readPDF(p); err == nil {
			entry.PageCount = pdf.PageCount
			entry.Text = pdf.Text
		} else {
			slog.Debug("PDF extraction failed", logfields.Path(rel), logfields.Error(err))
		}

		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, serrors.ScanFailed(s.root, err)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Category != entries[j].Category {
			return entries[i].Category < entries[j].Category
		}
		return entries[i].RelPath < entries[j].RelPath
	})

	slog.Info("Documents discovered", logfields.Path(s.root), logfields.Entries(len(entries)))
	return entries, nil
}

// categoryOf returns the first path segment of rel, or the sentinel for
// root-level files.
func categoryOf(rel string) string {
	if !strings.Contains(rel, "/") {
		return UncategorizedKey
	}
	return rel[:strings.Index(rel, "/")]
}

// titleOf derives the display title for a document. A configured display
// name wins; otherwise the filename stem with separators replaced by spaces.
// A stem of "main" takes the parent directory's name instead, preserving the
// <category>/<project>/main.pdf layout.
func (s *Scanner) titleOf(rel string) string {
	if name, ok := s.names[rel]; ok && name != "" {
		return name
	}

	stem := strings.TrimSuffix(path.Base(rel), path.Ext(rel))
	if strings.EqualFold(stem, "main") {
		if parent := path.Base(path.Dir(rel)); parent != "." && parent != "/" {
			stem = parent
		}
	}
	return humanize(stem)
}

func humanize(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	return strings.Join(strings.Fields(s), " ")
}
