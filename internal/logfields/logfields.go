package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyCategory   = "category"
	KeyDocument   = "document"
	KeyPages      = "pages"
	KeyEntries    = "entries"
	KeyProvider   = "provider"
	KeyAddr       = "addr"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Category(c string) slog.Attr     { return slog.String(KeyCategory, c) }
func Document(name string) slog.Attr  { return slog.String(KeyDocument, name) }
func Pages(n int) slog.Attr           { return slog.Int(KeyPages, n) }
func Entries(n int) slog.Attr         { return slog.Int(KeyEntries, n) }
func Provider(name string) slog.Attr  { return slog.String(KeyProvider, name) }
func Addr(a string) slog.Attr         { return slog.String(KeyAddr, a) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
