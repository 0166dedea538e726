package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *SiteError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *SiteError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Input and output errors

// SourceNotFound reports a required input directory or file that is absent
// or unreadable.
func SourceNotFound(path string, cause error) *SiteError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "source not found").
		WithContext("path", path)
}

// DestinationWrite reports a failure to create or write an output path.
func DestinationWrite(path string, cause error) *SiteError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "destination write failed").
		WithContext("path", path)
}

// Template errors

// TemplateNotFound reports an absent template file. Generating the listing
// before the page skeleton exists surfaces as this error.
func TemplateNotFound(path string, cause error) *SiteError {
	return Wrap(cause, CategoryTemplate, SeverityFatal, "template not found").
		WithContext("path", path)
}

// RenderFailed wraps a template rendering failure (including missing
// bindings) for a given source file.
func RenderFailed(path string, cause error) *SiteError {
	return Wrap(cause, CategoryTemplate, SeverityFatal, "render failed").
		WithContext("path", path)
}

// Scan and enrichment errors

func ScanFailed(root string, cause error) *SiteError {
	return Wrap(cause, CategoryScan, SeverityFatal, "document scan failed").
		WithContext("root", root)
}

// DescribeFailed reports an enrichment failure for a single document. Always
// a warning: descriptions are best-effort and never abort a build.
func DescribeFailed(document string, cause error) *SiteError {
	return Wrap(cause, CategoryDescribe, SeverityWarning, "description provider failed").
		WithContext("document", document)
}

// Internal errors

func InternalError(message string, cause error) *SiteError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
