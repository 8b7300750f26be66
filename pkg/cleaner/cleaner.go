// Package cleaner converts extracted page content into a form suitable for
// saving to disk.
package cleaner

// Cleaner transforms extracted content.
type Cleaner interface {
	// Clean transforms content. Implementations return input they do not
	// understand unchanged.
	Clean(content string) (string, error)

	// Name returns the cleaner type for logging/debugging.
	Name() string
}
