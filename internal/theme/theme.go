// Package theme holds the ordered catalog of syntax themes the browser cycles
// through. Names are chroma style names.
package theme

import (
	"fmt"
	"slices"

	"github.com/alecthomas/chroma/v2/styles"
)

// Favorites is the default cycling order.
var Favorites = []string{
	"monokai",
	"nord",
	"dracula",
	"solarized-light",
	"onedark",
	"solarized-dark",
	"emacs",
	"vim",
	"github-dark",
	"native",
	"paraiso-dark",
}

// Catalog is a fixed, non-empty, ordered list of theme names.
type Catalog struct {
	names []string
}

// NewCatalog copies names and, when preferred is one of them, moves it to the
// front. A preferred name that is not in the list is ignored. Duplicate names
// keep their first occurrence.
func NewCatalog(names []string, preferred string) (*Catalog, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("theme catalog is empty")
	}
	ordered := make([]string, 0, len(names))
	for _, n := range names {
		if !slices.Contains(ordered, n) {
			ordered = append(ordered, n)
		}
	}
	if i := slices.Index(ordered, preferred); i > 0 {
		ordered = slices.Delete(ordered, i, i+1)
		ordered = slices.Insert(ordered, 0, preferred)
	}
	return &Catalog{names: ordered}, nil
}

// Len returns the number of themes.
func (c *Catalog) Len() int { return len(c.names) }

// Names returns a copy of the cycling order.
func (c *Catalog) Names() []string { return slices.Clone(c.names) }

// Name returns the theme at index i. Out of range indexes wrap.
func (c *Catalog) Name(i int) string {
	n := len(c.names)
	return c.names[((i%n)+n)%n]
}

// Next advances i by one, wrapping to 0 after the last theme.
func (c *Catalog) Next(i int) int {
	if i < len(c.names)-1 {
		return i + 1
	}
	return 0
}

// Validate reports names that chroma does not know.
func Validate(names []string) error {
	for _, n := range names {
		if _, ok := styles.Registry[n]; !ok {
			return fmt.Errorf("unknown theme %q", n)
		}
	}
	return nil
}
