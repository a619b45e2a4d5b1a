package catalog

import (
	"sort"
	"time"
)

// Entry is one material row from the source sheet. Key is the canonical
// lookup key derived from Name; Price is in whole currency units.
type Entry struct {
	Key   string
	Name  string
	Price int64
}

// Catalog is an immutable snapshot of the material price table. It is
// replaced wholesale on reload, never mutated in place.
type Catalog struct {
	entries   map[string]Entry
	fetchedAt time.Time
}

func newCatalog(entries map[string]Entry, fetchedAt time.Time) *Catalog {
	return &Catalog{entries: entries, fetchedAt: fetchedAt}
}

// Lookup resolves a canonical key to its entry.
func (c *Catalog) Lookup(key string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	entry, ok := c.entries[key]
	return entry, ok
}

// Len returns the number of materials in the snapshot.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// FetchedAt reports when the snapshot was built.
func (c *Catalog) FetchedAt() time.Time {
	if c == nil {
		return time.Time{}
	}
	return c.fetchedAt
}

// Names returns the display names sorted alphabetically, used as the
// remediation list for unresolved queries.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.entries))
	for _, e := range c.entries {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names
}

// Entries returns all entries sorted by canonical key.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	entries := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries
}
