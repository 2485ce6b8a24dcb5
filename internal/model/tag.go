package model

import "strings"

// Tag is a user-defined label applied to transactions. Tags form a shared
// vocabulary: transactions hold references by ID, so renaming or recoloring
// a tag is reflected everywhere it is used. No two tags may share a
// case-insensitive name; the tag store enforces this.
type Tag struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
}

// SameName reports whether two tag names collide under the case-insensitive
// uniqueness rule.
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// TagNames returns the names of the given tags, in order.
func TagNames(tags []Tag) []string {
	if len(tags) == 0 {
		return nil
	}
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return names
}

// MergeTags returns the union of existing and added, deduplicated by tag ID.
// Existing order is preserved; applying the same tag twice is a no-op.
func MergeTags(existing []Tag, added ...Tag) []Tag {
	out := make([]Tag, 0, len(existing)+len(added))
	seen := make(map[string]bool, len(existing)+len(added))
	for _, t := range existing {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	for _, t := range added {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	return out
}

// RemoveTags returns existing minus any tag whose ID appears in removed.
func RemoveTags(existing []Tag, removed ...Tag) []Tag {
	drop := make(map[string]bool, len(removed))
	for _, t := range removed {
		drop[t.ID] = true
	}
	var out []Tag
	for _, t := range existing {
		if drop[t.ID] {
			continue
		}
		out = append(out, t)
	}
	return out
}
