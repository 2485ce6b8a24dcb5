package store

import (
	"context"
	"errors"
	"hash/fnv"
	"net/http"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"

	"github.com/superbank-dev/superbank/internal/model"
)

// colorPalette is cycled for tags created without an explicit color. The
// pick is a stable hash of the name so a tag keeps its color across
// sessions.
var colorPalette = []string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8", "#f58231",
	"#911eb4", "#46f0f0", "#f032e6", "#bcf60c", "#fabebe",
	"#008080", "#e6beff", "#9a6324", "#800000", "#808000",
}

// AutoColor returns the palette color for a tag name.
func AutoColor(name string) string {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(name))))
	return colorPalette[h.Sum32()%uint32(len(colorPalette))]
}

type tagCreateWire struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// List implements TagStore.
func (c *Client) List(ctx context.Context) ([]model.Tag, error) {
	var tags []model.Tag
	if err := c.getJSONRetry(ctx, "/tags", &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// Create implements TagStore. The ID is assigned client-side so a retried
// create is idempotent; a missing color is auto-assigned from the palette.
// A case-insensitive name collision returns ErrDuplicateTag.
func (c *Client) Create(ctx context.Context, name, color string) (model.Tag, error) {
	if color == "" {
		color = AutoColor(name)
	}
	body := tagCreateWire{ID: uuid.NewString(), Name: name, Color: color}
	var created model.Tag
	if err := c.doJSON(ctx, http.MethodPost, "/tags", body, &created); err != nil {
		return model.Tag{}, err
	}
	return created, nil
}

// Update implements TagStore.
func (c *Client) Update(ctx context.Context, tag model.Tag) (model.Tag, error) {
	var updated model.Tag
	if err := c.doJSON(ctx, http.MethodPut, "/tags/"+tag.ID, tag, &updated); err != nil {
		return model.Tag{}, err
	}
	return updated, nil
}

// Delete implements TagStore.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/tags/"+id, nil, nil)
}

// Ensure returns the tag with the given name, creating it if necessary. A
// duplicate-name conflict is resolved by reusing the existing tag's ID,
// never surfaced as an error to the user.
func Ensure(ctx context.Context, tags TagStore, name string) (model.Tag, error) {
	existing, err := tags.List(ctx)
	if err != nil {
		return model.Tag{}, err
	}
	if t, ok := FindByName(existing, name); ok {
		return t, nil
	}

	created, err := tags.Create(ctx, name, "")
	if err == nil {
		return created, nil
	}
	if !errors.Is(err, ErrDuplicateTag) {
		return model.Tag{}, err
	}

	// Conflict: someone created it between the list and the create. Reuse.
	existing, listErr := tags.List(ctx)
	if listErr != nil {
		return model.Tag{}, listErr
	}
	if t, ok := FindByName(existing, name); ok {
		return t, nil
	}
	return model.Tag{}, err
}

// FindByName looks a tag up by case-insensitive name.
func FindByName(tags []model.Tag, name string) (model.Tag, bool) {
	for _, t := range tags {
		if model.SameName(t.Name, name) {
			return t, true
		}
	}
	return model.Tag{}, false
}

// Closest returns the existing tag name nearest to the given one by edit
// distance, for "did you mean" suggestions. The bool is false when the
// vocabulary is empty or nothing is plausibly close.
func Closest(name string, tags []model.Tag) (string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	best := ""
	bestDist := -1
	for _, t := range tags {
		d := levenshtein.ComputeDistance(name, strings.ToLower(t.Name))
		if bestDist < 0 || d < bestDist {
			best, bestDist = t.Name, d
		}
	}
	// More than a third of the name differing is not a near miss.
	if bestDist < 0 || bestDist*3 > len(name) {
		return "", false
	}
	return best, true
}
