package store

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superbank-dev/superbank/internal/model"
)

func TestAutoColor_Stable(t *testing.T) {
	assert.Equal(t, AutoColor("food"), AutoColor("food"))
	assert.Equal(t, AutoColor("food"), AutoColor(" FOOD "), "color assignment ignores case and whitespace")
	assert.NotEmpty(t, AutoColor(""))
}

func TestCreate(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/tags", r.URL.Path)

		var wire tagCreateWire
		require.NoError(t, json.NewDecoder(r.Body).Decode(&wire))
		assert.NotEmpty(t, wire.ID, "IDs are assigned client-side")
		assert.Equal(t, "food", wire.Name)
		assert.Equal(t, AutoColor("food"), wire.Color, "missing colors come from the palette")

		json.NewEncoder(w).Encode(model.Tag{ID: wire.ID, Name: wire.Name, Color: wire.Color})
	}))

	tag, err := c.Create(context.Background(), "food", "")
	require.NoError(t, err)
	assert.Equal(t, "food", tag.Name)
	assert.NotEmpty(t, tag.ID)
}

func TestCreate_Conflict(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))

	_, err := c.Create(context.Background(), "food", "")
	require.ErrorIs(t, err, ErrDuplicateTag)
}

// fakeTagStore scripts the list/create behavior Ensure exercises.
type fakeTagStore struct {
	tags      []model.Tag
	createErr error
	// onCreate runs before create resolves, to simulate a racing writer.
	onCreate func()
	creates  int
}

func (f *fakeTagStore) List(ctx context.Context) ([]model.Tag, error) {
	out := make([]model.Tag, len(f.tags))
	copy(out, f.tags)
	return out, nil
}

func (f *fakeTagStore) Create(ctx context.Context, name, color string) (model.Tag, error) {
	f.creates++
	if f.onCreate != nil {
		f.onCreate()
	}
	if f.createErr != nil {
		return model.Tag{}, f.createErr
	}
	tag := model.Tag{ID: "t-new", Name: name, Color: color}
	f.tags = append(f.tags, tag)
	return tag, nil
}

func (f *fakeTagStore) Update(ctx context.Context, tag model.Tag) (model.Tag, error) {
	return tag, nil
}

func (f *fakeTagStore) Delete(ctx context.Context, id string) error { return nil }

func TestEnsure(t *testing.T) {
	t.Run("reuses existing by case-insensitive name", func(t *testing.T) {
		fake := &fakeTagStore{tags: []model.Tag{{ID: "t1", Name: "Food"}}}
		tag, err := Ensure(context.Background(), fake, "food")
		require.NoError(t, err)
		assert.Equal(t, "t1", tag.ID)
		assert.Zero(t, fake.creates)
	})

	t.Run("creates when missing", func(t *testing.T) {
		fake := &fakeTagStore{}
		tag, err := Ensure(context.Background(), fake, "travel")
		require.NoError(t, err)
		assert.Equal(t, "t-new", tag.ID)
		assert.Equal(t, 1, fake.creates)
	})

	t.Run("conflict resolves to the winner", func(t *testing.T) {
		fake := &fakeTagStore{createErr: ErrDuplicateTag}
		fake.onCreate = func() {
			// Another writer created the tag between list and create.
			fake.tags = append(fake.tags, model.Tag{ID: "t-racer", Name: "travel"})
		}

		tag, err := Ensure(context.Background(), fake, "travel")
		require.NoError(t, err)
		assert.Equal(t, "t-racer", tag.ID)
	})
}

func TestFindByName(t *testing.T) {
	tags := []model.Tag{{ID: "t1", Name: "Food"}, {ID: "t2", Name: "Travel"}}

	tag, ok := FindByName(tags, "FOOD")
	require.True(t, ok)
	assert.Equal(t, "t1", tag.ID)

	_, ok = FindByName(tags, "rent")
	assert.False(t, ok)
}

func TestClosest(t *testing.T) {
	tags := []model.Tag{{Name: "Groceries"}, {Name: "Travel"}}

	suggestion, ok := Closest("travell", tags)
	require.True(t, ok)
	assert.Equal(t, "Travel", suggestion)

	_, ok = Closest("zz", tags)
	assert.False(t, ok, "a far-off name is not a near miss")

	_, ok = Closest("anything", nil)
	assert.False(t, ok)
}
