package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/trope-crawler/internal/domain/entities"
	"github.com/ersonp/trope-crawler/internal/domain/mocks"
)

func catalogOf(links ...string) *mocks.CatalogSource {
	parents := make([]entities.Parent, len(links))
	for i, link := range links {
		parents[i] = entities.Parent{ID: string(rune('a' + i)), Locator: link}
	}
	return mocks.NewCatalogSource(parents...)
}

func drain(t *testing.T, e *Enumerator) []entities.Parent {
	t.Helper()
	var out []entities.Parent
	for {
		p, ok, err := e.Next()
		require.NoError(t, err)
		if !ok {
			return out
		}
		out = append(out, p)
	}
}

func TestEnumerator_SkipsEmptyLocators(t *testing.T) {
	e, err := NewEnumerator(catalogOf("u1", "", "u3", "   ", "u5"), 10, 2)
	require.NoError(t, err)

	got := drain(t, e)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"a", "c", "e"}, []string{got[0].ID, got[1].ID, got[2].ID})
	for _, p := range got {
		assert.NotEmpty(t, p.Locator)
	}
}

func TestEnumerator_Cap(t *testing.T) {
	tests := []struct {
		name     string
		links    []string
		limit    int
		expected int
	}{
		{name: "cap below eligible", links: []string{"u1", "u2", "u3", "u4"}, limit: 2, expected: 2},
		{name: "cap above eligible", links: []string{"u1", "", "u3"}, limit: 10, expected: 2},
		{name: "cap equal eligible", links: []string{"u1", "u2"}, limit: 2, expected: 2},
		{name: "empty catalog", links: nil, limit: 5, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEnumerator(catalogOf(tt.links...), tt.limit, 3)
			require.NoError(t, err)
			assert.Len(t, drain(t, e), tt.expected)
			assert.Equal(t, tt.expected, e.Yielded())
		})
	}
}

func TestEnumerator_StopsReadingAtCap(t *testing.T) {
	src := catalogOf("u1", "u2", "u3", "u4")
	e, err := NewEnumerator(src, 2, 5)
	require.NoError(t, err)

	drain(t, e)

	assert.Equal(t, 2, src.Reads)
}

func TestEnumerator_DoesNotDedupeParents(t *testing.T) {
	src := mocks.NewCatalogSource(
		entities.Parent{ID: "m1", Locator: "u"},
		entities.Parent{ID: "m1", Locator: "u"},
	)
	e, err := NewEnumerator(src, 5, 5)
	require.NoError(t, err)
	assert.Len(t, drain(t, e), 2)
}

func TestEnumerator_NextBatch(t *testing.T) {
	e, err := NewEnumerator(catalogOf("u1", "u2", "", "u4", "u5"), 10, 2)
	require.NoError(t, err)

	var sizes []int
	for {
		batch, err := e.NextBatch()
		require.NoError(t, err)
		if len(batch) == 0 {
			break
		}
		sizes = append(sizes, len(batch))
	}

	assert.Equal(t, []int{2, 2}, sizes)

	batch, err := e.NextBatch()
	require.NoError(t, err)
	assert.Empty(t, batch, "enumerator is not restartable")
}

func TestEnumerator_ReadError(t *testing.T) {
	src := catalogOf("u1", "u2")
	src.Err = errors.New("unexpected EOF in quoted field")
	src.ErrAt = 1

	e, err := NewEnumerator(src, 10, 5)
	require.NoError(t, err)

	_, err = e.NextBatch()
	require.ErrorIs(t, err, src.Err)
}

func TestNewEnumerator_InvalidOptions(t *testing.T) {
	_, err := NewEnumerator(catalogOf(), 0, 1)
	require.Error(t, err)

	_, err = NewEnumerator(catalogOf(), 1, 0)
	require.Error(t, err)
}
