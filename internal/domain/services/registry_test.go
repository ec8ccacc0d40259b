package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/trope-crawler/internal/domain/entities"
)

func TestRegistry_AssignSequence(t *testing.T) {
	r := NewRegistry()

	names := []string{"ChekhovsGun", "BigBad", "TheHero", "RedHerring"}
	var ids []string
	for _, name := range names {
		_, ok := r.Lookup(name)
		require.False(t, ok)
		ids = append(ids, r.Assign(name))
	}

	assert.Equal(t, []string{"tr00001", "tr00002", "tr00003", "tr00004"}, ids)
	assert.Equal(t, 4, r.Len())

	seen := make(map[string]bool)
	for _, id := range ids {
		assert.False(t, seen[id], "id %s assigned twice", id)
		seen[id] = true
	}
}

func TestRegistry_LookupStable(t *testing.T) {
	r := NewRegistry()
	id := r.Assign("ChekhovsGun")

	for range 3 {
		got, ok := r.Lookup("ChekhovsGun")
		require.True(t, ok)
		assert.Equal(t, id, got)
	}
}

func TestRegistry_CaseSensitiveNames(t *testing.T) {
	r := NewRegistry()
	a := r.Assign("BigBad")
	_, ok := r.Lookup("bigbad")
	require.False(t, ok)
	b := r.Assign("bigbad")
	assert.NotEqual(t, a, b)
}

func TestRegistry_Resolve(t *testing.T) {
	r := NewRegistry()

	id, created := r.Resolve("foo")
	assert.True(t, created)
	assert.Equal(t, "tr00001", id)

	again, created := r.Resolve("foo")
	assert.False(t, created)
	assert.Equal(t, id, again)
	assert.Equal(t, 1, r.Len())
}

func TestLoadRegistry_ContinuesSequence(t *testing.T) {
	const k = 7
	prior := make([]entities.Trope, 0, k)
	for i := 1; i <= k; i++ {
		prior = append(prior, entities.Trope{ID: entities.FormatID(i), Name: fmt.Sprintf("Trope%d", i)})
	}

	r, err := LoadRegistry(prior)
	require.NoError(t, err)

	id, ok := r.Lookup("Trope3")
	require.True(t, ok)
	assert.Equal(t, "tr00003", id)

	assert.Equal(t, "tr00008", r.Assign("Fresh"))
}

func TestLoadRegistry_Errors(t *testing.T) {
	tests := []struct {
		name   string
		tropes []entities.Trope
		err    error
	}{
		{
			name:   "duplicate name",
			tropes: []entities.Trope{{ID: "tr00001", Name: "A"}, {ID: "tr00002", Name: "A"}},
			err:    entities.ErrDuplicateName,
		},
		{
			name:   "duplicate id",
			tropes: []entities.Trope{{ID: "tr00001", Name: "A"}, {ID: "tr00001", Name: "B"}},
			err:    entities.ErrDuplicateID,
		},
		{
			name:   "malformed id",
			tropes: []entities.Trope{{ID: "trope-1", Name: "A"}},
			err:    entities.ErrInvalidID,
		},
		{
			name:   "gap in sequence",
			tropes: []entities.Trope{{ID: "tr00001", Name: "A"}, {ID: "tr00003", Name: "B"}},
			err:    entities.ErrIDOutOfSequence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadRegistry(tt.tropes)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestLoadRegistry_UnorderedRows(t *testing.T) {
	r, err := LoadRegistry([]entities.Trope{{ID: "tr00002", Name: "B"}, {ID: "tr00001", Name: "A"}})
	require.NoError(t, err)
	assert.Equal(t, "tr00003", r.Assign("C"))
}

func TestRegistry_TropesIsCopy(t *testing.T) {
	r := NewRegistry()
	r.Assign("A")

	tropes := r.Tropes()
	tropes[0].Name = "mutated"

	id, ok := r.Lookup("A")
	require.True(t, ok)
	assert.Equal(t, "A", r.Tropes()[0].Name)
	assert.Equal(t, "tr00001", id)
}

func TestRelationTable(t *testing.T) {
	prior := []entities.Relation{{ParentID: "p1", TropeID: "tr00001"}}
	table := NewRelationTable(prior)
	prior[0].ParentID = "mutated"

	table.Append(
		entities.Relation{ParentID: "p1", TropeID: "tr00001"},
		entities.Relation{ParentID: "p2", TropeID: "tr00001"},
	)
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, "p1", table.Rows()[0].ParentID)

	removed := table.Dedupe()
	assert.Equal(t, 1, removed)
	assert.Equal(t, []entities.Relation{
		{ParentID: "p1", TropeID: "tr00001"},
		{ParentID: "p2", TropeID: "tr00001"},
	}, table.Rows())
}
