package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/trope-crawler/internal/domain/entities"
	"github.com/ersonp/trope-crawler/internal/domain/mocks"
	"github.com/ersonp/trope-crawler/internal/domain/services"
)

func newQueryService() *services.QueryService {
	return services.NewQueryService(mocks.NewCheckpointStore(&entities.Snapshot{
		Tropes: []entities.Trope{
			{ID: "tr00001", Name: "foo"},
			{ID: "tr00002", Name: "bar"},
		},
		Relations: []entities.Relation{
			{ParentID: "p1", TropeID: "tr00001"},
			{ParentID: "p1", TropeID: "tr00002"},
			{ParentID: "p2", TropeID: "tr00002"},
		},
	}))
}

func TestTropeHandler_HandleList(t *testing.T) {
	handler := NewTropeHandler(newQueryService())

	result, err := handler.HandleList(t.Context(), "BA", 10)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	require.Len(t, result.Tropes, 1)
	assert.Equal(t, "tr00002", result.Tropes[0].ID)
	assert.Equal(t, 2, result.Tropes[0].Movies)
}

func TestTropeHandler_HandleTop(t *testing.T) {
	handler := NewTropeHandler(newQueryService())

	result, err := handler.HandleTop(t.Context(), 1)
	require.NoError(t, err)
	require.Len(t, result.Tropes, 1)
	assert.Equal(t, "bar", result.Tropes[0].Name)
}

func TestTropeHandler_HandleStats(t *testing.T) {
	handler := NewTropeHandler(newQueryService())

	stats, err := handler.HandleStats(t.Context(), 5)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Tropes)
	assert.Equal(t, 3, stats.Relations)
	assert.Equal(t, 2, stats.Movies)
}

func TestRelationHandler_Handle(t *testing.T) {
	handler := NewRelationHandler(newQueryService())

	result, err := handler.Handle(t.Context(), " p1 ")
	require.NoError(t, err)
	assert.Equal(t, "p1", result.MovieID)
	assert.Equal(t, []entities.Trope{
		{ID: "tr00001", Name: "foo"},
		{ID: "tr00002", Name: "bar"},
	}, result.Tropes)

	_, err = handler.Handle(t.Context(), "  ")
	require.Error(t, err)
}
