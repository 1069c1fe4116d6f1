package service

import (
	"database/sql"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NinaPoglic/boar-telemetry-go/internal/database"
	"github.com/NinaPoglic/boar-telemetry-go/internal/models"
	"github.com/NinaPoglic/boar-telemetry-go/internal/repository"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func TestGetEntitiesMovementFootprint(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewFixRepository(db)

	// Four fixes at distance 5 from their centroid at the origin.
	base := int64(1678752000)
	_, err := repo.InsertFixes([]models.Fix{
		{EntityID: "boar-01", Timestamp: base, X: 5, Y: 0},
		{EntityID: "boar-01", Timestamp: base + 3600, X: -5, Y: 0},
		{EntityID: "boar-01", Timestamp: base + 7200, X: 0, Y: 5},
		{EntityID: "boar-01", Timestamp: base + 10800, X: 0, Y: -5},
		{EntityID: "boar-02", Timestamp: base, X: 100, Y: 200},
	})
	require.NoError(t, err)

	entities, err := NewFixService(repo).GetEntities()
	require.NoError(t, err)
	require.Len(t, entities, 2)

	first := entities[0]
	assert.Equal(t, "boar-01", first.EntityID)
	assert.Equal(t, int64(4), first.FixCount)
	assert.InDelta(t, 20+math.Sqrt(50), first.PathLengthMeters, 1e-9)
	assert.InDelta(t, 0, first.CentroidX, 1e-9)
	assert.InDelta(t, 0, first.CentroidY, 1e-9)
	assert.InDelta(t, 5, first.RadiusOfGyrationMeters, 1e-9)

	// A single fix has no path and no spread.
	second := entities[1]
	assert.Equal(t, "boar-02", second.EntityID)
	assert.Equal(t, 0.0, second.PathLengthMeters)
	assert.Equal(t, 100.0, second.CentroidX)
	assert.Equal(t, 200.0, second.CentroidY)
	assert.Equal(t, 0.0, second.RadiusOfGyrationMeters)
}
