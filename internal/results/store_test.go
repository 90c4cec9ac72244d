package results

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	rec := Record{
		RunID:      "run-1",
		Problem:    "gripper-2",
		Generator:  "grounded",
		Algorithm:  "brfs",
		Status:     "solved",
		PlanLength: 5,
		PlanCost:   5,
		Expanded:   12,
		Generated:  44,
		WallMillis: 3,
	}
	require.NoError(t, store.Insert(rec))

	got, err := store.ByProblem("gripper-2")
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, rec.RunID, got[0].RunID)
	assert.Equal(t, rec.Status, got[0].Status)
	assert.Equal(t, rec.PlanLength, got[0].PlanLength)
	assert.Equal(t, rec.Expanded, got[0].Expanded)
	assert.False(t, got[0].CreatedAt.IsZero())
}

func TestStore_DuplicateRunIDRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	rec := Record{RunID: "dup", Problem: "p", Generator: "g", Algorithm: "a", Status: "solved"}
	require.NoError(t, store.Insert(rec))
	assert.Error(t, store.Insert(rec))
}

func TestStore_ByProblemOrdersNewestFirst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	for _, id := range []string{"first", "second"} {
		require.NoError(t, store.Insert(Record{
			RunID: id, Problem: "p", Generator: "g", Algorithm: "a", Status: "solved",
		}))
	}

	got, err := store.ByProblem("p")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "second", got[0].RunID)
}
