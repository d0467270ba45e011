package store

import (
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costwise/costwise/internal/domain"
	"github.com/costwise/costwise/internal/logging"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:", logging.New(io.Discard, "error"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleAnalysis(created time.Time) *domain.Analysis {
	req := domain.DefaultRequirements()
	return &domain.Analysis{
		ID:           uuid.NewString(),
		Type:         domain.AnalysisComprehensive,
		Status:       domain.StatusCompleted,
		Requirements: req,
		Result: &domain.AnalysisResult{
			Recommendation: domain.Recommendation{
				Provider:   "gcp",
				Confidence: 0.42,
				Summary:    "GCP saves money",
			},
			Report: "# Cloud Cost Analysis",
		},
		Recommendation: "gcp",
		SavingsPercent: 12.5,
		CreatedAt:      created,
	}
}

func runStoreTests(t *testing.T, s AnalysisStore) {
	t.Run("PutGet", func(t *testing.T) {
		a := sampleAnalysis(time.Now().UTC().Truncate(time.Second))
		require.NoError(t, s.Put(a))

		got, err := s.Get(a.ID)
		require.NoError(t, err)
		assert.Equal(t, a.ID, got.ID)
		assert.Equal(t, domain.AnalysisComprehensive, got.Type)
		assert.Equal(t, domain.StatusCompleted, got.Status)
		assert.Equal(t, a.Requirements, got.Requirements)
		require.NotNil(t, got.Result)
		assert.Equal(t, "gcp", got.Result.Recommendation.Provider)
		assert.InDelta(t, 12.5, got.SavingsPercent, 1e-9)
		assert.True(t, a.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("GetMissing", func(t *testing.T) {
		_, err := s.Get("no-such-id")
		assert.ErrorIs(t, err, domain.ErrAnalysisNotFound)
	})

	t.Run("PutReplaces", func(t *testing.T) {
		a := sampleAnalysis(time.Now().UTC().Truncate(time.Second))
		require.NoError(t, s.Put(a))

		a.Recommendation = "aws"
		a.SavingsPercent = 3.0
		require.NoError(t, s.Put(a))

		got, err := s.Get(a.ID)
		require.NoError(t, err)
		assert.Equal(t, "aws", got.Recommendation)
	})

	t.Run("NilResult", func(t *testing.T) {
		a := sampleAnalysis(time.Now().UTC().Truncate(time.Second))
		a.Status = domain.StatusFailed
		a.Result = nil
		require.NoError(t, s.Put(a))

		got, err := s.Get(a.ID)
		require.NoError(t, err)
		assert.Nil(t, got.Result)
		assert.Equal(t, domain.StatusFailed, got.Status)
	})
}

func TestSQLiteAnalysisStore(t *testing.T) {
	runStoreTests(t, NewSQLiteAnalysisStore(testDB(t)))
}

func TestMemoryAnalysisStore(t *testing.T) {
	runStoreTests(t, NewMemoryAnalysisStore())
}

func runListTests(t *testing.T, s AnalysisStore) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 5; i++ {
		a := sampleAnalysis(base.Add(time.Duration(i) * time.Minute))
		a.Recommendation = fmt.Sprintf("rec-%d", i)
		require.NoError(t, s.Put(a))
		ids = append(ids, a.ID)
	}

	t.Run("NewestFirst", func(t *testing.T) {
		sums, err := s.List(0)
		require.NoError(t, err)
		require.Len(t, sums, 5)
		assert.Equal(t, ids[4], sums[0].ID)
		assert.Equal(t, ids[0], sums[4].ID)
	})

	t.Run("Limit", func(t *testing.T) {
		sums, err := s.List(2)
		require.NoError(t, err)
		require.Len(t, sums, 2)
		assert.Equal(t, "rec-4", sums[0].Recommendation)
		assert.Equal(t, "rec-3", sums[1].Recommendation)
	})
}

func TestSQLiteAnalysisStore_List(t *testing.T) {
	runListTests(t, NewSQLiteAnalysisStore(testDB(t)))
}

func TestMemoryAnalysisStore_List(t *testing.T) {
	runListTests(t, NewMemoryAnalysisStore())
}

func TestOpen_RunsMigrations(t *testing.T) {
	db := testDB(t)

	var count int
	err := db.SQL().QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, len(migrations), count)

	_, err = db.SQL().Exec("SELECT id, type, status FROM analyses LIMIT 1")
	assert.NoError(t, err)
}
