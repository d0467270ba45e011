package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/costwise/costwise/internal/domain"
)

// AnalysisStore persists completed analysis runs.
type AnalysisStore interface {
	// Put stores an analysis. An existing analysis with the same ID is
	// replaced.
	Put(a *domain.Analysis) error

	// Get returns one analysis by ID, or domain.ErrAnalysisNotFound.
	Get(id string) (*domain.Analysis, error)

	// List returns summaries of the most recent analyses, newest first.
	// A non-positive limit means no limit.
	List(limit int) ([]domain.AnalysisSummary, error)
}

// SQLiteAnalysisStore implements AnalysisStore backed by SQLite.
type SQLiteAnalysisStore struct {
	db *DB
}

// NewSQLiteAnalysisStore creates an analysis store using the given database.
func NewSQLiteAnalysisStore(db *DB) *SQLiteAnalysisStore {
	return &SQLiteAnalysisStore{db: db}
}

func (s *SQLiteAnalysisStore) Put(a *domain.Analysis) error {
	reqJSON, err := json.Marshal(a.Requirements)
	if err != nil {
		return fmt.Errorf("encoding requirements: %w", err)
	}

	var resultJSON any
	if a.Result != nil {
		data, err := json.Marshal(a.Result)
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		resultJSON = string(data)
	}

	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.db.sql.Exec(
		`INSERT OR REPLACE INTO analyses
		 (id, type, status, recommendation, savings_percent, requirements, result, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, string(a.Type), string(a.Status), a.Recommendation,
		a.SavingsPercent, string(reqJSON), resultJSON, createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("storing analysis: %w", err)
	}
	return nil
}

func (s *SQLiteAnalysisStore) Get(id string) (*domain.Analysis, error) {
	var (
		a          domain.Analysis
		typ        string
		status     string
		reqJSON    string
		resultJSON sql.NullString
		createdAt  string
	)
	err := s.db.sql.QueryRow(
		`SELECT id, type, status, recommendation, savings_percent, requirements, result, created_at
		 FROM analyses WHERE id = ?`, id,
	).Scan(&a.ID, &typ, &status, &a.Recommendation, &a.SavingsPercent, &reqJSON, &resultJSON, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAnalysisNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading analysis: %w", err)
	}

	a.Type = domain.AnalysisType(typ)
	a.Status = domain.AnalysisStatus(status)
	if err := json.Unmarshal([]byte(reqJSON), &a.Requirements); err != nil {
		return nil, fmt.Errorf("decoding requirements: %w", err)
	}
	if resultJSON.Valid {
		a.Result = &domain.AnalysisResult{}
		if err := json.Unmarshal([]byte(resultJSON.String), a.Result); err != nil {
			return nil, fmt.Errorf("decoding result: %w", err)
		}
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		a.CreatedAt = t
	}
	return &a, nil
}

func (s *SQLiteAnalysisStore) List(limit int) ([]domain.AnalysisSummary, error) {
	query := `SELECT id, type, status, recommendation, savings_percent, created_at
	          FROM analyses ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.sql.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing analyses: %w", err)
	}
	defer rows.Close()

	var out []domain.AnalysisSummary
	for rows.Next() {
		var (
			sum       domain.AnalysisSummary
			typ       string
			status    string
			createdAt string
		)
		if err := rows.Scan(&sum.ID, &typ, &status, &sum.Recommendation, &sum.SavingsPercent, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning analysis: %w", err)
		}
		sum.Type = domain.AnalysisType(typ)
		sum.Status = domain.AnalysisStatus(status)
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			sum.CreatedAt = t
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// MemoryAnalysisStore implements AnalysisStore in memory. Used when history
// persistence is disabled and in tests.
type MemoryAnalysisStore struct {
	mu       sync.RWMutex
	analyses map[string]*domain.Analysis
}

// NewMemoryAnalysisStore creates an empty in-memory analysis store.
func NewMemoryAnalysisStore() *MemoryAnalysisStore {
	return &MemoryAnalysisStore{analyses: make(map[string]*domain.Analysis)}
}

func (s *MemoryAnalysisStore) Put(a *domain.Analysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *a
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	s.analyses[cp.ID] = &cp
	return nil
}

func (s *MemoryAnalysisStore) Get(id string) (*domain.Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.analyses[id]
	if !ok {
		return nil, domain.ErrAnalysisNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *MemoryAnalysisStore) List(limit int) ([]domain.AnalysisSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.AnalysisSummary, 0, len(s.analyses))
	for _, a := range s.analyses {
		out = append(out, domain.AnalysisSummary{
			ID:             a.ID,
			Type:           a.Type,
			Status:         a.Status,
			Recommendation: a.Recommendation,
			SavingsPercent: a.SavingsPercent,
			CreatedAt:      a.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
