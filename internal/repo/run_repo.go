package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/VanshikaVirmani12/flewid-sub000/internal/domain"
)

// RunRepo хранит историю run'ов в таблице workflow_runs.
type RunRepo struct {
	pool *pgxpool.Pool
}

// NewRunRepo создаёт новый RunRepo.
func NewRunRepo(pool *pgxpool.Pool) *RunRepo {
	return &RunRepo{pool: pool}
}

const runColumns = `id, workflow_id, status, started_at, finished_at, results, output, error, created_at`

// Save создаёт или перезаписывает run.
func (r *RunRepo) Save(ctx context.Context, run *domain.Run) error {
	resultsJSON, err := json.Marshal(resultsOrEmpty(run.Results))
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	var outputJSON []byte
	if run.Output != nil {
		outputJSON, err = json.Marshal(run.Output)
		if err != nil {
			return fmt.Errorf("marshal output: %w", err)
		}
	}

	query := `
		INSERT INTO workflow_runs (` + runColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE
		SET status = EXCLUDED.status,
		    started_at = EXCLUDED.started_at,
		    finished_at = EXCLUDED.finished_at,
		    results = EXCLUDED.results,
		    output = EXCLUDED.output,
		    error = EXCLUDED.error
	`
	_, err = r.pool.Exec(ctx, query,
		run.ID,
		run.WorkflowID,
		string(run.Status),
		run.StartedAt,
		run.FinishedAt,
		resultsJSON,
		outputJSON,
		nullString(run.Error),
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert run: %w", err)
	}
	return nil
}

// SaveRun сохраняет завершённый run. Используется orchestrator'ом как RunRecorder.
func (r *RunRepo) SaveRun(ctx context.Context, run *domain.Run) error {
	if !run.IsFinished() {
		return fmt.Errorf("%w: run %s is %s", ErrInvalidState, run.ID, run.Status)
	}
	return r.Save(ctx, run)
}

// GetByID возвращает run по ID.
func (r *RunRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Run, error) {
	query := `SELECT ` + runColumns + ` FROM workflow_runs WHERE id = $1`

	run, err := scanRun(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return run, err
}

// RunFilter это параметры фильтрации runs.
type RunFilter struct {
	WorkflowID string
	Status     domain.RunStatus
	Limit      int
	Offset     int
}

// List возвращает runs, новые первыми.
func (r *RunRepo) List(ctx context.Context, filter RunFilter) ([]domain.Run, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	query := `
		SELECT ` + runColumns + `
		FROM workflow_runs
		WHERE ($1::text IS NULL OR workflow_id = $1)
		  AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.pool.Query(ctx, query,
		nullString(filter.WorkflowID),
		nullString(string(filter.Status)),
		filter.Limit,
		filter.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// scanRun сканирует одну строку в Run. pgx.Rows тоже реализует pgx.Row.
func scanRun(row pgx.Row) (*domain.Run, error) {
	var run domain.Run
	var status string
	var resultsJSON, outputJSON []byte
	var runError *string

	err := row.Scan(
		&run.ID,
		&run.WorkflowID,
		&status,
		&run.StartedAt,
		&run.FinishedAt,
		&resultsJSON,
		&outputJSON,
		&runError,
		&run.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}

	run.Status = domain.RunStatus(status)
	if runError != nil {
		run.Error = *runError
	}

	if err := decodeRunJSON(&run, resultsJSON, outputJSON); err != nil {
		return nil, err
	}
	return &run, nil
}

// decodeRunJSON восстанавливает JSONB колонки run.
func decodeRunJSON(run *domain.Run, resultsJSON, outputJSON []byte) error {
	run.Results = make([]domain.StepResult, 0)
	if len(resultsJSON) > 0 {
		if err := json.Unmarshal(resultsJSON, &run.Results); err != nil {
			return fmt.Errorf("unmarshal results: %w", err)
		}
	}

	if len(outputJSON) > 0 && string(outputJSON) != "null" {
		var output domain.RunOutput
		if err := json.Unmarshal(outputJSON, &output); err != nil {
			return fmt.Errorf("unmarshal output: %w", err)
		}
		run.Output = &output
	}
	return nil
}

func resultsOrEmpty(results []domain.StepResult) []domain.StepResult {
	if results == nil {
		return []domain.StepResult{}
	}
	return results
}

// nullString возвращает nil для пустой строки (для NULL в БД).
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
