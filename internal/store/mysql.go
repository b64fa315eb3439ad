package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/pkg/models"
)

// MySQLStore implements the Store interface over database/sql and go-sql-driver/mysql.
// Skills are stored as a JSON array.
type MySQLStore struct {
	db *sql.DB
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

func (s *MySQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *MySQLStore) Close() error {
	return s.db.Close()
}

func (s *MySQLStore) CreateRun(ctx context.Context, run *models.Run) error {
	now := time.Now().UTC()
	if run.CreatedAt.IsZero() {
		run.CreatedAt = now
	}
	if run.UpdatedAt.IsZero() {
		run.UpdatedAt = now
	}
	if run.Skills == nil {
		run.Skills = []string{}
	}
	skills, err := json.Marshal(run.Skills)
	if err != nil {
		return fmt.Errorf("encode skills: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analysis_runs (`+runColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID.String(), run.Role, string(skills), run.Status, run.Progress, run.Message, run.ResultFile,
		run.ErrorMessage, run.StartedAt.UTC(), run.CompletedAt, run.CreatedAt, run.UpdatedAt)
	if err != nil {
		if isMySQLDuplicate(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create run: %w", err)
	}
	return nil
}

func (s *MySQLStore) GetRun(ctx context.Context, id uuid.UUID) (*models.Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM analysis_runs WHERE id = ?`, id.String())
	r, err := scanMySQLRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return r, nil
}

func (s *MySQLStore) ListRuns(ctx context.Context, limit int) ([]*models.Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM analysis_runs ORDER BY started_at DESC LIMIT ?`, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := []*models.Run{}
	for rows.Next() {
		r, err := scanMySQLRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *MySQLStore) UpdateRunStatus(ctx context.Context, id uuid.UUID, status string, opts ...RunUpdateOption) error {
	params := collect(opts)

	var currentStatus string
	err := s.db.QueryRowContext(ctx, `SELECT status FROM analysis_runs WHERE id = ?`, id.String()).Scan(&currentStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get run status: %w", err)
	}

	if err := checkTransition(currentStatus, status); err != nil {
		return err
	}

	now := time.Now().UTC()
	sets := []string{"status = ?", "updated_at = ?"}
	args := []any{status, now}

	if isTerminal(status) {
		sets = append(sets, "completed_at = ?")
		args = append(args, now)
	}
	if params.Progress != nil {
		sets = append(sets, "progress = ?")
		args = append(args, *params.Progress)
	}
	if params.Message != nil {
		sets = append(sets, "message = ?")
		args = append(args, *params.Message)
	}
	if params.ResultFile != nil {
		sets = append(sets, "result_file = ?")
		args = append(args, *params.ResultFile)
	}
	if params.ErrorMessage != nil {
		sets = append(sets, "error_message = ?")
		args = append(args, *params.ErrorMessage)
	}
	args = append(args, id.String())

	_, err = s.db.ExecContext(ctx,
		`UPDATE analysis_runs SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update run status: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMySQLRun(row rowScanner) (*models.Run, error) {
	var (
		r      models.Run
		skills []byte
	)
	err := row.Scan(&r.ID, &r.Role, &skills, &r.Status, &r.Progress, &r.Message, &r.ResultFile,
		&r.ErrorMessage, &r.StartedAt, &r.CompletedAt, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(skills, &r.Skills); err != nil {
		return nil, fmt.Errorf("decode skills: %w", err)
	}
	return &r, nil
}

func isMySQLDuplicate(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062 // ER_DUP_ENTRY
	}
	return false
}
