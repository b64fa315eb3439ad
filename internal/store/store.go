package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/internal/config"
	"github.com/thomthomthomas/SMART-CAREER-Singapore/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")
var ErrInvalidTransition = errors.New("invalid run status transition")

// Store is the run history interface. All database operations go through here.
type Store interface {
	Ping(ctx context.Context) error
	Close() error

	CreateRun(ctx context.Context, run *models.Run) error
	GetRun(ctx context.Context, id uuid.UUID) (*models.Run, error)
	ListRuns(ctx context.Context, limit int) ([]*models.Run, error)
	UpdateRunStatus(ctx context.Context, id uuid.UUID, status string, opts ...RunUpdateOption) error
}

const (
	dialectPostgres = "postgres"
	dialectMySQL    = "mysql"
)

// DefaultListLimit caps ListRuns when the caller passes a non-positive limit.
const DefaultListLimit = 50

// Open connects to the database named by cfg.URL. The scheme picks the
// implementation: postgres:// and postgresql:// use pgx, mysql:// uses
// go-sql-driver/mysql.
func Open(ctx context.Context, cfg config.DatabaseConfig) (Store, error) {
	dialect, err := dialectOf(cfg.URL)
	if err != nil {
		return nil, err
	}
	switch dialect {
	case dialectMySQL:
		db, err := ConnectMySQL(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewMySQLStore(db), nil
	default:
		pool, err := Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(pool), nil
	}
}

func dialectOf(url string) (string, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return dialectPostgres, nil
	case strings.HasPrefix(url, "mysql://"):
		return dialectMySQL, nil
	default:
		return "", fmt.Errorf("unsupported database URL scheme: %q", url)
	}
}

// validTransitions lists the statuses a run may move to. A running run may
// also be updated in place to record progress.
var validTransitions = map[string][]string{
	models.JobStatusRunning: {models.JobStatusRunning, models.JobStatusCompleted, models.JobStatusError},
}

func checkTransition(from, to string) error {
	for _, a := range validTransitions[from] {
		if a == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

func isTerminal(status string) bool {
	return status == models.JobStatusCompleted || status == models.JobStatusError
}

type runUpdateParams struct {
	Progress     *int
	Message      *string
	ResultFile   *string
	ErrorMessage *string
}

type RunUpdateOption func(*runUpdateParams)

func WithProgress(progress int) RunUpdateOption {
	return func(p *runUpdateParams) {
		p.Progress = &progress
	}
}

func WithMessage(msg string) RunUpdateOption {
	return func(p *runUpdateParams) {
		p.Message = &msg
	}
}

func WithResultFile(path string) RunUpdateOption {
	return func(p *runUpdateParams) {
		p.ResultFile = &path
	}
}

func WithErrorMessage(msg string) RunUpdateOption {
	return func(p *runUpdateParams) {
		p.ErrorMessage = &msg
	}
}

func collect(opts []RunUpdateOption) *runUpdateParams {
	params := &runUpdateParams{}
	for _, opt := range opts {
		opt(params)
	}
	return params
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
