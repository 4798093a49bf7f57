package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	dom "github.com/care0717/actix-sample/internal/domain"
)

// DatetimeLayout is the storage encoding of todo.datetime: UTC wall clock,
// whole seconds, no zone suffix. Rows written by any other path must match it
// exactly or fail decoding.
const DatetimeLayout = "2006-01-02T15:04:05"

var (
	// ErrStorage wraps connection acquisition and statement execution failures.
	ErrStorage = errors.New("storage failure")
	// ErrMalformedRecord marks a stored row that does not decode to a valid Todo.
	ErrMalformedRecord = errors.New("malformed record")
)

type TodoRepo interface {
	Insert(ctx context.Context, t dom.Todo) error
	GetByID(ctx context.Context, id uuid.UUID) (dom.Todo, error)
	List(ctx context.Context) ([]dom.Todo, error)
}

// SQLiteTodoRepo is the only component aware of the todo table's column
// encodings; everything above it works with domain values.
type SQLiteTodoRepo struct {
	db *sqlx.DB
}

func NewSQLiteTodoRepo(db *sqlx.DB) *SQLiteTodoRepo {
	return &SQLiteTodoRepo{db: db}
}

// todoRow is the storage shape of a Todo.
type todoRow struct {
	ID          string `db:"id"`
	Description string `db:"description"`
	Done        int64  `db:"done"`
	Datetime    string `db:"datetime"`
}

func encodeRow(t dom.Todo) todoRow {
	var done int64
	if t.Done {
		done = 1
	}
	return todoRow{
		ID:          t.ID.String(),
		Description: t.Description,
		Done:        done,
		Datetime:    t.Datetime.UTC().Format(DatetimeLayout),
	}
}

func decodeRow(r todoRow) (dom.Todo, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return dom.Todo{}, fmt.Errorf("%w: id %q: %v", ErrMalformedRecord, r.ID, err)
	}
	ts, err := time.Parse(DatetimeLayout, r.Datetime)
	if err != nil {
		return dom.Todo{}, fmt.Errorf("%w: datetime %q: %v", ErrMalformedRecord, r.Datetime, err)
	}
	// time.Parse tolerates trailing fractional seconds; the stored form must
	// match the layout exactly.
	if ts.Format(DatetimeLayout) != r.Datetime {
		return dom.Todo{}, fmt.Errorf("%w: datetime %q: not in layout %s", ErrMalformedRecord, r.Datetime, DatetimeLayout)
	}
	return dom.Todo{
		ID:          id,
		Description: r.Description,
		// Only the literal 1 counts as done; any other stored integer
		// (negative, >1) decodes as false.
		Done:     r.Done == 1,
		Datetime: ts,
	}, nil
}

func (r *SQLiteTodoRepo) Insert(ctx context.Context, t dom.Todo) error {
	row := encodeRow(t)
	query, args, err := sq.Insert("todo").
		Columns("id", "description", "done", "datetime").
		Values(row.ID, row.Description, row.Done, row.Datetime).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: build insert: %v", ErrStorage, err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insert todo: %v", ErrStorage, err)
	}
	return nil
}

func (r *SQLiteTodoRepo) GetByID(ctx context.Context, id uuid.UUID) (dom.Todo, error) {
	query, args, err := sq.Select("id", "description", "done", "datetime").
		From("todo").
		Where(sq.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return dom.Todo{}, fmt.Errorf("%w: build select: %v", ErrStorage, err)
	}
	var row todoRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dom.Todo{}, err
		}
		return dom.Todo{}, fmt.Errorf("%w: select todo: %v", ErrStorage, err)
	}
	return decodeRow(row)
}

// List returns all rows in storage-native order; no ORDER BY is applied and
// callers must not rely on any particular order.
func (r *SQLiteTodoRepo) List(ctx context.Context) ([]dom.Todo, error) {
	query, _, err := sq.Select("id", "description", "done", "datetime").
		From("todo").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: build select: %v", ErrStorage, err)
	}
	var rows []todoRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("%w: list todos: %v", ErrStorage, err)
	}
	list := make([]dom.Todo, 0, len(rows))
	for _, row := range rows {
		t, err := decodeRow(row)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, nil
}
