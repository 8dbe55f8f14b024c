package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"salestrack/internal/model"
)

// ErrRunNotFound 运行记录不存在
var ErrRunNotFound = errors.New("run not found")

// 运行状态
const (
	RunStatusRunning = "running"
	RunStatusSuccess = "success"
	RunStatusPartial = "partial" // 有月份被跳过
	RunStatusFailed  = "failed"
)

const timeLayout = time.RFC3339

// Run 一次汇总运行
type Run struct {
	ID            string               `json:"id"`
	Profile       string               `json:"profile"`
	Granularity   string               `json:"granularity"`
	RunDate       string               `json:"runDate"`
	CurrentMonth  string               `json:"currentMonth"`
	Status        string               `json:"status"`
	ErrorMessage  string               `json:"errorMessage,omitempty"`
	LoadedMonths  int                  `json:"loadedMonths"`
	SkippedMonths int                  `json:"skippedMonths"`
	Written       bool                 `json:"written"`
	StartedAt     time.Time            `json:"startedAt"`
	CompletedAt   *time.Time           `json:"completedAt,omitempty"`
	Months        []model.MonthOutcome `json:"months,omitempty"`
	Table         *model.Table         `json:"table,omitempty"`
}

// RunResult 运行结束时写回的结果
type RunResult struct {
	Status        string
	ErrorMessage  string
	LoadedMonths  int
	SkippedMonths int
	Written       bool
	Table         *model.Table
}

// CreateRun 登记一次运行，状态为 running
func (s *Store) CreateRun(run Run) error {
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	_, err := s.db.Exec(`
		INSERT INTO runs (id, profile, granularity, run_date, current_month, status, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Profile, run.Granularity, run.RunDate, run.CurrentMonth, RunStatusRunning,
		run.StartedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// InsertMonthOutcome 记录单月加载结果
func (s *Store) InsertMonthOutcome(runID string, o model.MonthOutcome) error {
	_, err := s.db.Exec(`
		INSERT INTO run_months (
			run_id, month, kind, error_message,
			raw_rows, kept_rows, unattributed, coerced
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, month) DO UPDATE SET
			kind = excluded.kind,
			error_message = excluded.error_message,
			raw_rows = excluded.raw_rows,
			kept_rows = excluded.kept_rows,
			unattributed = excluded.unattributed,
			coerced = excluded.coerced
	`,
		runID, o.Month, string(o.Kind), o.Error,
		o.RawRows, o.KeptRows, o.Unattributed, o.Coerced,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run month %s: %w", o.Month, err)
	}
	return nil
}

// FinishRun 写回运行结果
func (s *Store) FinishRun(id string, res RunResult) error {
	tableJSON := ""
	if res.Table != nil {
		b, err := json.Marshal(res.Table)
		if err != nil {
			return fmt.Errorf("failed to encode run table: %w", err)
		}
		tableJSON = string(b)
	}
	result, err := s.db.Exec(`
		UPDATE runs SET
			status = ?,
			error_message = ?,
			loaded_months = ?,
			skipped_months = ?,
			written = ?,
			table_json = ?,
			completed_at = ?
		WHERE id = ?
	`, res.Status, res.ErrorMessage, res.LoadedMonths, res.SkippedMonths, res.Written, tableJSON,
		time.Now().UTC().Format(timeLayout), id)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finish run %s: %w", id, ErrRunNotFound)
	}
	return nil
}

// ListRuns 最近的运行记录（按开始时间倒序，不含明细）
func (s *Store) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, profile, granularity, run_date, current_month, status, error_message,
			loaded_months, skipped_months, written, started_at, completed_at
		FROM runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs failed: %w", err)
	}
	defer rows.Close()

	out := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs failed: %w", err)
	}
	return out, nil
}

// GetRun 读取单次运行（含月份结果与结果表）
func (s *Store) GetRun(id string) (*Run, error) {
	row := s.db.QueryRow(`
		SELECT id, profile, granularity, run_date, current_month, status, error_message,
			loaded_months, skipped_months, written, started_at, completed_at, table_json
		FROM runs WHERE id = ?
	`, id)

	var tableJSON string
	run, err := scanRun(row, &tableJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, err
	}
	if tableJSON != "" {
		var table model.Table
		if err := json.Unmarshal([]byte(tableJSON), &table); err != nil {
			return nil, fmt.Errorf("decode run table: %w", err)
		}
		run.Table = &table
	}

	months, err := s.listRunMonths(id)
	if err != nil {
		return nil, err
	}
	run.Months = months
	return run, nil
}

func (s *Store) listRunMonths(runID string) ([]model.MonthOutcome, error) {
	rows, err := s.db.Query(`
		SELECT month, kind, error_message, raw_rows, kept_rows, unattributed, coerced
		FROM run_months WHERE run_id = ?
		ORDER BY month
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run months failed: %w", err)
	}
	defer rows.Close()

	var out []model.MonthOutcome
	for rows.Next() {
		var o model.MonthOutcome
		var kind string
		if err := rows.Scan(&o.Month, &kind, &o.Error, &o.RawRows, &o.KeptRows, &o.Unattributed, &o.Coerced); err != nil {
			return nil, fmt.Errorf("scan run month failed: %w", err)
		}
		o.Kind = model.OutcomeKind(kind)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run months failed: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner, extra ...any) (*Run, error) {
	var run Run
	var startedAt, completedAt string
	dest := []any{
		&run.ID, &run.Profile, &run.Granularity, &run.RunDate, &run.CurrentMonth,
		&run.Status, &run.ErrorMessage, &run.LoadedMonths, &run.SkippedMonths, &run.Written,
		&startedAt, &completedAt,
	}
	dest = append(dest, extra...)
	if err := sc.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan run failed: %w", err)
	}
	if t, err := time.Parse(timeLayout, startedAt); err == nil {
		run.StartedAt = t
	}
	if completedAt != "" {
		if t, err := time.Parse(timeLayout, completedAt); err == nil {
			run.CompletedAt = &t
		}
	}
	return &run, nil
}
