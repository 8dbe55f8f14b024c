// Package importer 协调一次汇总运行：并发加载各月份、清洗、汇总、合成与写出。
package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"salestrack/internal/aggregator"
	"salestrack/internal/config"
	"salestrack/internal/exporter"
	"salestrack/internal/model"
	"salestrack/internal/normalizer"
	"salestrack/internal/parser"
	"salestrack/internal/rollup"
	"salestrack/internal/source"
	"salestrack/internal/store"
)

// Coordinator 汇总运行协调器
type Coordinator struct {
	cfg    *config.AppConfig
	src    source.Source
	writer exporter.Writer
	store  *store.Store
	logger zerolog.Logger
	now    func() time.Time
}

// NewCoordinator 创建协调器；writer 为空时不写出
func NewCoordinator(cfg *config.AppConfig, src source.Source, writer exporter.Writer, logger zerolog.Logger) *Coordinator {
	return &Coordinator{
		cfg:    cfg,
		src:    src,
		writer: writer,
		logger: logger,
		now:    time.Now,
	}
}

// WithStore 记录运行结果到运行记录库
func (c *Coordinator) WithStore(s *store.Store) *Coordinator {
	c.store = s
	return c
}

// RunOptions 运行选项
type RunOptions struct {
	Profile     string            // 为空使用 active_profile
	Granularity model.Granularity // 为空使用口径默认粒度
	RunDate     time.Time         // 为空使用当前时间
	Write       bool              // 是否写出到输出工作簿
	Progress    chan<- ProgressEvent
}

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string      `json:"type"`    // start/month_done/month_skipped/write/done
	Message   string      `json:"message"` // 事件消息
	Data      interface{} `json:"data"`    // 附加数据
	Timestamp time.Time   `json:"timestamp"`
}

// Report 运行结果
type Report struct {
	RunID        string               `json:"runId"`
	Profile      string               `json:"profile"`
	Granularity  model.Granularity    `json:"granularity"`
	RunDate      string               `json:"runDate"`
	CurrentMonth string               `json:"currentMonth"`
	Outcomes     []model.MonthOutcome `json:"outcomes"`
	Skipped      []string             `json:"skipped"`
	Rows         []model.RollupRow    `json:"rows"`
	Table        model.Table          `json:"table"`
	OrderBook    aggregator.OrderBook `json:"orderBook"`
	Written      bool                 `json:"written"`
	Duration     time.Duration        `json:"duration"`
}

// LoadedMonths 成功加载的月份数
func (r *Report) LoadedMonths() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Loaded() {
			n++
		}
	}
	return n
}

type monthResult struct {
	outcome model.MonthOutcome
	rows    []model.NormalizedRow
}

// Run 执行一次汇总
//
// 单月失败只跳过该月，不影响其他月份；全部月份失败时返回 ErrNoMonthsLoaded。
// 写出失败视为整次运行失败。
func (c *Coordinator) Run(ctx context.Context, opts RunOptions) (*Report, error) {
	startTime := c.now()

	profile, err := c.cfg.Profile(opts.Profile)
	if err != nil {
		return nil, err
	}
	g := opts.Granularity
	if g == "" {
		g, err = model.ParseGranularity(profile.Granularity)
		if err != nil {
			return nil, err
		}
	}
	rng, err := source.ParseRange(c.cfg.Source.Range)
	if err != nil {
		return nil, fmt.Errorf("source range: %w", err)
	}
	layout, err := parser.NewLayout(profile.Columns)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", profile.Name, err)
	}

	runDate := opts.RunDate
	if runDate.IsZero() {
		runDate = startTime
	}
	rc := NewRunContext(uuid.NewString(), runDate, profile, g)
	logger := c.logger.With().
		Str("run", rc.RunID).
		Str("profile", profile.Name).
		Str("granularity", string(g)).
		Logger()

	report := &Report{
		RunID:        rc.RunID,
		Profile:      profile.Name,
		Granularity:  g,
		RunDate:      runDate.Format("2006-01-02"),
		CurrentMonth: rc.CurrentMonth,
		Skipped:      []string{},
	}

	if c.store != nil {
		if err := c.store.CreateRun(store.Run{
			ID:           rc.RunID,
			Profile:      profile.Name,
			Granularity:  string(g),
			RunDate:      report.RunDate,
			CurrentMonth: rc.CurrentMonth,
			StartedAt:    startTime,
		}); err != nil {
			logger.Warn().Err(err).Msg("run log unavailable")
		}
	}

	c.sendProgress(opts.Progress, ProgressEvent{
		Type:      "start",
		Message:   fmt.Sprintf("开始汇总 %d 个月份", len(rc.Months)),
		Data:      rc.Months,
		Timestamp: time.Now(),
	})

	results, err := c.loadMonths(ctx, rc, rng, layout, logger, opts.Progress)
	if err != nil {
		c.finish(rc.RunID, report, err, logger)
		return nil, err
	}

	var all []model.NormalizedRow
	for _, res := range results {
		report.Outcomes = append(report.Outcomes, res.outcome)
		if !res.outcome.Loaded() {
			report.Skipped = append(report.Skipped, res.outcome.Month)
			continue
		}
		all = append(all, res.rows...)
		if rc.IsCurrent(res.outcome.Month) {
			rc.setCurrentRows(res.rows)
		}
	}

	if report.LoadedMonths() == 0 {
		report.Duration = time.Since(startTime)
		logger.Error().Strs("skipped", report.Skipped).Msg("no months loaded")
		c.finish(rc.RunID, report, model.ErrNoMonthsLoaded, logger)
		return report, model.ErrNoMonthsLoaded
	}

	agg := aggregator.New(aggregator.OptionsFromProfile(profile))
	members := agg.Summarize(g, all, rc.CurrentRows())
	report.Rows = rollup.Build(g, members, rollup.LabelsFromProfile(profile))
	report.Table = rollup.Present(g, report.Rows, profile.ReportUnit)
	report.OrderBook = aggregator.OrderBookFromProfile(profile, rc.CurrentMonth, rc.CurrentRows())

	if opts.Write && c.writer != nil {
		c.sendProgress(opts.Progress, ProgressEvent{
			Type:      "write",
			Message:   fmt.Sprintf("写出 %d 行到 %s", len(report.Table.Rows), profile.OutputSection),
			Timestamp: time.Now(),
		})
		dest := exporter.Destination{
			Range:   profile.OutputRange,
			Append:  c.cfg.Output.Append,
			Section: profile.OutputSection,
		}
		if err := c.writer.WriteTable(ctx, report.Table, dest); err != nil {
			err = fmt.Errorf("write report: %w", err)
			c.finish(rc.RunID, report, err, logger)
			return nil, err
		}
		report.Written = true
	}

	report.Duration = time.Since(startTime)
	c.finish(rc.RunID, report, nil, logger)

	logger.Info().
		Int("loaded", report.LoadedMonths()).
		Strs("skipped", report.Skipped).
		Int("rows", len(report.Table.Rows)).
		Bool("written", report.Written).
		Dur("took", report.Duration).
		Msg("run finished")

	c.sendProgress(opts.Progress, ProgressEvent{
		Type:      "done",
		Message:   "汇总完成",
		Data:      report,
		Timestamp: time.Now(),
	})
	return report, nil
}

// loadMonths 并发加载并清洗各月份；结果按月份顺序返回
func (c *Coordinator) loadMonths(ctx context.Context, rc *RunContext, rng source.CellRange, layout *parser.Layout, logger zerolog.Logger, progress chan<- ProgressEvent) ([]monthResult, error) {
	loader := parser.NewLoader(c.src, rng, layout, rc.Profile.VerifyHeaders)
	norm := normalizer.New(normalizer.OptionsFromProfile(rc.Profile))
	timeout := time.Duration(c.cfg.Source.MonthTimeoutSeconds) * time.Second

	results := make([]monthResult, len(rc.Months))
	var g errgroup.Group
	if c.cfg.Source.Workers > 0 {
		g.SetLimit(c.cfg.Source.Workers)
	}
	for i, month := range rc.Months {
		g.Go(func() error {
			results[i] = c.loadMonth(ctx, loader, norm, month, timeout)
			c.reportMonth(results[i].outcome, logger, progress)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Coordinator) loadMonth(ctx context.Context, loader *parser.Loader, norm *normalizer.Normalizer, month string, timeout time.Duration) monthResult {
	mctx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		mctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	raw, err := loader.LoadMonth(mctx, month)
	if err != nil {
		return monthResult{outcome: model.MonthOutcome{
			Month: month,
			Kind:  classify(err),
			Error: err.Error(),
		}}
	}

	rows, stats := norm.Normalize(month, raw)
	return monthResult{
		rows: rows,
		outcome: model.MonthOutcome{
			Month:        month,
			Kind:         model.OutcomeLoaded,
			RawRows:      stats.RawRows,
			KeptRows:     stats.KeptRows,
			Unattributed: stats.Unattributed,
			Coerced:      stats.Coerced,
		},
	}
}

func classify(err error) model.OutcomeKind {
	var mismatch *model.SchemaMismatchError
	switch {
	case errors.As(err, &mismatch):
		return model.OutcomeSchemaMismatch
	case errors.Is(err, context.DeadlineExceeded):
		return model.OutcomeTimeout
	default:
		return model.OutcomeSourceUnavailable
	}
}

func (c *Coordinator) reportMonth(o model.MonthOutcome, logger zerolog.Logger, progress chan<- ProgressEvent) {
	if !o.Loaded() {
		logger.Warn().
			Str("month", o.Month).
			Str("kind", string(o.Kind)).
			Str("err", o.Error).
			Msg("month skipped")
		c.sendProgress(progress, ProgressEvent{
			Type:      "month_skipped",
			Message:   fmt.Sprintf("跳过 %s: %s", o.Month, o.Kind),
			Data:      o,
			Timestamp: time.Now(),
		})
		return
	}

	ev := logger.Debug()
	if o.Coerced > 0 {
		ev = logger.Warn()
	}
	ev.Str("month", o.Month).
		Int("rows", o.KeptRows).
		Int("unattributed", o.Unattributed).
		Int("coerced", o.Coerced).
		Msg("month loaded")
	c.sendProgress(progress, ProgressEvent{
		Type:      "month_done",
		Message:   fmt.Sprintf("已加载 %s（%d 行）", o.Month, o.KeptRows),
		Data:      o,
		Timestamp: time.Now(),
	})
}

// finish 写回运行记录；记录失败只告警
func (c *Coordinator) finish(runID string, report *Report, runErr error, logger zerolog.Logger) {
	if c.store == nil {
		return
	}
	for _, o := range report.Outcomes {
		if err := c.store.InsertMonthOutcome(runID, o); err != nil {
			logger.Warn().Err(err).Str("month", o.Month).Msg("record month outcome failed")
		}
	}

	res := store.RunResult{
		Status:        store.RunStatusSuccess,
		LoadedMonths:  report.LoadedMonths(),
		SkippedMonths: len(report.Skipped),
		Written:       report.Written,
	}
	switch {
	case runErr != nil:
		res.Status = store.RunStatusFailed
		res.ErrorMessage = runErr.Error()
	case len(report.Skipped) > 0:
		res.Status = store.RunStatusPartial
	}
	if runErr == nil {
		table := report.Table
		res.Table = &table
	}
	if err := c.store.FinishRun(runID, res); err != nil {
		logger.Warn().Err(err).Msg("record run result failed")
	}
}

// sendProgress 发送进度事件
func (c *Coordinator) sendProgress(ch chan<- ProgressEvent, event ProgressEvent) {
	if ch == nil {
		return
	}
	select {
	case ch <- event:
	default:
		// 通道已满，丢弃事件
	}
}
