package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"salestrack/internal/config"
	"salestrack/internal/exporter"
	"salestrack/internal/importer"
	"salestrack/internal/source"
	"salestrack/internal/store"
)

// app 一次命令执行所需的依赖
type app struct {
	cfg         *config.AppConfig
	logger      zerolog.Logger
	src         source.Source
	store       *store.Store
	coordinator *importer.Coordinator
	runDate     time.Time

	portSpecified bool
}

func newLogger(level string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(out).Level(lvl).With().Timestamp().Str("service", "salestrack").Logger()
}

// setup 加载配置并打开数据源；withStore 时打开运行记录库
func setup(opts *rootOptions, withStore bool) (*app, error) {
	cfg, info, err := config.LoadConfigWithInfo(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.workbook != "" {
		cfg.Source.Workbook = opts.workbook
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.profile != "" {
		cfg.ActiveProfile = opts.profile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := newLogger(cfg.Log.Level)
	if info.FromFile {
		logger.Debug().Str("path", info.Path).Msg("config loaded")
	}

	runDate := time.Time{}
	if opts.date != "" {
		runDate, err = time.ParseInLocation("2006-01-02", opts.date, time.Local)
		if err != nil {
			return nil, fmt.Errorf("invalid --date: %w", err)
		}
	}

	if cfg.Source.Workbook == "" {
		return nil, fmt.Errorf("source workbook is not configured (source.workbook or --workbook)")
	}
	src, err := source.Open(cfg.Source.Workbook)
	if err != nil {
		return nil, err
	}

	var writer exporter.Writer
	if cfg.Output.Workbook != "" {
		writer = exporter.NewXLSXWriter(cfg.Output.Workbook, func(ev exporter.ProgressEvent) {
			logger.Trace().
				Int("percent", ev.Percent).
				Str("stage", ev.Stage).
				Str("section", ev.Section).
				Int("rows", ev.Rows).
				Msg("write progress")
		})
	}

	a := &app{
		cfg:           cfg,
		logger:        logger,
		src:           src,
		runDate:       runDate,
		portSpecified: info.PortSpecified,
	}
	a.coordinator = importer.NewCoordinator(cfg, src, writer, logger)

	if withStore && cfg.Data.RunLog != "" {
		dataDir, err := config.EnsureDataDir(cfg)
		if err != nil {
			logger.Warn().Err(err).Msg("data directory unavailable, run log disabled")
			return a, nil
		}
		st, err := store.New(filepath.Join(dataDir, cfg.Data.RunLog))
		if err != nil {
			logger.Warn().Err(err).Msg("run log disabled")
			return a, nil
		}
		a.store = st
		a.coordinator.WithStore(st)
	}
	return a, nil
}

func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
	if a.src != nil {
		a.src.Close()
	}
}
