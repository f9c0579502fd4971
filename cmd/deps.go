package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyquest/internal/avatar"
	"github.com/abhisek/studyquest/internal/config"
	"github.com/abhisek/studyquest/internal/focus"
	"github.com/abhisek/studyquest/internal/lessons"
	"github.com/abhisek/studyquest/internal/llm"
	"github.com/abhisek/studyquest/internal/logging"
	"github.com/abhisek/studyquest/internal/profile"
	"github.com/abhisek/studyquest/internal/rewards"
	"github.com/abhisek/studyquest/internal/setup"
	"github.com/abhisek/studyquest/internal/store"
	"github.com/abhisek/studyquest/internal/store/postgres"
	"github.com/abhisek/studyquest/internal/study"
	"github.com/abhisek/studyquest/internal/tutor"
)

// deps holds everything a command needs, built from the resolved config.
type deps struct {
	cfg     *config.Config
	logger  *slog.Logger
	backend store.Backend
	// provider is nil when no LLM is configured.
	provider llm.Provider

	records  *study.Records
	profiles *profile.Service
	lessons  *lessons.Manager
	rewards  *rewards.Accumulator
	focus    *focus.Controller
	setup    *setup.Service
	avatars  *avatar.Generator
	tutor    *tutor.Service

	closers []io.Closer
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// openDeps resolves configuration, opens the backend and builds the
// services. Interactive runs log to a file because the TUI owns the
// terminal. Callers must call close.
func openDeps(cmd *cobra.Command, interactive bool) (*deps, error) {
	ctx := cmd.Context()
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	d := &deps{cfg: cfg}
	if err := d.openLogger(cmd, interactive); err != nil {
		return nil, err
	}

	dsn, err := resolveDSN(cmd, cfg)
	if err != nil {
		d.close()
		return nil, fmt.Errorf("resolve database: %w", err)
	}
	if store.IsPostgresDSN(dsn) {
		d.backend, err = postgres.Open(ctx, dsn)
	} else {
		d.backend, err = store.Open(dsn)
	}
	if err != nil {
		d.close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	d.closers = append(d.closers, d.backend)
	d.logger.Debug("store opened", "postgres", store.IsPostgresDSN(dsn))

	if llmCfg, ok := llm.Resolve(cfg.LLM.Provider, cfg.LLM.Timeout); ok {
		p, err := llm.NewProvider(ctx, llmCfg, d.backend.EventRepo(), d.logger)
		if err != nil {
			d.logger.Warn("LLM provider unavailable, AI features disabled", "err", err)
		} else {
			d.provider = p
		}
	} else {
		d.logger.Info("no LLM provider configured, using offline fallbacks")
	}

	d.build()
	return d, nil
}

func (d *deps) openLogger(cmd *cobra.Command, interactive bool) error {
	level, err := logging.ParseLevel(d.cfg.Log.Level)
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		level = slog.LevelDebug
	}
	if !interactive {
		d.logger = logging.New(os.Stderr, level)
		return nil
	}
	dir, err := store.DataDir()
	if err != nil {
		return err
	}
	logger, closer, err := logging.OpenFile(dir, level)
	if err != nil {
		return err
	}
	d.logger = logger
	d.closers = append(d.closers, closer)
	return nil
}

func (d *deps) build() {
	clock := study.SystemClock{}
	d.records = study.NewRecords(store.NewGateway(d.backend))
	d.profiles = profile.NewService(d.records, clock)
	d.lessons = lessons.NewManager(d.records)
	d.rewards = rewards.NewAccumulator(d.records, clock, d.logger)
	d.focus = focus.NewController(focus.Options{
		Users:   d.records,
		Lessons: d.lessons,
		Rewards: d.rewards,
		Config: focus.Config{
			FallbackMinutes: d.cfg.Focus.FallbackMinutes,
			MinMinutes:      d.cfg.Focus.MinMinutes,
			MaxMinutes:      d.cfg.Focus.MaxMinutes,
			SessionsPerDay:  d.cfg.Focus.SessionsPerDay,
			RewardXP:        d.cfg.Rewards.SessionXP,
		},
		Logger: d.logger,
	})
	d.closers = append(d.closers, closerFunc(func() error {
		d.focus.Close()
		return nil
	}))

	var gen lessons.Generator
	if d.provider != nil {
		gen = lessons.NewLLMGenerator(d.provider, lessons.DefaultConfig())
	}
	d.avatars = avatar.NewGenerator(d.provider, d.logger)
	d.setup = setup.NewService(d.profiles, d.lessons, gen, d.avatars, d.logger)
	d.tutor = tutor.NewService(d.provider, d.logger)
}

// close releases resources in reverse order of acquisition.
func (d *deps) close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i].Close(); err != nil && d.logger != nil {
			d.logger.Warn("close failed", "err", err)
		}
	}
	d.closers = nil
}

// resolveDSN returns the database location: --db flag, then config and
// STUDYQUEST_DB, then the default XDG path.
func resolveDSN(cmd *cobra.Command, cfg *config.Config) (string, error) {
	p, _ := cmd.Flags().GetString("db")
	if p == "" {
		p = cfg.DB
	}
	if p == "" {
		return store.DefaultDBPath()
	}
	if store.IsPostgresDSN(p) {
		return p, nil
	}
	return p, store.EnsureDir(p)
}

// requireProfile returns the learner profile or a hint to run setup.
func (d *deps) requireProfile(ctx context.Context) (*study.User, error) {
	u, err := d.profiles.Get(ctx)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: run `studyquest setup` or start the app first", study.ErrNoProfile)
	}
	return u, nil
}
