package main

import (
	"fmt"
	"time"

	"hkb/internal/config"
	"hkb/internal/convert"
	"hkb/internal/engine"
	"hkb/internal/kb"
	"hkb/internal/logging"
)

// app bundles the long-lived pieces every command needs: configuration,
// logger, and the merged knowledge base with its evaluator.
type app struct {
	cfg       *config.Config
	logger    *logging.Logger
	store     *kb.Store
	evaluator *engine.Evaluator
	converter *convert.Converter
}

// loadApp loads configuration, builds the merged store, and wires the
// evaluator and converter. The store is built once here and read-only
// afterwards.
func loadApp() (*app, error) {
	cfg, err := config.LoadConfig(rootFlag)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := newLogger(cfg)

	var sets []kb.RecordSet
	if cfg.KnowledgeBase.IncludeBuiltin {
		builtin, err := kb.DefaultSets()
		if err != nil {
			return nil, fmt.Errorf("failed to load built-in record sets: %w", err)
		}
		sets = append(sets, builtin...)
	}
	for _, path := range cfg.KnowledgeBase.Paths {
		set, err := kb.LoadSetFile(path)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}

	store := kb.BuildStore(sets, logger)
	logger.Debug("Knowledge base loaded", logging.Fields{
		"sets":    len(sets),
		"records": store.Len(),
	})

	evaluator := engine.NewEvaluator(store, logger)

	return &app{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		evaluator: evaluator,
		converter: convert.NewConverter(evaluator, logger),
	}, nil
}

// newLogger builds the logger from config, letting --format=json switch
// log output to JSON as well.
func newLogger(cfg *config.Config) *logging.Logger {
	format := logging.Format(cfg.Logging.Format)
	if formatFlag == "json" {
		format = logging.JSONFormat
	}
	return logging.NewLogger(logging.Config{
		Format: format,
		Level:  logging.ParseLevel(cfg.Logging.Level),
	})
}

func timeSeconds(s int) time.Duration {
	return time.Duration(s) * time.Second
}
