package main

import (
	"context"
	"fmt"

	"github.com/jonathan/job-intake/internal/config"
	"github.com/jonathan/job-intake/internal/extraction"
	"github.com/jonathan/job-intake/internal/llm"
	"github.com/jonathan/job-intake/internal/logging"
	"github.com/jonathan/job-intake/internal/normalize"
	"github.com/jonathan/job-intake/internal/schemas"
	"github.com/jonathan/job-intake/internal/session"
	"github.com/jonathan/job-intake/internal/storage"
	"github.com/jonathan/job-intake/internal/types"
)

// newExtractor builds the configured extractor for the active schema. The
// returned cleanup releases the model client, if one was created.
func newExtractor(ctx context.Context, cfg *config.Config) (types.FieldSchema, extraction.Extractor, func(), error) {
	noop := func() {}

	schema, err := cfg.FieldSchema()
	if err != nil {
		return types.FieldSchema{}, nil, noop, err
	}

	var client llm.Client
	if cfg.Strategy() == extraction.StrategyModel {
		client, err = llm.NewClient(ctx, cfg.ModelConfig())
		if err != nil {
			return types.FieldSchema{}, nil, noop, fmt.Errorf("failed to create model client: %w", err)
		}
	}

	ex, err := extraction.New(cfg.Strategy(), schema, client)
	if err != nil {
		if client != nil {
			_ = client.Close()
		}
		return types.FieldSchema{}, nil, noop, err
	}

	cleanup := noop
	if client != nil {
		cleanup = func() {
			if err := client.Close(); err != nil {
				logging.Default.Warnw("failed to close model client", "error", err)
			}
		}
	}
	logging.Default.Debugw("extractor ready", "schema", schema.Name(), "strategy", cfg.Strategy())
	return schema, ex, cleanup, nil
}

// openArchive connects to the PostgreSQL archive when one is configured.
// It returns nil without error when database_url is empty.
func openArchive(ctx context.Context, cfg *config.Config) (*storage.PostgresStore, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil
	}
	return storage.NewPostgresStore(ctx, cfg.DatabaseURL)
}

// newStores combines the given stores with the archive, if configured.
func newStores(ctx context.Context, cfg *config.Config, stores ...storage.RecordStore) (storage.RecordStore, func(), error) {
	archive, err := openArchive(ctx, cfg)
	if err != nil {
		return nil, func() {}, err
	}
	if archive == nil {
		return storage.Multi(stores...), func() {}, nil
	}
	return storage.Multi(append(stores, archive)...), archive.Close, nil
}

func sessionOptions(cfg *config.Config) session.Options {
	return session.Options{
		MaxRounds:    cfg.Extraction.MaxRounds,
		RoundTimeout: cfg.Extraction.Timeout,
		Logger:       logging.Default,
	}
}

// finalize normalizes a complete extraction and checks it against the schema's JSON Schema.
func finalize(ext types.Extraction, schema types.FieldSchema) (*normalize.Record, error) {
	rec, err := normalize.Extraction(ext, schema)
	if err != nil {
		return nil, err
	}
	data, err := rec.MarshalJSON()
	if err != nil {
		return nil, err
	}
	if err := schemas.ValidateRecord(schema, data); err != nil {
		return nil, err
	}
	return rec, nil
}
