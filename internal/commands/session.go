package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/superbank-dev/superbank/internal/canonical"
	"github.com/superbank-dev/superbank/internal/config"
	"github.com/superbank-dev/superbank/internal/logger"
	"github.com/superbank-dev/superbank/internal/model"
	"github.com/superbank-dev/superbank/internal/store"
)

// session wires one CLI invocation: configuration, logger, REST client, the
// ingested transaction set, and the canonical view builder.
type session struct {
	cfg       *config.Config
	log       zerolog.Logger
	client    *store.Client
	txs       *model.Collection
	mappings  map[string]model.BankFieldMapping
	bankNames map[string]string
	builder   *canonical.Builder
}

// loadSession reads the config named by the command's persistent flags,
// connects to the backing services, and streams the full transaction set
// into memory before returning.
func loadSession(cmd *cobra.Command) (*session, error) {
	ctx := cmd.Context()

	configPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log := logger.New()
	if !verbose {
		log = log.Level(zerolog.WarnLevel)
	}

	client := store.NewClient(cfg.Service.BaseURL, log, store.Options{
		MaxRetries: cfg.Ingest.MaxRetries,
		RetryDelay: time.Duration(cfg.Ingest.RetryDelayMS) * time.Millisecond,
	})

	mappings, err := client.Mappings(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading bank mappings: %w", err)
	}
	bankNames, err := client.BankNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading bank names: %w", err)
	}

	txs, err := ingest(ctx, client, cfg.Service.UserID)
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:       cfg,
		log:       log,
		client:    client,
		txs:       txs,
		mappings:  mappings,
		bankNames: bankNames,
		builder:   canonical.NewBuilder(cfg.View.SuperHeader, bankNames),
	}, nil
}

// ingest drains the transaction stream into a fresh collection. Records
// arrive one at a time; the stream layer already handles retry and
// per-record dedup, so a nil error here means the set is complete.
func ingest(ctx context.Context, src store.TransactionSource, userID string) (*model.Collection, error) {
	txs := model.NewCollection()
	txc, errc := src.Stream(ctx, userID)
	for tx := range txc {
		txs.Append(tx)
	}
	if err := <-errc; err != nil {
		return nil, fmt.Errorf("streaming transactions: %w", err)
	}
	return txs, nil
}

// rows builds the canonical view over the full ingested set.
func (s *session) rows() []model.CanonicalRow {
	return s.builder.BuildAll(s.txs.All(), s.mappings)
}
