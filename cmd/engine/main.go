package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sheikh-saqib/transactions-engine/internal/config"
	"github.com/sheikh-saqib/transactions-engine/internal/events/kafka"
	"github.com/sheikh-saqib/transactions-engine/internal/ingest"
	interfaces "github.com/sheikh-saqib/transactions-engine/internal/interfaces"
	"github.com/sheikh-saqib/transactions-engine/internal/ledger"
	"github.com/sheikh-saqib/transactions-engine/internal/logging"
	"github.com/sheikh-saqib/transactions-engine/internal/snapshot"
	"github.com/sheikh-saqib/transactions-engine/internal/storage/memory"
	"github.com/sheikh-saqib/transactions-engine/internal/storage/sqlstore"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run returns the process exit code. A missing input path is a usage error
// and exits cleanly before config is even read.
func run(args []string, stdout io.Writer) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "input file has not been provided\nusage: engine <transactions.csv>")
		return 0
	}
	inputPath := args[0]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	runID := uuid.NewString()
	logger = logger.With(zap.String("run_id", runID))
	logger.Debug("binary arguments", zap.Strings("args", args))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := memory.NewMemoryAccountStore()
	ledgerService := ledger.NewLedger(store)

	opts := []ingest.Option{ingest.WithLogger(logger), ingest.WithRunID(runID)}
	if cfg.PublishEvents() {
		publisher := kafka.NewPublisher(cfg.KafkaBrokers)
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Warn("failed to close event publisher", zap.Error(err))
			}
		}()
		opts = append(opts, ingest.WithPublisher(publisher, cfg.KafkaTopic))
		logger.Info("publishing events", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}

	logger.Info("reading input", zap.String("path", inputPath))

	source, err := ingest.Open(inputPath)
	if err != nil {
		logger.Error("could not open input file", zap.Error(err))
		return 1
	}
	defer source.Close()

	reader, err := ingest.NewReader(source)
	if err != nil {
		logger.Error("could not read input file", zap.Error(err))
		return 1
	}

	stats, err := ingest.NewProcessor(ledgerService, opts...).Run(ctx, reader)
	if err != nil {
		logger.Error("processing aborted", zap.Error(err), zap.Any("stats", stats))
		return 1
	}
	logger.Info("processed input",
		zap.Int("records", stats.Records),
		zap.Int("applied", stats.Applied),
		zap.Int("rejected", stats.Rejected),
		zap.Int("ignored", stats.Ignored),
	)

	sinks := []interfaces.SnapshotSink{snapshot.NewCSVWriter(stdout)}
	if cfg.SnapshotToDB() {
		db, err := sql.Open(cfg.SnapshotDBDriver, cfg.SnapshotDBURL)
		if err != nil {
			logger.Error("could not open snapshot database", zap.Error(err))
			return 1
		}
		defer db.Close()

		dbStore := sqlstore.NewSnapshotStore(db, runID)
		if err := dbStore.EnsureSchema(ctx); err != nil {
			logger.Error("could not prepare snapshot table", zap.Error(err))
			return 1
		}
		sinks = append(sinks, dbStore)
	}

	logger.Info("writing the current state")
	rows := ledgerService.Snapshot()
	for _, sink := range sinks {
		if err := sink.WriteSnapshot(ctx, rows); err != nil {
			logger.Error("could not write snapshot", zap.Error(err))
			return 1
		}
	}

	return 0
}
