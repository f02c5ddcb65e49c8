package main

import (
	"context"
	"errors"
	"os"
	"time"

	"moneyman/internal/amqp"
	"moneyman/internal/app"
	"moneyman/internal/cli"
	"moneyman/internal/log"
	"moneyman/internal/sheets"
	gsheet "moneyman/internal/sheets/google"
	"moneyman/internal/sheets/logsink"
	"moneyman/internal/worker"
)

const statsInterval = 10 * time.Minute

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL")).WithComponent(log.ComponentWorker)
	logger.Info("Starting moneyman-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the journal worker")
		os.Exit(1)
	}

	// The worker only reads records back; its stores must not publish.
	storeCfg := *cfg
	storeCfg.AMQPURL = ""
	res := cli.InitBackend(context.Background(), logger, &storeCfg)
	application := app.New(res.Accounts, res.Registry)

	var journal sheets.JournalWriter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.NewWithServiceAccount(context.Background(), cfg.GoogleSpreadsheetID, cfg.GoogleJournalSheet, logger)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		logger.Info("Google Sheets journal enabled",
			"spreadsheet_id", cfg.GoogleSpreadsheetID,
			"sheet", client.Sheet())
		journal = client
	} else {
		logger.Info("Google Sheets disabled - journaling to the log")
		journal = logsink.New(logger)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}

	journalWorker := worker.NewJournalWorker(application, journal, logger)

	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func() {
		if err := amqpClient.Close(); err != nil {
			logger.Warn("Failed to close AMQP client", log.FieldError, err)
		}
		if err := res.Cleanup(); err != nil {
			logger.Warn("Failed to release backend", log.FieldError, err)
		}
	})
	ctx = log.WithContext(ctx, logger)

	go func() {
		if err := amqpClient.ConsumeExpenseChanges(ctx, journalWorker.HandleChange); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", log.FieldError, err)
		}
	}()

	go func() {
		ticker := time.NewTicker(statsInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s := journalWorker.Stats()
				logger.Info("Journal worker stats", "written", s.Written, "skipped", s.Skipped, "failed", s.Failed)
			}
		}
	}()

	cli.WaitForShutdown(ctx, done)
}
