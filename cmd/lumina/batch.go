package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/lumina-receipts/lumina/internal/config"
	"github.com/lumina-receipts/lumina/internal/model"
	"github.com/lumina-receipts/lumina/internal/processor"
	"github.com/lumina-receipts/lumina/internal/storage"
)

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [files...]",
		Short: "Process many OCR documents",
		Long: `Process a set of OCR documents and emit one JSON transaction per input.

Examples:
  # Process every recognized receipt in a directory
  lumina batch ~/receipts/*.json

  # Persist results to the local transaction store
  lumina batch --db ~/.local/share/lumina/lumina.db ~/receipts/*.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: runBatch,
	}

	cmd.Flags().String("db", "", "SQLite database to persist transactions into")
	cmd.Flags().StringP("output", "o", "", "write JSON lines to this file instead of stdout")
	return cmd
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	files, err := expandArgs(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no input files found")
	}

	classifier := loadClassifier(cfg)
	proc := processor.New(cfg, classifier)

	var store *storage.SQLiteStore
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = cfg.DBPath
	}
	if dbPath != "" {
		store, err = storage.NewSQLiteStore(config.ExpandPath(dbPath))
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
	}

	out := os.Stdout
	if outPath, _ := cmd.Flags().GetString("output"); outPath != "" {
		f, createErr := os.Create(outPath)
		if createErr != nil {
			return fmt.Errorf("failed to create output file: %w", createErr)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	bar := progressbar.Default(int64(len(files)), "processing")
	processed, failed := 0, 0

	for _, path := range files {
		if err := cmd.Context().Err(); err != nil {
			return err
		}

		txn, procErr := processFile(cmd, proc, path)
		_ = bar.Add(1)
		if procErr != nil {
			failed++
			slog.Error("failed to process document", "file", path, "error", procErr)
			continue
		}

		line, encErr := json.Marshal(txn)
		if encErr != nil {
			return fmt.Errorf("failed to encode transaction: %w", encErr)
		}
		fmt.Fprintln(out, string(line))

		if store != nil {
			if _, saveErr := store.SaveTransaction(cmd.Context(), txn); saveErr != nil {
				slog.Error("failed to persist transaction", "file", path, "error", saveErr)
			}
		}
		processed++
	}

	slog.Info("batch complete", "processed", processed, "failed", failed)
	return nil
}

func expandArgs(args []string) ([]string, error) {
	var files []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, statErr := os.Stat(pattern); statErr == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("no files found matching pattern", "pattern", pattern)
			}
		} else {
			files = append(files, matches...)
		}
	}
	sort.Strings(files)
	return files, nil
}

func processFile(cmd *cobra.Command, proc *processor.Processor, path string) (*model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	raw, err := readInput(f)
	if err != nil {
		return nil, err
	}
	return proc.Process(cmd.Context(), raw)
}
