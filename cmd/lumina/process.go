package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lumina-receipts/lumina/internal/processor"
)

func processCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process [file]",
		Short: "Process one OCR document into a structured transaction",
		Long: `Process a single OCR output document (JSON from the OCR service, or
plain text with one recognized line per row) and print the structured
transaction as JSON.

Examples:
  # Process a recognized receipt
  lumina process receipt.json

  # Pipe plain text through the pipeline
  cat receipt.txt | lumina process`,
		Args: cobra.MaximumNArgs(1),
		RunE: runProcess,
	}
	return cmd
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	in := os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	raw, err := readInput(in)
	if err != nil {
		return err
	}

	classifier := loadClassifier(cfg)
	proc := processor.New(cfg, classifier)

	txn, err := proc.Process(cmd.Context(), raw)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(txn, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode transaction: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(out))
	return nil
}
