package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lumina-receipts/lumina/internal/classify"
	"github.com/lumina-receipts/lumina/internal/common"
	"github.com/lumina-receipts/lumina/internal/config"
)

var (
	cfgFile string
	version = "dev"
	rootCmd = &cobra.Command{
		Use:   "lumina",
		Short: "Receipt transaction extraction and categorization engine",
		Long: `lumina: turns noisy OCR text from receipts and statements into
structured transactions — merchant, total, date, and an expense category
with a confidence score. Works with a trained model when one is available
and falls back to deterministic keyword rules when it is not.`,
		PersistentPreRunE: initConfig,
	}

	modelLoader classify.Loader
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/lumina/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("model", "", "trained model artifact path (empty: rule-based only)")

	// Bind flags to viper
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("model_path", rootCmd.PersistentFlags().Lookup("model"))

	// Add commands
	rootCmd.AddCommand(processCmd())
	rootCmd.AddCommand(batchCmd())
	rootCmd.AddCommand(categoriesCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel() // Always cleanup

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	// Set up config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		// Search for config in standard locations
		viper.AddConfigPath(fmt.Sprintf("%s/.config/lumina", home))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("LUMINA")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	if err := common.SetupLogger(viper.GetString("logging.level"), viper.GetString("logging.format")); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	return nil
}

// loadConfig materializes the validated configuration.
func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper())
}

// loadClassifier performs the one-time model load and builds the hybrid
// classifier. A missing or broken model artifact is logged once and selects
// the rule-based strategy for the rest of the process.
func loadClassifier(cfg *config.Config) *classify.Hybrid {
	rules := classify.NewRuleStrategy(cfg.Classifier.Rules, cfg.Categories, cfg.Classifier.UncategorizedConfidence)

	var trained *classify.Model
	if path := config.ExpandPath(cfg.ModelPath); path != "" {
		m, err := modelLoader.Load(path)
		if err != nil {
			common.LogError(err, "trained model unavailable, using rule-based categorization", common.Fields{
				"model_path": path,
			})
		} else {
			trained = m
			slog.Info("trained model loaded",
				"model_path", path,
				"schema_version", m.SchemaVersion,
				"labels", len(m.Labels))
		}
	}

	return classify.NewHybrid(trained, rules, cfg.Classifier.ConfidenceThreshold)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			slog.Info("lumina version", "version", version)
		},
	}
}
