package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Show the configured expense categories and their rules",
		RunE:  runCategories,
	}
	cmd.Flags().BoolP("verbose", "v", false, "include rule keywords")
	return cmd
}

func runCategories(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	verbose, _ := cmd.Flags().GetBool("verbose")

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tRULE CONFIDENCE\tKEYWORDS")
	for _, cat := range cfg.Categories {
		confidence := "-"
		keywords := "-"
		for _, rule := range cfg.Classifier.Rules {
			if rule.Category != cat {
				continue
			}
			confidence = fmt.Sprintf("%.2f", rule.Confidence)
			if verbose {
				keywords = strings.Join(rule.Keywords, ", ")
			} else {
				keywords = fmt.Sprintf("%d keywords", len(rule.Keywords))
			}
			break
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", cat, confidence, keywords)
	}
	fmt.Fprintf(w, "%s\t%.2f\t(fallback when no rule matches)\n", "Uncategorized", cfg.Classifier.UncategorizedConfidence)
	return w.Flush()
}
