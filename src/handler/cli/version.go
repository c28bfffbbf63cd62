package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"code-analyzer/src/service/analyzer"
	"code-analyzer/src/service/detector"
	"code-analyzer/src/service/security"
)

var detectorDescriptions = map[string]string{
	"complexity":     "Functions whose branch count exceeds the cyclomatic thresholds",
	"size_structure": "Long functions, long parameter lists, god classes, large files",
	"duplication":    "Files with identical content",
}

func (h *Handler) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", h.cfg.Agent.Name, h.cfg.Agent.Version)
		},
	}
}

func (h *Handler) languagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported file extensions and their extraction strategy",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := analyzer.NewRegistry(nil)
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header([]string{"Extension", "Language", "Extractor", "Strategy", "Rules"})

			var data [][]string
			for _, ext := range registry.Extensions() {
				lang, _ := registry.Lookup(ext)
				data = append(data, []string{
					ext,
					lang.Name,
					lang.Extractor.Name(),
					string(lang.Extractor.Strategy()),
					fmt.Sprint(len(lang.Scanner.Rules())),
				})
			}

			if err := table.Bulk(data); err != nil {
				return err
			}
			return table.Render()
		},
	}
}

func (h *Handler) rulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules [language]",
		Short: "List security rules with their effective severity",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := analyzer.ParseOverrides(h.cfg.Severity.Overrides)
			if err != nil {
				return err
			}

			languages := security.Languages()
			if len(args) == 1 {
				language := strings.ToLower(args[0])
				if !slices.Contains(languages, language) {
					return fmt.Errorf("unknown language %q (known: %s)", args[0], strings.Join(languages, ", "))
				}
				languages = []string{language}
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header([]string{"ID", "Language", "Severity", "Pattern", "Issue"})

			var data [][]string
			for _, language := range languages {
				scanner, err := security.NewScanner(language, overrides)
				if err != nil {
					return err
				}
				for _, rule := range scanner.Rules() {
					data = append(data, []string{rule.ID, scanner.Language(), string(rule.Severity), rule.Pattern, rule.Issue})
				}
			}

			if err := table.Bulk(data); err != nil {
				return err
			}
			return table.Render()
		},
	}
}

func (h *Handler) detectorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detectors",
		Short: "List available quality detectors",
		Run: func(cmd *cobra.Command, args []string) {
			runner := detector.NewRunner(h.cfg)
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "Available detectors:")
			for _, name := range runner.ListDetectors() {
				status := "disabled"
				if runner.GetDetector(name).IsEnabled() {
					status = "enabled"
				}
				fmt.Fprintf(out, "  - %-14s : %s (%s)\n", name, detectorDescriptions[name], status)
			}
		},
	}
}
