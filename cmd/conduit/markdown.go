package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conduit-lang/conduit/internal/cli/config"
	"github.com/conduit-lang/conduit/internal/markdown"
	"github.com/conduit-lang/conduit/internal/markdown/tokenizer"
)

// markdownOptions builds the tokenizer options shared by tokenize and
// lint from conduit.yml, falling back to the tokenizer's own default when
// no project config is found.
func markdownOptions() []tokenizer.Option {
	cfg, err := config.Load()
	if err != nil || cfg.Markdown.LinkDepthCap <= 0 {
		return nil
	}
	return []tokenizer.Option{tokenizer.WithLinkDepthCap(cfg.Markdown.LinkDepthCap)}
}

var markdownCmd = &cobra.Command{
	Use:   "markdown",
	Short: "Inspect and lint markdown-typed content",
	Long:  "Tokenize or lint the markdown link/image syntax used by TYPE_MARKDOWN fields and doc comments",
}

var markdownTokenizeCmd = &cobra.Command{
	Use:   "tokenize <file>",
	Short: "Dump the resolved link/image event log for a file as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		events := markdown.Tokenize(string(source), markdownOptions()...)
		dump := make([]map[string]interface{}, 0, len(events))
		for _, ev := range events {
			dump = append(dump, map[string]interface{}{
				"kind":  ev.Kind.String(),
				"type":  string(ev.Token.Type),
				"start": ev.Token.Start.String(),
				"end":   ev.Token.End.String(),
			})
		}

		encoded, err := json.MarshalIndent(dump, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode events: %w", err)
		}
		fmt.Println(string(encoded))
		return nil
	},
}

var markdownLintCmd = &cobra.Command{
	Use:   "lint <file>",
	Short: "Report dangling or malformed links in a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		errorColor := color.New(color.FgRed, color.Bold)
		successColor := color.New(color.FgGreen, color.Bold)

		issues := markdown.Lint(string(source), markdownOptions()...)
		if len(issues) == 0 {
			successColor.Printf("%s: no unresolved links\n", args[0])
			return nil
		}

		errorColor.Printf("%s: %d unresolved link(s)\n", args[0], len(issues))
		for _, issue := range issues {
			fmt.Printf("  %s: %s\n", issue.Start, issue.Message)
		}
		return fmt.Errorf("%d unresolved link(s) in %s", len(issues), args[0])
	},
}

func init() {
	markdownCmd.AddCommand(markdownTokenizeCmd)
	markdownCmd.AddCommand(markdownLintCmd)
}
