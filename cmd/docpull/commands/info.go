package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/docpull/internal/output"
	"github.com/jmylchreest/docpull/pkg/site"
)

var infoCmd = &cobra.Command{
	Use:   "info <site>",
	Short: "Show a site's configuration",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().String("format", "text", "output format: text, json, yaml")
}

func runInfo(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("format")
	format, err := output.ParseFormat(name)
	if err != nil {
		return err
	}

	s := newService()
	defer func() { _ = s.Close() }()

	cfg, err := s.DescribeSite(args[0])
	if err != nil {
		return err
	}
	if format == output.FormatText {
		return output.WriteOne(os.Stdout, format, siteSummary(cfg))
	}
	return output.WriteOne(os.Stdout, format, cfg)
}

// siteSummary renders cfg for humans.
func siteSummary(cfg site.Config) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Site: %s\n", cfg.Name)
	fmt.Fprintf(&sb, "Base URL: %s\n", cfg.BaseURL)
	fmt.Fprintf(&sb, "Mode: %s\n", cfg.Mode)
	fmt.Fprintf(&sb, "Extractor: %s\n", cfg.Extractor)
	if l := cfg.Links; l != nil {
		sb.WriteString("Links config:\n")
		fmt.Fprintf(&sb, "  Start URLs: %q\n", l.StartURLs)
		fmt.Fprintf(&sb, "  Pattern: %s\n", l.Pattern)
		fmt.Fprintf(&sb, "  Max depth: %d\n", l.MaxDepth)
		if l.WaitFor != "" {
			fmt.Fprintf(&sb, "  Wait for: %s\n", l.WaitFor)
		}
		if l.Follow {
			sb.WriteString("  Follow: true\n")
		}
	}
	if c := cfg.Content; c != nil {
		sb.WriteString("Content config:\n")
		fmt.Fprintf(&sb, "  Mode: %s\n", cfg.EffectiveContentMode())
		fmt.Fprintf(&sb, "  Method: %s\n", c.Method)
		fmt.Fprintf(&sb, "  Selector: %s\n", c.Selector)
		if c.WaitFor != "" {
			fmt.Fprintf(&sb, "  Wait for: %s\n", c.WaitFor)
		}
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
