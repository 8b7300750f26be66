package commands

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/docpull/internal/logger"
	"github.com/jmylchreest/docpull/internal/output"
	"github.com/jmylchreest/docpull/pkg/docpull"
)

var linksCmd = &cobra.Command{
	Use:   "links <site>",
	Short: "Discover documentation links for a site",
	Long: `Discover every documentation link reachable from a site's seed pages.

Examples:
  docpull links modal
  docpull links convex --format json
  docpull links terraform-aws --save ./data`,
	Args: cobra.ExactArgs(1),
	RunE: runLinks,
}

func init() {
	rootCmd.AddCommand(linksCmd)

	flags := linksCmd.Flags()
	flags.String("format", "text", "output format: text, json, jsonl, yaml")
	flags.String("save", "", "also save links to <dir>/<site>_links.json")
	flags.Bool("json", false, "shorthand for --format json")
}

func runLinks(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	format, err := resultFormat(cmd)
	if err != nil {
		return err
	}

	s := newService()
	defer func() { _ = s.Close() }()

	id := args[0]
	stop := startSpinner("discovering links for " + id)
	res := s.DiscoverLinks(ctx, id)
	stop()

	if res.Success {
		logInfo("Found %d links for %s", len(res.Data), id)
		if dir, _ := cmd.Flags().GetString("save"); dir != "" {
			path, err := output.SaveLinks(dir, id, res.Data)
			if err != nil {
				return err
			}
			logInfo("Saved to %s", path)
		}
	}
	return printResult(res, format)
}

// resultFormat reads --format, honoring the --json shorthand.
func resultFormat(cmd *cobra.Command) (output.Format, error) {
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return output.FormatJSON, nil
	}
	name, _ := cmd.Flags().GetString("format")
	return output.ParseFormat(name)
}

// printResult writes res to stdout. In text format a failure goes to stderr
// instead. A failed result yields errFailed.
func printResult(res docpull.Result, format output.Format) error {
	if format == output.FormatText && !res.Success {
		logError("%s", res.Error)
		return errFailed
	}
	if err := output.WriteOne(os.Stdout, format, res); err != nil {
		logger.Error("failed to write output", "format", format, "error", err)
		return err
	}
	if !res.Success {
		return errFailed
	}
	return nil
}

// startSpinner shows progress on an interactive stderr and returns a stop
// function.
func startSpinner(msg string) func() {
	if viper.GetBool("quiet") || viper.GetBool("debug") || !isatty.IsTerminal(os.Stderr.Fd()) {
		return func() {}
	}
	sp := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	sp.Suffix = " " + msg
	sp.Start()
	return sp.Stop
}
