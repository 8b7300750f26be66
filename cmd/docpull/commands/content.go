package commands

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/docpull/internal/logger"
	"github.com/jmylchreest/docpull/internal/output"
	"github.com/jmylchreest/docpull/pkg/cleaner"
	"github.com/jmylchreest/docpull/pkg/docpull"
)

var contentCmd = &cobra.Command{
	Use:   "content <site> [path]",
	Short: "Extract the content of one documentation page",
	Long: `Extract the content of the page at the site's base URL followed by path.
The path is appended verbatim, so it usually starts with a slash.

Examples:
  docpull content modal /guide/gpu
  docpull content terraform-aws /resources/aws_instance --markdown
  docpull content convex /quickstart --markdown --out-dir ./docs`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runContent,
}

func init() {
	rootCmd.AddCommand(contentCmd)

	flags := contentCmd.Flags()
	flags.String("format", "text", "output format: text, json, jsonl, yaml")
	flags.Bool("json", false, "shorthand for --format json")
	flags.Bool("markdown", false, "convert HTML content to Markdown")
	flags.String("out-dir", "", "save the page to <dir>/<site>/<path>.md instead of printing it")
}

func runContent(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	format, err := resultFormat(cmd)
	if err != nil {
		return err
	}

	id, path := args[0], ""
	if len(args) > 1 {
		path = args[1]
	}

	s := newService()
	defer func() { _ = s.Close() }()

	stop := startSpinner("extracting " + id + path)
	res := s.ExtractContent(ctx, id, path)
	stop()

	if markdown, _ := cmd.Flags().GetBool("markdown"); markdown && res.Success {
		res = toMarkdown(res, cleaner.NewMarkdown())
	}

	if dir, _ := cmd.Flags().GetString("out-dir"); dir != "" && res.Success {
		body := strings.Join(res.Data, "\n")
		saved, err := output.SaveContent(dir, id, path, body)
		if err != nil {
			return err
		}
		logInfo("Saved to %s (%s)", saved, humanize.Bytes(uint64(len(body))))
		return nil
	}
	return printResult(res, format)
}

// toMarkdown converts every HTML content string of res. A string that fails
// to convert is kept as is.
func toMarkdown(res docpull.Result, cl cleaner.Cleaner) docpull.Result {
	converted := make([]string, len(res.Data))
	for i, item := range res.Data {
		md, err := cl.Clean(item)
		if err != nil {
			logger.Warn("markdown conversion failed", "site", res.Site, "cleaner", cl.Name(), "error", err)
			md = item
		}
		converted[i] = md
	}
	res.Data = converted
	return res
}
