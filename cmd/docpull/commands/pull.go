package commands

import (
	"strings"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jmylchreest/docpull/internal/logger"
	"github.com/jmylchreest/docpull/internal/output"
	"github.com/jmylchreest/docpull/pkg/cleaner"
	"github.com/jmylchreest/docpull/pkg/docpull"
)

var pullCmd = &cobra.Command{
	Use:   "pull [site...]",
	Short: "Discover and save every page of one or more sites",
	Long: `Discover the links of each site, extract every page and save it as
Markdown under <out-dir>/<site>/. With no site arguments every configured
site is pulled. A page that fails to extract is reported and skipped.

Examples:
  docpull pull modal
  docpull pull convex cursor --max-pages 20 --out-dir ./docs`,
	RunE: runPull,
}

func init() {
	rootCmd.AddCommand(pullCmd)

	flags := pullCmd.Flags()
	flags.String("out-dir", "./docs", "directory pages are saved under")
	flags.Int("max-pages", 0, "max pages per site (0=unlimited)")
	flags.IntP("parallel", "p", 2, "pages extracted concurrently")
	flags.Bool("raw", false, "save content as extracted, without Markdown conversion")
}

func runPull(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	dir, _ := cmd.Flags().GetString("out-dir")
	maxPages, _ := cmd.Flags().GetInt("max-pages")
	parallel, _ := cmd.Flags().GetInt("parallel")
	raw, _ := cmd.Flags().GetBool("raw")

	var cl cleaner.Cleaner = cleaner.NewMarkdown()
	if raw {
		cl = cleaner.NewNoop()
	}

	s := newService()
	defer func() { _ = s.Close() }()

	sites := args
	if len(sites) == 0 {
		sites = s.ListSites()
	}

	var failed bool
	for _, id := range sites {
		cfg, err := s.DescribeSite(id)
		if err != nil {
			logError("%v", err)
			failed = true
			continue
		}

		stop := startSpinner("discovering links for " + id)
		links := s.DiscoverLinks(ctx, id)
		stop()
		if !links.Success {
			logError("%s", links.Error)
			failed = true
			continue
		}
		pages := links.Data
		if maxPages > 0 && len(pages) > maxPages {
			pages = pages[:maxPages]
		}
		logInfo("Found %d links for %s", len(links.Data), id)

		var saved, errored atomic.Int32
		var total atomic.Uint64
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(max(parallel, 1))
		for _, link := range pages {
			path := docpull.PathForLink(link, cfg.BaseURL)
			g.Go(func() error {
				res := s.ExtractContent(gctx, id, path)
				if !res.Success {
					logger.Warn("page failed", "site", id, "path", path, "error", res.Error)
					errored.Add(1)
					return nil
				}
				res = toMarkdown(res, cl)
				body := strings.Join(res.Data, "\n")
				file, err := output.SaveContent(dir, id, path, body)
				if err != nil {
					return err
				}
				saved.Add(1)
				total.Add(uint64(len(body)))
				logger.Debug("page saved", "site", id, "path", path, "file", file)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		logInfo("%s: saved %d pages (%s), %d failed", id, saved.Load(), humanize.Bytes(total.Load()), errored.Load())
		if errored.Load() > 0 {
			failed = true
		}
	}

	if failed {
		return errFailed
	}
	return nil
}
