package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/docpull/internal/output"
)

type siteList struct {
	Sites []string `json:"sites" yaml:"sites"`
	Count int      `json:"count" yaml:"count"`
}

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List configured site identifiers",
	Args:  cobra.NoArgs,
	RunE:  runSites,
}

func init() {
	rootCmd.AddCommand(sitesCmd)
	sitesCmd.Flags().Bool("json", false, "output JSON")
}

func runSites(cmd *cobra.Command, _ []string) error {
	s := newService()
	defer func() { _ = s.Close() }()

	ids := s.ListSites()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return output.WriteOne(os.Stdout, output.FormatJSON, siteList{Sites: ids, Count: len(ids)})
	}
	return output.WriteOne(os.Stdout, output.FormatText, ids)
}
