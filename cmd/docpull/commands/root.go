// Package commands implements the CLI commands for docpull.
package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/docpull/internal/logger"
	"github.com/jmylchreest/docpull/pkg/docpull"
	"github.com/jmylchreest/docpull/pkg/fetcher"
)

const appName = "docpull"

// errFailed signals a failed operation whose message was already printed.
var errFailed = errors.New("operation failed")

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Discover and extract documentation pages",
	Long: `docpull discovers documentation links and extracts page content from
configured documentation sites.

Static sites are fetched over HTTP. Client-rendered sites are visited in a
headless Chrome session, including sites that only expose their content
through a "copy page" button.

Examples:
  # List configured sites
  docpull sites

  # Discover every documentation link of a site
  docpull links modal --save ./data

  # Extract one page as Markdown
  docpull content terraform-aws /resources/aws_instance --markdown

  # Pull a whole site into ./docs
  docpull pull convex --max-pages 20`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(logger.Options{
			Debug: viper.GetBool("debug"),
			Quiet: viper.GetBool("quiet"),
			JSON:  viper.GetBool("log_json"),
		})
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()

	// Global flags
	flags.String("config", "", "config file (default $XDG_CONFIG_HOME/docpull/.docpull.yaml)")
	flags.Bool("debug", false, "enable debug logging")
	flags.BoolP("quiet", "q", false, "suppress progress output")
	flags.Bool("log-json", false, "log as JSON")

	// Engine settings
	flags.String("sites", "", "site descriptor file, JSON or YAML (default: built-in sites)")
	flags.Duration("timeout", 30*time.Second, "HTTP request timeout")
	flags.Duration("nav-timeout", 30*time.Second, "browser navigation timeout")
	flags.Duration("wait-timeout", 30*time.Second, "browser selector wait timeout")
	flags.String("user-agent", fetcher.DefaultUserAgent, "user agent for fetches and browser sessions")
	flags.String("chrome-path", "", "Chrome executable (default: search PATH)")
	flags.Bool("headful", false, "show the browser window")
	flags.String("debug-dir", "", "save HTML and a screenshot of failed rendered pages here")
	flags.IntP("concurrency", "c", 10, "pages fetched concurrently per crawl round")

	for _, name := range []string{"config", "debug", "quiet", "sites", "timeout", "headful", "concurrency"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
	_ = viper.BindPFlag("log_json", flags.Lookup("log-json"))
	_ = viper.BindPFlag("nav_timeout", flags.Lookup("nav-timeout"))
	_ = viper.BindPFlag("wait_timeout", flags.Lookup("wait-timeout"))
	_ = viper.BindPFlag("user_agent", flags.Lookup("user-agent"))
	_ = viper.BindPFlag("chrome_path", flags.Lookup("chrome-path"))
	_ = viper.BindPFlag("debug_dir", flags.Lookup("debug-dir"))
}

// configDir returns the XDG config directory for docpull.
func configDir() string {
	return filepath.Join(xdg.ConfigHome, appName)
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(configDir())
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".docpull")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("DOCPULL")
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errFailed) {
		logError("%v", err)
	}
	return err
}

// newService builds a Service from flags, environment and config file.
func newService() *docpull.Service {
	opts := []docpull.Option{
		docpull.WithUserAgent(viper.GetString("user_agent")),
		docpull.WithTimeout(viper.GetDuration("timeout")),
		docpull.WithNavTimeout(viper.GetDuration("nav_timeout")),
		docpull.WithWaitTimeout(viper.GetDuration("wait_timeout")),
		docpull.WithChromePath(viper.GetString("chrome_path")),
		docpull.WithHeadful(viper.GetBool("headful")),
		docpull.WithBatchSize(viper.GetInt("concurrency")),
		docpull.WithDebugDir(viper.GetString("debug_dir")),
	}
	if path := viper.GetString("sites"); path != "" {
		opts = append(opts, docpull.WithSitesFile(path))
	}
	return docpull.New(opts...)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

// logInfo prints an info message to stderr (unless quiet mode).
func logInfo(format string, args ...any) {
	if !viper.GetBool("quiet") {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
