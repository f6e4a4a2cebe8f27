// Command sitekit renders, previews and publishes sitekit content.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	sterrors "github.com/vango-dev/sitekit/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	contentDir string
	verbose    bool
}

func main() {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		sterrors.DisableColors()
	}

	if err := newRootCmd().Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "sitekit",
		Short: "Render and publish marketing pages",
		Long: `sitekit renders marketing pages from YAML content.

Pages are built from hero and latest sections, previewed with a local
server that follows the browser's viewport, and published as static
HTML to a directory or an S3 bucket.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to sitekit.yaml (default: nearest in working directory or parents)")
	rootCmd.PersistentFlags().StringVar(&flags.contentDir, "content", "", "Content directory (overrides content.dir)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		renderCmd(flags),
		buildCmd(flags),
		serveCmd(flags),
		publishCmd(flags),
		versionCmd(),
	)
	return rootCmd
}

// printError prints err, using the structured format for sitekit errors.
func printError(w io.Writer, err error) {
	var se *sterrors.SitekitError
	if errors.As(err, &se) {
		fmt.Fprintln(w, se.Format())
		return
	}
	fmt.Fprintf(w, "\033[31mError:\033[0m %s\n", err)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
