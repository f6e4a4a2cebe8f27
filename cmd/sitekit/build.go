package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/sitekit/pkg/publish"
)

func buildCmd(flags *globalFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render every page into the output directory",
		Long: `Render every page as static HTML.

Each page is written to <output>/<slug>/index.html; the index page is
written to <output>/index.html.

Examples:
  sitekit build
  sitekit build --output=public`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(flags)
			if err != nil {
				return err
			}
			if output != "" {
				p.cfg.Build.Output = output
			}

			start := time.Now()
			pages, err := p.pages(cmd.Context())
			if err != nil {
				return err
			}
			store, err := publish.NewDirStore(p.cfg.OutputPath())
			if err != nil {
				return err
			}

			report, err := publish.Publish(cmd.Context(), p.renderer(p.cfg.Site.BasePath), pages, store, publish.Options{Logger: p.logger})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			success(out, "Built %d pages in %s", len(report.Written), time.Since(start).Round(time.Millisecond))
			for _, key := range report.Written {
				info(out, "%s/%s", store.Dir(), key)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory (default from sitekit.yaml)")
	return cmd
}
