package main

import (
	"bufio"

	"github.com/spf13/cobra"

	sterrors "github.com/vango-dev/sitekit/internal/errors"
	"github.com/vango-dev/sitekit/pkg/content"
	"github.com/vango-dev/sitekit/pkg/render"
)

func renderCmd(flags *globalFlags) *cobra.Command {
	var (
		mobile   bool
		fragment bool
	)

	cmd := &cobra.Command{
		Use:   "render <slug>",
		Short: "Render one page to stdout",
		Long: `Render a single page and write the HTML to standard output.

Examples:
  sitekit render index
  sitekit render pricing --mobile
  sitekit render about --fragment`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(flags)
			if err != nil {
				return err
			}
			pages, err := p.pages(cmd.Context())
			if err != nil {
				return err
			}

			page, ok := content.Find(pages, args[0])
			if !ok {
				return sterrors.New("E040").
					WithDetail("No page has slug \"" + args[0] + "\".").
					WithSuggestion("Run sitekit build to list the slugs that were loaded")
			}

			r := p.renderer(p.cfg.Site.BasePath)
			w := bufio.NewWriter(cmd.OutOrStdout())
			opts := render.Options{Mobile: mobile}
			if fragment {
				err = r.RenderFragment(cmd.Context(), w, page, opts)
			} else {
				err = r.RenderPage(cmd.Context(), w, page, opts)
			}
			if err != nil {
				return err
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&mobile, "mobile", false, "Render the mobile layout")
	cmd.Flags().BoolVar(&fragment, "fragment", false, "Render only the page sections")
	return cmd
}
