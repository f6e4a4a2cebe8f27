package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/sitekit/internal/config"
	"github.com/vango-dev/sitekit/pkg/content"
	"github.com/vango-dev/sitekit/pkg/preview"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the preview server",
		Long: `Start a preview server that renders pages on every request.

Content is reloaded per request. Open pages follow the browser viewport
over a WebSocket, so the mobile hero appears when the window narrows.

Examples:
  sitekit serve
  sitekit serve --port=8080
  sitekit serve --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(flags)
			if err != nil {
				return err
			}
			if port > 0 {
				p.cfg.Server.Port = port
			}
			if host != "" {
				p.cfg.Server.Host = host
			}
			if err := p.cfg.Validate(); err != nil {
				return err
			}

			srv := preview.New(preview.Config{
				Address:  p.cfg.Address(),
				Renderer: p.renderer("/", preview.ClientScript()),
				Load: func(ctx context.Context) ([]content.Page, error) {
					return p.pages(ctx)
				},
				Logger:         p.logger,
				DisableMetrics: !p.cfg.MetricsEnabled(),
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			success(cmd.OutOrStdout(), "Preview at http://%s", p.cfg.Address())
			info(cmd.OutOrStdout(), "content: %s", p.cfg.ContentPath())
			if p.cfg.MetricsEnabled() {
				info(cmd.OutOrStdout(), "metrics: http://%s/metrics", p.cfg.Address())
			}
			return srv.Run(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default "+strconv.Itoa(config.DefaultPort)+")")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from sitekit.yaml)")
	return cmd
}
