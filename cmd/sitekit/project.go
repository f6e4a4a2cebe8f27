package main

import (
	"context"
	"log/slog"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	g "maragu.dev/gomponents"

	"github.com/vango-dev/sitekit/internal/config"
	sterrors "github.com/vango-dev/sitekit/internal/errors"
	"github.com/vango-dev/sitekit/pkg/content"
	"github.com/vango-dev/sitekit/pkg/render"
	"github.com/vango-dev/sitekit/pkg/ui"
)

// project is the loaded configuration plus the collaborators built from it.
type project struct {
	cfg    *config.Config
	logger *slog.Logger
}

// loadProject resolves configuration from the global flags. Without
// --config a missing sitekit.yaml falls back to defaults.
func loadProject(flags *globalFlags) (*project, error) {
	level := slog.LevelInfo
	if flags.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var (
		cfg *config.Config
		err error
	)
	if flags.configPath != "" {
		cfg, err = config.LoadFile(flags.configPath)
	} else {
		cfg, err = config.LoadFromWorkingDir()
		if sterrors.HasCode(err, "E001") {
			logger.Debug("no sitekit.yaml found, using defaults")
			cfg, err = config.New(), nil
			if envErr := cfg.ApplyEnv(os.LookupEnv); envErr != nil {
				err = envErr
			}
		}
	}
	if err != nil {
		return nil, err
	}

	if flags.contentDir != "" {
		cfg.Content.Dir = flags.contentDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("config loaded", "path", cfg.Path(), "content", cfg.ContentPath())
	return &project{cfg: cfg, logger: logger}, nil
}

// source returns the configured content source.
func (p *project) source(ctx context.Context) (content.Source, error) {
	s3cfg := p.cfg.Content.S3
	if s3cfg.Bucket == "" {
		return content.DirSource{Root: p.cfg.ContentPath()}, nil
	}
	client, err := p.s3Client(ctx, s3cfg.Region)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("reading content from s3", "bucket", s3cfg.Bucket, "prefix", s3cfg.Prefix)
	return content.S3Source{Client: client, Bucket: s3cfg.Bucket, Prefix: s3cfg.Prefix}, nil
}

// pages loads every page from the configured source.
func (p *project) pages(ctx context.Context) ([]content.Page, error) {
	src, err := p.source(ctx)
	if err != nil {
		return nil, err
	}
	pages, err := content.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("content loaded", "pages", len(pages))
	return pages, nil
}

// renderer builds a renderer whose links resolve under base.
func (p *project) renderer(base string, head ...g.Node) *render.Renderer {
	kit := ui.DefaultKit().WithBase(base)
	site := p.cfg.Site
	return render.NewRenderer(render.RendererConfig{
		Kit:         &kit,
		SiteTitle:   site.Title,
		Lang:        site.Lang,
		StyleSheets: site.StyleSheets,
		Scripts:     site.Scripts,
		Head:        head,
	})
}

func (p *project) s3Client(ctx context.Context, region string) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(awsCfg), nil
}
