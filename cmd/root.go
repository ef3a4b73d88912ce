// Package cmd defines the seoaudit command line.
package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seo-optimizer/seoaudit/analyzer"
	"github.com/seo-optimizer/seoaudit/config"
	"github.com/seo-optimizer/seoaudit/logging"
	"github.com/seo-optimizer/seoaudit/report"
)

var version = "dev"

// runtimeKey stores the resolved config and logger on the command context.
type runtimeKey struct{}

type runtime struct {
	cfg    config.Config
	logger *zap.Logger
}

// auditor is the subset of *analyzer.Analyzer the commands use.
type auditor interface {
	Analyze(ctx context.Context, url string) (*analyzer.Report, error)
}

// newAuditor is swapped in tests.
var newAuditor = func(opts analyzer.Options, logger *zap.Logger) auditor {
	return analyzer.New(opts, logger)
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seoaudit",
		Short: "Audit the on-page SEO signals of a single URL",
		Long: `seoaudit prompts for a URL, fetches the page once and reports its
title, description, robots directives, keywords, response code, redirect
chain, headings, hreflang alternates, internal links and image sizes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := loadRuntime()
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), runtimeKey{}, rt))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if rt, ok := cmd.Context().Value(runtimeKey{}).(*runtime); ok {
				_ = rt.logger.Sync()
			}
		},
		RunE: runAudit,
	}

	cmd.AddCommand(newServeCmd(), newVersionCmd())
	return cmd
}

func loadRuntime() (*runtime, error) {
	bootstrap := zap.NewNop()
	config.LoadEnv(bootstrap)

	v := config.NewViper()
	if err := config.ReadFile(v, bootstrap); err != nil {
		return nil, err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Development)
	if err != nil {
		return nil, err
	}
	return &runtime{cfg: cfg, logger: logger}, nil
}

func runtimeFrom(ctx context.Context) (*runtime, error) {
	rt, ok := ctx.Value(runtimeKey{}).(*runtime)
	if !ok || rt == nil {
		return nil, errors.New("runtime not initialized")
	}
	return rt, nil
}

func runAudit(cmd *cobra.Command, _ []string) error {
	rt, err := runtimeFrom(cmd.Context())
	if err != nil {
		return err
	}

	target, err := promptURL(cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	r, err := newAuditor(rt.cfg.Analyzer, rt.logger).Analyze(cmd.Context(), target)
	if err != nil {
		return err
	}
	return report.Render(cmd.OutOrStdout(), r, report.DefaultStyles())
}

// promptURL asks for the URL on out and reads one line from in.
func promptURL(in io.Reader, out io.Writer) (string, error) {
	if _, err := fmt.Fprint(out, "Enter the URL: "); err != nil {
		return "", err
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read url: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		logger, lerr := logging.New(true)
		if lerr != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		logger.Fatal("seoaudit failed", zap.Error(err))
	}
}
