// Package cli 提供 idea-cli 命令行入口
package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"idea-generator-api/internal/client"
	"idea-generator-api/internal/config"
	"idea-generator-api/pkg/logger"
)

type options struct {
	server   string
	timeout  time.Duration
	logLevel string
	jsonOut  bool
}

// NewRootCommand 创建根命令；无子命令时进入交互模式
func NewRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "idea-cli",
		Short: "Generate creative ideas for a topic",
		Long: `idea-cli talks to the idea generator API.
Run without arguments for an interactive prompt, or use "generate <topic>" for a single request.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.InitWithWriter(errOut, opts.logLevel, "text")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newAPIClient(cmd, opts)
			if err != nil {
				return err
			}
			return runInteractive(cmd.Context(), c, in, out)
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&opts.server, "server", "", "API base URL (defaults to client.base_url)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0, "request timeout, 0 uses client.timeout")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(newGenerateCommand(opts))
	return root
}

// newAPIClient 合并配置文件与命令行参数
func newAPIClient(cmd *cobra.Command, opts *options) (*client.APIClient, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cc := cfg.Client
	if opts.server != "" {
		cc.BaseURL = opts.server
	}
	if cmd.Flags().Changed("timeout") {
		cc.Timeout = opts.timeout
	}
	return client.NewAPIClient(cc), nil
}
