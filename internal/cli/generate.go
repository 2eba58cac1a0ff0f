package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"idea-generator-api/internal/client"
)

func newGenerateCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <topic>",
		Short: "Generate ideas for a single topic",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newAPIClient(cmd, opts)
			if err != nil {
				return err
			}
			form := client.NewFormController(c, nil)
			form.SetTopic(strings.Join(args, " "))
			if err := form.Submit(cmd.Context()); err != nil {
				return err
			}
			return printState(cmd, form.State(), opts.jsonOut)
		},
	}
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the raw response as JSON")
	return cmd
}

// printState 输出最终状态；失败时返回错误以设置退出码
func printState(cmd *cobra.Command, s client.State, jsonOut bool) error {
	out := cmd.OutOrStdout()
	switch s.Phase {
	case client.PhaseSuccess:
		if jsonOut {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(s.Result)
		}
		fmt.Fprintf(out, "Ideas for %q:\n\n%s\n", s.Result.Topic, s.Ideas())
		return nil
	case client.PhaseFailure:
		if s.Failure != nil && s.Failure.Code != "" {
			return fmt.Errorf("%s (%s)", s.Error(), s.Failure.Code)
		}
		return errors.New(s.Error())
	default:
		return fmt.Errorf("unexpected state: %s", s.Phase)
	}
}
