// Package vlmctl implements the command line client for a running vlmd
// endpoint. It only speaks the public invocation contract; deployment and
// provisioning are platform concerns handled elsewhere.
package vlmctl

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"vlmd/internal/common/fsutil"
	"vlmd/pkg/client"
	"vlmd/pkg/types"
)

func defaultEndpoint() string {
	if v := os.Getenv("VLMD_ENDPOINT"); v != "" {
		return v
	}
	return "http://127.0.0.1:8080"
}

// buildRootCmd constructs the Cobra command tree.
func buildRootCmd() *cobra.Command {
	var endpoint string

	root := &cobra.Command{
		Use:           "vlmctl",
		Short:         "Client for a running vlmd inference endpoint",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&endpoint, "endpoint", defaultEndpoint(), "Base URL of the vlmd endpoint (defaults VLMD_ENDPOINT)")

	var (
		imagePath    string
		maxNewTokens int
		temperature  float64
		timeout      time.Duration
	)
	inferCmd := &cobra.Command{
		Use:   "infer [prompt...]",
		Short: "Send a prompt (optionally with an image) and print the generated text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := strings.Join(args, " ")
			params := &types.GenerationParams{}
			if cmd.Flags().Changed("max-new-tokens") {
				params.MaxNewTokens = &maxNewTokens
			}
			if cmd.Flags().Changed("temperature") {
				params.Temperature = &temperature
			}

			ctx, cancel := contextWithTimeout(cmd, timeout)
			defer cancel()

			c := client.New(endpoint)
			var (
				res *types.InferResult
				err error
			)
			if imagePath != "" {
				path, perr := fsutil.ExpandHome(imagePath)
				if perr != nil {
					return perr
				}
				img, rerr := os.ReadFile(path)
				if rerr != nil {
					return fmt.Errorf("read image: %w", rerr)
				}
				res, err = c.InferWithImage(ctx, prompt, img, params)
			} else {
				res, err = c.Infer(ctx, prompt, params)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.GeneratedText)
			fmt.Fprintf(cmd.ErrOrStderr(), "inference time: %.2fs\n", res.InferenceTime)
			return nil
		},
	}
	inferCmd.Flags().StringVar(&imagePath, "image", "", "Path to a PNG/JPEG/GIF image to attach")
	inferCmd.Flags().IntVar(&maxNewTokens, "max-new-tokens", 256, "Maximum number of new tokens")
	inferCmd.Flags().Float64Var(&temperature, "temperature", 0.7, "Sampling temperature in (0,2]")
	inferCmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "Request timeout")
	root.AddCommand(inferCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Print the endpoint status as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := contextWithTimeout(cmd, 10*time.Second)
			defer cancel()
			st, err := client.New(endpoint).Status(ctx)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		},
	}
	root.AddCommand(statusCmd)

	pingCmd := &cobra.Command{
		Use:   "ping",
		Short: "Check whether the endpoint is ready",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := contextWithTimeout(cmd, 10*time.Second)
			defer cancel()
			if err := client.New(endpoint).Ping(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ready")
			return nil
		},
	}
	root.AddCommand(pingCmd)

	return root
}

// Run executes the CLI and returns a process exit code.
func Run(args []string) int {
	root := buildRootCmd()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}
