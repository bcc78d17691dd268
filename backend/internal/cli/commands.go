package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"socialgraph/backend/internal/fixtures"
)

// NewCallCommand creates the call command.
func NewCallCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "call <operation> [json-args]",
		Short: "Run one operation on the server",
		Long: `Run one operation on the server and print its data.

Example:
  socialctl call createAccount '{"firstName":"Ann","lastName":"Lee","email":"ann@example.com"}'
  socialctl call accountsWithSubscriptions`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := json.RawMessage("{}")
			if len(args) == 2 {
				if !json.Valid([]byte(args[1])) {
					return fmt.Errorf("invalid JSON args: %s", args[1])
				}
				raw = json.RawMessage(args[1])
			}

			data, err := opts.client().Call(cmd.Context(), args[0], raw)
			if err != nil {
				return err
			}

			var out bytes.Buffer
			if opts.Format == "json" {
				out.Write(data)
			} else if err := json.Indent(&out, data, "", "  "); err != nil {
				return fmt.Errorf("failed to format result: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.String())
			return nil
		},
	}
}

// NewOpsCommand creates the ops command.
func NewOpsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ops",
		Short: "List the operations the server exposes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := opts.client().Operations(cmd.Context())
			if err != nil {
				return err
			}

			if opts.Format == "json" {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(ops)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, op := range ops {
				mode := "read"
				if op.Mutating {
					mode = "write"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", op.Name, mode, op.Args)
			}
			return w.Flush()
		},
	}
}

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	*RootOptions
	File string
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Apply a YAML fixture through the server",
		Long: `Apply a YAML fixture through the server. Without --file the
built-in membership tiers are created.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fx, err := fixtures.Default()
			if opts.File != "" {
				fx, err = fixtures.Load(opts.File)
			}
			if err != nil {
				return err
			}

			applied, err := fx.Apply(cmd.Context(), opts.client())
			if err != nil {
				return err
			}

			if opts.Format == "json" {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]map[string]string{
					"membershipTiers": applied.Tiers,
					"accounts":        applied.Accounts,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %d membership tiers and %d accounts\n",
				len(applied.Tiers), len(applied.Accounts))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "fixture YAML file")

	return cmd
}
