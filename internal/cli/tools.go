package cli

import (
	"github.com/cockroachdb/errors"
	"github.com/effective-security/quickai/client"
	"github.com/effective-security/quickai/pkg/llmutils"
	"github.com/effective-security/quickai/tools"
	"github.com/spf13/cobra"
)

func newToolsCmd(opts *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tools",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var list []*tools.Descriptor
			if opts.url != "" {
				var err error
				list, err = client.New(opts.url, client.WithBasePath(opts.cfg.Server.BasePath)).Tools(cmd.Context())
				if err != nil {
					return err
				}
			} else {
				for _, t := range tools.All() {
					d, err := t.Describe()
					if err != nil {
						return err
					}
					list = append(list, d)
				}
			}

			out := cmd.OutOrStdout()
			switch output {
			case "json":
				printf(out, "%s\n", llmutils.ToJSONIndent(list))
			case "yaml":
				printf(out, "%s", llmutils.ToYAML(list))
			case "toml":
				printf(out, "%s", llmutils.ToTOML(map[string]any{"tools": list}))
			case "", "table":
				for _, d := range list {
					printf(out, "%-22s %-20s %s\n", d.Function, d.Title, d.Description)
				}
			default:
				return errors.Newf("unsupported output format: %s", output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: json|yaml|toml")
	return cmd
}
