package cli

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenLiberty/open-liberty-sub391/pkg/errors"
	"github.com/OpenLiberty/open-liberty-sub391/pkg/fragment"
	fragio "github.com/OpenLiberty/open-liberty-sub391/pkg/io"
	"github.com/OpenLiberty/open-liberty-sub391/pkg/pipeline"
)

// orderOpts holds the command-line flags shared by order and graph.
type orderOpts struct {
	format  string // manifest format, detected from the extension when empty
	compat  string // compat override: legacy or corrected
	legacy  bool   // shorthand for --compat legacy
	refresh bool   // ignore cached results
}

func (o *orderOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.format, "manifest-format", "", "manifest format: json, yaml, toml (default: from extension)")
	cmd.Flags().StringVar(&o.compat, "compat", "", "override legacy_compat: legacy or corrected")
	cmd.Flags().BoolVar(&o.legacy, "legacy", false, "shorthand for --compat legacy")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "recompute even if a cached result exists")
	cmd.MarkFlagsMutuallyExclusive("compat", "legacy")
}

func (o *orderOpts) options(path string) pipeline.Options {
	opts := pipeline.Options{
		ManifestPath:   path,
		ManifestFormat: o.format,
		Compat:         o.compat,
		Refresh:        o.refresh,
	}
	if o.legacy {
		opts.Compat = pipeline.CompatLegacy
	}
	return opts
}

// orderCommand creates the order command.
func (c *CLI) orderCommand() *cobra.Command {
	var (
		opts   orderOpts
		asJSON bool
		output string
		watch  bool
	)

	cmd := &cobra.Command{
		Use:   "order <manifest|dir>",
		Short: "Print the fragment load order of a module",
		Long: `Order the fragments of a module manifest (JSON, YAML or TOML).

When given a directory, the manifest in it is used; with several manifests an
interactive picker is shown. With --watch the manifest is ordered again on
every save.`,
		Example: `  fragorder order shop.toml
  fragorder order --legacy --json shop.yaml
  fragorder order -o order.json deploy/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveManifest(args[0])
			if err != nil {
				return err
			}
			runner, err := c.newRunner()
			if err != nil {
				return err
			}
			defer runner.Close()

			show := func() error {
				res, err := runner.Order(cmd.Context(), opts.options(path))
				if err != nil {
					reportOrderingError(err)
					return err
				}
				return printResult(cmd, res, path, asJSON, output)
			}
			if !watch {
				return show()
			}

			report := func() {
				if err := show(); err != nil && !errors.IsOrdering(err) {
					printError("%s", errors.UserMessage(err))
				}
			}
			report()
			printInfo("Watching %s (ctrl+c to stop)", path)
			return watchManifest(cmd.Context(), path, watchDebounce, report)
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result as JSON to a file")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "order again whenever the manifest changes")
	cmd.MarkFlagsMutuallyExclusive("json", "output")

	return cmd
}

func printResult(cmd *cobra.Command, res *pipeline.Result, path string, asJSON bool, output string) error {
	switch {
	case output != "":
		if err := fragio.ExportJSON(res, output); err != nil {
			return err
		}
		printSuccess("Ordered %d fragments of %s", len(res.Ordered), res.Module)
		printFile(output)
	case asJSON:
		return fragio.WriteJSON(res, cmd.OutOrStdout())
	default:
		fmt.Fprint(cmd.OutOrStdout(), formatOrder(res))
		fmt.Fprintln(cmd.OutOrStdout(), formatStats(res.Stats, res.CacheHit))
		if res.Graph != nil {
			printNextStep("Constraint graph", "fragorder graph "+path)
		}
	}
	return nil
}

// reportOrderingError explains an ordering failure before the error itself
// is printed.
func reportOrderingError(err error) {
	if !errors.IsOrdering(err) {
		return
	}
	printError("%s", errors.GetCode(err))

	var ce *fragment.CycleError
	if stderrors.As(err, &ce) {
		printDetail("cycle: %s", strings.Join(ce.Path, " "+iconArrow+" "))
	}
	var conflict *fragment.ConflictError
	if stderrors.As(err, &conflict) {
		printDetail("%s is before others via %s and after others via %s",
			conflict.Node, conflict.BeforeVia, conflict.AfterVia)
	}
}
