package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenLiberty/open-liberty-sub391/pkg/pipeline"
)

// graphCommand creates the graph command, which renders the relative
// ordering constraint graph.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		opts     orderOpts
		format   string
		detailed bool
		output   string
	)

	cmd := &cobra.Command{
		Use:   "graph <manifest|dir>",
		Short: "Render the before/after constraint graph",
		Long: `Render the constraint graph of a relative ordering.

Fragments that must come before others share one cluster, fragments that
must come after others another. Fragments without ordering metadata are
drawn dotted. Original and absolute orderings have no graph.`,
		Example: `  fragorder graph shop.toml
  fragorder graph --format dot -o - shop.toml | dot -Tpng > shop.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(format); err != nil {
				return err
			}
			path, err := resolveManifest(args[0])
			if err != nil {
				return err
			}
			runner, err := c.newRunner()
			if err != nil {
				return err
			}
			defer runner.Close()

			res, err := runner.Order(cmd.Context(), opts.options(path))
			if err != nil {
				reportOrderingError(err)
				return err
			}
			if res.Graph == nil {
				printInfo("%s uses %s ordering; the graph is empty", res.Module, res.Mode)
			}

			prog := newProgress(c.Logger)
			data, cached, err := runner.RenderGraph(cmd.Context(), res, format, detailed)
			if err != nil {
				return err
			}
			if !cached {
				prog.done(fmt.Sprintf("Rendered %s graph", format))
			}

			if output == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if output == "" {
				output = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + "." + format
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Rendered graph of %s", res.Module)
			printFile(output)
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatSVG, "output format: dot, svg, json")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label nodes with their locator and classification")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default: <manifest>.<format>)")

	return cmd
}
