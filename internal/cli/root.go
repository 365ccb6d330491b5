package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// Execute runs the fragorder CLI with args and returns an error if the
// command fails.
//
// --verbose (-v) lowers the level of the CLI logger to debug.
//
// Example:
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := cli.Execute(ctx, c, os.Args[1:]); err != nil {
//	        os.Exit(1)
//	    }
//	}
func Execute(ctx context.Context, c *CLI, args []string) error {
	var verbose bool

	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			c.SetLogLevel(LogDebug)
		}
	}
	root.SetArgs(args)

	return root.ExecuteContext(ctx)
}
