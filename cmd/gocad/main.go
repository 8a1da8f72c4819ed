package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/philipparndt/gocad/version"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "gocad",
	Short: "An interactive CAD core for building, transforming and measuring 3D models",
	Long: `gocad is the command-line front-end of a parametric CAD core. It runs
declarative operation scripts against a geometry kernel, serves the model
registry and measurement engine over HTTP, and inspects STL files.`,
	Version: version.GetFullVersion(),
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// buildLogger creates the process logger. Verbose mode switches to the
// human-readable development encoder at debug level.
func buildLogger() *zap.Logger {
	if verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			return zap.NewNop()
		}
		return log
	}
	log, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
