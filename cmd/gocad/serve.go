package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/philipparndt/gocad/internal/measure"
	"github.com/philipparndt/gocad/internal/registry"
	"github.com/philipparndt/gocad/internal/server"
	"github.com/philipparndt/gocad/internal/tool"
	"github.com/philipparndt/gocad/pkg/kernel"
	"github.com/philipparndt/gocad/pkg/units"
)

var (
	serveAddr  string
	serveUnits string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the CAD core over HTTP",
	Long: `Start an HTTP server exposing the tool dispatcher, model registry,
undo/redo history and measurement engine under /api.`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", ":8080", "listen address")
	serveCmd.Flags().StringVarP(&serveUnits, "units", "u", "mm", "display unit system (mm, cm, m, in)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) {
	log := buildLogger()
	defer log.Sync()

	system, err := units.Parse(serveUnits)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	dispatcher := tool.New(registry.New(), kernel.NewMesh(), log)
	engine := measure.NewEngine(system)
	srv := server.New(dispatcher, engine, log)

	log.Info("listening", zap.String("addr", serveAddr))
	if err := http.ListenAndServe(serveAddr, srv.Router()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
