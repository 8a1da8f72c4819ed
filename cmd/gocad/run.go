package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/philipparndt/gocad/internal/registry"
	"github.com/philipparndt/gocad/internal/script"
	"github.com/philipparndt/gocad/internal/tool"
	"github.com/philipparndt/gocad/pkg/geometry"
	"github.com/philipparndt/gocad/pkg/kernel"
	"github.com/philipparndt/gocad/pkg/stl"
	"github.com/philipparndt/gocad/pkg/units"
	"github.com/philipparndt/gocad/pkg/watcher"
)

var (
	runExport string
	runASCII  bool
	runWatch  bool
	runUnits  string
)

var runCmd = &cobra.Command{
	Use:   "run [script]",
	Short: "Run a YAML operation script",
	Long: `Execute the steps of a YAML operation script in order against a fresh
model registry. With --export the visible models are merged and written as
binary STL; with --watch the script is re-run whenever the file changes.`,
	Args: cobra.ExactArgs(1),
	Run:  runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runExport, "export", "e", "", "write visible models to an STL file")
	runCmd.Flags().BoolVar(&runASCII, "ascii", false, "export ASCII STL instead of binary")
	runCmd.Flags().BoolVarP(&runWatch, "watch", "w", false, "re-run the script when it changes")
	runCmd.Flags().StringVarP(&runUnits, "units", "u", "", "display unit system (mm, cm, m, in)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) {
	path := args[0]
	log := buildLogger()
	defer log.Sync()

	if err := runScript(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if !runWatch {
			os.Exit(1)
		}
	}

	if !runWatch {
		return
	}

	fw, err := watcher.New(200*time.Millisecond, func(err error) {
		fmt.Fprintf(os.Stderr, "Watch error: %v\n", err)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer fw.Close()

	if err := fw.Watch([]string{path}, func(changed string) {
		fmt.Printf("\n%s changed, re-running\n", changed)
		if err := runScript(changed); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fw.Start()

	fmt.Printf("Watching %s (Ctrl+C to stop)\n", path)
	select {}
}

// runScript executes one script file against a fresh registry, prints the
// per-step results and optionally exports the visible models.
func runScript(path string) error {
	s, err := script.Load(path)
	if err != nil {
		return err
	}

	system, err := resolveUnits(s.Units)
	if err != nil {
		return err
	}

	reg := registry.New()
	dispatcher := tool.New(reg, kernel.NewMesh(), buildLogger())
	runner := script.NewRunner(dispatcher, nil)

	results, err := runner.Run(s)
	for i, res := range results {
		if res.Success {
			fmt.Printf("  step %d: %s\n", i+1, res.Message)
		} else {
			fmt.Printf("  step %d: FAILED: %s\n", i+1, res.Err.Message)
		}
	}
	if err != nil {
		return err
	}

	fmt.Printf("%d models in registry (%s display units)\n", reg.Len(), system)

	if runExport != "" {
		return exportVisible(reg, runExport)
	}
	return nil
}

// resolveUnits prefers the --units flag over the script's declaration and
// defaults to millimeters.
func resolveUnits(fromScript string) (units.System, error) {
	name := fromScript
	if runUnits != "" {
		name = runUnits
	}
	if name == "" {
		return units.Millimeters, nil
	}
	return units.Parse(name)
}

// exportVisible merges the triangle meshes of all visible 3D models and
// writes them as one STL file, binary unless --ascii is set.
func exportVisible(reg *registry.Registry, path string) error {
	var triangles []geometry.Triangle
	for _, model := range reg.ListVisible() {
		solid, ok := model.Geometry.(*kernel.SolidHandle)
		if !ok {
			continue
		}
		triangles = append(triangles, solid.Triangles()...)
	}
	if len(triangles) == 0 {
		return fmt.Errorf("no visible 3D models to export")
	}

	merged := stl.FromTriangles("gocad export", triangles)
	if runASCII {
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create file: %w", err)
		}
		defer file.Close()
		if err := stl.WriteASCII(file, merged); err != nil {
			return err
		}
	} else if err := stl.Write(path, merged); err != nil {
		return err
	}
	fmt.Printf("Exported %d triangles to %s\n", len(triangles), path)
	return nil
}
