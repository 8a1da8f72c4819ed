package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philipparndt/gocad/internal/registry"
	"github.com/philipparndt/gocad/internal/tool"
	"github.com/philipparndt/gocad/pkg/kernel"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the available operation tools and their parameters",
	Run:   runTools,
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}

func runTools(cmd *cobra.Command, args []string) {
	dispatcher := tool.New(registry.New(), kernel.NewMesh(), nil)

	for _, desc := range dispatcher.Tools() {
		fmt.Printf("%s\n  %s\n", desc.Name, desc.Description)
		for _, p := range desc.Params {
			required := ""
			if p.Required {
				required = " (required)"
			}
			line := fmt.Sprintf("    %-10s %s%s", p.Name, p.Type, required)
			if p.Description != "" {
				line += "  " + p.Description
			}
			fmt.Println(line)
		}
		fmt.Println()
	}
}
