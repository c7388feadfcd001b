// The variables command: print the registered variable catalog.
package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/warp/fiscal-engine/dutchtax"
)

var variablesCmd = &cobra.Command{
	Use:   "variables",
	Short: "List the registered variables",
	Run: func(cmd *cobra.Command, args []string) {
		registry := dutchtax.NewRegistry()
		names := registry.Names()
		sort.Strings(names)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tENTITY\tTYPE\tPERIOD\tKIND\tLABEL")
		for _, name := range names {
			def, ok := registry.Lookup(name)
			if !ok {
				continue
			}
			kind := "input"
			if def.Formula != nil {
				kind = "formula"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				def.Name, def.Entity, def.Type, def.DefinitionPeriod, kind, def.Label)
		}
		w.Flush()
	},
}
