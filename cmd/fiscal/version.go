// The version command.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is overridable at build time:
//
//	go build -ldflags "-X main.version=v1.2.3" ./cmd/fiscal
var version = "v0.3.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("fiscal " + version)
	},
}
