package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fvirt",
	Short: "fvirt - Libvirt configuration rendering tool",
	Long: `fvirt renders libvirt domain and storage pool XML from simple YAML
configuration files.

Configurations are validated before rendering; validation problems are
reported all at once rather than one at a time.`,
	Version: fmt.Sprintf("%s (commit: %s)", version, commit),
}

func init() {
	rootCmd.AddCommand(configCmd)
}
