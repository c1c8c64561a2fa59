package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var VERSION = "UNKNOWN"

func main() {
	rootCmd := &cobra.Command{
		Use:     "mxo",
		Short:   "mxo server",
		Version: VERSION,
	}
	rootCmd.AddCommand(NavCmd())
	rootCmd.AddCommand(MeshToolCmd())
	err := rootCmd.Execute()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
