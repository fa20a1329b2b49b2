package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "order-entry",
	Short: "Vehicle accessory order entry service",
	Long: `order-entry records accessory purchase orders with a daily serial number,
forwards them to a spreadsheet endpoint and keeps a local copy when the endpoint
is unreachable.`,
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(serialCmd)
	rootCmd.AddCommand(exportCmd)
}
