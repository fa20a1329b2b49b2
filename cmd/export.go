package cmd

import (
	"context"
	"fmt"
	"os"

	"order-entry/config"
	"order-entry/history"

	"github.com/spf13/cobra"
)

var (
	exportOut    string
	exportQuery  string
	exportRemote bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export orders to an xlsx file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := newApp(ctx, config.LoadConfig())
		if err != nil {
			return err
		}
		defer a.Close()

		var res history.Result
		if exportRemote {
			res, err = a.history.Fetch(ctx)
		} else {
			res.Orders, err = a.local.List(ctx)
			res.Source = "local"
		}
		if err != nil {
			return err
		}
		orders := history.Filter(res.Orders, exportQuery)

		f, err := os.Create(exportOut)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := history.WriteXLSX(f, orders); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "exported %d %s orders to %s\n", len(orders), res.Source, exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "orders.xlsx", "output file")
	exportCmd.Flags().StringVarP(&exportQuery, "query", "q", "", "search filter")
	exportCmd.Flags().BoolVar(&exportRemote, "remote", false, "fetch from the spreadsheet endpoint, falling back to local orders")
}
