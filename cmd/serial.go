package cmd

import (
	"context"
	"fmt"

	"order-entry/config"

	"github.com/spf13/cobra"
)

var serialDate string

var serialCmd = &cobra.Command{
	Use:   "serial",
	Short: "Print the serial number the next order will receive",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(context.Background(), config.LoadConfig())
		if err != nil {
			return err
		}
		defer a.Close()

		s, err := a.allocator.DisplayDate(serialDate)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), s)
		return nil
	},
}

func init() {
	serialCmd.Flags().StringVar(&serialDate, "date", "", "order date (YYYY-MM-DD), defaults to today")
}
