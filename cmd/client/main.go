package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var socketPath string

var rootCmd = &cobra.Command{
	Use:   "coldb-client",
	Short: "Interactive client for the column-store server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return StartInteractiveMode(socketPath)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", "/tmp/coldb.sock", "path of the server's stream socket")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "exec [statement]",
		Short: "Send a single statement and print the response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ExecOnce(socketPath, args[0])
		},
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
