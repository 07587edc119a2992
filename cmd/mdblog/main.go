package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mdblog",
		Short: "A markdown blog with file-backed posts",
		Long:  "mdblog — posts live as markdown files, accounts and likes in SQL.",
	}

	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newInitAdminCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
