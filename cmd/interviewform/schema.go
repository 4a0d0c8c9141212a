package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tbxark/interviewform/generate"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the generation request",
	RunE: func(cmd *cobra.Command, _ []string) error {
		doc, err := generate.PayloadSchema()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(doc))
		return err
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
