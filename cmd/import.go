package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/strataworks/layerd/internal/store"
)

var importTargetGroup string

var importCmd = &cobra.Command{
	Use:   "import [input.json]",
	Short: "Import a previously exported document",
	Long: `Import reconstitutes an export document in one transaction. Every
layer and group receives a fresh identity, so importing the same file
twice duplicates its contents rather than overwriting anything.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read import: %w", err)
		}
		doc, err := store.ParseExportDocument(data)
		if err != nil {
			return err
		}

		st, log, _, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()
		defer func() { _ = st.Close() }()

		var target *string
		if importTargetGroup != "" {
			target = &importTargetGroup
		}
		ids, err := st.ImportLayers(cmd.Context(), doc, target)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Imported %d layers from %s\n", len(ids), args[0])
		return nil
	},
}

func init() {
	importCmd.Flags().StringVarP(&importTargetGroup, "group", "g", "", "Place all imported layers in this existing group")
	rootCmd.AddCommand(importCmd)
}
