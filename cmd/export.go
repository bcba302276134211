package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/strataworks/layerd/internal/store"
)

var exportLayerIDs string

var exportCmd = &cobra.Command{
	Use:   "export [output.json]",
	Short: "Export layers (and their groups) to a portable JSON document",
	Long: `Export writes a versioned snapshot of the named layers plus the groups
that directly own them. With no --layers flag, every layer is exported.
With no output path, the document goes to stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, log, _, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()
		defer func() { _ = st.Close() }()

		ctx := cmd.Context()

		var ids []string
		if exportLayerIDs != "" {
			ids = strings.Split(exportLayerIDs, ",")
		} else {
			layers, err := st.GetAllLayers(ctx)
			if err != nil {
				return err
			}
			for _, l := range layers {
				ids = append(ids, l.ID)
			}
		}

		doc, err := st.ExportLayers(ctx, ids)
		if err != nil {
			return err
		}
		data, err := store.EncodeExportDocument(doc)
		if err != nil {
			return err
		}

		if len(args) == 0 {
			fmt.Println(string(data))
			return nil
		}
		if err := os.WriteFile(args[0], data, 0o644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Exported %d layers, %d groups to %s\n",
			len(doc.Layers), len(doc.Groups), args[0])
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportLayerIDs, "layers", "l", "", "Comma-separated layer ids (default: all)")
	rootCmd.AddCommand(exportCmd)
}
