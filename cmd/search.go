package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/strataworks/layerd/api"
)

var (
	searchQuery     string
	searchType      string
	searchCreatedBy string
	searchGroup     string
	searchFrom      string
	searchTo        string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search layers with AND-composed filters",
	Long: `Search composes the provided filters conjunctively: free text against
the layer name or metadata description (case-insensitive), exact type,
exact creator, exact group, and an inclusive creation-time range. With no
flags every layer is returned, in draw-stack order.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		criteria, err := buildSearchCriteria(searchQuery, searchType,
			searchCreatedBy, searchGroup, searchFrom, searchTo)
		if err != nil {
			return err
		}

		st, log, _, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()
		defer func() { _ = st.Close() }()

		result, err := st.SearchLayers(cmd.Context(), criteria)
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		fmt.Println(string(data))
		return nil
	},
}

// buildSearchCriteria lowers the flag values into a sparse criteria
// object. Empty flags contribute no filter.
func buildSearchCriteria(query, layerType, createdBy, group, from, to string) (api.SearchCriteria, error) {
	criteria := api.SearchCriteria{
		Query:     query,
		Type:      api.LayerType(layerType),
		CreatedBy: createdBy,
	}
	if group != "" {
		criteria.GroupID = &group
	}
	if from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return api.SearchCriteria{}, fmt.Errorf("parse --from: %w", err)
		}
		criteria.From = &t
	}
	if to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return api.SearchCriteria{}, fmt.Errorf("parse --to: %w", err)
		}
		criteria.To = &t
	}
	return criteria, nil
}

func init() {
	searchCmd.Flags().StringVarP(&searchQuery, "query", "q", "", "Free text matched against name or metadata description")
	searchCmd.Flags().StringVarP(&searchType, "type", "t", "", "Layer type (raster or vector)")
	searchCmd.Flags().StringVar(&searchCreatedBy, "created-by", "", "Exact creator")
	searchCmd.Flags().StringVarP(&searchGroup, "group", "g", "", "Exact group identifier")
	searchCmd.Flags().StringVar(&searchFrom, "from", "", "RFC3339 inclusive lower bound on createdAt")
	searchCmd.Flags().StringVar(&searchTo, "to", "", "RFC3339 inclusive upper bound on createdAt")
	rootCmd.AddCommand(searchCmd)
}
