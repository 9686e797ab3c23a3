package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/clil-studio/internal/api"
	"github.com/ziadkadry99/clil-studio/internal/library"
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Search saved lessons",
	Long: `Searches the lesson library with a natural language query. Uses the
semantic index when embeddings are configured and term matching otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().Int("limit", library.DefaultSearchLimit, "maximum number of results")
	queryCmd.Flags().Bool("json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ws, err := openWorkspace(ctx, cfg)
	if err != nil {
		return err
	}
	defer ws.close()

	results, err := ws.search(ctx, args[0], limit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if jsonOutput {
		return printQueryResultsJSON(results)
	}
	printQueryResultsTable(results)
	return nil
}

type queryResultJSON struct {
	Rank       int     `json:"rank"`
	Similarity float64 `json:"similarity"`
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Snippet    string  `json:"snippet"`
}

func printQueryResultsJSON(results []api.SearchResult) error {
	out := []queryResultJSON{}
	for i, r := range results {
		out = append(out, queryResultJSON{
			Rank:       i + 1,
			Similarity: float64(r.Similarity),
			ID:         r.ID,
			Title:      r.Title,
			Snippet:    r.Snippet,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printQueryResultsTable(results []api.SearchResult) {
	if len(results) == 0 {
		fmt.Println("No results found.")
		return
	}
	fmt.Printf("Found %d results:\n\n", len(results))
	for i, r := range results {
		fmt.Printf("  %d. [%.1f%%] %s\n", i+1, r.Similarity*100, r.Title)
		fmt.Printf("     ID: %s\n", r.ID)
		if r.Snippet != "" {
			fmt.Printf("     %s\n", r.Snippet)
		}
		fmt.Println()
	}
}
