package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citation-engine/internal/resolve"
	"github.com/pdiddy/citation-engine/pkg/types"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve one citation count without writing it anywhere",
	Long: `Resolve looks up the citation count for a single record and prints it.
The record comes from the store via --id, or is assembled ad hoc from
--doi, --url, --title, --author, and --year. Nothing is written back.`,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().String("id", "", "resolve a stored record by id")
	resolveCmd.Flags().String("doi", "", "DOI to resolve")
	resolveCmd.Flags().String("url", "", "URL that may embed a preprint id")
	resolveCmd.Flags().String("title", "", "title for search-capable providers")
	resolveCmd.Flags().String("author", "", "first-author last name for title searches")
	resolveCmd.Flags().Int("year", 0, "publication year for title searches")
	resolveCmd.Flags().String("provider", "", "citation provider: crossref, inspire, semanticscholar, or nasaads")
	resolveCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	resolveCmd.Flags().String("store", "", "SQLite record store path (default data/records.db)")
	resolveCmd.Flags().String("messages", "", "YAML file of failure-message overrides")
	resolveCmd.Flags().Bool("json", false, "output the result as JSON")

	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
		cfg.Lookup.Timeout = timeout
	}

	rec, err := resolveTarget(cmd, cfg)
	if err != nil {
		return err
	}

	providerName, _ := cmd.Flags().GetString("provider")
	if providerName == "" {
		providerName = cfg.Lookup.DefaultProvider
	}
	provider, err := resolve.ProviderByName(providerName, cfg.Lookup, adsKeyFunc(cfg.Lookup))
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: cfg.Lookup.Timeout}
	validator := resolve.NewValidator(client, cfg.Lookup, logger)

	count, err := resolve.Resolve(context.Background(), rec, provider, validator)
	if err != nil {
		if aerr, ok := resolve.AsAttempt(err); ok {
			if catalog, lerr := loadCatalog(cmd); lerr == nil {
				return fmt.Errorf("%s", catalog.Message(aerr.Kind.String(), aerr.Provider))
			}
		}
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Count  int    `json:"count"`
			Source string `json:"source"`
		}{count.Value, count.Source})
	}

	fmt.Printf("%d citations (%s)\n", count.Value, count.Source)
	return nil
}

// resolveTarget builds the record to resolve: a stored record when --id is
// given, otherwise an ad hoc record from the identifier flags.
func resolveTarget(cmd *cobra.Command, cfg types.Config) (types.Record, error) {
	id, _ := cmd.Flags().GetString("id")
	if id != "" {
		st, err := openStore(cmd, cfg)
		if err != nil {
			return types.Record{}, err
		}
		defer st.Close()
		return st.Get(context.Background(), id)
	}

	doi, _ := cmd.Flags().GetString("doi")
	url, _ := cmd.Flags().GetString("url")
	title, _ := cmd.Flags().GetString("title")
	author, _ := cmd.Flags().GetString("author")
	year, _ := cmd.Flags().GetInt("year")

	if doi == "" && url == "" && title == "" {
		return types.Record{}, fmt.Errorf("provide --id, or at least one of --doi, --url, --title")
	}

	rec := types.Record{Title: title, DOI: doi, URL: url, Year: year}
	if author != "" {
		rec.Creators = []types.Creator{{LastName: author}}
	}
	return rec, nil
}
