package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citation-engine/internal/batch"
	"github.com/pdiddy/citation-engine/internal/resolve"
	"github.com/pdiddy/citation-engine/internal/store"
	"github.com/pdiddy/citation-engine/pkg/types"
)

var updateCmd = &cobra.Command{
	Use:   "update [record-ids...]",
	Short: "Resolve citation counts and write them into record extra fields",
	Long: `Update resolves the citation count for each named record (or for every
record with --all) and merges a "<count> citations (<source>) [<date>]"
line into the record's extra field, replacing any stale line from the
same source. A record that fails to resolve is reported and skipped; the
run always continues to the end of the list.

Feed-derived (transient) records are never updated.`,
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().Bool("all", false, "update every record in the store")
	updateCmd.Flags().String("provider", "", "citation provider: crossref, inspire, semanticscholar, or nasaads")
	updateCmd.Flags().Bool("dry-run", false, "resolve counts without writing them back")
	updateCmd.Flags().Duration("delay", 0, "pause between consecutive records")
	updateCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	updateCmd.Flags().String("store", "", "SQLite record store path (default data/records.db)")
	updateCmd.Flags().String("messages", "", "YAML file of failure-message overrides")

	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	if len(args) == 0 && !all {
		return fmt.Errorf("provide one or more record ids, or --all")
	}
	if len(args) > 0 && all {
		return fmt.Errorf("--all cannot be combined with record ids")
	}

	cfg := loadConfig()
	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
		cfg.Lookup.Timeout = timeout
	}
	if delay, _ := cmd.Flags().GetDuration("delay"); delay > 0 {
		cfg.Batch.RecordDelay = delay
	}
	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		cfg.Batch.DryRun = true
	}

	providerName, _ := cmd.Flags().GetString("provider")
	if providerName == "" {
		providerName = cfg.Lookup.DefaultProvider
	}
	provider, err := resolve.ProviderByName(providerName, cfg.Lookup, adsKeyFunc(cfg.Lookup))
	if err != nil {
		return err
	}

	catalog, err := loadCatalog(cmd)
	if err != nil {
		return err
	}

	st, err := openStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	var records []types.Record
	if all {
		records, err = st.List(ctx, true)
	} else {
		records, err = fetchRecords(ctx, st, args)
	}
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: cfg.Lookup.Timeout}
	validator := resolve.NewValidator(client, cfg.Lookup, logger)
	runner := batch.NewRunner(st, validator, &batch.ConsoleProgress{W: os.Stdout}, catalog, cfg.Batch, logger)

	sum, err := runner.Run(ctx, records, provider)
	if err != nil {
		return err
	}
	if sum.HasFailures() {
		return fmt.Errorf("%d record(s) failed to update", sum.Failed)
	}
	return nil
}

// fetchRecords loads each named record, failing before the run starts when
// any id is unknown.
func fetchRecords(ctx context.Context, st *store.Store, ids []string) ([]types.Record, error) {
	records := make([]types.Record, 0, len(ids))
	for _, id := range ids {
		rec, err := st.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
