// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citation-engine/internal/store"
	"github.com/pdiddy/citation-engine/pkg/types"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the local record store",
	Long: `Store manages the SQLite record store that update operates on.
Records are imported from and exported to CSL-YAML; list and search read
the store directly.`,
}

// --- init subcommand ---

var storeInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the record store and its schema",
	RunE:  runStoreInit,
}

func runStoreInit(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	st, err := openStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	fmt.Printf("Initialized record store at %s\n", storePath(cmd, cfg))
	return nil
}

// --- import subcommand ---

var storeImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import CSL-YAML records into the store",
	Long: `Import reads a CSL-YAML file and upserts every item into the store.
Items without an id are assigned a generated one. Re-importing a file
overwrites the stored fields of records with matching ids.`,
	RunE: runStoreImport,
}

func runStoreImport(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one CSL-YAML file to import")
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	records, err := store.ImportCSL(f)
	if err != nil {
		return err
	}

	cfg := loadConfig()
	st, err := openStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	for _, rec := range records {
		if err := st.Put(ctx, rec); err != nil {
			return fmt.Errorf("importing record %s: %w", rec.ID, err)
		}
	}

	fmt.Printf("Imported %d record(s)\n", len(records))
	return nil
}

// --- export subcommand ---

var storeExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the store to CSL-YAML",
	Long: `Export writes every record, transient ones included, as CSL-YAML to
the named file, or to stdout when no file is given. Citation-count lines
ride along in each item's note field.`,
	RunE: runStoreExport,
}

func runStoreExport(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	st, err := openStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := st.List(context.Background(), true)
	if err != nil {
		return err
	}

	out := os.Stdout
	if len(args) > 0 {
		f, err := os.Create(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if err := store.ExportCSL(out, records); err != nil {
		return err
	}
	if len(args) > 0 {
		fmt.Printf("Exported %d record(s) to %s\n", len(records), args[0])
	}
	return nil
}

// --- list subcommand ---

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored records",
	RunE:  runStoreList,
}

func runStoreList(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	st, err := openStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	includeTransient, _ := cmd.Flags().GetBool("transient")
	records, err := st.List(context.Background(), includeTransient)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatRecords(records, jsonOutput)
}

// --- search subcommand ---

var storeSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search records by title and creator names",
	RunE:  runStoreSearch,
}

func runStoreSearch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide a search query")
	}

	cfg := loadConfig()
	st, err := openStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	records, err := st.Search(context.Background(), strings.Join(args, " "), limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatRecords(records, jsonOutput)
}

// --- show subcommand ---

var storeShowCmd = &cobra.Command{
	Use:   "show [record-id]",
	Short: "Show one record in full",
	RunE:  runStoreShow,
}

func runStoreShow(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one record id")
	}

	cfg := loadConfig()
	st, err := openStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	rec, err := st.Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}

	printRecord(os.Stdout, rec)
	return nil
}

// --- shared helpers ---

func storePath(cmd *cobra.Command, cfg types.Config) string {
	path, _ := cmd.Flags().GetString("store")
	if path == "" {
		path = cfg.Store.Path
	}
	return path
}

func openStore(cmd *cobra.Command, cfg types.Config) (*store.Store, error) {
	return store.Open(storePath(cmd, cfg))
}

func formatRecords(records []types.Record, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("No records found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-24s  %-6s  %-20s  %s\n", "ID", "Year", "Creators", "Title")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 96))

	for _, rec := range records {
		year := ""
		if rec.Year > 0 {
			year = fmt.Sprintf("%d", rec.Year)
		}
		fmt.Fprintf(os.Stdout, "%-24s  %-6s  %-20s  %s\n",
			truncate(rec.ID, 24), year, truncate(creatorSummary(rec), 20), truncate(rec.Title, 44))
	}

	fmt.Fprintf(os.Stdout, "\n%d record(s)\n", len(records))
	return nil
}

func printRecord(w io.Writer, rec types.Record) {
	fmt.Fprintf(w, "ID:       %s\n", rec.ID)
	fmt.Fprintf(w, "Title:    %s\n", rec.Title)
	if rec.DOI != "" {
		fmt.Fprintf(w, "DOI:      %s\n", rec.DOI)
	}
	if rec.URL != "" {
		fmt.Fprintf(w, "URL:      %s\n", rec.URL)
	}
	if rec.Year > 0 {
		fmt.Fprintf(w, "Year:     %d\n", rec.Year)
	}
	if rec.Date != "" {
		fmt.Fprintf(w, "Date:     %s\n", rec.Date)
	}
	if len(rec.Creators) > 0 {
		names := make([]string, 0, len(rec.Creators))
		for _, c := range rec.Creators {
			names = append(names, c.Name())
		}
		fmt.Fprintf(w, "Creators: %s\n", strings.Join(names, ", "))
	}
	if rec.Transient {
		fmt.Fprintln(w, "Transient: yes")
	}
	if rec.Extra != "" {
		fmt.Fprintln(w, "Extra:")
		for _, line := range strings.Split(rec.Extra, "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}

func creatorSummary(rec types.Record) string {
	name := rec.FirstCreatorName()
	if name == "" {
		return ""
	}
	if len(rec.Creators) > 1 {
		return name + " et al."
	}
	return name
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}

func init() {
	// Shared flag on the parent command, inherited by subcommands.
	storeCmd.PersistentFlags().String("store", "", "SQLite record store path (default data/records.db)")

	storeListCmd.Flags().Bool("transient", false, "include transient (feed-derived) records")
	storeListCmd.Flags().Bool("json", false, "output records as JSON")

	storeSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	storeSearchCmd.Flags().Bool("json", false, "output records as JSON")

	storeShowCmd.Flags().Bool("json", false, "output the record as JSON")

	storeCmd.AddCommand(storeInitCmd)
	storeCmd.AddCommand(storeImportCmd)
	storeCmd.AddCommand(storeExportCmd)
	storeCmd.AddCommand(storeListCmd)
	storeCmd.AddCommand(storeSearchCmd)
	storeCmd.AddCommand(storeShowCmd)

	rootCmd.AddCommand(storeCmd)
}
