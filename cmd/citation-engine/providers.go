package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citation-engine/internal/resolve"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List citation providers and the identifiers they accept",
	Long: `Providers prints the provider table: the identifier kinds each one can
look up, in the order they are attempted, and whether it needs an API key.`,
	Run: runProviders,
}

// providerAuth describes each provider's credential requirement.
var providerAuth = map[string]string{
	"Crossref":         "none",
	"INSPIRE-HEP":      "none",
	"Semantic Scholar": "API key optional",
	"NASA ADS":         "API key required",
}

func runProviders(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	fmt.Fprintf(os.Stdout, "%-18s  %-24s  %s\n", "Provider", "Identifiers", "Auth")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 62))

	for _, p := range resolve.Providers(cfg.Lookup, func() string { return "" }) {
		kinds := make([]string, 0, len(p.Kinds()))
		for _, k := range p.Kinds() {
			kinds = append(kinds, k.String())
		}
		fmt.Fprintf(os.Stdout, "%-18s  %-24s  %s\n",
			p.Name(), strings.Join(kinds, ", "), providerAuth[p.Name()])
	}
}

func init() {
	rootCmd.AddCommand(providersCmd)
}
