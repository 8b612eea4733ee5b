package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/fatmaabchouk/portfolio-assistant/internal/service"
)

var checkStoreCmd = &cobra.Command{
	Use:   "check-store",
	Short: "Read a few rows back from the knowledge store",
	Args:  cobra.NoArgs,
	RunE:  runCheckStore,
}

func runCheckStore(cmd *cobra.Command, args []string) error {
	store := openStore(cmd.Context(), cfg, logger)
	if store != nil {
		defer store.Close()
	}

	report := service.NewDiagnosticService(store, logger).CheckStore(cmd.Context())

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
