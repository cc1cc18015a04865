package main

import (
	"fmt"
	"os"

	airportindex "travelbot/internal/agents/travel-data/airport-index"

	"github.com/spf13/cobra"
)

var importAirportsCmd = &cobra.Command{
	Use:   "import-airports <file.json>",
	Short: "Load airport reference data into the Elasticsearch airport index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("config load failed: %w", err)
		}
		zapLog, log := newLogger(cfg)
		defer zapLog.Sync()

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		airports, err := airportindex.DecodeAirports(f)
		if err != nil {
			return err
		}

		esClient, err := connectElasticsearch(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		index := airportindex.NewIndex(&airportindex.Config{Index: cfg.Providers.AirportIndex}, esClient.Client, log)

		if err := index.EnsureIndex(cmd.Context()); err != nil {
			return err
		}
		n, err := index.Import(cmd.Context(), airports)
		if err != nil {
			return fmt.Errorf("imported %d of %d airports: %w", n, len(airports), err)
		}
		log.Info("airports imported", map[string]interface{}{
			"count": n,
			"index": cfg.Providers.AirportIndex,
		})
		return nil
	},
}
