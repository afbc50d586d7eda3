package main

import (
	"github.com/Ruscigno/StockPulse/pkg/config"
	"github.com/Ruscigno/StockPulse/pkg/metrics"
	"github.com/Ruscigno/StockPulse/scraper"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var scraperCmd = &cobra.Command{
	Use:   "scraper",
	Short: "analyst ratings scraper service",
	Long:  `Starts a http server and serves the analyst ratings scraper service`,
	Run: func(cmd *cobra.Command, args []string) {
		logger := zap.L()
		appMetrics := metrics.NewApplicationMetrics(metrics.NewSimpleMetricsCollector(logger), logger)
		scraper.StartRatingsServer(config.LoadConfig(), appMetrics)
	},
}

func init() {
	rootCmd.AddCommand(scraperCmd)

	viper.SetDefault("SCRAPER_PORT", "3001")
}
