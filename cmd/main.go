package main

import (
	"os"

	"github.com/Ruscigno/StockPulse/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "stockpulse",
	Short: "Stock analysis service",
	Long:  `StockPulse serves technical indicators, analyst consensus and chart data for stock symbols.`,
}

func main() {
	viper.AutomaticEnv()
	viper.SetDefault("LOG_LEVEL", "debug")
	viper.SetDefault("LOG_FILE", "stockpulse.log")

	logger := logging.SetupLogger(viper.GetString("LOG_FILE"))
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := rootCmd.Execute(); err != nil {
		logger.Error("Command failed", zap.Error(err))
		os.Exit(1)
	}
}
