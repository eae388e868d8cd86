package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "payflow",
	Short: "Transform raw subscription billing exports into an analytics table",
	Long: `Payflow runs the subscription billing batch pipeline: it cleans a raw
CSV export, enriches each payment record deterministically from a seed,
computes the monthly recurring revenue at risk, and emits a flat typed
table ready for a warehouse load.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	viper.SetEnvPrefix("payflow")
	viper.AutomaticEnv()
}

// newLogger builds the process logger. Verbose runs get the development
// encoder, everything else the production one.
func newLogger() (*zap.Logger, error) {
	if viper.GetBool("verbose") {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
