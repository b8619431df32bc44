// Package cmd provides nodal's command-line surface: a small cobra tree
// wrapping the module graph core for ad-hoc demo builds, grounded on
// bennypowers-cem/cmd/root.go's rootCmd + viper.AutomaticEnv + pterm debug
// logging shape.
package cmd

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "nodal",
	Short: "A module-graph-core bundler demo",
	Long: `nodal loads, links, tree-shakes, and chunks a small ESM-subset
source tree, printing the resulting chunk graph. It demonstrates the
module graph core (internal/loader, internal/linkbind, internal/order,
internal/treeshake, internal/chunker) without any code generation.`,
}

// Execute adds all child commands to rootCmd and runs it. Called once by
// main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().String("config", "", "config file (default: $PWD/.nodal.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose logging output")
	viper.BindPFlag("configFile", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if cfgFile := viper.GetString("configFile"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".nodal")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}
	viper.AutomaticEnv()
	if viper.GetBool("verbose") {
		pterm.EnableDebugMessages()
	}
	if err := viper.ReadInConfig(); err == nil {
		pterm.Debug.Println("using config file:", viper.ConfigFileUsed())
	}
}
