// Package cmd wires the offset-scout command tree: the HTTP server and one-shot query
// commands that print the same aggregates as JSON.
package cmd

import (
	"strings"

	"github.com/OliveiraNt/offset-scout/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "OFFSET_SCOUT"

var (
	v   = viper.New()
	cur *app
)

var rootCmd = &cobra.Command{
	Use:   "offset-scout",
	Short: "Message counts for Kafka topics and partitions",
	Long: `offset-scout computes per-partition and per-topic message counts from a Kafka
cluster's offsets, fanning out across partitions under escalating timeouts.

Every flag can also be set through the environment with the OFFSET_SCOUT_ prefix,
for example OFFSET_SCOUT_HOST=localhost:9092.`,
	PersistentPreRunE: initialize,
	PersistentPostRun: func(*cobra.Command, []string) {
		if cur != nil {
			cur.Close()
		}
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		utils.InitLogger()
		utils.Logger.Error("command failed", "err", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default: first of ./config.yml, ~/.config/offset-scout/config.yml, /etc/offset-scout/config.yml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("host", "", "Cluster name from the config file, or a comma separated broker list")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, name := range []string{"config", "log-level", "host"} {
		_ = v.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(topicCmd)
	rootCmd.AddCommand(partitionCmd)
	rootCmd.AddCommand(brokersCmd)
	rootCmd.AddCommand(clustersCmd)
}

func initialize(cmd *cobra.Command, _ []string) error {
	// Logs go to stderr so query output on stdout stays valid JSON.
	utils.InitLoggerTo(cmd.ErrOrStderr())
	if lvl := v.GetString("log-level"); lvl != "" {
		utils.SetLogLevel(lvl)
	}

	path := v.GetString("config")
	if path == "" {
		path = findConfigPath()
	}
	a, err := newApp(path)
	if err != nil {
		return err
	}
	cur = a
	return nil
}
