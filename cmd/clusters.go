package cmd

import (
	"encoding/json"

	"github.com/OliveiraNt/offset-scout/internal/config"
	"github.com/spf13/cobra"
)

var clustersCmd = &cobra.Command{
	Use:   "clusters",
	Short: "Manage named clusters in the config file",
	Long: `Manage named clusters in the config file. A named cluster can be passed to --host
in place of a broker list.

Examples:
  offset-scout clusters list
  offset-scout clusters add dev --brokers localhost:9092
  offset-scout clusters add legacy --brokers old-1:9092,old-2:9092 --driver kafka-go
  offset-scout clusters remove dev`,
}

var (
	clusterBrokers  []string
	clusterDriver   string
	clusterClientID string
)

var clustersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured clusters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(cur.repo.FindAll())
	},
}

var clustersAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add or replace a cluster",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return cur.repo.Save(config.ClusterConfig{
			Name:     args[0],
			Brokers:  clusterBrokers,
			Driver:   clusterDriver,
			ClientID: clusterClientID,
		})
	},
}

var clustersRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a cluster",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return cur.repo.Delete(args[0])
	},
}

func init() {
	clustersAddCmd.Flags().StringSliceVar(&clusterBrokers, "brokers", nil, "Broker addresses")
	clustersAddCmd.Flags().StringVar(&clusterDriver, "driver", "", "Broker driver: franz or kafka-go")
	clustersAddCmd.Flags().StringVar(&clusterClientID, "client-id", "", "Client ID sent to the brokers")
	_ = clustersAddCmd.MarkFlagRequired("brokers")

	clustersCmd.AddCommand(clustersListCmd)
	clustersCmd.AddCommand(clustersAddCmd)
	clustersCmd.AddCommand(clustersRemoveCmd)
}
