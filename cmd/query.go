package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/OliveiraNt/offset-scout/internal/domain"
	"github.com/spf13/cobra"
)

var (
	topicsShowInternal bool
	topicsTolerant     bool
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Message count of every topic",
	Long: `Print the partition and message count of every topic as JSON.

Examples:
  offset-scout topics --host localhost:9092
  offset-scout topics --host dev --show-internal
  offset-scout topics --host dev --tolerant      # keep going when a topic fails`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return query(cmd, domain.Request{
			Op:           domain.OpTopics,
			Host:         v.GetString("host"),
			ShowInternal: topicsShowInternal,
			Tolerant:     topicsTolerant,
		})
	},
}

var topicCmd = &cobra.Command{
	Use:   "topic <name>",
	Short: "Message count of one topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return query(cmd, domain.Request{Op: domain.OpTopic, Host: v.GetString("host"), TopicName: args[0]})
	},
}

var partitionCmd = &cobra.Command{
	Use:   "partition <topic> <id>",
	Short: "Offsets and message count of one partition",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := partitionRequest(domain.OpPartition, v.GetString("host"), args)
		if err != nil {
			return err
		}
		return query(cmd, req)
	},
}

var brokersCmd = &cobra.Command{
	Use:   "brokers <topic> <id>",
	Short: "Leader and follower replicas of one partition",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := partitionRequest(domain.OpPartitionBrokers, v.GetString("host"), args)
		if err != nil {
			return err
		}
		return query(cmd, req)
	},
}

func init() {
	topicsCmd.Flags().BoolVar(&topicsShowInternal, "show-internal", false, "Include internal topics")
	topicsCmd.Flags().BoolVar(&topicsTolerant, "tolerant", false, "Report per-topic failures instead of failing the list")
}

func partitionRequest(op, host string, args []string) (domain.Request, error) {
	id, err := strconv.ParseInt(args[1], 10, 32)
	if err != nil {
		return domain.Request{}, fmt.Errorf("%w: partition id %q is not an integer", domain.ErrInvalidRequest, args[1])
	}
	p := int32(id)
	return domain.Request{Op: op, Host: host, TopicName: args[0], PartitionID: &p}, nil
}

func query(cmd *cobra.Command, req domain.Request) error {
	ev := cur.bridge.Do(cmd.Context(), req)
	return printEvent(cmd.OutOrStdout(), ev)
}

// printEvent writes the event payload as indented JSON. An error event is printed too and
// returned so the process exits non-zero.
func printEvent(w io.Writer, ev domain.Event) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if ev.Error != nil {
		if err := enc.Encode(ev.Error); err != nil {
			return err
		}
		return ev.Err()
	}
	return enc.Encode(ev.Data)
}
