package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"recruiter-platform/internal/datasync"
	"recruiter-platform/internal/domain"
	"recruiter-platform/pkg/database"
	"recruiter-platform/pkg/queue"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Publish or dry-run cross-region sync messages",
}

var syncSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Publish a sync message for one row",
	Long:  "Publishes a SyncMessage to the sync queue as if the row had just changed in the source region. Useful to replay a change the API failed to announce.",
	RunE:  runSyncSend,
}

var syncTargetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "Print the regions a row would replicate to",
	Long:  "Evaluates the sync policy against the configured region databases without writing anything.",
	RunE:  runSyncTargets,
}

var (
	syncEntityType string
	syncEntityID   string
	syncTable      string
	syncSource     string
	syncDeleted    bool
)

func init() {
	for _, c := range []*cobra.Command{syncSendCmd, syncTargetsCmd} {
		c.Flags().StringVar(&syncEntityType, "entity-type", "", "Entity type, e.g. JobPost (required)")
		c.Flags().StringVar(&syncEntityID, "entity-id", "", "Row id (required)")
		c.Flags().StringVar(&syncTable, "table", "", "Table name when it differs from the configured one")
		c.Flags().StringVar(&syncSource, "source", "", "Source region (defaults to API_REGION)")
		if err := c.MarkFlagRequired("entity-type"); err != nil {
			panic(fmt.Sprintf("failed to mark entity-type flag as required: %v", err))
		}
		if err := c.MarkFlagRequired("entity-id"); err != nil {
			panic(fmt.Sprintf("failed to mark entity-id flag as required: %v", err))
		}
	}
	syncSendCmd.Flags().BoolVar(&syncDeleted, "deleted", false, "Announce a deletion")

	syncCmd.AddCommand(syncSendCmd, syncTargetsCmd)
	rootCmd.AddCommand(syncCmd)
}

// buildSyncMessage fills a message from the command flags.
func buildSyncMessage(now time.Time) domain.SyncMessage {
	source := strings.ToUpper(strings.TrimSpace(syncSource))
	if source == "" {
		source = cfg.APIRegion
	}
	msg := domain.SyncMessage{
		SyncEventID:     uuid.NewString(),
		EntityType:      syncEntityType,
		EntityID:        syncEntityID,
		SourceRegion:    source,
		ChangeTimestamp: now.UTC(),
		IsDeleted:       syncDeleted,
	}
	if syncTable != "" {
		table := syncTable
		msg.TableName = &table
	}
	return msg
}

func runSyncSend(cmd *cobra.Command, _ []string) error {
	if cfg.RabbitMQURL == "" {
		return fmt.Errorf("RABBITMQ_URL is not set")
	}
	mq, err := queue.Dial(queue.Config{URL: cfg.RabbitMQURL, QueueName: cfg.SyncQueueName})
	if err != nil {
		return err
	}
	defer mq.Close()

	msg := buildSyncMessage(time.Now())
	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()
	if err := datasync.NewPublisher(mq, msg.SourceRegion).PublishBatch(ctx, []domain.SyncMessage{msg}); err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	out, err := json.MarshalIndent(msg, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func runSyncTargets(cmd *cobra.Command, _ []string) error {
	regions, err := datasync.ParseRegionConfig(cfg.SyncRegions, cfg.SyncRegionCountries)
	if err != nil {
		return err
	}
	store := datasync.NewSQLStore(regions, database.OpenSQL)
	defer store.Close()

	msg := buildSyncMessage(time.Now())
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	targets := datasync.NewService(regions, store).DetermineTargetRegions(ctx, &msg)
	if len(targets) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no target regions")
		return nil
	}
	for _, region := range targets {
		fmt.Fprintln(cmd.OutOrStdout(), region)
	}
	return nil
}
