package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/justestif/go-spotify-history-reconciler/internal/history"
	"github.com/justestif/go-spotify-history-reconciler/internal/rotation"
	"github.com/justestif/go-spotify-history-reconciler/internal/track"
)

func newRootCommand() *cobra.Command {
	var (
		topN      int
		showTiers bool
	)

	cmd := &cobra.Command{
		Use:   "spotify-history-reconciler <export.json>",
		Short: "Reconcile a Spotify streaming history export into per-track play statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], topN, showTiers)
		},
	}

	cmd.Flags().IntVar(&topN, "top", 20, "number of tracks to list, by play count")
	cmd.Flags().BoolVar(&showTiers, "tiers", false, "group tracks into rotation tiers")
	return cmd
}

func run(cmd *cobra.Command, path string, topN int, showTiers bool) error {
	runID := uuid.New()
	logger := slog.Default().With("run_id", runID.String())

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening export: %w", err)
	}
	defer file.Close()

	entries, err := history.LoadAcceptedEntries(file)
	if err != nil {
		return fmt.Errorf("loading export: %w", err)
	}
	logger.Info("loaded export", "path", path, "accepted_entries", len(entries))

	events := history.ToPlayEvents(entries)
	nodes := history.Aggregate(events)
	logger.Info("reconciled plays", "events", len(events), "distinct_tracks", len(nodes))

	ranked := rankByPlayCount(nodes)
	if topN > 0 && topN < len(ranked) {
		ranked = ranked[:topN]
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderNodeTable(ranked))

	if showTiers {
		tiers, outliers := rotation.DetectTiers(rankByPlayCount(nodes), rotation.DefaultTierConfig())
		for _, tier := range tiers {
			fmt.Fprintf(cmd.OutOrStdout(), "\n%s (%d tracks)\n", tier.Name, len(tier.Nodes))
			fmt.Fprintln(cmd.OutOrStdout(), renderNodeTable(tier.Nodes))
		}
		if len(outliers) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d tracks did not fit a tier\n", len(outliers))
		}
	}

	return nil
}

// rankByPlayCount returns the nodes sorted by play count descending,
// breaking ties by total play time, then identity for stable output.
func rankByPlayCount(nodes map[string]*track.Node) []*track.Node {
	ranked := make([]*track.Node, 0, len(nodes))
	for _, node := range nodes {
		ranked = append(ranked, node)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].PlayCount() != ranked[j].PlayCount() {
			return ranked[i].PlayCount() > ranked[j].PlayCount()
		}
		if ranked[i].TotalPlayTime() != ranked[j].TotalPlayTime() {
			return ranked[i].TotalPlayTime() > ranked[j].TotalPlayTime()
		}
		return ranked[i].Identity() < ranked[j].Identity()
	})
	return ranked
}
