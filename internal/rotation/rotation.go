// Package rotation groups track aggregates into rotation tiers by
// listening intensity using k-means clustering.
package rotation

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/justestif/go-spotify-history-reconciler/internal/track"
)

// TierConfig holds rotation clustering parameters.
type TierConfig struct {
	NumTiers    int // Number of tiers to create (default: 3)
	MinTierSize int // Minimum tracks per tier (smaller tiers become outliers)
}

// DefaultTierConfig returns the recommended default configuration.
func DefaultTierConfig() TierConfig {
	return TierConfig{
		NumTiers:    3,
		MinTierSize: 3,
	}
}

// Tier is a group of track aggregates with similar listening intensity.
type Tier struct {
	Name      string        // "Heavy rotation", "Medium rotation", ...
	Nodes     []*track.Node // Aggregates in this tier, heaviest first
	Intensity float64       // Centroid mean on the normalized 0-1 scale
}

// nodeObservation wraps a track.Node to implement clusters.Observation.
type nodeObservation struct {
	node   *track.Node
	coords clusters.Coordinates
}

func (o nodeObservation) Coordinates() clusters.Coordinates {
	return o.coords
}

func (o nodeObservation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

// DetectTiers groups aggregates by listening intensity using k-means
// over (play count, total play time, average play duration), min-max
// normalized across the input. Returns tiers sorted heaviest first and
// outlier nodes that did not form a tier of at least MinTierSize.
func DetectTiers(nodes []*track.Node, cfg TierConfig) ([]Tier, []*track.Node) {
	if len(nodes) == 0 {
		return nil, nil
	}

	// Apply defaults
	if cfg.NumTiers <= 0 {
		cfg.NumTiers = DefaultTierConfig().NumTiers
	}

	// Fewer nodes than tiers: nothing to cluster, everything is an outlier.
	if len(nodes) < cfg.NumTiers {
		return nil, slices.Clone(nodes)
	}

	// Build observations from normalized listening statistics
	vectors := buildIntensityVectors(nodes)
	var obs clusters.Observations
	for i, node := range nodes {
		obs = append(obs, nodeObservation{node: node, coords: vectors[i]})
	}

	km := kmeans.New()
	result, err := km.Partition(obs, cfg.NumTiers)
	if err != nil {
		// On error, treat all as outliers
		slog.Warn("k-means tier clustering failed", "error", err)
		return nil, slices.Clone(nodes)
	}

	var tiers []Tier
	var outliers []*track.Node

	for _, cluster := range result {
		var tierNodes []*track.Node
		for _, o := range cluster.Observations {
			if no, ok := o.(nodeObservation); ok {
				tierNodes = append(tierNodes, no.node)
			}
		}

		if len(tierNodes) < cfg.MinTierSize {
			outliers = append(outliers, tierNodes...)
			continue
		}

		// Heaviest tracks first within the tier
		slices.SortFunc(tierNodes, func(a, b *track.Node) int {
			if a.PlayCount() != b.PlayCount() {
				return b.PlayCount() - a.PlayCount()
			}
			return int(b.TotalPlayTime() - a.TotalPlayTime())
		})

		tiers = append(tiers, Tier{
			Nodes:     tierNodes,
			Intensity: centroidIntensity(cluster.Center),
		})
	}

	// Sort tiers by intensity (heaviest first), then name by rank
	slices.SortFunc(tiers, func(a, b Tier) int {
		switch {
		case a.Intensity > b.Intensity:
			return -1
		case a.Intensity < b.Intensity:
			return 1
		default:
			return 0
		}
	})
	for i := range tiers {
		tiers[i].Name = tierName(i, len(tiers))
	}

	return tiers, outliers
}

// buildIntensityVectors maps each node to a (count, total, average)
// vector, each coordinate min-max normalized to the 0-1 scale across the
// input set.
func buildIntensityVectors(nodes []*track.Node) []clusters.Coordinates {
	counts := make([]float64, len(nodes))
	totals := make([]float64, len(nodes))
	averages := make([]float64, len(nodes))
	for i, node := range nodes {
		counts[i] = float64(node.PlayCount())
		totals[i] = node.TotalPlayTime()
		averages[i] = float64(node.AveragePlayDuration())
	}

	normalize(counts)
	normalize(totals)
	normalize(averages)

	vectors := make([]clusters.Coordinates, len(nodes))
	for i := range nodes {
		vectors[i] = clusters.Coordinates{counts[i], totals[i], averages[i]}
	}
	return vectors
}

// normalize rescales values in place to the 0-1 range. A constant column
// maps to all zeros.
func normalize(values []float64) {
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	span := maxVal - minVal
	if span == 0 {
		for i := range values {
			values[i] = 0
		}
		return
	}
	for i := range values {
		values[i] = (values[i] - minVal) / span
	}
}

// centroidIntensity reduces a centroid to a single 0-1 intensity score.
func centroidIntensity(center clusters.Coordinates) float64 {
	if len(center) == 0 {
		return 0
	}
	var sum float64
	for _, c := range center {
		sum += c
	}
	return sum / float64(len(center))
}

// tierName labels a tier by its intensity rank.
func tierName(rank, total int) string {
	switch {
	case rank == 0:
		return "Heavy rotation"
	case rank == total-1:
		return "Light rotation"
	case rank == 1:
		return "Medium rotation"
	default:
		return fmt.Sprintf("Rotation tier %d", rank+1)
	}
}
