// Package track implements the per-identity aggregate that accumulates
// play statistics across every platform spelling of the same song.
package track

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/justestif/go-spotify-history-reconciler/internal/canonical"
)

// Sentinel labels substituted for empty artist/title at construction.
// Album is deliberately never sentineled; an empty album stays empty.
const (
	UnknownArtist = "Unknown Artist"
	UnknownTitle  = "Unknown Title"
)

// Position is a 3D placement in the visualization space. The aggregate
// stores it on behalf of a rendering layer and never computes it.
type Position struct {
	X, Y, Z float64
}

// Node is the mutable aggregate for one canonical track identity. The
// identity and metadata snapshot are fixed at construction; the play
// counter and total play time only ever grow, and platform URIs only
// accumulate. A node is created on the first play event for its identity
// and lives for the whole session.
//
// Not safe for concurrent mutation; the fold assumes at most one writer
// per node.
type Node struct {
	identity    string
	metadata    canonical.Metadata
	playCount   int
	totalPlayMs float64
	uris        map[string]struct{}
	position    Position
}

// NewNode creates an aggregate for the given canonical identity. The
// metadata is copied, so later mutation of the caller's value has no
// effect on the node. Empty artist and title are replaced with the
// sentinel labels; an empty album is kept as-is.
func NewNode(identity string, metadata canonical.Metadata) *Node {
	if metadata.Artist == "" {
		metadata.Artist = UnknownArtist
	}
	if metadata.Title == "" {
		metadata.Title = UnknownTitle
	}
	return &Node{
		identity: identity,
		metadata: metadata,
		uris:     make(map[string]struct{}),
	}
}

// Identity returns the canonical identity key.
func (n *Node) Identity() string {
	return n.identity
}

// Metadata returns the defaulted metadata snapshot.
func (n *Node) Metadata() canonical.Metadata {
	return n.metadata
}

// PlayCount returns the number of accepted plays.
func (n *Node) PlayCount() int {
	return n.playCount
}

// TotalPlayTime returns the accumulated play time in milliseconds.
func (n *Node) TotalPlayTime() float64 {
	return n.totalPlayMs
}

// Position returns the current visualization position.
func (n *Node) Position() Position {
	return n.position
}

// PlatformURIs returns a sorted copy of the known platform URIs.
// Mutating the returned slice does not affect the node.
func (n *Node) PlatformURIs() []string {
	uris := make([]string, 0, len(n.uris))
	for uri := range n.uris {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	return uris
}

// RecordPlay adds one play of msPlayed milliseconds. Only finite values
// strictly greater than zero are accepted; NaN, infinities, zero (a
// skip), and negatives are silently ignored.
func (n *Node) RecordPlay(msPlayed float64) {
	if math.IsNaN(msPlayed) || math.IsInf(msPlayed, 0) || msPlayed <= 0 {
		return
	}
	n.playCount++
	n.totalPlayMs += msPlayed
}

// AddPlatformURI records a platform URI sighting. Empty and
// whitespace-only strings are silently ignored; re-adding a known URI is
// a no-op.
func (n *Node) AddPlatformURI(uri string) {
	if strings.TrimSpace(uri) == "" {
		return
	}
	n.uris[uri] = struct{}{}
}

// SetPosition stores a copy of p for the visualization layer. Positions
// with a non-finite coordinate are rejected: the previous position is
// kept and a diagnostic is logged, never an error.
func (n *Node) SetPosition(p Position) {
	if !finite(p.X) || !finite(p.Y) || !finite(p.Z) {
		slog.Warn("ignoring non-finite track position",
			"identity", n.identity,
			"x", p.X, "y", p.Y, "z", p.Z)
		return
	}
	n.position = p
}

// AveragePlayDuration returns the rounded mean play length in
// milliseconds, or 0 when nothing has been played.
func (n *Node) AveragePlayDuration() int64 {
	if n.playCount == 0 {
		return 0
	}
	return int64(math.Round(n.totalPlayMs / float64(n.playCount)))
}

// FormattedTotalTime renders the total play time as minutes and seconds,
// seconds zero-padded ("9:00", "13:45"). Minutes are not capped at an
// hour.
func (n *Node) FormattedTotalTime() string {
	totalSeconds := int64(n.totalPlayMs / 1000)
	return fmt.Sprintf("%d:%02d", totalSeconds/60, totalSeconds%60)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
