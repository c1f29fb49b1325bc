package history

import (
	"github.com/justestif/go-spotify-history-reconciler/internal/track"
)

// Aggregate folds play events into one track.Node per canonical
// identity. The first event for an identity constructs the node with its
// metadata snapshot; every event, the first included, contributes
// through RecordPlay and AddPlatformURI, so skips still register their
// URI sighting while only real plays move the counters.
//
// The numeric accumulators are order-independent and URI membership is
// idempotent, so the fold may run over events in any order. No session
// semantics are derived from timestamps.
func Aggregate(events []PlayEvent) map[string]*track.Node {
	nodes := make(map[string]*track.Node, len(events))
	for _, event := range events {
		node, ok := nodes[event.Identity]
		if !ok {
			node = track.NewNode(event.Identity, event.Metadata)
			nodes[event.Identity] = node
		}
		node.RecordPlay(event.MsPlayed)
		node.AddPlatformURI(event.URI)
	}
	return nodes
}
