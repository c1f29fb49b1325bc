package history

import (
	"time"

	"github.com/justestif/go-spotify-history-reconciler/internal/canonical"
)

// PlayEvent is one accepted listen, keyed by canonical identity, prior
// to aggregation. Events are ephemeral: produced once per accepted raw
// entry, consumed by the fold, not retained.
type PlayEvent struct {
	// Timestamp is the play-stop time in epoch milliseconds.
	Timestamp int64

	// Identity is the canonical identity derived from Metadata.
	Identity string

	// Metadata is the raw triple with missing fields as empty strings.
	// Sentinel defaulting happens once, at aggregate construction.
	Metadata canonical.Metadata

	// URI is the originating platform track reference.
	URI string

	// MsPlayed is the listened duration in milliseconds; 0 is a skip.
	MsPlayed float64
}

// ToPlayEvents maps accepted entries one-to-one into play events,
// preserving order. No filtering happens here; that is the load step's
// job. Null names and durations default to their zero values, and a
// timestamp that does not parse maps to epoch zero.
func ToPlayEvents(entries []RawEntry) []PlayEvent {
	events := make([]PlayEvent, len(entries))
	for i, entry := range entries {
		metadata := canonical.Metadata{
			Artist: stringValue(entry.ArtistName),
			Title:  stringValue(entry.TrackName),
			Album:  stringValue(entry.AlbumName),
		}
		events[i] = PlayEvent{
			Timestamp: parseTimestampMs(entry.Timestamp),
			Identity:  canonical.MakeIdentity(metadata),
			Metadata:  metadata,
			URI:       stringValue(entry.SpotifyTrackURI),
			MsPlayed:  floatValue(entry.MsPlayed),
		}
	}
	return events
}

func parseTimestampMs(ts string) int64 {
	t, err := time.ParseInLocation(timestampLayout, ts, time.UTC)
	if err != nil {
		return 0
	}
	return t.UnixMilli()
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func floatValue(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
