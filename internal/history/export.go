// Package history ingests Spotify extended streaming history exports,
// maps accepted records into canonical play events, and folds them into
// per-identity track aggregates.
package history

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/zmb3/spotify/v2"
)

// TrackURIPrefix marks a music track reference in the export. The same
// export mixes in episode and other non-track schemes, which are not
// songs and are dropped at load time.
const TrackURIPrefix = "spotify:track:"

// timestampLayout matches the export's play-stop timestamps, which are
// UTC without an explicit zone.
const timestampLayout = "2006-01-02 15:04:05"

// RawEntry is one record of the extended streaming history. The export's
// nullable fields are pointers; episode records leave the track fields
// null and carry their reference elsewhere.
type RawEntry struct {
	Timestamp       string   `json:"ts"`
	MsPlayed        *float64 `json:"ms_played"`
	TrackName       *string  `json:"master_metadata_track_name"`
	ArtistName      *string  `json:"master_metadata_album_artist_name"`
	AlbumName       *string  `json:"master_metadata_album_album_name"`
	SpotifyTrackURI *string  `json:"spotify_track_uri"`
}

// LoadAcceptedEntries reads the whole export from r in one blocking read
// and returns the entries that reference a music track. A source that is
// not a JSON array fails; everything below that is absorbed: elements
// that do not decode, episode records, and records with a missing track
// reference are dropped without error. An empty or fully-invalid array
// yields an empty result and a nil error.
func LoadAcceptedEntries(r io.Reader) ([]RawEntry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, fmt.Errorf("parsing export: %w", err)
	}
	// Unmarshal accepts a top-level null, leaving the slice nil.
	if elements == nil {
		return nil, fmt.Errorf("parsing export: expected a JSON array, got null")
	}

	accepted := make([]RawEntry, 0, len(elements))
	for _, element := range elements {
		var entry RawEntry
		if err := json.Unmarshal(element, &entry); err != nil {
			continue
		}
		if entry.SpotifyTrackURI == nil || !strings.HasPrefix(*entry.SpotifyTrackURI, TrackURIPrefix) {
			continue
		}
		accepted = append(accepted, entry)
	}
	return accepted, nil
}

// TrackID extracts the typed Spotify track ID from a track URI. It
// returns false for non-track URIs and references with an empty ID.
func TrackID(uri string) (spotify.ID, bool) {
	id, ok := strings.CutPrefix(uri, TrackURIPrefix)
	if !ok || id == "" {
		return "", false
	}
	return spotify.ID(id), true
}
