// Package canonical derives stable cross-platform track identities from
// raw (artist, title, album) metadata.
//
// Different platforms report the same song under different casing,
// punctuation, and URIs. Normalizing each field and joining the triple
// with a fixed delimiter yields one key per logical track, so plays can
// be reconciled no matter how the source spelled them.
package canonical

import "strings"

// Delimiter joins the normalized fields of an identity key. Normalize
// never emits ':' (it is not on the allow-list), so the sequence cannot
// appear inside a normalized field.
const Delimiter = "::"

// Metadata is a raw track triple as reported by a platform export.
// Fields carry user-supplied casing and punctuation; Album may be empty.
type Metadata struct {
	Artist string
	Title  string
	Album  string
}

// Normalize reduces s to its canonical comparison form: lowercased, every
// rune that is not an ASCII letter or digit replaced with a space,
// whitespace runs collapsed to a single space, and the result trimmed.
// Empty input yields the empty string; Normalize never fails and is
// idempotent.
//
// The folding is deliberately ASCII-ordinal. Accented or non-Latin text
// degrades to whatever characters survive the allow-list; that is a
// documented limitation, not a bug.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	folded := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return ' '
		}
	}, s)
	return strings.Join(strings.Fields(folded), " ")
}

// MakeIdentity returns the canonical identity key for m: the three
// normalized fields joined by Delimiter. Two metadata values that differ
// only in case, punctuation, or whitespace-run length map to the same
// key. Pure and total.
func MakeIdentity(m Metadata) string {
	return Normalize(m.Artist) + Delimiter + Normalize(m.Title) + Delimiter + Normalize(m.Album)
}

// ParseIdentity splits an identity key back into its segments. Segment 0
// is the artist, segment 1 the title, and segment 2 the album; missing
// segments map to the empty string. Segments past index 2 are silently
// dropped — lossy for malformed keys whose album text contained the
// delimiter, which Normalize output cannot produce but callers must not
// assume is impossible. Never fails.
func ParseIdentity(identity string) Metadata {
	parts := strings.Split(identity, Delimiter)
	var m Metadata
	if len(parts) > 0 {
		m.Artist = parts[0]
	}
	if len(parts) > 1 {
		m.Title = parts[1]
	}
	if len(parts) > 2 {
		m.Album = parts[2]
	}
	return m
}

// IsValidMetadata reports whether v is a structurally valid metadata
// record: a decoded JSON object with string "artist" and "title" fields,
// and an "album" field that is either absent or a string. Use it to gate
// untrusted input before identity generation.
func IsValidMetadata(v any) bool {
	record, ok := v.(map[string]any)
	if !ok {
		return false
	}
	if _, ok := record["artist"].(string); !ok {
		return false
	}
	if _, ok := record["title"].(string); !ok {
		return false
	}
	if album, present := record["album"]; present {
		if _, ok := album.(string); !ok {
			return false
		}
	}
	return true
}

// SafeMakeIdentity validates v with IsValidMetadata before generating an
// identity. It returns ("", false) on rejection and the identity with
// true otherwise. This is the only entry point that should see
// untrusted, externally sourced values.
func SafeMakeIdentity(v any) (string, bool) {
	if !IsValidMetadata(v) {
		return "", false
	}
	record := v.(map[string]any)
	m := Metadata{
		Artist: record["artist"].(string),
		Title:  record["title"].(string),
	}
	if album, ok := record["album"].(string); ok {
		m.Album = album
	}
	return MakeIdentity(m), true
}
