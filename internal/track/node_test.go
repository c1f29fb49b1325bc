package track

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/justestif/go-spotify-history-reconciler/internal/canonical"
)

func TestNewNode_SentinelDefaults(t *testing.T) {
	node := NewNode("::::", canonical.Metadata{})

	got := node.Metadata()
	if got.Artist != UnknownArtist {
		t.Errorf("artist = %q, want %q", got.Artist, UnknownArtist)
	}
	if got.Title != UnknownTitle {
		t.Errorf("title = %q, want %q", got.Title, UnknownTitle)
	}
	if got.Album != "" {
		t.Errorf("album = %q, want empty (never sentineled)", got.Album)
	}
}

func TestNewNode_CopiesMetadata(t *testing.T) {
	metadata := canonical.Metadata{Artist: "Radiohead", Title: "Creep", Album: "Pablo Honey"}
	node := NewNode("radiohead::creep::pablo honey", metadata)

	metadata.Artist = "mutated"
	if node.Metadata().Artist != "Radiohead" {
		t.Errorf("node metadata changed through caller's value: %q", node.Metadata().Artist)
	}
}

func TestNewNode_ZeroState(t *testing.T) {
	node := NewNode("a::b::", canonical.Metadata{Artist: "a", Title: "b"})

	if node.PlayCount() != 0 {
		t.Errorf("play count = %d, want 0", node.PlayCount())
	}
	if node.TotalPlayTime() != 0 {
		t.Errorf("total play time = %v, want 0", node.TotalPlayTime())
	}
	if node.AveragePlayDuration() != 0 {
		t.Errorf("average = %d, want 0", node.AveragePlayDuration())
	}
	if pos := node.Position(); pos != (Position{}) {
		t.Errorf("position = %+v, want origin", pos)
	}
	if uris := node.PlatformURIs(); len(uris) != 0 {
		t.Errorf("uris = %v, want none", uris)
	}
}

func TestRecordPlay_AcceptsPositiveFinite(t *testing.T) {
	node := NewNode("a::b::", canonical.Metadata{Artist: "a", Title: "b"})

	node.RecordPlay(180000)
	node.RecordPlay(120000)

	if node.PlayCount() != 2 {
		t.Errorf("play count = %d, want 2", node.PlayCount())
	}
	if node.TotalPlayTime() != 300000 {
		t.Errorf("total play time = %v, want 300000", node.TotalPlayTime())
	}
	if node.AveragePlayDuration() != 150000 {
		t.Errorf("average = %d, want 150000", node.AveragePlayDuration())
	}
}

func TestRecordPlay_IgnoresInvalid(t *testing.T) {
	node := NewNode("a::b::", canonical.Metadata{Artist: "a", Title: "b"})

	node.RecordPlay(0)
	node.RecordPlay(-5)
	node.RecordPlay(math.NaN())
	node.RecordPlay(math.Inf(1))
	node.RecordPlay(math.Inf(-1))

	if node.PlayCount() != 0 {
		t.Errorf("play count = %d, want 0", node.PlayCount())
	}
	if node.TotalPlayTime() != 0 {
		t.Errorf("total play time = %v, want 0", node.TotalPlayTime())
	}
}

func TestAveragePlayDuration_Rounds(t *testing.T) {
	node := NewNode("a::b::", canonical.Metadata{Artist: "a", Title: "b"})

	node.RecordPlay(100)
	node.RecordPlay(101)
	node.RecordPlay(101)

	// 302 / 3 = 100.67, rounded not truncated.
	if got := node.AveragePlayDuration(); got != 101 {
		t.Errorf("average = %d, want 101", got)
	}
}

func TestFormattedTotalTime(t *testing.T) {
	tests := []struct {
		plays []float64
		want  string
	}{
		{nil, "0:00"},
		{[]float64{540000}, "9:00"},
		{[]float64{540000, 285000}, "13:45"},
		{[]float64{59999}, "0:59"},
		{[]float64{3600000}, "60:00"},
	}
	for _, tt := range tests {
		node := NewNode("a::b::", canonical.Metadata{Artist: "a", Title: "b"})
		for _, ms := range tt.plays {
			node.RecordPlay(ms)
		}
		if got := node.FormattedTotalTime(); got != tt.want {
			t.Errorf("after %v: FormattedTotalTime = %q, want %q", tt.plays, got, tt.want)
		}
	}
}

func TestAddPlatformURI_Idempotent(t *testing.T) {
	node := NewNode("a::b::", canonical.Metadata{Artist: "a", Title: "b"})

	node.AddPlatformURI("spotify:track:4iV5W9uYEdYUVa79Axb7Rh")
	node.AddPlatformURI("spotify:track:4iV5W9uYEdYUVa79Axb7Rh")

	uris := node.PlatformURIs()
	if len(uris) != 1 {
		t.Fatalf("uris = %v, want exactly one", uris)
	}
	if uris[0] != "spotify:track:4iV5W9uYEdYUVa79Axb7Rh" {
		t.Errorf("stored uri = %q", uris[0])
	}
}

func TestAddPlatformURI_IgnoresBlank(t *testing.T) {
	node := NewNode("a::b::", canonical.Metadata{Artist: "a", Title: "b"})

	node.AddPlatformURI("")
	node.AddPlatformURI("   ")
	node.AddPlatformURI("\t\n")

	if uris := node.PlatformURIs(); len(uris) != 0 {
		t.Errorf("uris = %v, want none", uris)
	}
}

func TestPlatformURIs_ReturnsCopy(t *testing.T) {
	node := NewNode("a::b::", canonical.Metadata{Artist: "a", Title: "b"})
	node.AddPlatformURI("spotify:track:one")

	uris := node.PlatformURIs()
	uris[0] = "mutated"

	if got := node.PlatformURIs(); got[0] != "spotify:track:one" {
		t.Errorf("internal state mutated through accessor: %v", got)
	}
}

func TestSetPosition(t *testing.T) {
	node := NewNode("a::b::", canonical.Metadata{Artist: "a", Title: "b"})

	node.SetPosition(Position{X: 1, Y: 2, Z: 3})
	if got := node.Position(); got != (Position{X: 1, Y: 2, Z: 3}) {
		t.Fatalf("position = %+v", got)
	}

	// Any non-finite coordinate leaves the prior position in place.
	node.SetPosition(Position{X: math.NaN(), Y: 0, Z: 0})
	node.SetPosition(Position{X: 0, Y: math.Inf(1), Z: 0})
	node.SetPosition(Position{X: 0, Y: 0, Z: math.NaN()})

	if got := node.Position(); got != (Position{X: 1, Y: 2, Z: 3}) {
		t.Errorf("position changed after invalid updates: %+v", got)
	}
}

func TestSetPosition_RejectionLogsDiagnostic(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	node := NewNode("a::b::", canonical.Metadata{Artist: "a", Title: "b"})

	// A rejected position is reported on the log side channel only.
	node.SetPosition(Position{X: math.NaN(), Y: 2, Z: 3})
	if !strings.Contains(buf.String(), "ignoring non-finite track position") {
		t.Errorf("expected diagnostic for rejected position, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "a::b::") {
		t.Errorf("diagnostic missing identity: %q", buf.String())
	}

	// An accepted position stays silent.
	buf.Reset()
	node.SetPosition(Position{X: 1, Y: 2, Z: 3})
	if buf.Len() != 0 {
		t.Errorf("unexpected log output for valid position: %q", buf.String())
	}
}
