package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/zmb3/spotify/v2"

	"github.com/justestif/go-spotify-history-reconciler/internal/history"
	"github.com/justestif/go-spotify-history-reconciler/internal/track"
)

// renderNodeTable renders track aggregates as a listening report table.
func renderNodeTable(nodes []*track.Node) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Artist", "Title", "Album", "Track ID", "Plays", "Total", "Avg"})

	for _, node := range nodes {
		metadata := node.Metadata()
		tw.AppendRow(table.Row{
			metadata.Artist,
			metadata.Title,
			metadata.Album,
			string(nodeTrackID(node)),
			node.PlayCount(),
			node.FormattedTotalTime(),
			fmt.Sprintf("%ds", node.AveragePlayDuration()/1000),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
	})

	return tw.Render()
}

// nodeTrackID returns the typed Spotify ID behind the node's first track
// URI, or empty when no URI parses as a track reference.
func nodeTrackID(node *track.Node) spotify.ID {
	for _, uri := range node.PlatformURIs() {
		if id, ok := history.TrackID(uri); ok {
			return id
		}
	}
	return ""
}
