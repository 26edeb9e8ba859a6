// Package presence maps media server playback sessions to presence payloads.
// The translation is a pure function of the session, so every branch of the
// per-content-type formatting is directly testable.
package presence

import (
	"fmt"
	"strings"
	"time"

	"github.com/jellycord/jellycord/internal/domain"
)

const (
	maxArtists = 3
	maxButtons = 2

	unknownArtist = "Unknown Artist"

	// genericImageKey is the asset shown when an item has no artwork of
	// its own
	genericImageKey = "jellyfin"
)

// BuildPayload translates one playback session into a presence payload.
// serverBaseURL is used to build artwork URLs, showButtons gates external
// link buttons, and now anchors the start/end timestamps.
//
// While playback is paused the payload carries no start timestamp and the
// end timestamp is pinned to epoch+1 so the display shows no elapsing timer.
func BuildPayload(s domain.Session, serverBaseURL string, showButtons bool, now time.Time) *domain.PresencePayload {
	item := s.NowPlayingItem
	if item == nil {
		return nil
	}

	p := &domain.PresencePayload{
		LargeImageKey:  genericImageKey,
		LargeImageText: fmt.Sprintf("%s on %s", verbFor(item.Type), s.Client),
		SmallImageKey:  "play",
		SmallImageText: "Playing",
		EndTimestamp:   domain.PausedEndTimestamp,
	}

	if s.PlayState.IsPaused {
		p.SmallImageKey = "pause"
		p.SmallImageText = "Paused"
	} else {
		elapsed := domain.SecondsFromTicks(s.PlayState.PositionTicks)
		remaining := domain.SecondsFromTicks(item.RunTimeTicks - s.PlayState.PositionTicks)
		p.StartTimestamp = now.Unix() - elapsed
		p.EndTimestamp = now.Unix() + remaining
	}

	switch item.Type {
	case domain.ContentEpisode:
		p.Details = item.SeriesName
		if item.ParentIndexNumber > 1 && item.SeasonName != "" {
			p.Details += " " + item.SeasonName
		}
		p.State = episodeState(item)
		p.LargeImageKey = itemImageURL(serverBaseURL, item.SeriesID)
	case domain.ContentMovie:
		p.Details = nameWithYear(item)
		p.LargeImageKey = itemImageURL(serverBaseURL, item.ID)
	case domain.ContentMusicVideo:
		p.Details = nameWithYear(item)
		p.State = artistLine(item.Artists, nil)
		p.LargeImageKey = itemImageURL(serverBaseURL, item.ID)
	case domain.ContentAudio:
		p.Details = nameWithYear(item)
		p.State = artistLine(item.Artists, item.AlbumArtists)
		p.LargeImageKey = itemImageURL(serverBaseURL, item.ID)
	default:
		p.Details = "Watching Other Content"
		p.State = item.Name
	}

	if showButtons {
		p.Buttons = externalButtons(item.ExternalURLs)
	}

	return p
}

func verbFor(t domain.ContentType) string {
	if t == domain.ContentAudio {
		return "Listening"
	}
	return "Watching"
}

// episodeState renders "S{season}:E{episode} - {name}", dropping the season
// and episode segments when the numbers are absent.
func episodeState(item *domain.MediaItem) string {
	var prefix string
	if item.ParentIndexNumber > 0 {
		prefix = fmt.Sprintf("S%d:", item.ParentIndexNumber)
	}
	if item.IndexNumber > 0 {
		prefix += fmt.Sprintf("E%d", item.IndexNumber)
	}
	prefix = strings.TrimSuffix(prefix, ":")
	if prefix == "" {
		return item.Name
	}
	return prefix + " - " + item.Name
}

func nameWithYear(item *domain.MediaItem) string {
	if item.ProductionYear > 0 {
		return fmt.Sprintf("%s (%d)", item.Name, item.ProductionYear)
	}
	return item.Name
}

// artistLine renders "By a, b, c" from at most the first three artists.
// Album artists are the fallback when the primary list is empty.
func artistLine(artists []string, albumArtists []domain.NamedItem) string {
	names := artists
	if len(names) == 0 {
		for _, a := range albumArtists {
			names = append(names, a.Name)
		}
	}
	if len(names) == 0 {
		return "By " + unknownArtist
	}
	if len(names) > maxArtists {
		names = names[:maxArtists]
	}
	return "By " + strings.Join(names, ", ")
}

func itemImageURL(serverBaseURL, itemID string) string {
	if serverBaseURL == "" || itemID == "" {
		return genericImageKey
	}
	return fmt.Sprintf("%s/Items/%s/Images/Primary", serverBaseURL, itemID)
}

func externalButtons(links []domain.ExternalLink) []domain.Button {
	if len(links) == 0 {
		return nil
	}
	if len(links) > maxButtons {
		links = links[:maxButtons]
	}
	buttons := make([]domain.Button, 0, len(links))
	for _, l := range links {
		buttons = append(buttons, domain.Button{
			Label: "View on " + l.Name,
			URL:   l.URL,
		})
	}
	return buttons
}
