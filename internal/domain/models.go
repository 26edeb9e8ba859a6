package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// TicksPerSecond is the time unit used by the media server API:
// 10,000,000 ticks per second.
const TicksPerSecond int64 = 10_000_000

// SecondsFromTicks converts a tick count to whole seconds, rounded.
func SecondsFromTicks(ticks int64) int64 {
	return (ticks + TicksPerSecond/2) / TicksPerSecond
}

// ContentType tags the kind of media item a session is playing
type ContentType string

const (
	// ContentEpisode is an episode of a series
	ContentEpisode ContentType = "Episode"
	// ContentMovie is a feature film
	ContentMovie ContentType = "Movie"
	// ContentMusicVideo is a music video
	ContentMusicVideo ContentType = "MusicVideo"
	// ContentAudio is an audio track
	ContentAudio ContentType = "Audio"
)

// ServerConfig holds the connection details of one configured media server.
// Within the registry entries are unique by ServerID and at most one entry
// has IsSelected set.
type ServerConfig struct {
	Address    string `json:"address"`
	Port       string `json:"port"`
	Protocol   string `json:"protocol"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	ServerID   string `json:"serverId"`
	ServerName string `json:"serverName"`
	IsSelected bool   `json:"isSelected"`
}

// BaseURL returns the normalized server root, without a trailing slash.
func (s ServerConfig) BaseURL() string {
	u, err := url.Parse(fmt.Sprintf("%s://%s", strings.ToLower(s.Protocol), s.Address))
	if err != nil {
		return fmt.Sprintf("%s://%s:%s", strings.ToLower(s.Protocol), s.Address, s.Port)
	}
	if s.Port != "" {
		u.Host = u.Hostname() + ":" + s.Port
	}
	return strings.TrimRight(u.String(), "/")
}

// Redacted returns a copy safe for debug logging, with credential fields
// masked. Address is masked too since it identifies the user's network.
func (s ServerConfig) Redacted() ServerConfig {
	masked := s
	masked.Address = "[redacted]"
	masked.Username = "[redacted]"
	masked.Password = "[redacted]"
	return masked
}

// SystemInfo identifies a media server, fetched during registration
type SystemInfo struct {
	ID         string `json:"Id"`
	ServerName string `json:"ServerName"`
}

// PlayState is the playback position of a session
type PlayState struct {
	PositionTicks int64 `json:"PositionTicks"`
	IsPaused      bool  `json:"IsPaused"`
}

// NamedItem is an entry with a display name, used for album artists
type NamedItem struct {
	Name string `json:"Name"`
}

// ExternalLink points at a third-party page for a media item (IMDb etc.)
type ExternalLink struct {
	Name string `json:"Name"`
	URL  string `json:"Url"`
}

// MediaItem describes what a session is currently playing. Fields are
// populated per content type; absent values decode to their zero value.
type MediaItem struct {
	ID                string         `json:"Id"`
	Name              string         `json:"Name"`
	Type              ContentType    `json:"Type"`
	SeriesID          string         `json:"SeriesId"`
	SeriesName        string         `json:"SeriesName"`
	SeasonName        string         `json:"SeasonName"`
	ParentIndexNumber int            `json:"ParentIndexNumber"`
	IndexNumber       int            `json:"IndexNumber"`
	ProductionYear    int            `json:"ProductionYear"`
	RunTimeTicks      int64          `json:"RunTimeTicks"`
	Artists           []string       `json:"Artists"`
	AlbumArtists      []NamedItem    `json:"AlbumArtists"`
	ExternalURLs      []ExternalLink `json:"ExternalUrls"`
}

// Session is one media server playback session as returned by a poll.
// It lives for a single cycle and is never persisted.
type Session struct {
	UserName       string     `json:"UserName"`
	Client         string     `json:"Client"`
	RemoteEndPoint string     `json:"RemoteEndPoint"`
	NowPlayingItem *MediaItem `json:"NowPlayingItem"`
	PlayState      PlayState  `json:"PlayState"`
}

// Redacted returns a copy safe for debug logging, with the caller's network
// endpoint masked.
func (s Session) Redacted() Session {
	masked := s
	masked.RemoteEndPoint = "[redacted]"
	return masked
}

// Button is one external-link button on a presence payload
type Button struct {
	Label string
	URL   string
}

// PausedEndTimestamp is the sentinel end timestamp (epoch+1) used while
// playback is paused, so the display does not show an elapsing timer.
const PausedEndTimestamp int64 = 1

// PresencePayload is the structured status descriptor pushed to the display
// channel. Constructed fresh every cycle; replaced or cleared, never mutated.
// StartTimestamp is zero (absent) while playback is paused.
type PresencePayload struct {
	Details        string
	State          string
	LargeImageKey  string
	LargeImageText string
	SmallImageKey  string
	SmallImageText string
	StartTimestamp int64
	EndTimestamp   int64
	Buttons        []Button
}

// ConnectionState is the lifecycle state of the presence channel connection
type ConnectionState int32

const (
	// Disconnected means no transport is established
	Disconnected ConnectionState = iota
	// Connecting means a transport is being established
	Connecting
	// Connected means the channel is ready to receive activity updates
	Connected
)

func (s ConnectionState) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return fmt.Sprintf("unknown(%d)", int32(s))
	}
}
