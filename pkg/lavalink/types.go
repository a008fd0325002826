package lavalink

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// TrackInfo describes a track as reported by Lavalink.
type TrackInfo struct {
	Identifier string `json:"identifier"`
	IsSeekable bool   `json:"isSeekable"`
	Author     string `json:"author"`
	Length     int64  `json:"length"`
	IsStream   bool   `json:"isStream"`
	Position   int64  `json:"position"`
	Title      string `json:"title"`
	URI        string `json:"uri"`
	ArtworkURL string `json:"artworkUrl"`
	SourceName string `json:"sourceName"`
}

// Track is a playable track. Requester is filled in by the bot.
type Track struct {
	Encoded   string    `json:"encoded"`
	Info      TrackInfo `json:"info"`
	Requester string    `json:"-"`
}

// Load result types of /v4/loadtracks.
const (
	LoadTrack    = "track"
	LoadPlaylist = "playlist"
	LoadSearch   = "search"
	LoadEmpty    = "empty"
	LoadError    = "error"
)

// Exception is a Lavalink error payload.
type Exception struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Cause    string `json:"cause"`
}

func (e *Exception) Error() string {
	return fmt.Sprintf("lavalink: %s (%s)", e.Message, e.Severity)
}

// LoadResult is a decoded /v4/loadtracks response.
type LoadResult struct {
	Type         string
	Tracks       []*Track
	PlaylistName string
	Exception    *Exception
}

type rawLoadResult struct {
	LoadType string          `json:"loadType"`
	Data     json.RawMessage `json:"data"`
}

type playlistData struct {
	Info struct {
		Name string `json:"name"`
	} `json:"info"`
	Tracks []*Track `json:"tracks"`
}

func decodeLoadResult(raw rawLoadResult) (*LoadResult, error) {
	res := &LoadResult{Type: raw.LoadType}

	var err error
	switch raw.LoadType {
	case LoadTrack:
		var t Track
		err = json.Unmarshal(raw.Data, &t)
		res.Tracks = []*Track{&t}
	case LoadPlaylist:
		var p playlistData
		err = json.Unmarshal(raw.Data, &p)
		res.Tracks, res.PlaylistName = p.Tracks, p.Info.Name
	case LoadSearch:
		err = json.Unmarshal(raw.Data, &res.Tracks)
	case LoadError:
		res.Exception = &Exception{}
		err = json.Unmarshal(raw.Data, res.Exception)
	case LoadEmpty:
	default:
		err = fmt.Errorf("unknown load type %q", raw.LoadType)
	}
	if err != nil {
		return nil, fmt.Errorf("decode load result: %w", err)
	}
	return res, nil
}

// Identifier turns user input into a loadtracks identifier: URLs are
// passed through, anything else is searched with prefix.
func Identifier(query, prefix string) string {
	query = strings.TrimSpace(query)
	if strings.HasPrefix(query, "http://") || strings.HasPrefix(query, "https://") {
		return query
	}
	return prefix + ":" + query
}

// VoiceState is the voice connection Lavalink needs to join a channel.
type VoiceState struct {
	Token     string `json:"token"`
	Endpoint  string `json:"endpoint"`
	SessionID string `json:"sessionId"`
	ChannelID string `json:"channelId,omitempty"`
}

// TrackUpdate selects the track to play. A nil Encoded stops playback.
type TrackUpdate struct {
	Encoded *string `json:"encoded"`
}

// PlayerUpdate is the body of PATCH /v4/sessions/{session}/players/{guild}.
type PlayerUpdate struct {
	Track    *TrackUpdate `json:"track,omitempty"`
	Position *int64       `json:"position,omitempty"`
	Paused   *bool        `json:"paused,omitempty"`
	Volume   *int         `json:"volume,omitempty"`
	Voice    *VoiceState  `json:"voice,omitempty"`
}

// MusicState is the player snapshot published over MQTT.
type MusicState struct {
	GuildID      string        `json:"guildId"`
	Event        string        `json:"event"`
	IsPlaying    bool          `json:"isPlaying"`
	IsPaused     bool          `json:"isPaused"`
	CurrentTrack *TrackState   `json:"currentTrack"`
	Progress     float64       `json:"progress"`
	Volume       int           `json:"volume"`
	Loop         string        `json:"loop"`
	Queue        []*TrackState `json:"queue"`
	Timestamp    int64         `json:"timestamp"`
}

// TrackState is a track inside MusicState.
type TrackState struct {
	Title     string  `json:"title"`
	Artist    string  `json:"artist"`
	Duration  float64 `json:"duration"`
	Thumbnail string  `json:"thumbnail,omitempty"`
	URL       string  `json:"url,omitempty"`
}

func trackState(t *Track) *TrackState {
	return &TrackState{
		Title:     t.Info.Title,
		Artist:    t.Info.Author,
		Duration:  float64(t.Info.Length) / 1000,
		Thumbnail: t.Info.ArtworkURL,
		URL:       t.Info.URI,
	}
}

// wsMessage is any op received on the Lavalink websocket.
type wsMessage struct {
	Op        string `json:"op"`
	SessionID string `json:"sessionId"`
	Resumed   bool   `json:"resumed"`
	GuildID   string `json:"guildId"`
	Type      string `json:"type"`
	Reason    string `json:"reason"`
	State     struct {
		Position  int64 `json:"position"`
		Connected bool  `json:"connected"`
	} `json:"state"`
	Exception *Exception `json:"exception"`
	Track     *Track     `json:"track"`
	Players   int        `json:"players"`
}
