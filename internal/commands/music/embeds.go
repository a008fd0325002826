package music

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	musicfmt "github.com/PancyStudios/SentryBot/internal/music"
	"github.com/PancyStudios/SentryBot/pkg/lavalink"
)

const (
	embedColor    = 0x0099ff
	previewTracks = 3
	barWidth      = 20

	genericError = "❌ | An error occurred while processing your request. Please try again."
)

// errorMessage maps player errors to the reply shown to the user.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, lavalink.ErrNotReady):
		return "❌ | The music server is not available right now. Please try again later."
	case errors.Is(err, lavalink.ErrVoiceJoin):
		return "❌ | Could not join your voice channel!"
	case errors.Is(err, lavalink.ErrNoPlayer):
		return "❌ | No active music session found!"
	case errors.Is(err, lavalink.ErrNothingPlaying):
		return "❌ | No music is currently playing!"
	case errors.Is(err, lavalink.ErrNotSeekable):
		return "❌ | This track cannot be seeked!"
	case errors.Is(err, lavalink.ErrSeekOutOfRange):
		return "❌ | Failed to seek to the specified position. The timestamp might be beyond the track duration."
	case errors.Is(err, lavalink.ErrInvalidVolume):
		return "❌ | Volume must be between 0 and 100!"
	case errors.Is(err, musicfmt.ErrTimestampFormat), errors.Is(err, musicfmt.ErrTimestampValue):
		return "❌ | " + err.Error()
	default:
		return genericError
	}
}

func newEmbed(title, description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       embedColor,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}

func addField(e *discordgo.MessageEmbed, name, value string, inline bool) {
	e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: name, Value: value, Inline: inline})
}

func trackLength(t *lavalink.Track) string {
	if t.Info.IsStream {
		return "🔴 Live"
	}
	return musicfmt.FormatMillis(t.Info.Length)
}

func withArtwork(e *discordgo.MessageEmbed, t *lavalink.Track) {
	if t != nil && t.Info.ArtworkURL != "" {
		e.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: t.Info.ArtworkURL}
	}
}

// trackEmbed confirms a single track. started is false when it was only queued.
func trackEmbed(t *lavalink.Track, started bool, queuePosition int) *discordgo.MessageEmbed {
	title := "🎵 Added to Queue"
	if started {
		title = "▶️ Now Playing"
	}
	e := newEmbed(title, musicfmt.TrackLink(t))
	addField(e, "Duration", trackLength(t), true)
	addField(e, "Artist", t.Info.Author, true)
	addField(e, "Requested By", requesterOf(t), true)
	if !started && queuePosition > 0 {
		addField(e, "Position in Queue", strconv.Itoa(queuePosition), true)
	}
	withArtwork(e, t)
	return e
}

// playlistEmbed confirms a playlist with a preview of its first tracks.
func playlistEmbed(name string, tracks []*lavalink.Track, requestedBy string) *discordgo.MessageEmbed {
	description := fmt.Sprintf("Added %d track%s to the queue", len(tracks), plural(len(tracks)))
	if name != "" {
		description = fmt.Sprintf("Added %d track%s from **%s** to the queue", len(tracks), plural(len(tracks)), name)
	}
	e := newEmbed("📑 Playlist Added to Queue", description)
	addField(e, "Total Duration", musicfmt.TotalDuration(musicfmt.QueueLength(tracks)), true)
	addField(e, "Requested By", requestedBy, true)

	var preview []string
	for i, t := range tracks {
		if i == previewTracks {
			break
		}
		preview = append(preview, fmt.Sprintf("%d. %s (%s)", i+1, musicfmt.TrackLink(t), trackLength(t)))
	}
	if len(preview) > 0 {
		addField(e, "Preview", strings.Join(preview, "\n"), false)
	}
	if len(tracks) > previewTracks {
		e.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("And %d more tracks...", len(tracks)-previewTracks)}
	}
	return e
}

func skipEmbed(skipped, next *lavalink.Track) *discordgo.MessageEmbed {
	e := newEmbed("⏭️ Skipped Track", "")
	addField(e, "Skipped", musicfmt.TrackLink(skipped), false)
	if next != nil {
		addField(e, "Up Next", musicfmt.TrackLink(next), false)
	} else {
		e.Description = "No more tracks in queue"
	}
	return e
}

func stopEmbed(snap lavalink.Snapshot) *discordgo.MessageEmbed {
	e := newEmbed("⏹️ Stopped Playing", "Stopped the music and left the voice channel.")
	addField(e, "Stopped Playing", musicfmt.TrackLink(snap.Current), false)
	addField(e, "Cleared Queue", fmt.Sprintf("%d track%s", len(snap.Queue), plural(len(snap.Queue))), false)
	return e
}

func volumeEmbed(oldVolume, newVolume int, current *lavalink.Track) *discordgo.MessageEmbed {
	direction := "increased"
	if oldVolume > newVolume {
		direction = "decreased"
	}
	e := newEmbed("🔊 Volume Changed", fmt.Sprintf("Volume %s from %d%% to %d%%", direction, oldVolume, newVolume))
	nowPlaying := "No track playing"
	if current != nil {
		nowPlaying = musicfmt.TrackLink(current)
	}
	addField(e, "Now Playing", nowPlaying, false)
	if newVolume == 0 {
		e.Footer = &discordgo.MessageEmbedFooter{Text: "Tip: The music is now muted. Use /music volume to unmute."}
	}
	return e
}

func seekEmbed(t *lavalink.Track, position time.Duration) *discordgo.MessageEmbed {
	e := newEmbed("⏭️ Seeked Track", fmt.Sprintf("Seeked to %s in %s", musicfmt.FormatDuration(position), musicfmt.TrackLink(t)))
	addField(e, "Track Duration", trackLength(t), true)
	addField(e, "New Position", musicfmt.FormatDuration(position), true)
	withArtwork(e, t)
	return e
}

func nowPlayingEmbed(snap lavalink.Snapshot) *discordgo.MessageEmbed {
	t := snap.Current
	e := newEmbed("🎵 Now Playing", musicfmt.TrackLink(t))

	pos := time.Duration(snap.Position) * time.Millisecond
	length := time.Duration(t.Info.Length) * time.Millisecond
	progress := "🔴 Live"
	if !t.Info.IsStream {
		progress = fmt.Sprintf("%s\n%s / %s", musicfmt.ProgressBar(pos, length, barWidth),
			musicfmt.FormatDuration(pos), musicfmt.FormatDuration(length))
	}
	addField(e, "Progress", progress, false)
	addField(e, "Artist", t.Info.Author, true)
	addField(e, "Volume", fmt.Sprintf("%d%%", snap.Volume), true)
	addField(e, "Loop Mode", musicfmt.LoopModeName(snap.Loop), true)
	addField(e, "Requested By", requesterOf(t), true)
	if len(snap.Queue) > 0 {
		addField(e, "Up Next", musicfmt.TrackLink(snap.Queue[0]), false)
	}
	if snap.Paused {
		e.Footer = &discordgo.MessageEmbedFooter{Text: "⏸️ Paused"}
	}
	withArtwork(e, t)
	return e
}

func queueEmbed(snap lavalink.Snapshot, page musicfmt.Page) *discordgo.MessageEmbed {
	current := "Nothing is playing right now."
	if snap.Current != nil {
		current = "**Now Playing:** " + musicfmt.TrackLink(snap.Current)
	}
	e := newEmbed("🎵 Music Queue", current)

	upNext := "No tracks in queue"
	if len(page.Lines) > 0 {
		upNext = strings.Join(page.Lines, "\n")
	}
	addField(e, "Up Next", upNext, false)
	addField(e, "Queue Stats", fmt.Sprintf("Tracks: %d | Duration: %s | Loop: %s",
		len(snap.Queue), musicfmt.TotalDuration(musicfmt.QueueLength(snap.Queue)), musicfmt.LoopModeName(snap.Loop)), false)
	if page.TotalPages > 0 {
		e.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Page %d of %d", page.Number, page.TotalPages)}
	}
	return e
}

var loopModes = map[lavalink.LoopMode]struct {
	emoji       string
	description string
}{
	lavalink.LoopOff:   {"▶️", "Loop mode disabled. Playing queue normally."},
	lavalink.LoopTrack: {"🔂", "Now looping the current track."},
	lavalink.LoopQueue: {"🔁", "Now looping the entire queue."},
}

func loopEmbed(mode lavalink.LoopMode, snap lavalink.Snapshot) *discordgo.MessageEmbed {
	m := loopModes[mode]
	e := newEmbed(m.emoji+" Loop Mode Changed", m.description)
	if snap.Current != nil {
		addField(e, "Current Track", musicfmt.TrackLink(snap.Current), false)
	}
	addField(e, "Queue Information", fmt.Sprintf("%d track%s in queue", len(snap.Queue), plural(len(snap.Queue))), false)
	return e
}

// announceEmbed is posted in the text channel when a track starts.
func announceEmbed(snap lavalink.Snapshot) *discordgo.MessageEmbed {
	t := snap.Current
	e := newEmbed("🎶 Now Playing", musicfmt.TrackLink(t))
	addField(e, "Duration", trackLength(t), true)
	addField(e, "Artist", t.Info.Author, true)
	addField(e, "Requested By", requesterOf(t), true)
	withArtwork(e, t)
	return e
}

func requesterOf(t *lavalink.Track) string {
	if t.Requester == "" {
		return "Unknown"
	}
	return t.Requester
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
