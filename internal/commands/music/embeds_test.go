package music

import (
	"fmt"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"

	musicfmt "github.com/PancyStudios/SentryBot/internal/music"
	"github.com/PancyStudios/SentryBot/pkg/lavalink"
)

func track(title string, ms int64) *lavalink.Track {
	return &lavalink.Track{
		Encoded:   "enc-" + title,
		Info:      lavalink.TrackInfo{Title: title, Author: "artist", Length: ms, URI: "https://example.com/" + title, IsSeekable: true},
		Requester: "user",
	}
}

func fieldValue(e *discordgo.MessageEmbed, name string) string {
	for _, f := range e.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{lavalink.ErrNothingPlaying, "❌ | No music is currently playing!"},
		{lavalink.ErrNoPlayer, "❌ | No active music session found!"},
		{fmt.Errorf("%w: boom", lavalink.ErrVoiceJoin), "❌ | Could not join your voice channel!"},
		{lavalink.ErrInvalidVolume, "❌ | Volume must be between 0 and 100!"},
		{musicfmt.ErrTimestampFormat, "❌ | " + musicfmt.ErrTimestampFormat.Error()},
		{fmt.Errorf("rest: 500"), genericError},
	}
	for _, tt := range tests {
		if got := errorMessage(tt.err); got != tt.want {
			t.Errorf("errorMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestSelectTracks(t *testing.T) {
	a, b := track("a", 1000), track("b", 2000)
	tests := []struct {
		name string
		res  *lavalink.LoadResult
		want int
	}{
		{"nil", nil, 0},
		{"single", &lavalink.LoadResult{Type: lavalink.LoadTrack, Tracks: []*lavalink.Track{a}}, 1},
		{"search takes first", &lavalink.LoadResult{Type: lavalink.LoadSearch, Tracks: []*lavalink.Track{a, b}}, 1},
		{"playlist takes all", &lavalink.LoadResult{Type: lavalink.LoadPlaylist, Tracks: []*lavalink.Track{a, b}}, 2},
		{"empty", &lavalink.LoadResult{Type: lavalink.LoadEmpty}, 0},
	}
	for _, tt := range tests {
		if got := len(selectTracks(tt.res)); got != tt.want {
			t.Errorf("%s: len(selectTracks()) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestTrackEmbed(t *testing.T) {
	tr := track("song", 185000)

	started := trackEmbed(tr, true, 0)
	if started.Title != "▶️ Now Playing" {
		t.Errorf("Title = %q, want %q", started.Title, "▶️ Now Playing")
	}
	if got := fieldValue(started, "Duration"); got != "3:05" {
		t.Errorf("Duration = %q, want %q", got, "3:05")
	}

	queued := trackEmbed(tr, false, 4)
	if queued.Title != "🎵 Added to Queue" {
		t.Errorf("Title = %q, want %q", queued.Title, "🎵 Added to Queue")
	}
	if got := fieldValue(queued, "Position in Queue"); got != "4" {
		t.Errorf("Position in Queue = %q, want %q", got, "4")
	}
}

func TestPlaylistEmbed(t *testing.T) {
	tracks := []*lavalink.Track{track("a", 60000), track("b", 60000), track("c", 60000), track("d", 60000)}
	e := playlistEmbed("Mix", tracks, "user")

	if !strings.Contains(e.Description, "Added 4 tracks from **Mix**") {
		t.Errorf("Description = %q", e.Description)
	}
	if got := fieldValue(e, "Total Duration"); got != "4m 0s" {
		t.Errorf("Total Duration = %q, want %q", got, "4m 0s")
	}
	if got := strings.Count(fieldValue(e, "Preview"), "\n") + 1; got != previewTracks {
		t.Errorf("preview lines = %v, want %v", got, previewTracks)
	}
	if e.Footer == nil || e.Footer.Text != "And 1 more tracks..." {
		t.Errorf("Footer = %+v", e.Footer)
	}
}

func TestSkipEmbed(t *testing.T) {
	if e := skipEmbed(track("a", 1000), nil); e.Description != "No more tracks in queue" {
		t.Errorf("Description = %q, want %q", e.Description, "No more tracks in queue")
	}
	e := skipEmbed(track("a", 1000), track("b", 1000))
	if got := fieldValue(e, "Up Next"); got != "[b](https://example.com/b)" {
		t.Errorf("Up Next = %q", got)
	}
}

func TestVolumeEmbed(t *testing.T) {
	muted := volumeEmbed(50, 0, nil)
	if muted.Description != "Volume decreased from 50% to 0%" {
		t.Errorf("Description = %q", muted.Description)
	}
	if muted.Footer == nil {
		t.Errorf("muted volume has no tip footer")
	}
	if got := fieldValue(muted, "Now Playing"); got != "No track playing" {
		t.Errorf("Now Playing = %q", got)
	}

	up := volumeEmbed(20, 80, track("a", 1000))
	if up.Description != "Volume increased from 20% to 80%" || up.Footer != nil {
		t.Errorf("embed = %q footer %+v", up.Description, up.Footer)
	}
}

func TestNowPlayingEmbed(t *testing.T) {
	snap := lavalink.Snapshot{
		Current:  track("a", 200000),
		Queue:    []*lavalink.Track{track("b", 1000)},
		Volume:   70,
		Position: 100000,
		Loop:     lavalink.LoopQueue,
		Paused:   true,
	}
	e := nowPlayingEmbed(snap)

	if got := fieldValue(e, "Loop Mode"); got != "Queue" {
		t.Errorf("Loop Mode = %q, want %q", got, "Queue")
	}
	if got := fieldValue(e, "Volume"); got != "70%" {
		t.Errorf("Volume = %q, want %q", got, "70%")
	}
	if got := fieldValue(e, "Progress"); !strings.HasSuffix(got, "1:40 / 3:20") {
		t.Errorf("Progress = %q", got)
	}
	if e.Footer == nil || e.Footer.Text != "⏸️ Paused" {
		t.Errorf("Footer = %+v", e.Footer)
	}
}

func TestQueueEmbed(t *testing.T) {
	queue := []*lavalink.Track{track("a", 1000), track("b", 1000)}
	page, err := musicfmt.Paginate(queue, 1)
	if err != nil {
		t.Fatalf("Paginate() error = %v", err)
	}
	e := queueEmbed(lavalink.Snapshot{Current: track("now", 1000), Queue: queue}, page)

	if !strings.HasPrefix(e.Description, "**Now Playing:**") {
		t.Errorf("Description = %q", e.Description)
	}
	if e.Footer == nil || e.Footer.Text != "Page 1 of 1" {
		t.Errorf("Footer = %+v", e.Footer)
	}

	empty := queueEmbed(lavalink.Snapshot{Current: track("now", 1000)}, musicfmt.Page{})
	if got := fieldValue(empty, "Up Next"); got != "No tracks in queue" {
		t.Errorf("Up Next = %q", got)
	}
}

func TestLoopEmbed(t *testing.T) {
	tests := []struct {
		mode lavalink.LoopMode
		want string
	}{
		{lavalink.LoopOff, "Loop mode disabled. Playing queue normally."},
		{lavalink.LoopTrack, "Now looping the current track."},
		{lavalink.LoopQueue, "Now looping the entire queue."},
	}
	for _, tt := range tests {
		if got := loopEmbed(tt.mode, lavalink.Snapshot{}).Description; got != tt.want {
			t.Errorf("loopEmbed(%v).Description = %q, want %q", tt.mode, got, tt.want)
		}
	}
}
