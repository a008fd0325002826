package music

import (
	"fmt"
	"time"

	"github.com/PancyStudios/SentryBot/pkg/lavalink"
)

// TracksPerPage is the page size of /music queue.
const TracksPerPage = 10

// Page is one page of the queue listing.
type Page struct {
	Number     int
	TotalPages int
	Lines      []string
}

// TotalPages returns how many pages n tracks take.
func TotalPages(n int) int {
	return (n + TracksPerPage - 1) / TracksPerPage
}

// Paginate lists page (1-based) of the queue.
func Paginate(queue []*lavalink.Track, page int) (Page, error) {
	total := TotalPages(len(queue))
	if page < 1 || page > total {
		return Page{}, fmt.Errorf("Invalid page number. The queue has %d page%s.", total, plural(total))
	}

	start := (page - 1) * TracksPerPage
	end := min(start+TracksPerPage, len(queue))

	lines := make([]string, 0, end-start)
	for i, t := range queue[start:end] {
		lines = append(lines, fmt.Sprintf("%d. %s - %s - Requested by %s",
			start+i+1, TrackLink(t), FormatMillis(t.Info.Length), requester(t)))
	}
	return Page{Number: page, TotalPages: total, Lines: lines}, nil
}

// QueueLength sums the length of every non-stream track.
func QueueLength(queue []*lavalink.Track) time.Duration {
	var total time.Duration
	for _, t := range queue {
		if !t.Info.IsStream {
			total += time.Duration(t.Info.Length) * time.Millisecond
		}
	}
	return total
}

// TrackLink renders [title](uri), or just the title without a URI.
func TrackLink(t *lavalink.Track) string {
	if t == nil {
		return "None"
	}
	if t.Info.URI == "" {
		return t.Info.Title
	}
	return fmt.Sprintf("[%s](%s)", t.Info.Title, t.Info.URI)
}

// LoopModeName is the display name of a loop mode.
func LoopModeName(m lavalink.LoopMode) string {
	switch m {
	case lavalink.LoopTrack:
		return "Track"
	case lavalink.LoopQueue:
		return "Queue"
	default:
		return "Off"
	}
}

func requester(t *lavalink.Track) string {
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
