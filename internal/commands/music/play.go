package music

import (
	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/SentryBot/pkg/discord"
	"github.com/PancyStudios/SentryBot/pkg/lavalink"
)

func (h *handler) playCommand() *discord.Command {
	return discord.NewCommand(
		"play",
		"Play a song or playlist from a URL or search query",
		"music",
		h.play,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "query",
			Description: "Song name, URL or playlist URL",
			Required:    true,
		},
	).RequiresVoice()
}

func (h *handler) play(ctx *discord.CommandContext) error {
	if err := ctx.Defer(); err != nil {
		return err
	}

	res, err := h.client.Search(ctx.Context(), ctx.GetStringOption("query"))
	if err != nil {
		return fail(ctx, "play", err)
	}

	tracks := selectTracks(res)
	if len(tracks) == 0 {
		return ctx.EditReply("❌ | No results found!")
	}
	requester := ctx.User().String()
	for _, t := range tracks {
		t.Requester = requester
	}

	guildID := ctx.Interaction.GuildID
	started, err := h.client.Play(ctx.Context(), guildID, ctx.VoiceChannelID(), ctx.Interaction.ChannelID, tracks...)
	if err != nil {
		return fail(ctx, "play", err)
	}

	if res.Type == lavalink.LoadPlaylist {
		return ctx.EditReplyEmbed(playlistEmbed(res.PlaylistName, tracks, requester))
	}
	position := 0
	if snap, ok := h.client.Player(guildID); ok {
		position = len(snap.Queue)
	}
	return ctx.EditReplyEmbed(trackEmbed(tracks[0], started != nil, position))
}

// selectTracks picks what to queue: every track of a playlist, otherwise
// the first match.
func selectTracks(res *lavalink.LoadResult) []*lavalink.Track {
	if res == nil || len(res.Tracks) == 0 {
		return nil
	}
	switch res.Type {
	case lavalink.LoadPlaylist:
		return res.Tracks
	case lavalink.LoadTrack, lavalink.LoadSearch:
		return res.Tracks[:1]
	default:
		return nil
	}
}
