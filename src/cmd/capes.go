package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"

	"github.com/lambdaclient/capebot/src/capes"
	"github.com/lambdaclient/capebot/src/mojang"
	"github.com/lambdaclient/capebot/src/sys"
)

// CapeTrigger is the exact message text that starts the catalog pipeline.
// Matching is case-sensitive with no argument parsing.
const CapeTrigger = "!test"

// ===========================
// Registration
// ===========================

func init() {
	sys.RegisterMessageHandler(handleCapeMessage)

	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:        "capes",
		Description: "List all cape holders with their current skins",
	}, handleCapesCommand)
}

// ===========================
// Pipeline capabilities
// ===========================

type catalogFetcher interface {
	Fetch(ctx context.Context) ([]capes.User, error)
}

type profileLookup interface {
	Lookup(ctx context.Context, playerID string) (mojang.Profile, error)
}

type messageSender interface {
	SendEmbed(channelID snowflake.ID, embed discord.Embed) error
	SendText(channelID snowflake.ID, content string) error
}

// ErrNoCapes is returned when a catalog record carries an empty cape list,
// before any profile lookup is attempted.
var ErrNoCapes = errors.New("catalog record has no capes")

// PlayerView is the presentation record built per catalog entry.
type PlayerView struct {
	Username string
	PlayerID string
	SkinURL  string
	Capes    []capes.Cape
}

// buildPlayerView resolves the first cape's player id through the profile
// lookup and assembles a display-ready record.
func buildPlayerView(ctx context.Context, lookup profileLookup, user capes.User) (PlayerView, error) {
	if len(user.Capes) == 0 {
		return PlayerView{}, fmt.Errorf("record %s: %w", user.ID.String(), ErrNoCapes)
	}

	playerID := user.Capes[0].PlayerUUID
	profile, err := lookup.Lookup(ctx, playerID)
	if err != nil {
		return PlayerView{}, err
	}

	return PlayerView{
		Username: profile.Name,
		PlayerID: playerID,
		SkinURL:  profile.SkinURL,
		Capes:    user.Capes,
	}, nil
}

func playerEmbed(view PlayerView) discord.Embed {
	return discord.Embed{
		Title: view.Username,
		Image: &discord.EmbedResource{URL: view.SkinURL},
	}
}

// runCapePipeline fetches the catalog, enriches each record in catalog
// order and sends one embed per record. Fetch and enrichment failures abort
// remaining records and produce a single user-facing error reply; send
// failures are logged and the next record is still attempted.
func runCapePipeline(ctx context.Context, fetcher catalogFetcher, lookup profileLookup, sender messageSender, channelID snowflake.ID) (sent, total int) {
	users, err := fetcher.Fetch(ctx)
	if err != nil {
		sys.LogCapes(sys.MsgCapesFetchFail, err)
		if sendErr := sender.SendText(channelID, sys.ErrCapesFetchFailed); sendErr != nil {
			sys.LogCapes(sys.MsgCapesErrorReplyFail, sendErr)
		}
		return 0, 0
	}

	total = len(users)
	for _, user := range users {
		view, err := buildPlayerView(ctx, lookup, user)
		if err != nil {
			sys.LogCapes(sys.MsgCapesEnrichFail, user.ID.String(), err)
			if sendErr := sender.SendText(channelID, sys.ErrCapesEnrichFailed); sendErr != nil {
				sys.LogCapes(sys.MsgCapesErrorReplyFail, sendErr)
			}
			return sent, total
		}

		if err := sender.SendEmbed(channelID, playerEmbed(view)); err != nil {
			sys.LogCapes(sys.MsgCapesSendFail, view.PlayerID, err)
			continue
		}
		sent++
	}

	return sent, total
}

// ===========================
// Shared clients & sender
// ===========================

var (
	pipelineOnce  sync.Once
	catalogClient *capes.Client
	profileClient *mojang.Client
)

func pipelineClients() (catalogFetcher, profileLookup) {
	pipelineOnce.Do(func() {
		cfg := sys.GlobalConfig
		httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
		catalogClient = capes.NewClient(httpClient, cfg.CatalogURL)
		profileClient = mojang.NewClient(httpClient, cfg.SessionServerURL)
	})
	return catalogClient, profileClient
}

type restSender struct {
	client *bot.Client
}

func (s restSender) SendEmbed(channelID snowflake.ID, embed discord.Embed) error {
	_, err := s.client.Rest.CreateMessage(channelID, discord.MessageCreate{
		Embeds: []discord.Embed{embed},
	})
	return err
}

func (s restSender) SendText(channelID snowflake.ID, content string) error {
	_, err := s.client.Rest.CreateMessage(channelID, discord.MessageCreate{
		Content: content,
	})
	return err
}

// ===========================
// Handlers
// ===========================

// isCapeTrigger reports whether a message text starts the pipeline.
// The match is exact: no prefix matching, no trimming, no case folding.
func isCapeTrigger(content string) bool {
	return content == CapeTrigger
}

func handleCapeMessage(event *events.MessageCreate) {
	if !isCapeTrigger(event.Message.Content) {
		return
	}

	sys.LogCapes(sys.MsgCapesTriggered, event.ChannelID.String(), event.Message.Author.Username)

	fetcher, lookup := pipelineClients()
	sent, total := runCapePipeline(sys.AppContext, fetcher, lookup, restSender{client: event.Client()}, event.ChannelID)

	if err := sys.RecordTriggerServed(sys.AppContext, CapeTrigger); err != nil {
		sys.LogCapes(sys.MsgCapesStatsFail, err)
	}
	sys.LogCapes(sys.MsgCapesPipelineComplete, sent, total, event.ChannelID.String())
}

func handleCapesCommand(event *events.ApplicationCommandInteractionCreate) {
	if err := event.DeferCreateMessage(false); err != nil {
		return
	}

	channelID := event.Channel().ID()
	fetcher, lookup := pipelineClients()
	sent, total := runCapePipeline(sys.AppContext, fetcher, lookup, restSender{client: event.Client()}, channelID)

	if err := sys.RecordTriggerServed(sys.AppContext, "/capes"); err != nil {
		sys.LogCapes(sys.MsgCapesStatsFail, err)
	}

	_, _ = event.Client().Rest.UpdateInteractionResponse(event.ApplicationID(), event.Token(), discord.MessageUpdate{
		Content: strPtr(fmt.Sprintf("Posted %d/%d cape profiles.", sent, total)),
	})
}

func strPtr(s string) *string { return &s }
