package cmd

import (
	"fmt"
	"os"
	"runtime"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/omit"

	"github.com/lambdaclient/capebot/src/sys"
)

const (
	MsgAdminShutdownCommanded = "Shutdown commanded by user %s (%s)"
	MsgAdminShuttingDown      = "**Shutting down...**"
	MsgAdminUnknownSubcommand = "Unknown admin subcommand: %s"
)

func init() {
	adminPerm := discord.PermissionAdministrator

	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:                     "admin",
		Description:              "Bot management utilities (Admin Only)",
		DefaultMemberPermissions: omit.New(&adminPerm),
		Contexts: []discord.InteractionContextType{
			discord.InteractionContextTypeGuild,
		},
		Options: []discord.ApplicationCommandOption{
			discord.ApplicationCommandOptionSubCommand{
				Name:        "stats",
				Description: "Display system and application statistics",
			},
			discord.ApplicationCommandOptionSubCommand{
				Name:        "shutdown",
				Description: "Shut down the bot process",
			},
		},
	}, handleAdmin)
}

// handleAdmin routes admin subcommands to their respective handlers
func handleAdmin(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()
	if data.SubCommandName == nil {
		return
	}

	switch *data.SubCommandName {
	case "stats":
		handleAdminStats(event)
	case "shutdown":
		handleAdminShutdown(event)
	default:
		sys.LogWarn(MsgAdminUnknownSubcommand, *data.SubCommandName)
	}
}

func handleAdminStats(event *events.ApplicationCommandInteractionCreate) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(sys.StartupTime)
	served, err := sys.GetTriggerServed(sys.AppContext, CapeTrigger)
	if err != nil {
		sys.LogWarn(sys.MsgCapesStatsFail, err)
	}

	content := fmt.Sprintf(
		"```\nUptime:    %dd %dh %dm\nGateway:   %dms\nServed:    %d triggers\nMemory:    %.2f MB\nGoroutines: %d\n```",
		int(uptime.Hours())/24, int(uptime.Hours())%24, int(uptime.Minutes())%60,
		event.Client().Gateway.Latency().Milliseconds(),
		served,
		float64(m.HeapAlloc)/1024/1024,
		runtime.NumGoroutine(),
	)

	_ = event.CreateMessage(discord.NewMessageCreate().
		WithContent(content).
		WithEphemeral(true))
}

func handleAdminShutdown(event *events.ApplicationCommandInteractionCreate) {
	sys.LogWarn(MsgAdminShutdownCommanded, event.User().Username, event.User().ID)
	_ = event.CreateMessage(discord.NewMessageCreate().
		WithContent(MsgAdminShuttingDown).
		WithEphemeral(true))
	time.AfterFunc(1*time.Second, func() {
		_ = syscall.Kill(os.Getpid(), syscall.SIGTERM)
	})
}
