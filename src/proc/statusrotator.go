package proc

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/gateway"

	"github.com/lambdaclient/capebot/src/sys"
)

var (
	StartTime      = time.Now().UTC()
	lastStatusText string
	statusMu       sync.RWMutex
)

func init() {
	sys.OnClientReady(func(ctx context.Context, client *bot.Client) {
		sys.RegisterDaemon(sys.LogStatusRotator, func(ctx context.Context) (bool, func(), func()) {
			return startStatusRotator(ctx, client)
		})
	})
}

func getRotationInterval() time.Duration {
	return time.Duration(15+rand.Intn(46)) * time.Second
}

func startStatusRotator(ctx context.Context, client *bot.Client) (bool, func(), func()) {
	next := getRotationInterval()
	updateStatus(ctx, client)

	return true, func() {
			for {
				select {
				case <-time.After(next):
					next = getRotationInterval()
					updateStatus(ctx, client)
				case <-ctx.Done():
					return
				}
			}
		}, func() {
			sys.LogStatusRotator(sys.MsgStatusShutdown)
		}
}

func updateStatus(ctx context.Context, client *bot.Client) {
	generators := []func(ctx context.Context, client *bot.Client) string{
		getUptimeStatus,
		getLatencyStatus,
		getServedStatus,
	}

	var available []string
	for _, gen := range generators {
		if text := gen(ctx, client); text != "" {
			available = append(available, text)
		}
	}

	statusMu.RLock()
	last := lastStatusText
	statusMu.RUnlock()

	var choices []string
	for _, s := range available {
		if s != last {
			choices = append(choices, s)
		}
	}

	var selected string
	if len(choices) > 0 {
		selected = choices[rand.Intn(len(choices))]
	} else {
		selected = available[0]
	}

	statusMu.Lock()
	lastStatusText = selected
	statusMu.Unlock()

	err := client.SetPresence(ctx,
		gateway.WithOnlineStatus(discord.OnlineStatusOnline),
		gateway.WithPlayingActivity(selected),
	)
	if err != nil {
		sys.LogStatusRotator(sys.MsgStatusUpdateFail, err)
	} else {
		sys.LogStatusRotator(sys.MsgStatusRotated, selected)
	}
}

// getUptimeStatus returns a status string showing bot uptime
func getUptimeStatus(ctx context.Context, client *bot.Client) string {
	uptime := time.Since(StartTime)
	return fmt.Sprintf("Uptime: %dh %dm %ds", int(uptime.Hours()), int(uptime.Minutes())%60, int(uptime.Seconds())%60)
}

// getLatencyStatus returns a status string showing gateway latency
func getLatencyStatus(ctx context.Context, client *bot.Client) string {
	ping := client.Gateway.Latency()
	if ping == 0 {
		return ""
	}
	return fmt.Sprintf("Ping: %dms", ping.Milliseconds())
}

// getServedStatus returns a status string showing served cape triggers
func getServedStatus(ctx context.Context, client *bot.Client) string {
	served, err := sys.GetTriggerServed(ctx, "!test")
	if err != nil || served == 0 {
		return ""
	}
	return fmt.Sprintf("Capes served: %d", served)
}
