package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/lambdaclient/capebot/src/cmd"
	_ "github.com/lambdaclient/capebot/src/proc"
	"github.com/lambdaclient/capebot/src/sys"
)

func main() {
	// Parse flags
	silent := flag.Bool("silent", false, "Disable all log output")
	skipReg := flag.Bool("skip-reg", false, "Skip command registration")
	flag.Parse()

	if *silent {
		sys.SetSilentMode(true)
	}

	// 1. Check for and kill old process
	if pidData, err := os.ReadFile(".bot.pid"); err == nil {
		if oldPid, err := strconv.Atoi(string(pidData)); err == nil && oldPid != os.Getpid() {
			if process, err := os.FindProcess(oldPid); err == nil {
				// Check if it's still running
				if err := process.Signal(syscall.Signal(0)); err == nil {
					sys.LogInfo(sys.MsgBotKillingOld, oldPid)
					if err := process.Signal(syscall.SIGTERM); err == nil {
						// Wait for it to exit (up to 5 seconds)
						for i := 0; i < 50; i++ {
							if err := process.Signal(syscall.Signal(0)); err != nil {
								break // Process is gone
							}
							time.Sleep(100 * time.Millisecond)
						}
						sys.LogInfo(sys.MsgBotOldTerminated)
					} else {
						sys.LogWarn(sys.MsgBotKillFail, err)
					}
				}
			}
		}
	}

	// 2. Write PID file
	pid := os.Getpid()
	if err := os.WriteFile(".bot.pid", []byte(fmt.Sprintf("%d", pid)), 0644); err != nil {
		sys.LogWarn(sys.MsgBotPIDWriteFail, err)
	}
	defer os.Remove(".bot.pid")

	// 3. Run bot (blocks until shutdown signal)
	if err := run(pid, *silent, *skipReg); err != nil {
		sys.LogFatal("%v", err)
	}
}

func run(pid int, silent bool, skipReg bool) error {
	// Global context that responds to shutdown signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	sys.SetAppContext(ctx)

	// Load configuration
	cfg, err := sys.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize database
	if err := sys.InitDatabase(ctx, cfg.DatabasePath); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer sys.CloseDatabase()

	// Create disgo client
	client, err := sys.CreateClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create Discord client: %w", err)
	}
	defer client.Close(context.Background())

	// Background command registration
	if !skipReg {
		go func() {
			if err := sys.RegisterCommands(client, cfg.GuildID); err != nil {
				sys.LogError(sys.MsgBotRegisterFail, err)
			}
		}()
	}

	// Connect to Gateway
	if err := client.OpenGateway(ctx); err != nil {
		return fmt.Errorf("failed to open gateway: %w", err)
	}

	sys.LogInfo(sys.MsgBotOnline, sys.GetProjectName(), pid)
	<-ctx.Done()
	if !silent {
		fmt.Println()
	}

	// Graceful Shutdown
	sys.ShutdownDaemons(context.Background())

	if botUser, ok := client.Caches.SelfUser(); ok {
		sys.LogInfo(sys.MsgBotShutdown, botUser.Username)
	} else {
		sys.LogInfo(sys.MsgBotShutdown, sys.GetProjectName())
	}

	return nil
}
