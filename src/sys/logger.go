package sys

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

var (
	// Style definitions
	infoColor     = color.New(color.FgHiBlack)
	warnColor     = color.New(color.FgHiYellow)
	errorColor    = color.New(color.FgHiRed)
	fatalColor    = color.New(color.FgHiRed, color.Bold)
	databaseColor = color.New(color.FgHiBlack)
	catalogColor  = color.New(color.FgHiMagenta)
	mojangColor   = color.New(color.FgHiGreen)
	capesColor    = color.New(color.FgHiMagenta)
	statusColor   = color.New(color.FgHiMagenta)

	IsSilent = false

	// Global default logger
	Logger *slog.Logger

	logMu sync.Mutex
)

func init() {
	InitLogger(false)
}

// InitLogger initializes the global structured logger
func InitLogger(silent bool) {
	logMu.Lock()
	defer logMu.Unlock()

	IsSilent = silent
	level := slog.LevelInfo
	if strings.ToLower(os.Getenv("DEBUG")) == "true" {
		level = slog.LevelDebug
	}

	// Force colors even when stdout is piped
	color.NoColor = false

	handler := NewBotLogHandler(os.Stdout, &BotLogHandlerOptions{
		Silent: IsSilent,
		Level:  level,
	})
	Logger = slog.New(handler)
	slog.SetDefault(Logger)
}

func SetSilentMode(silent bool) {
	InitLogger(silent)
}

// --- Log Functions ---

func LogInfo(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...))
}

func LogWarn(format string, v ...interface{}) {
	slog.Warn(fmt.Sprintf(format, v...))
}

func LogError(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...))
}

func LogFatal(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	slog.Log(context.Background(), slog.LevelError+4, msg) // Custom Fatal level
	os.Exit(1)
}

func LogDebug(format string, v ...interface{}) {
	slog.Debug(fmt.Sprintf(format, v...))
}

func LogDatabase(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", "database"))
}

func LogCatalog(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", "catalog"))
}

func LogMojang(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", "mojang"))
}

func LogCapes(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", "capes"))
}

func LogStatusRotator(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", "status"))
}

// --- Custom Slog Handler ---

type BotLogHandlerOptions struct {
	Silent bool
	Level  slog.Leveler
}

type BotLogHandler struct {
	w    io.Writer
	opts *BotLogHandlerOptions
	mu   *sync.Mutex
}

func NewBotLogHandler(w io.Writer, opts *BotLogHandlerOptions) *BotLogHandler {
	if opts == nil {
		opts = &BotLogHandlerOptions{Level: slog.LevelInfo}
	}
	return &BotLogHandler{
		w:    w,
		opts: opts,
		mu:   &sync.Mutex{},
	}
}

func (h *BotLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if h.opts.Silent {
		return false
	}
	return level >= h.opts.Level.Level()
}

func (h *BotLogHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.opts.Silent {
		return nil
	}

	timeStr := time.Now().Format("15:04:05")
	var levelStr string
	var levelColor *color.Color

	switch {
	case r.Level >= slog.LevelError+4: // Fatal
		levelStr = "FATAL"
		levelColor = fatalColor
	case r.Level >= slog.LevelError:
		levelStr = "ERROR"
		levelColor = errorColor
	case r.Level >= slog.LevelWarn:
		levelStr = "WARN"
		levelColor = warnColor
	case r.Level >= slog.LevelInfo:
		levelStr = "INFO"
		levelColor = infoColor
	default:
		levelStr = "DEBUG"
		levelColor = infoColor
	}

	// Extract component if present
	component := ""
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "component" {
			component = strings.ToUpper(a.Value.String())
			return false
		}
		return true
	})

	// Output: 15:04:05 [INFO] [COMPONENT] Message
	fmt.Fprintf(h.w, "%s", timeStr)

	if component != "" {
		// Component-specific logs: Level tag (if not INFO) is isolated, Message bleeds component color
		if levelStr != "INFO" {
			fmt.Fprintf(h.w, " %s", levelColor.Sprintf("[%s]", levelStr))
		}
		compColor := getComponentColor(component)
		fmt.Fprintf(h.w, " %s\n", compColor.Sprintf("[%s] %s", component, r.Message))
	} else {
		fmt.Fprintf(h.w, " %s\n", levelColor.Sprintf("[%s] %s", levelStr, r.Message))
	}

	return nil
}

func (h *BotLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler { return h }
func (h *BotLogHandler) WithGroup(name string) slog.Handler       { return h }

func getComponentColor(name string) *color.Color {
	switch name {
	case "DATABASE":
		return databaseColor
	case "CATALOG":
		return catalogColor
	case "MOJANG":
		return mojangColor
	case "CAPES":
		return capesColor
	case "STATUS":
		return statusColor
	default:
		return color.New(color.FgCyan)
	}
}

// @sys
const (
	// Configuration
	MsgConfigMissingToken = "DISCORD_TOKEN is not set in .env file"

	// Data layer
	MsgDatabaseInitSuccess = "Database initialized successfully"
	MsgDatabaseTableError  = "Failed to create table: %w"
	MsgDatabasePragmaError = "Failed to set pragma %s: %w"

	// Command Registry
	MsgLoaderSyncCommands   = "Syncing commands... (Mode: %s)"
	MsgLoaderUpToDate       = "Commands are up to date. (Hash: %s)"
	MsgLoaderProdStarting   = "Registering commands globally..."
	MsgLoaderProdFail       = "failed to register global commands: %w"
	MsgLoaderProdRegistered = "Registered global command: %s"
	MsgLoaderDevStarting    = "Registering commands to guild: %s"
	MsgLoaderDevFail        = "Failed to register guild commands: %v"
	MsgLoaderDevRegistered  = "Registered guild command: %s"
	MsgLoaderPanicRecovered = "Recovered from panic: %v"

	// Bot Lifecycle
	MsgBotReady         = "%s is ready! (ID: %s) (PID: %d) (%dms)"
	MsgBotOnline        = "%s is online! (PID: %d)"
	MsgBotShutdown      = "Shutting down %s..."
	MsgBotKillingOld    = "Killing running instance... (PID: %d)"
	MsgBotKillFail      = "Failed to kill old instance: %v"
	MsgBotOldTerminated = "Old instance terminated."
	MsgBotPIDWriteFail  = "Failed to write PID file: %v"
	MsgBotRegisterFail  = "Background command registration failed: %v"
	MsgDaemonStarting   = "Starting..."
)

// @capes
const (
	// System logs
	MsgCapesTriggered        = "Cape catalog requested in channel %s by %s"
	MsgCapesFetchFail        = "Failed to fetch cape catalog: %v"
	MsgCapesEnrichFail       = "Failed to enrich record %s: %v"
	MsgCapesSendFail         = "Failed to send embed for %s: %v"
	MsgCapesErrorReplyFail   = "Failed to send error reply: %v"
	MsgCapesPipelineComplete = "Delivered %d/%d cape embeds to channel %s"
	MsgCapesStatsFail        = "Failed to access trigger stats: %v"

	// User-facing messages
	ErrCapesFetchFailed  = "Failed to fetch the cape catalog. Please try again later."
	ErrCapesEnrichFailed = "Failed to resolve a player profile. Please try again later."
)

// @status
const (
	MsgStatusUpdateFail = "Update failed: %v"
	MsgStatusRotated    = "Status rotated to: \"%s\""
	MsgStatusShutdown   = "Shutting down Status Rotator..."
)
