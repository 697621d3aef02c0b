package sys

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

const levelFatal = slog.LevelError + 4

var (
	componentColors = map[string]*color.Color{
		"DATABASE":     color.New(),
		"REGISTRATION": color.New(color.FgGreen),
		"MAIL":         color.New(color.FgMagenta),
		"VOICE":        color.New(color.FgCyan),
		"JANITOR":      color.New(color.FgHiBlack),
		"STATUS":       color.New(color.FgMagenta),
		"ROLES":        color.New(color.FgBlue),
	}
	defaultComponentColor = color.New(color.FgCyan)

	DefaultTimeFormat = "15:04:05"
	IsSilent          = false
	LogToFile         = false
	Logger            *slog.Logger

	logFile *os.File
	logMu   sync.Mutex
)

func init() {
	InitLogger(false, false)
}

// InitLogger installs the bot handler as the slog default. With saveToFile the
// output is mirrored, without colors, to <executable>.log.
func InitLogger(silent bool, saveToFile bool) {
	logMu.Lock()
	defer logMu.Unlock()

	IsSilent = silent
	LogToFile = saveToFile

	level := slog.LevelInfo
	if strings.EqualFold(os.Getenv("DEBUG"), "true") {
		level = slog.LevelDebug
	}

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	var writer io.Writer = os.Stdout
	if LogToFile {
		if f, err := openLogFile(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		} else {
			logFile = f
			writer = io.MultiWriter(os.Stdout, NewStripANSIWriter(f))
		}
	}

	Logger = slog.New(NewBotLogHandler(writer, &BotLogHandlerOptions{Silent: IsSilent, Level: level}))
	slog.SetDefault(Logger)
}

func openLogFile() (*os.File, error) {
	name := GetProjectName() + ".log"
	if exePath, err := os.Executable(); err == nil {
		name = filepath.Base(exePath) + ".log"
	}
	return os.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

func SetSilentMode(silent bool) {
	InitLogger(silent, LogToFile)
}

// ComponentLogger tags every record with component, for code that takes a *slog.Logger.
func ComponentLogger(component string) *slog.Logger {
	return Logger.With(slog.String("component", component))
}

func LogInfo(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...))
}

func LogWarn(format string, v ...any) {
	slog.Warn(fmt.Sprintf(format, v...))
}

func LogError(format string, v ...any) {
	slog.Error(fmt.Sprintf(format, v...))
}

// LogFatal logs and panics so deferred cleanup in main still runs.
func LogFatal(format string, v ...any) {
	msg := fmt.Sprintf(format, v...)
	slog.Log(context.Background(), levelFatal, msg)
	panic(msg)
}

func LogDebug(format string, v ...any) {
	slog.Debug(fmt.Sprintf(format, v...))
}

func logComponent(component, format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", component))
}

func LogDatabase(format string, v ...any)     { logComponent("database", format, v...) }
func LogRegistration(format string, v ...any) { logComponent("registration", format, v...) }
func LogMail(format string, v ...any)         { logComponent("mail", format, v...) }
func LogVoice(format string, v ...any)        { logComponent("voice", format, v...) }
func LogJanitor(format string, v ...any)      { logComponent("janitor", format, v...) }
func LogStatus(format string, v ...any)       { logComponent("status", format, v...) }
func LogRoles(format string, v ...any)        { logComponent("roles", format, v...) }

// --- Handler ---

type BotLogHandlerOptions struct {
	Silent bool
	Level  slog.Leveler
}

// BotLogHandler prints "15:04:05 [LEVEL] message key=value". Records carrying
// a component attribute print "[COMPONENT] message" in the component color,
// prefixed by the level unless it is INFO.
type BotLogHandler struct {
	w     io.Writer
	opts  *BotLogHandlerOptions
	mu    *sync.Mutex
	attrs []slog.Attr
}

func NewBotLogHandler(w io.Writer, opts *BotLogHandlerOptions) *BotLogHandler {
	if opts == nil {
		opts = &BotLogHandlerOptions{Level: slog.LevelInfo}
	}
	return &BotLogHandler{w: w, opts: opts, mu: &sync.Mutex{}}
}

func (h *BotLogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return !h.opts.Silent && level >= h.opts.Level.Level()
}

func levelLabel(l slog.Level) (string, *color.Color) {
	switch {
	case l >= levelFatal:
		return "FATAL", color.New(color.FgRed, color.Bold)
	case l >= slog.LevelError:
		return "ERROR", color.New(color.FgRed)
	case l >= slog.LevelWarn:
		return "WARN", color.New(color.FgYellow)
	case l >= slog.LevelInfo:
		return "INFO", color.New()
	default:
		return "DEBUG", color.New()
	}
}

func (h *BotLogHandler) Handle(_ context.Context, r slog.Record) error {
	label, levelColor := levelLabel(r.Level)

	var component string
	var extra strings.Builder
	collect := func(a slog.Attr) bool {
		if a.Key == "component" {
			component = strings.ToUpper(a.Value.String())
			return true
		}
		fmt.Fprintf(&extra, " %s=%v", a.Key, a.Value.Any())
		return true
	}
	for _, a := range h.attrs {
		collect(a)
	}
	r.Attrs(collect)

	line := time.Now().Format(DefaultTimeFormat)
	if component == "" {
		line += " " + levelColor.Sprintf("[%s] %s%s", label, r.Message, extra.String())
	} else {
		if label != "INFO" {
			line += " " + levelColor.Sprintf("[%s]", label)
		}
		compColor, ok := componentColors[component]
		if !ok {
			compColor = defaultComponentColor
		}
		line += " " + compColor.Sprintf("[%s] %s%s", component, r.Message, extra.String())
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintln(h.w, line)
	return err
}

func (h *BotLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &BotLogHandler{w: h.w, opts: h.opts, mu: h.mu, attrs: merged}
}

// WithGroup is a no-op; the console format is flat.
func (h *BotLogHandler) WithGroup(string) slog.Handler { return h }

// StripANSIWriter removes color escapes before writing to the log file.
type StripANSIWriter struct {
	w  io.Writer
	re *regexp.Regexp
}

func NewStripANSIWriter(w io.Writer) *StripANSIWriter {
	return &StripANSIWriter{w: w, re: regexp.MustCompile(`\x1b\[[0-9;]*m`)}
}

func (s *StripANSIWriter) Write(p []byte) (int, error) {
	_, err := s.w.Write(s.re.ReplaceAll(p, nil))
	return len(p), err
}
