package proc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/gateway"

	"github.com/Rivixer/SGGW-inf-bot-discord-sub000/sys"
)

// BotStatus is the presence shown under the bot's name.
type BotStatus struct {
	Activity string
	Text     string
}

// ActivityTypes are the activity names accepted in status.txt and by /status.
var ActivityTypes = []string{"playing", "listening", "watching", "streaming"}

var DefaultStatus = BotStatus{Activity: "playing", Text: "managing the server"}

var (
	errStatusMalformed = errors.New("status file needs an activity line and a text line")
	statusMu           sync.Mutex
)

func init() {
	sys.OnFirstClientReady(func(ctx context.Context, client *bot.Client) {
		cfg := sys.GlobalConfig
		if cfg == nil {
			return
		}
		status := LoadStatus(cfg.StatusPath())
		if err := applyStatus(ctx, client, status); err != nil {
			sys.LogWarn(sys.MsgStatusUpdateFail, err)
			return
		}
		sys.LogStatus(sys.MsgStatusLoaded, status.Activity, status.Text)
	})
}

func validActivity(name string) bool {
	for _, t := range ActivityTypes {
		if t == name {
			return true
		}
	}
	return false
}

// ParseStatus reads "<activity>\n<text>".
func ParseStatus(data []byte) (BotStatus, error) {
	activity, text, ok := strings.Cut(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	activity = strings.ToLower(strings.TrimSpace(activity))
	text, _, _ = strings.Cut(text, "\n")
	text = strings.TrimSpace(text)

	if !ok || text == "" {
		return BotStatus{}, errStatusMalformed
	}
	if !validActivity(activity) {
		return BotStatus{}, fmt.Errorf(sys.MsgStatusInvalidType, activity)
	}
	return BotStatus{Activity: activity, Text: text}, nil
}

// LoadStatus falls back to DefaultStatus when the file is missing or malformed.
func LoadStatus(path string) BotStatus {
	data, err := os.ReadFile(path)
	if err == nil {
		s, parseErr := ParseStatus(data)
		if parseErr == nil {
			return s
		}
		err = parseErr
	}
	sys.LogWarn(sys.MsgStatusDefault, err)
	return DefaultStatus
}

func SaveStatus(path string, s BotStatus) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(s.Activity+"\n"+s.Text), 0644)
}

func activityOpt(s BotStatus) gateway.PresenceOpt {
	switch s.Activity {
	case "listening":
		return gateway.WithListeningActivity(s.Text)
	case "watching":
		return gateway.WithWatchingActivity(s.Text)
	case "streaming":
		url := ""
		if sys.GlobalConfig != nil {
			url = sys.GlobalConfig.StreamingURL
		}
		return gateway.WithStreamingActivity(s.Text, url)
	default:
		return gateway.WithPlayingActivity(s.Text)
	}
}

func applyStatus(ctx context.Context, client *bot.Client, s BotStatus) error {
	return client.SetPresence(ctx, gateway.WithOnlineStatus(discord.OnlineStatusOnline), activityOpt(s))
}

// SetStatus changes the presence and stores it for the next start.
func SetStatus(ctx context.Context, client *bot.Client, s BotStatus) error {
	if !validActivity(s.Activity) {
		return fmt.Errorf(sys.MsgStatusInvalidType, s.Activity)
	}

	statusMu.Lock()
	defer statusMu.Unlock()

	if err := applyStatus(ctx, client, s); err != nil {
		return err
	}
	if cfg := sys.GlobalConfig; cfg != nil {
		if err := SaveStatus(cfg.StatusPath(), s); err != nil {
			sys.LogError(sys.MsgStatusSaveFail, err)
		}
	}
	return nil
}
