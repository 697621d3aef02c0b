package sys

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disgoorg/snowflake/v2"
	"github.com/joho/godotenv"
)

type Config struct {
	Token        string
	GuildID      string
	DatabasePath string
	DataDir      string
	SettingsPath string
	OwnerIDs     []string
	StreamingURL string
	Silent       bool
	Mail         MailConfig
}

// MailConfig holds the SMTP account used to deliver registration codes.
type MailConfig struct {
	Host              string
	Port              int
	Address           string
	Password          string
	DestinationDomain string
}

var GlobalConfig *Config

// Validate ensures the configuration is valid and meets requirements.
func (c *Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf(MsgConfigMissingToken)
	}

	if c.GuildID != "" {
		if _, err := snowflake.Parse(c.GuildID); err != nil || len(c.GuildID) < 17 || len(c.GuildID) > 20 {
			return fmt.Errorf(MsgConfigInvalidGuildID)
		}
	}

	if c.Mail.Port <= 0 || c.Mail.Port > 65535 {
		return fmt.Errorf(MsgConfigInvalidMailPort, strconv.Itoa(c.Mail.Port))
	}

	return nil
}

// RegistrationDir is where codes.json, the student roster and the email template live.
func (c *Config) RegistrationDir() string {
	return filepath.Join(c.DataDir, "registration")
}

// StatusPath holds the bot presence as "<activity>\n<text>".
func (c *Config) StatusPath() string {
	return filepath.Join(c.DataDir, "status.txt")
}

func (c *Config) IsOwner(userID string) bool {
	for _, id := range c.OwnerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	dataDir := getenvDefault("DATA_DIR", "data")

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = filepath.Join(dataDir, GetProjectName()+".db")
	}

	silent, _ := strconv.ParseBool(os.Getenv("SILENT"))

	portStr := getenvDefault("MAIL_PORT", "465")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf(MsgConfigInvalidMailPort, portStr)
	}

	cfg := &Config{
		Token:        os.Getenv("DISCORD_TOKEN"),
		GuildID:      os.Getenv("GUILD_ID"),
		DatabasePath: fmt.Sprintf("%s?_journal_mode=WAL&_timeout=5000", dbPath),
		DataDir:      dataDir,
		SettingsPath: getenvDefault("SETTINGS_PATH", filepath.Join(dataDir, "settings.yaml")),
		OwnerIDs:     splitList(os.Getenv("OWNER_IDS")),
		StreamingURL: getenvDefault("STREAMING_URL", "https://www.twitch.tv/discord"),
		Silent:       silent,
		Mail: MailConfig{
			Host:              getenvDefault("MAIL_HOST", "smtp.gmail.com"),
			Port:              port,
			Address:           os.Getenv("MAIL_ADDRESS"),
			Password:          os.Getenv("MAIL_PASSWORD"),
			DestinationDomain: os.Getenv("DESTINATION_MAIL_DOMAIN"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Silent {
		SetSilentMode(true)
	}

	GlobalConfig = cfg
	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func GetProjectName() string {
	exePath, err := os.Executable()
	projectName := "bot"
	if err == nil {
		projectName = strings.TrimSuffix(filepath.Base(exePath), ".exe")

		if projectName == "main" || strings.HasPrefix(projectName, "go_build_") {
			if modData, err := os.ReadFile("go.mod"); err == nil {
				lines := strings.Split(string(modData), "\n")
				if len(lines) > 0 && strings.HasPrefix(lines[0], "module ") {
					parts := strings.Split(lines[0], "/")
					projectName = strings.TrimSpace(parts[len(parts)-1])
				}
			}
		}
	}
	return projectName
}
