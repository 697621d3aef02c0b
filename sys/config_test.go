package sys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Token:   "token",
		GuildID: "1234567890123456789",
		Mail:    MailConfig{Host: "smtp.gmail.com", Port: 465},
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "global commands", mutate: func(c *Config) { c.GuildID = "" }},
		{name: "missing token", mutate: func(c *Config) { c.Token = "" }, wantErr: true},
		{name: "guild id not a number", mutate: func(c *Config) { c.GuildID = "guild" }, wantErr: true},
		{name: "guild id too short", mutate: func(c *Config) { c.GuildID = "12345" }, wantErr: true},
		{name: "mail port zero", mutate: func(c *Config) { c.Mail.Port = 0 }, wantErr: true},
		{name: "mail port too large", mutate: func(c *Config) { c.Mail.Port = 70000 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("GUILD_ID", "")
	t.Setenv("DATA_DIR", "state")
	t.Setenv("DATABASE_PATH", "")
	t.Setenv("SETTINGS_PATH", "")
	t.Setenv("MAIL_HOST", "")
	t.Setenv("MAIL_PORT", "587")
	t.Setenv("MAIL_ADDRESS", "bot@example.com")
	t.Setenv("DESTINATION_MAIL_DOMAIN", "students.example.com")
	t.Setenv("OWNER_IDS", " 1, 2 ,,3")
	t.Setenv("SILENT", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "smtp.gmail.com", cfg.Mail.Host)
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.Equal(t, "students.example.com", cfg.Mail.DestinationDomain)
	assert.Equal(t, "state/settings.yaml", cfg.SettingsPath)
	assert.Equal(t, "state/registration", cfg.RegistrationDir())
	assert.Contains(t, cfg.DatabasePath, "_journal_mode=WAL")
	assert.Equal(t, []string{"1", "2", "3"}, cfg.OwnerIDs)
	assert.True(t, cfg.IsOwner("2"))
	assert.False(t, cfg.IsOwner("4"))
}

func TestLoadConfigRejectsBadPort(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("GUILD_ID", "")
	t.Setenv("MAIL_PORT", "smtp")

	_, err := LoadConfig()
	assert.Error(t, err)
}
