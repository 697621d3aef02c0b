package sys

import (
	"errors"
	"fmt"
	"os"

	"github.com/disgoorg/snowflake/v2"
	"gopkg.in/yaml.v3"

	"github.com/Rivixer/SGGW-inf-bot-discord-sub000/roleassign"
)

// Settings are the guild-specific ids the bot operates on.
type Settings struct {
	Registration   RegistrationSettings        `yaml:"registration"`
	Voice          VoiceSettings               `yaml:"voice"`
	RoleAssignment map[string]roleassign.Group `yaml:"role_assignment"`
}

type RegistrationSettings struct {
	ChannelID      snowflake.ID `yaml:"channel_id"`
	VerifiedRoleID snowflake.ID `yaml:"verified_role_id"`
	BotChannelID   snowflake.ID `yaml:"bot_channel_id"`
	DiscordLogoURL string       `yaml:"discord_logo_url"`
}

type VoiceSettings struct {
	CategoryID snowflake.ID `yaml:"category_id"`
	Names      []string     `yaml:"names"`
}

var GlobalSettings *Settings

var (
	ErrSettingsNoRegistrationChannel = errors.New("registration.channel_id is required")
	ErrSettingsNoVerifiedRole        = errors.New("registration.verified_role_id is required")
	ErrSettingsNoBotChannel          = errors.New("registration.bot_channel_id is required")
)

func (s *Settings) Validate() error {
	switch {
	case s.Registration.ChannelID == 0:
		return ErrSettingsNoRegistrationChannel
	case s.Registration.VerifiedRoleID == 0:
		return ErrSettingsNoVerifiedRole
	case s.Registration.BotChannelID == 0:
		return ErrSettingsNoBotChannel
	}
	for id, g := range s.RoleAssignment {
		if err := g.Validate(); err != nil {
			return fmt.Errorf("role_assignment.%s: %w", id, err)
		}
	}
	return nil
}

// VoiceEnabled reports whether the voice channel pool is configured.
func (s *Settings) VoiceEnabled() bool {
	return s.Voice.CategoryID != 0
}

func ParseSettings(data []byte) (*Settings, error) {
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf(MsgSettingsMissing, path)
		}
		return nil, err
	}

	s, err := ParseSettings(data)
	if err != nil {
		return nil, err
	}

	GlobalSettings = s
	return s, nil
}
