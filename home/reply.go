package home

import (
	"context"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"

	"github.com/Rivixer/SGGW-inf-bot-discord-sub000/sys"
)

type messageResponder interface {
	CreateMessage(messageCreate discord.MessageCreate, opts ...rest.RequestOpt) error
}

func ephemeralMessage(content string) discord.MessageCreate {
	return discord.NewMessageCreateBuilder().
		SetIsComponentsV2(true).
		SetEphemeral(true).
		AddComponents(discord.NewContainer(discord.NewTextDisplay(content))).
		Build()
}

func respondEphemeral(r messageResponder, content string) {
	if err := r.CreateMessage(ephemeralMessage(content)); err != nil {
		sys.LogDebug("Failed to respond: %v", err)
	}
}

func shortInput(customID, placeholder, value string, required bool, maxLength int) discord.TextInputComponent {
	return discord.TextInputComponent{
		CustomID:    customID,
		Style:       discord.TextInputStyleShort,
		Placeholder: placeholder,
		Value:       value,
		Required:    required,
		MaxLength:   maxLength,
	}
}

func paragraphInput(customID, placeholder, value string, required bool) discord.TextInputComponent {
	return discord.TextInputComponent{
		CustomID:    customID,
		Style:       discord.TextInputStyleParagraph,
		Placeholder: placeholder,
		Value:       value,
		Required:    required,
		MaxLength:   1000,
	}
}

func labeled(label string, input discord.TextInputComponent) discord.LabelComponent {
	return discord.LabelComponent{Label: label, Component: input}
}

// truncate cuts s to at most n runes; placeholders are limited to 100.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func appContext() context.Context {
	if sys.AppContext != nil {
		return sys.AppContext
	}
	return context.Background()
}

func intPtr(i int) *int {
	return &i
}
