// Package roleassign maps reactions on a posted message to member roles.
//
// Each group is a set of mutually exclusive roles, for example laboratory
// groups. Reacting with a role's emoji gives the member that role and takes
// away the other roles of the group, plus any extra roles listed for removal.
// An entry with role id 0 is a reset: it only removes.
package roleassign

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/disgoorg/snowflake/v2"
)

var (
	ErrUnknownEmoji = errors.New("no role is bound to this emoji")
	ErrUnknownGroup = errors.New("unknown role assignment group")
	ErrRoleMissing  = errors.New("role does not exist on the server")
)

// ServerRole binds one emoji to one role.
type ServerRole struct {
	RoleID          snowflake.ID   `yaml:"role_id"`
	Description     string         `yaml:"description"`
	Emoji           string         `yaml:"emoji"`
	AlsoRemoveRoles []snowflake.ID `yaml:"additional_role_ids_to_remove"`
}

// Info is the line shown on the role message.
func (r ServerRole) Info() string {
	return DisplayEmoji(r.Emoji) + " - " + r.Description
}

// Group is one role message.
type Group struct {
	Title       string       `yaml:"title"`
	Description string       `yaml:"description"`
	Roles       []ServerRole `yaml:"roles"`
}

// Change is what a reaction does to a member.
type Change struct {
	Add    snowflake.ID
	Remove []snowflake.ID
}

// Reset reports a change that only removes roles.
func (c Change) Reset() bool { return c.Add == 0 }

// Validate checks that every emoji is set and unique.
func (g Group) Validate() error {
	if len(g.Roles) == 0 {
		return errors.New("group has no roles")
	}
	seen := make(map[string]struct{}, len(g.Roles))
	for _, r := range g.Roles {
		key := NormalizeEmoji(r.Emoji)
		if key == "" {
			return fmt.Errorf("role %s has no emoji", r.RoleID)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("emoji %s is used twice", r.Emoji)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// Emojis returns the reactions to put on the role message, in order.
func (g Group) Emojis() []string {
	out := make([]string, len(g.Roles))
	for i, r := range g.Roles {
		out[i] = NormalizeEmoji(r.Emoji)
	}
	return out
}

// Content renders the role message.
func (g Group) Content() string {
	var sb strings.Builder
	if g.Title != "" {
		sb.WriteString("### " + g.Title + "\n")
	}
	if g.Description != "" {
		sb.WriteString(g.Description + "\n\n")
	}
	for i, r := range g.Roles {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(r.Info())
	}
	return sb.String()
}

// Plan computes the role change for a member reacting with emoji.
// memberRoles are the member's current roles; roleExists reports whether a
// role is still on the guild.
func (g Group) Plan(emoji string, memberRoles []snowflake.ID, roleExists func(snowflake.ID) bool) (Change, error) {
	key := NormalizeEmoji(emoji)
	has := make(map[snowflake.ID]struct{}, len(memberRoles))
	for _, id := range memberRoles {
		has[id] = struct{}{}
	}

	matched := false
	var change Change
	remove := map[snowflake.ID]struct{}{}

	for _, r := range g.Roles {
		if NormalizeEmoji(r.Emoji) == key {
			matched = true
			if r.RoleID != 0 {
				if !roleExists(r.RoleID) {
					return Change{}, fmt.Errorf("%w: %s", ErrRoleMissing, r.RoleID)
				}
				change.Add = r.RoleID
			}
		} else if _, ok := has[r.RoleID]; ok && r.RoleID != 0 {
			remove[r.RoleID] = struct{}{}
		}
		for _, extra := range r.AlsoRemoveRoles {
			if _, ok := has[extra]; ok {
				remove[extra] = struct{}{}
			}
		}
	}

	if !matched {
		return Change{}, ErrUnknownEmoji
	}
	delete(remove, change.Add)
	for id := range remove {
		change.Remove = append(change.Remove, id)
	}
	sort.Slice(change.Remove, func(i, j int) bool { return change.Remove[i] < change.Remove[j] })
	return change, nil
}

// NormalizeEmoji turns "<:name:id>", "<a:name:id>" and ":name:id" into the
// "name:id" form used by reactions. Unicode emoji are returned trimmed.
func NormalizeEmoji(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">") {
		s = strings.TrimPrefix(s[1:len(s)-1], "a")
	}
	return strings.TrimPrefix(s, ":")
}

// DisplayEmoji renders a "name:id" custom emoji as message markup.
func DisplayEmoji(s string) string {
	key := NormalizeEmoji(s)
	if name, id, ok := strings.Cut(key, ":"); ok {
		return "<:" + name + ":" + id + ">"
	}
	return key
}

// ReactionEmoji builds the key of a reaction event's emoji.
func ReactionEmoji(name string, id snowflake.ID) string {
	if id == 0 {
		return name
	}
	return name + ":" + id.String()
}

// MessageRef locates a posted role message.
type MessageRef struct {
	ChannelID snowflake.ID
	MessageID snowflake.ID
}

func (r MessageRef) String() string {
	return r.ChannelID.String() + ":" + r.MessageID.String()
}

// ParseMessageRef reads the "channel:message" form of String.
func ParseMessageRef(s string) (MessageRef, error) {
	ch, msg, ok := strings.Cut(s, ":")
	if !ok {
		return MessageRef{}, fmt.Errorf("malformed message reference %q", s)
	}
	channelID, err := snowflake.Parse(ch)
	if err != nil {
		return MessageRef{}, err
	}
	messageID, err := snowflake.Parse(msg)
	if err != nil {
		return MessageRef{}, err
	}
	return MessageRef{ChannelID: channelID, MessageID: messageID}, nil
}
