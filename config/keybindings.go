package config

import (
	"strings"
)

// KeyBindingsConfig holds modifier customization and optional per-action overrides
// for the chat window. It lives in the [keybindings] table of settings.toml.
type KeyBindingsConfig struct {
	Primary   string            `toml:"primary"`   // e.g., "alt", "ctrl", "meta", "super"
	Secondary string            `toml:"secondary"` // e.g., "alt+shift", "ctrl+shift"
	Actions   map[string]string `toml:"actions,omitempty"`
}

// actionDef defines the default modifier and key for an action
type actionDef struct {
	modifier string // "primary", "secondary", or "none"
	key      string
}

// Chat window actions.
const (
	ActionSend           = "send"
	ActionClearChat      = "clear_chat"
	ActionCopyLastReply  = "copy_last_reply"
	ActionScrollUp       = "scroll_up"
	ActionScrollDown     = "scroll_down"
	ActionScrollToBottom = "scroll_to_bottom"
	ActionHelp           = "help"
	ActionQuit           = "quit"
)

var actionRegistry = map[string]actionDef{
	ActionSend:           {"none", "enter"},
	ActionClearChat:      {"primary", "l"},
	ActionCopyLastReply:  {"primary", "y"},
	ActionScrollUp:       {"primary", "k"},
	ActionScrollDown:     {"primary", "j"},
	ActionScrollToBottom: {"secondary", "g"},
	ActionHelp:           {"primary", "h"},
	ActionQuit:           {"primary", "q"},
}

// DefaultKeybindings returns default configuration
func DefaultKeybindings() *KeyBindingsConfig {
	return &KeyBindingsConfig{
		Primary:   "alt",
		Secondary: "alt+shift",
	}
}

func (kb *KeyBindingsConfig) primary() string {
	if kb.Primary == "" {
		return "alt"
	}
	return kb.Primary
}

func (kb *KeyBindingsConfig) secondary() string {
	if kb.Secondary == "" {
		return "alt+shift"
	}
	return kb.Secondary
}

// PrimaryKey builds a keybinding string with primary modifier
// Example: PrimaryKey("l") returns "alt+l" (or "ctrl+l" if primary is "ctrl")
func (kb *KeyBindingsConfig) PrimaryKey(key string) string {
	return kb.primary() + "+" + key
}

// SecondaryKey builds a keybinding string with secondary modifier
// For modifiers containing "shift" + single letter keys, returns uppercase letter
// Example: SecondaryKey("g") returns "alt+G" (not "alt+shift+g")
func (kb *KeyBindingsConfig) SecondaryKey(key string) string {
	secondary := kb.secondary()

	// Terminals report shift+letter as the uppercase letter
	if strings.Contains(strings.ToLower(secondary), "shift") && len(key) == 1 && key[0] >= 'a' && key[0] <= 'z' {
		var mods []string
		for _, part := range strings.Split(secondary, "+") {
			if strings.ToLower(part) != "shift" {
				mods = append(mods, part)
			}
		}
		if len(mods) > 0 {
			return strings.Join(mods, "+") + "+" + strings.ToUpper(key)
		}
		return strings.ToUpper(key)
	}

	return secondary + "+" + key
}

// GetActionKey returns the keybinding for a specific action
// Checks user overrides first, then falls back to action registry defaults
func (kb *KeyBindingsConfig) GetActionKey(action string) string {
	if override, ok := kb.Actions[action]; ok && override != "" {
		return override
	}

	def, ok := actionRegistry[action]
	if !ok {
		return ""
	}
	switch def.modifier {
	case "primary":
		return kb.PrimaryKey(def.key)
	case "secondary":
		return kb.SecondaryKey(def.key)
	default:
		return def.key
	}
}

// DisplayActionKey returns a display-friendly version of an action's keybinding
// Example: "alt+G" -> "Alt+Shift+G"
func (kb *KeyBindingsConfig) DisplayActionKey(action string) string {
	key := kb.GetActionKey(action)
	if key == "" {
		return ""
	}
	return capitalizeKeybinding(key)
}

func capitalizeKeybinding(key string) string {
	parts := strings.Split(key, "+")
	hasShift := false
	for _, p := range parts {
		if strings.ToLower(p) == "shift" {
			hasShift = true
		}
	}

	var result []string
	for i, part := range parts {
		if part == "" {
			continue
		}
		// A lone uppercase letter after a modifier means Shift was held
		if len(part) == 1 && part[0] >= 'A' && part[0] <= 'Z' && !hasShift && i > 0 {
			result = append(result, "Shift")
		}
		result = append(result, strings.ToUpper(part[:1])+part[1:])
	}

	return strings.Join(result, "+")
}

// Validate checks if the configuration is valid
// Returns (isValid, warningMessage)
func (kb *KeyBindingsConfig) Validate() (bool, string) {
	primary := kb.primary()
	secondary := kb.secondary()

	if primary == "shift" || secondary == "shift" {
		return false, "Shift alone conflicts with typing"
	}

	for action := range kb.Actions {
		if _, ok := actionRegistry[action]; !ok {
			return false, "unknown action " + action
		}
	}

	if strings.Contains(primary, "ctrl") || strings.Contains(secondary, "ctrl") {
		return true, "Warning: Ctrl may conflict with terminal shortcuts (Ctrl+C, Ctrl+Z, Ctrl+D)"
	}

	return true, ""
}
