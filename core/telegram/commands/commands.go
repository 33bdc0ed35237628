package commands

import (
	tele "gopkg.in/telebot.v4"
)

// Command represents a bot command with its handler, description, and metadata.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	AdminOnly   bool
	Hidden      bool
	// Aliases are exact-match texts (menu button labels) that trigger the command.
	Aliases []string
	// Interrupts lets an alias run even while a conversation is in progress.
	// Flow entry points set it so the flow restarts from its first step.
	Interrupts bool
}
