package ui

import tele "gopkg.in/telebot.v4"

// FallbackProvider exposes handlers used when an update cannot be mapped
// to a command, a callback key or a running conversation.
type FallbackProvider interface {
	UnknownText() tele.HandlerFunc
	UnknownMedia() tele.HandlerFunc
	UnknownCallback() tele.HandlerFunc
}
