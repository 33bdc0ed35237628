package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/itcenter/coursebot/core/telegram/commands"
)

func noop(tele.Context) error { return nil }

type recordingSetter struct{ got []tele.Command }

func (r *recordingSetter) SetCommands(opts ...interface{}) error {
	r.got = opts[0].([]tele.Command)
	return nil
}

func TestRegistryLookup(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterCommand("/register", commands.Command{
		Handler: noop, Description: "Sign up", Aliases: []string{"📝 Ro'yxatdan o'tish"}, Interrupts: true,
	}))
	require.NoError(t, reg.RegisterCommand("/stats", commands.Command{Handler: noop, Description: "Stats", AdminOnly: true}))

	name, cmd, ok := reg.LookupCommand("📝 Ro'yxatdan o'tish")
	require.True(t, ok)
	assert.Equal(t, "/register", name)
	assert.True(t, cmd.Interrupts)

	name, _, ok = reg.LookupCommand("/register@coursebot now")
	require.True(t, ok)
	assert.Equal(t, "/register", name)

	_, _, ok = reg.LookupCommand("Ro'yxatdan o'tish")
	assert.False(t, ok)
	_, _, ok = reg.LookupCommand("   ")
	assert.False(t, ok)
}

func TestRegistryRejectsBadEntries(t *testing.T) {
	reg := NewRegistry()
	assert.Error(t, reg.RegisterCommand("start", commands.Command{Handler: noop, Description: "x"}))
	assert.Error(t, reg.RegisterCommand("/start", commands.Command{Description: "x"}))
	require.NoError(t, reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "x", Aliases: []string{"menu"}}))
	assert.Error(t, reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "y"}))
	assert.Error(t, reg.RegisterCommand("/menu", commands.Command{Handler: noop, Description: "y", Aliases: []string{"menu"}}))

	require.NoError(t, reg.RegisterCallback("reg_course", noop))
	assert.Error(t, reg.RegisterCallback("reg_course", noop))
	assert.Error(t, reg.RegisterCallback("", noop))
	assert.Equal(t, []string{"reg_course"}, reg.ListCallbacks())
}

func TestInitBotCommandsHidesAdmin(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterCommand("/start", commands.Command{Handler: noop, Description: "Start"}))
	require.NoError(t, reg.RegisterCommand("/cancel", commands.Command{Handler: noop, Description: "Cancel"}))
	require.NoError(t, reg.RegisterCommand("/admin", commands.Command{Handler: noop, Description: "Admin", AdminOnly: true}))

	setter := &recordingSetter{}
	InitBotCommands(setter, reg)
	assert.Equal(t, []tele.Command{{Text: "cancel", Description: "Cancel"}, {Text: "start", Description: "Start"}}, setter.got)
}
