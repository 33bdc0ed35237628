// Package teletest provides in-memory stand-ins for Telebot's context and
// bot API so handlers can be exercised without a network.
package teletest

import (
	"errors"
	"strconv"
	"sync"

	tele "gopkg.in/telebot.v4"
)

// Reply is one outgoing call captured by Context or Bot.
type Reply struct {
	To   int64
	What any
	Opts []any
}

// Text returns the payload when it is a plain string.
func (r Reply) Text() string {
	s, _ := r.What.(string)
	return s
}

// Markup returns the reply markup passed with the call, if any.
func (r Reply) Markup() *tele.ReplyMarkup {
	for _, o := range r.Opts {
		switch v := o.(type) {
		case *tele.ReplyMarkup:
			return v
		case *tele.SendOptions:
			if v != nil && v.ReplyMarkup != nil {
				return v.ReplyMarkup
			}
		}
	}
	return nil
}

// Context implements the subset of tele.Context used by the bot. Methods
// outside that subset panic through the nil embedded interface.
type Context struct {
	tele.Context

	Upd       tele.Update
	Sent      []Reply
	Edits     []Reply
	Responses []*tele.CallbackResponse
	// SendErr, when set, is returned by Send and Edit.
	SendErr error

	store map[string]any
}

func user(id int64) *tele.User {
	return &tele.User{ID: id, FirstName: "User" + strconv.FormatInt(id, 10), Username: "user" + strconv.FormatInt(id, 10)}
}

func message(chatID, userID int64) *tele.Message {
	return &tele.Message{ID: 100, Sender: user(userID), Chat: &tele.Chat{ID: chatID, Type: tele.ChatPrivate}}
}

// NewText builds a text message update.
func NewText(chatID, userID int64, text string) *Context {
	m := message(chatID, userID)
	m.Text = text
	return &Context{Upd: tele.Update{ID: 1, Message: m}}
}

// NewContact builds an update carrying a shared contact.
func NewContact(chatID, userID int64, phone string) *Context {
	m := message(chatID, userID)
	m.Contact = &tele.Contact{PhoneNumber: phone, UserID: userID}
	return &Context{Upd: tele.Update{ID: 1, Message: m}}
}

// NewPhoto builds an update carrying a photo with a caption.
func NewPhoto(chatID, userID int64, caption string) *Context {
	m := message(chatID, userID)
	m.Photo = &tele.Photo{File: tele.File{FileID: "photo-1"}}
	m.Caption = caption
	return &Context{Upd: tele.Update{ID: 1, Message: m}}
}

// NewCallback builds a button press update with raw callback data,
// e.g. callbacks.Data("reg_course", id).
func NewCallback(chatID, userID int64, data string) *Context {
	return &Context{Upd: tele.Update{ID: 1, Callback: &tele.Callback{
		ID:      "cb-1",
		Sender:  user(userID),
		Message: message(chatID, userID),
		Data:    data,
	}}}
}

func (c *Context) Update() tele.Update { return c.Upd }

func (c *Context) Message() *tele.Message {
	switch {
	case c.Upd.Message != nil:
		return c.Upd.Message
	case c.Upd.Callback != nil:
		return c.Upd.Callback.Message
	}
	return nil
}

func (c *Context) Callback() *tele.Callback { return c.Upd.Callback }

func (c *Context) Sender() *tele.User {
	switch {
	case c.Upd.Callback != nil:
		return c.Upd.Callback.Sender
	case c.Upd.Message != nil:
		return c.Upd.Message.Sender
	}
	return nil
}

func (c *Context) Chat() *tele.Chat {
	if m := c.Message(); m != nil {
		return m.Chat
	}
	return nil
}

func (c *Context) Recipient() tele.Recipient { return c.Chat() }

func (c *Context) Text() string {
	m := c.Message()
	if m == nil {
		return ""
	}
	if m.Text != "" {
		return m.Text
	}
	return m.Caption
}

func (c *Context) Data() string {
	if c.Upd.Callback != nil {
		return c.Upd.Callback.Data
	}
	return ""
}

func (c *Context) Get(key string) any { return c.store[key] }

func (c *Context) Set(key string, val any) {
	if c.store == nil {
		c.store = make(map[string]any)
	}
	c.store[key] = val
}

func (c *Context) Send(what any, opts ...any) error {
	if c.SendErr != nil {
		return c.SendErr
	}
	c.Sent = append(c.Sent, Reply{To: c.Chat().ID, What: what, Opts: opts})
	return nil
}

func (c *Context) Reply(what any, opts ...any) error { return c.Send(what, opts...) }

func (c *Context) Edit(what any, opts ...any) error {
	if c.SendErr != nil {
		return c.SendErr
	}
	if c.Upd.Callback == nil {
		return errors.New("teletest: nothing to edit")
	}
	c.Edits = append(c.Edits, Reply{To: c.Chat().ID, What: what, Opts: opts})
	return nil
}

func (c *Context) EditOrSend(what any, opts ...any) error {
	if c.Upd.Callback != nil {
		return c.Edit(what, opts...)
	}
	return c.Send(what, opts...)
}

func (c *Context) Respond(resp ...*tele.CallbackResponse) error {
	if len(resp) == 0 {
		c.Responses = append(c.Responses, &tele.CallbackResponse{})
		return nil
	}
	c.Responses = append(c.Responses, resp[0])
	return nil
}

// Texts lists every sent and edited string payload in order of the slices.
func (c *Context) Texts() []string {
	var out []string
	for _, r := range append(append([]Reply(nil), c.Sent...), c.Edits...) {
		if s := r.Text(); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Last returns the most recent sent message.
func (c *Context) Last() Reply {
	if len(c.Sent) == 0 {
		return Reply{}
	}
	return c.Sent[len(c.Sent)-1]
}

// Bot records outbound Bot API calls.
type Bot struct {
	mu sync.Mutex

	Sent  []Reply
	Edits []Reply

	// FailFor lists chat ids whose deliveries fail.
	FailFor map[int64]bool
	// Members maps user id to membership status in any channel.
	Members map[int64]tele.MemberStatus
	// MemberErr is returned by ChatMemberOf when set.
	MemberErr error

	nextID int
}

var errBlocked = errors.New("teletest: bot was blocked by the user")

func chatIDOf(r tele.Recipient) int64 {
	id, _ := strconv.ParseInt(r.Recipient(), 10, 64)
	return id
}

func (b *Bot) message(to int64) *tele.Message {
	b.nextID++
	return &tele.Message{ID: b.nextID, Chat: &tele.Chat{ID: to}}
}

func (b *Bot) Send(to tele.Recipient, what any, opts ...any) (*tele.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := chatIDOf(to)
	if b.FailFor[id] {
		return nil, errBlocked
	}
	b.Sent = append(b.Sent, Reply{To: id, What: what, Opts: opts})
	return b.message(id), nil
}


func (b *Bot) Edit(msg tele.Editable, what any, opts ...any) (*tele.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, chatID := msg.MessageSig()
	b.Edits = append(b.Edits, Reply{To: chatID, What: what, Opts: opts})
	return &tele.Message{Chat: &tele.Chat{ID: chatID}}, nil
}

func (b *Bot) ChatMemberOf(chat, u tele.Recipient) (*tele.ChatMember, error) {
	if b.MemberErr != nil {
		return nil, b.MemberErr
	}
	status, ok := b.Members[chatIDOf(u)]
	if !ok {
		status = tele.Left
	}
	return &tele.ChatMember{Role: status, User: &tele.User{ID: chatIDOf(u)}}, nil
}

// SentTo returns messages delivered to chatID.
func (b *Bot) SentTo(chatID int64) []Reply {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Reply
	for _, r := range b.Sent {
		if r.To == chatID {
			out = append(out, r)
		}
	}
	return out
}
