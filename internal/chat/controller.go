package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bdask/bdask/internal/domain"
	"github.com/bdask/bdask/internal/notify"
)

// Tab is a feature tab of the chat page.
type Tab string

const (
	TabChat      Tab = "chat"
	TabNews      Tab = "news"
	TabSports    Tab = "sports"
	TabExchange  Tab = "exchange"
	TabPrayer    Tab = "prayer"
	TabTranslate Tab = "translate"
	TabZakat     Tab = "zakat"
	TabRamadan   Tab = "ramadan"
	TabWeather   Tab = "weather"
)

// Tabs lists every tab in display order.
var Tabs = []Tab{TabChat, TabNews, TabSports, TabExchange, TabPrayer, TabTranslate, TabZakat, TabRamadan, TabWeather}

// ParseTab validates a tab name.
func ParseTab(name string) (Tab, error) {
	t := Tab(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Tabs {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tab %q", name)
}

// VoiceInput is the part of the voice controller the page drives.
type VoiceInput interface {
	ToggleListening(ctx context.Context)
	IsListening() bool
	IsSupported() bool
}

// Controller is the chat page: UI-only state plus routing of user actions
// into the session store and the dispatcher.
type Controller struct {
	sessions   *SessionStore
	dispatcher *Dispatcher
	voice      VoiceInput
	notifier   notify.Notifier

	mu          sync.Mutex
	tab         Tab
	sidebarOpen bool
	darkMode    bool
	input       string
}

// NewController wires the page. voice may be nil.
func NewController(sessions *SessionStore, dispatcher *Dispatcher, voice VoiceInput, notifier notify.Notifier) *Controller {
	return &Controller{
		sessions:   sessions,
		dispatcher: dispatcher,
		voice:      voice,
		notifier:   notifier,
		tab:        TabChat,
	}
}

// Mount loads the session list.
func (c *Controller) Mount(ctx context.Context) {
	c.sessions.ListSessions(ctx)
}

// State returns the current chat cache.
func (c *Controller) State() Snapshot {
	return c.sessions.State().Snapshot()
}

// SelectSession activates id and loads its messages. An empty id clears
// the message list. The sidebar closes after selection.
func (c *Controller) SelectSession(ctx context.Context, id string) {
	c.sessions.Activate(id)
	if id != "" {
		c.sessions.LoadMessages(ctx, id)
	}
	c.mu.Lock()
	c.sidebarOpen = false
	c.mu.Unlock()
}

// NewSession creates an empty session with the default title and makes it
// active.
func (c *Controller) NewSession(ctx context.Context) {
	session, err := c.sessions.CreateSession(ctx, domain.DefaultSessionTitle)
	if err != nil {
		c.notifier.Error(notify.SessionCreateFailed)
		return
	}
	c.SelectSession(ctx, session.ID)
	c.notifier.Success(notify.SessionCreated)
}

// DeleteSession deletes id and reports the outcome.
func (c *Controller) DeleteSession(ctx context.Context, id string) {
	if err := c.sessions.DeleteSession(ctx, id); err != nil {
		c.notifier.Error(notify.SessionDeleteFailed)
		return
	}
	c.notifier.Success(notify.SessionDeleted)
}

// SuggestionClick sends a suggestion chip's text.
func (c *Controller) SuggestionClick(ctx context.Context, text string) {
	c.dispatcher.Send(ctx, text)
}

// SetInput replaces the staged input text.
func (c *Controller) SetInput(text string) {
	c.mu.Lock()
	c.input = text
	c.mu.Unlock()
}

// Input returns the staged input text.
func (c *Controller) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// VoiceTranscript stages a finalized transcript, space-joined after any
// text already staged.
func (c *Controller) VoiceTranscript(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.input == "" {
		c.input = text
		return
	}
	c.input += " " + text
}

// SubmitInput sends the staged input and clears it. Nothing happens while
// a send is in flight.
func (c *Controller) SubmitInput(ctx context.Context) {
	if c.sessions.State().Loading() {
		return
	}
	c.mu.Lock()
	text := c.input
	if strings.TrimSpace(text) != "" {
		c.input = ""
	}
	c.mu.Unlock()
	c.dispatcher.Send(ctx, text)
}

// ToggleVoice starts or stops listening. A no-op without voice support.
func (c *Controller) ToggleVoice(ctx context.Context) {
	if c.voice == nil || !c.voice.IsSupported() {
		return
	}
	c.voice.ToggleListening(ctx)
}

// SetTab switches the feature tab.
func (c *Controller) SetTab(t Tab) {
	c.mu.Lock()
	c.tab = t
	c.mu.Unlock()
}

// Tab returns the active feature tab.
func (c *Controller) Tab() Tab {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tab
}

// ToggleSidebar flips the sidebar and returns the new state.
func (c *Controller) ToggleSidebar() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sidebarOpen = !c.sidebarOpen
	return c.sidebarOpen
}

// SidebarOpen reports whether the sidebar is shown.
func (c *Controller) SidebarOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sidebarOpen
}

// ToggleTheme flips dark mode and returns the new state.
func (c *Controller) ToggleTheme() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.darkMode = !c.darkMode
	return c.darkMode
}

// DarkMode reports whether the dark theme is on.
func (c *Controller) DarkMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.darkMode
}
