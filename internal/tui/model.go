// Package tui is `relabel watch`: a live feed of label changes with a chat prompt.
package tui

import (
	"context"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/thenoetrevino/relabel/internal/config"
	"github.com/thenoetrevino/relabel/internal/events"
)

// maxFeedEntries bounds memory for long-running sessions
const maxFeedEntries = 500

type entryKind int

const (
	entryChange entryKind = iota
	entryCommand
	entryReply
	entryNotice
)

// feedEntry is one item in the scrolling feed
type feedEntry struct {
	kind     entryKind
	at       time.Time
	event    events.Event
	text     string
	markdown bool
	isError  bool
}

// Model is the watch console state
type Model struct {
	ctx      context.Context
	api      API
	listener events.Listener
	keys     config.KeyMappings
	styles   Styles

	input  textinput.Model
	feed   []feedEntry
	values map[string]string // current value per label key
	events <-chan events.Event

	status   ConnectionStatus
	paused   bool
	missed   int // changes received while paused
	scroll   int // lines scrolled up from the bottom
	showHelp bool
	pending  int // commands awaiting a reply

	width  int
	height int
	now    func() time.Time
}

// New creates the console model. Nothing connects until Init runs.
func New(ctx context.Context, api API, listener events.Listener, cfg *config.Config) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = `e.g. change about to Our Story`

	keys := cfg.KeyMappings
	if keys.Quit == "" {
		keys = config.DefaultKeyMappings()
	}

	return Model{
		ctx:      ctx,
		api:      api,
		listener: listener,
		keys:     keys,
		styles:   NewStyles(cfg.Theme),
		input:    ti,
		values:   make(map[string]string),
		status:   Connecting,
		now:      time.Now,
	}
}

// Init connects to the event stream and loads the current labels
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		connect(m.ctx, m.listener),
		loadLabels(m.ctx, m.api),
	)
}

func (m *Model) push(e feedEntry) {
	if e.at.IsZero() {
		e.at = m.now()
	}
	m.feed = append(m.feed, e)
	if len(m.feed) > maxFeedEntries {
		m.feed = m.feed[len(m.feed)-maxFeedEntries:]
	}
}

func (m *Model) notice(text string, isError bool) {
	m.push(feedEntry{kind: entryNotice, text: text, isError: isError})
}
