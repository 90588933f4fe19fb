// Package tui は、再生エンジンを端末上のチャット画面として動かす bubbletea のモデルです。
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sat8bit/kaiwa/bus"
	"github.com/sat8bit/kaiwa/responder"
	"github.com/sat8bit/kaiwa/reveal"
)

// chrome は viewport 以外に使う行数です（ヘッダー2、入力中1、入力1、ステータス1）。
const chrome = 5

// Profile は、ヘッダーに出す語り手の情報です。
type Profile struct {
	Name    string
	Tagline string
}

type eventMsg bus.Event

type closedMsg struct{}

// Model は bubbletea のモデルです。New で生成してください。
type Model struct {
	ctx       context.Context
	host      *reveal.Host
	responder *responder.Responder
	events    <-chan bus.Event
	port      *Port
	profile   Profile

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	keys     keyMap

	snap          reveal.Snapshot
	anchorVisible bool
	status        string
	width         int
	ready         bool
}

// New はモデルを生成します。events は Host が配信するバスの購読チャネルです。
func New(ctx context.Context, host *reveal.Host, r *responder.Responder, events <-chan bus.Event, port *Port, profile Profile) Model {
	ti := textinput.New()
	ti.Placeholder = "say something…"
	ti.Prompt = "› "
	ti.CharLimit = 500
	ti.Focus()

	return Model{
		ctx:           ctx,
		host:          host,
		responder:     r,
		events:        events,
		port:          port,
		profile:       profile,
		input:         ti,
		spinner:       spinner.New(spinner.WithSpinner(spinner.Dot)),
		keys:          newKeyMap(),
		anchorVisible: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForEvent(m.events))
}

func waitForEvent(ch <-chan bus.Event) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return closedMsg{}
		}
		return eventMsg(e)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		height := max(1, msg.Height-chrome)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.input.Width = max(10, msg.Width-4)
		m.refresh()
		m.port.sync(m.viewport)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.host.Cancel()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Send):
			m.submit()
			return m, nil
		case key.Matches(msg, m.keys.Bottom):
			m.host.JumpToBottom()
			return m, nil
		case key.Matches(msg, m.keys.Up):
			m.scrollBy(-1)
			return m, nil
		case key.Matches(msg, m.keys.Down):
			m.scrollBy(1)
			return m, nil
		case key.Matches(msg, m.keys.PageUp):
			m.scrollBy(-m.viewport.Height)
			return m, nil
		case key.Matches(msg, m.keys.PageDown):
			m.scrollBy(m.viewport.Height)
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		if !m.ready {
			return m, nil
		}
		before := m.viewport.YOffset
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		if m.viewport.YOffset != before {
			m.userScrolled()
		}
		return m, cmd

	case eventMsg:
		if msg.Kind == bus.KindLog {
			m.status = msg.Text
		}
		wasTyping := m.snap.Typing
		m.refresh()
		if m.snap.Typing && !wasTyping {
			cmds = append(cmds, m.spinner.Tick)
		}
		cmds = append(cmds, waitForEvent(m.events))
		return m, tea.Batch(cmds...)

	case closedMsg:
		return m, nil

	case spinner.TickMsg:
		if !m.snap.Typing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// refresh は Host のスナップショットを読み直して viewport に反映します。
func (m *Model) refresh() {
	m.snap = m.host.Snapshot()
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.transcript())
	m.port.sync(m.viewport)
	if m.port.apply(&m.viewport) {
		m.port.sync(m.viewport)
		m.updateAnchor()
	}
}

func (m *Model) submit() {
	text := m.input.Value()
	_, err := m.responder.Submit(m.ctx, text)
	switch {
	case err == nil:
		m.input.SetValue("")
		m.status = ""
	case errors.Is(err, responder.ErrEmpty):
	case errors.Is(err, responder.ErrBusy):
		m.status = "hold up, still replying…"
	default:
		m.status = err.Error()
	}
}

func (m *Model) scrollBy(n int) {
	if !m.ready {
		return
	}
	m.viewport.SetYOffset(m.viewport.YOffset + n)
	m.userScrolled()
}

// userScrolled は、ユーザー操作でスクロールした後の通知です。
func (m *Model) userScrolled() {
	m.port.sync(m.viewport)
	m.host.Scrolled()
	m.updateAnchor()
	m.snap = m.host.Snapshot()
}

// updateAnchor は、先頭の日付行が見えているかどうかを Host に伝えます。
func (m *Model) updateAnchor() {
	visible := m.viewport.YOffset == 0
	if visible == m.anchorVisible {
		return
	}
	m.anchorVisible = visible
	m.host.AnchorVisible(visible)
}
