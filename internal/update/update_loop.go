package update

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sandeepkv93/freedom/internal/celebration"
	"github.com/sandeepkv93/freedom/internal/countdown"
	"github.com/sandeepkv93/freedom/internal/model"
	"github.com/sandeepkv93/freedom/internal/speech"
	"github.com/sandeepkv93/freedom/internal/views"
)

type ClockEventMsg struct {
	Event countdown.Event
}

type EffectFrameMsg struct {
	Frame celebration.Frame
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

func waitForClockEventCmd(ch <-chan countdown.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ClockEventMsg{Event: ev}
	}
}

func waitForFrameCmd(ch <-chan celebration.Frame) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		frame, ok := <-ch
		if !ok {
			return nil
		}
		return EffectFrameMsg{Frame: frame}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.initCmd, waitForClockEventCmd(m.events), waitForFrameCmd(m.frames))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			if typed.String() == "ctrl+c" {
				m.Quitting = true
				return m, tea.Quit
			}
			return m.handlePaletteKey(typed), nil
		}

		switch typed.String() {
		case m.Keys.Palette:
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.Focus()
			m.commandInput.SetValue("")
			m.Status = StatusBar{Text: "command palette active", IsError: false}
			return m, nil
		case m.Keys.TestVoice:
			if m.Phase == model.PhaseFinished {
				return m, nil
			}
			res, err := m.testVoice()
			m.applyResult(res.Message, err)
			return m, nil
		case m.Keys.Mute:
			res, err := m.setMuted(!m.muted())
			m.applyResult(res.Message, err)
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown", IsError: false}
			} else {
				m.Status = StatusBar{Text: "help hidden", IsError: false}
			}
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			m.logger.Info("quit requested")
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		if w := typed.Width - 20; w > 10 && w < 60 {
			m.reminderProgress.Width = w
		}
		return m, nil
	case spinner.TickMsg:
		if m.Celebrating {
			var cmd tea.Cmd
			m.celebrateSpinner, cmd = m.celebrateSpinner.Update(typed)
			return m, cmd
		}
		return m, nil
	case ClockEventMsg:
		cmd := m.onClockEvent(typed.Event)
		return m, tea.Batch(cmd, waitForClockEventCmd(m.events))
	case EffectFrameMsg:
		m.Effects = typed.Frame.Effects
		if typed.Frame.Done {
			m.Celebrating = false
			m.Effects = nil
			m.Status = StatusBar{Text: "celebration complete", IsError: false}
		}
		return m, waitForFrameCmd(m.frames)
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
			m.logger.Warn("app error", zap.Error(typed.Err))
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) onClockEvent(ev countdown.Event) tea.Cmd {
	switch ev.Type {
	case countdown.EventTick:
		m.Remaining = ev.Remaining
		m.Target = ev.Target
		if ev.Phase == model.PhaseFinished {
			return m.finish()
		}
	case countdown.EventReminder:
		m.ReminderLog = append(m.ReminderLog, ReminderEntry{At: ev.At, Message: ev.Message, Rule: ev.Rule})
		if len(m.ReminderLog) > maxReminderLog {
			m.ReminderLog = m.ReminderLog[len(m.ReminderLog)-maxReminderLog:]
		}
		m.Status = StatusBar{Text: "reminder: " + ev.Message, IsError: false}
		m.notify("Reminder", ev.Message, "info")
	case countdown.EventFinished:
		return m.finish()
	}
	return nil
}

// finish switches to the finished screen. Either the last tick or the
// finished event may arrive first.
func (m *Model) finish() tea.Cmd {
	if m.Phase == model.PhaseFinished {
		return nil
	}
	m.Phase = model.PhaseFinished
	m.Remaining = model.RemainingTime{}
	m.Celebrating = true
	m.spawnDecorations()
	m.Status = StatusBar{Text: "time's up", IsError: false}
	m.logger.Info("finished screen shown")
	n := m.notify("Freedom", speech.CompletionMessage, "info")
	cmds := []tea.Cmd{m.celebrateSpinner.Tick}
	if m.DesktopEnabled {
		cmds = append(cmds, sendDesktopCmd(m.notifier, n))
	}
	return tea.Batch(cmds...)
}

func (m *Model) applyResult(message string, err error) {
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return
	}
	m.Status = StatusBar{Text: message, IsError: false}
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	header := "Freedom Countdown! 🚀"
	leftPane := m.renderCountdownView()
	if m.Phase == model.PhaseFinished {
		header = "Freedom!"
		leftPane = m.renderFinishedView()
	}
	rightPane := strings.TrimSpace(strings.Join([]string{
		m.renderCommandPalette(),
		m.renderHelpIfVisible(),
		m.renderReminderLogView(),
	}, "\n\n"))

	return views.RenderApp(views.AppData{
		Header:       header,
		LeftPane:     leftPane,
		RightPane:    rightPane,
		Canvas:       m.renderCanvas(),
		StatusLine:   status,
		Notification: m.renderNotificationsView(),
		Footer: fmt.Sprintf("keys: %s test voice | %s mute | %s cmd | %s help | %s quit",
			m.Keys.TestVoice, m.Keys.Mute, m.Keys.Palette, m.Keys.Help, m.Keys.Quit),
		Width: m.width,
	})
}

func formatTarget(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Mon 15:04")
}
