package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sandeepkv93/freedom/internal/commands"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed", IsError: false}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.closePalette()
		return m
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Voice: func() (commands.Result, error) {
			return m.testVoice()
		},
		Mute: func() (commands.Result, error) {
			return m.setMuted(true)
		},
		Unmute: func() (commands.Result, error) {
			return m.setMuted(false)
		},
		Status: func() (commands.Result, error) {
			voice := "on"
			if m.muted() {
				voice = "muted"
			}
			return commands.Result{Message: fmt.Sprintf("target %s | remaining %s | phase %s | voice %s | reminders %d",
				m.Config.TargetLabel(), formatClock(m.Remaining), m.Phase, voice, len(m.ReminderLog))}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command Failed", err.Error(), "error")
	} else {
		m.Status = StatusBar{Text: res.Message, IsError: false}
		m.notify("Command", res.Message, "info")
	}

	m.closePalette()
	return m
}

func (m *Model) testVoice() (commands.Result, error) {
	if m.clock == nil {
		return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeHandlerMissing, Message: "countdown not running"}
	}
	message := m.clock.TestVoice()
	if message == "" {
		return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "countdown already finished"}
	}
	if m.muted() {
		return commands.Result{Message: "voice muted: " + message}, nil
	}
	return commands.Result{Message: "test voice: " + message}, nil
}

func (m *Model) setMuted(muted bool) (commands.Result, error) {
	if m.voice == nil {
		return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeHandlerMissing, Message: "voice not configured"}
	}
	m.voice.SetMuted(muted)
	m.logger.Info("voice toggled", zap.Bool("muted", muted))
	if muted {
		return commands.Result{Message: "voice muted"}, nil
	}
	return commands.Result{Message: "voice on"}, nil
}
