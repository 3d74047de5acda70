package update

import (
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/freedom/internal/commands"
	"github.com/sandeepkv93/freedom/internal/scheduler"
	"github.com/sandeepkv93/freedom/internal/speech"
	"github.com/sandeepkv93/freedom/internal/views"
)

const (
	finishedBanner = "🎉 TIME'S UP! 🎉"
	effectGlyph    = "✸"
	canvasHeight   = 8
	canvasWidth    = 60
)

func (m Model) renderCountdownView() string {
	pct, next := reminderWindow(m.Remaining, scheduler.PolicyFrom(m.Config))
	nextLabel := "finish"
	if next > 0 {
		nextLabel = fmt.Sprintf("at %d min left", next)
	}
	subtitle := fmt.Sprintf("Time until %s", m.Config.TargetLabel())
	if target := formatTarget(m.Target); target != "" {
		subtitle = fmt.Sprintf("Time until %s (%s)", m.Config.TargetLabel(), target)
	}
	return views.RenderCountdownPanel(views.CountdownPanelData{
		Subtitle:     subtitle,
		Hours:        m.Remaining.Hours,
		Minutes:      m.Remaining.Minutes,
		Seconds:      m.Remaining.Seconds,
		ProgressView: m.reminderProgress.ViewAs(pct),
		NextReminder: nextLabel,
		Muted:        m.muted(),
	})
}

func (m Model) renderFinishedView() string {
	card := fmt.Sprintf("## %s\n\nThank you for your service! 🚪✨\n", speech.CompletionMessage)
	return views.RenderFinishedPanel(views.FinishedPanelData{
		Banner:      finishedBanner,
		Card:        views.RenderMarkdown(card),
		SpinnerView: m.celebrateSpinner.View(),
		Celebrating: m.Celebrating,
	})
}

func (m Model) renderCanvas() string {
	sprites := make([]views.Sprite, 0, len(m.Effects)+len(m.Decorations))
	for _, d := range m.Decorations {
		sprites = append(sprites, views.Sprite{X: d.X, Y: d.Y, Glyph: d.Glyph})
	}
	for _, e := range m.Effects {
		sprites = append(sprites, views.Sprite{X: e.X, Y: e.Y, Glyph: effectGlyph, Color: e.Color})
	}
	width := canvasWidth
	if m.width > 20 {
		width = m.width - 4
	}
	return views.RenderCanvas(width, canvasHeight, sprites)
}

func (m Model) renderCommandPalette() string {
	names := make([]string, 0, len(commands.Names()))
	for _, n := range commands.Names() {
		names = append(names, string(n))
	}
	return views.RenderCommandPalette(m.Palette.Active, m.Palette.Input, names)
}

func (m Model) renderReminderLogView() string {
	const shown = 5
	entries := m.ReminderLog
	if len(entries) > shown {
		entries = entries[len(entries)-shown:]
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%s %s", e.At.Format("15:04:05"), e.Message))
	}
	return views.RenderReminderLog(lines)
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Level, n.Body)
}

func (m *Model) notify(title, body, level string) Notification {
	n := Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    time.Now().UTC(),
	}
	if strings.TrimSpace(body) == "" {
		return n
	}
	m.Notifications = append(m.Notifications, n)
	if len(m.Notifications) > maxNotifications {
		m.Notifications = m.Notifications[len(m.Notifications)-maxNotifications:]
	}
	return n
}
