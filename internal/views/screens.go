package views

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type CountdownPanelData struct {
	Subtitle     string
	Hours        int
	Minutes      int
	Seconds      int
	ProgressView string
	NextReminder string
	Muted        bool
}

type FinishedPanelData struct {
	Banner      string
	Card        string
	SpinnerView string
	Celebrating bool
}

type HelpPanelData struct {
	Phase    string
	Bindings []string
	HelpView string
}

type Sprite struct {
	X     float64
	Y     float64
	Glyph string
	Color string
}

var (
	bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffeaa7"))
	digitStyle  = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#45b7d1")).
			Padding(0, 2)
	unitStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(8).Align(lipgloss.Center)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func RenderCountdownPanel(data CountdownPanelData) string {
	units := []struct {
		value int
		label string
	}{
		{data.Hours, "Hours"},
		{data.Minutes, "Minutes"},
		{data.Seconds, "Seconds"},
	}
	cells := make([]string, 0, len(units))
	for _, u := range units {
		cells = append(cells, lipgloss.JoinVertical(lipgloss.Center,
			digitStyle.Render(fmt.Sprintf("%02d", u.value)),
			unitStyle.Render(u.label),
		))
	}

	var b strings.Builder
	b.WriteString(data.Subtitle + "\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...) + "\n\n")
	if data.ProgressView != "" {
		b.WriteString(data.ProgressView + "\n")
	}
	if data.NextReminder != "" {
		b.WriteString("next reminder: " + data.NextReminder + "\n")
	}
	voice := "voice: on"
	if data.Muted {
		voice = mutedStyle.Render("voice: muted")
	}
	b.WriteString(voice + "\n")
	b.WriteString("actions: [v]test voice [m]mute")
	return b.String()
}

func RenderFinishedPanel(data FinishedPanelData) string {
	var b strings.Builder
	b.WriteString(bannerStyle.Render(data.Banner) + "\n\n")
	b.WriteString(data.Card)
	if data.Celebrating && data.SpinnerView != "" {
		b.WriteString("\n\n" + data.SpinnerView + " celebrating")
	}
	return b.String()
}

func RenderCanvas(width, height int, sprites []Sprite) string {
	if width <= 0 || height <= 0 || len(sprites) == 0 {
		return ""
	}
	grid := make([][]string, height)
	for y := range grid {
		grid[y] = make([]string, width)
		for x := range grid[y] {
			grid[y][x] = " "
		}
	}

	for _, s := range sprites {
		x := cell(s.X, width)
		y := cell(s.Y, height)
		glyph := s.Glyph
		if s.Color != "" {
			glyph = lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color)).Render(glyph)
		}
		w := lipgloss.Width(s.Glyph)
		if w > 1 && x+w > width {
			x = width - w
		}
		if x < 0 {
			continue
		}
		grid[y][x] = glyph
		for i := 1; i < w && x+i < width; i++ {
			grid[y][x+i] = ""
		}
	}

	rows := make([]string, height)
	for y := range grid {
		rows[y] = strings.Join(grid[y], "")
	}
	return strings.Join(rows, "\n")
}

func cell(pct float64, size int) int {
	idx := int(math.Floor(pct / 100 * float64(size)))
	if idx < 0 {
		return 0
	}
	if idx >= size {
		return size - 1
	}
	return idx
}

func RenderCommandPalette(active bool, input string, names []string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s\navailable: /%s", input, strings.Join(names, " /"))
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderReminderLog(entries []string) string {
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("reminders:\n")
	for _, e := range entries {
		b.WriteString("- " + e + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s\n%s\n%s",
		strings.ToLower(data.Phase),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}
