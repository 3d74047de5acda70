package update

import (
	"math/rand"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sandeepkv93/freedom/internal/celebration"
	"github.com/sandeepkv93/freedom/internal/countdown"
	"github.com/sandeepkv93/freedom/internal/model"
	"github.com/sandeepkv93/freedom/internal/scheduler"
)

const (
	maxReminderLog   = 20
	maxNotifications = 40
	decorationCount  = 10
)

var decorationGlyphs = []string{"🎊", "🎉", "✨", "🎈", "🥳"}

type Clock interface {
	Subscribe(buffer int) <-chan countdown.Event
	Snapshot() countdown.Snapshot
	TestVoice() string
	Config() model.CountdownConfig
}

type Celebration interface {
	Subscribe(buffer int) <-chan celebration.Frame
}

type VoiceControl interface {
	SetMuted(bool)
	Muted() bool
}

type Deps struct {
	Clock          Clock
	Celebration    Celebration
	Voice          VoiceControl
	Notifier       DesktopNotifier
	DesktopEnabled bool
	EventBuffer    int
	Logger         *zap.Logger
}

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	TestVoice string
	Mute      string
	Palette   string
	Help      string
	Quit      string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type ReminderEntry struct {
	At      time.Time
	Message string
	Rule    scheduler.ReminderRule
}

type Decoration struct {
	X     float64
	Y     float64
	Glyph string
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type Model struct {
	Config      model.CountdownConfig
	Phase       model.Phase
	Remaining   model.RemainingTime
	Target      time.Time
	Effects     []model.CelebrationEffect
	Celebrating bool
	Decorations []Decoration

	ReminderLog   []ReminderEntry
	Palette       CommandPaletteState
	HelpVisible   bool
	Notifications []Notification
	Status        StatusBar
	Keys          GlobalKeyMap
	Quitting      bool
	LastError     error

	DesktopEnabled bool
	notifier       DesktopNotifier
	clock          Clock
	voice          VoiceControl
	logger         *zap.Logger
	events         <-chan countdown.Event
	frames         <-chan celebration.Frame
	rng            *rand.Rand
	initCmd        tea.Cmd

	commandInput     textinput.Model
	reminderProgress progress.Model
	celebrateSpinner spinner.Model
	helpModel        help.Model
	width            int
	height           int
}

func NewModel(deps Deps) Model {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Notifier == nil {
		deps.Notifier = NoopDesktopNotifier{}
	}
	if deps.EventBuffer <= 0 {
		deps.EventBuffer = 64
	}

	m := Model{
		Config: model.DefaultCountdownConfig(),
		Phase:  model.PhaseRunning,
		Keys: GlobalKeyMap{
			TestVoice: "v",
			Mute:      "m",
			Palette:   "/",
			Help:      "?",
			Quit:      "q",
		},
		DesktopEnabled: deps.DesktopEnabled,
		notifier:       deps.Notifier,
		clock:          deps.Clock,
		voice:          deps.Voice,
		logger:         deps.Logger,
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	m.initBubbleComponents()
	if deps.Clock != nil {
		m.Config = deps.Clock.Config()
		m.events = deps.Clock.Subscribe(deps.EventBuffer)
		m.applySnapshot(deps.Clock.Snapshot())
	}
	if deps.Celebration != nil {
		m.frames = deps.Celebration.Subscribe(deps.EventBuffer)
	}
	return m
}

func (m *Model) initBubbleComponents() {
	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 64
	m.commandInput.Width = 32

	m.reminderProgress = progress.New(progress.WithDefaultGradient(), progress.WithWidth(40))

	m.celebrateSpinner = spinner.New()
	m.celebrateSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
}

func (m *Model) applySnapshot(s countdown.Snapshot) {
	m.Remaining = s.Remaining
	m.Target = s.Target
	if s.Phase == model.PhaseFinished {
		// The finish already happened; its events were published before this
		// model subscribed. Init runs the follow-up commands.
		m.initCmd = m.finish()
	}
}

func (m *Model) spawnDecorations() {
	m.Decorations = make([]Decoration, 0, decorationCount)
	for i := 0; i < decorationCount; i++ {
		m.Decorations = append(m.Decorations, Decoration{
			X:     m.rng.Float64() * 100,
			Y:     m.rng.Float64() * 100,
			Glyph: decorationGlyphs[m.rng.Intn(len(decorationGlyphs))],
		})
	}
}

func (m Model) muted() bool {
	return m.voice != nil && m.voice.Muted()
}
