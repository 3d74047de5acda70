package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/freedom/internal/model"
	"github.com/sandeepkv93/freedom/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.globalBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		Phase:    string(m.Phase),
		Bindings: plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	bindings := make([]KeyBinding, 0, 6)
	if m.Phase != model.PhaseFinished {
		bindings = append(bindings, KeyBinding{Key: m.Keys.TestVoice, Action: "test voice"})
	}
	return append(bindings,
		KeyBinding{Key: m.Keys.Mute, Action: "toggle voice"},
		KeyBinding{Key: m.Keys.Palette, Action: "open command palette"},
		KeyBinding{Key: m.Keys.Help, Action: "toggle help panel"},
		KeyBinding{Key: m.Keys.Quit, Action: "quit app"},
	)
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
