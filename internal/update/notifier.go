package update

import (
	"fmt"
	"os/exec"
	"runtime"

	tea "github.com/charmbracelet/bubbletea"
)

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

func sendDesktopCmd(notifier DesktopNotifier, n Notification) tea.Cmd {
	if notifier == nil {
		return nil
	}
	return func() tea.Msg {
		if err := notifier.Send(n); err != nil {
			return AppErrorMsg{Err: fmt.Errorf("desktop notification: %w", err)}
		}
		return nil
	}
}
