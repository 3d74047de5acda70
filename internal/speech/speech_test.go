package speech

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sandeepkv93/freedom/internal/model"
)

type recordingSpeaker struct {
	mu     sync.Mutex
	spoken []Utterance
	err    error
	panics bool
}

func (s *recordingSpeaker) Speak(u Utterance) error {
	if s.panics {
		panic("backend exploded")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spoken = append(s.spoken, u)
	return s.err
}

func remaining(d time.Duration) model.RemainingTime {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	return model.ComputeRemaining(now.Add(d), now)
}

func TestReminderMessageUsesTwoLargestUnits(t *testing.T) {
	assert.Equal(t,
		"Time remaining to leave the office: 2 hours and 5 minutes",
		ReminderMessage(remaining(2*time.Hour+5*time.Minute+30*time.Second)))
	assert.Equal(t,
		"Time remaining to leave the office: 15 minutes and 0 seconds",
		ReminderMessage(remaining(15*time.Minute)))
	assert.Equal(t, "Only 42 seconds left!", ReminderMessage(remaining(42*time.Second)))
	assert.Equal(t, "Only 0 seconds left!", ReminderMessage(model.RemainingTime{}))
}

func TestAnnounceRemainingUsesReminderVoice(t *testing.T) {
	speaker := &recordingSpeaker{}
	announcer := NewAnnouncer(speaker, nil)

	msg := announcer.AnnounceRemaining(remaining(4 * time.Minute))
	require.Len(t, speaker.spoken, 1)
	got := speaker.spoken[0]
	assert.Equal(t, msg, got.Text)
	assert.Equal(t, 0.9, got.Rate)
	assert.Equal(t, 1.1, got.Pitch)
	assert.Equal(t, 0.8, got.Volume)
}

func TestAnnounceCompletionUsesCompletionVoice(t *testing.T) {
	speaker := &recordingSpeaker{}
	NewAnnouncer(speaker, nil).AnnounceCompletion()

	require.Len(t, speaker.spoken, 1)
	assert.Equal(t, Utterance{Text: CompletionMessage, Rate: 1.2, Pitch: 1.3, Volume: 1.0}, speaker.spoken[0])
}

func TestAnnounceSwallowsErrorsAndPanics(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger := zap.New(core)

	failing := NewAnnouncer(&recordingSpeaker{err: errors.New("device busy")}, logger)
	assert.NotPanics(t, func() { failing.AnnounceCompletion() })

	exploding := NewAnnouncer(&recordingSpeaker{panics: true}, logger)
	assert.NotPanics(t, func() { exploding.AnnounceRemaining(remaining(time.Minute)) })

	assert.Equal(t, 1, logs.FilterMessage("speech failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("speech backend panicked").Len())
}

func TestAnnouncerMute(t *testing.T) {
	speaker := &recordingSpeaker{}
	announcer := NewAnnouncer(speaker, nil)

	announcer.SetMuted(true)
	assert.True(t, announcer.Muted())
	msg := announcer.AnnounceRemaining(remaining(3 * time.Minute))
	assert.NotEmpty(t, msg)
	assert.Empty(t, speaker.spoken)

	announcer.SetMuted(false)
	announcer.AnnounceCompletion()
	assert.Len(t, speaker.spoken, 1)
}

func TestNilSpeakerIsNoop(t *testing.T) {
	announcer := NewAnnouncer(nil, nil)
	assert.NotPanics(t, func() { announcer.AnnounceCompletion() })
}

func TestDetect(t *testing.T) {
	available := map[string]string{"espeak": "/usr/bin/espeak", "say": "/usr/bin/say"}
	lookPath := func(name string) (string, error) {
		if p, ok := available[name]; ok {
			return p, nil
		}
		return "", exec.ErrNotFound
	}

	backend, path, err := Detect(BackendAuto, "linux", lookPath)
	require.NoError(t, err)
	assert.Equal(t, BackendEspeak, backend)
	assert.Equal(t, "/usr/bin/espeak", path)

	backend, _, err = Detect(BackendAuto, "darwin", lookPath)
	require.NoError(t, err)
	assert.Equal(t, BackendSay, backend)

	_, _, err = Detect(BackendAuto, "windows", lookPath)
	assert.ErrorIs(t, err, ErrNoBackend)

	_, _, err = Detect(BackendSpdSay, "linux", lookPath)
	assert.ErrorIs(t, err, ErrNoBackend)

	_, _, err = Detect(BackendNone, "linux", lookPath)
	assert.ErrorIs(t, err, ErrNoBackend)

	_, _, err = Detect(Backend("festival"), "linux", lookPath)
	assert.ErrorIs(t, err, ErrNoBackend)
}

func TestArgsMapVoiceSettings(t *testing.T) {
	u := Utterance{Text: "hello", Rate: 0.9, Pitch: 1.1, Volume: 0.8}

	assert.Equal(t, []string{"-s", "158", "-p", "55", "-a", "80", "hello"}, Args(BackendEspeak, u))
	assert.Equal(t, []string{"-s", "158", "-p", "55", "-a", "80", "hello"}, Args(BackendEspeakNG, u))
	assert.Equal(t, []string{"-r", "-10", "-p", "10", "-i", "-20", "hello"}, Args(BackendSpdSay, u))
	assert.Equal(t, []string{"-r", "158", "hello"}, Args(BackendSay, u))

	loud := Utterance{Text: "x", Rate: 10, Pitch: 10, Volume: 10}
	assert.Equal(t, []string{"-s", "450", "-p", "99", "-a", "200", "x"}, Args(BackendEspeak, loud))
}

func TestExecSpeakerLogsStartFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	s := newExecSpeaker(BackendEspeak, "/nonexistent/espeak", exec.Command, zap.New(core))
	require.NoError(t, s.Speak(Utterance{Text: "hello", Rate: 1, Pitch: 1, Volume: 1}))
	assert.NoError(t, s.Speak(Utterance{Text: "  "}))

	require.Eventually(t, func() bool {
		return logs.FilterMessage("speech failed").Len() == 1
	}, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Speak(Utterance{Text: "late"}), ErrClosed)
	assert.NoError(t, s.Close())
}

func TestExecSpeakerPlaysOneAtATime(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	out := filepath.Join(t.TempDir(), "played")
	command := func(_ string, args ...string) *exec.Cmd {
		text := args[len(args)-1]
		script := fmt.Sprintf("echo start %s >> %s; sleep 0.05; echo end %s >> %s", text, out, text, out)
		return exec.Command(sh, "-c", script)
	}
	s := newExecSpeaker(BackendEspeak, sh, command, zap.NewNop())

	start := time.Now()
	for _, text := range []string{"a", "b", "c"} {
		require.NoError(t, s.Speak(Utterance{Text: text, Rate: 1, Pitch: 1, Volume: 1}))
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond, "Speak must not wait for playback")

	require.Eventually(t, func() bool {
		data, _ := os.ReadFile(out)
		return strings.Count(string(data), "end") == 3
	}, 3*time.Second, 10*time.Millisecond)
	require.NoError(t, s.Close())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"start a", "end a", "start b", "end b", "start c", "end c"},
		strings.Split(strings.TrimSpace(string(data)), "\n"))
}

func TestExecSpeakerRejectsWhenBacklogFull(t *testing.T) {
	release := make(chan struct{})
	command := func(string, ...string) *exec.Cmd {
		<-release
		return exec.Command("/nonexistent/espeak")
	}
	s := newExecSpeaker(BackendEspeak, "espeak", command, zap.NewNop())

	var err error
	for i := 0; i <= speechBacklog+1 && err == nil; i++ {
		err = s.Speak(Utterance{Text: "queued", Rate: 1, Pitch: 1, Volume: 1})
	}
	assert.ErrorIs(t, err, ErrQueueFull)
	close(release)
	require.NoError(t, s.Close())
}
