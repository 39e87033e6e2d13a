package spinner

import (
	"os"

	spn "github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

type textMsg string

type stopMsg struct{}

// Spinner is a status line redrawn in place. Text and Stop may be called from any goroutine.
type Spinner struct {
	model       spn.Model
	text        string
	width       int
	stopping    bool
	interrupted bool

	program *tea.Program
	done    chan struct{}
}

// Interactive reports whether stdout is a terminal a spinner can draw on
func Interactive() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (s *Spinner) Init() tea.Cmd {
	return s.model.Tick
}

func (s *Spinner) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stopMsg:
		s.stopping = true
		return s, tea.Quit
	case textMsg:
		s.text = string(msg)
		return s, nil
	case tea.WindowSizeMsg:
		s.width = msg.Width
		return s, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			s.stopping, s.interrupted = true, true
			return s, tea.Quit
		}
		return s, nil
	}
	var cmd tea.Cmd
	s.model, cmd = s.model.Update(msg)
	return s, cmd
}

func (s *Spinner) View() string {
	if s.stopping {
		return ""
	}
	line := []rune(s.model.View() + " " + s.text)
	if s.width > 0 && len(line) >= s.width {
		line = line[:s.width-1]
	}
	return string(line)
}

// Text replaces the status text
func (s *Spinner) Text(t string) {
	if s == nil {
		return
	}
	s.program.Send(textMsg(t))
}

// Stop clears the line and waits for the program to exit
func (s *Spinner) Stop() {
	if s == nil {
		return
	}
	s.program.Send(stopMsg{})
	<-s.done
}

// Start shows a spinner with text on interactive terminals; elsewhere it returns nil.
// Ctrl-C exits the process with status 130.
func Start(text string) *Spinner {
	if !Interactive() {
		return nil
	}
	model := spn.New()
	model.Spinner = spn.Dot
	s := &Spinner{model: model, text: text, done: make(chan struct{})}
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		s.width = width
	}
	s.program = tea.NewProgram(s)
	go func() {
		defer close(s.done)
		s.program.Run()
		if s.interrupted {
			os.Exit(130)
		}
	}()
	return s
}
