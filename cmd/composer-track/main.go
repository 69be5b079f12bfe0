package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diatony/composer"
	"github.com/diatony/composer/editor"
	"github.com/diatony/composer/solver"
	"github.com/diatony/composer/version"
)

var outputDir = flag.String("output-dir", "", "directory for generated MIDI files and the solution database")
var printVersion = flag.Bool("version", false, "print version and exit")

func main() {
	flag.Parse()
	if *printVersion {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}

	recoveryFile := ""
	if configDir, err := os.UserConfigDir(); err == nil {
		recoveryFile = filepath.Join(configDir, "DiatonyDawApplication", "composer-track-recovery.yml")
	}

	broker := editor.NewBroker()
	gen, err := editor.NewGenerator(broker, solver.Voicer{}, *outputDir)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	model := editor.NewModel(broker, gen, recoveryFile)
	if flag.NArg() > 0 {
		if !model.LoadProjectFromFile(flag.Arg(0)) {
			fmt.Printf("could not load project %v\n", flag.Arg(0))
			os.Exit(1)
		}
	}

	p := tea.NewProgram(newUI(model), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
	close(broker.FinishedUI)
	if err := model.SaveRecovery(); err != nil {
		fmt.Println("could not save recovery file:", err)
	}
}

type (
	ui struct {
		model *editor.Model

		cursorSection int
		cursorChord   int
		width         int
		height        int
		statusLine    string
	}

	brokerEvent struct{ data any }
	recoveryTick struct{}
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func newUI(model *editor.Model) *ui {
	return &ui{model: model}
}

func (u *ui) Init() tea.Cmd {
	return tea.Batch(waitForEvent(u.model.Broker()), scheduleRecovery())
}

// waitForEvent bridges the broker channels into the bubbletea event loop.
// Messages destined for the model are still delivered as tea messages so
// ProcessMessage runs on the UI goroutine.
func waitForEvent(b *editor.Broker) tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-b.ToModel:
			return brokerEvent{data: msg}
		case v := <-b.ToUI:
			return brokerEvent{data: v}
		case <-b.CloseUI:
			return tea.Quit()
		}
	}
}

func scheduleRecovery() tea.Cmd {
	return tea.Tick(30*time.Second, func(time.Time) tea.Msg { return recoveryTick{} })
}

func (u *ui) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		u.width, u.height = msg.Width, msg.Height
	case recoveryTick:
		if err := u.model.SaveRecovery(); err != nil {
			u.statusLine = err.Error()
		}
		return u, scheduleRecovery()
	case brokerEvent:
		if m, ok := msg.data.(editor.MsgToModel); ok {
			u.model.ProcessMessage(m)
		}
		u.clampCursor()
		return u, waitForEvent(u.model.Broker())
	case tea.KeyMsg:
		return u.handleKey(msg)
	}
	return u, nil
}

func (u *ui) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	u.statusLine = ""
	switch msg.String() {
	case "ctrl+c":
		return u, tea.Quit
	case "q":
		u.model.RequestQuit()
	case "up", "k":
		u.cursorSection--
		u.clampCursor()
		u.model.SelectSection(u.cursorSection)
	case "down", "j":
		u.cursorSection++
		u.clampCursor()
		u.model.SelectSection(u.cursorSection)
	case "left", "h":
		u.cursorChord--
		u.clampCursor()
		u.model.SelectChord(u.cursorSection, u.cursorChord)
	case "right", "l":
		u.cursorChord++
		u.clampCursor()
		u.model.SelectChord(u.cursorSection, u.cursorChord)
	case "a":
		count := u.model.Piece().SectionCount()
		u.model.AddNewSection(fmt.Sprintf("Section %d", count+1), composer.Tonality{Major: true})
		u.cursorSection = count
		u.cursorChord = 0
	case "d":
		u.model.RemoveSection(u.cursorSection)
		u.clampCursor()
	case "x":
		u.model.RemoveChordFromSection(u.cursorSection, u.cursorChord)
		u.clampCursor()
	case "1", "2", "3", "4", "5", "6", "7":
		degree := composer.Degree(int(msg.String()[0] - '1'))
		u.model.AddChordToSection(u.cursorSection, degree, composer.QualityAuto, composer.Fundamental)
		if s, err := u.model.Piece().Section(u.cursorSection); err == nil {
			u.cursorChord = s.Progression().Size() - 1
		}
	case "g":
		u.model.StartGeneration()
	case "u":
		u.model.Undo()
	case "r":
		u.model.Redo()
	case "esc":
		u.model.ClearSelection()
	case "ctrl+s":
		if err := u.model.SaveProjectToFile(""); err != nil {
			u.statusLine = err.Error()
		}
	}
	return u, nil
}

func (u *ui) clampCursor() {
	p := u.model.Piece()
	if u.cursorSection >= p.SectionCount() {
		u.cursorSection = p.SectionCount() - 1
	}
	if u.cursorSection < 0 {
		u.cursorSection = 0
	}
	size := 0
	if s, err := p.Section(u.cursorSection); err == nil {
		size = s.Progression().Size()
	}
	if u.cursorChord >= size {
		u.cursorChord = size - 1
	}
	if u.cursorChord < 0 {
		u.cursorChord = 0
	}
}

func (u *ui) View() string {
	p := u.model.Piece()
	var b []string
	b = append(b, titleStyle.Render(p.Title()))
	for i := 0; i < p.SectionCount(); i++ {
		s, err := p.Section(i)
		if err != nil {
			continue
		}
		line := fmt.Sprintf("%s [%s]  %s", s.Name(), s.Tonality(), u.renderChords(s, i))
		if i == u.cursorSection {
			line = selectedStyle.Render(line)
		}
		b = append(b, line)
		if i < p.ModulationCount() {
			if mod, err := p.Modulation(i); err == nil {
				b = append(b, dimStyle.Render(fmt.Sprintf("  ~ %s (%s)", mod.Name(), mod.Type())))
			}
		}
	}
	if p.SectionCount() == 0 {
		b = append(b, dimStyle.Render("empty piece; press a to add a section"))
	}
	b = append(b, "")
	b = append(b, u.renderStatus())
	b = append(b, dimStyle.Render("a add section  1-7 add chord  d/x remove  g generate  u/r undo/redo  q quit"))
	return lipgloss.JoinVertical(lipgloss.Left, b...)
}

func (u *ui) renderChords(s composer.Section, sectionIdx int) string {
	prog := s.Progression()
	out := ""
	for c := 0; c < prog.Size(); c++ {
		chord, err := prog.Chord(c)
		if err != nil {
			continue
		}
		cell := chord.Degree().String()
		if sectionIdx == u.cursorSection && c == u.cursorChord &&
			u.model.Selection().Kind == editor.SelectChord {
			cell = selectedStyle.Render(cell)
		}
		if out != "" {
			out += " "
		}
		out += cell
	}
	return out
}

func (u *ui) renderStatus() string {
	if u.statusLine != "" {
		return errorStyle.Render(u.statusLine)
	}
	switch u.model.GenerationStatus() {
	case editor.StatusGenerating:
		return "generating..."
	case editor.StatusCompleted:
		return okStyle.Render("wrote " + u.model.MIDIFilePath())
	case editor.StatusWarning:
		return errorStyle.Render(u.model.GenerationError())
	case editor.StatusError:
		return errorStyle.Render(u.model.GenerationError())
	}
	return ""
}
