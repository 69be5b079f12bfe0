package editor

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/diatony/composer"
	"github.com/diatony/composer/solver"
)

type (
	// Generator runs the harmonization solver in a background goroutine.
	// At most one generation is in flight at a time; results are delivered
	// to the model through the broker, never by calling into the model
	// directly.
	Generator struct {
		broker  *Broker
		solver  solver.Solver
		baseDir string
		history *SolutionStore

		generating atomic.Bool

		mu       sync.Mutex
		lastErr  string
		lastPath string
	}

	// GenerationResult is the broker message a finished generation sends
	// back to the model goroutine.
	GenerationResult struct {
		OK       bool
		MIDIPath string
		Message  string
	}
)

// NewGenerator creates a generator writing its artifacts under baseDir. An
// empty baseDir resolves to the Solutions directory inside the user config
// directory.
func NewGenerator(broker *Broker, s solver.Solver, baseDir string) (*Generator, error) {
	if baseDir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolving config dir: %w", err)
		}
		baseDir = filepath.Join(configDir, "DiatonyDawApplication", "Solutions")
	}
	return &Generator{
		broker:  broker,
		solver:  s,
		baseDir: baseDir,
		history: NewSolutionStore(filepath.Join(baseDir, "solutions_db.json")),
	}, nil
}

func (g *Generator) History() *SolutionStore { return g.history }

// Start launches a generation for the given piece snapshot. Returns false
// without doing anything when a generation is already running.
func (g *Generator) Start(data composer.PieceData) bool {
	if g.solver == nil {
		return false
	}
	if !g.generating.CompareAndSwap(false, true) {
		return false
	}
	go g.run(data)
	return true
}

// IsReady reports whether a Start call would be accepted right now.
func (g *Generator) IsReady() bool { return g.solver != nil && !g.generating.Load() }

func (g *Generator) IsGenerating() bool { return g.generating.Load() }

func (g *Generator) LastError() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastErr
}

func (g *Generator) LastMIDIPath() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastPath
}

// Reset clears the stored outcome of the previous run. Refused while a
// generation is in flight.
func (g *Generator) Reset() bool {
	if g.generating.Load() {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastErr = ""
	g.lastPath = ""
	return true
}

func (g *Generator) run(data composer.PieceData) {
	var result GenerationResult
	defer func() {
		if r := recover(); r != nil {
			result = GenerationResult{Message: fmt.Sprintf("solver panic: %v", r)}
		}
		g.mu.Lock()
		if result.OK {
			g.lastErr = ""
			g.lastPath = result.MIDIPath
		} else {
			g.lastErr = result.Message
		}
		g.mu.Unlock()
		// The flag drops before the message goes out, so a restart
		// triggered by the result callback succeeds.
		g.generating.Store(false)
		TrySend(g.broker.ToModel, MsgToModel{Data: result})
	}()
	result = g.generate(data)
}

func (g *Generator) generate(data composer.PieceData) GenerationResult {
	params, err := solver.BuildPieceParams(data)
	if err != nil {
		return GenerationResult{Message: err.Error()}
	}
	sol, err := g.solver.Solve(params)
	if err != nil {
		return GenerationResult{Message: err.Error()}
	}
	if sol == nil {
		return GenerationResult{Message: "solver returned no solution"}
	}
	midi, err := sol.MIDI()
	if err != nil {
		return GenerationResult{Message: fmt.Sprintf("rendering MIDI: %v", err)}
	}
	midiDir := filepath.Join(g.baseDir, "MidiFiles")
	if err := os.MkdirAll(midiDir, 0755); err != nil {
		return GenerationResult{Message: fmt.Sprintf("creating output dir: %v", err)}
	}
	name := "solfromjuce_" + time.Now().Format("20060102_150405")
	path := filepath.Join(midiDir, name+".mid")
	if err := os.WriteFile(path, midi, 0644); err != nil {
		return GenerationResult{Message: fmt.Sprintf("writing MIDI file: %v", err)}
	}
	if err := g.history.Append(SolutionRecord{
		Name:      name,
		Path:      path,
		Timestamp: time.Now().Format(time.RFC3339),
	}); err != nil {
		// The MIDI file exists even when the history write fails; keep
		// the result usable and report the path.
		return GenerationResult{OK: true, MIDIPath: path, Message: fmt.Sprintf("recording history: %v", err)}
	}
	return GenerationResult{OK: true, MIDIPath: path}
}
