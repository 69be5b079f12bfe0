package solver

import (
	"bytes"
	"fmt"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	ticksPerQuarter = 960
	chordTicks      = 4 * ticksPerQuarter // one whole note per chord
	velocity        = 90
)

var voiceNames = [NumVoices]string{"Bass", "Tenor", "Alto", "Soprano"}

// MIDI renders the solution as a format-1 standard MIDI file, one track per
// voice, one whole note per chord.
func (s *Solution) MIDI() ([]byte, error) {
	if s == nil || len(s.Voices[Bass]) == 0 {
		return nil, fmt.Errorf("empty solution")
	}
	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(ticksPerQuarter)
	bpm := s.BPM
	if bpm <= 0 {
		bpm = 120
	}
	for v := NumVoices - 1; v >= 0; v-- {
		var tr smf.Track
		tr.Add(0, smf.MetaTrackSequenceName(voiceNames[v]))
		if v == NumVoices-1 {
			tr.Add(0, smf.MetaTempo(float64(bpm)))
			tr.Add(0, smf.MetaMeter(4, 4))
		}
		for _, pitch := range s.Voices[v] {
			tr.Add(0, midi.NoteOn(0, uint8(pitch), velocity))
			tr.Add(chordTicks, midi.NoteOff(0, uint8(pitch)))
		}
		tr.Close(0)
		if err := sm.Add(tr); err != nil {
			return nil, fmt.Errorf("assembling MIDI file: %w", err)
		}
	}
	var buf bytes.Buffer
	if _, err := sm.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("writing MIDI file: %w", err)
	}
	return buf.Bytes(), nil
}
