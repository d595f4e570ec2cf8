// Package save implements the line-oriented save format and the save
// directory that holds one file per save.
package save

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/nathoo/anatolia/engine/state"
	"github.com/nathoo/anatolia/engine/world"
	"github.com/nathoo/anatolia/types"
)

var (
	// ErrMalformed is returned when a save file does not follow the format.
	ErrMalformed = errors.New("malformed save file")
	// ErrUnknownLocation is returned when a save points at an empty coordinate.
	ErrUnknownLocation = errors.New("save references an unknown location")
)

// QuestEntry is one quest line.
type QuestEntry struct {
	Name string
	Done bool
}

// Record is the flattened projection of the player that goes to disk.
type Record struct {
	Name      string
	Coord     types.Coordinate
	Wisdom    int
	Artifacts []string
	Quests    []QuestEntry
}

// FromState captures the player's current state. Quests are sorted by name
// so the output is stable.
func FromState(s *state.State) (Record, error) {
	p := s.Player
	if p.Location == nil {
		return Record{}, errors.New("player has no current location")
	}
	rec := Record{
		Name:      p.Name,
		Coord:     p.Location.Coord,
		Wisdom:    p.Wisdom,
		Artifacts: append([]string(nil), p.Artifacts...),
	}
	names := make([]string, 0, len(p.Quests))
	for name := range p.Quests {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		rec.Quests = append(rec.Quests, QuestEntry{Name: name, Done: p.Quests[name]})
	}
	return rec, nil
}

// Encode writes rec in the save format.
func Encode(w io.Writer, rec Record) error {
	fields := append([]string{rec.Name}, rec.Artifacts...)
	for _, q := range rec.Quests {
		fields = append(fields, q.Name)
	}
	for _, f := range fields {
		if strings.ContainsAny(f, "\r\n") {
			return fmt.Errorf("field %q contains a line break", f)
		}
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, rec.Name)
	fmt.Fprintf(bw, "%d,%d\n", rec.Coord.X, rec.Coord.Y)
	fmt.Fprintln(bw, rec.Wisdom)
	fmt.Fprintln(bw, len(rec.Artifacts))
	for _, a := range rec.Artifacts {
		fmt.Fprintln(bw, a)
	}
	fmt.Fprintln(bw, len(rec.Quests))
	for _, q := range rec.Quests {
		fmt.Fprintf(bw, "%s,%t\n", q.Name, q.Done)
	}
	return bw.Flush()
}

// lineReader hands out lines and remembers the line number for errors.
type lineReader struct {
	sc   *bufio.Scanner
	line int
}

func (lr *lineReader) next(what string) (string, error) {
	if !lr.sc.Scan() {
		if err := lr.sc.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("%w: line %d: missing %s", ErrMalformed, lr.line+1, what)
	}
	lr.line++
	return strings.TrimSuffix(lr.sc.Text(), "\r"), nil
}

func (lr *lineReader) count(what string) (int, error) {
	text, err := lr.next(what)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: line %d: bad %s %q", ErrMalformed, lr.line, what, text)
	}
	return n, nil
}

// maxPrealloc bounds slice capacity taken from counts in the file; larger
// counts still decode, growing by append until the lines run out.
const maxPrealloc = 64

// Decode reads a record. Any malformed or missing line fails the whole decode.
func Decode(r io.Reader) (Record, error) {
	lr := &lineReader{sc: bufio.NewScanner(r)}
	var rec Record

	name, err := lr.next("player name")
	if err != nil {
		return Record{}, err
	}
	rec.Name = name

	coordText, err := lr.next("coordinate")
	if err != nil {
		return Record{}, err
	}
	rec.Coord, err = parseCoord(coordText)
	if err != nil {
		return Record{}, fmt.Errorf("%w: line %d: %v", ErrMalformed, lr.line, err)
	}

	if rec.Wisdom, err = lr.count("wisdom points"); err != nil {
		return Record{}, err
	}

	n, err := lr.count("artifact count")
	if err != nil {
		return Record{}, err
	}
	rec.Artifacts = make([]string, 0, min(n, maxPrealloc))
	for i := 0; i < n; i++ {
		a, err := lr.next("artifact")
		if err != nil {
			return Record{}, err
		}
		rec.Artifacts = append(rec.Artifacts, a)
	}

	m, err := lr.count("quest count")
	if err != nil {
		return Record{}, err
	}
	rec.Quests = make([]QuestEntry, 0, min(m, maxPrealloc))
	for i := 0; i < m; i++ {
		text, err := lr.next("quest")
		if err != nil {
			return Record{}, err
		}
		cut := strings.LastIndex(text, ",")
		if cut < 0 {
			return Record{}, fmt.Errorf("%w: line %d: quest %q has no state", ErrMalformed, lr.line, text)
		}
		done, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(text[cut+1:])))
		if err != nil {
			return Record{}, fmt.Errorf("%w: line %d: quest state %q", ErrMalformed, lr.line, text[cut+1:])
		}
		rec.Quests = append(rec.Quests, QuestEntry{Name: text[:cut], Done: done})
	}

	return rec, nil
}

func parseCoord(text string) (types.Coordinate, error) {
	xs, ys, ok := strings.Cut(text, ",")
	if !ok {
		return types.Coordinate{}, fmt.Errorf("coordinate %q is not <x>,<y>", text)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return types.Coordinate{}, fmt.Errorf("coordinate x %q: %w", xs, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return types.Coordinate{}, fmt.Errorf("coordinate y %q: %w", ys, err)
	}
	return types.Coordinate{X: x, Y: y}, nil
}

// Apply replaces the player's state with rec. The coordinate is resolved
// first; on error the state is left untouched.
func Apply(s *state.State, m *world.Map, rec Record) error {
	loc, ok := m.Locate(rec.Coord)
	if !ok {
		return fmt.Errorf("%w: (%d, %d)", ErrUnknownLocation, rec.Coord.X, rec.Coord.Y)
	}

	p := state.Player{
		Name:      rec.Name,
		Location:  loc,
		Wisdom:    rec.Wisdom,
		Artifacts: []string{},
		Quests:    map[string]bool{},
	}
	for _, a := range rec.Artifacts {
		p.AddArtifact(a)
	}
	for _, q := range rec.Quests {
		p.Quests[q.Name] = q.Done
	}

	s.Player = p
	state.RebuildRedeemed(s, m)
	return nil
}
