// Package gpl reads and writes GIMP palette (.gpl) files.
//
// A palette file starts with a "GIMP Palette" header line, followed by
// optional "Name:" and "Columns:" lines, comment lines beginning with '#',
// and one color per line as three decimal channels with an optional name:
//
//	GIMP Palette
//	Name: Sunset
//	Columns: 4
//	#
//	255 94  77	coral
//	250 208 44	gold
//
// Several ramps may share one file. Each ramp section begins with a
// "# Ramp: <name>" comment line; Parse returns one Palette per section.
package gpl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ironsheep/ramp-tools-mcp/internal/colorspace"
)

// Header is the first line of every GIMP palette file.
const Header = "GIMP Palette"

const sectionPrefix = "# Ramp:"

// ErrInvalidPalette is returned when a palette file cannot be parsed.
var ErrInvalidPalette = errors.New("invalid GIMP palette")

// Entry is one palette color with its optional label.
type Entry struct {
	Color colorspace.RGB
	Name  string
}

// Palette is a named, ordered list of colors.
type Palette struct {
	Name    string
	Columns int
	Entries []Entry
}

// Colors returns the palette colors in file order.
func (p Palette) Colors() []colorspace.RGB {
	out := make([]colorspace.RGB, len(p.Entries))
	for i, e := range p.Entries {
		out[i] = e.Color
	}
	return out
}

// FromColors builds a palette from colors, labelling each entry with its hex.
func FromColors(name string, colors []colorspace.RGB) Palette {
	p := Palette{Name: name, Entries: make([]Entry, len(colors))}
	for i, c := range colors {
		p.Entries[i] = Entry{Color: c, Name: c.Hex()}
	}
	return p
}

// Parse reads a GIMP palette stream.
//
// Returns:
//   - []Palette: one palette per "# Ramp:" section, or a single palette
//     named after the "Name:" header when the file has no sections.
//     Sections without colors are dropped.
//   - error: ErrInvalidPalette if the header is missing, a color row is
//     malformed, or no colors are found at all.
func Parse(r io.Reader) ([]Palette, error) {
	scanner := bufio.NewScanner(r)

	var (
		fileName   string
		columns    int
		palettes   []Palette
		current    *Palette
		lineNumber int
		sawHeader  bool
	)

	flush := func() {
		if current != nil && len(current.Entries) > 0 {
			palettes = append(palettes, *current)
		}
		current = nil
	}

	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())

		if !sawHeader {
			if line == "" {
				continue
			}
			if line != Header {
				return nil, fmt.Errorf("%w: missing %q header", ErrInvalidPalette, Header)
			}
			sawHeader = true
			continue
		}

		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, sectionPrefix):
			flush()
			current = &Palette{
				Name:    strings.TrimSpace(strings.TrimPrefix(line, sectionPrefix)),
				Columns: columns,
			}
			continue
		case line[0] == '#':
			continue
		case strings.HasPrefix(line, "Name:"):
			fileName = strings.TrimSpace(strings.TrimPrefix(line, "Name:"))
			continue
		case strings.HasPrefix(line, "Columns:"):
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Columns:")))
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: line %d: bad column count", ErrInvalidPalette, lineNumber)
			}
			columns = n
			continue
		}

		entry, err := parseEntry(line)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidPalette, lineNumber, err)
		}
		if current == nil {
			current = &Palette{Name: fileName, Columns: columns}
		}
		current.Entries = append(current.Entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read palette: %w", err)
	}
	if !sawHeader {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidPalette)
	}
	flush()

	if len(palettes) == 0 {
		return nil, fmt.Errorf("%w: no colors found", ErrInvalidPalette)
	}
	// A single unnamed section inherits the file name.
	if len(palettes) == 1 && palettes[0].Name == "" {
		palettes[0].Name = fileName
	}
	return palettes, nil
}

// ParseString is Parse over a string and returns the first palette.
func ParseString(s string) (Palette, error) {
	palettes, err := Parse(strings.NewReader(s))
	if err != nil {
		return Palette{}, err
	}
	return palettes[0], nil
}

func parseEntry(line string) (Entry, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return Entry{}, fmt.Errorf("expected R G B, got %q", line)
	}

	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(fields[i])
		if err != nil || v < 0 || v > 255 {
			return Entry{}, fmt.Errorf("channel %q out of range 0-255", fields[i])
		}
		ch[i] = uint8(v)
	}

	return Entry{
		Color: colorspace.RGB{R: ch[0], G: ch[1], B: ch[2]},
		Name:  strings.Join(fields[3:], " "),
	}, nil
}

// Format writes palettes as one GIMP palette file.
//
// A single palette is written as a plain palette file. Two or more are
// written under a "Name: name" header, each preceded by its "# Ramp:"
// section line, so Parse returns them separately.
func Format(w io.Writer, name string, palettes ...Palette) error {
	if len(palettes) == 0 {
		return fmt.Errorf("%w: nothing to write", ErrInvalidPalette)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, Header)

	if len(palettes) == 1 {
		p := palettes[0]
		if p.Name != "" {
			fmt.Fprintf(bw, "Name: %s\n", p.Name)
		}
		writeColumns(bw, p.Columns)
		fmt.Fprintln(bw, "#")
		writeEntries(bw, p.Entries)
		return bw.Flush()
	}

	if name != "" {
		fmt.Fprintf(bw, "Name: %s\n", name)
	}
	writeColumns(bw, palettes[0].Columns)
	fmt.Fprintln(bw, "#")
	for _, p := range palettes {
		fmt.Fprintf(bw, "%s %s\n", sectionPrefix, p.Name)
		writeEntries(bw, p.Entries)
	}
	return bw.Flush()
}

// String renders a single palette with Format.
func (p Palette) String() string {
	var sb strings.Builder
	_ = Format(&sb, "", p)
	return sb.String()
}

func writeColumns(w io.Writer, columns int) {
	if columns > 0 {
		fmt.Fprintf(w, "Columns: %d\n", columns)
	}
}

func writeEntries(w io.Writer, entries []Entry) {
	for _, e := range entries {
		if e.Name != "" {
			fmt.Fprintf(w, "%3d %3d %3d\t%s\n", e.Color.R, e.Color.G, e.Color.B, e.Name)
		} else {
			fmt.Fprintf(w, "%3d %3d %3d\n", e.Color.R, e.Color.G, e.Color.B)
		}
	}
}
