package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ironsheep/ramp-tools-mcp/internal/colorspace"
	"github.com/ironsheep/ramp-tools-mcp/internal/editor"
	"github.com/ironsheep/ramp-tools-mcp/internal/gradient"
	"github.com/ironsheep/ramp-tools-mcp/internal/picker"
	"github.com/ironsheep/ramp-tools-mcp/internal/sampling"
	"github.com/ironsheep/ramp-tools-mcp/internal/store"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit a ramp from a script of picker and sampling commands",
	Long: `Read editing commands from stdin, one per line, and print the resulting
ramp at the end. Edits are applied the way an interactive editor applies
them: hex input and sampling settings are debounced and range moves are
throttled.

Commands:
  hex <colors>        set the stops from free text, e.g. "navy, #fc0"
  pick <color>        set the picker color
  hue <degrees>       set the picker hue
  sv <s> <v>          set the picker saturation and value (0-100)
  lum <0-100>         set the picker luminance in the active mode
  mode <name>         switch the luminance mode
  add                 add the picker color to the selection
  remove <index>      remove a selected color
  clear               empty the selection
  use                 use the picker selection as the stops
  count <n>           set the sample count
  curve <name>        set the sampling function
  power <p>           set the curve exponent
  range <start> <end> move the sampled window
  print               apply pending edits and print the ramp
  save [name]         apply pending edits and save the ramp to the library

Blank lines and lines starting with '#' are ignored.`,
	Example: `  printf 'pick navy\nadd\npick gold\nadd\nuse\ncount 5\n' | ramp-mcp edit
  ramp-mcp edit --format json < script.txt`,
	RunE: runEdit,
}

func init() {
	editCmd.Flags().String("mode", string(colorspace.DefaultLuminanceMode), "Picker luminance mode (hsv, ciel)")
	editCmd.Flags().StringP("format", "f", "hex", "Output format (hex, json, gpl)")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	modeName, _ := cmd.Flags().GetString("mode")
	format, _ := cmd.Flags().GetString("format")

	mode, err := colorspace.ParseLuminanceMode(modeName)
	if err != nil {
		return err
	}

	// The library is opened on the first save only.
	var st *store.Store
	open := func() (*store.Store, error) {
		if st != nil {
			return st, nil
		}
		var err error
		st, err = openStore(cmd)
		return st, err
	}

	return runEditScript(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), editSession{
		mode:      mode,
		format:    format,
		openStore: open,
	})
}

type editSession struct {
	mode      colorspace.LuminanceMode
	format    string
	openStore func() (*store.Store, error)
}

// runEditScript drives an editor and a picker from the commands in r.
// Recompute failures go to errw and do not stop the script; a malformed
// command does.
func runEditScript(r io.Reader, w, errw io.Writer, sess editSession) error {
	p := picker.New(sess.mode)
	ed := editor.New(editor.Options{
		OnError: func(err error) { fmt.Fprintf(errw, "recompute failed: %v\n", err) },
	})
	defer ed.Close()

	current := func() (gradient.Ramp, error) {
		ed.Flush()
		ramp, ok := ed.Ramp()
		if !ok {
			return gradient.Ramp{}, fmt.Errorf("no ramp yet: give stops with hex or use")
		}
		return ramp, nil
	}

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		verb, rest, _ := strings.Cut(text, " ")
		rest = strings.TrimSpace(rest)

		if err := editCommand(ed, p, sess, w, current, verb, rest); err != nil {
			return fmt.Errorf("line %d: %s: %w", line, verb, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading commands: %w", err)
	}

	ramp, err := current()
	if err != nil {
		return err
	}
	return printRamp(w, ramp, sess.format)
}

func editCommand(ed *editor.Editor, p *picker.Picker, sess editSession, w io.Writer,
	current func() (gradient.Ramp, error), verb, rest string) error {
	switch verb {
	case "hex":
		if rest == "" {
			return fmt.Errorf("missing colors")
		}
		ed.SetHexInput(rest)
	case "pick":
		colors, err := colorspace.ParseColorList(rest)
		if err != nil {
			return err
		}
		if len(colors) != 1 {
			return fmt.Errorf("want one color, got %d", len(colors))
		}
		return p.SetHex(colors[0].Hex())
	case "hue":
		v, err := floats(rest, 1)
		if err != nil {
			return err
		}
		p.SetHue(v[0])
	case "sv":
		v, err := floats(rest, 2)
		if err != nil {
			return err
		}
		p.SetSaturationValue(v[0], v[1])
	case "lum":
		v, err := floats(rest, 1)
		if err != nil {
			return err
		}
		p.SetLuminance(v[0])
	case "mode":
		mode, err := colorspace.ParseLuminanceMode(rest)
		if err != nil {
			return err
		}
		return p.SetMode(mode)
	case "add":
		_, err := p.Add()
		return err
	case "remove":
		i, err := strconv.Atoi(rest)
		if err != nil {
			return fmt.Errorf("bad index %q", rest)
		}
		_, err = p.Remove(i)
		return err
	case "clear":
		p.ClearSelection()
	case "use":
		return ed.SetFromPicker(p)
	case "count":
		n, err := strconv.Atoi(rest)
		if err != nil {
			return fmt.Errorf("bad count %q", rest)
		}
		ed.SetSampleCount(n)
	case "curve":
		curve, err := sampling.ParseCurve(rest)
		if err != nil {
			return err
		}
		ed.SetCurve(curve)
	case "power":
		v, err := floats(rest, 1)
		if err != nil {
			return err
		}
		ed.SetPower(v[0])
	case "range":
		v, err := floats(rest, 2)
		if err != nil {
			return err
		}
		ed.SetRange(v[0], v[1])
		ed.EndRangeDrag()
	case "print":
		ramp, err := current()
		if err != nil {
			return err
		}
		return printRamp(w, ramp, sess.format)
	case "save":
		ramp, err := current()
		if err != nil {
			return err
		}
		st, err := sess.openStore()
		if err != nil {
			return err
		}
		cfg := ramp.Config
		saved, err := st.Save(store.NewRamp{
			Name:             rest,
			Colors:           ramp.Hexes(),
			SampleCount:      cfg.SampleCount,
			SamplingFunction: cfg.Curve,
			PowerValue:       cfg.Power,
			LuminanceMode:    sess.mode,
			SamplingRange:    &store.Range{Start: cfg.StartPercent, End: cfg.EndPercent},
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "saved %s (%s)\n", saved.ID, saved.Name)
	default:
		return fmt.Errorf("unknown command")
	}
	return nil
}

// floats parses exactly n space-separated numbers.
func floats(s string, n int) ([]float64, error) {
	fields := strings.Fields(s)
	if len(fields) != n {
		return nil, fmt.Errorf("want %d number(s), got %q", n, s)
	}
	out := make([]float64, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", f)
		}
		out[i] = v
	}
	return out, nil
}
