package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ironsheep/ramp-tools-mcp/internal/colorspace"
	"github.com/ironsheep/ramp-tools-mcp/internal/gpl"
	"github.com/ironsheep/ramp-tools-mcp/internal/gradient"
	"github.com/ironsheep/ramp-tools-mcp/internal/imaging"
	"github.com/ironsheep/ramp-tools-mcp/internal/sampling"
	"github.com/spf13/cobra"
)

var sampleCmd = &cobra.Command{
	Use:   "sample [colors...]",
	Short: "Sample a color ramp and print it",
	Long: `Sample a color ramp from color stops given as arguments, from a gradient
image (--image) or from a GIMP palette file (--gpl). Exactly one source is
required.`,
	Example: `  ramp-mcp sample '#000' '#fff' --count 5
  ramp-mcp sample --image sunset.png --curve parametric --power 3
  ramp-mcp sample navy gold --format gpl > ramp.gpl`,
	RunE: runSample,
}

func init() {
	sampleCmd.Flags().String("image", "", "Gradient image file")
	sampleCmd.Flags().String("gpl", "", "GIMP palette file")
	sampleCmd.Flags().IntP("count", "n", sampling.DefaultSampleCount, "Number of output colors (1-16)")
	sampleCmd.Flags().String("curve", string(sampling.CurveLinear), "Sampling function (linear, power, parametric)")
	sampleCmd.Flags().Float64("power", sampling.DefaultPower, "Curve exponent (0.1-5.0)")
	sampleCmd.Flags().Float64("start", 0, "Start of the sampled window in percent")
	sampleCmd.Flags().Float64("end", 100, "End of the sampled window in percent")
	sampleCmd.Flags().Bool("reverse", false, "Reverse the sampled colors")
	sampleCmd.Flags().StringP("format", "f", "hex", "Output format (hex, json, gpl)")
	sampleCmd.Flags().String("swatch", "", "Also write a PNG swatch to this file")
	rootCmd.AddCommand(sampleCmd)
}

func runSample(cmd *cobra.Command, args []string) error {
	imagePath, _ := cmd.Flags().GetString("image")
	gplPath, _ := cmd.Flags().GetString("gpl")
	count, _ := cmd.Flags().GetInt("count")
	curveName, _ := cmd.Flags().GetString("curve")
	power, _ := cmd.Flags().GetFloat64("power")
	start, _ := cmd.Flags().GetFloat64("start")
	end, _ := cmd.Flags().GetFloat64("end")
	reverse, _ := cmd.Flags().GetBool("reverse")
	format, _ := cmd.Flags().GetString("format")
	swatchPath, _ := cmd.Flags().GetString("swatch")

	src, err := sampleSource(strings.Join(args, " "), imagePath, gplPath)
	if err != nil {
		return err
	}

	curve, err := sampling.ParseCurve(curveName)
	if err != nil {
		return err
	}
	ramp, err := gradient.Sample(src, sampling.Config{
		Curve:        curve,
		Power:        power,
		StartPercent: start,
		EndPercent:   end,
		SampleCount:  count,
	})
	if err != nil {
		return err
	}
	if reverse {
		ramp = ramp.Reversed()
	}

	if swatchPath != "" {
		data, err := imaging.SwatchPNG(ramp.Colors(), 32)
		if err != nil {
			return err
		}
		if err := os.WriteFile(swatchPath, data, 0o644); err != nil {
			return fmt.Errorf("writing swatch: %w", err)
		}
	}

	return printRamp(cmd.OutOrStdout(), ramp, format)
}

func sampleSource(colors, imagePath, gplPath string) (gradient.Source, error) {
	given := 0
	for _, v := range []string{colors, imagePath, gplPath} {
		if v != "" {
			given++
		}
	}
	if given != 1 {
		return gradient.Source{}, errors.New("give exactly one of: color arguments, --image or --gpl")
	}

	switch {
	case imagePath != "":
		src, _, err := imaging.NewImageCache().Source(imagePath)
		return src, err
	case gplPath != "":
		data, err := os.ReadFile(gplPath)
		if err != nil {
			return gradient.Source{}, fmt.Errorf("reading %s: %w", gplPath, err)
		}
		palette, err := gpl.ParseString(string(data))
		if err != nil {
			return gradient.Source{}, fmt.Errorf("parsing %s: %w", gplPath, err)
		}
		return gradient.NewPalette(palette.Colors())
	default:
		stops, err := colorspace.ParseColorList(colors)
		if err != nil {
			return gradient.Source{}, err
		}
		return gradient.NewStops(stops)
	}
}

func printRamp(w io.Writer, ramp gradient.Ramp, format string) error {
	switch format {
	case "hex":
		for _, hex := range ramp.Hexes() {
			fmt.Fprintln(w, hex)
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ramp)
	case "gpl":
		return gpl.Format(w, "", gpl.FromColors("Ramp", ramp.Colors()))
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
