package cmd

import (
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/MeKo-Tech/hemoscan/internal/pipeline"
	"github.com/MeKo-Tech/hemoscan/internal/utils"
	"github.com/spf13/cobra"
)

const (
	outputFormatJSON = "json"
	outputFormatCSV  = "csv"
	outputFormatText = "text"
)

// imageCmd represents the image command.
var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Analyze toilet bowl photos for blood traces",
	Long: `Analyze one or more photo files for visible traces of blood.

Supported formats: JPEG, PNG, BMP

Examples:
  hemoscan image photo.jpg
  hemoscan image *.png --format json
  hemoscan image photo.jpg --flash --overlay-dir ./overlays`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no input files provided")
		}

		cfg := GetConfig()

		format := cfg.Output.Format
		if cmd.Flags().Changed("format") {
			format, _ = cmd.Flags().GetString("format")
		}
		outputFile := cfg.Output.File
		if cmd.Flags().Changed("output") {
			outputFile, _ = cmd.Flags().GetString("output")
		}
		overlayDir := cfg.Output.OverlayDir
		if cmd.Flags().Changed("overlay-dir") {
			overlayDir, _ = cmd.Flags().GetString("overlay-dir")
		}
		flashOn, _ := cmd.Flags().GetBool("flash")

		switch format {
		case outputFormatText, outputFormatJSON, outputFormatCSV:
		default:
			return fmt.Errorf("invalid output format: %s (must be one of: text, json, csv)", format)
		}

		pl, err := pipeline.NewPipeline(cfg.ToPipelineConfig())
		if err != nil {
			return fmt.Errorf("failed to build pipeline: %w", err)
		}

		var out strings.Builder
		for _, path := range args {
			img, err := utils.LoadImage(path)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", path, err)
			}
			img = utils.NormalizeSize(img, cfg.Analysis.MaxWidth)
			buf := utils.NewPixelBufferFromImage(img)

			res, err := pl.Analyze(buf, flashOn)
			if err != nil {
				return fmt.Errorf("analysis failed for %s: %w", path, err)
			}

			rendered, err := renderResult(path, res, format)
			if err != nil {
				return err
			}
			out.WriteString(rendered)

			if overlayDir != "" {
				if err := writeOverlay(overlayDir, path, buf, res); err != nil {
					return err
				}
			}
		}

		if outputFile != "" {
			if err := os.WriteFile(outputFile, []byte(out.String()), 0o600); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			return nil
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), out.String())
		return err
	},
}

// renderResult formats a single analysis result.
func renderResult(path string, res *pipeline.Result, format string) (string, error) {
	switch format {
	case outputFormatJSON:
		data, err := pipeline.ResultToJSON(res)
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil
	case outputFormatCSV:
		data, err := pipeline.ResultToCSV(res)
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return renderText(path, res), nil
	}
}

func renderText(path string, res *pipeline.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%dx%d)\n", path, res.Width, res.Height)
	fmt.Fprintf(&b, "  sample type: %s\n", res.SampleType)
	fmt.Fprintf(&b, "  blood pixels: %d (ratio %.4f)\n", res.BloodPixelCount, res.BloodRatio)
	if len(res.Findings) == 0 {
		b.WriteString("  no findings\n")
		return b.String()
	}
	for i, f := range res.Findings {
		fmt.Fprintf(&b, "  finding %d: %s (severity %d) at (%d,%d) %dx%d, %d px\n",
			i+1, f.Profile.Name, f.Profile.Severity,
			int(f.Box.MinX), int(f.Box.MinY),
			int(f.Box.Width()), int(f.Box.Height()), f.PixelCount)
	}
	return b.String()
}

// writeOverlay renders findings onto the photo and saves it as PNG.
func writeOverlay(dir, path string, buf *utils.PixelBuffer, res *pipeline.Result) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create overlay directory: %w", err)
	}

	overlay := pipeline.RenderOverlay(buf.ToImage(), res)
	if overlay == nil {
		return errors.New("failed to render overlay")
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outPath := filepath.Join(dir, base+"_overlay.png")

	f, err := os.Create(outPath) //nolint:gosec // path derives from user-provided output dir
	if err != nil {
		return fmt.Errorf("failed to create overlay file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := png.Encode(f, overlay); err != nil {
		return fmt.Errorf("failed to encode overlay: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(imageCmd)

	imageCmd.Flags().Bool("flash", false, "photo was taken with flash enabled")
	imageCmd.Flags().StringP("format", "f", outputFormatText, "output format (text, json, csv)")
	imageCmd.Flags().StringP("output", "o", "", "write output to file instead of stdout")
	imageCmd.Flags().String("overlay-dir", "", "directory for annotated overlay images")
}
