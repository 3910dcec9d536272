package cmd

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/mj1618/stepcast/internal/capture"
	"github.com/mj1618/stepcast/internal/output"
	"github.com/spf13/cobra"
)

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Find the element box around a point in a saved screenshot",
	Long: `Run the pixel-based element locator on an image file, the same way blind
windows are handled during recording. Coordinates are screen coordinates;
--origin-x/--origin-y give the screen position of the image's top-left pixel.

Examples:
  stepcast locate --image shot.png --x 420 --y 310
  stepcast locate --image crop.png --origin-x 200 --origin-y 100 --x 420 --y 310 --output boxed.png`,
	RunE: runLocate,
}

func init() {
	rootCmd.AddCommand(locateCmd)
	locateCmd.Flags().String("image", "", "PNG or JPEG screenshot to search")
	locateCmd.Flags().Int("x", 0, "Screen X coordinate of the click")
	locateCmd.Flags().Int("y", 0, "Screen Y coordinate of the click")
	locateCmd.Flags().Int("origin-x", 0, "Screen X of the image's left edge")
	locateCmd.Flags().Int("origin-y", 0, "Screen Y of the image's top edge")
	locateCmd.Flags().String("output", "", "Write an annotated PNG to this file")
	_ = locateCmd.MarkFlagRequired("image")
	_ = locateCmd.MarkFlagRequired("x")
	_ = locateCmd.MarkFlagRequired("y")
}

func runLocate(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("image")
	x, _ := cmd.Flags().GetInt("x")
	y, _ := cmd.Flags().GetInt("y")
	ox, _ := cmd.Flags().GetInt("origin-x")
	oy, _ := cmd.Flags().GetInt("origin-y")
	out, _ := cmd.Flags().GetString("output")

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	origin := image.Pt(ox, oy)
	rect, found := locateImage(img, origin, x, y)
	logger.Debug("located", "x", x, "y", y, "rect", rect.String(), "found", found)

	result := output.LocateResult{
		X:           x,
		Y:           y,
		Rect:        rect,
		Fallback:    !found,
		ImageWidth:  img.Bounds().Dx(),
		ImageHeight: img.Bounds().Dy(),
	}

	if out != "" {
		local := rect.Translate(-ox, -oy).Image()
		annotated := annotateLocate(img, local, locateLabel(rect), appConfig.Capture.BorderThickness)
		png, err := capture.EncodePNG(annotated)
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, png, 0644); err != nil {
			return err
		}
		result.Annotated = out
	}
	return output.Print(result)
}
