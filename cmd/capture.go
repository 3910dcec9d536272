package cmd

import (
	"fmt"
	"os"

	"github.com/mj1618/stepcast/internal/output"
	"github.com/spf13/cobra"
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture the UI element at a screen coordinate",
	Long: `Run one capture at (x, y) as if it had been clicked, and print the step
metadata. The annotated screenshot is written to --output when given.

Examples:
  stepcast capture --x 640 --y 400 --output step.png
  stepcast capture --x 640 --y 400 --format json`,
	RunE: runCapture,
}

func init() {
	rootCmd.AddCommand(captureCmd)
	captureCmd.Flags().Int("x", 0, "Screen X coordinate")
	captureCmd.Flags().Int("y", 0, "Screen Y coordinate")
	captureCmd.Flags().String("output", "", "Write the annotated PNG screenshot to this file")
	_ = captureCmd.MarkFlagRequired("x")
	_ = captureCmd.MarkFlagRequired("y")
}

func runCapture(cmd *cobra.Command, args []string) error {
	x, _ := cmd.Flags().GetInt("x")
	y, _ := cmd.Flags().GetInt("y")
	path, _ := cmd.Flags().GetString("output")

	rec, cleanup, err := newRecorder(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	step := rec.Capture(cmd.Context(), x, y)
	if path != "" {
		if len(step.Screenshot) == 0 {
			return fmt.Errorf("capture at (%d,%d) produced no screenshot", x, y)
		}
		if err := os.WriteFile(path, step.Screenshot, 0644); err != nil {
			return err
		}
	}
	return output.Print(output.NewCaptureResult(step, path))
}
