package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/mj1618/stepcast/internal/stream"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Record input and stream captured steps over HTTP",
	Long: `Install global mouse and keyboard hooks and serve the recording API.

Endpoints:
  GET  /health            liveness and recording state
  POST /start-recording   begin recording
  POST /stop-recording    stop recording (pending typed text is discarded)
  POST /capture           capture {"x": ..., "y": ...} and return the step
  GET  /events            text/event-stream of recorded steps
  POST /process-step      refine a step's description

Examples:
  stepcast serve
  stepcast serve --listen 127.0.0.1:9000`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", "", "Listen address (default from config: 127.0.0.1:8000)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr, _ := cmd.Flags().GetString("listen")
	if addr == "" {
		addr = appConfig.Listen
	}

	checkPermissions()
	rec, cleanup, err := newRecorder(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	runHooks(ctx, rec)

	h := stream.NewHandler(rec, stream.Options{
		PollInterval: appConfig.PollDuration,
		Logger:       logger.With("component", "stream"),
	})
	return stream.Serve(ctx, addr, h, logger)
}
