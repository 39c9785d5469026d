package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/screentools/recgif/internal/capture"
	"github.com/screentools/recgif/internal/config"
	"github.com/screentools/recgif/internal/events"
	"github.com/screentools/recgif/internal/logging"
	"github.com/screentools/recgif/internal/types"
)

// CreateGifCmd creates the gif command.
func CreateGifCmd() *cobra.Command {
	var width, height, fps int
	var scale float64
	var ffmpegPath string
	var logJSON bool

	cmd := &cobra.Command{
		Use:   "gif [recording.mp4]",
		Short: "Convert an existing recording to GIF",
		Long: `Runs the two-pass palette transcode against an already recorded file: ` +
			`first pass generates a palette tuned to the recording, second pass encodes ` +
			`the GIF against that palette. The output lands next to the input with a .gif extension.`,
		Args: cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			recording := args[0]

			loggingConfig := logging.Config{Level: "info", Format: "text"}
			if logJSON {
				loggingConfig.Format = "json"
			}
			logging.Initialize(loggingConfig)
			logger := logging.GetLogger("gif")

			bin := config.FFmpegPath(ffmpegPath)
			if bin == "" {
				logger.Error("No ffmpeg binary found; install ffmpeg or pass --ffmpeg")
				os.Exit(1)
			}

			recorder := capture.New(events.New())
			result, err := recorder.ConvertToGIF(capture.GIFOptions{
				Recording:  recording,
				Region:     types.Region{Width: width, Height: height},
				FPS:        fps,
				Scale:      scale,
				FFmpegPath: bin,
			})
			if err != nil {
				logger.Error("GIF conversion failed", "error", err)
				os.Exit(1)
			}
			if waitErr := result.Wait(); waitErr != nil {
				logger.Error("GIF encode failed", "error", waitErr)
				os.Exit(1)
			}

			fmt.Println(result.Path)
		},
	}

	cmd.Flags().IntVar(&width, "width", 1920, "Width the recording was captured at")
	cmd.Flags().IntVar(&height, "height", 1080, "Height the recording was captured at")
	cmd.Flags().IntVar(&fps, "fps", 30, "Frame rate of the output GIF")
	cmd.Flags().Float64Var(&scale, "scale", 0, "Scale factor for the GIF (0 keeps the recording size)")
	cmd.Flags().StringVar(&ffmpegPath, "ffmpeg", "", "Path to the ffmpeg binary")
	cmd.Flags().BoolVar(&logJSON, "log-json", false, "Use JSON log format")

	return cmd
}
