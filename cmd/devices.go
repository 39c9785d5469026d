package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/screentools/recgif/internal/config"
	"github.com/screentools/recgif/internal/devices"
	"github.com/screentools/recgif/internal/logging"
)

// CreateDevicesCmd creates the devices command.
func CreateDevicesCmd() *cobra.Command {
	var ffmpegPath string
	var withAudio bool

	cmd := &cobra.Command{
		Use:   "devices",
		Short: "Show the capture devices resolved for this platform",
		Long: `Resolves the screen (and optionally audio) capture devices the recorder ` +
			`would use on this platform and prints them.`,
		Run: func(_ *cobra.Command, _ []string) {
			logging.Initialize(logging.Config{Level: "warn", Format: "text"})

			resolver := devices.NewResolver()
			input, err := resolver.Resolve(config.FFmpegPath(ffmpegPath), withAudio)
			if err != nil {
				var unsupported *devices.UnsupportedPlatformError
				var notFound *devices.DeviceNotFoundError
				if errors.As(err, &unsupported) || errors.As(err, &notFound) {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(1)
				}
				fmt.Fprintf(os.Stderr, "device resolution failed: %v\n", err)
				os.Exit(1)
			}

			fmt.Printf("video: -f %s -i %s\n", input.Video.Format, input.Video.Selector)
			if input.Audio != nil {
				fmt.Printf("audio: -f %s -i %s\n", input.Audio.Format, input.Audio.Selector)
			}
			if input.Resolution != nil {
				fmt.Printf("display: %dx%d\n", input.Resolution.Width, input.Resolution.Height)
			}
		},
	}

	cmd.Flags().StringVar(&ffmpegPath, "ffmpeg", "", "Path to the ffmpeg binary")
	cmd.Flags().BoolVar(&withAudio, "audio", false, "Also resolve an audio capture device")

	return cmd
}
