package main

import (
	"os"
	"sync"

	"github.com/danielgtaylor/huma/v2/humacli"

	"github.com/screentools/recgif/cmd"
	"github.com/screentools/recgif/internal/capture"
	"github.com/screentools/recgif/internal/config"
	"github.com/screentools/recgif/internal/events"
	"github.com/screentools/recgif/internal/logging"
	"github.com/screentools/recgif/internal/types"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"recgif.toml"`

	// Capture region
	X      int `help:"Left edge of the capture region" default:"0" toml:"region.x" env:"X"`
	Y      int `help:"Top edge of the capture region" default:"0" toml:"region.y" env:"Y"`
	Width  int `help:"Width of the capture region" short:"w" default:"1920" toml:"region.width" env:"WIDTH"`
	Height int `help:"Height of the capture region" default:"1080" toml:"region.height" env:"HEIGHT"`

	// Recording settings
	FPS      int     `help:"Capture frame rate" default:"30" toml:"recording.fps" env:"FPS"`
	Duration float64 `help:"Stop after this many seconds (0 records until interrupted)" short:"d" default:"0" toml:"recording.duration" env:"DURATION"`
	Audio    bool    `help:"Capture audio alongside the screen" short:"a" default:"false" toml:"recording.audio" env:"AUDIO"`
	Output   string  `help:"Output file path" short:"o" default:"recording.mp4" toml:"recording.output" env:"OUTPUT"`

	// GIF settings
	Gif   bool    `help:"Convert the recording to GIF when it finishes" default:"false" toml:"gif.enabled" env:"GIF"`
	Scale float64 `help:"Scale factor for the GIF (0 keeps the recording size)" default:"0" toml:"gif.scale" env:"GIF_SCALE"`

	// Encoder settings
	Ffmpeg string `help:"Path to the ffmpeg binary" toml:"encoder.ffmpeg" env:"FFMPEG"`

	// Logging settings
	LoggingLevel   string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat  string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingCapture string `help:"Capture logging level" default:"info" toml:"logging.capture" env:"LOGGING_CAPTURE"`
	LoggingDevices string `help:"Devices logging level" default:"info" toml:"logging.devices" env:"LOGGING_DEVICES"`
	LoggingFfmpeg  string `help:"Encoder output logging level" default:"info" toml:"logging.ffmpeg" env:"LOGGING_FFMPEG"`
	LoggingUpdater string `help:"Updater logging level" default:"info" toml:"logging.updater" env:"LOGGING_UPDATER"`
}

func main() {
	var cli humacli.CLI

	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		// Load configuration automatically
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			logging.GetLogger("main").Warn("Failed to load config", "error", loadErr)
		}

		// Initialize logging system. The [logging] table seeds levels for
		// modules without a dedicated flag; flag-backed levels win.
		loggingConfig := config.LoadLoggingConfig(opts.Config)
		loggingConfig.Level = opts.LoggingLevel
		loggingConfig.Format = opts.LoggingFormat
		for module, level := range map[string]string{
			"capture": opts.LoggingCapture,
			"devices": opts.LoggingDevices,
			"ffmpeg":  opts.LoggingFfmpeg,
			"updater": opts.LoggingUpdater,
		} {
			loggingConfig.Modules[module] = level
		}
		logging.Initialize(loggingConfig)

		logger := logging.GetLogger("main")

		intent := types.RecordingOptions{
			Region:     types.Region{X: opts.X, Y: opts.Y, Width: opts.Width, Height: opts.Height},
			FPS:        opts.FPS,
			Duration:   opts.Duration,
			Audio:      opts.Audio,
			Output:     opts.Output,
			FFmpegPath: config.FFmpegPath(opts.Ffmpeg),
			Overrides:  config.LoadOverrides(opts.Config),
		}

		bus := events.New()
		recorder := capture.New(bus)

		bus.Subscribe(func(e events.RecordingStartedEvent) {
			logger.Info("Recording started", "output", e.Output, "pid", e.PID)
		})
		bus.Subscribe(func(e events.TranscodeStageEvent) {
			logger.Debug("Transcode stage started", "stage", e.Stage, "source", e.Source)
		})

		var mu sync.Mutex
		var session *capture.Session

		hooks.OnStart(func() {
			if intent.FFmpegPath == "" {
				logger.Error("No ffmpeg binary found; install ffmpeg or pass --ffmpeg")
				os.Exit(1)
			}

			s, err := recorder.Start(intent)
			if err != nil {
				logger.Error("Failed to start recording", "error", err)
				os.Exit(1)
			}
			mu.Lock()
			session = s
			mu.Unlock()

			waitErr := s.Wait()
			if waitErr != nil {
				// An interrupted encoder still finalizes the container, so
				// the recording may be usable.
				logger.Warn("Encoder exited with error", "error", waitErr)
			}

			if _, statErr := os.Stat(opts.Output); statErr != nil {
				logger.Error("No recording was produced", "output", opts.Output)
				os.Exit(1)
			}
			logger.Info("Recording finished", "output", opts.Output)

			if !opts.Gif {
				return
			}

			result, err := recorder.ConvertToGIF(capture.GIFOptions{
				Recording:  opts.Output,
				Region:     intent.Region,
				FPS:        opts.FPS,
				Scale:      opts.Scale,
				FFmpegPath: intent.FFmpegPath,
			})
			if err != nil {
				logger.Error("GIF conversion failed", "error", err)
				os.Exit(1)
			}
			if result == nil {
				return
			}
			if waitErr := result.Wait(); waitErr != nil {
				logger.Error("GIF encode failed", "error", waitErr)
				os.Exit(1)
			}
			logger.Info("GIF written", "output", result.Path)
		})

		hooks.OnStop(func() {
			mu.Lock()
			s := session
			mu.Unlock()
			if s != nil {
				logger.Info("Stopping recording")
				s.Kill()
			}
		})
	})

	cli.Root().AddCommand(cmd.CreateDevicesCmd())
	cli.Root().AddCommand(cmd.CreateGifCmd())
	cli.Root().AddCommand(cmd.CreateUpdateCmd())
	cli.Root().AddCommand(cmd.CreateVersionCmd())

	// Run the CLI
	cli.Run()
}
