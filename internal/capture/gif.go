package capture

import (
	"fmt"
	"os"
	"strings"

	"github.com/screentools/recgif/internal/events"
	"github.com/screentools/recgif/internal/ffmpeg"
	"github.com/screentools/recgif/internal/types"
)

// GIFOptions parameterizes a two-pass GIF transcode of a finished
// recording.
type GIFOptions struct {
	Recording  string       // path to the recorded .mp4
	Region     types.Region // capture region the recording was made with
	FPS        int
	Scale      float64 // 0 = unscaled
	FFmpegPath string  // empty means the feature is disabled
}

// GIFResult is a started stage-2 encode. Path is the final output; the
// session is the cancellation control for the second stage.
type GIFResult struct {
	Path    string
	session *Session
}

// Wait blocks until the palette-constrained encode finishes.
func (g *GIFResult) Wait() error {
	return g.session.Wait()
}

// Kill cancels the second stage. Safe after completion.
func (g *GIFResult) Kill() {
	g.session.Kill()
}

// ConvertToGIF runs the two-pass palette transcode: palette generation into
// a temporary image, then a palette-constrained re-encode. The stages run
// strictly in sequence; stage 2 starts only after stage 1's palette exists.
// When no encoder binary is configured the conversion is skipped entirely
// and (nil, nil) is returned — optional post-processing, not a failure.
func (r *Recorder) ConvertToGIF(opts GIFOptions) (*GIFResult, error) {
	if opts.FFmpegPath == "" {
		r.logger.Debug("No encoder binary configured, skipping GIF conversion")
		return nil, nil
	}

	width, height := ffmpeg.GIFDimensions(opts.Region, opts.Scale)

	palette, err := os.CreateTemp("", "recgif-palette-*.png")
	if err != nil {
		return nil, fmt.Errorf("failed to create palette file: %w", err)
	}
	palettePath := palette.Name()
	palette.Close()

	if r.bus != nil {
		r.bus.Publish(events.TranscodeStageEvent{Stage: 1, Source: opts.Recording})
	}
	r.logger.Info("Generating palette", "recording", opts.Recording, "size", fmt.Sprintf("%dx%d", width, height))

	stage1, err := r.spawn(opts.FFmpegPath,
		ffmpeg.PaletteGenArgs(opts.Recording, palettePath, opts.FPS, width, height))
	if err != nil {
		os.Remove(palettePath)
		return nil, err
	}
	if err := <-stage1.Done(); err != nil {
		os.Remove(palettePath)
		return nil, fmt.Errorf("palette generation failed: %w", err)
	}

	output := strings.TrimSuffix(opts.Recording, ".mp4") + ".gif"

	if r.bus != nil {
		r.bus.Publish(events.TranscodeStageEvent{Stage: 2, Source: opts.Recording})
	}
	r.logger.Info("Encoding GIF", "output", output)

	stage2, err := r.spawn(opts.FFmpegPath,
		ffmpeg.PaletteUseArgs(opts.Recording, palettePath, output, opts.FPS, width, height))
	if err != nil {
		os.Remove(palettePath)
		return nil, err
	}

	s := &Session{handle: stage2, done: make(chan error, 1)}
	go func() {
		exitErr := <-stage2.Done()
		os.Remove(palettePath)
		s.done <- exitErr
	}()

	return &GIFResult{Path: output, session: s}, nil
}
