// Package capture supervises recording sessions and the GIF post-processing
// pipeline. It resolves devices, synthesizes the encoder invocation, and
// hands the caller a session with a completion signal and a kill control;
// it keeps no reference to the session after returning it.
package capture

import (
	"log/slog"

	"github.com/screentools/recgif/internal/devices"
	"github.com/screentools/recgif/internal/events"
	"github.com/screentools/recgif/internal/ffmpeg"
	"github.com/screentools/recgif/internal/logging"
	"github.com/screentools/recgif/internal/process"
	"github.com/screentools/recgif/internal/types"
)

// Handle is the slice of the spawn collaborator the supervisor needs: a
// completion signal and a cancellation control.
type Handle interface {
	Done() <-chan error
	Kill()
}

// SpawnFunc starts the encoder binary with the given arguments.
type SpawnFunc func(bin string, args []string) (Handle, error)

// Resolver discovers capture devices for the running platform.
type Resolver interface {
	Resolve(ffmpegBin string, withAudio bool) (*devices.Input, error)
}

// Recorder starts recording sessions and GIF transcodes.
type Recorder struct {
	resolver Resolver
	spawn    SpawnFunc
	bus      *events.Bus
	logger   *slog.Logger
}

// New creates a recorder that spawns the real encoder with ffmpeg log
// parsing wired into the process output.
func New(bus *events.Bus) *Recorder {
	logger := logging.GetLogger("capture")
	return &Recorder{
		resolver: devices.NewResolver(),
		spawn: func(bin string, args []string) (Handle, error) {
			return process.Start(bin, args, logger,
				process.WithLogParser(logging.GetLogger("ffmpeg"), ffmpeg.ParseLogLevel))
		},
		bus:    bus,
		logger: logger,
	}
}

// Session is a running encoder process. It is owned exclusively by the
// caller once returned.
type Session struct {
	// Intent is the recording intent this session was started with; the
	// completion signal resolves with it by construction.
	Intent types.RecordingOptions

	handle Handle
	done   chan error
}

// Done returns the completion signal; it receives the process exit error
// (nil on clean exit) exactly once.
func (s *Session) Done() <-chan error {
	return s.done
}

// Wait blocks until the encoder exits.
func (s *Session) Wait() error {
	return <-s.done
}

// Kill terminates the encoder. Safe to call after the process has exited.
func (s *Session) Kill() {
	s.handle.Kill()
}

// Handle exposes the underlying process handle for advanced callers.
func (s *Session) Handle() Handle {
	return s.handle
}

// Start resolves devices, synthesizes the encoder arguments and spawns the
// recording process. Resolver failures (unsupported platform, missing
// device) propagate unchanged.
func (r *Recorder) Start(opts types.RecordingOptions) (*Session, error) {
	input, err := r.resolver.Resolve(opts.FFmpegPath, opts.Audio)
	if err != nil {
		return nil, err
	}

	args := ffmpeg.Args(opts, input)
	r.logger.Info("Starting recording", "output", opts.Output, "region", opts.Region.Size(), "fps", opts.FPS)

	handle, err := r.spawn(opts.FFmpegPath, args)
	if err != nil {
		return nil, err
	}

	if r.bus != nil {
		r.bus.Publish(events.RecordingStartedEvent{Output: opts.Output, PID: pidOf(handle)})
	}

	s := &Session{Intent: opts, handle: handle, done: make(chan error, 1)}
	go func() {
		// Single consumer of the process signal: publish for subscribers,
		// then forward to the session's own completion channel.
		exitErr := <-handle.Done()
		if r.bus != nil {
			r.bus.Publish(events.RecordingFinishedEvent{Output: opts.Output, Err: exitErr})
		}
		s.done <- exitErr
	}()

	return s, nil
}

func pidOf(h Handle) int {
	if p, ok := h.(*process.Proc); ok && p.Cmd().Process != nil {
		return p.Cmd().Process.Pid
	}
	return 0
}
