package capture

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/screentools/recgif/internal/devices"
	"github.com/screentools/recgif/internal/types"
)

// fakeHandle completes immediately with the configured exit error.
type fakeHandle struct {
	done   chan error
	killed bool
}

func newFakeHandle(exitErr error) *fakeHandle {
	h := &fakeHandle{done: make(chan error, 1)}
	h.done <- exitErr
	return h
}

func (h *fakeHandle) Done() <-chan error { return h.done }
func (h *fakeHandle) Kill()              { h.killed = true }

// fakeSpawner records every invocation.
type fakeSpawner struct {
	calls   [][]string
	bins    []string
	handles []*fakeHandle
	err     error
}

func (f *fakeSpawner) spawn(bin string, args []string) (Handle, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.bins = append(f.bins, bin)
	f.calls = append(f.calls, args)
	h := newFakeHandle(nil)
	f.handles = append(f.handles, h)
	return h, nil
}

type fakeResolver struct {
	input *devices.Input
	err   error
}

func (f *fakeResolver) Resolve(string, bool) (*devices.Input, error) {
	return f.input, f.err
}

func testRecorder(spawner *fakeSpawner, resolver Resolver) *Recorder {
	return &Recorder{
		resolver: resolver,
		spawn:    spawner.spawn,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func testIntent() types.RecordingOptions {
	return types.RecordingOptions{
		Region:     types.Region{Width: 800, Height: 600},
		FPS:        30,
		Output:     "out.mp4",
		FFmpegPath: "/usr/bin/ffmpeg",
	}
}

func TestStartSpawnsEncoder(t *testing.T) {
	spawner := &fakeSpawner{}
	resolver := &fakeResolver{input: &devices.Input{
		Video: devices.Descriptor{Format: "x11grab", Selector: ":0.0"},
	}}

	session, err := testRecorder(spawner, resolver).Start(testIntent())
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	if len(spawner.bins) != 1 || spawner.bins[0] != "/usr/bin/ffmpeg" {
		t.Errorf("spawned bins = %v", spawner.bins)
	}
	args := spawner.calls[0]
	if args[len(args)-1] != "out.mp4" {
		t.Errorf("invocation must end with output path: %v", args)
	}

	// Completion resolves with the original intent attached to the session.
	if session.Intent.Output != "out.mp4" {
		t.Errorf("session intent = %+v", session.Intent)
	}
	if err := session.Wait(); err != nil {
		t.Errorf("Wait() = %v, want nil", err)
	}
}

func TestStartPropagatesResolverError(t *testing.T) {
	spawner := &fakeSpawner{}
	resolver := &fakeResolver{err: &devices.UnsupportedPlatformError{GOOS: "plan9"}}

	_, err := testRecorder(spawner, resolver).Start(testIntent())
	var unsupported *devices.UnsupportedPlatformError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedPlatformError, got %v", err)
	}
	if len(spawner.calls) != 0 {
		t.Errorf("no process should be spawned on resolver failure, got %d", len(spawner.calls))
	}
}

func TestSessionKill(t *testing.T) {
	spawner := &fakeSpawner{}
	resolver := &fakeResolver{input: &devices.Input{
		Video: devices.Descriptor{Format: "x11grab", Selector: ":0.0"},
	}}

	session, err := testRecorder(spawner, resolver).Start(testIntent())
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	session.Kill()
	if !spawner.handles[0].killed {
		t.Error("Kill() did not reach the process handle")
	}
}

func TestSessionPropagatesExitError(t *testing.T) {
	exitErr := errors.New("exit status 1")
	spawner := &fakeSpawner{}
	resolver := &fakeResolver{input: &devices.Input{
		Video: devices.Descriptor{Format: "x11grab", Selector: ":0.0"},
	}}
	rec := testRecorder(spawner, resolver)
	rec.spawn = func(string, []string) (Handle, error) {
		return newFakeHandle(exitErr), nil
	}

	session, err := rec.Start(testIntent())
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	select {
	case got := <-session.Done():
		if !errors.Is(got, exitErr) {
			t.Errorf("Done() = %v, want %v", got, exitErr)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for completion signal")
	}
}
