// Package devices resolves platform-specific capture devices for the
// external encoder. Discovery is inherently heterogeneous per platform, so
// resolution is a closed three-way dispatch rather than one algorithm:
//
//   - darwin: avfoundation device indexes scanned from ffmpeg's list-mode
//     diagnostic output, plus a desktop geometry query
//   - windows: fixed DirectShow virtual device names
//   - linux: fixed X11 display address, default PulseAudio source
package devices

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/screentools/recgif/internal/logging"
	"github.com/screentools/recgif/internal/types"
)

// Descriptor identifies an encoder input device as a (format, selector)
// pair, e.g. {"avfoundation", "1:none"} or {"x11grab", ":0.0"}.
type Descriptor struct {
	Format   string
	Selector string
}

// Input is the resolved device set for one recording invocation. Audio and
// Resolution are optional; argument synthesis branches on their presence.
type Input struct {
	Video      Descriptor
	Audio      *Descriptor
	Resolution *types.Resolution
}

// DeviceKind names a required device for error reporting.
type DeviceKind string

const (
	KindScreen     DeviceKind = "screen"
	KindMicrophone DeviceKind = "microphone"
)

// UnsupportedPlatformError reports a host platform outside the recognized
// set. Fatal; no recovery is attempted.
type UnsupportedPlatformError struct {
	GOOS string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("screen recording is not supported on %s", e.GOOS)
}

// DeviceNotFoundError reports that discovery output did not contain the
// required device pattern.
type DeviceNotFoundError struct {
	Kind DeviceKind
}

func (e *DeviceNotFoundError) Error() string {
	return fmt.Sprintf("no %s capture device found", e.Kind)
}

// Resolver turns a recording intent into concrete device identifiers.
//
// The platform and the two discovery calls are injectable so every variant
// can be exercised on any host; the zero-value hooks come from NewResolver.
type Resolver struct {
	goos   string
	logger *slog.Logger

	// listDevices runs the encoder in list-devices mode and returns its
	// diagnostic (stderr) text. A non-zero exit in list mode is normal and
	// must not surface as an error.
	listDevices func(ffmpegBin string) (string, error)

	// queryBounds performs the interactive desktop-geometry query and
	// returns the on-screen bounds as (x, y, width, height).
	queryBounds func() (x, y, w, h int, err error)
}

// NewResolver creates a resolver for the running platform.
func NewResolver() *Resolver {
	return &Resolver{
		goos:        runtime.GOOS,
		logger:      logging.GetLogger("devices"),
		listDevices: listDevicesText,
		queryBounds: desktopBounds,
	}
}

// Resolve discovers the capture devices for the current platform. With
// audio disabled no microphone is required; with audio enabled a missing
// microphone is a DeviceNotFoundError on platforms that scan for one.
func (r *Resolver) Resolve(ffmpegBin string, withAudio bool) (*Input, error) {
	switch r.goos {
	case "darwin":
		return r.resolveAVFoundation(ffmpegBin, withAudio)
	case "windows":
		return r.resolveDirectShow(withAudio), nil
	case "linux":
		return r.resolveX11Grab(withAudio), nil
	default:
		return nil, &UnsupportedPlatformError{GOOS: r.goos}
	}
}
