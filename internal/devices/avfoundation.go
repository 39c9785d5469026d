package devices

import (
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/screentools/recgif/internal/logging"
	"github.com/screentools/recgif/internal/process"
	"github.com/screentools/recgif/internal/types"
)

// avfoundation lists devices as e.g.
//
//	[AVFoundation input device @ 0x7ff8] [1] Capture Screen 0
//	[AVFoundation input device @ 0x7ff8] [0] MacBook Pro Microphone
var (
	screenPattern = regexp.MustCompile(`\[(\d+)\] Capture [Ss]creen`)
	micPattern    = regexp.MustCompile(`(?i)\[(\d+)\][^\n\[]*microphone`)
)

// resolveAVFoundation scans ffmpeg's list-mode output for the screen and,
// when requested, microphone device indexes, and combines them into the
// avfoundation "<video>:<audio>" selector. The desktop geometry query runs
// first so downstream synthesis can normalize window coordinates to the
// encoder's view of the screen.
func (r *Resolver) resolveAVFoundation(ffmpegBin string, withAudio bool) (*Input, error) {
	_, _, w, h, err := r.queryBounds()
	if err != nil {
		return nil, fmt.Errorf("desktop geometry query failed: %w", err)
	}

	text, err := r.listDevices(ffmpegBin)
	if err != nil {
		return nil, fmt.Errorf("device listing failed: %w", err)
	}

	screen := screenPattern.FindStringSubmatch(text)
	if screen == nil {
		return nil, &DeviceNotFoundError{Kind: KindScreen}
	}

	audioIndex := "none"
	if withAudio {
		mic := micPattern.FindStringSubmatch(text)
		if mic == nil {
			return nil, &DeviceNotFoundError{Kind: KindMicrophone}
		}
		audioIndex = mic[1]
	}

	r.logger.Debug("Resolved avfoundation devices",
		"screen", screen[1], "audio", audioIndex, "resolution", fmt.Sprintf("%dx%d", w, h))

	return &Input{
		Video: Descriptor{
			Format:   "avfoundation",
			Selector: screen[1] + ":" + audioIndex,
		},
		Resolution: &types.Resolution{Width: w, Height: h},
	}, nil
}

// listDevicesText runs the encoder in list-devices mode and returns its
// stderr text. The process exits non-zero in this mode; that is its normal
// termination behavior, not a failure.
func listDevicesText(ffmpegBin string) (string, error) {
	args := []string{"-f", "avfoundation", "-list_devices", "true", "-i", ""}
	proc, err := process.Start(ffmpegBin, args, logging.GetLogger("devices"),
		process.WithStderrCapture())
	if err != nil {
		return "", err
	}
	<-proc.Done()
	return proc.StderrText(), nil
}

// desktopBounds asks the window system for the desktop bounds. The reply is
// "x, y, width, height".
func desktopBounds() (int, int, int, int, error) {
	out, err := exec.Command("osascript", "-e",
		`tell application "Finder" to get bounds of window of desktop`).Output()
	if err != nil {
		return 0, 0, 0, 0, err
	}

	parts := strings.Split(strings.TrimSpace(string(out)), ",")
	if len(parts) != 4 {
		return 0, 0, 0, 0, fmt.Errorf("unexpected desktop bounds reply: %q", out)
	}

	var vals [4]int
	for i, part := range parts {
		vals[i], err = strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return 0, 0, 0, 0, fmt.Errorf("unexpected desktop bounds reply: %q", out)
		}
	}
	return vals[0], vals[1], vals[2], vals[3], nil
}
