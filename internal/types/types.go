// Package types holds the shared recording types consumed by the devices,
// ffmpeg and capture packages. It sits below all of them to avoid import
// cycles.
package types

import "fmt"

// Region is a rectangular screen area in pixel coordinates.
type Region struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Size returns the region dimensions as an ffmpeg geometry string (WxH).
func (r Region) Size() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// Resolution is a physical screen size, reported only on platforms where
// desktop geometry is queried independently of the capture region.
type Resolution struct {
	Width  int
	Height int
}

// FlagGroup identifies one of the three default parameter tables.
type FlagGroup string

const (
	GroupCommon FlagGroup = "common"
	GroupAudio  FlagGroup = "audio"
	GroupVideo  FlagGroup = "video"
)

// Overrides maps a flag group to per-flag override values. Override keys are
// flag names without the leading dash (or an alternate key where documented).
type Overrides map[FlagGroup]map[string]string

// RecordingOptions is the immutable intent for one recording invocation.
type RecordingOptions struct {
	Region     Region
	FPS        int
	Duration   float64 // seconds; 0 means unbounded
	Audio      bool
	Output     string // destination file path
	FFmpegPath string // encoder binary; empty disables optional post-processing
	Overrides  Overrides
}
