// Package ffmpeg synthesizes argument lists for the external encoder and
// parses its log output. Synthesis is pure: the same intent and resolved
// devices always produce the same token sequence, and the group order is a
// compatibility surface — reordering groups changes encoder behavior.
package ffmpeg

import (
	"fmt"
	"strconv"

	"github.com/screentools/recgif/internal/devices"
	"github.com/screentools/recgif/internal/types"
)

// Flag is one default-table entry. Key is the override lookup name when it
// differs from the encoder flag; empty means the flag name without its dash.
type Flag struct {
	Name  string
	Key   string
	Value string
}

// Default parameter tables. Process-wide constants; never mutated. Order
// within each group is the emission order.
var defaults = map[types.FlagGroup][]Flag{
	types.GroupCommon: {
		{Name: "-threads", Value: "4"},
		{Name: "-draw_mouse", Key: "cursor", Value: "1"},
	},
	types.GroupAudio: {
		{Name: "-b:a", Key: "bitrate", Value: "128k"},
		{Name: "-c:a", Key: "codec", Value: "aac"},
		{Name: "-ac", Key: "channels", Value: "2"},
		{Name: "-q:a", Key: "quality", Value: "1"},
	},
	types.GroupVideo: {
		{Name: "-preset", Value: "ultrafast"},
		{Name: "-crf", Value: "18"},
		{Name: "-c:v", Key: "codec", Value: "libx264"},
	},
}

// truthy reports whether an override value replaces the table default.
// Empty string, "0" and "false" deliberately fall back to the default: this
// mirrors the tool's historical truthiness merge, and callers depend on a
// zero value meaning "use the default", not "suppress the flag".
func truthy(v string) bool {
	return v != "" && v != "0" && v != "false"
}

// effective returns the flag value after applying the override mapping.
func effective(overrides types.Overrides, group types.FlagGroup, f Flag) string {
	key := f.Key
	if key == "" {
		key = f.Name[1:]
	}
	if v, ok := overrides[group][key]; ok && truthy(v) {
		return v
	}
	return f.Value
}

// groupArgs emits a default group as adjacent flag/value token pairs.
func groupArgs(overrides types.Overrides, group types.FlagGroup) []string {
	args := make([]string, 0, 2*len(defaults[group]))
	for _, f := range defaults[group] {
		args = append(args, f.Name, effective(overrides, group, f))
	}
	return args
}

// Args builds the full encoder invocation for a recording. The assembly
// order is fixed: common group, duration (front-inserted), frame rate,
// geometry, video device, audio device and group, video group, filter
// graph, destination path.
func Args(opts types.RecordingOptions, input *devices.Input) []string {
	args := groupArgs(opts.Overrides, types.GroupCommon)

	// Global options must precede per-stream options, so the duration flag
	// goes at the very front of the list.
	if opts.Duration > 0 {
		duration := strconv.FormatFloat(opts.Duration, 'f', -1, 64)
		args = append([]string{"-t", duration}, args...)
	}

	args = append(args,
		"-r", strconv.Itoa(opts.FPS),
		"-video_size", opts.Region.Size(),
		"-f", input.Video.Format,
		"-i", input.Video.Selector,
	)

	if opts.Audio && input.Audio != nil {
		args = append(args, "-f", input.Audio.Format, "-i", input.Audio.Selector)
	}
	if opts.Audio {
		args = append(args, groupArgs(opts.Overrides, types.GroupAudio)...)
	}

	args = append(args, groupArgs(opts.Overrides, types.GroupVideo)...)
	args = append(args, "-vf", captureFilter(opts.Region, input.Resolution))
	args = append(args, opts.Output)

	return args
}

// captureFilter crops the encoder output to the capture region. When the
// resolver reported a physical screen resolution, the frame is first scaled
// to it so window-geometry coordinates line up with the encoder's view.
func captureFilter(region types.Region, res *types.Resolution) string {
	crop := fmt.Sprintf("crop=%d:%d:%d:%d", region.Width, region.Height, region.X, region.Y)
	if res == nil {
		return crop
	}
	return fmt.Sprintf("scale=%d:%d:flags=lanczos,%s", res.Width, res.Height, crop)
}
