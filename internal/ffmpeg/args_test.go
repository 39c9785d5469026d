package ffmpeg

import (
	"reflect"
	"strings"
	"testing"

	"github.com/screentools/recgif/internal/devices"
	"github.com/screentools/recgif/internal/types"
)

func dshowInput() *devices.Input {
	return &devices.Input{
		Video: devices.Descriptor{
			Format:   "dshow",
			Selector: `video="screen-capture-recorder"`,
		},
	}
}

func baseOptions() types.RecordingOptions {
	return types.RecordingOptions{
		Region: types.Region{X: 0, Y: 0, Width: 800, Height: 600},
		FPS:    30,
		Output: "out.mp4",
	}
}

// contains reports whether needle appears as a consecutive subsequence.
func containsSeq(args, needle []string) bool {
	for i := 0; i+len(needle) <= len(args); i++ {
		if reflect.DeepEqual(args[i:i+len(needle)], needle) {
			return true
		}
	}
	return false
}

func TestArgsDirectShowScenario(t *testing.T) {
	args := Args(baseOptions(), dshowInput())

	for _, pair := range [][]string{
		{"-f", "dshow"},
		{"-i", `video="screen-capture-recorder"`},
		{"-video_size", "800x600"},
		{"-r", "30"},
	} {
		if !containsSeq(args, pair) {
			t.Errorf("args missing %v: %v", pair, args)
		}
	}

	for i, tok := range args {
		if tok == "-t" {
			t.Errorf("unexpected duration flag at %d: %v", i, args)
		}
	}

	n := len(args)
	if n < 3 || args[n-1] != "out.mp4" {
		t.Fatalf("args must end with destination path: %v", args)
	}
	if args[n-3] != "-vf" || args[n-2] != "crop=800:600:0:0" {
		t.Errorf("args must end with crop filter before destination, got %v", args[n-3:])
	}
}

func TestArgsDurationGoesFirst(t *testing.T) {
	opts := baseOptions()
	opts.Duration = 10

	args := Args(opts, dshowInput())
	if args[0] != "-t" || args[1] != "10" {
		t.Errorf("args must begin with -t 10, got %v", args[:2])
	}
}

func TestArgsDeterministic(t *testing.T) {
	opts := baseOptions()
	opts.Audio = true
	opts.Overrides = types.Overrides{
		types.GroupVideo: {"preset": "slow"},
	}
	input := dshowInput()
	input.Audio = &devices.Descriptor{Format: "dshow", Selector: `audio="virtual-audio-capturer"`}

	first := Args(opts, input)
	second := Args(opts, input)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("synthesis not deterministic:\n%v\n%v", first, second)
	}
}

func TestArgsAudioGroups(t *testing.T) {
	opts := baseOptions()
	opts.Audio = true
	input := dshowInput()
	input.Audio = &devices.Descriptor{Format: "dshow", Selector: `audio="virtual-audio-capturer"`}

	args := Args(opts, input)

	if !containsSeq(args, []string{"-i", `audio="virtual-audio-capturer"`}) {
		t.Errorf("args missing audio input pair: %v", args)
	}
	for _, pair := range [][]string{{"-b:a", "128k"}, {"-c:a", "aac"}, {"-ac", "2"}} {
		if !containsSeq(args, pair) {
			t.Errorf("args missing audio default %v: %v", pair, args)
		}
	}

	// Audio input pair must directly follow the video input pair.
	joined := strings.Join(args, " ")
	want := `-i video="screen-capture-recorder" -f dshow -i audio="virtual-audio-capturer"`
	if !strings.Contains(joined, want) {
		t.Errorf("audio input must follow video input: %s", joined)
	}
}

func TestArgsNoAudioOmitsAudioFlags(t *testing.T) {
	args := Args(baseOptions(), dshowInput())
	for _, tok := range args {
		if tok == "-b:a" || tok == "-c:a" || tok == "-ac" || tok == "-q:a" {
			t.Errorf("audio flag %q present with audio disabled: %v", tok, args)
		}
	}
}

func TestArgsOverrides(t *testing.T) {
	tests := []struct {
		name      string
		overrides types.Overrides
		wantPair  []string
	}{
		{
			name:      "override replaces default",
			overrides: types.Overrides{types.GroupVideo: {"preset": "veryslow"}},
			wantPair:  []string{"-preset", "veryslow"},
		},
		{
			name:      "alternate key name",
			overrides: types.Overrides{types.GroupVideo: {"codec": "libx265"}},
			wantPair:  []string{"-c:v", "libx265"},
		},
		{
			name:      "empty override falls back",
			overrides: types.Overrides{types.GroupVideo: {"preset": ""}},
			wantPair:  []string{"-preset", "ultrafast"},
		},
		{
			name:      "zero override falls back",
			overrides: types.Overrides{types.GroupVideo: {"crf": "0"}},
			wantPair:  []string{"-crf", "18"},
		},
		{
			name:      "false override falls back",
			overrides: types.Overrides{types.GroupCommon: {"cursor": "false"}},
			wantPair:  []string{"-draw_mouse", "1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := baseOptions()
			opts.Overrides = tt.overrides

			args := Args(opts, dshowInput())
			if !containsSeq(args, tt.wantPair) {
				t.Errorf("args missing %v: %v", tt.wantPair, args)
			}
		})
	}
}

func TestArgsScaleBeforeCropWithResolution(t *testing.T) {
	opts := baseOptions()
	opts.Region = types.Region{X: 10, Y: 20, Width: 640, Height: 480}
	input := &devices.Input{
		Video:      devices.Descriptor{Format: "avfoundation", Selector: "1:none"},
		Resolution: &types.Resolution{Width: 1440, Height: 900},
	}

	args := Args(opts, input)
	want := []string{"-vf", "scale=1440:900:flags=lanczos,crop=640:480:10:20"}
	if !containsSeq(args, want) {
		t.Errorf("args missing %v: %v", want, args)
	}
}

func TestArgsPairedTokens(t *testing.T) {
	// Every token except the trailing destination must belong to a
	// flag/value pair.
	args := Args(baseOptions(), dshowInput())
	body := args[:len(args)-1]
	if len(body)%2 != 0 {
		t.Fatalf("flag/value tokens not paired: %v", args)
	}
	for i := 0; i < len(body); i += 2 {
		if !strings.HasPrefix(body[i], "-") {
			t.Errorf("token %d = %q, expected a flag", i, body[i])
		}
	}
}
