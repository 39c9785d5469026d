package ffmpeg

import (
	"strings"
	"testing"

	"github.com/screentools/recgif/internal/types"
)

func TestGIFDimensions(t *testing.T) {
	region := types.Region{Width: 800, Height: 600}

	tests := []struct {
		name  string
		scale float64
		wantW int
		wantH int
	}{
		{name: "no scale", scale: 0, wantW: 800, wantH: 600},
		{name: "half", scale: 0.5, wantW: 400, wantH: 300},
		{name: "truncates to whole pixels", scale: 0.333, wantW: 266, wantH: 199},
		{name: "upscale", scale: 2, wantW: 1600, wantH: 1200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := GIFDimensions(region, tt.scale)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("GIFDimensions(%v) = %dx%d, want %dx%d",
					tt.scale, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestPaletteFiltersSharePrefix(t *testing.T) {
	for _, scale := range []float64{0, 0.5, 1, 1.7} {
		w, h := GIFDimensions(types.Region{Width: 800, Height: 600}, scale)

		gen := PaletteGenFilter(30, w, h)
		use := PaletteUseFilter(30, w, h)

		prefix := scalePrefix(30, w, h)
		if !strings.HasPrefix(gen, prefix+",") {
			t.Errorf("scale %v: palettegen filter %q missing prefix %q", scale, gen, prefix)
		}
		if !strings.HasPrefix(use, prefix+",") {
			t.Errorf("scale %v: paletteuse filter %q missing prefix %q", scale, use, prefix)
		}
	}
}

func TestPaletteGenFilterHalfScale(t *testing.T) {
	w, h := GIFDimensions(types.Region{Width: 800, Height: 600}, 0.5)
	got := PaletteGenFilter(30, w, h)
	if !strings.Contains(got, "scale=400:300:flags=lanczos") {
		t.Errorf("filter = %q, want scale=400:300:flags=lanczos stage", got)
	}
	if !strings.HasSuffix(got, "palettegen=stats_mode=diff") {
		t.Errorf("filter = %q, want palettegen=stats_mode=diff stage", got)
	}
}

func TestPaletteUseArgs(t *testing.T) {
	args := PaletteUseArgs("rec.mp4", "/tmp/palette.png", "rec.gif", 30, 800, 600)

	if args[0] != "-i" || args[1] != "rec.mp4" || args[2] != "-i" || args[3] != "/tmp/palette.png" {
		t.Errorf("stage 2 must take recording then palette as inputs: %v", args)
	}
	if args[len(args)-1] != "rec.gif" {
		t.Errorf("stage 2 must end with output path: %v", args)
	}
	if !strings.Contains(strings.Join(args, " "),
		"paletteuse=dither=bayer:bayer_scale=5:diff_mode=rectangle") {
		t.Errorf("stage 2 missing paletteuse stage: %v", args)
	}
}
