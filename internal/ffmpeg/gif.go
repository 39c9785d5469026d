package ffmpeg

import (
	"fmt"

	"github.com/screentools/recgif/internal/types"
)

// GIFDimensions returns the target GIF size: the capture region scaled by
// the optional factor, truncated to whole pixels.
func GIFDimensions(region types.Region, scale float64) (int, int) {
	if scale <= 0 {
		return region.Width, region.Height
	}
	return int(float64(region.Width) * scale), int(float64(region.Height) * scale)
}

// scalePrefix is the filter prefix shared verbatim by both transcode
// stages. Palette generation and palette use must see identical fps and
// scale stages or the palette will not match the frames it is applied to.
func scalePrefix(fps, width, height int) string {
	return fmt.Sprintf("fps=%d,scale=%d:%d:flags=lanczos", fps, width, height)
}

// PaletteGenFilter is the stage-1 filter chain: analyze frames and write an
// optimal color palette, weighting frame-to-frame differences.
func PaletteGenFilter(fps, width, height int) string {
	return scalePrefix(fps, width, height) + ",palettegen=stats_mode=diff"
}

// PaletteUseFilter is the stage-2 filter chain: re-encode constrained to
// the generated palette with ordered dithering.
func PaletteUseFilter(fps, width, height int) string {
	return scalePrefix(fps, width, height) +
		",paletteuse=dither=bayer:bayer_scale=5:diff_mode=rectangle"
}

// PaletteGenArgs builds the stage-1 invocation: recording in, palette
// image out.
func PaletteGenArgs(recording, palette string, fps, width, height int) []string {
	return []string{
		"-i", recording,
		"-vf", PaletteGenFilter(fps, width, height),
		"-y", palette,
	}
}

// PaletteUseArgs builds the stage-2 invocation: recording plus palette in,
// animated GIF out.
func PaletteUseArgs(recording, palette, output string, fps, width, height int) []string {
	return []string{
		"-i", recording,
		"-i", palette,
		"-lavfi", PaletteUseFilter(fps, width, height),
		"-y", output,
	}
}
