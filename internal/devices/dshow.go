package devices

// resolveDirectShow selects the fixed pair of DirectShow virtual devices.
// No discovery scan is needed; the selectors are literal device names
// installed alongside the screen-capture-recorder driver.
func (r *Resolver) resolveDirectShow(withAudio bool) *Input {
	input := &Input{
		Video: Descriptor{
			Format:   "dshow",
			Selector: `video="screen-capture-recorder"`,
		},
	}
	if withAudio {
		input.Audio = &Descriptor{
			Format:   "dshow",
			Selector: `audio="virtual-audio-capturer"`,
		}
	}
	return input
}
