package devices

// resolveX11Grab selects the fixed X11 display address. When audio is
// requested the default PulseAudio source is added; there is no discovery
// scan on this platform.
func (r *Resolver) resolveX11Grab(withAudio bool) *Input {
	input := &Input{
		Video: Descriptor{
			Format:   "x11grab",
			Selector: ":0.0",
		},
	}
	if withAudio {
		input.Audio = &Descriptor{
			Format:   "pulse",
			Selector: "default",
		}
	}
	return input
}
