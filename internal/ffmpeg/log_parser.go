package ffmpeg

import "strings"

// ParseLogLevel splits a line of encoder stderr into a severity and a
// message, so the supervisor can route encoder chatter through slog at
// the right level. With -loglevel level+info the encoder prefixes lines
// as "[info] message", or "[component @ 0x...] [level] message" for
// component logs. The [level] tag is stripped; a component prefix is
// kept because it identifies the muxer or codec that spoke. Lines with
// no recognizable tag pass through at info.
func ParseLogLevel(line string) (level, msg string) {
	if len(line) < 3 || line[0] != '[' {
		return "info", line
	}

	end := strings.Index(line, "] ")
	if end == -1 {
		return "info", line
	}

	bracket := line[1:end]

	if isLogLevel(bracket) {
		return bracket, line[end+2:]
	}

	// Check for component prefix: [component @ 0x...] [level] message
	// Keep the component, strip only the [level]
	component := line[:end+2]
	rest := line[end+2:]
	if len(rest) > 2 && rest[0] == '[' {
		if nextEnd := strings.Index(rest, "] "); nextEnd != -1 {
			nextBracket := rest[1:nextEnd]
			if isLogLevel(nextBracket) {
				return nextBracket, component + rest[nextEnd+2:]
			}
		}
	}

	return "info", line
}

func isLogLevel(s string) bool {
	switch s {
	case "quiet", "panic", "fatal", "error", "warning", "info", "verbose", "debug", "trace":
		return true
	}
	return false
}
