package bbcode

import (
	"log"
	"os"
)

type packageOptions struct {
	debug bool
}

var (
	options = packageOptions{}
	logger  = log.New(os.Stderr, "[bbcode] ", log.LstdFlags)
)

// SetDebug turns the package's debug logging on or off. Off by default.
// When on, the tree builder logs one line per recovery event (degrade to
// text, auto-close, depth limit) and the registry logs every custom tag
// that shadows a built-in one. No caller-visible error is ever raised by
// these events; this is purely a diagnostic aid.
func SetDebug(b bool) {
	options.debug = b
}

func logf(format string, items ...any) {
	if options.debug {
		logger.Printf(format, items...)
	}
}
