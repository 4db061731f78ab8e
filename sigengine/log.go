package sigengine

import "github.com/decred/slog"

// log is this package's logger, a no-op until UseLogger is called.
var log = slog.Disabled

// UseLogger sets the package-wide logger. This should be called before
// the package is used if you want timestamped logs.
func UseLogger(logger slog.Logger) {
	log = logger
}
