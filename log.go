// Package contractcore ties together the assurance-contract components:
// value/script primitives, the transaction model, the signature engine,
// project descriptors, the pledge verifier, the contract assembler, owner
// authentication, and the pledging wallet core.
package contractcore

import (
	"github.com/decred/slog"
	"github.com/pledgeforge/contractcore/build"
	"github.com/pledgeforge/contractcore/contract"
	"github.com/pledgeforge/contractcore/ownerauth"
	"github.com/pledgeforge/contractcore/pledge"
	"github.com/pledgeforge/contractcore/sigengine"
	"github.com/pledgeforge/contractcore/wallet"
)

// replaceableLogger is a thin wrapper around a logger so the backing
// implementation can be swapped once the root logger is ready, without
// pointer tricks at every call site.
type replaceableLogger struct {
	slog.Logger
	subsystem string
}

var (
	// pkgLoggers tracks every package-level logger declared here so
	// SetupLoggers can replace them in one pass once a root logger
	// exists.
	pkgLoggers []*replaceableLogger

	addPkgLogger = func(subsystem string) *replaceableLogger {
		l := &replaceableLogger{
			Logger:    build.NewSubLogger(subsystem, nil),
			subsystem: subsystem,
		}
		pkgLoggers = append(pkgLoggers, l)
		return l
	}

	// coreLog is used for top-level, cross-component lifecycle events.
	coreLog = addPkgLogger("CORE")
)

// SetupLoggers wires every component's sub-logger to the given root log
// writer. It must be called once, early, before any component does
// meaningful work; until then every logger is a no-op.
func SetupLoggers(root *build.RotatingLogWriter) {
	for _, l := range pkgLoggers {
		l.Logger = build.NewSubLogger(l.subsystem, root.GenSubLogger)
		SetSubLogger(root, l.subsystem, l.Logger)
	}

	AddSubLogger(root, "SIGN", sigengine.UseLogger)
	AddSubLogger(root, "PLDG", pledge.UseLogger)
	AddSubLogger(root, "CTRC", contract.UseLogger)
	AddSubLogger(root, "OWNA", ownerauth.UseLogger)
	AddSubLogger(root, "WLLT", wallet.UseLogger)
}

// AddSubLogger creates and registers the logger for one subsystem, then
// hands it to every useLogger callback so the owning package picks it up.
func AddSubLogger(root *build.RotatingLogWriter, subsystem string,
	useLoggers ...func(slog.Logger)) {

	logger := build.NewSubLogger(subsystem, root.GenSubLogger)
	SetSubLogger(root, subsystem, logger, useLoggers...)
}

// SetSubLogger registers the given logger under the given subsystem name
// and forwards it to every useLogger callback.
func SetSubLogger(root *build.RotatingLogWriter, subsystem string,
	logger slog.Logger, useLoggers ...func(slog.Logger)) {

	root.RegisterSubLogger(subsystem, logger)
	for _, useLogger := range useLoggers {
		useLogger(logger)
	}
}

// logClosure defers an expensive log message until the logger decides it
// actually needs the string.
type logClosure func() string

// String invokes the underlying function and returns the result.
func (c logClosure) String() string {
	return c()
}

func newLogClosure(c func() string) logClosure {
	return logClosure(c)
}
