//go:build filelog
// +build filelog

package build

import "os"

var logf *os.File

// LoggingType indicates the build was compiled to emit LogWriter output
// to a log file; LogWriter.Write does not also copy it to stdout.
const LoggingType = "filelog"

func init() {
	var err error
	logf, err = os.Create("contractcore.log")
	if err != nil {
		panic(err)
	}
}

// Write implements io.Writer by forwarding to the build-tag log file.
func (w *LogWriter) Write(b []byte) (int, error) {
	return logf.Write(b)
}
