package logger

import (
	"github.com/charmbracelet/log"
)

// Setup points the package-level charm logger at stderr and picks the level:
// debug shows timestamps and everything, otherwise only warnings and errors.
func Setup(debug bool) {
	log.SetOutput(output)
	if debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
		return
	}
	log.SetLevel(log.WarnLevel)
	log.SetReportTimestamp(false)
}
