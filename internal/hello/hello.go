// Package hello is the placeholder command of the starter template. Replace
// it with the real work of the program.
package hello

import "github.com/tungetti/starter/internal/logging"

// Greeting is logged at every severity in hello mode.
const Greeting = "Hello World!"

// Notice is logged when hello mode is off.
const Notice = "This is a Go project template. Use me as a project starter."

// Run logs Greeting once per severity from TRACE to CRITICAL when hello is
// set, and Notice as a warning otherwise.
func Run(logger logging.Logger, hello bool) {
	if !hello {
		logger.Warn(Notice)
		return
	}

	logger.Trace(Greeting)
	logger.Debug(Greeting)
	logger.Info(Greeting)
	logger.Warn(Greeting)
	logger.Error(Greeting)
	logger.Critical(Greeting)
}
