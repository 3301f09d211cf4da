// FILE: elklog/src/cmd/elklog/signal.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lixenwraith/log"
)

// Cancels the command context on the first termination signal so a long
// stdin emit stops between records and still closes its sinks.
type SignalHandler struct {
	logger  *log.Logger
	sigChan chan os.Signal
	done    chan struct{}
}

// Creates a signal handler
func NewSignalHandler(logger *log.Logger) *SignalHandler {
	sh := &SignalHandler{
		logger:  logger,
		sigChan: make(chan os.Signal, 1),
		done:    make(chan struct{}),
	}

	signal.Notify(sh.sigChan, syscall.SIGINT, syscall.SIGTERM)

	return sh
}

// Watches for signals until Stop, cancelling on the first one
func (sh *SignalHandler) Watch(cancel context.CancelFunc) {
	go func() {
		select {
		case sig := <-sh.sigChan:
			if sh.logger != nil {
				sh.logger.Info("msg", "Termination signal received, finishing current record",
					"signal", sig)
			}
			cancel()
		case <-sh.done:
		}
	}()
}

// Cleans up signal handling
func (sh *SignalHandler) Stop() {
	signal.Stop(sh.sigChan)
	close(sh.done)
}
