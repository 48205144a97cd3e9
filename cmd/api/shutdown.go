package main

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"hellosrv/internal/otel"
)

const (
	// settleTimeout bounds the wait for released greetings to record their
	// outcome. It covers the journal write timeout.
	settleTimeout = 3 * time.Second
	flushTimeout  = 5 * time.Second
)

// stopServer shuts app down within grace. Greetings still pending when grace
// runs out are released through drain and given settleTimeout to finish
// before tracing is flushed on a fresh context.
func stopServer(app *fiber.App, grace time.Duration, drain context.CancelFunc, pending func() int64, flush otel.ShutdownFunc, log logrus.FieldLogger) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	stopDrain := context.AfterFunc(shutdownCtx, drain)
	defer stopDrain()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.WithError(err).Warn("server shutdown incomplete")
	}
	drain()

	if n := waitSettled(pending, settleTimeout); n > 0 {
		log.WithField("pending", n).Warn("pending greetings did not settle")
	}

	flushCtx, cancelFlush := context.WithTimeout(context.Background(), flushTimeout)
	defer cancelFlush()
	if err := flush(flushCtx); err != nil {
		log.WithError(err).Warn("tracer shutdown failed")
	}
}

// waitSettled polls pending until it reaches zero or timeout elapses and
// returns the last observed count.
func waitSettled(pending func() int64, timeout time.Duration) int64 {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	tick := time.NewTicker(10 * time.Millisecond)
	defer tick.Stop()

	for {
		n := pending()
		if n == 0 {
			return 0
		}
		select {
		case <-deadline.C:
			return n
		case <-tick.C:
		}
	}
}
