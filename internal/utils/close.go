package utils

import (
	"io"

	"github.com/dankservices/blog-site/internal/logger"
)

// drainLimit bounds how much of an unread body is discarded before close,
// enough to let the transport reuse the connection.
const drainLimit = 64 << 10

// DrainClose discards what is left of an HTTP body and closes it.
func DrainClose(rc io.ReadCloser) {
	if rc == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, drainLimit))
	_ = rc.Close()
}

// LogClose closes c and logs a warning on failure.
func LogClose(c io.Closer, log logger.Logger, what string) {
	if err := c.Close(); err != nil {
		log.Warn("failed to close", logger.String("resource", what), logger.Error(err))
	}
}
