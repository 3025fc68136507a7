package kafka

import (
	"io"

	"stopshot/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Output: io.Discard, Service: "test"})
}
