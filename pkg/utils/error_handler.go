package utils

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// ErrorHandler logs a store-level failure and wraps it with context.
// Domain errors are expected outcomes and never go through here.
func ErrorHandler(err error, message string) error {
	if err != nil {
		Logger.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Error(message)
		return fmt.Errorf("%s: %w", message, err)
	}
	return nil
}
