package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDLocal  = "requestid"
)

// RequestID returns the request id stored by RequestLogger, if any.
func RequestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDLocal).(string)
	return id
}

// RequestLogger creates a new middleware handler for structured request logging with Logrus.
// An incoming X-Request-ID is reused, otherwise a new one is generated; either way it is
// echoed on the response.
func RequestLogger(log *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID := c.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Locals(requestIDLocal, requestID)
		c.Set(RequestIDHeader, requestID)

		err := c.Next()

		latency := time.Since(start)
		statusCode := c.Response().StatusCode()
		if err != nil {
			statusCode = fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				statusCode = fe.Code
			}
		}

		logEntry := log.WithFields(logrus.Fields{
			"request_id":  requestID,
			"http_method": c.Method(),
			"uri":         c.OriginalURL(),
			"status_code": statusCode,
			"latency_ms":  latency.Milliseconds(),
			"client_ip":   c.IP(),
			"user_agent":  string(c.Request().Header.UserAgent()),
		})

		if err != nil {
			logEntry = logEntry.WithField("error", err.Error())
		}

		// The error is still returned so the app's error handler writes the response.
		switch {
		case statusCode >= 500:
			logEntry.Error("Request completed with server error")
		case statusCode >= 400:
			logEntry.Warn("Request completed with client error")
		default:
			logEntry.Info("Request completed successfully")
		}

		return err
	}
}
