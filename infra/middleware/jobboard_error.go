package middleware

import (
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"jobboard_server/pkg/apperr"
	"jobboard_server/pkg/logger"
	"jobboard_server/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
)

// ErrorHandler is the single place returned errors become envelopes.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		requestID, _ := c.Locals(LocalsRequest).(string)

		var fe *fiber.Error
		if errors.As(err, &fe) && !apperr.IsAppError(err) {
			err = fromFiberError(fe)
		}

		appErr := apperr.AsAppError(err)
		log := logger.WithField("request_id", requestID).
			WithField("error_code", appErr.Code).
			WithError(appErr.Err)

		if appErr.Status >= fiber.StatusInternalServerError && appErr.Code != apperr.CodeNotImplemented {
			log.Error("Internal error: %s %s: %s", c.Method(), c.Path(), appErr.Message)
		} else {
			log.Debug("Client error: %s", appErr.Message)
		}

		return response.Error(c, appErr)
	}
}

func fromFiberError(fe *fiber.Error) *apperr.AppError {
	switch fe.Code {
	case fiber.StatusNotFound:
		return apperr.NotFound("Route not found")
	case fiber.StatusMethodNotAllowed:
		return apperr.New(apperr.CodeBadRequest, "Method not allowed", fe.Code)
	case fiber.StatusRequestEntityTooLarge:
		return apperr.BadRequest("File is too large")
	case fiber.StatusTooManyRequests:
		return apperr.New(apperr.CodeRateLimited, "Too many requests, please try again later", fe.Code)
	case fiber.StatusUnprocessableEntity, fiber.StatusBadRequest:
		return apperr.BadRequest(fe.Message)
	default:
		if fe.Code >= fiber.StatusInternalServerError {
			return apperr.Internal("An unexpected error occurred").WithError(fe)
		}
		return apperr.New(apperr.CodeBadRequest, fe.Message, fe.Code)
	}
}

// RequestID adds a unique request ID to each request
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := utils.CopyString(c.Get(fiber.HeaderXRequestID))
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.New().String()
		}
		c.Locals(LocalsRequest, requestID)
		c.Set(fiber.HeaderXRequestID, requestID)
		return c.Next()
	}
}

// RequestLogger logs every request with its outcome. Errors are rendered by
// the error handler before the status is read.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()
		if err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
			err = nil
		}

		requestID, _ := c.Locals(LocalsRequest).(string)
		status := c.Response().StatusCode()
		log := logger.WithFields(map[string]any{
			"request_id":  requestID,
			"method":      c.Method(),
			"path":        c.Path(),
			"status":      status,
			"duration_ms": float64(time.Since(start).Microseconds()) / 1000.0,
			"ip":          c.IP(),
		})
		if userID, ok := c.Locals(LocalsUserID).(uuid.UUID); ok {
			log = log.WithField("user_id", userID.String())
		}

		switch {
		case status >= 500:
			log.Error("Request failed: %s %s -> %d", c.Method(), c.Path(), status)
		case status >= 400:
			log.Warn("Request error: %s %s -> %d", c.Method(), c.Path(), status)
		default:
			log.Info("Request completed: %s %s -> %d", c.Method(), c.Path(), status)
		}

		return err
	}
}

// Recover turns a panic into a 500 envelope.
func Recover() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				requestID, _ := c.Locals(LocalsRequest).(string)
				logger.WithFields(map[string]any{
					"request_id": requestID,
					"panic":      fmt.Sprintf("%v", r),
					"path":       c.Path(),
					"method":     c.Method(),
					"stack":      string(debug.Stack()),
				}).Error("Panic recovered")

				err = apperr.Internal("An unexpected error occurred").WithError(fmt.Errorf("panic: %v", r))
			}
		}()
		return c.Next()
	}
}
