package stubapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// requestLogger пишет по одной записи на запрос; ответы с кодом >= 300 уровнем warn.
// Ошибка обработчика превращается в ответ здесь же, чтобы в лог попал итоговый статус.
func requestLogger(logger *log.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			if handlerErr := errorHandler(c, err); handlerErr != nil {
				return handlerErr
			}
		}
		if c.Method() == fiber.MethodOptions {
			return nil
		}

		fields := log.Fields{
			"method":  c.Method(),
			"path":    c.Path(),
			"status":  c.Response().StatusCode(),
			"latency": time.Since(start).String(),
		}
		if id := c.Get(fiber.HeaderXRequestID); id != "" {
			fields["request_id"] = id
		}

		entry := logger.WithFields(fields)
		if err != nil {
			entry = entry.WithError(err)
		}
		if c.Response().StatusCode() >= 300 {
			entry.Warn("запрос api")
		} else {
			entry.Info("запрос api")
		}
		return nil
	}
}
