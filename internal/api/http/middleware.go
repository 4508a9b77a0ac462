package http

import (
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/timecard-bot/internal/auth"
	"github.com/spec-kit/timecard-bot/internal/observability"
	"github.com/spec-kit/timecard-bot/pkg/util"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics) {
	app.Use(errorHandlingMiddleware(logger, metrics))
	app.Use(observability.RequestLogger(logger, metrics))
}

// SlackSignatureMiddleware rejects requests whose v0 signature does not
// verify against the raw body. Applied to every /slack route.
func SlackSignatureMiddleware(verifier *auth.SignatureVerifier, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		timestamp := c.Get("X-Slack-Request-Timestamp")
		signature := c.Get("X-Slack-Signature")
		if err := verifier.Verify(timestamp, signature, c.Body()); err != nil {
			logger.Warn("rejected unsigned request",
				zap.String("path", c.Path()),
				zap.Error(err))
			return util.NewUnauthorized("invalid request signature")
		}
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = util.NewPersistenceError(nil)
			}
			if err != nil {
				domainErr := util.ToDomainError(err)
				if metrics != nil {
					metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
				}
				response := fiber.Map{"error": fiber.Map{
					"code":    domainErr.Code,
					"message": domainErr.Message,
				}}
				if len(domainErr.Details) > 0 {
					response["error"].(fiber.Map)["details"] = domainErr.Details
				}
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed", zap.Error(domainErr))
				}
				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(response)
				err = nil
			}
		}()
		return c.Next()
	}
}
