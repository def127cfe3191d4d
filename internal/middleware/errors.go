package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/thereayou/noticeboard/internal/apperr"
	"github.com/thereayou/noticeboard/internal/handlers/dto"
)

// ErrorHandler превращает последнюю ошибку из c.Errors в ответ-конверт.
// Хендлеры сами ошибки не пишут: c.Error(err) и return.
func ErrorHandler(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}

		e := apperr.From(last.Err)
		if e.Status >= http.StatusInternalServerError {
			log.WithFields(logrus.Fields{
				"method": c.Request.Method,
				"path":   c.Request.URL.Path,
				"error":  last.Err.Error(),
			}).Error("request failed")
		}

		c.AbortWithStatusJSON(e.Status, dto.Failure(e.Message, e.Fields))
	}
}

// NotFound отвечает на неизвестные маршруты тем же конвертом
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.Failure("Route not found", nil))
	}
}
