package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/thereayou/noticeboard/internal/apperr"
	"github.com/thereayou/noticeboard/internal/handlers/dto"
	"github.com/thereayou/noticeboard/internal/middleware"
	"github.com/thereayou/noticeboard/internal/models"
)

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.Success(data, ""))
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, dto.Success(data, ""))
}

func respondMessage(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, dto.Success(nil, msg))
}

// fail отдаёт ошибку в ErrorHandler
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
}

// currentUser: пользователь из Auth; на маршрутах без Auth это ошибка конфигурации
func currentUser(c *gin.Context) (*models.User, bool) {
	user, found := middleware.CurrentUser(c)
	if !found {
		fail(c, apperr.Unauthorized("Authentication required. Please log in."))
	}
	return user, found
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		fail(c, apperr.Validation("Validation error").WithField(name, "Must be a valid UUID"))
		return uuid.Nil, false
	}
	return id, true
}
