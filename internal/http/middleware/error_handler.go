package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/voyagabagae/backend/internal/logger"
	"github.com/voyagabagae/backend/internal/pkg/apperror"
)

// ErrorHandler обрабатывает ошибки централизованно. Обработчики кладут ошибку
// через c.Error и выходят; сюда стекаются ошибки валидации, доменные ошибки
// и всё остальное. Внутренние ошибки маскируются общим сообщением.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		// Ошибки полей формы возвращаются картой "поле -> сообщение",
		// как их ожидает форма на фронтенде.
		var vErr *apperror.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, gin.H{"errors": vErr.Fields})
			return
		}

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			c.JSON(appErr.HTTPStatus, gin.H{"error": appErr.Message})
			return
		}

		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"error":  err.Error(),
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).Error("Request error")
		}

		c.JSON(http.StatusInternalServerError, gin.H{"error": "Une erreur est survenue. Veuillez réessayer."})
	}
}
