package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	activityuc "github.com/khoahotran/cv-portfolio/internal/application/usecase/activity"
	authUC "github.com/khoahotran/cv-portfolio/internal/application/usecase/auth"
	"github.com/khoahotran/cv-portfolio/internal/domain/admin"
	"github.com/khoahotran/cv-portfolio/pkg/apperror"
	"github.com/khoahotran/cv-portfolio/pkg/logger"
)

const (
	GinContextKeySession = "adminSession"
)

// RequestInfoMiddleware makes the caller's user agent and address available to the
// activity log.
func RequestInfoMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := activityuc.WithRequestInfo(c.Request.Context(), c.Request.UserAgent(), c.ClientIP())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == authHeader {
		return "", false
	}
	return token, true
}

// AuthMiddleware admits requests whose bearer token matches the active admin session
// and counts them as activity for the idle watchdog.
func AuthMiddleware(gate *authUC.Gate, watchdog *authUC.Watchdog, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		session, err := gate.CheckValidity(c.Request.Context(), token)
		if err != nil {
			log.Debug("Rejected admin request", zap.String("path", c.FullPath()), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			return
		}
		if watchdog != nil {
			watchdog.Touch()
		}

		c.Set(GinContextKeySession, session)
		c.Request = c.Request.WithContext(admin.NewContext(c.Request.Context(), session))
		c.Next()
	}
}

func GetSessionFromGinContext(c *gin.Context) (*admin.Session, bool) {
	v, ok := c.Get(GinContextKeySession)
	if !ok {
		return nil, false
	}
	session, ok := v.(*admin.Session)
	return session, ok && session != nil
}

// RequirePermission must run after AuthMiddleware.
func RequirePermission(resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, _ := GetSessionFromGinContext(c)
		if !authUC.HasPermission(session, resource, action) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   apperror.ErrPermission.Error(),
				"message": "missing permission " + resource + "." + action,
			})
			return
		}
		c.Next()
	}
}

// ErrorMiddleware renders the last error a handler attached with c.Error.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status := apperror.ToHTTPStatus(err)

		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			appErr = apperror.NewInternal("unexpected error", err)
			status = http.StatusInternalServerError
		}
		if status >= http.StatusInternalServerError {
			log.Error("Request failed", err, zap.String("path", c.FullPath()), zap.String("method", c.Request.Method))
			c.JSON(status, gin.H{"error": apperror.ErrInternal.Error(), "message": "An internal server error occurred"})
			return
		}
		c.JSON(status, appErr.ToJSON())
	}
}
