package web

import (
	"errors"
	"net/http"

	"tipster/domain"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

var statusByKind = map[domain.ErrorKind]int{
	domain.KindUnauthenticated:    http.StatusUnauthorized,
	domain.KindUnauthorized:       http.StatusForbidden,
	domain.KindValidationFailure:  http.StatusBadRequest,
	domain.KindNotFound:           http.StatusNotFound,
	domain.KindPersistenceFailure: http.StatusInternalServerError,
}

// respondError writes err as JSON with the status of its domain kind.
// Causes are logged, never returned to the client.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	kind := domain.ErrorKind("internal")
	message := "internal error"

	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		kind = domainErr.Kind
		if s, ok := statusByKind[kind]; ok {
			status = s
		}
		if domainErr.Message != "" {
			message = domainErr.Message
		}
	}

	if status >= http.StatusInternalServerError {
		log.WithFields(log.Fields{
			"path":  c.FullPath(),
			"error": err,
		}).Error("Request failed")
	}

	c.AbortWithStatusJSON(status, gin.H{
		"error": message,
		"kind":  kind,
	})
}

// respondRedirect writes a gate denial with the navigation target the client should follow
func respondRedirect(c *gin.Context, err *domain.Error, to string) {
	c.AbortWithStatusJSON(statusByKind[err.Kind], gin.H{
		"error":    err.Message,
		"kind":     err.Kind,
		"redirect": to,
	})
}

func badRequest(c *gin.Context, message string) {
	respondError(c, domain.NewValidationFailure("%s", message))
}
