package handlers

import (
	"devqa.backend/internal/domain/entities"
	domainerrors "devqa.backend/internal/domain/errors"
	"devqa.backend/internal/interfaces/http/middleware"
	"devqa.backend/internal/interfaces/http/response"
	"devqa.backend/internal/validation"
	"devqa.backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// pathID parses the :id segment. Malformed ids cannot name a stored row,
// so they are reported as not found.
func pathID(c *gin.Context, what string) (uuid.UUID, bool) {
	id, ok := utils.ParseUUID(c.Param("id"))
	if !ok {
		response.Error(c, domainerrors.NotFound(what+" not found"))
		return uuid.Nil, false
	}
	return id, true
}

// authorID returns the session user. RequireAuth guards these routes, the
// check here keeps handlers safe when mounted without it.
func authorID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authentication required"))
		return uuid.Nil, false
	}
	return id, true
}

func bindVote(c *gin.Context) (entities.VoteDirection, bool) {
	var input entities.VoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, validation.Translate(err))
		return "", false
	}
	return input.Value, true
}
