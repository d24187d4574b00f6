package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/validately/startup-validator-backend/internal/apierr"
	"github.com/validately/startup-validator-backend/internal/services"
)

// MinTitleLength is the submission boundary: idea text shorter than this is
// rejected before the gateway is ever called.
const MinTitleLength = 10

type IdeaHandler struct {
	ideaService services.IdeaService
}

func NewIdeaHandler(ideaService services.IdeaService) *IdeaHandler {
	return &IdeaHandler{ideaService: ideaService}
}

func (ih *IdeaHandler) Validate(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, fmt.Errorf("invalid user id"))
		return
	}
	var req struct {
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, fmt.Errorf("invalid request body"))
		return
	}
	title := strings.TrimSpace(req.Title)
	if len(title) < MinTitleLength {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, fmt.Errorf("idea title must be at least %d characters", MinTitleLength))
		return
	}
	idea, sErr := ih.ideaService.SubmitIdea(c.Request.Context(), userID, title)
	if sErr != nil {
		RespondAPIError(c, sErr)
		return
	}
	RespondOK(c, gin.H{"idea": idea})
}

func (ih *IdeaHandler) ListByUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, fmt.Errorf("invalid user id"))
		return
	}
	ideas, lErr := ih.ideaService.ListIdeas(c.Request.Context(), userID)
	if lErr != nil {
		RespondAPIError(c, lErr)
		return
	}
	RespondOK(c, ideas)
}

func (ih *IdeaHandler) GetAnalysis(c *gin.Context) {
	ideaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, fmt.Errorf("invalid analysis id"))
		return
	}
	idea, gErr := ih.ideaService.GetIdea(c.Request.Context(), ideaID)
	if gErr != nil {
		RespondAPIError(c, gErr)
		return
	}
	RespondOK(c, idea)
}
