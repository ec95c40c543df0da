package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cartshield/cartshield/internal/services"
)

// DecisionHandler exposes the fraud decision audit trail.
type DecisionHandler struct {
	decisions *services.DecisionService
}

func NewDecisionHandler(decisions *services.DecisionService) *DecisionHandler {
	return &DecisionHandler{decisions: decisions}
}

func (h *DecisionHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	decisions, err := h.decisions.List(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load decisions"})
		return
	}

	c.JSON(http.StatusOK, decisions)
}
