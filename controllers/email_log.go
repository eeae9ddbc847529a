package controllers

import (
	"net/http"
	"strconv"

	"cep-tracker-api/config"
	"cep-tracker-api/models"

	"github.com/gin-gonic/gin"
)

// GetEmailLogs lists the dispatch history of the daily routines, newest first.
// Supports ?run_id=, ?projeto_id= and ?limit= (default 100).
func GetEmailLogs(c *gin.Context) {
	query := config.DB.Model(&models.EmailLog{})

	if runID := c.Query("run_id"); runID != "" {
		query = query.Where("run_id = ?", runID)
	}
	if projetoID := c.Query("projeto_id"); projetoID != "" {
		id, err := strconv.Atoi(projetoID)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid projeto_id"})
			return
		}
		query = query.Where("projeto_id = ?", id)
	}

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}

	var logs []models.EmailLog
	if err := query.Order("horario DESC").Limit(limit).Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch email logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"logs":    logs,
		"total":   len(logs),
	})
}
