package controllers

import (
	"net/http"

	"cep-tracker-api/config"
	"cep-tracker-api/models"

	"github.com/gin-gonic/gin"
)

// GetDashboard returns the work queues for the caller's role, mirroring the
// old gestor/relator home pages.
func GetDashboard(c *gin.Context) {
	roleID, _ := c.Get("roleID")
	userID, _ := c.Get("userID")

	switch roleID {
	case models.RoleGestorID, models.RoleAdminID:
		gestorDashboard(c)
	case models.RoleRelatorID:
		relatorDashboard(c, userID.(int))
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "Seu usuário não está configurado como gestor ou relator"})
	}
}

func gestorDashboard(c *gin.Context) {
	var paraDesignar, emAndamento, concluidos []models.Projeto

	if err := config.DB.Preload("Pesquisador").
		Where("status = ?", models.StatusNovo).
		Order("data_submissao ASC").
		Find(&paraDesignar).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dashboard"})
		return
	}

	if err := config.DB.Preload("Pesquisador").Preload("RelatorDesignado").
		Where("status IN ?", []string{models.StatusEmAnalise, models.StatusPendente}).
		Order("data_submissao ASC").
		Find(&emAndamento).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dashboard"})
		return
	}

	if err := config.DB.Preload("Pesquisador").Preload("RelatorDesignado").
		Where("status IN ?", []string{models.StatusAprovado, models.StatusReprovado}).
		Order("data_submissao DESC").
		Find(&concluidos).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dashboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"perfil":        "gestor",
		"para_designar": paraDesignar,
		"em_andamento":  emAndamento,
		"concluidos":    concluidos,
	})
}

func relatorDashboard(c *gin.Context, userID int) {
	var paraAnalisar, concluidos []models.Projeto

	if err := config.DB.Preload("Pesquisador").
		Where("relator_designado_id = ? AND status = ?", userID, models.StatusEmAnalise).
		Order("data_submissao ASC").
		Find(&paraAnalisar).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dashboard"})
		return
	}

	if err := config.DB.Preload("Pesquisador").
		Where("relator_designado_id = ? AND status <> ?", userID, models.StatusEmAnalise).
		Order("data_submissao DESC").
		Find(&concluidos).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dashboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"perfil":        "relator",
		"para_analisar": paraAnalisar,
		"concluidos":    concluidos,
	})
}
