package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"cep-tracker-api/config"
	"cep-tracker-api/models"
	"cep-tracker-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PesquisadorRequest struct {
	Nome     string  `json:"nome" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Telefone *string `json:"telefone"`
}

// GetPesquisadores lists researchers, optionally filtered by ?q= over name and
// e-mail.
func GetPesquisadores(c *gin.Context) {
	query := config.DB.Model(&models.Pesquisador{})

	if q := utils.SanitizeInput(c.Query("q")); q != "" {
		like := "%" + q + "%"
		query = query.Where("nome LIKE ? OR email LIKE ?", like, like)
	}

	var pesquisadores []models.Pesquisador
	if err := query.Order("nome ASC").Find(&pesquisadores).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pesquisadores"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"pesquisadores": pesquisadores,
		"total":         len(pesquisadores),
	})
}

// GetPesquisador returns one researcher with their projects.
func GetPesquisador(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pesquisador ID"})
		return
	}

	var pesquisador models.Pesquisador
	if err := config.DB.First(&pesquisador, "pesquisador_id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pesquisador não encontrado"})
		return
	}

	var projetos []models.Projeto
	if err := config.DB.Where("pesquisador_id = ?", id).
		Order("data_submissao DESC").
		Find(&projetos).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projetos"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"pesquisador": pesquisador,
		"projetos":    projetos,
	})
}

// CreatePesquisador registers a researcher (administrative onboarding).
func CreatePesquisador(c *gin.Context) {
	var req PesquisadorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pesquisador := models.Pesquisador{
		Nome:     utils.SanitizeInput(req.Nome),
		Email:    utils.SanitizeInput(req.Email),
		Telefone: req.Telefone,
		CreateAt: time.Now(),
	}

	var existing models.Pesquisador
	if err := config.DB.Where("email = ?", pesquisador.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Já existe um pesquisador com este e-mail"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create pesquisador"})
		return
	}

	if err := config.DB.Create(&pesquisador).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create pesquisador"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "pesquisador": pesquisador})
}

// UpdatePesquisador edits name, e-mail and phone. Identity (the row itself) is
// never replaced while projects reference it.
func UpdatePesquisador(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pesquisador ID"})
		return
	}

	var req PesquisadorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var pesquisador models.Pesquisador
	if err := config.DB.First(&pesquisador, "pesquisador_id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pesquisador não encontrado"})
		return
	}

	now := time.Now()
	pesquisador.Nome = utils.SanitizeInput(req.Nome)
	pesquisador.Email = utils.SanitizeInput(req.Email)
	pesquisador.Telefone = req.Telefone
	pesquisador.UpdateAt = &now

	if err := config.DB.Save(&pesquisador).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update pesquisador"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "pesquisador": pesquisador})
}

// DeletePesquisador removes a researcher. Deletion is blocked while any
// project references them.
func DeletePesquisador(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pesquisador ID"})
		return
	}

	var pesquisador models.Pesquisador
	if err := config.DB.First(&pesquisador, "pesquisador_id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pesquisador não encontrado"})
		return
	}

	var vinculados int64
	if err := config.DB.Model(&models.Projeto{}).
		Where("pesquisador_id = ?", id).
		Count(&vinculados).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete pesquisador"})
		return
	}
	if vinculados > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Pesquisador possui projetos vinculados e não pode ser removido"})
		return
	}

	if err := config.DB.Delete(&pesquisador).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete pesquisador"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Pesquisador removido"})
}
