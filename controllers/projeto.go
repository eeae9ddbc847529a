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

type ProjetoRequest struct {
	Titulo        string  `json:"titulo" binding:"required"`
	Descricao     string  `json:"descricao" binding:"required"`
	CAAE          string  `json:"caae" binding:"required"`
	Protocolo     *string `json:"protocolo"`
	PesquisadorID uint    `json:"pesquisador_id" binding:"required"`
}

// CreateProjeto registers a submission on behalf of a researcher. New projects
// always start as 'novo' with the submission timestamp set once, here.
func CreateProjeto(c *gin.Context) {
	var req ProjetoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var pesquisador models.Pesquisador
	if err := config.DB.First(&pesquisador, "pesquisador_id = ?", req.PesquisadorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pesquisador não encontrado"})
		return
	}

	caae := utils.SanitizeInput(req.CAAE)
	var existing models.Projeto
	if err := config.DB.Where("caae = ?", caae).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Já existe um projeto com este CAAE"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create projeto"})
		return
	}

	projeto := models.Projeto{
		Titulo:        utils.SanitizeInput(req.Titulo),
		Descricao:     utils.SanitizeInput(req.Descricao),
		CAAE:          caae,
		Protocolo:     req.Protocolo,
		PesquisadorID: pesquisador.PesquisadorID,
		DataSubmissao: time.Now(),
		Status:        models.StatusNovo,
	}

	if err := config.DB.Create(&projeto).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create projeto"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "projeto": projeto})
}

// GetProjetos lists projects, optionally filtered by ?status=. Relatores only
// see what was assigned to them.
func GetProjetos(c *gin.Context) {
	query := config.DB.Preload("Pesquisador").Preload("RelatorDesignado")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	roleID, _ := c.Get("roleID")
	if roleID == models.RoleRelatorID {
		userID, _ := c.Get("userID")
		query = query.Where("relator_designado_id = ?", userID)
	}

	var projetos []models.Projeto
	if err := query.Order("data_submissao DESC").Find(&projetos).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projetos"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"projetos": projetos,
		"total":    len(projetos),
	})
}

// GetProjeto returns one project with its parecer history, newest first.
func GetProjeto(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid projeto ID"})
		return
	}

	var projeto models.Projeto
	if err := config.DB.Preload("Pesquisador").Preload("RelatorDesignado").
		First(&projeto, "projeto_id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Projeto não encontrado"})
		return
	}

	// Relatores só veem os próprios projetos
	roleID, _ := c.Get("roleID")
	if roleID == models.RoleRelatorID {
		userID, _ := c.Get("userID")
		if projeto.RelatorDesignadoID == nil || *projeto.RelatorDesignadoID != userID.(int) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Você não tem permissão para visualizar este projeto"})
			return
		}
	}

	var pareceres []models.Parecer
	if err := config.DB.Preload("Relator").
		Where("projeto_id = ?", projeto.ProjetoID).
		Order("data_parecer DESC").
		Find(&pareceres).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pareceres"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"projeto":   projeto,
		"pareceres": pareceres,
	})
}
