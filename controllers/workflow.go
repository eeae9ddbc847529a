package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"cep-tracker-api/config"
	"cep-tracker-api/models"
	"cep-tracker-api/services"

	"github.com/gin-gonic/gin"
)

// actorFromContext rebuilds the caller capability from the JWT claims stored by
// the auth middleware. The workflow services only ever see this struct.
func actorFromContext(c *gin.Context) (services.Actor, bool) {
	userID, okUser := c.Get("userID")
	roleID, okRole := c.Get("roleID")
	if !okUser || !okRole {
		return services.Actor{}, false
	}
	return services.Actor{UserID: userID.(int), RoleID: roleID.(int)}, true
}

// renderWorkflowError maps the service error taxonomy onto HTTP statuses.
func renderWorkflowError(c *gin.Context, err error) {
	var authErr *services.AuthorizationError
	var stateErr *services.InvalidStateError
	var notFoundErr *services.NotFoundError

	switch {
	case errors.As(err, &authErr):
		c.JSON(http.StatusForbidden, gin.H{"error": authErr.Message})
	case errors.As(err, &stateErr):
		c.JSON(http.StatusConflict, gin.H{"error": stateErr.Message})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Operation failed"})
	}
}

// DesignarRelator handles POST /projetos/:id/designar.
func DesignarRelator(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid projeto ID"})
		return
	}

	var req struct {
		RelatorID int `json:"relator_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	svc := services.NewWorkflowService(config.DB)
	projeto, err := svc.AssignRelator(actor, uint(id), req.RelatorID)
	if err != nil {
		renderWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Relator designado; projeto em análise",
		"projeto": projeto,
	})
}

// SubmitParecer handles POST /projetos/:id/parecer.
func SubmitParecer(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid projeto ID"})
		return
	}

	var req struct {
		Decisao       string `json:"decisao" binding:"required,oneof=pendente aprovado reprovado"`
		Justificativa string `json:"justificativa" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User context missing"})
		return
	}

	svc := services.NewWorkflowService(config.DB)
	parecer, err := svc.SubmitParecer(actor, uint(id), req.Decisao, req.Justificativa)
	if err != nil {
		renderWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"parecer": parecer,
	})
}

// UpdateRelatorios handles PATCH /projetos/:id/relatorios, recording that the
// partial and/or final compliance reports arrived. This is the only write to
// the two flags; status and data_aprovacao are untouched here.
func UpdateRelatorios(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid projeto ID"})
		return
	}

	var req struct {
		RelParc  *bool `json:"rel_parc"`
		RelFinal *bool `json:"rel_final"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.RelParc == nil && req.RelFinal == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Informe rel_parc e/ou rel_final"})
		return
	}

	var projeto models.Projeto
	if err := config.DB.First(&projeto, "projeto_id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Projeto não encontrado"})
		return
	}

	updates := map[string]interface{}{}
	if req.RelParc != nil {
		updates["rel_parc"] = *req.RelParc
	}
	if req.RelFinal != nil {
		updates["rel_final"] = *req.RelFinal
	}

	if err := config.DB.Model(&models.Projeto{}).
		Where("projeto_id = ?", projeto.ProjetoID).
		Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update projeto"})
		return
	}

	if err := config.DB.First(&projeto, "projeto_id = ?", projeto.ProjetoID).Error; err == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "projeto": projeto})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetRelatores lists active users holding the relator role, for the
// designation form.
func GetRelatores(c *gin.Context) {
	var relatores []models.User
	if err := config.DB.Where("role_id = ? AND delete_at IS NULL", models.RoleRelatorID).
		Order("nome ASC").
		Find(&relatores).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch relatores"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"relatores": relatores,
		"total":     len(relatores),
	})
}
