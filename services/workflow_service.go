package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cep-tracker-api/models"

	"gorm.io/gorm"
)

// Actor carries the caller identity and capability into the workflow
// transitions. It is built by the HTTP layer from the JWT claims; the services
// never consult the session or group tables themselves.
type Actor struct {
	UserID int
	RoleID int
}

func (a Actor) IsGestor() bool {
	return a.RoleID == models.RoleGestorID || a.RoleID == models.RoleAdminID
}

func (a Actor) IsRelator() bool {
	return a.RoleID == models.RoleRelatorID
}

// WorkflowService implements the state transitions of a project. Projeto.status
// and data_aprovacao are written here and nowhere else.
type WorkflowService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewWorkflowService(db *gorm.DB) *WorkflowService {
	return &WorkflowService{db: db, now: time.Now}
}

// AssignRelator designates a relator for a project that is still 'novo' and
// moves it to 'em_analise'. Reassignment after that point is not possible.
func (s *WorkflowService) AssignRelator(actor Actor, projetoID uint, relatorID int) (*models.Projeto, error) {
	if !actor.IsGestor() {
		return nil, &AuthorizationError{Message: "apenas gestores podem designar relatores"}
	}

	var projeto models.Projeto
	if err := s.db.First(&projeto, "projeto_id = ?", projetoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "projeto"}
		}
		return nil, err
	}

	if projeto.Status != models.StatusNovo {
		return nil, &InvalidStateError{Message: fmt.Sprintf(
			"projeto está com status '%s'; relator só pode ser designado enquanto 'novo'", projeto.Status)}
	}

	var relator models.User
	if err := s.db.First(&relator, "user_id = ? AND delete_at IS NULL", relatorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "relator"}
		}
		return nil, err
	}
	if relator.RoleID != models.RoleRelatorID {
		return nil, &AuthorizationError{Message: "usuário designado não possui o papel de relator"}
	}

	if err := s.db.Model(&models.Projeto{}).
		Where("projeto_id = ?", projeto.ProjetoID).
		Updates(map[string]interface{}{
			"relator_designado_id": relator.UserID,
			"status":               models.StatusEmAnalise,
		}).Error; err != nil {
		return nil, err
	}

	projeto.RelatorDesignadoID = &relator.UserID
	projeto.Status = models.StatusEmAnalise
	return &projeto, nil
}

// SubmitParecer records the assigned relator's decision over a project under
// analysis. The parecer row and the denormalized project status move in the
// same transaction: status becomes the decision, and data_aprovacao is set to
// today on approval or cleared otherwise.
func (s *WorkflowService) SubmitParecer(actor Actor, projetoID uint, decisao, justificativa string) (*models.Parecer, error) {
	var projeto models.Projeto
	if err := s.db.First(&projeto, "projeto_id = ?", projetoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "projeto"}
		}
		return nil, err
	}

	if !actor.IsRelator() || projeto.RelatorDesignadoID == nil || *projeto.RelatorDesignadoID != actor.UserID {
		return nil, &AuthorizationError{Message: "você não é o relator designado para este projeto"}
	}

	if projeto.Status != models.StatusEmAnalise {
		return nil, &InvalidStateError{Message: fmt.Sprintf(
			"projeto está com status '%s' e não pode receber pareceres", projeto.Status)}
	}

	if !models.ValidDecisao(decisao) {
		return nil, &InvalidStateError{Message: fmt.Sprintf("decisão '%s' inválida", decisao)}
	}

	justificativa = strings.TrimSpace(justificativa)
	if justificativa == "" {
		return nil, &InvalidStateError{Message: "justificativa é obrigatória"}
	}

	now := s.now()
	parecer := models.Parecer{
		ProjetoID:     projeto.ProjetoID,
		RelatorID:     actor.UserID,
		DataParecer:   now,
		Decisao:       decisao,
		Justificativa: justificativa,
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	if err := tx.Create(&parecer).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	updates := map[string]interface{}{
		"status":         decisao,
		"data_aprovacao": nil,
	}
	if decisao == models.DecisaoAprovado {
		updates["data_aprovacao"] = dateOnly(now)
	}

	if err := tx.Model(&models.Projeto{}).
		Where("projeto_id = ?", projeto.ProjetoID).
		Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return &parecer, nil
}

// dateOnly truncates t to midnight in its own location.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
