package services

import (
	"errors"
	"testing"
	"time"

	"cep-tracker-api/models"
)

func TestAssignRelatorMovesProjetoToEmAnalise(t *testing.T) {
	db := newTestDB(t)
	gestor := seedUser(t, db, "gestora", models.RoleGestorID)
	relator := seedUser(t, db, "relator", models.RoleRelatorID)
	pesquisador := seedPesquisador(t, db, "ana")
	projeto := seedProjeto(t, db, pesquisador, "0001-24", models.StatusNovo)

	svc := NewWorkflowService(db)
	updated, err := svc.AssignRelator(Actor{UserID: gestor.UserID, RoleID: gestor.RoleID}, projeto.ProjetoID, relator.UserID)
	if err != nil {
		t.Fatalf("AssignRelator returned error: %v", err)
	}

	if updated.Status != models.StatusEmAnalise {
		t.Fatalf("expected status em_analise, got %s", updated.Status)
	}

	stored := reloadProjeto(t, db, projeto.ProjetoID)
	if stored.Status != models.StatusEmAnalise {
		t.Fatalf("stored status = %s, want em_analise", stored.Status)
	}
	if stored.RelatorDesignadoID == nil || *stored.RelatorDesignadoID != relator.UserID {
		t.Fatalf("relator_designado_id = %v, want %d", stored.RelatorDesignadoID, relator.UserID)
	}
	checkStatusInvariant(t, stored)
}

func TestAssignRelatorRequiresGestor(t *testing.T) {
	db := newTestDB(t)
	relator := seedUser(t, db, "relator", models.RoleRelatorID)
	pesquisador := seedPesquisador(t, db, "ana")
	projeto := seedProjeto(t, db, pesquisador, "0002-24", models.StatusNovo)

	svc := NewWorkflowService(db)
	_, err := svc.AssignRelator(Actor{UserID: relator.UserID, RoleID: relator.RoleID}, projeto.ProjetoID, relator.UserID)

	var authErr *AuthorizationError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthorizationError, got %v", err)
	}

	stored := reloadProjeto(t, db, projeto.ProjetoID)
	if stored.Status != models.StatusNovo || stored.RelatorDesignadoID != nil {
		t.Fatalf("projeto mutated by failed assignment: %+v", stored)
	}
}

func TestAssignRelatorOutsideNovoFails(t *testing.T) {
	db := newTestDB(t)
	gestor := seedUser(t, db, "gestora", models.RoleGestorID)
	relator := seedUser(t, db, "relator", models.RoleRelatorID)
	pesquisador := seedPesquisador(t, db, "ana")

	for _, status := range []string{
		models.StatusEmAnalise,
		models.StatusPendente,
		models.StatusAprovado,
		models.StatusReprovado,
	} {
		projeto := seedProjeto(t, db, pesquisador, "st-"+status, status)
		if status == models.StatusAprovado {
			hoje := time.Now()
			db.Model(&models.Projeto{}).Where("projeto_id = ?", projeto.ProjetoID).
				Update("data_aprovacao", hoje)
		}

		svc := NewWorkflowService(db)
		_, err := svc.AssignRelator(Actor{UserID: gestor.UserID, RoleID: gestor.RoleID}, projeto.ProjetoID, relator.UserID)

		var stateErr *InvalidStateError
		if !errors.As(err, &stateErr) {
			t.Fatalf("status %s: expected InvalidStateError, got %v", status, err)
		}

		stored := reloadProjeto(t, db, projeto.ProjetoID)
		if stored.Status != status || stored.RelatorDesignadoID != nil {
			t.Fatalf("status %s: projeto mutated by failed assignment: %+v", status, stored)
		}
	}
}

func TestAssignRelatorRejectsUserWithoutRelatorRole(t *testing.T) {
	db := newTestDB(t)
	gestor := seedUser(t, db, "gestora", models.RoleGestorID)
	outroGestor := seedUser(t, db, "gestor2", models.RoleGestorID)
	pesquisador := seedPesquisador(t, db, "ana")
	projeto := seedProjeto(t, db, pesquisador, "0003-24", models.StatusNovo)

	svc := NewWorkflowService(db)
	_, err := svc.AssignRelator(Actor{UserID: gestor.UserID, RoleID: gestor.RoleID}, projeto.ProjetoID, outroGestor.UserID)

	var authErr *AuthorizationError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthorizationError, got %v", err)
	}
}

func TestAssignRelatorMissingRecords(t *testing.T) {
	db := newTestDB(t)
	gestor := seedUser(t, db, "gestora", models.RoleGestorID)
	relator := seedUser(t, db, "relator", models.RoleRelatorID)
	pesquisador := seedPesquisador(t, db, "ana")
	projeto := seedProjeto(t, db, pesquisador, "0004-24", models.StatusNovo)

	svc := NewWorkflowService(db)

	var notFound *NotFoundError
	if _, err := svc.AssignRelator(Actor{UserID: gestor.UserID, RoleID: gestor.RoleID}, 9999, relator.UserID); !errors.As(err, &notFound) {
		t.Fatalf("missing projeto: expected NotFoundError, got %v", err)
	}
	if _, err := svc.AssignRelator(Actor{UserID: gestor.UserID, RoleID: gestor.RoleID}, projeto.ProjetoID, 9999); !errors.As(err, &notFound) {
		t.Fatalf("missing relator: expected NotFoundError, got %v", err)
	}
}

func TestSubmitParecerAprovadoSetsDataAprovacao(t *testing.T) {
	db := newTestDB(t)
	gestor := seedUser(t, db, "gestora", models.RoleGestorID)
	relator := seedUser(t, db, "relator", models.RoleRelatorID)
	pesquisador := seedPesquisador(t, db, "ana")
	projeto := seedProjeto(t, db, pesquisador, "0005-24", models.StatusNovo)

	svc := NewWorkflowService(db)
	if _, err := svc.AssignRelator(Actor{UserID: gestor.UserID, RoleID: gestor.RoleID}, projeto.ProjetoID, relator.UserID); err != nil {
		t.Fatalf("AssignRelator returned error: %v", err)
	}

	agora := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	svc.now = fixedClock(agora)

	parecer, err := svc.SubmitParecer(Actor{UserID: relator.UserID, RoleID: relator.RoleID},
		projeto.ProjetoID, models.DecisaoAprovado, "Documentação completa e adequada.")
	if err != nil {
		t.Fatalf("SubmitParecer returned error: %v", err)
	}
	if parecer.Decisao != models.DecisaoAprovado {
		t.Fatalf("parecer decisao = %s, want aprovado", parecer.Decisao)
	}

	stored := reloadProjeto(t, db, projeto.ProjetoID)
	if stored.Status != models.StatusAprovado {
		t.Fatalf("stored status = %s, want aprovado", stored.Status)
	}
	if stored.DataAprovacao == nil {
		t.Fatal("data_aprovacao not set on approval")
	}
	y, m, d := stored.DataAprovacao.Date()
	if y != 2026 || m != time.March || d != 10 {
		t.Fatalf("data_aprovacao = %v, want 2026-03-10", stored.DataAprovacao)
	}
	checkStatusInvariant(t, stored)

	if n := countPareceres(t, db, projeto.ProjetoID); n != 1 {
		t.Fatalf("expected 1 parecer, got %d", n)
	}
}

func TestSubmitParecerNaoAprovadoClearsDataAprovacao(t *testing.T) {
	db := newTestDB(t)
	relator := seedUser(t, db, "relator", models.RoleRelatorID)
	pesquisador := seedPesquisador(t, db, "ana")
	projeto := seedProjeto(t, db, pesquisador, "0006-24", models.StatusEmAnalise)

	// Stale approval date left by an earlier cycle; em_analise with a
	// designated relator simulates an administratively re-staged project.
	hoje := time.Now()
	if err := db.Model(&models.Projeto{}).Where("projeto_id = ?", projeto.ProjetoID).
		Updates(map[string]interface{}{
			"relator_designado_id": relator.UserID,
			"data_aprovacao":       hoje,
		}).Error; err != nil {
		t.Fatalf("failed to stage projeto: %v", err)
	}

	svc := NewWorkflowService(db)
	if _, err := svc.SubmitParecer(Actor{UserID: relator.UserID, RoleID: relator.RoleID},
		projeto.ProjetoID, models.DecisaoPendente, "Faltam documentos do TCLE."); err != nil {
		t.Fatalf("SubmitParecer returned error: %v", err)
	}

	stored := reloadProjeto(t, db, projeto.ProjetoID)
	if stored.Status != models.StatusPendente {
		t.Fatalf("stored status = %s, want pendente", stored.Status)
	}
	if stored.DataAprovacao != nil {
		t.Fatalf("data_aprovacao should be cleared, got %v", stored.DataAprovacao)
	}
	checkStatusInvariant(t, stored)
}

func TestSubmitParecerByNonAssignedRelatorFails(t *testing.T) {
	db := newTestDB(t)
	relator := seedUser(t, db, "relator", models.RoleRelatorID)
	intruso := seedUser(t, db, "intruso", models.RoleRelatorID)
	pesquisador := seedPesquisador(t, db, "ana")
	projeto := seedProjeto(t, db, pesquisador, "0007-24", models.StatusEmAnalise)
	db.Model(&models.Projeto{}).Where("projeto_id = ?", projeto.ProjetoID).
		Update("relator_designado_id", relator.UserID)

	svc := NewWorkflowService(db)
	_, err := svc.SubmitParecer(Actor{UserID: intruso.UserID, RoleID: intruso.RoleID},
		projeto.ProjetoID, models.DecisaoAprovado, "tentativa")

	var authErr *AuthorizationError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthorizationError, got %v", err)
	}
	if n := countPareceres(t, db, projeto.ProjetoID); n != 0 {
		t.Fatalf("parecer created by unauthorized caller: %d rows", n)
	}
}

func TestSubmitParecerOutsideEmAnaliseFails(t *testing.T) {
	db := newTestDB(t)
	relator := seedUser(t, db, "relator", models.RoleRelatorID)
	pesquisador := seedPesquisador(t, db, "ana")

	for _, status := range []string{models.StatusPendente, models.StatusReprovado} {
		projeto := seedProjeto(t, db, pesquisador, "pc-"+status, status)
		db.Model(&models.Projeto{}).Where("projeto_id = ?", projeto.ProjetoID).
			Update("relator_designado_id", relator.UserID)

		svc := NewWorkflowService(db)
		_, err := svc.SubmitParecer(Actor{UserID: relator.UserID, RoleID: relator.RoleID},
			projeto.ProjetoID, models.DecisaoAprovado, "fora de estado")

		var stateErr *InvalidStateError
		if !errors.As(err, &stateErr) {
			t.Fatalf("status %s: expected InvalidStateError, got %v", status, err)
		}
		if n := countPareceres(t, db, projeto.ProjetoID); n != 0 {
			t.Fatalf("status %s: parecer created outside em_analise", status)
		}
	}
}

func TestSubmitParecerEmptyJustificativaFails(t *testing.T) {
	db := newTestDB(t)
	relator := seedUser(t, db, "relator", models.RoleRelatorID)
	pesquisador := seedPesquisador(t, db, "ana")
	projeto := seedProjeto(t, db, pesquisador, "0008-24", models.StatusEmAnalise)
	db.Model(&models.Projeto{}).Where("projeto_id = ?", projeto.ProjetoID).
		Update("relator_designado_id", relator.UserID)

	svc := NewWorkflowService(db)
	_, err := svc.SubmitParecer(Actor{UserID: relator.UserID, RoleID: relator.RoleID},
		projeto.ProjetoID, models.DecisaoReprovado, "   ")

	var stateErr *InvalidStateError
	if !errors.As(err, &stateErr) {
		t.Fatalf("expected InvalidStateError, got %v", err)
	}
	if n := countPareceres(t, db, projeto.ProjetoID); n != 0 {
		t.Fatal("parecer created with empty justificativa")
	}

	stored := reloadProjeto(t, db, projeto.ProjetoID)
	if stored.Status != models.StatusEmAnalise {
		t.Fatalf("status mutated by failed parecer: %s", stored.Status)
	}
}

func TestParecerHistoryIsAppendOnlyAcrossDecisions(t *testing.T) {
	db := newTestDB(t)
	relator := seedUser(t, db, "relator", models.RoleRelatorID)
	pesquisador := seedPesquisador(t, db, "ana")
	projeto := seedProjeto(t, db, pesquisador, "0009-24", models.StatusEmAnalise)
	db.Model(&models.Projeto{}).Where("projeto_id = ?", projeto.ProjetoID).
		Update("relator_designado_id", relator.UserID)

	svc := NewWorkflowService(db)
	actor := Actor{UserID: relator.UserID, RoleID: relator.RoleID}

	if _, err := svc.SubmitParecer(actor, projeto.ProjetoID, models.DecisaoPendente, "Corrigir cronograma."); err != nil {
		t.Fatalf("first parecer failed: %v", err)
	}

	// Simulate the administrative re-staging that returns a corrected project
	// to analysis, then file a second decision.
	db.Model(&models.Projeto{}).Where("projeto_id = ?", projeto.ProjetoID).
		Update("status", models.StatusEmAnalise)

	if _, err := svc.SubmitParecer(actor, projeto.ProjetoID, models.DecisaoAprovado, "Correções atendidas."); err != nil {
		t.Fatalf("second parecer failed: %v", err)
	}

	if n := countPareceres(t, db, projeto.ProjetoID); n != 2 {
		t.Fatalf("expected 2 pareceres in history, got %d", n)
	}
	checkStatusInvariant(t, reloadProjeto(t, db, projeto.ProjetoID))
}
