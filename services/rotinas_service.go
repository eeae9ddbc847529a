package services

import (
	"errors"
	"log"
	"time"

	"cep-tracker-api/config"
	"cep-tracker-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Routine names recorded in email_logs.processo.
const (
	RotinaAprovados = "verificar_projetos_aprovados"
	RotinaPendentes = "verificar_projetos_pendentes"
)

// TipoRelatorio identifies which report is being charged from the researcher.
type TipoRelatorio string

const (
	RelatorioParcial  TipoRelatorio = "parcial"
	RelatorioFinal    TipoRelatorio = "final"
	RelatorioQualquer TipoRelatorio = "qualquer"
)

const (
	prazoRelatorioDias = 30
	prazoCorrecaoDias  = 30
)

// swapped out in tests
var sendMailFunc = config.SendMail

// Notificacao is one email the daily routines decided to send.
type Notificacao struct {
	Rotina          string
	ProjetoID       uint
	TituloProjeto   string
	NomePesquisador string
	Email           string
	Tipo            TipoRelatorio // empty for pending-correction notices
	DiasRestantes   int
	PrazoEncerrado  bool
}

// RotinasSummary reports what a single invocation evaluated and dispatched.
type RotinasSummary struct {
	RunID    string
	Geradas  int
	Enviadas int
	Falhas   int
}

// RotinasService evaluates the daily notification rules over the current
// project state and dispatches the resulting emails.
//
// The authoritative rule variant is exact-day, non-recurring: report reminders
// fire only on the exact 180/365-day anniversary of the approval, and the
// pending-correction routine goes silent after the day-31 withdrawal notice.
type RotinasService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRotinasService(db *gorm.DB) *RotinasService {
	return &RotinasService{db: db, now: time.Now}
}

// Run evaluates both rule sets once and dispatches every resulting email.
// Dispatch is best-effort per item: failures are logged and counted, never
// returned. The error return covers only the evaluation itself.
func (s *RotinasService) Run() (*RotinasSummary, error) {
	notificacoes, err := s.Collect(s.now())
	if err != nil {
		return nil, err
	}

	summary := &RotinasSummary{
		RunID:   uuid.NewString(),
		Geradas: len(notificacoes),
	}
	for _, n := range notificacoes {
		s.dispatch(summary, n)
	}
	return summary, nil
}

// Collect is the pure half of the routines: given "now" and the current
// database state it returns the notifications that fire today, without sending
// anything. There is no already-sent ledger, so calling it twice on the same
// day yields the same list.
func (s *RotinasService) Collect(now time.Time) ([]Notificacao, error) {
	aprovados, err := s.collectAprovados(dateOnly(now))
	if err != nil {
		return nil, err
	}
	pendentes, err := s.collectPendentes(now)
	if err != nil {
		return nil, err
	}
	return append(aprovados, pendentes...), nil
}

// collectAprovados applies rule set A over approved projects:
//   - exactly 180 days after approval, partial report still missing: charge the
//     partial report;
//   - exactly 365 days after approval, final report still missing: charge the
//     final report (or either report, if not even the partial was delivered).
//
// Both carry a 30-day grace period.
func (s *RotinasService) collectAprovados(hoje time.Time) ([]Notificacao, error) {
	var projetos []models.Projeto
	if err := s.db.Preload("Pesquisador").
		Where("status = ? AND data_aprovacao IS NOT NULL", models.StatusAprovado).
		Find(&projetos).Error; err != nil {
		return nil, err
	}

	// Date comparison happens here, not in SQL, so the semantics are identical
	// across MySQL and the sqlite test database.
	alvo180 := hoje.AddDate(0, 0, -180)
	alvo365 := hoje.AddDate(0, 0, -365)

	var out []Notificacao
	for _, p := range projetos {
		aprovadoEm := dateOnly(*p.DataAprovacao)
		switch {
		case sameDay(aprovadoEm, alvo180) && !p.RelParc:
			out = append(out, notificacaoRelatorio(p, RelatorioParcial))
		case sameDay(aprovadoEm, alvo365) && !p.RelFinal:
			tipo := RelatorioQualquer
			if p.RelParc {
				tipo = RelatorioFinal
			}
			out = append(out, notificacaoRelatorio(p, tipo))
		}
	}
	return out, nil
}

// collectPendentes applies rule set B over projects awaiting correction. The
// researcher has 30 days counted from the pending parecer: a countdown email
// fires on each of the last six days (5..0 remaining), and a single withdrawal
// notice fires on day 31. Projects without a pending parecer are skipped.
func (s *RotinasService) collectPendentes(agora time.Time) ([]Notificacao, error) {
	var projetos []models.Projeto
	if err := s.db.Preload("Pesquisador").
		Where("status = ?", models.StatusPendente).
		Find(&projetos).Error; err != nil {
		return nil, err
	}

	var out []Notificacao
	for _, p := range projetos {
		var parecer models.Parecer
		err := s.db.Where("projeto_id = ? AND decisao = ?", p.ProjetoID, models.DecisaoPendente).
			Order("data_parecer DESC").
			First(&parecer).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		diasCorridos := int(agora.Sub(parecer.DataParecer).Hours() / 24)
		restantes := prazoCorrecaoDias - diasCorridos

		switch {
		case restantes >= 0 && restantes <= 5:
			out = append(out, notificacaoPendencia(p, restantes, false))
		case restantes == -1:
			out = append(out, notificacaoPendencia(p, 0, true))
		}
	}
	return out, nil
}

func notificacaoRelatorio(p models.Projeto, tipo TipoRelatorio) Notificacao {
	return Notificacao{
		Rotina:          RotinaAprovados,
		ProjetoID:       p.ProjetoID,
		TituloProjeto:   p.Titulo,
		NomePesquisador: p.Pesquisador.Nome,
		Email:           p.Pesquisador.Email,
		Tipo:            tipo,
		DiasRestantes:   prazoRelatorioDias,
	}
}

func notificacaoPendencia(p models.Projeto, restantes int, encerrado bool) Notificacao {
	return Notificacao{
		Rotina:          RotinaPendentes,
		ProjetoID:       p.ProjetoID,
		TituloProjeto:   p.Titulo,
		NomePesquisador: p.Pesquisador.Nome,
		Email:           p.Pesquisador.Email,
		DiasRestantes:   restantes,
		PrazoEncerrado:  encerrado,
	}
}

// dispatch sends one notification and records the attempt in email_logs. A
// failed send never aborts the batch.
func (s *RotinasService) dispatch(summary *RotinasSummary, n Notificacao) {
	assunto, corpo := buildNotificacaoEmail(n)

	err := sendMailFunc([]string{n.Email}, assunto, corpo)

	registro := models.EmailLog{
		RunID:         summary.RunID,
		Processo:      n.Rotina,
		ProjetoID:     &n.ProjetoID,
		Destinatario:  n.Email,
		Assunto:       assunto,
		DiasRestantes: n.DiasRestantes,
		Concluiu:      err == nil,
		Horario:       s.now(),
	}

	if err != nil {
		dispatchErr := &DispatchError{Recipient: n.Email, Err: err}
		log.Printf("rotinas: projeto %d: %v", n.ProjetoID, dispatchErr)
		msg := dispatchErr.Error()
		registro.MsgErro = &msg
		summary.Falhas++
	} else {
		summary.Enviadas++
	}

	if err := s.db.Create(&registro).Error; err != nil {
		log.Printf("rotinas: projeto %d: falha ao gravar email_log: %v", n.ProjetoID, err)
	}
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
