package models

import "time"

// EmailLog records every dispatch attempt of the daily routines, success or
// failure. The evaluator never reads this table; re-running the routines on the
// same day re-sends the same messages.
type EmailLog struct {
	LogID         uint      `gorm:"primaryKey;column:log_id" json:"log_id"`
	RunID         string    `gorm:"column:run_id" json:"run_id"`
	Processo      string    `gorm:"column:processo" json:"processo"`
	ProjetoID     *uint     `gorm:"column:projeto_id" json:"projeto_id,omitempty"`
	Destinatario  string    `gorm:"column:destinatario" json:"destinatario"`
	Assunto       string    `gorm:"column:assunto" json:"assunto"`
	DiasRestantes int       `gorm:"column:dias_restantes" json:"dias_restantes"`
	Concluiu      bool      `gorm:"column:concluiu" json:"concluiu"`
	MsgErro       *string   `gorm:"column:msg_erro" json:"msg_erro,omitempty"`
	Horario       time.Time `gorm:"column:horario" json:"horario"`
}

func (EmailLog) TableName() string { return "email_logs" }
