package models

import "time"

// Pesquisador representa quem submete os projetos ao comitê. Pesquisadores não
// possuem login; são cadastrados pela secretaria do CEP.
type Pesquisador struct {
	PesquisadorID uint       `gorm:"primaryKey;column:pesquisador_id" json:"pesquisador_id"`
	Nome          string     `gorm:"column:nome" json:"nome"`
	Email         string     `gorm:"column:email;unique" json:"email"`
	Telefone      *string    `gorm:"column:telefone" json:"telefone,omitempty"`
	CreateAt      time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt      *time.Time `gorm:"column:update_at" json:"update_at"`
}

// TableName overrides the table name for Pesquisador
func (Pesquisador) TableName() string {
	return "pesquisadores"
}
