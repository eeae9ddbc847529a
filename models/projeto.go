package models

import "time"

// Project status values stored in projetos.status. The three decision statuses
// mirror Parecer.Decisao: the project carries a denormalized copy of its latest
// parecer, written only by the workflow transitions.
const (
	StatusNovo      = "novo"
	StatusEmAnalise = "em_analise"
	StatusPendente  = "pendente"
	StatusAprovado  = "aprovado"
	StatusReprovado = "reprovado"
)

// Projeto represents the projetos table
type Projeto struct {
	ProjetoID          uint       `gorm:"primaryKey;column:projeto_id" json:"projeto_id"`
	Titulo             string     `gorm:"column:titulo" json:"titulo"`
	Descricao          string     `gorm:"column:descricao" json:"descricao"`
	CAAE               string     `gorm:"column:caae;unique" json:"caae"`
	Protocolo          *string    `gorm:"column:protocolo" json:"protocolo,omitempty"`
	PesquisadorID      uint       `gorm:"column:pesquisador_id" json:"pesquisador_id"`
	DataSubmissao      time.Time  `gorm:"column:data_submissao" json:"data_submissao"`
	DataAprovacao      *time.Time `gorm:"column:data_aprovacao" json:"data_aprovacao,omitempty"`
	RelatorDesignadoID *int       `gorm:"column:relator_designado_id" json:"relator_designado_id,omitempty"`
	Status             string     `gorm:"column:status" json:"status"`
	RelParc            bool       `gorm:"column:rel_parc" json:"rel_parc"`
	RelFinal           bool       `gorm:"column:rel_final" json:"rel_final"`

	Pesquisador      Pesquisador `gorm:"foreignKey:PesquisadorID" json:"pesquisador,omitempty"`
	RelatorDesignado *User       `gorm:"foreignKey:RelatorDesignadoID" json:"relator_designado,omitempty"`
	Pareceres        []Parecer   `gorm:"foreignKey:ProjetoID" json:"pareceres,omitempty"`
}

// TableName overrides the table name for Projeto
func (Projeto) TableName() string {
	return "projetos"
}
