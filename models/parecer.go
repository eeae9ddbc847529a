package models

import "time"

// Decision values stored in pareceres.decisao.
const (
	DecisaoPendente  = "pendente"
	DecisaoAprovado  = "aprovado"
	DecisaoReprovado = "reprovado"
)

// ValidDecisao reports whether d is one of the accepted decision values.
func ValidDecisao(d string) bool {
	switch d {
	case DecisaoPendente, DecisaoAprovado, DecisaoReprovado:
		return true
	}
	return false
}

// Parecer is one reviewer decision over a project. Rows are append-only: a
// parecer is never updated or deleted after creation.
type Parecer struct {
	ParecerID     uint      `gorm:"primaryKey;column:parecer_id" json:"parecer_id"`
	ProjetoID     uint      `gorm:"column:projeto_id" json:"projeto_id"`
	RelatorID     int       `gorm:"column:relator_id" json:"relator_id"`
	DataParecer   time.Time `gorm:"column:data_parecer" json:"data_parecer"`
	Decisao       string    `gorm:"column:decisao" json:"decisao"`
	Justificativa string    `gorm:"column:justificativa" json:"justificativa"`

	Relator *User `gorm:"foreignKey:RelatorID" json:"relator,omitempty"`
}

// TableName overrides the table name for Parecer
func (Parecer) TableName() string {
	return "pareceres"
}
