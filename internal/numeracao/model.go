package numeracao

import (
	"time"
)

// Tipos de documento numerados
const (
	TipoFatura     = "INV"
	TipoRecibo     = "REC"
	TipoNotaDebito = "DN"
	TipoCotacao    = "COT"
)

// NumeracaoDocumento é a linha de contador por (tipo, ano). A sequência
// reinicia a cada ano civil.
type NumeracaoDocumento struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Tipo         string    `gorm:"size:10;not null;uniqueIndex:idx_numeracao_tipo_ano" json:"tipo"`
	Ano          int       `gorm:"not null;uniqueIndex:idx_numeracao_tipo_ano" json:"ano"`
	UltimoNumero int       `gorm:"not null;default:0" json:"ultimoNumero"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
