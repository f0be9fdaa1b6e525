package fatura

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Fatura cobre os dois lados da faturação: registos de custo de fornecedor
// (tipos coleta_dispersa/alfandegas/cornelder/outros) e a fatura emitida ao
// cliente (client_invoice), cujo breakdown completo vive nos metadados.
type Fatura struct {
	ID        uint           `gorm:"primaryKey" json:"faturaId"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`

	Tipo   string `gorm:"size:30;not null;index" json:"tipo"`
	Numero string `gorm:"size:20;index" json:"numero"`

	ProcessoID *uint `gorm:"index" json:"processoId,omitempty"`
	ClienteID  *uint `gorm:"index" json:"clienteId,omitempty"`

	Valor decimal.Decimal `gorm:"type:decimal(15,2)" json:"valor"`
	Moeda string          `gorm:"size:3;not null;default:'USD'" json:"moeda"`

	DataEmissao    time.Time  `json:"dataEmissao"`
	DataVencimento *time.Time `json:"dataVencimento,omitempty"`

	Status string `gorm:"size:20;not null;default:'pending';index" json:"status"`

	Metadados map[string]any `gorm:"type:jsonb;serializer:json" json:"metadados,omitempty"`
}

// ValorTotal devolve o total autoritativo da fatura: o campo direto quando
// preenchido, senão metadata.invoice_data.total_invoice (gravado como
// string decimal).
func (f *Fatura) ValorTotal() decimal.Decimal {
	if !f.Valor.IsZero() {
		return f.Valor
	}
	dados, ok := f.Metadados["invoice_data"].(map[string]any)
	if !ok {
		return decimal.Zero
	}
	total, ok := dados["total_invoice"].(string)
	if !ok {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(total)
	if err != nil {
		return decimal.Zero
	}
	return d
}
