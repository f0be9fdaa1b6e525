package pedidopagamento

import (
	"time"

	"github.com/BeiraCargo/api-despacho/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PedidoPagamento é um pedido de desembolso a terceiros ligado a um processo
// e a uma fase. Percorre pending → approved → in_payment → paid; rejected e
// cancelled são terminais. Só sai via soft delete enquanto suportar uma
// linha de custo paga numa fatura.
type PedidoPagamento struct {
	ID        uint           `gorm:"primaryKey" json:"pedidoId"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`

	ProcessoID uint `gorm:"not null;index:idx_pedido_processo_fase" json:"processoId"`
	Fase       int  `gorm:"not null;index:idx_pedido_processo_fase" json:"fase"`

	Tipo         string          `gorm:"size:50;not null" json:"tipo"`
	Beneficiario string          `gorm:"size:255;not null" json:"beneficiario"`
	Valor        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"valor"`
	Moeda        string          `gorm:"size:3;not null;default:'USD'" json:"moeda"`
	Descricao    string          `json:"descricao"`

	Status string `gorm:"size:20;not null;default:'pending';index" json:"status"`

	SolicitanteID uint       `gorm:"not null" json:"solicitanteId"`
	AprovadorID   *uint      `json:"aprovadorId,omitempty"`
	PagadorID     *uint      `json:"pagadorId,omitempty"`
	AprovadoEm    *time.Time `json:"aprovadoEm,omitempty"`
	PagoEm        *time.Time `json:"pagoEm,omitempty"`

	MotivoRejeicao string `json:"motivoRejeicao,omitempty"`

	// Referências documentais: cotação do fornecedor, comprovativo interno
	// do pagamento e recibo emitido pelo fornecedor.
	CotacaoDocumentoID      *uuid.UUID `gorm:"type:uuid" json:"cotacaoDocumentoId,omitempty"`
	ComprovativoDocumentoID *uuid.UUID `gorm:"type:uuid" json:"comprovativoDocumentoId,omitempty"`
	ReciboDocumentoID       *uuid.UUID `gorm:"type:uuid" json:"reciboDocumentoId,omitempty"`

	Metadados map[string]any `gorm:"type:jsonb;serializer:json" json:"metadados,omitempty"`
}

// PodeSerAprovado: pendente e com cotação anexada. Predicado puro, sem
// efeitos — o guard real vive no workflow.
func (p *PedidoPagamento) PodeSerAprovado() bool {
	return p.Status == models.PedidoPendente && p.CotacaoDocumentoID != nil
}

// PodeSerPago: aprovado e à espera de execução.
func (p *PedidoPagamento) PodeSerPago() bool {
	return p.Status == models.PedidoAprovado
}

// EmAberto: ainda não chegou a um estado liquidado nem terminal.
func (p *PedidoPagamento) EmAberto() bool {
	switch p.Status {
	case models.PedidoPendente, models.PedidoAprovado, models.PedidoEmPagamento:
		return true
	}
	return false
}
