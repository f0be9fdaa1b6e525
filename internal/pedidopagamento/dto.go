// internal/pedidopagamento/dto.go
package pedidopagamento

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CriarPedidoDTO struct {
	Fase         int             `json:"fase"`
	Tipo         string          `json:"tipo"`
	Beneficiario string          `json:"beneficiario"`
	Valor        decimal.Decimal `json:"valor"`
	Moeda        string          `json:"moeda"`
	Descricao    string          `json:"descricao"`

	CotacaoDocumentoID *uuid.UUID `json:"cotacaoDocumentoId"`
}

type aprovarRequest struct {
	Notas string `json:"notas"`
}

type rejeitarRequest struct {
	Motivo string `json:"motivo"`
}

type confirmarPagamentoRequest struct {
	ComprovativoDocumentoID uuid.UUID `json:"comprovativoDocumentoId"`
}

type anexarReciboRequest struct {
	ReciboDocumentoID uuid.UUID `json:"reciboDocumentoId"`
}

type cancelarRequest struct {
	Motivo string `json:"motivo"`
}
