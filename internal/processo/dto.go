// internal/processo/dto.go
package processo

import (
	"github.com/shopspring/decimal"
)

type CriarProcessoDTO struct {
	Tipo            string `json:"tipo"`
	ClienteID       uint   `json:"clienteId"`
	ConsignatarioID uint   `json:"consignatarioId"`
	Transportadora  string `json:"transportadora"`
	Navio           string `json:"navio"`
	NumeroContainer string `json:"numeroContainer"`
	NumeroBL        string `json:"numeroBl"`

	IsencaoImpostos     bool `json:"isencaoImpostos"`
	Reexportacao        bool `json:"reexportacao"`
	InspecaoObrigatoria bool `json:"inspecaoObrigatoria"`

	ValorCarga decimal.Decimal `json:"valorCarga"`
}

type atualizarStatusRequest struct {
	Status string `json:"status"`
}

type prazoArmazenamentoRequest struct {
	// RFC3339; vazio limpa o prazo (e com ele o alerta)
	Prazo string `json:"prazo"`
}

type ProgressoResponse struct {
	ProcessoID uint    `json:"processoId"`
	Referencia string  `json:"referencia"`
	Progresso  float64 `json:"progresso"`
}
