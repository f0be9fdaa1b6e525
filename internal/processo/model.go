package processo

import (
	"time"

	"github.com/BeiraCargo/api-despacho/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Processo representa um caso de despacho de carga de ponta a ponta.
//
// O tipo de processo é imutável depois da criação e decide qual dos quatro
// registos Fases* está preenchido — exatamente um, o que condiz com o tipo.
// Assim nenhum status de importação convive com campos de exportação no
// mesmo registo.
type Processo struct {
	ID        uint           `gorm:"primaryKey" json:"processoId"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`

	Referencia string `gorm:"size:50;uniqueIndex;not null" json:"referencia"`
	Tipo       string `gorm:"size:20;not null;index" json:"tipo"`

	ClienteID       uint `gorm:"not null;index" json:"clienteId"`
	ConsignatarioID uint `gorm:"index" json:"consignatarioId"`

	Transportadora  string `json:"transportadora"`
	Navio           string `json:"navio"`
	NumeroContainer string `gorm:"size:20" json:"numeroContainer"`
	NumeroBL        string `gorm:"size:50" json:"numeroBl"`

	// Rótulo geral do processo, independente das fases
	Status string `gorm:"size:30;default:'draft'" json:"status"`

	// Flags de tratamento especial
	IsencaoImpostos     bool `json:"isencaoImpostos"`
	Reexportacao        bool `json:"reexportacao"`
	InspecaoObrigatoria bool `json:"inspecaoObrigatoria"`

	ValorCarga  decimal.Decimal `gorm:"type:decimal(15,2)" json:"valorCarga"`
	CustoTotal  decimal.Decimal `gorm:"type:decimal(15,2)" json:"custoTotal"`
	ValorFatura decimal.Decimal `gorm:"type:decimal(15,2)" json:"valorFatura"`
	MargemLucro decimal.Decimal `gorm:"type:decimal(5,2)" json:"margemLucro"`

	PrazoArmazenamento  *time.Time `json:"prazoArmazenamento,omitempty"`
	AlertaArmazenamento bool       `json:"alertaArmazenamento"`

	// Projeção plana das fases, uma variante por tipo de processo. A fonte
	// de verdade é o registo de etapas; estes campos existem para listagem
	// e filtragem rápidas e só a máquina de etapas os escreve.
	FasesImportacao *FasesImportacao `gorm:"type:jsonb;serializer:json" json:"fasesImportacao,omitempty"`
	FasesExportacao *FasesExportacao `gorm:"type:jsonb;serializer:json" json:"fasesExportacao,omitempty"`
	FasesTransito   *FasesTransito   `gorm:"type:jsonb;serializer:json" json:"fasesTransito,omitempty"`
	FasesTransporte *FasesTransporte `gorm:"type:jsonb;serializer:json" json:"fasesTransporte,omitempty"`

	Metadados map[string]any `gorm:"type:jsonb;serializer:json" json:"metadados,omitempty"`
}

// NovoProcesso cria um processo com as fases iniciais do tipo dado.
func NovoProcesso(referencia, tipo string, clienteID uint) *Processo {
	p := &Processo{
		Referencia: referencia,
		Tipo:       tipo,
		ClienteID:  clienteID,
		Status:     models.FaseRascunho,
	}
	switch tipo {
	case models.ProcessoImportacao:
		p.FasesImportacao = NovasFasesImportacao()
	case models.ProcessoExportacao:
		p.FasesExportacao = NovasFasesExportacao()
	case models.ProcessoTransito:
		p.FasesTransito = NovasFasesTransito()
	case models.ProcessoTransporte:
		p.FasesTransporte = NovasFasesTransporte()
	}
	return p
}

// LimiarAlertaArmazenamento é a antecedência com que o alerta de
// armazenamento liga antes do prazo expirar.
const LimiarAlertaArmazenamento = 48 * time.Hour

// AtualizarAlertaArmazenamento deriva o alerta do prazo de armazenamento.
// É o único caminho de escrita do alerta: sem prazo não há alerta.
func (p *Processo) AtualizarAlertaArmazenamento(agora time.Time) {
	if p.PrazoArmazenamento == nil {
		p.AlertaArmazenamento = false
		return
	}
	p.AlertaArmazenamento = agora.After(p.PrazoArmazenamento.Add(-LimiarAlertaArmazenamento))
}
