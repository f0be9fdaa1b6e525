package documento

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tipos de documento conhecidos pelo checklist. Guardados como texto livre
// na tabela: documentos fora desta lista são anexos avulsos.
const (
	TipoBLMaster             = "bl_master"
	TipoPackingList          = "packing_list"
	TipoFaturaComercial      = "fatura_comercial"
	TipoCotacaoFrete         = "cotacao_frete"
	TipoOrdemSaidaCarimbada  = "ordem_saida_carimbada"
	TipoProcuracao           = "procuracao"
	TipoDAUTransito          = "dau_transito"
	TipoReciboTaxas          = "recibo_taxas"
	TipoNotaEntregaTerminal  = "nota_entrega_terminal"
	TipoReciboArmazenamento  = "recibo_armazenamento"
	TipoAvisoTaxacao         = "aviso_taxacao"
	TipoFaturaClienteEmitida = "fatura_cliente"
	TipoPOD                  = "pod"
	TipoCanhotoEntrega       = "canhoto_entrega"
)

// Documento é a referência a um ficheiro carregado para um processo. O core
// guarda apenas a referência e metadados; os bytes vivem no armazenamento
// externo apontado pela URL.
type Documento struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProcessoID   uint      `gorm:"not null;index" json:"processoId"`
	Tipo         string    `gorm:"size:50;not null;index" json:"tipo"`
	Nome         string    `gorm:"size:255" json:"nome"`
	URL          string    `gorm:"not null" json:"url"`
	CarregadoPor uint      `json:"carregadoPor"`
	CarregadoEm  time.Time `json:"carregadoEm"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (d *Documento) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.CarregadoEm.IsZero() {
		d.CarregadoEm = time.Now()
	}
	return nil
}
