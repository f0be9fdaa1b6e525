// internal/documento/checklist.go
package documento

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// requisito descreve um tipo de documento esperado numa fase.
type requisito struct {
	Tipo        string
	Rotulo      string
	Obrigatorio bool
}

// Tabela fixa fase -> documentos esperados. Os obrigatórios travam a
// conclusão da fase; os restantes são apenas orientativos.
var requisitosPorFase = map[int][]requisito{
	1: {
		{TipoBLMaster, "BL / documento de transporte master", true},
		{TipoCotacaoFrete, "Cotação de frete", false},
		{TipoPackingList, "Packing list", false},
		{TipoFaturaComercial, "Fatura comercial", false},
	},
	2: {
		{TipoOrdemSaidaCarimbada, "Ordem de saída carimbada", true},
		{TipoProcuracao, "Procuração do despachante", false},
	},
	3: {
		{TipoDAUTransito, "DAU / formulário de trânsito aduaneiro", true},
		{TipoReciboTaxas, "Recibo de taxas aduaneiras", false},
	},
	4: {
		{TipoNotaEntregaTerminal, "Nota de entrega do terminal", false},
		{TipoReciboArmazenamento, "Recibo de armazenamento", false},
	},
	5: {
		{TipoAvisoTaxacao, "Aviso de taxação", false},
	},
	6: {
		{TipoFaturaClienteEmitida, "Fatura emitida ao cliente", false},
	},
	7: {
		{TipoPOD, "Prova de entrega (POD)", true},
		{TipoCanhotoEntrega, "Canhoto de entrega assinado", false},
	},
}

// ItemChecklist é uma linha do resultado do checklist de uma fase.
type ItemChecklist struct {
	Tipo        string     `json:"tipo"`
	Rotulo      string     `json:"rotulo"`
	Obrigatorio bool       `json:"obrigatorio"`
	Anexado     bool       `json:"anexado"`
	DocumentoID *uuid.UUID `json:"documentoId,omitempty"`
}

// Checklist verifica que documentos uma fase exige e quais já foram anexados.
// Leitura pura: uma única consulta aos documentos do processo, sem efeitos.
type Checklist struct {
	Documentos Repository
}

func NewChecklist(repo Repository) *Checklist {
	return &Checklist{Documentos: repo}
}

func (c *Checklist) Verificar(db *gorm.DB, processoID uint, fase int) ([]ItemChecklist, error) {
	requisitos := requisitosPorFase[fase]
	if len(requisitos) == 0 {
		return nil, nil
	}

	docs, err := c.Documentos.ListarPorProcesso(db, processoID)
	if err != nil {
		return nil, err
	}
	porTipo := make(map[string]*Documento, len(docs))
	for i := range docs {
		porTipo[docs[i].Tipo] = &docs[i]
	}

	itens := make([]ItemChecklist, 0, len(requisitos))
	for _, req := range requisitos {
		item := ItemChecklist{
			Tipo:        req.Tipo,
			Rotulo:      req.Rotulo,
			Obrigatorio: req.Obrigatorio,
		}
		if d, ok := porTipo[req.Tipo]; ok {
			item.Anexado = true
			id := d.ID
			item.DocumentoID = &id
		}
		itens = append(itens, item)
	}
	return itens, nil
}

// ObrigatoriosSatisfeitos devolve true quando todos os documentos
// obrigatórios da fase estão anexados. Fases sem requisitos passam sempre.
func (c *Checklist) ObrigatoriosSatisfeitos(db *gorm.DB, processoID uint, fase int) (bool, error) {
	itens, err := c.Verificar(db, processoID, fase)
	if err != nil {
		return false, err
	}
	for _, item := range itens {
		if item.Obrigatorio && !item.Anexado {
			return false, nil
		}
	}
	return true, nil
}
