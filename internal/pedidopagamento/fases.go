// internal/pedidopagamento/fases.go
package pedidopagamento

import (
	"github.com/BeiraCargo/api-despacho/internal/models"
)

// Tipos de pedido (categorias de custo). O conjunto é aberto no modelo —
// tipos fora desta lista caem em "outros" e só aparecem na própria fase.
const (
	TipoColetaDispersa       = "coleta_dispersa"
	TipoAlfandegasPreliminar = "alfandegas_preliminar"
	TipoDespesasAlfandegas   = "despesas_alfandegarias"
	TipoDespesasCornelder    = "despesas_cornelder"
	TipoTaxaArmazenamento    = "taxa_armazenamento"
	TipoEscolta              = "escolta"
	TipoTaxacao              = "taxacao"
	TipoDespesasPOD          = "despesas_pod"
)

// fasesPorTipo: em que fases cada tipo de pedido deve APARECER nos painéis.
// Independente da fase em que foi arquivado — um custo alfandegário
// preliminar lançado na fase 1 também interessa à fase 3. Tipos fora do mapa
// aparecem só na fase gravada no pedido.
var fasesPorTipo = map[string][]int{
	TipoColetaDispersa:       {1},
	TipoAlfandegasPreliminar: {1, 3},
	TipoDespesasAlfandegas:   {3},
	TipoDespesasCornelder:    {4},
	TipoTaxaArmazenamento:    {1, 4},
	TipoEscolta:              {2, 3},
	TipoTaxacao:              {5},
	TipoDespesasPOD:          {7},
}

// categoriaPorTipo agrupa os tipos nos quatro baldes de custo usados na
// agregação de faturação.
var categoriaPorTipo = map[string]string{
	TipoColetaDispersa:       models.CategoriaColetaDispersa,
	TipoAlfandegasPreliminar: models.CategoriaAlfandegas,
	TipoDespesasAlfandegas:   models.CategoriaAlfandegas,
	TipoTaxacao:              models.CategoriaAlfandegas,
	TipoDespesasCornelder:    models.CategoriaCornelder,
	TipoTaxaArmazenamento:    models.CategoriaCornelder,
}

// DeveExibirNaFase decide se o pedido aparece no painel da fase dada.
func (p *PedidoPagamento) DeveExibirNaFase(fase int) bool {
	fases, ok := fasesPorTipo[p.Tipo]
	if !ok {
		return p.Fase == fase
	}
	for _, f := range fases {
		if f == fase {
			return true
		}
	}
	return false
}

// Categoria devolve o balde de custo do pedido para a agregação.
func (p *PedidoPagamento) Categoria() string {
	if cat, ok := categoriaPorTipo[p.Tipo]; ok {
		return cat
	}
	return models.CategoriaOutros
}
