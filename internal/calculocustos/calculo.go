package calculocustos

import (
	"fmt"

	"github.com/BeiraCargo/api-despacho/internal/models"
	"github.com/BeiraCargo/api-despacho/internal/pedidopagamento"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Taxas fixas de desembaraço por container, em USD. São a parte previsível
// do custo de um processo; o resto vem dos pedidos de pagamento pagos.
var TaxasBasePorContainer = map[string]decimal.Decimal{
	"desalfandegamento":      decimal.NewFromInt(250),
	"taxa_container_armador": decimal.NewFromInt(175),
	"caucao":                 decimal.NewFromInt(500),
	"agenciamento":           decimal.NewFromInt(200),
}

// ContainersPorProcesso fixa um container por processo enquanto o registo
// do processo só guarda um número de container.
const ContainersPorProcesso = 1

// MargemPadrao é a margem de lucro aplicada sobre o subtotal, em percentagem.
var MargemPadrao = decimal.NewFromInt(15)

// CustosProcesso é o breakdown completo de custos de um processo: taxas
// base fixas, pedidos pagos agrupados por categoria, margem e total final.
type CustosProcesso struct {
	ProcessoID uint `json:"processoId"`

	TaxasBase      map[string]decimal.Decimal `json:"taxasBase"`
	TotalTaxasBase decimal.Decimal            `json:"totalTaxasBase"`

	PorCategoria      map[string]decimal.Decimal `json:"porCategoria"`
	TotalPedidosPagos decimal.Decimal            `json:"totalPedidosPagos"`

	Subtotal         decimal.Decimal `json:"subtotal"`
	MargemPercentual decimal.Decimal `json:"margemPercentual"`
	ValorMargem      decimal.Decimal `json:"valorMargem"`
	TotalFatura      decimal.Decimal `json:"totalFatura"`
}

type Calculadora struct {
	Pedidos pedidopagamento.Repository
}

func NewCalculadora(pedidos pedidopagamento.Repository) *Calculadora {
	return &Calculadora{Pedidos: pedidos}
}

// CalcularCustos agrega as taxas base e os pedidos de pagamento já pagos
// do processo. Pedidos em aberto ficam de fora; só dinheiro que saiu conta.
func (c *Calculadora) CalcularCustos(db *gorm.DB, processoID uint) (*CustosProcesso, error) {
	pagos, err := c.Pedidos.ListarPorProcessoEStatus(db, processoID, []string{models.PedidoPago})
	if err != nil {
		return nil, fmt.Errorf("erro ao listar pedidos pagos: %w", err)
	}

	custos := &CustosProcesso{
		ProcessoID:   processoID,
		TaxasBase:    map[string]decimal.Decimal{},
		PorCategoria: map[string]decimal.Decimal{},
	}

	containers := decimal.NewFromInt(ContainersPorProcesso)
	for nome, taxa := range TaxasBasePorContainer {
		valor := taxa.Mul(containers)
		custos.TaxasBase[nome] = valor
		custos.TotalTaxasBase = custos.TotalTaxasBase.Add(valor)
	}

	for _, p := range pagos {
		cat := p.Categoria()
		custos.PorCategoria[cat] = custos.PorCategoria[cat].Add(p.Valor)
		custos.TotalPedidosPagos = custos.TotalPedidosPagos.Add(p.Valor)
	}

	custos.Subtotal = custos.TotalTaxasBase.Add(custos.TotalPedidosPagos)
	AplicarMargem(custos, MargemPadrao)
	return custos, nil
}

// AplicarMargem fecha o cálculo com a percentagem dada. O arredondamento a
// 2 casas acontece uma única vez, no total final; a margem é derivada do
// total já arredondado para que subtotal + margem == total exatamente.
func AplicarMargem(c *CustosProcesso, percentual decimal.Decimal) {
	c.MargemPercentual = percentual
	margem := c.Subtotal.Mul(percentual).Div(decimal.NewFromInt(100))
	c.TotalFatura = c.Subtotal.Add(margem).Round(2)
	c.ValorMargem = c.TotalFatura.Sub(c.Subtotal)
}
