package calculocustos

import (
	"fmt"
	"time"

	"github.com/BeiraCargo/api-despacho/internal/fatura"
	"github.com/BeiraCargo/api-despacho/internal/models"
	"github.com/BeiraCargo/api-despacho/internal/numeracao"
	"github.com/BeiraCargo/api-despacho/internal/processo"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PrazoPagamentoDias é o vencimento padrão das faturas ao cliente.
const PrazoPagamentoDias = 30

// Faturador emite a fatura ao cliente a partir do cálculo de custos.
type Faturador struct {
	DB          *gorm.DB
	Calculadora *Calculadora
	Validador   *Validador
	Faturas     fatura.Repository
	Processos   processo.Repository
	Numeracao   *numeracao.Gerador
}

// GerarFaturaCliente valida, calcula e emite a fatura numa transação única.
// margemPercentual nula usa a margem padrão; zero é uma escolha legítima e
// emite a fatura sem margem. Quando a validação bloqueia, devolve o
// resultado sem fatura e sem erro; o chamador decide como apresentar os
// motivos.
func (f *Faturador) GerarFaturaCliente(processoID uint, margemPercentual *decimal.Decimal, usuarioID uint) (*fatura.Fatura, *models.ResultadoValidacao, error) {
	var emitida *fatura.Fatura
	var validacao *models.ResultadoValidacao

	err := f.DB.Transaction(func(tx *gorm.DB) error {
		res, err := f.Validador.PodeGerarFatura(tx, processoID)
		if err != nil {
			return err
		}
		validacao = res
		if !res.PodeGerar {
			return nil
		}

		proc, err := f.Processos.BuscarPorID(tx, processoID)
		if err != nil {
			return fmt.Errorf("erro ao buscar processo: %w", err)
		}

		custos, err := f.Calculadora.CalcularCustos(tx, processoID)
		if err != nil {
			return err
		}
		if margemPercentual != nil {
			AplicarMargem(custos, *margemPercentual)
		}

		agora := time.Now()
		numero, err := f.Numeracao.Proximo(tx, numeracao.TipoFatura, agora.Year())
		if err != nil {
			return fmt.Errorf("erro ao gerar número de fatura: %w", err)
		}

		vencimento := agora.AddDate(0, 0, PrazoPagamentoDias)
		nova := fatura.Fatura{
			Tipo:           models.FaturaCliente,
			Numero:         numero,
			ProcessoID:     &proc.ID,
			ClienteID:      &proc.ClienteID,
			Valor:          custos.TotalFatura,
			Moeda:          "USD",
			DataEmissao:    agora,
			DataVencimento: &vencimento,
			Status:         models.FaturaPendente,
			Metadados: map[string]any{
				"invoice_data": dadosFatura(proc.Referencia, custos),
				"emitida_por":  usuarioID,
			},
		}
		if err := f.Faturas.Salvar(tx, &nova); err != nil {
			return fmt.Errorf("erro ao gravar fatura: %w", err)
		}

		proc.CustoTotal = custos.Subtotal
		proc.ValorFatura = custos.TotalFatura
		proc.MargemLucro = custos.MargemPercentual
		if err := f.Processos.Atualizar(tx, proc); err != nil {
			return fmt.Errorf("erro ao atualizar processo: %w", err)
		}

		emitida = &nova
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return emitida, validacao, nil
}

// dadosFatura serializa o breakdown para os metadados da fatura. Valores
// decimais viajam como string para não perderem precisão no jsonb.
func dadosFatura(referencia string, c *CustosProcesso) map[string]any {
	taxas := map[string]any{}
	for nome, v := range c.TaxasBase {
		taxas[nome] = v.StringFixed(2)
	}
	categorias := map[string]any{}
	for cat, v := range c.PorCategoria {
		categorias[cat] = v.StringFixed(2)
	}
	return map[string]any{
		"referencia":          referencia,
		"base_taxes":          taxas,
		"paid_costs":          categorias,
		"subtotal":            c.Subtotal.StringFixed(2),
		"margin_percent":      c.MargemPercentual.StringFixed(2),
		"margin_value":        c.ValorMargem.StringFixed(2),
		"total_invoice":       c.TotalFatura.StringFixed(2),
		"containers":          ContainersPorProcesso,
		"total_base_taxes":    c.TotalTaxasBase.StringFixed(2),
		"total_paid_requests": c.TotalPedidosPagos.StringFixed(2),
	}
}
