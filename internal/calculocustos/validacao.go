package calculocustos

import (
	"fmt"

	"github.com/BeiraCargo/api-despacho/internal/etapa"
	"github.com/BeiraCargo/api-despacho/internal/fatura"
	"github.com/BeiraCargo/api-despacho/internal/models"
	"github.com/BeiraCargo/api-despacho/internal/pedidopagamento"
	"github.com/BeiraCargo/api-despacho/internal/processo"
	"gorm.io/gorm"
)

// Validador decide se um processo está pronto para faturação ao cliente.
type Validador struct {
	Processos processo.Repository
	Etapas    etapa.Repository
	Pedidos   pedidopagamento.Repository
	Faturas   fatura.Repository
}

// PodeGerarFatura verifica as condições de faturação e devolve sempre um
// resultado estruturado. Falhas de consulta viram erro; regras de negócio
// viram erros ou avisos dentro do resultado.
func (v *Validador) PodeGerarFatura(db *gorm.DB, processoID uint) (*models.ResultadoValidacao, error) {
	res := &models.ResultadoValidacao{PodeGerar: true}

	proc, err := v.Processos.BuscarPorID(db, processoID)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar processo: %w", err)
	}

	atual, err := v.Etapas.BuscarAtual(db, processoID, processo.FaseColetaDispersa)
	if err != nil {
		return nil, fmt.Errorf("erro ao consultar etapas: %w", err)
	}
	if atual == nil || atual.Status != models.EtapaConcluida {
		res.AdicionarErro("Fase de coleta e dispersa ainda não concluída")
	}

	abertos, err := v.Pedidos.ListarPorProcessoEStatus(db, processoID, []string{
		models.PedidoPendente, models.PedidoAprovado, models.PedidoEmPagamento,
	})
	if err != nil {
		return nil, fmt.Errorf("erro ao listar pedidos em aberto: %w", err)
	}
	if n := len(abertos); n > 0 {
		res.AdicionarErro(fmt.Sprintf("Existem %d pedidos de pagamento por liquidar", n))
	}

	existe, err := v.Faturas.ExisteFaturaCliente(db, processoID)
	if err != nil {
		return nil, fmt.Errorf("erro ao consultar faturas: %w", err)
	}
	if existe {
		res.AdicionarAviso("O processo já tem fatura ao cliente emitida")
	}

	if proc.NumeroContainer == "" {
		res.AdicionarAviso("Processo sem número de container registado")
	}

	return res, nil
}
