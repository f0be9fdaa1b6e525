// internal/pedidopagamento/workflow.go
package pedidopagamento

import (
	"fmt"
	"log"
	"time"

	"github.com/BeiraCargo/api-despacho/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AvancadorFase é o ponto de extensão para a progressão de fases: a máquina
// de etapas implementa-o e é chamada dentro da mesma transação da transição.
// Ambas as chamadas têm de ser idempotentes — podem ser re-disparadas.
type AvancadorFase interface {
	// AvancarFase é disparado após a confirmação de um pagamento.
	AvancarFase(tx *gorm.DB, processoID uint, fase int, usuarioID uint) error
	// ConcluirFaseSePronta é disparado quando o último pedido pago da fase
	// recebe recibo; decide sozinho se a fase pode mesmo concluir.
	ConcluirFaseSePronta(tx *gorm.DB, processoID uint, fase int, usuarioID uint) error
}

// Notificador é informado depois de aprovar/rejeitar/pagar. Fire-and-forget:
// falha de notificação nunca falha a transição.
type Notificador interface {
	NotificarEvento(evento string, pedido *PedidoPagamento)
}

// Eventos enviados ao notificador
const (
	EventoPedidoAprovado  = "pedido_aprovado"
	EventoPedidoRejeitado = "pedido_rejeitado"
	EventoPedidoPago      = "pedido_pago"
)

// Workflow é a máquina de estados de um pedido de pagamento. Cada transição
// é um compare-and-set com lock de linha: duas aprovações concorrentes do
// mesmo pedido nunca passam as duas.
//
// O utilizador que age entra sempre por parâmetro — o workflow não consulta
// nenhum "utilizador atual" ambiente.
type Workflow struct {
	DB          *gorm.DB
	Repository  Repository
	Avancador   AvancadorFase
	Notificador Notificador

	// PermitirPagamentoForcado reproduz o comportamento herdado em que
	// finanças pode confirmar um pagamento a partir de qualquer estado
	// (força-correção). Desligado, só approved/in_payment confirmam.
	PermitirPagamentoForcado bool
}

func NewWorkflow(db *gorm.DB, repo Repository, avancador AvancadorFase, notificador Notificador) *Workflow {
	return &Workflow{
		DB:          db,
		Repository:  repo,
		Avancador:   avancador,
		Notificador: notificador,
	}
}

// Aprovar move o pedido de pending para approved. Exige cotação anexada.
// Transição ilegal devolve resultado inválido, não erro: o segundo Aprovar
// seguido é um no-op verificável.
func (w *Workflow) Aprovar(pedidoID, usuarioID uint, notas string) (models.ResultadoTransicao, error) {
	var resultado models.ResultadoTransicao
	var aprovado *PedidoPagamento

	err := w.DB.Transaction(func(tx *gorm.DB) error {
		p, err := w.Repository.BuscarPorIDParaAtualizar(tx, pedidoID)
		if err != nil {
			return err
		}
		if p.Status != models.PedidoPendente {
			resultado = models.TransicaoInvalida("pedido não está pendente")
			return nil
		}
		if p.CotacaoDocumentoID == nil {
			resultado = models.TransicaoInvalida("pedido sem cotação anexada")
			return nil
		}

		agora := time.Now()
		p.Status = models.PedidoAprovado
		p.AprovadorID = &usuarioID
		p.AprovadoEm = &agora
		if notas != "" {
			anexarNota(p, "notasAprovacao", notas)
		}
		if err := w.Repository.Atualizar(tx, p); err != nil {
			return err
		}
		resultado = models.TransicaoOK()
		aprovado = p
		return nil
	})
	if err != nil {
		return models.ResultadoTransicao{}, fmt.Errorf("aprovar pedido %d: %w", pedidoID, err)
	}

	if resultado.OK {
		w.notificar(EventoPedidoAprovado, aprovado)
	}
	return resultado, nil
}

// Rejeitar encerra o pedido com um motivo obrigatório.
func (w *Workflow) Rejeitar(pedidoID, usuarioID uint, motivo string) (models.ResultadoTransicao, error) {
	if motivo == "" {
		return models.TransicaoInvalida("motivo de rejeição é obrigatório"), nil
	}

	var resultado models.ResultadoTransicao
	var rejeitado *PedidoPagamento

	err := w.DB.Transaction(func(tx *gorm.DB) error {
		p, err := w.Repository.BuscarPorIDParaAtualizar(tx, pedidoID)
		if err != nil {
			return err
		}
		if p.Status != models.PedidoPendente {
			resultado = models.TransicaoInvalida("pedido não está pendente")
			return nil
		}

		agora := time.Now()
		p.Status = models.PedidoRejeitado
		p.MotivoRejeicao = motivo
		p.AprovadorID = &usuarioID
		p.AprovadoEm = &agora
		if err := w.Repository.Atualizar(tx, p); err != nil {
			return err
		}
		resultado = models.TransicaoOK()
		rejeitado = p
		return nil
	})
	if err != nil {
		return models.ResultadoTransicao{}, fmt.Errorf("rejeitar pedido %d: %w", pedidoID, err)
	}

	if resultado.OK {
		w.notificar(EventoPedidoRejeitado, rejeitado)
	}
	return resultado, nil
}

// IniciarPagamento regista quem vai executar e passa para in_payment.
func (w *Workflow) IniciarPagamento(pedidoID, usuarioID uint) (models.ResultadoTransicao, error) {
	var resultado models.ResultadoTransicao

	err := w.DB.Transaction(func(tx *gorm.DB) error {
		p, err := w.Repository.BuscarPorIDParaAtualizar(tx, pedidoID)
		if err != nil {
			return err
		}
		if !p.PodeSerPago() {
			resultado = models.TransicaoInvalida("pedido não está aprovado")
			return nil
		}

		p.Status = models.PedidoEmPagamento
		p.PagadorID = &usuarioID
		if err := w.Repository.Atualizar(tx, p); err != nil {
			return err
		}
		resultado = models.TransicaoOK()
		return nil
	})
	if err != nil {
		return models.ResultadoTransicao{}, fmt.Errorf("iniciar pagamento do pedido %d: %w", pedidoID, err)
	}
	return resultado, nil
}

// ConfirmarPagamento marca o pedido como pago, guarda o comprovativo e
// dispara a progressão de fase dentro da mesma transação. pagador e
// timestamp são gravados juntos.
func (w *Workflow) ConfirmarPagamento(pedidoID, usuarioID uint, comprovativoID uuid.UUID) (models.ResultadoTransicao, error) {
	var resultado models.ResultadoTransicao
	var pago *PedidoPagamento

	err := w.DB.Transaction(func(tx *gorm.DB) error {
		p, err := w.Repository.BuscarPorIDParaAtualizar(tx, pedidoID)
		if err != nil {
			return err
		}
		if !w.PermitirPagamentoForcado {
			switch p.Status {
			case models.PedidoAprovado, models.PedidoEmPagamento:
			default:
				resultado = models.TransicaoInvalida("pedido não está aprovado nem em pagamento")
				return nil
			}
		}

		agora := time.Now()
		p.Status = models.PedidoPago
		p.PagadorID = &usuarioID
		p.PagoEm = &agora
		p.ComprovativoDocumentoID = &comprovativoID
		if err := w.Repository.Atualizar(tx, p); err != nil {
			return err
		}

		if w.Avancador != nil {
			if err := w.Avancador.AvancarFase(tx, p.ProcessoID, p.Fase, usuarioID); err != nil {
				return err
			}
		}
		resultado = models.TransicaoOK()
		pago = p
		return nil
	})
	if err != nil {
		return models.ResultadoTransicao{}, fmt.Errorf("confirmar pagamento do pedido %d: %w", pedidoID, err)
	}

	if resultado.OK {
		w.notificar(EventoPedidoPago, pago)
	}
	return resultado, nil
}

// AnexarRecibo guarda o recibo do fornecedor e, se este era o último pedido
// pago sem recibo da fase, tenta concluir a fase. A conclusão é idempotente,
// por isso re-anexar não duplica efeitos.
func (w *Workflow) AnexarRecibo(pedidoID, usuarioID uint, reciboID uuid.UUID) (models.ResultadoTransicao, error) {
	var resultado models.ResultadoTransicao

	err := w.DB.Transaction(func(tx *gorm.DB) error {
		p, err := w.Repository.BuscarPorIDParaAtualizar(tx, pedidoID)
		if err != nil {
			return err
		}
		if p.Status != models.PedidoPago {
			resultado = models.TransicaoInvalida("só pedidos pagos recebem recibo")
			return nil
		}

		p.ReciboDocumentoID = &reciboID
		if err := w.Repository.Atualizar(tx, p); err != nil {
			return err
		}

		porReceber, err := w.Repository.ContarPagosSemRecibo(tx, p.ProcessoID, p.Fase)
		if err != nil {
			return err
		}
		if porReceber == 0 && w.Avancador != nil {
			if err := w.Avancador.ConcluirFaseSePronta(tx, p.ProcessoID, p.Fase, usuarioID); err != nil {
				return err
			}
		}
		resultado = models.TransicaoOK()
		return nil
	})
	if err != nil {
		return models.ResultadoTransicao{}, fmt.Errorf("anexar recibo ao pedido %d: %w", pedidoID, err)
	}
	return resultado, nil
}

// Cancelar encerra administrativamente um pedido ainda em aberto.
func (w *Workflow) Cancelar(pedidoID, usuarioID uint, motivo string) (models.ResultadoTransicao, error) {
	var resultado models.ResultadoTransicao

	err := w.DB.Transaction(func(tx *gorm.DB) error {
		p, err := w.Repository.BuscarPorIDParaAtualizar(tx, pedidoID)
		if err != nil {
			return err
		}
		if !p.EmAberto() {
			resultado = models.TransicaoInvalida("pedido já liquidado ou encerrado")
			return nil
		}

		p.Status = models.PedidoCancelado
		if motivo != "" {
			anexarNota(p, "notasCancelamento", motivo)
		}
		if err := w.Repository.Atualizar(tx, p); err != nil {
			return err
		}
		resultado = models.TransicaoOK()
		return nil
	})
	if err != nil {
		return models.ResultadoTransicao{}, fmt.Errorf("cancelar pedido %d: %w", pedidoID, err)
	}
	return resultado, nil
}

func (w *Workflow) notificar(evento string, p *PedidoPagamento) {
	if w.Notificador == nil || p == nil {
		return
	}
	w.Notificador.NotificarEvento(evento, p)
}

// anexarNota acrescenta uma entrada à lista de notas nos metadados.
func anexarNota(p *PedidoPagamento, chave, nota string) {
	if p.Metadados == nil {
		p.Metadados = map[string]any{}
	}
	notas, _ := p.Metadados[chave].([]any)
	p.Metadados[chave] = append(notas, nota)
	log.Printf("[pedido %d] %s: %s", p.ID, chave, nota)
}
