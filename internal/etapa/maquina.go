// internal/etapa/maquina.go
package etapa

import (
	"fmt"
	"log"
	"time"

	"github.com/BeiraCargo/api-despacho/internal/documento"
	"github.com/BeiraCargo/api-despacho/internal/models"
	"github.com/BeiraCargo/api-despacho/internal/pedidopagamento"
	"github.com/BeiraCargo/api-despacho/internal/processo"
	"gorm.io/gorm"
)

// Maquina é o único caminho de escrita do estado de fases: mantém o registo
// de etapas (fonte de verdade) e a projeção plana do Processo na mesma
// transação, para as duas representações nunca divergirem.
//
// Implementa pedidopagamento.AvancadorFase, por isso as confirmações de
// pagamento e os recibos fluem para cá.
type Maquina struct {
	Etapas    Repository
	Processos processo.Repository
	Pedidos   pedidopagamento.Repository
	Checklist *documento.Checklist
}

func NewMaquina(etapas Repository, processos processo.Repository, pedidos pedidopagamento.Repository, checklist *documento.Checklist) *Maquina {
	return &Maquina{
		Etapas:    etapas,
		Processos: processos,
		Pedidos:   pedidos,
		Checklist: checklist,
	}
}

var _ pedidopagamento.AvancadorFase = (*Maquina)(nil)

// IniciarFase abre (ou reabre em leitura) a etapa da fase e marca a projeção
// como em andamento. Idempotente: uma fase já em andamento ou concluída não
// regride.
func (m *Maquina) IniciarFase(tx *gorm.DB, processoID uint, fase int, usuarioID uint) error {
	p, err := m.Processos.BuscarPorID(tx, processoID)
	if err != nil {
		return fmt.Errorf("carregar processo %d: %w", processoID, err)
	}
	if !p.FaseValida(fase) {
		return fmt.Errorf("fase %d não existe em processos de %s", fase, p.Tipo)
	}

	e, err := m.Etapas.BuscarAtual(tx, processoID, fase)
	if err != nil {
		return fmt.Errorf("carregar etapa %d do processo %d: %w", fase, processoID, err)
	}

	agora := time.Now()
	switch {
	case e == nil:
		e = &ProcessoEtapa{
			ProcessoID: processoID,
			Fase:       fase,
			Nome:       p.NomeFase(fase),
			Status:     models.EtapaEmAndamento,
			IniciadaEm: &agora,
			UsuarioID:  usuarioID,
		}
		if err := m.Etapas.Salvar(tx, e); err != nil {
			return fmt.Errorf("abrir etapa %d: %w", fase, err)
		}
	case e.Status == models.EtapaPendente:
		e.Status = models.EtapaEmAndamento
		e.IniciadaEm = &agora
		e.UsuarioID = usuarioID
		if err := m.Etapas.Atualizar(tx, e); err != nil {
			return fmt.Errorf("iniciar etapa %d: %w", fase, err)
		}
	default:
		// já em andamento, bloqueada ou concluída: nada a fazer
		return nil
	}

	return m.projetar(tx, p, fase, models.FaseEmAndamento)
}

// ConcluirFase fecha a fase quando os documentos obrigatórios estão anexados
// e não restam pedidos de pagamento em aberto. Devolve resultado inválido
// (não erro) quando os pré-requisitos faltam; concluir duas vezes é no-op.
func (m *Maquina) ConcluirFase(tx *gorm.DB, processoID uint, fase int, usuarioID uint) (models.ResultadoTransicao, error) {
	p, err := m.Processos.BuscarPorID(tx, processoID)
	if err != nil {
		return models.ResultadoTransicao{}, fmt.Errorf("carregar processo %d: %w", processoID, err)
	}
	if !p.FaseValida(fase) {
		return models.TransicaoInvalida(fmt.Sprintf("fase %d não existe em processos de %s", fase, p.Tipo)), nil
	}

	e, err := m.Etapas.BuscarAtual(tx, processoID, fase)
	if err != nil {
		return models.ResultadoTransicao{}, fmt.Errorf("carregar etapa %d do processo %d: %w", fase, processoID, err)
	}
	if e != nil && e.Status == models.EtapaConcluida {
		return models.TransicaoOK(), nil
	}
	if e != nil && e.Status == models.EtapaBloqueada {
		return models.TransicaoInvalida("etapa bloqueada"), nil
	}

	satisfeitos, err := m.Checklist.ObrigatoriosSatisfeitos(tx, processoID, fase)
	if err != nil {
		return models.ResultadoTransicao{}, err
	}
	if !satisfeitos {
		return models.TransicaoInvalida("documentos obrigatórios em falta"), nil
	}

	emAberto, err := m.Pedidos.ContarEmAbertoNaFase(tx, processoID, fase)
	if err != nil {
		return models.ResultadoTransicao{}, err
	}
	if emAberto > 0 {
		return models.TransicaoInvalida("fase tem pedidos de pagamento em aberto"), nil
	}
	porReceber, err := m.Pedidos.ContarPagosSemRecibo(tx, processoID, fase)
	if err != nil {
		return models.ResultadoTransicao{}, err
	}
	if porReceber > 0 {
		return models.TransicaoInvalida("fase tem pagamentos sem recibo"), nil
	}

	agora := time.Now()
	if e == nil {
		e = &ProcessoEtapa{
			ProcessoID: processoID,
			Fase:       fase,
			Nome:       p.NomeFase(fase),
			IniciadaEm: &agora,
		}
	}
	e.Status = models.EtapaConcluida
	e.ConcluidaEm = &agora
	e.UsuarioID = usuarioID
	if e.ID == 0 {
		err = m.Etapas.Salvar(tx, e)
	} else {
		err = m.Etapas.Atualizar(tx, e)
	}
	if err != nil {
		return models.ResultadoTransicao{}, fmt.Errorf("concluir etapa %d: %w", fase, err)
	}

	if err := m.projetar(tx, p, fase, models.FaseConcluida); err != nil {
		return models.ResultadoTransicao{}, err
	}

	// A fase seguinte entra em andamento assim que esta fecha.
	if fase < p.UltimaFase() {
		if err := m.IniciarFase(tx, processoID, fase+1, usuarioID); err != nil {
			return models.ResultadoTransicao{}, err
		}
	}

	log.Printf("[processo %d] fase %d concluída", processoID, fase)
	return models.TransicaoOK(), nil
}

// Bloquear marca a etapa como bloqueada com uma nota (intervenção manual).
func (m *Maquina) Bloquear(tx *gorm.DB, processoID uint, fase int, usuarioID uint, nota string) error {
	p, err := m.Processos.BuscarPorID(tx, processoID)
	if err != nil {
		return err
	}
	if !p.FaseValida(fase) {
		return fmt.Errorf("fase %d não existe em processos de %s", fase, p.Tipo)
	}

	e, err := m.Etapas.BuscarAtual(tx, processoID, fase)
	if err != nil {
		return err
	}
	if e == nil {
		e = &ProcessoEtapa{
			ProcessoID: processoID,
			Fase:       fase,
			Nome:       p.NomeFase(fase),
		}
	}
	e.Status = models.EtapaBloqueada
	e.Notas = nota
	e.UsuarioID = usuarioID
	if e.ID == 0 {
		return m.Etapas.Salvar(tx, e)
	}
	return m.Etapas.Atualizar(tx, e)
}

// AvancarFase é o gancho chamado após cada confirmação de pagamento: garante
// que a fase está aberta e regista o evento na etapa.
func (m *Maquina) AvancarFase(tx *gorm.DB, processoID uint, fase int, usuarioID uint) error {
	return m.IniciarFase(tx, processoID, fase, usuarioID)
}

// ConcluirFaseSePronta tenta fechar a fase; pré-requisitos em falta são
// no-op, não erro. Seguro de re-disparar.
func (m *Maquina) ConcluirFaseSePronta(tx *gorm.DB, processoID uint, fase int, usuarioID uint) error {
	resultado, err := m.ConcluirFase(tx, processoID, fase, usuarioID)
	if err != nil {
		return err
	}
	if !resultado.OK {
		log.Printf("[processo %d] fase %d ainda não pode concluir: %s", processoID, fase, resultado.Motivo)
	}
	return nil
}

// projetar escreve o status da fase na projeção plana do Processo.
func (m *Maquina) projetar(tx *gorm.DB, p *processo.Processo, fase int, status string) error {
	p.AtualizarFase(fase, status)
	if err := m.Processos.Atualizar(tx, p); err != nil {
		return fmt.Errorf("projetar fase %d do processo %d: %w", fase, p.ID, err)
	}
	return nil
}
