package pedidopagamento

import (
	"fmt"
	"testing"

	"github.com/BeiraCargo/api-despacho/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func abrirDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("abrir sqlite: %v", err)
	}
	if err := db.AutoMigrate(&PedidoPagamento{}); err != nil {
		t.Fatalf("migrar: %v", err)
	}
	return db
}

type avancadorFake struct {
	avancos    []int
	conclusoes []int
}

func (f *avancadorFake) AvancarFase(tx *gorm.DB, processoID uint, fase int, usuarioID uint) error {
	f.avancos = append(f.avancos, fase)
	return nil
}

func (f *avancadorFake) ConcluirFaseSePronta(tx *gorm.DB, processoID uint, fase int, usuarioID uint) error {
	f.conclusoes = append(f.conclusoes, fase)
	return nil
}

type notificadorFake struct {
	eventos []string
}

func (f *notificadorFake) NotificarEvento(evento string, pedido *PedidoPagamento) {
	f.eventos = append(f.eventos, evento)
}

func novoAmbiente(t *testing.T) (*Workflow, *avancadorFake, *notificadorFake, *gorm.DB) {
	t.Helper()
	db := abrirDB(t)
	avancador := &avancadorFake{}
	notificador := &notificadorFake{}
	return NewWorkflow(db, NewRepository(), avancador, notificador), avancador, notificador, db
}

func criarPedido(t *testing.T, db *gorm.DB, status string, comCotacao bool) *PedidoPagamento {
	t.Helper()
	p := &PedidoPagamento{
		ProcessoID:    1,
		Fase:          3,
		Tipo:          TipoDespesasAlfandegas,
		Beneficiario:  "Alfândega da Beira",
		Valor:         decimal.NewFromInt(300),
		Status:        status,
		SolicitanteID: 1,
	}
	if comCotacao {
		id := uuid.New()
		p.CotacaoDocumentoID = &id
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("criar pedido: %v", err)
	}
	return p
}

func TestAprovar(t *testing.T) {
	t.Run("exige cotação anexada", func(t *testing.T) {
		w, _, notificador, db := novoAmbiente(t)
		p := criarPedido(t, db, models.PedidoPendente, false)

		res, err := w.Aprovar(p.ID, 9, "")
		if err != nil {
			t.Fatalf("Aprovar: %v", err)
		}
		if res.OK {
			t.Fatal("esperava transição inválida sem cotação")
		}
		if len(notificador.eventos) != 0 {
			t.Fatalf("eventos = %v, esperava nenhum", notificador.eventos)
		}
	})

	t.Run("aprova e regista aprovador e instante juntos", func(t *testing.T) {
		w, _, notificador, db := novoAmbiente(t)
		p := criarPedido(t, db, models.PedidoPendente, true)

		res, err := w.Aprovar(p.ID, 9, "dentro do orçamento")
		if err != nil {
			t.Fatalf("Aprovar: %v", err)
		}
		if !res.OK {
			t.Fatalf("transição inválida: %s", res.Motivo)
		}

		atual, err := w.Repository.BuscarPorID(db, p.ID)
		if err != nil {
			t.Fatalf("BuscarPorID: %v", err)
		}
		if atual.Status != models.PedidoAprovado {
			t.Fatalf("Status = %s, esperava approved", atual.Status)
		}
		if atual.AprovadorID == nil || *atual.AprovadorID != 9 {
			t.Fatal("AprovadorID não registado")
		}
		if atual.AprovadoEm == nil {
			t.Fatal("AprovadoEm não registado")
		}
		if len(notificador.eventos) != 1 || notificador.eventos[0] != EventoPedidoAprovado {
			t.Fatalf("eventos = %v", notificador.eventos)
		}
	})

	t.Run("segunda aprovação é no-op verificável", func(t *testing.T) {
		w, _, notificador, db := novoAmbiente(t)
		p := criarPedido(t, db, models.PedidoPendente, true)

		if res, _ := w.Aprovar(p.ID, 9, ""); !res.OK {
			t.Fatalf("primeira aprovação falhou: %s", res.Motivo)
		}
		res, err := w.Aprovar(p.ID, 10, "")
		if err != nil {
			t.Fatalf("Aprovar: %v", err)
		}
		if res.OK {
			t.Fatal("segunda aprovação devia ser inválida")
		}
		if len(notificador.eventos) != 1 {
			t.Fatalf("eventos = %v, esperava um único", notificador.eventos)
		}

		atual, _ := w.Repository.BuscarPorID(db, p.ID)
		if *atual.AprovadorID != 9 {
			t.Fatalf("AprovadorID = %d, o primeiro aprovador deve prevalecer", *atual.AprovadorID)
		}
	})
}

func TestRejeitar(t *testing.T) {
	t.Run("motivo é obrigatório", func(t *testing.T) {
		w, _, _, db := novoAmbiente(t)
		p := criarPedido(t, db, models.PedidoPendente, true)

		res, err := w.Rejeitar(p.ID, 9, "")
		if err != nil {
			t.Fatalf("Rejeitar: %v", err)
		}
		if res.OK {
			t.Fatal("rejeição sem motivo devia ser inválida")
		}
	})

	t.Run("rejeita com motivo gravado", func(t *testing.T) {
		w, _, notificador, db := novoAmbiente(t)
		p := criarPedido(t, db, models.PedidoPendente, true)

		res, err := w.Rejeitar(p.ID, 9, "valor acima da tabela")
		if err != nil {
			t.Fatalf("Rejeitar: %v", err)
		}
		if !res.OK {
			t.Fatalf("transição inválida: %s", res.Motivo)
		}

		atual, _ := w.Repository.BuscarPorID(db, p.ID)
		if atual.Status != models.PedidoRejeitado {
			t.Fatalf("Status = %s, esperava rejected", atual.Status)
		}
		if atual.MotivoRejeicao != "valor acima da tabela" {
			t.Fatalf("MotivoRejeicao = %q", atual.MotivoRejeicao)
		}
		if len(notificador.eventos) != 1 || notificador.eventos[0] != EventoPedidoRejeitado {
			t.Fatalf("eventos = %v", notificador.eventos)
		}
	})
}

func TestIniciarPagamento(t *testing.T) {
	t.Run("só pedidos aprovados entram em pagamento", func(t *testing.T) {
		w, _, _, db := novoAmbiente(t)
		p := criarPedido(t, db, models.PedidoPendente, true)

		res, err := w.IniciarPagamento(p.ID, 5)
		if err != nil {
			t.Fatalf("IniciarPagamento: %v", err)
		}
		if res.OK {
			t.Fatal("pedido pendente não devia entrar em pagamento")
		}
	})

	t.Run("regista o pagador", func(t *testing.T) {
		w, _, _, db := novoAmbiente(t)
		p := criarPedido(t, db, models.PedidoAprovado, true)

		res, err := w.IniciarPagamento(p.ID, 5)
		if err != nil {
			t.Fatalf("IniciarPagamento: %v", err)
		}
		if !res.OK {
			t.Fatalf("transição inválida: %s", res.Motivo)
		}
		atual, _ := w.Repository.BuscarPorID(db, p.ID)
		if atual.Status != models.PedidoEmPagamento {
			t.Fatalf("Status = %s, esperava in_payment", atual.Status)
		}
		if atual.PagadorID == nil || *atual.PagadorID != 5 {
			t.Fatal("PagadorID não registado")
		}
	})
}

func TestConfirmarPagamento(t *testing.T) {
	t.Run("modo estrito recusa estados fora de approved/in_payment", func(t *testing.T) {
		w, avancador, _, db := novoAmbiente(t)
		p := criarPedido(t, db, models.PedidoPendente, true)

		res, err := w.ConfirmarPagamento(p.ID, 5, uuid.New())
		if err != nil {
			t.Fatalf("ConfirmarPagamento: %v", err)
		}
		if res.OK {
			t.Fatal("confirmação a partir de pending devia ser inválida")
		}
		if len(avancador.avancos) != 0 {
			t.Fatalf("avanços = %v, esperava nenhum", avancador.avancos)
		}
	})

	t.Run("modo forçado confirma a partir de qualquer estado", func(t *testing.T) {
		w, avancador, _, db := novoAmbiente(t)
		w.PermitirPagamentoForcado = true
		p := criarPedido(t, db, models.PedidoPendente, true)

		res, err := w.ConfirmarPagamento(p.ID, 5, uuid.New())
		if err != nil {
			t.Fatalf("ConfirmarPagamento: %v", err)
		}
		if !res.OK {
			t.Fatalf("transição inválida: %s", res.Motivo)
		}
		if len(avancador.avancos) != 1 || avancador.avancos[0] != p.Fase {
			t.Fatalf("avanços = %v, esperava [%d]", avancador.avancos, p.Fase)
		}
	})

	t.Run("grava pagador, instante e comprovativo juntos e avança a fase", func(t *testing.T) {
		w, avancador, notificador, db := novoAmbiente(t)
		p := criarPedido(t, db, models.PedidoEmPagamento, true)
		comprovativo := uuid.New()

		res, err := w.ConfirmarPagamento(p.ID, 5, comprovativo)
		if err != nil {
			t.Fatalf("ConfirmarPagamento: %v", err)
		}
		if !res.OK {
			t.Fatalf("transição inválida: %s", res.Motivo)
		}

		atual, _ := w.Repository.BuscarPorID(db, p.ID)
		if atual.Status != models.PedidoPago {
			t.Fatalf("Status = %s, esperava paid", atual.Status)
		}
		if atual.PagadorID == nil || atual.PagoEm == nil || atual.ComprovativoDocumentoID == nil {
			t.Fatal("pagador, instante e comprovativo devem ser gravados juntos")
		}
		if *atual.ComprovativoDocumentoID != comprovativo {
			t.Fatal("comprovativo errado")
		}
		if len(avancador.avancos) != 1 || avancador.avancos[0] != p.Fase {
			t.Fatalf("avanços = %v, esperava [%d]", avancador.avancos, p.Fase)
		}
		if len(notificador.eventos) != 1 || notificador.eventos[0] != EventoPedidoPago {
			t.Fatalf("eventos = %v", notificador.eventos)
		}
	})
}

func TestAnexarRecibo(t *testing.T) {
	t.Run("só pedidos pagos recebem recibo", func(t *testing.T) {
		w, avancador, _, db := novoAmbiente(t)
		p := criarPedido(t, db, models.PedidoAprovado, true)

		res, err := w.AnexarRecibo(p.ID, 5, uuid.New())
		if err != nil {
			t.Fatalf("AnexarRecibo: %v", err)
		}
		if res.OK {
			t.Fatal("recibo em pedido não pago devia ser inválido")
		}
		if len(avancador.conclusoes) != 0 {
			t.Fatalf("conclusões = %v, esperava nenhuma", avancador.conclusoes)
		}
	})

	t.Run("só o último recibo da fase dispara a conclusão", func(t *testing.T) {
		w, avancador, _, db := novoAmbiente(t)
		primeiro := criarPedido(t, db, models.PedidoPago, true)
		segundo := criarPedido(t, db, models.PedidoPago, true)

		res, err := w.AnexarRecibo(primeiro.ID, 5, uuid.New())
		if err != nil {
			t.Fatalf("AnexarRecibo: %v", err)
		}
		if !res.OK {
			t.Fatalf("transição inválida: %s", res.Motivo)
		}
		if len(avancador.conclusoes) != 0 {
			t.Fatalf("conclusões = %v, ainda falta o recibo do segundo pedido", avancador.conclusoes)
		}

		res, err = w.AnexarRecibo(segundo.ID, 5, uuid.New())
		if err != nil {
			t.Fatalf("AnexarRecibo: %v", err)
		}
		if !res.OK {
			t.Fatalf("transição inválida: %s", res.Motivo)
		}
		if len(avancador.conclusoes) != 1 || avancador.conclusoes[0] != segundo.Fase {
			t.Fatalf("conclusões = %v, esperava [%d]", avancador.conclusoes, segundo.Fase)
		}
	})
}

func TestCancelar(t *testing.T) {
	t.Run("pedido pago não cancela", func(t *testing.T) {
		w, _, _, db := novoAmbiente(t)
		p := criarPedido(t, db, models.PedidoPago, true)

		res, err := w.Cancelar(p.ID, 9, "duplicado")
		if err != nil {
			t.Fatalf("Cancelar: %v", err)
		}
		if res.OK {
			t.Fatal("pedido pago devia recusar cancelamento")
		}
	})

	t.Run("pedido em aberto cancela", func(t *testing.T) {
		w, _, _, db := novoAmbiente(t)
		p := criarPedido(t, db, models.PedidoAprovado, true)

		res, err := w.Cancelar(p.ID, 9, "fornecedor desistiu")
		if err != nil {
			t.Fatalf("Cancelar: %v", err)
		}
		if !res.OK {
			t.Fatalf("transição inválida: %s", res.Motivo)
		}
		atual, _ := w.Repository.BuscarPorID(db, p.ID)
		if atual.Status != models.PedidoCancelado {
			t.Fatalf("Status = %s, esperava cancelled", atual.Status)
		}
	})
}
