package etapa

import (
	"fmt"
	"testing"

	"github.com/BeiraCargo/api-despacho/internal/documento"
	"github.com/BeiraCargo/api-despacho/internal/models"
	"github.com/BeiraCargo/api-despacho/internal/pedidopagamento"
	"github.com/BeiraCargo/api-despacho/internal/processo"
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
	err = db.AutoMigrate(
		&processo.Processo{},
		&ProcessoEtapa{},
		&pedidopagamento.PedidoPagamento{},
		&documento.Documento{},
	)
	if err != nil {
		t.Fatalf("migrar: %v", err)
	}
	return db
}

func novaMaquina() *Maquina {
	return NewMaquina(
		NewRepository(),
		processo.NewRepository(),
		pedidopagamento.NewRepository(),
		documento.NewChecklist(documento.NewRepository()),
	)
}

func criarProcesso(t *testing.T, db *gorm.DB) *processo.Processo {
	t.Helper()
	p := processo.NovoProcesso("IMP-2025-0001", models.ProcessoImportacao, 3)
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("criar processo: %v", err)
	}
	return p
}

func anexarDocumento(t *testing.T, db *gorm.DB, processoID uint, tipo string) {
	t.Helper()
	d := &documento.Documento{
		ProcessoID:   processoID,
		Tipo:         tipo,
		Nome:         tipo + ".pdf",
		URL:          "https://docs.example/" + tipo,
		CarregadoPor: 1,
	}
	if err := db.Create(d).Error; err != nil {
		t.Fatalf("anexar documento: %v", err)
	}
}

func TestIniciarFase(t *testing.T) {
	t.Run("abre a etapa e projeta em andamento", func(t *testing.T) {
		db := abrirDB(t)
		m := novaMaquina()
		p := criarProcesso(t, db)

		if err := m.IniciarFase(db, p.ID, 1, 7); err != nil {
			t.Fatalf("IniciarFase: %v", err)
		}

		e, err := m.Etapas.BuscarAtual(db, p.ID, 1)
		if err != nil || e == nil {
			t.Fatalf("etapa não criada: %v", err)
		}
		if e.Status != models.EtapaEmAndamento {
			t.Fatalf("Status = %s, esperava in_progress", e.Status)
		}
		if e.IniciadaEm == nil {
			t.Fatal("IniciadaEm não registado")
		}

		atual, _ := m.Processos.BuscarPorID(db, p.ID)
		if got := atual.FasesImportacao.StatusDaFase(1); got != models.FaseEmAndamento {
			t.Fatalf("projeção da fase 1 = %s, esperava in_progress", got)
		}
	})

	t.Run("iniciar duas vezes não duplica etapas", func(t *testing.T) {
		db := abrirDB(t)
		m := novaMaquina()
		p := criarProcesso(t, db)

		if err := m.IniciarFase(db, p.ID, 1, 7); err != nil {
			t.Fatalf("IniciarFase: %v", err)
		}
		if err := m.IniciarFase(db, p.ID, 1, 7); err != nil {
			t.Fatalf("IniciarFase repetido: %v", err)
		}

		etapas, err := m.Etapas.ListarPorProcesso(db, p.ID)
		if err != nil {
			t.Fatalf("ListarPorProcesso: %v", err)
		}
		if len(etapas) != 1 {
			t.Fatalf("etapas = %d, esperava 1", len(etapas))
		}
	})
}

func TestConcluirFase(t *testing.T) {
	t.Run("trava sem documentos obrigatórios", func(t *testing.T) {
		db := abrirDB(t)
		m := novaMaquina()
		p := criarProcesso(t, db)
		if err := m.IniciarFase(db, p.ID, 1, 7); err != nil {
			t.Fatalf("IniciarFase: %v", err)
		}

		res, err := m.ConcluirFase(db, p.ID, 1, 7)
		if err != nil {
			t.Fatalf("ConcluirFase: %v", err)
		}
		if res.OK {
			t.Fatal("fase 1 sem BL não devia concluir")
		}
	})

	t.Run("trava com pedidos de pagamento em aberto", func(t *testing.T) {
		db := abrirDB(t)
		m := novaMaquina()
		p := criarProcesso(t, db)
		if err := m.IniciarFase(db, p.ID, 1, 7); err != nil {
			t.Fatalf("IniciarFase: %v", err)
		}
		anexarDocumento(t, db, p.ID, documento.TipoBLMaster)

		aberto := &pedidopagamento.PedidoPagamento{
			ProcessoID:    p.ID,
			Fase:          1,
			Tipo:          pedidopagamento.TipoColetaDispersa,
			Beneficiario:  "Transportes Sofala",
			Valor:         decimal.NewFromInt(120),
			Status:        models.PedidoAprovado,
			SolicitanteID: 1,
		}
		if err := db.Create(aberto).Error; err != nil {
			t.Fatalf("criar pedido: %v", err)
		}

		res, err := m.ConcluirFase(db, p.ID, 1, 7)
		if err != nil {
			t.Fatalf("ConcluirFase: %v", err)
		}
		if res.OK {
			t.Fatal("fase com pedido em aberto não devia concluir")
		}
	})

	t.Run("conclui, projeta e abre a fase seguinte", func(t *testing.T) {
		db := abrirDB(t)
		m := novaMaquina()
		p := criarProcesso(t, db)
		if err := m.IniciarFase(db, p.ID, 1, 7); err != nil {
			t.Fatalf("IniciarFase: %v", err)
		}
		anexarDocumento(t, db, p.ID, documento.TipoBLMaster)

		res, err := m.ConcluirFase(db, p.ID, 1, 7)
		if err != nil {
			t.Fatalf("ConcluirFase: %v", err)
		}
		if !res.OK {
			t.Fatalf("transição inválida: %s", res.Motivo)
		}

		e, _ := m.Etapas.BuscarAtual(db, p.ID, 1)
		if e.Status != models.EtapaConcluida || e.ConcluidaEm == nil {
			t.Fatal("etapa 1 não ficou concluída")
		}

		atual, _ := m.Processos.BuscarPorID(db, p.ID)
		if got := atual.FasesImportacao.StatusDaFase(1); got != models.FaseConcluida {
			t.Fatalf("projeção da fase 1 = %s, esperava completed", got)
		}
		if got := atual.FasesImportacao.StatusDaFase(2); got != models.FaseEmAndamento {
			t.Fatalf("projeção da fase 2 = %s, esperava in_progress", got)
		}
	})

	t.Run("concluir duas vezes é no-op", func(t *testing.T) {
		db := abrirDB(t)
		m := novaMaquina()
		p := criarProcesso(t, db)
		anexarDocumento(t, db, p.ID, documento.TipoBLMaster)

		if res, err := m.ConcluirFase(db, p.ID, 1, 7); err != nil || !res.OK {
			t.Fatalf("primeira conclusão: res=%v err=%v", res, err)
		}
		res, err := m.ConcluirFase(db, p.ID, 1, 7)
		if err != nil {
			t.Fatalf("ConcluirFase repetido: %v", err)
		}
		if !res.OK {
			t.Fatalf("segunda conclusão devia ser no-op OK: %s", res.Motivo)
		}

		etapas, _ := m.Etapas.ListarPorProcesso(db, p.ID)
		fase1 := 0
		for _, e := range etapas {
			if e.Fase == 1 {
				fase1++
			}
		}
		if fase1 != 1 {
			t.Fatalf("etapas da fase 1 = %d, esperava 1", fase1)
		}
	})

	t.Run("fase bloqueada não conclui", func(t *testing.T) {
		db := abrirDB(t)
		m := novaMaquina()
		p := criarProcesso(t, db)
		anexarDocumento(t, db, p.ID, documento.TipoBLMaster)

		if err := m.Bloquear(db, p.ID, 1, 7, "aguardando despachante"); err != nil {
			t.Fatalf("Bloquear: %v", err)
		}
		res, err := m.ConcluirFase(db, p.ID, 1, 7)
		if err != nil {
			t.Fatalf("ConcluirFase: %v", err)
		}
		if res.OK {
			t.Fatal("fase bloqueada não devia concluir")
		}
	})
}

// Processos de transporte têm só 6 fases, com rótulos próprios; a máquina
// tem de respeitar o tipo em vez de assumir o mapa de importação.
func TestFasesDeTransporte(t *testing.T) {
	criarTransporte := func(t *testing.T, db *gorm.DB) *processo.Processo {
		t.Helper()
		p := processo.NovoProcesso("TRP-2025-0001", models.ProcessoTransporte, 3)
		if err := db.Create(p).Error; err != nil {
			t.Fatalf("criar processo: %v", err)
		}
		return p
	}

	t.Run("etapa recebe o nome do tipo do processo", func(t *testing.T) {
		db := abrirDB(t)
		m := novaMaquina()
		p := criarTransporte(t, db)

		if err := m.IniciarFase(db, p.ID, 1, 7); err != nil {
			t.Fatalf("IniciarFase: %v", err)
		}
		e, err := m.Etapas.BuscarAtual(db, p.ID, 1)
		if err != nil || e == nil {
			t.Fatalf("etapa não criada: %v", err)
		}
		if e.Nome != processo.NomesFasesTransporte[1] {
			t.Fatalf("Nome = %q, esperava %q", e.Nome, processo.NomesFasesTransporte[1])
		}
	})

	t.Run("concluir a última fase não abre uma fase 7", func(t *testing.T) {
		db := abrirDB(t)
		m := novaMaquina()
		p := criarTransporte(t, db)

		if err := m.IniciarFase(db, p.ID, 6, 7); err != nil {
			t.Fatalf("IniciarFase: %v", err)
		}
		res, err := m.ConcluirFase(db, p.ID, 6, 7)
		if err != nil {
			t.Fatalf("ConcluirFase: %v", err)
		}
		if !res.OK {
			t.Fatalf("transição inválida: %s", res.Motivo)
		}

		etapas, err := m.Etapas.ListarPorProcesso(db, p.ID)
		if err != nil {
			t.Fatalf("ListarPorProcesso: %v", err)
		}
		for _, e := range etapas {
			if e.Fase > processo.TotalFasesTransporte {
				t.Fatalf("processo de transporte ganhou etapa da fase %d (Nome=%q Status=%s)", e.Fase, e.Nome, e.Status)
			}
		}

		atual, _ := m.Processos.BuscarPorID(db, p.ID)
		if got := atual.FasesTransporte.StatusPOD; got != models.FaseConcluida {
			t.Fatalf("projeção da fase 6 = %s, esperava completed", got)
		}
	})

	t.Run("fase 7 é rejeitada", func(t *testing.T) {
		db := abrirDB(t)
		m := novaMaquina()
		p := criarTransporte(t, db)

		if err := m.IniciarFase(db, p.ID, 7, 7); err == nil {
			t.Fatal("IniciarFase(7) devia falhar em processos de transporte")
		}
		res, err := m.ConcluirFase(db, p.ID, 7, 7)
		if err != nil {
			t.Fatalf("ConcluirFase: %v", err)
		}
		if res.OK {
			t.Fatal("ConcluirFase(7) devia ser transição inválida")
		}
	})
}

// Percurso completo de importação na fase 1: dois pedidos criados, aprovados,
// pagos e com recibo. A fase só fecha no último recibo e fecha uma única vez.
func TestFluxoImportacaoFase1(t *testing.T) {
	db := abrirDB(t)
	m := novaMaquina()
	p := criarProcesso(t, db)

	if err := m.IniciarFase(db, p.ID, 1, 7); err != nil {
		t.Fatalf("IniciarFase: %v", err)
	}
	anexarDocumento(t, db, p.ID, documento.TipoBLMaster)

	w := pedidopagamento.NewWorkflow(db, pedidopagamento.NewRepository(), m, nil)

	var pedidos []*pedidopagamento.PedidoPagamento
	for _, valor := range []int64{120, 80} {
		cotacao := uuid.New()
		pedido := &pedidopagamento.PedidoPagamento{
			ProcessoID:         p.ID,
			Fase:               1,
			Tipo:               pedidopagamento.TipoColetaDispersa,
			Beneficiario:       "Transportes Sofala",
			Valor:              decimal.NewFromInt(valor),
			Status:             models.PedidoPendente,
			SolicitanteID:      1,
			CotacaoDocumentoID: &cotacao,
		}
		if err := db.Create(pedido).Error; err != nil {
			t.Fatalf("criar pedido: %v", err)
		}
		pedidos = append(pedidos, pedido)
	}

	for _, pedido := range pedidos {
		if res, err := w.Aprovar(pedido.ID, 9, ""); err != nil || !res.OK {
			t.Fatalf("Aprovar(%d): res=%v err=%v", pedido.ID, res, err)
		}
		if res, err := w.IniciarPagamento(pedido.ID, 5); err != nil || !res.OK {
			t.Fatalf("IniciarPagamento(%d): res=%v err=%v", pedido.ID, res, err)
		}
		if res, err := w.ConfirmarPagamento(pedido.ID, 5, uuid.New()); err != nil || !res.OK {
			t.Fatalf("ConfirmarPagamento(%d): res=%v err=%v", pedido.ID, res, err)
		}
	}

	// primeiro recibo: ainda falta um, a fase continua aberta
	if res, err := w.AnexarRecibo(pedidos[0].ID, 5, uuid.New()); err != nil || !res.OK {
		t.Fatalf("AnexarRecibo(primeiro): res=%v err=%v", res, err)
	}
	atual, _ := m.Processos.BuscarPorID(db, p.ID)
	if got := atual.FasesImportacao.StatusDaFase(1); got != models.FaseEmAndamento {
		t.Fatalf("fase 1 = %s, devia continuar in_progress", got)
	}

	// último recibo fecha a fase e abre a seguinte
	if res, err := w.AnexarRecibo(pedidos[1].ID, 5, uuid.New()); err != nil || !res.OK {
		t.Fatalf("AnexarRecibo(último): res=%v err=%v", res, err)
	}
	atual, _ = m.Processos.BuscarPorID(db, p.ID)
	if got := atual.FasesImportacao.StatusDaFase(1); got != models.FaseConcluida {
		t.Fatalf("fase 1 = %s, esperava completed", got)
	}
	if got := atual.FasesImportacao.StatusDaFase(2); got != models.FaseEmAndamento {
		t.Fatalf("fase 2 = %s, esperava in_progress", got)
	}

	// re-anexar o recibo não duplica nada
	if res, err := w.AnexarRecibo(pedidos[1].ID, 5, uuid.New()); err != nil || !res.OK {
		t.Fatalf("AnexarRecibo(repetido): res=%v err=%v", res, err)
	}
	etapas, _ := m.Etapas.ListarPorProcesso(db, p.ID)
	fase1 := 0
	for _, e := range etapas {
		if e.Fase == 1 {
			fase1++
		}
	}
	if fase1 != 1 {
		t.Fatalf("etapas da fase 1 = %d, esperava 1", fase1)
	}
}
