package calculocustos

import (
	"fmt"
	"testing"
	"time"

	"github.com/BeiraCargo/api-despacho/internal/etapa"
	"github.com/BeiraCargo/api-despacho/internal/fatura"
	"github.com/BeiraCargo/api-despacho/internal/models"
	"github.com/BeiraCargo/api-despacho/internal/numeracao"
	"github.com/BeiraCargo/api-despacho/internal/pedidopagamento"
	"github.com/BeiraCargo/api-despacho/internal/processo"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func novoFaturador(db *gorm.DB) *Faturador {
	pedidos := pedidopagamento.NewRepository()
	return &Faturador{
		DB:          db,
		Calculadora: NewCalculadora(pedidos),
		Validador: &Validador{
			Processos: processo.NewRepository(),
			Etapas:    etapa.NewRepository(),
			Pedidos:   pedidos,
			Faturas:   fatura.NewRepository(),
		},
		Faturas:   fatura.NewRepository(),
		Processos: processo.NewRepository(),
		Numeracao: numeracao.NewGerador(),
	}
}

func prepararProcesso(t *testing.T, db *gorm.DB) *processo.Processo {
	t.Helper()
	proc := processo.NovoProcesso("IMP-2025-0001", models.ProcessoImportacao, 7)
	proc.NumeroContainer = "MSKU1234567"
	if err := db.Create(proc).Error; err != nil {
		t.Fatalf("criar processo: %v", err)
	}
	agora := time.Now()
	concluida := &etapa.ProcessoEtapa{
		ProcessoID:  proc.ID,
		Fase:        processo.FaseColetaDispersa,
		Nome:        "Coleta e dispersa",
		Status:      models.EtapaConcluida,
		IniciadaEm:  &agora,
		ConcluidaEm: &agora,
		UsuarioID:   1,
	}
	if err := db.Create(concluida).Error; err != nil {
		t.Fatalf("criar etapa: %v", err)
	}
	return proc
}

func TestPodeGerarFatura(t *testing.T) {
	t.Run("bloqueia sem fase de coleta concluída", func(t *testing.T) {
		db := abrirDB(t)
		f := novoFaturador(db)
		proc := processo.NovoProcesso("IMP-2025-0009", models.ProcessoImportacao, 7)
		if err := db.Create(proc).Error; err != nil {
			t.Fatalf("criar processo: %v", err)
		}

		res, err := f.Validador.PodeGerarFatura(db, proc.ID)
		if err != nil {
			t.Fatalf("PodeGerarFatura: %v", err)
		}
		if res.PodeGerar {
			t.Fatal("esperava bloqueio com fase 1 por concluir")
		}
	})

	t.Run("bloqueia com pedidos por liquidar", func(t *testing.T) {
		db := abrirDB(t)
		f := novoFaturador(db)
		proc := prepararProcesso(t, db)

		aberto := pedidoPago(proc.ID, 3, pedidopagamento.TipoDespesasAlfandegas, 200)
		aberto.Status = models.PedidoAprovado
		if err := db.Create(aberto).Error; err != nil {
			t.Fatalf("criar pedido: %v", err)
		}

		res, err := f.Validador.PodeGerarFatura(db, proc.ID)
		if err != nil {
			t.Fatalf("PodeGerarFatura: %v", err)
		}
		if res.PodeGerar {
			t.Fatal("esperava bloqueio com pedidos em aberto")
		}
		if len(res.Erros) == 0 {
			t.Fatal("esperava erro listado no resultado")
		}
	})

	t.Run("avisa quando falta número de container", func(t *testing.T) {
		db := abrirDB(t)
		f := novoFaturador(db)
		proc := prepararProcesso(t, db)
		proc.NumeroContainer = ""
		if err := db.Save(proc).Error; err != nil {
			t.Fatalf("atualizar processo: %v", err)
		}

		res, err := f.Validador.PodeGerarFatura(db, proc.ID)
		if err != nil {
			t.Fatalf("PodeGerarFatura: %v", err)
		}
		if !res.PodeGerar {
			t.Fatalf("aviso não deve bloquear: %v", res.Erros)
		}
		if len(res.Avisos) == 0 {
			t.Fatal("esperava aviso de container em falta")
		}
	})
}

func TestGerarFaturaCliente(t *testing.T) {
	db := abrirDB(t)
	f := novoFaturador(db)
	proc := prepararProcesso(t, db)

	for _, p := range []*pedidopagamento.PedidoPagamento{
		pedidoPago(proc.ID, 3, pedidopagamento.TipoDespesasAlfandegas, 500),
		pedidoPago(proc.ID, 4, pedidopagamento.TipoDespesasCornelder, 375),
	} {
		if err := db.Create(p).Error; err != nil {
			t.Fatalf("criar pedido: %v", err)
		}
	}

	emitida, validacao, err := f.GerarFaturaCliente(proc.ID, nil, 9)
	if err != nil {
		t.Fatalf("GerarFaturaCliente: %v", err)
	}
	if emitida == nil {
		t.Fatalf("fatura não emitida: %v", validacao.Erros)
	}

	esperado := fmt.Sprintf("%s-%d-0001", numeracao.TipoFatura, time.Now().Year())
	if emitida.Numero != esperado {
		t.Fatalf("Numero = %s, esperava %s", emitida.Numero, esperado)
	}
	if emitida.Tipo != models.FaturaCliente {
		t.Fatalf("Tipo = %s, esperava %s", emitida.Tipo, models.FaturaCliente)
	}
	// base 1125 + pagos 875 = 2000; com margem de 15% fecha em 2300
	if !emitida.Valor.Equal(decimal.NewFromInt(2300)) {
		t.Fatalf("Valor = %s, esperava 2300", emitida.Valor)
	}
	dados, ok := emitida.Metadados["invoice_data"].(map[string]any)
	if !ok {
		t.Fatal("metadados sem invoice_data")
	}
	if dados["total_invoice"] != "2300.00" {
		t.Fatalf("total_invoice = %v, esperava 2300.00", dados["total_invoice"])
	}

	atual, err := f.Processos.BuscarPorID(db, proc.ID)
	if err != nil {
		t.Fatalf("BuscarPorID: %v", err)
	}
	if !atual.CustoTotal.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("CustoTotal = %s, esperava 2000", atual.CustoTotal)
	}
	if !atual.ValorFatura.Equal(decimal.NewFromInt(2300)) {
		t.Fatalf("ValorFatura = %s, esperava 2300", atual.ValorFatura)
	}
	if !atual.MargemLucro.Equal(MargemPadrao) {
		t.Fatalf("MargemLucro = %s, esperava %s", atual.MargemLucro, MargemPadrao)
	}

	t.Run("segunda fatura sai com aviso de duplicado", func(t *testing.T) {
		vinte := decimal.NewFromInt(20)
		segunda, validacao, err := f.GerarFaturaCliente(proc.ID, &vinte, 9)
		if err != nil {
			t.Fatalf("GerarFaturaCliente: %v", err)
		}
		if segunda == nil {
			t.Fatalf("duplicado deve avisar, não bloquear: %v", validacao.Erros)
		}
		if len(validacao.Avisos) == 0 {
			t.Fatal("esperava aviso de fatura já emitida")
		}
		if segunda.Numero == emitida.Numero {
			t.Fatal("número da segunda fatura deve ser novo")
		}
		// margem de 20% pedida pelo chamador em vez da padrão
		if !segunda.Valor.Equal(decimal.NewFromInt(2400)) {
			t.Fatalf("Valor = %s, esperava 2400 com margem de 20%%", segunda.Valor)
		}
	})

	t.Run("margem de 0% explícita fatura ao custo", func(t *testing.T) {
		zero := decimal.Zero
		semMargem, _, err := f.GerarFaturaCliente(proc.ID, &zero, 9)
		if err != nil {
			t.Fatalf("GerarFaturaCliente: %v", err)
		}
		if semMargem == nil {
			t.Fatal("fatura não emitida")
		}
		// 0% é escolha do chamador, não pode cair na margem padrão
		if !semMargem.Valor.Equal(decimal.NewFromInt(2000)) {
			t.Fatalf("Valor = %s, esperava 2000 sem margem", semMargem.Valor)
		}
		dados, _ := semMargem.Metadados["invoice_data"].(map[string]any)
		if dados["margin_percent"] != "0.00" {
			t.Fatalf("margin_percent = %v, esperava 0.00", dados["margin_percent"])
		}
		if dados["margin_value"] != "0.00" {
			t.Fatalf("margin_value = %v, esperava 0.00", dados["margin_value"])
		}
	})
}
