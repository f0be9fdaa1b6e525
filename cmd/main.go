package main

import (
	"log"
	"net/http"
	"os"

	"github.com/BeiraCargo/api-despacho/internal/auth"
	"github.com/BeiraCargo/api-despacho/internal/calculocustos"
	"github.com/BeiraCargo/api-despacho/internal/cliente"
	"github.com/BeiraCargo/api-despacho/internal/consignatario"
	"github.com/BeiraCargo/api-despacho/internal/documento"
	"github.com/BeiraCargo/api-despacho/internal/etapa"
	"github.com/BeiraCargo/api-despacho/internal/fatura"
	"github.com/BeiraCargo/api-despacho/internal/models"
	"github.com/BeiraCargo/api-despacho/internal/notificacao"
	"github.com/BeiraCargo/api-despacho/internal/numeracao"
	"github.com/BeiraCargo/api-despacho/internal/pedidopagamento"
	"github.com/BeiraCargo/api-despacho/internal/processo"
	"github.com/BeiraCargo/api-despacho/internal/usuario"
	"github.com/BeiraCargo/api-despacho/internal/utils/db"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Arquivo .env não encontrado, usando variáveis do ambiente")
	}

	conn, err := db.GetDB()
	if err != nil {
		log.Fatal("Erro ao conectar no banco:", err)
	}

	if err := conn.AutoMigrate(
		&usuario.Usuario{},
		&cliente.Cliente{},
		&consignatario.Consignatario{},
		&processo.Processo{},
		&etapa.ProcessoEtapa{},
		&pedidopagamento.PedidoPagamento{},
		&documento.Documento{},
		&fatura.Fatura{},
		&numeracao.NumeracaoDocumento{},
	); err != nil {
		log.Fatal("Erro no AutoMigrate:", err)
	}

	// Repositórios partilhados
	processoRepo := processo.NewRepository()
	etapaRepo := etapa.NewRepository()
	pedidoRepo := pedidopagamento.NewRepository()
	documentoRepo := documento.NewRepository()
	faturaRepo := fatura.NewRepository()

	gerador := numeracao.NewGerador()
	gerador.UltimoCodigoExistente = faturaRepo.UltimoNumero

	checklist := documento.NewChecklist(documentoRepo)
	maquina := etapa.NewMaquina(etapaRepo, processoRepo, pedidoRepo, checklist)

	webhook := notificacao.NewWebhook()
	workflow := pedidopagamento.NewWorkflow(conn, pedidoRepo, maquina, webhook)
	workflow.PermitirPagamentoForcado = os.Getenv("PERMITIR_PAGAMENTO_FORCADO") == "true"

	faturador := &calculocustos.Faturador{
		DB:          conn,
		Calculadora: calculocustos.NewCalculadora(pedidoRepo),
		Validador: &calculocustos.Validador{
			Processos: processoRepo,
			Etapas:    etapaRepo,
			Pedidos:   pedidoRepo,
			Faturas:   faturaRepo,
		},
		Faturas:   faturaRepo,
		Processos: processoRepo,
		Numeracao: gerador,
	}

	// Handlers
	usuarioHandler := usuario.NewHandler(conn)
	clienteHandler := cliente.NewHandler(conn)
	consignatarioHandler := consignatario.NewHandler(conn)
	processoHandler := processo.NewHandler(conn, gerador)
	etapaHandler := etapa.NewHandler(conn, maquina)
	pedidoHandler := pedidopagamento.NewHandler(conn, workflow)
	documentoHandler := documento.NewHandler(conn)
	faturaHandler := fatura.NewHandler(conn, faturaRepo)
	custosHandler := calculocustos.NewHandler(conn, faturador)

	r := mux.NewRouter()

	// Rotas públicas
	r.HandleFunc("/login", usuarioHandler.Login).Methods("POST")

	api := r.PathPrefix("/").Subrouter()
	api.Use(auth.MiddlewareAutenticacao)

	// Usuários (apenas administração)
	admin := api.PathPrefix("/usuarios").Subrouter()
	admin.Use(auth.RequirePerfil())
	admin.HandleFunc("", usuarioHandler.Criar).Methods("POST")
	admin.HandleFunc("", usuarioHandler.Listar).Methods("GET")
	admin.HandleFunc("/{id}", usuarioHandler.BuscarPorID).Methods("GET")

	// Clientes
	api.HandleFunc("/clientes", clienteHandler.Criar).Methods("POST")
	api.HandleFunc("/clientes", clienteHandler.Listar).Methods("GET")
	api.HandleFunc("/clientes/{id}", clienteHandler.BuscarPorID).Methods("GET")
	api.HandleFunc("/clientes/{id}", clienteHandler.Atualizar).Methods("PUT")
	api.HandleFunc("/clientes/{id}", clienteHandler.Remover).Methods("DELETE")

	// Consignatários
	api.HandleFunc("/consignatarios", consignatarioHandler.Criar).Methods("POST")
	api.HandleFunc("/consignatarios", consignatarioHandler.Listar).Methods("GET")
	api.HandleFunc("/consignatarios/{id}", consignatarioHandler.BuscarPorID).Methods("GET")
	api.HandleFunc("/consignatarios/{id}", consignatarioHandler.Remover).Methods("DELETE")

	// Processos
	api.HandleFunc("/processos", processoHandler.Criar).Methods("POST")
	api.HandleFunc("/processos", processoHandler.Listar).Methods("GET")
	api.HandleFunc("/processos/{id}", processoHandler.BuscarPorID).Methods("GET")
	api.HandleFunc("/processos/{id}/status", processoHandler.AtualizarStatus).Methods("PUT")
	api.HandleFunc("/processos/{id}/prazo-armazenamento", processoHandler.DefinirPrazoArmazenamento).Methods("PUT")
	api.HandleFunc("/processos/{id}/progresso", processoHandler.Progresso).Methods("GET")
	api.HandleFunc("/processos/{id}", processoHandler.Remover).Methods("DELETE")

	// Etapas
	api.HandleFunc("/processos/{id}/etapas", etapaHandler.ListarPorProcesso).Methods("GET")
	api.HandleFunc("/processos/{id}/etapas/{fase}/iniciar", etapaHandler.Iniciar).Methods("POST")
	api.HandleFunc("/processos/{id}/etapas/{fase}/concluir", etapaHandler.Concluir).Methods("POST")
	api.HandleFunc("/processos/{id}/etapas/{fase}/bloquear", etapaHandler.Bloquear).Methods("POST")

	// Documentos e checklist
	api.HandleFunc("/processos/{id}/documentos", documentoHandler.Anexar).Methods("POST")
	api.HandleFunc("/processos/{id}/documentos", documentoHandler.ListarPorProcesso).Methods("GET")
	api.HandleFunc("/processos/{id}/checklist/{fase}", documentoHandler.VerificarChecklist).Methods("GET")
	api.HandleFunc("/documentos/{id}", documentoHandler.Remover).Methods("DELETE")

	// Pedidos de pagamento
	api.HandleFunc("/processos/{id}/pedidos", pedidoHandler.Criar).Methods("POST")
	api.HandleFunc("/processos/{id}/pedidos", pedidoHandler.ListarPorProcesso).Methods("GET")
	api.HandleFunc("/pedidos/{id}", pedidoHandler.BuscarPorID).Methods("GET")
	api.HandleFunc("/pedidos/{id}/cancelar", pedidoHandler.Cancelar).Methods("POST")

	// Aprovação é da gestão
	gestao := api.PathPrefix("/pedidos").Subrouter()
	gestao.Use(auth.RequirePerfil(models.PerfilGestao))
	gestao.HandleFunc("/{id}/aprovar", pedidoHandler.Aprovar).Methods("POST")
	gestao.HandleFunc("/{id}/rejeitar", pedidoHandler.Rejeitar).Methods("POST")

	// Execução de pagamento e faturação são das finanças
	financas := api.PathPrefix("/").Subrouter()
	financas.Use(auth.RequirePerfil(models.PerfilFinancas))
	financas.HandleFunc("/pedidos/{id}/iniciar-pagamento", pedidoHandler.IniciarPagamento).Methods("POST")
	financas.HandleFunc("/pedidos/{id}/confirmar-pagamento", pedidoHandler.ConfirmarPagamento).Methods("POST")
	financas.HandleFunc("/pedidos/{id}/recibo", pedidoHandler.AnexarRecibo).Methods("POST")
	financas.HandleFunc("/faturas", faturaHandler.Criar).Methods("POST")
	financas.HandleFunc("/faturas", faturaHandler.Listar).Methods("GET")
	financas.HandleFunc("/faturas/{id}", faturaHandler.BuscarPorID).Methods("GET")
	financas.HandleFunc("/faturas/{id}/pagar", faturaHandler.MarcarPaga).Methods("POST")
	financas.HandleFunc("/processos/{id}/faturas", faturaHandler.ListarPorProcesso).Methods("GET")
	financas.HandleFunc("/processos/{id}/custos", custosHandler.Custos).Methods("GET")
	financas.HandleFunc("/processos/{id}/pode-faturar", custosHandler.PodeFaturar).Methods("GET")
	financas.HandleFunc("/processos/{id}/fatura", custosHandler.GerarFatura).Methods("POST")

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(r)

	porta := os.Getenv("PORT")
	if porta == "" {
		porta = "8080"
	}
	log.Println("Servidor rodando na porta " + porta)
	log.Fatal(http.ListenAndServe(":"+porta, handler))
}
