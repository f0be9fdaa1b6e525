// internal/pedidopagamento/handler.go
package pedidopagamento

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/BeiraCargo/api-despacho/internal/auth"
	"github.com/BeiraCargo/api-despacho/internal/models"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Handler expõe o workflow por HTTP. A separação de papéis é imposta nas
// rotas (RequirePerfil); aqui só se extrai o ator e se delega.
type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Workflow   *Workflow
}

func NewHandler(db *gorm.DB, workflow *Workflow) *Handler {
	return &Handler{
		DB:         db,
		Repository: workflow.Repository,
		Workflow:   workflow,
	}
}

// Criar arquiva um pedido de desembolso contra uma fase do processo.
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	processoID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID de processo inválido", http.StatusBadRequest)
		return
	}

	var dto CriarPedidoDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	if dto.Fase < 1 || dto.Fase > 7 {
		http.Error(w, "fase inválida", http.StatusBadRequest)
		return
	}
	if dto.Beneficiario == "" || dto.Valor.LessThanOrEqual(decimal.Zero) {
		http.Error(w, "beneficiário e valor positivo são obrigatórios", http.StatusBadRequest)
		return
	}

	usuarioID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "utilizador não identificado", http.StatusUnauthorized)
		return
	}

	moeda := dto.Moeda
	if moeda == "" {
		moeda = "USD"
	}
	p := PedidoPagamento{
		ProcessoID:         uint(processoID),
		Fase:               dto.Fase,
		Tipo:               dto.Tipo,
		Beneficiario:       dto.Beneficiario,
		Valor:              dto.Valor,
		Moeda:              moeda,
		Descricao:          dto.Descricao,
		Status:             models.PedidoPendente,
		SolicitanteID:      usuarioID,
		CotacaoDocumentoID: dto.CotacaoDocumentoID,
	}
	if err := h.Repository.Salvar(h.DB, &p); err != nil {
		http.Error(w, "erro ao criar pedido", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(p)
}

// ListarPorProcesso devolve os pedidos de um processo; com ?fase=N devolve
// os que devem APARECER nessa fase (mapa por tipo, não a fase gravada).
func (h *Handler) ListarPorProcesso(w http.ResponseWriter, r *http.Request) {
	processoID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID de processo inválido", http.StatusBadRequest)
		return
	}

	pedidos, err := h.Repository.ListarPorProcesso(h.DB, uint(processoID))
	if err != nil {
		http.Error(w, "erro ao listar pedidos", http.StatusInternalServerError)
		return
	}

	if faseStr := r.URL.Query().Get("fase"); faseStr != "" {
		fase, err := strconv.Atoi(faseStr)
		if err != nil {
			http.Error(w, "fase inválida", http.StatusBadRequest)
			return
		}
		visiveis := make([]PedidoPagamento, 0, len(pedidos))
		for _, p := range pedidos {
			if p.DeveExibirNaFase(fase) {
				visiveis = append(visiveis, p)
			}
		}
		pedidos = visiveis
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pedidos)
}

// BuscarPorID devolve um pedido
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	p, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "pedido não encontrado", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}

// Aprovar — gestão aprova um pedido pendente com cotação.
func (h *Handler) Aprovar(w http.ResponseWriter, r *http.Request) {
	h.transicao(w, r, func(pedidoID, usuarioID uint) (models.ResultadoTransicao, error) {
		var req aprovarRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		return h.Workflow.Aprovar(pedidoID, usuarioID, req.Notas)
	})
}

// Rejeitar — gestão rejeita com motivo obrigatório.
func (h *Handler) Rejeitar(w http.ResponseWriter, r *http.Request) {
	h.transicao(w, r, func(pedidoID, usuarioID uint) (models.ResultadoTransicao, error) {
		var req rejeitarRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return models.TransicaoInvalida("motivo de rejeição é obrigatório"), nil
		}
		return h.Workflow.Rejeitar(pedidoID, usuarioID, req.Motivo)
	})
}

// IniciarPagamento — finanças assume a execução.
func (h *Handler) IniciarPagamento(w http.ResponseWriter, r *http.Request) {
	h.transicao(w, r, func(pedidoID, usuarioID uint) (models.ResultadoTransicao, error) {
		return h.Workflow.IniciarPagamento(pedidoID, usuarioID)
	})
}

// ConfirmarPagamento — finanças confirma com comprovativo.
func (h *Handler) ConfirmarPagamento(w http.ResponseWriter, r *http.Request) {
	h.transicao(w, r, func(pedidoID, usuarioID uint) (models.ResultadoTransicao, error) {
		var req confirmarPagamentoRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return models.TransicaoInvalida("comprovativoDocumentoId é obrigatório"), nil
		}
		return h.Workflow.ConfirmarPagamento(pedidoID, usuarioID, req.ComprovativoDocumentoID)
	})
}

// AnexarRecibo — operações/finanças anexa o recibo do fornecedor.
func (h *Handler) AnexarRecibo(w http.ResponseWriter, r *http.Request) {
	h.transicao(w, r, func(pedidoID, usuarioID uint) (models.ResultadoTransicao, error) {
		var req anexarReciboRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return models.TransicaoInvalida("reciboDocumentoId é obrigatório"), nil
		}
		return h.Workflow.AnexarRecibo(pedidoID, usuarioID, req.ReciboDocumentoID)
	})
}

// Cancelar — encerramento administrativo.
func (h *Handler) Cancelar(w http.ResponseWriter, r *http.Request) {
	h.transicao(w, r, func(pedidoID, usuarioID uint) (models.ResultadoTransicao, error) {
		var req cancelarRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		return h.Workflow.Cancelar(pedidoID, usuarioID, req.Motivo)
	})
}

// transicao resolve o ator, corre a transição e traduz o resultado: guard
// falhado é 409 com motivo, falha de integridade é 500.
func (h *Handler) transicao(w http.ResponseWriter, r *http.Request, fn func(pedidoID, usuarioID uint) (models.ResultadoTransicao, error)) {
	pedidoID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	usuarioID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "utilizador não identificado", http.StatusUnauthorized)
		return
	}

	resultado, err := fn(uint(pedidoID), usuarioID)
	if err != nil {
		http.Error(w, "erro ao executar transição", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if !resultado.OK {
		w.WriteHeader(http.StatusConflict)
	}
	json.NewEncoder(w).Encode(resultado)
}
