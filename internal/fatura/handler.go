package fatura

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/BeiraCargo/api-despacho/internal/models"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB, repo Repository) *Handler {
	return &Handler{DB: db, Repository: repo}
}

type criarFaturaDTO struct {
	Tipo           string          `json:"tipo"`
	ProcessoID     *uint           `json:"processoId"`
	ClienteID      *uint           `json:"clienteId"`
	Valor          decimal.Decimal `json:"valor"`
	Moeda          string          `json:"moeda"`
	DataVencimento *time.Time      `json:"dataVencimento"`
	Metadados      map[string]any  `json:"metadados"`
}

// Criar regista uma fatura de custo de fornecedor. As faturas ao cliente
// saem apenas do motor de custos, nunca deste endpoint.
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var dto criarFaturaDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Dados inválidos", http.StatusBadRequest)
		return
	}
	if dto.Tipo == "" || dto.Tipo == models.FaturaCliente {
		http.Error(w, "Tipo de fatura inválido", http.StatusBadRequest)
		return
	}
	if dto.Valor.LessThanOrEqual(decimal.Zero) {
		http.Error(w, "Valor deve ser positivo", http.StatusBadRequest)
		return
	}
	moeda := dto.Moeda
	if moeda == "" {
		moeda = "USD"
	}

	f := Fatura{
		Tipo:           dto.Tipo,
		ProcessoID:     dto.ProcessoID,
		ClienteID:      dto.ClienteID,
		Valor:          dto.Valor,
		Moeda:          moeda,
		DataEmissao:    time.Now(),
		DataVencimento: dto.DataVencimento,
		Status:         models.FaturaPendente,
		Metadados:      dto.Metadados,
	}
	if err := h.Repository.Salvar(h.DB, &f); err != nil {
		http.Error(w, "Erro ao criar fatura", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(f)
}

func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repository.Listar(h.DB, r.URL.Query().Get("tipo"), r.URL.Query().Get("status"))
	if err != nil {
		http.Error(w, "Erro ao listar faturas", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

func (h *Handler) ListarPorProcesso(w http.ResponseWriter, r *http.Request) {
	processoID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	list, err := h.Repository.ListarPorProcesso(h.DB, uint(processoID))
	if err != nil {
		http.Error(w, "Erro ao listar faturas", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	f, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "Fatura não encontrada", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(f)
}

// MarcarPaga liquida a fatura. Idempotente sobre faturas já pagas.
func (h *Handler) MarcarPaga(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	f, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "Fatura não encontrada", http.StatusNotFound)
		return
	}
	if f.Status != models.FaturaPaga {
		f.Status = models.FaturaPaga
		if err := h.Repository.Atualizar(h.DB, f); err != nil {
			http.Error(w, "Erro ao atualizar fatura", http.StatusInternalServerError)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(f)
}
