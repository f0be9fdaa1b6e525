package calculocustos

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/BeiraCargo/api-despacho/internal/auth"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Handler struct {
	DB        *gorm.DB
	Faturador *Faturador
}

func NewHandler(db *gorm.DB, faturador *Faturador) *Handler {
	return &Handler{DB: db, Faturador: faturador}
}

func (h *Handler) Custos(w http.ResponseWriter, r *http.Request) {
	processoID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	custos, err := h.Faturador.Calculadora.CalcularCustos(h.DB, uint(processoID))
	if err != nil {
		http.Error(w, "Erro ao calcular custos", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(custos)
}

func (h *Handler) PodeFaturar(w http.ResponseWriter, r *http.Request) {
	processoID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	res, err := h.Faturador.Validador.PodeGerarFatura(h.DB, uint(processoID))
	if err != nil {
		http.Error(w, "Erro ao validar faturação", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

type gerarFaturaRequest struct {
	// Ponteiro para distinguir "omitido" (margem padrão) de 0% explícito.
	MargemPercentual *decimal.Decimal `json:"margemPercentual"`
}

func (h *Handler) GerarFatura(w http.ResponseWriter, r *http.Request) {
	processoID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	usuarioID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "Não autenticado", http.StatusUnauthorized)
		return
	}

	// corpo opcional: sem corpo, vale a margem padrão
	var req gerarFaturaRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}
	if req.MargemPercentual != nil && req.MargemPercentual.IsNegative() {
		http.Error(w, "Margem não pode ser negativa", http.StatusBadRequest)
		return
	}

	emitida, validacao, err := h.Faturador.GerarFaturaCliente(uint(processoID), req.MargemPercentual, usuarioID)
	if err != nil {
		http.Error(w, "Erro ao gerar fatura", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if emitida == nil {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(validacao)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"fatura":    emitida,
		"validacao": validacao,
	})
}
