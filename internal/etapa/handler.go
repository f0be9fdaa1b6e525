// internal/etapa/handler.go
package etapa

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/BeiraCargo/api-despacho/internal/auth"
	"github.com/BeiraCargo/api-despacho/internal/models"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type bloquearRequest struct {
	Nota string `json:"nota"`
}

type Handler struct {
	DB      *gorm.DB
	Maquina *Maquina
}

func NewHandler(db *gorm.DB, maquina *Maquina) *Handler {
	return &Handler{DB: db, Maquina: maquina}
}

// ListarPorProcesso devolve o registo de etapas (trilha de auditoria).
func (h *Handler) ListarPorProcesso(w http.ResponseWriter, r *http.Request) {
	processoID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID de processo inválido", http.StatusBadRequest)
		return
	}
	etapas, err := h.Maquina.Etapas.ListarPorProcesso(h.DB, uint(processoID))
	if err != nil {
		http.Error(w, "erro ao listar etapas", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(etapas)
}

// Iniciar abre manualmente a fase.
func (h *Handler) Iniciar(w http.ResponseWriter, r *http.Request) {
	h.operacao(w, r, func(tx *gorm.DB, processoID uint, fase int, usuarioID uint) (models.ResultadoTransicao, error) {
		if err := h.Maquina.IniciarFase(tx, processoID, fase, usuarioID); err != nil {
			return models.ResultadoTransicao{}, err
		}
		return models.TransicaoOK(), nil
	})
}

// Concluir fecha manualmente a fase (sujeita aos mesmos pré-requisitos).
func (h *Handler) Concluir(w http.ResponseWriter, r *http.Request) {
	h.operacao(w, r, func(tx *gorm.DB, processoID uint, fase int, usuarioID uint) (models.ResultadoTransicao, error) {
		return h.Maquina.ConcluirFase(tx, processoID, fase, usuarioID)
	})
}

// Bloquear suspende a fase com uma nota.
func (h *Handler) Bloquear(w http.ResponseWriter, r *http.Request) {
	var req bloquearRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	h.operacao(w, r, func(tx *gorm.DB, processoID uint, fase int, usuarioID uint) (models.ResultadoTransicao, error) {
		if err := h.Maquina.Bloquear(tx, processoID, fase, usuarioID, req.Nota); err != nil {
			return models.ResultadoTransicao{}, err
		}
		return models.TransicaoOK(), nil
	})
}

func (h *Handler) operacao(w http.ResponseWriter, r *http.Request, fn func(tx *gorm.DB, processoID uint, fase int, usuarioID uint) (models.ResultadoTransicao, error)) {
	vars := mux.Vars(r)
	processoID, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "ID de processo inválido", http.StatusBadRequest)
		return
	}
	fase, err := strconv.Atoi(vars["fase"])
	if err != nil || fase < 1 || fase > 7 {
		http.Error(w, "fase inválida", http.StatusBadRequest)
		return
	}
	usuarioID, ok := auth.UsuarioDoContexto(r.Context())
	if !ok {
		http.Error(w, "utilizador não identificado", http.StatusUnauthorized)
		return
	}

	var resultado models.ResultadoTransicao
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		resultado, err = fn(tx, uint(processoID), fase, usuarioID)
		return err
	})
	if err != nil {
		http.Error(w, "erro ao operar etapa", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if !resultado.OK {
		w.WriteHeader(http.StatusConflict)
	}
	json.NewEncoder(w).Encode(resultado)
}
