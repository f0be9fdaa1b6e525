// internal/cliente/handler.go
package cliente

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// Handler encapsula DB e repository
type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
	}
}

func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var c Cliente
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	if c.Nome == "" || c.NUIT == "" {
		http.Error(w, "nome e NUIT são obrigatórios", http.StatusBadRequest)
		return
	}
	if err := h.Repository.Salvar(h.DB, &c); err != nil {
		http.Error(w, "erro ao salvar cliente", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(c)
}

func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	clientes, err := h.Repository.Listar(h.DB)
	if err != nil {
		http.Error(w, "erro ao listar clientes", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(clientes)
}

func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	c, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "cliente não encontrado", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(c)
}

func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	c, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "cliente não encontrado", http.StatusNotFound)
		return
	}
	if err := json.NewDecoder(r.Body).Decode(c); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	c.ID = uint(id)
	if err := h.Repository.Atualizar(h.DB, c); err != nil {
		http.Error(w, "erro ao atualizar cliente", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(c)
}

func (h *Handler) Remover(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	if err := h.Repository.Remover(h.DB, uint(id)); err != nil {
		http.Error(w, "erro ao remover cliente", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
