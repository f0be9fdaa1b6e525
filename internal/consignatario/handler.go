// internal/consignatario/handler.go
package consignatario

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

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
	var c Consignatario
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	if c.Nome == "" {
		http.Error(w, "nome é obrigatório", http.StatusBadRequest)
		return
	}
	if err := h.Repository.Salvar(h.DB, &c); err != nil {
		http.Error(w, "erro ao salvar consignatário", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(c)
}

func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repository.Listar(h.DB)
	if err != nil {
		http.Error(w, "erro ao listar consignatários", http.StatusInternalServerError)
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
	c, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "consignatário não encontrado", http.StatusNotFound)
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
		http.Error(w, "erro ao remover consignatário", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
