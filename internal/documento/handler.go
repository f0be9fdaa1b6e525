// internal/documento/handler.go
package documento

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/BeiraCargo/api-despacho/internal/auth"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type criarDocumentoRequest struct {
	Tipo string `json:"tipo"`
	Nome string `json:"nome"`
	URL  string `json:"url"`
}

// Handler encapsula DB e repository
type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Checklist  *Checklist
}

func NewHandler(db *gorm.DB) *Handler {
	repo := NewRepository()
	return &Handler{
		DB:         db,
		Repository: repo,
		Checklist:  NewChecklist(repo),
	}
}

// Anexar regista um documento carregado para um processo.
func (h *Handler) Anexar(w http.ResponseWriter, r *http.Request) {
	processoID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID de processo inválido", http.StatusBadRequest)
		return
	}

	var req criarDocumentoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	if req.Tipo == "" || req.URL == "" {
		http.Error(w, "tipo e url são obrigatórios", http.StatusBadRequest)
		return
	}

	usuarioID, _ := r.Context().Value(auth.CtxUsuarioID).(uint)
	d := Documento{
		ProcessoID:   uint(processoID),
		Tipo:         req.Tipo,
		Nome:         req.Nome,
		URL:          req.URL,
		CarregadoPor: usuarioID,
	}
	if err := h.Repository.Salvar(h.DB, &d); err != nil {
		http.Error(w, "erro ao gravar documento", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(d)
}

// ListarPorProcesso devolve os documentos de um processo.
func (h *Handler) ListarPorProcesso(w http.ResponseWriter, r *http.Request) {
	processoID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID de processo inválido", http.StatusBadRequest)
		return
	}
	docs, err := h.Repository.ListarPorProcesso(h.DB, uint(processoID))
	if err != nil {
		http.Error(w, "erro ao listar documentos", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(docs)
}

// VerificarChecklist devolve o checklist documental de uma fase.
func (h *Handler) VerificarChecklist(w http.ResponseWriter, r *http.Request) {
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

	itens, err := h.Checklist.Verificar(h.DB, uint(processoID), fase)
	if err != nil {
		http.Error(w, "erro ao verificar checklist", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(itens)
}

// Remover apaga a referência ao documento.
func (h *Handler) Remover(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID de documento inválido", http.StatusBadRequest)
		return
	}
	if err := h.Repository.Remover(h.DB, id); err != nil {
		http.Error(w, "erro ao remover documento", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
