// internal/processo/handler.go
package processo

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/BeiraCargo/api-despacho/internal/models"
	"github.com/BeiraCargo/api-despacho/internal/numeracao"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// prefixo da referência humana por tipo de processo
var prefixoReferencia = map[string]string{
	models.ProcessoImportacao: "IMP",
	models.ProcessoExportacao: "EXP",
	models.ProcessoTransito:   "TRA",
	models.ProcessoTransporte: "TRP",
}

// Handler encapsula DB e repository
type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Numeracao  *numeracao.Gerador
}

func NewHandler(db *gorm.DB, gerador *numeracao.Gerador) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		Numeracao:  gerador,
	}
}

// Criar abre um processo novo com referência gerada e fases iniciais.
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var dto CriarProcessoDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}

	prefixo, ok := prefixoReferencia[dto.Tipo]
	if !ok {
		http.Error(w, "tipo de processo desconhecido", http.StatusBadRequest)
		return
	}
	if dto.ClienteID == 0 {
		http.Error(w, "clienteId é obrigatório", http.StatusBadRequest)
		return
	}

	var p *Processo
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		referencia, err := h.Numeracao.Proximo(tx, prefixo, time.Now().Year())
		if err != nil {
			return err
		}
		p = NovoProcesso(referencia, dto.Tipo, dto.ClienteID)
		p.ConsignatarioID = dto.ConsignatarioID
		p.Transportadora = dto.Transportadora
		p.Navio = dto.Navio
		p.NumeroContainer = dto.NumeroContainer
		p.NumeroBL = dto.NumeroBL
		p.IsencaoImpostos = dto.IsencaoImpostos
		p.Reexportacao = dto.Reexportacao
		p.InspecaoObrigatoria = dto.InspecaoObrigatoria
		p.ValorCarga = dto.ValorCarga
		return h.Repository.Salvar(tx, p)
	})
	if err != nil {
		http.Error(w, "erro ao criar processo", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(p)
}

// Listar devolve processos, com filtros opcionais ?tipo= e ?status=
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	tipo := r.URL.Query().Get("tipo")
	status := r.URL.Query().Get("status")
	list, err := h.Repository.Listar(h.DB, tipo, status)
	if err != nil {
		http.Error(w, "erro ao listar processos", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// BuscarPorID devolve um processo
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	p, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "processo não encontrado", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}

// AtualizarStatus altera o rótulo geral do processo (edição manual).
func (h *Handler) AtualizarStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	var req atualizarStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		http.Error(w, "status é obrigatório", http.StatusBadRequest)
		return
	}
	p, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "processo não encontrado", http.StatusNotFound)
		return
	}
	p.Status = req.Status
	if err := h.Repository.Atualizar(h.DB, p); err != nil {
		http.Error(w, "erro ao atualizar processo", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}

// DefinirPrazoArmazenamento grava o prazo e deriva o alerta; o alerta nunca
// é escrito diretamente.
func (h *Handler) DefinirPrazoArmazenamento(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	var req prazoArmazenamentoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON mal formado", http.StatusBadRequest)
		return
	}
	p, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "processo não encontrado", http.StatusNotFound)
		return
	}

	if req.Prazo == "" {
		p.PrazoArmazenamento = nil
	} else {
		prazo, err := time.Parse(time.RFC3339, req.Prazo)
		if err != nil {
			http.Error(w, "prazo inválido (RFC3339)", http.StatusBadRequest)
			return
		}
		p.PrazoArmazenamento = &prazo
	}
	p.AtualizarAlertaArmazenamento(time.Now())

	if err := h.Repository.Atualizar(h.DB, p); err != nil {
		http.Error(w, "erro ao atualizar processo", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}

// Progresso devolve o progresso agregado do processo (0-100).
func (h *Handler) Progresso(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	p, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "processo não encontrado", http.StatusNotFound)
		return
	}
	resp := ProgressoResponse{
		ProcessoID: p.ID,
		Referencia: p.Referencia,
		Progresso:  p.CalcularProgresso(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Remover faz soft delete; processos com financeiros abertos ficam.
func (h *Handler) Remover(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	if err := h.Repository.Remover(h.DB, uint(id)); err != nil {
		if errors.Is(err, ErrProcessoComFinanceirosAbertos) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, "erro ao remover processo", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
