// internal/usuario/handler.go
package usuario

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/BeiraCargo/api-despacho/internal/auth"
	"github.com/BeiraCargo/api-despacho/internal/models"
	"github.com/BeiraCargo/api-despacho/internal/utils"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type criarUsuarioRequest struct {
	Nome     string `json:"nome"`
	Apelido  string `json:"apelido"`
	Email    string `json:"email"`
	Telefone string `json:"telefone"`
	Senha    string `json:"senha"`
	Perfil   string `json:"perfil"`
}

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

// Login gera um JWT para credenciais válidas
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}

	user, err := h.Repository.BuscarPorEmail(h.DB, req.Email)
	if err != nil || !user.Ativo {
		http.Error(w, "credenciais inválidas", http.StatusUnauthorized)
		return
	}

	if !utils.VerificarSenha(user.Senha, req.Password) {
		http.Error(w, "senha incorreta", http.StatusUnauthorized)
		return
	}

	token, err := auth.GerarToken(user.ID, user.Perfil)
	if err != nil {
		http.Error(w, "erro ao gerar token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"token": token})
}

// Criar cadastra um novo utilizador. Sem senha, gera uma temporária e marca
// o registo para redefinição no primeiro login.
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	var req criarUsuarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload inválido", http.StatusBadRequest)
		return
	}

	perfil := req.Perfil
	switch perfil {
	case models.PerfilOperacoes, models.PerfilGestao, models.PerfilFinancas, models.PerfilAdmin:
	case "":
		perfil = models.PerfilOperacoes
	default:
		http.Error(w, "perfil desconhecido", http.StatusBadRequest)
		return
	}

	senha := req.Senha
	precisaRedefinir := false
	if senha == "" {
		temporaria, err := utils.GerarSenhaTemporaria()
		if err != nil {
			http.Error(w, "erro ao gerar senha", http.StatusInternalServerError)
			return
		}
		senha = temporaria
		precisaRedefinir = true
	}

	hash, err := utils.HashSenha(senha)
	if err != nil {
		http.Error(w, "erro ao processar senha", http.StatusInternalServerError)
		return
	}

	u := Usuario{
		Nome:                  req.Nome,
		Apelido:               req.Apelido,
		Email:                 req.Email,
		Telefone:              req.Telefone,
		Senha:                 hash,
		Perfil:                perfil,
		Ativo:                 true,
		PrecisaRedefinirSenha: precisaRedefinir,
	}

	if err := h.Repository.Salvar(h.DB, &u); err != nil {
		http.Error(w, "erro ao salvar utilizador", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(u)
}

// Listar devolve todos os utilizadores
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	usuarios, err := h.Repository.Listar(h.DB)
	if err != nil {
		http.Error(w, "erro ao listar utilizadores", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(usuarios)
}

// BuscarPorID devolve um utilizador
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	u, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "utilizador não encontrado", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(u)
}
