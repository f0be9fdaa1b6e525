package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/BeiraCargo/api-despacho/internal/models"
)

type ctxKey string

const (
	CtxUsuarioID ctxKey = "usuarioID"
	CtxPerfil    ctxKey = "perfil"
)

// MiddlewareAutenticacao valida o Bearer token e injeta no contexto o id e o
// perfil do utilizador que age. O core não autentica mais nada: apenas
// regista a identidade fornecida aqui em cada transição.
func MiddlewareAutenticacao(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		h := r.Header.Get("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			http.Error(w, "Token ausente", http.StatusUnauthorized)
			return
		}
		raw := strings.TrimPrefix(h, "Bearer ")
		claims, err := ValidarToken(raw)
		if err != nil {
			http.Error(w, "Token inválido", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), CtxUsuarioID, claims.UserID)
		ctx = context.WithValue(ctx, CtxPerfil, claims.Perfil)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequirePerfil restringe a rota aos perfis dados (admin passa sempre).
// É aqui que a separação de papéis do workflow é imposta: quem solicita não
// aprova, quem aprova não paga.
func RequirePerfil(perfis ...string) func(http.Handler) http.Handler {
	permitidos := make(map[string]bool, len(perfis)+1)
	for _, p := range perfis {
		permitidos[p] = true
	}
	permitidos[models.PerfilAdmin] = true

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			perfil, _ := r.Context().Value(CtxPerfil).(string)
			if !permitidos[perfil] {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UsuarioDoContexto devolve o id do utilizador autenticado.
func UsuarioDoContexto(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(CtxUsuarioID).(uint)
	return id, ok
}
