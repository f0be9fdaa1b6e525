package usuario

import (
	"gorm.io/gorm"
)

// Usuario é quem age sobre o workflow: operações solicita, gestão aprova,
// finanças paga. O perfil decide que rotas lhe estão abertas.
type Usuario struct {
	gorm.Model
	Nome     string `json:"nome"`
	Apelido  string `json:"apelido"`
	Email    string `json:"email" gorm:"unique"`
	Telefone string `json:"telefone"`
	Senha    string `json:"-"`
	Perfil   string `json:"perfil" gorm:"size:20;not null;default:'operacoes'"`
	Ativo    bool   `json:"ativo" gorm:"default:true"`

	PrecisaRedefinirSenha bool `json:"-"`
}
