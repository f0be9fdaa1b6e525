package cliente

import (
	"gorm.io/gorm"
)

// Cliente é o importador/exportador que contrata o despacho. Remoção é
// sempre lógica: processos e faturas continuam a referenciá-lo.
type Cliente struct {
	gorm.Model
	Nome     string `json:"nome"`
	NUIT     string `json:"nuit" gorm:"unique"`
	Email    string `json:"email"`
	Telefone string `json:"telefone"`
	Endereco string `json:"endereco"`
	Cidade   string `json:"cidade"`
	Pais     string `json:"pais" gorm:"size:2;default:'MZ'"`
}
