package consignatario

import (
	"gorm.io/gorm"
)

// Consignatario é o destinatário da carga no destino. Tal como o cliente,
// nunca é apagado fisicamente enquanto houver processos a referenciá-lo.
type Consignatario struct {
	gorm.Model
	Nome     string `json:"nome"`
	NUIT     string `json:"nuit"`
	Email    string `json:"email"`
	Telefone string `json:"telefone"`
	Endereco string `json:"endereco"`
	Cidade   string `json:"cidade"`
}
