// internal/numeracao/gerador.go
package numeracao

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Gerador emite códigos legíveis no formato TAG-AAAA-NNNN (ex.: INV-2025-0007).
// A emissão é serializada por (tipo, ano) através da linha de contador
// bloqueada FOR UPDATE dentro da transação do chamador: duas emissões
// concorrentes nunca calculam o mesmo número.
type Gerador struct {
	// UltimoCodigoExistente, quando definido, semeia o contador na primeira
	// emissão de um (tipo, ano) a partir do maior código já gravado — cobre
	// bases migradas de antes da tabela de contadores existir.
	UltimoCodigoExistente func(tx *gorm.DB, tipo string, ano int) (string, error)
}

func NewGerador() *Gerador {
	return &Gerador{}
}

// Proximo devolve o próximo código para o tipo e ano dados. Deve ser chamado
// dentro de uma transação; o contador fica bloqueado até ao commit.
func (g *Gerador) Proximo(tx *gorm.DB, tipo string, ano int) (string, error) {
	var c NumeracaoDocumento
	err := comBloqueio(tx).
		Where("tipo = ? AND ano = ?", tipo, ano).
		First(&c).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c = NumeracaoDocumento{Tipo: tipo, Ano: ano, UltimoNumero: g.semente(tx, tipo, ano)}
		if err := tx.Create(&c).Error; err != nil {
			return "", fmt.Errorf("criar contador %s/%d: %w", tipo, ano, err)
		}
	case err != nil:
		return "", fmt.Errorf("carregar contador %s/%d: %w", tipo, ano, err)
	}

	c.UltimoNumero++
	if err := tx.Model(&NumeracaoDocumento{}).
		Where("id = ?", c.ID).
		Update("ultimo_numero", c.UltimoNumero).Error; err != nil {
		return "", fmt.Errorf("incrementar contador %s/%d: %w", tipo, ano, err)
	}

	return fmt.Sprintf("%s-%d-%04d", tipo, ano, c.UltimoNumero), nil
}

func (g *Gerador) semente(tx *gorm.DB, tipo string, ano int) int {
	if g.UltimoCodigoExistente == nil {
		return 0
	}
	codigo, err := g.UltimoCodigoExistente(tx, tipo, ano)
	if err != nil || codigo == "" {
		return 0
	}
	return SufixoNumerico(codigo)
}

// SufixoNumerico extrai o número final de um código (INV-2025-0007 -> 7).
// Códigos sem sufixo numérico contam como zero.
func SufixoNumerico(codigo string) int {
	i := strings.LastIndex(codigo, "-")
	if i < 0 || i == len(codigo)-1 {
		return 0
	}
	n, err := strconv.Atoi(codigo[i+1:])
	if err != nil {
		return 0
	}
	return n
}

// sqlite serializa escritas por si e não aceita FOR UPDATE; o bloqueio de
// linha só é necessário (e emitido) no postgres.
func comBloqueio(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
