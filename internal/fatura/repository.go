package fatura

import (
	"fmt"
	"time"

	"github.com/BeiraCargo/api-despacho/internal/models"
	"gorm.io/gorm"
)

type Repository interface {
	Salvar(db *gorm.DB, f *Fatura) error
	BuscarPorID(db *gorm.DB, id uint) (*Fatura, error)
	ListarPorProcesso(db *gorm.DB, processoID uint) ([]Fatura, error)
	Listar(db *gorm.DB, tipo, status string) ([]Fatura, error)
	Atualizar(db *gorm.DB, f *Fatura) error
	// ExisteFaturaCliente diz se o processo já tem client_invoice emitida.
	ExisteFaturaCliente(db *gorm.DB, processoID uint) (bool, error)
	// UltimoNumero devolve o maior código emitido com o prefixo no ano dado,
	// pela ordem de inserção — semeia o gerador de numeração.
	UltimoNumero(db *gorm.DB, prefixo string, ano int) (string, error)
	// MarcarVencidas passa para overdue as pendentes com vencimento passado.
	MarcarVencidas(db *gorm.DB, agora time.Time) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salvar(db *gorm.DB, f *Fatura) error {
	return db.Create(f).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Fatura, error) {
	var f Fatura
	if err := db.First(&f, id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *repositoryImpl) ListarPorProcesso(db *gorm.DB, processoID uint) ([]Fatura, error) {
	var list []Fatura
	err := db.Where("processo_id = ?", processoID).Order("id").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) Listar(db *gorm.DB, tipo, status string) ([]Fatura, error) {
	q := db.Model(&Fatura{})
	if tipo != "" {
		q = q.Where("tipo = ?", tipo)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var list []Fatura
	err := q.Order("id DESC").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) Atualizar(db *gorm.DB, f *Fatura) error {
	return db.Save(f).Error
}

func (r *repositoryImpl) ExisteFaturaCliente(db *gorm.DB, processoID uint) (bool, error) {
	var n int64
	err := db.Model(&Fatura{}).
		Where("processo_id = ? AND tipo = ?", processoID, models.FaturaCliente).
		Count(&n).Error
	return n > 0, err
}

func (r *repositoryImpl) UltimoNumero(db *gorm.DB, prefixo string, ano int) (string, error) {
	var list []Fatura
	padrao := fmt.Sprintf("%s-%d-%%", prefixo, ano)
	err := db.Where("numero LIKE ?", padrao).Order("id DESC").Limit(1).Find(&list).Error
	if err != nil || len(list) == 0 {
		return "", err
	}
	return list[0].Numero, nil
}

func (r *repositoryImpl) MarcarVencidas(db *gorm.DB, agora time.Time) error {
	return db.Model(&Fatura{}).
		Where("status = ? AND data_vencimento IS NOT NULL AND data_vencimento < ?",
			models.FaturaPendente, agora).
		Update("status", models.FaturaVencida).Error
}
