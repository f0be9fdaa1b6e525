package documento

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Salvar(db *gorm.DB, d *Documento) error
	BuscarPorID(db *gorm.DB, id uuid.UUID) (*Documento, error)
	ListarPorProcesso(db *gorm.DB, processoID uint) ([]Documento, error)
	Remover(db *gorm.DB, id uuid.UUID) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salvar(db *gorm.DB, d *Documento) error {
	return db.Create(d).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uuid.UUID) (*Documento, error) {
	var d Documento
	if err := db.First(&d, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repositoryImpl) ListarPorProcesso(db *gorm.DB, processoID uint) ([]Documento, error) {
	var list []Documento
	err := db.Where("processo_id = ?", processoID).Find(&list).Error
	return list, err
}

func (r *repositoryImpl) Remover(db *gorm.DB, id uuid.UUID) error {
	return db.Delete(&Documento{}, "id = ?", id).Error
}
