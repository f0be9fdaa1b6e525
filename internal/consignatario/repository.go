package consignatario

import (
	"gorm.io/gorm"
)

type Repository interface {
	Salvar(db *gorm.DB, c *Consignatario) error
	BuscarPorID(db *gorm.DB, id uint) (*Consignatario, error)
	Listar(db *gorm.DB) ([]Consignatario, error)
	Remover(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salvar(db *gorm.DB, c *Consignatario) error {
	return db.Create(c).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Consignatario, error) {
	var c Consignatario
	if err := db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repositoryImpl) Listar(db *gorm.DB) ([]Consignatario, error) {
	var list []Consignatario
	err := db.Find(&list).Error
	return list, err
}

func (r *repositoryImpl) Remover(db *gorm.DB, id uint) error {
	return db.Delete(&Consignatario{}, id).Error
}
