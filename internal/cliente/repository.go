package cliente

import (
	"gorm.io/gorm"
)

type Repository interface {
	Salvar(db *gorm.DB, c *Cliente) error
	BuscarPorID(db *gorm.DB, id uint) (*Cliente, error)
	Listar(db *gorm.DB) ([]Cliente, error)
	Atualizar(db *gorm.DB, c *Cliente) error
	Remover(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salvar(db *gorm.DB, c *Cliente) error {
	return db.Create(c).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Cliente, error) {
	var c Cliente
	if err := db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repositoryImpl) Listar(db *gorm.DB) ([]Cliente, error) {
	var list []Cliente
	err := db.Find(&list).Error
	return list, err
}

func (r *repositoryImpl) Atualizar(db *gorm.DB, c *Cliente) error {
	return db.Save(c).Error
}

// Remover marca o cliente como apagado (soft delete via gorm.Model).
func (r *repositoryImpl) Remover(db *gorm.DB, id uint) error {
	return db.Delete(&Cliente{}, id).Error
}
