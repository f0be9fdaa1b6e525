package usuario

import (
	"gorm.io/gorm"
)

type Repository interface {
	Salvar(db *gorm.DB, u *Usuario) error
	BuscarPorID(db *gorm.DB, id uint) (*Usuario, error)
	BuscarPorEmail(db *gorm.DB, email string) (*Usuario, error)
	Listar(db *gorm.DB) ([]Usuario, error)
	Atualizar(db *gorm.DB, u *Usuario) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salvar(db *gorm.DB, u *Usuario) error {
	return db.Create(u).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Usuario, error) {
	var u Usuario
	if err := db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repositoryImpl) BuscarPorEmail(db *gorm.DB, email string) (*Usuario, error) {
	var u Usuario
	if err := db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repositoryImpl) Listar(db *gorm.DB) ([]Usuario, error) {
	var list []Usuario
	err := db.Find(&list).Error
	return list, err
}

func (r *repositoryImpl) Atualizar(db *gorm.DB, u *Usuario) error {
	return db.Save(u).Error
}
