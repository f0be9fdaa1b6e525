package processo

import (
	"errors"

	"gorm.io/gorm"
)

// ErrProcessoComFinanceirosAbertos impede a remoção de processos que ainda
// têm pedidos de pagamento ou faturas a referenciá-los.
var ErrProcessoComFinanceirosAbertos = errors.New("processo tem documentos financeiros associados")

type Repository interface {
	Salvar(db *gorm.DB, p *Processo) error
	BuscarPorID(db *gorm.DB, id uint) (*Processo, error)
	BuscarPorReferencia(db *gorm.DB, referencia string) (*Processo, error)
	Listar(db *gorm.DB, tipo, status string) ([]Processo, error)
	Atualizar(db *gorm.DB, p *Processo) error
	Remover(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salvar(db *gorm.DB, p *Processo) error {
	return db.Create(p).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Processo, error) {
	var p Processo
	if err := db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repositoryImpl) BuscarPorReferencia(db *gorm.DB, referencia string) (*Processo, error) {
	var p Processo
	if err := db.Where("referencia = ?", referencia).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repositoryImpl) Listar(db *gorm.DB, tipo, status string) ([]Processo, error) {
	q := db.Model(&Processo{})
	if tipo != "" {
		q = q.Where("tipo = ?", tipo)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var list []Processo
	err := q.Order("id DESC").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) Atualizar(db *gorm.DB, p *Processo) error {
	return db.Save(p).Error
}

// Remover faz soft delete, mas só de processos sem pedidos de pagamento nem
// faturas — registos financeiros mantêm o processo vivo.
func (r *repositoryImpl) Remover(db *gorm.DB, id uint) error {
	var pedidos int64
	if err := db.Table("pedido_pagamentos").
		Where("processo_id = ? AND deleted_at IS NULL", id).
		Count(&pedidos).Error; err != nil {
		return err
	}
	var faturas int64
	if err := db.Table("faturas").
		Where("processo_id = ? AND deleted_at IS NULL", id).
		Count(&faturas).Error; err != nil {
		return err
	}
	if pedidos > 0 || faturas > 0 {
		return ErrProcessoComFinanceirosAbertos
	}
	return db.Delete(&Processo{}, id).Error
}
