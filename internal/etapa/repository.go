package etapa

import (
	"gorm.io/gorm"
)

type Repository interface {
	Salvar(db *gorm.DB, e *ProcessoEtapa) error
	Atualizar(db *gorm.DB, e *ProcessoEtapa) error
	// BuscarAtual devolve o registo autoritativo de (processo, fase): o mais
	// recente. Nil sem erro quando a fase ainda não foi aberta.
	BuscarAtual(db *gorm.DB, processoID uint, fase int) (*ProcessoEtapa, error)
	ListarPorProcesso(db *gorm.DB, processoID uint) ([]ProcessoEtapa, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salvar(db *gorm.DB, e *ProcessoEtapa) error {
	return db.Create(e).Error
}

func (r *repositoryImpl) Atualizar(db *gorm.DB, e *ProcessoEtapa) error {
	return db.Save(e).Error
}

func (r *repositoryImpl) BuscarAtual(db *gorm.DB, processoID uint, fase int) (*ProcessoEtapa, error) {
	var list []ProcessoEtapa
	err := db.Where("processo_id = ? AND fase = ?", processoID, fase).
		Order("id DESC").Limit(1).Find(&list).Error
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

func (r *repositoryImpl) ListarPorProcesso(db *gorm.DB, processoID uint) ([]ProcessoEtapa, error) {
	var list []ProcessoEtapa
	err := db.Where("processo_id = ?", processoID).Order("fase, id").Find(&list).Error
	return list, err
}
