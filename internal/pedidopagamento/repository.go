package pedidopagamento

import (
	"github.com/BeiraCargo/api-despacho/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Salvar(db *gorm.DB, p *PedidoPagamento) error
	BuscarPorID(db *gorm.DB, id uint) (*PedidoPagamento, error)
	// BuscarPorIDParaAtualizar carrega o pedido com lock de linha dentro da
	// transação dada; é a base do compare-and-set das transições.
	BuscarPorIDParaAtualizar(tx *gorm.DB, id uint) (*PedidoPagamento, error)
	Atualizar(db *gorm.DB, p *PedidoPagamento) error
	ListarPorProcesso(db *gorm.DB, processoID uint) ([]PedidoPagamento, error)
	ListarPorProcessoEFase(db *gorm.DB, processoID uint, fase int) ([]PedidoPagamento, error)
	ListarPorProcessoEStatus(db *gorm.DB, processoID uint, status []string) ([]PedidoPagamento, error)
	// ContarPagosSemRecibo conta pedidos da mesma (processo, fase) já pagos
	// mas ainda sem recibo do fornecedor — o sinal de conclusão da fase.
	ContarPagosSemRecibo(db *gorm.DB, processoID uint, fase int) (int64, error)
	ContarEmAbertoNaFase(db *gorm.DB, processoID uint, fase int) (int64, error)
	Remover(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salvar(db *gorm.DB, p *PedidoPagamento) error {
	return db.Create(p).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*PedidoPagamento, error) {
	var p PedidoPagamento
	if err := db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repositoryImpl) BuscarPorIDParaAtualizar(tx *gorm.DB, id uint) (*PedidoPagamento, error) {
	var p PedidoPagamento
	if err := comBloqueio(tx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repositoryImpl) Atualizar(db *gorm.DB, p *PedidoPagamento) error {
	return db.Save(p).Error
}

func (r *repositoryImpl) ListarPorProcesso(db *gorm.DB, processoID uint) ([]PedidoPagamento, error) {
	var list []PedidoPagamento
	err := db.Where("processo_id = ?", processoID).Order("id").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) ListarPorProcessoEFase(db *gorm.DB, processoID uint, fase int) ([]PedidoPagamento, error) {
	var list []PedidoPagamento
	err := db.Where("processo_id = ? AND fase = ?", processoID, fase).Order("id").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) ListarPorProcessoEStatus(db *gorm.DB, processoID uint, status []string) ([]PedidoPagamento, error) {
	var list []PedidoPagamento
	err := db.Where("processo_id = ? AND status IN ?", processoID, status).Order("id").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) ContarPagosSemRecibo(db *gorm.DB, processoID uint, fase int) (int64, error) {
	var n int64
	err := db.Model(&PedidoPagamento{}).
		Where("processo_id = ? AND fase = ? AND status = ? AND recibo_documento_id IS NULL",
			processoID, fase, models.PedidoPago).
		Count(&n).Error
	return n, err
}

func (r *repositoryImpl) ContarEmAbertoNaFase(db *gorm.DB, processoID uint, fase int) (int64, error) {
	var n int64
	err := db.Model(&PedidoPagamento{}).
		Where("processo_id = ? AND fase = ? AND status IN ?",
			processoID, fase, []string{models.PedidoPendente, models.PedidoAprovado, models.PedidoEmPagamento}).
		Count(&n).Error
	return n, err
}

func (r *repositoryImpl) Remover(db *gorm.DB, id uint) error {
	return db.Delete(&PedidoPagamento{}, id).Error
}

// sqlite serializa escritas por si e não aceita FOR UPDATE; o bloqueio de
// linha só é emitido no postgres.
func comBloqueio(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
