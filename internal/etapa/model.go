package etapa

import (
	"time"
)

// ProcessoEtapa é o registo durável de entrada/saída de uma fase: a fonte de
// verdade auditável, de que as projeções planas do Processo derivam. Nunca é
// apagado.
type ProcessoEtapa struct {
	ID        uint      `gorm:"primaryKey" json:"etapaId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ProcessoID uint   `gorm:"not null;index:idx_etapa_processo_fase" json:"processoId"`
	Fase       int    `gorm:"not null;index:idx_etapa_processo_fase" json:"fase"`
	Nome       string `gorm:"size:100" json:"nome"`

	Status string `gorm:"size:20;not null;default:'pending'" json:"status"`

	IniciadaEm  *time.Time `json:"iniciadaEm,omitempty"`
	ConcluidaEm *time.Time `json:"concluidaEm,omitempty"`

	Notas     string         `json:"notas,omitempty"`
	Metadados map[string]any `gorm:"type:jsonb;serializer:json" json:"metadados,omitempty"`

	UsuarioID uint `json:"usuarioId"`
}
