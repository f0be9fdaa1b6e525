// models/status.go
package models

// Valores de status gravados na base tal como aparecem nas colunas.
// Cada conjunto é fechado: nenhum valor de um processo vaza para outro.

// Status de pedido de pagamento
const (
	PedidoPendente    = "pending"
	PedidoAprovado    = "approved"
	PedidoEmPagamento = "in_payment"
	PedidoPago        = "paid"
	PedidoRejeitado   = "rejected"
	PedidoCancelado   = "cancelled"
)

// Status de etapa de processo
const (
	EtapaPendente    = "pending"
	EtapaEmAndamento = "in_progress"
	EtapaConcluida   = "completed"
	EtapaBloqueada   = "blocked"
)

// Status de fatura
const (
	FaturaPendente = "pending"
	FaturaPaga     = "paid"
	FaturaVencida  = "overdue"
)

// Tipos de processo
const (
	ProcessoImportacao = "import"
	ProcessoExportacao = "export"
	ProcessoTransito   = "transit"
	ProcessoTransporte = "transport"
)

// Categorias de custo (também usadas como tipo de fatura de fornecedor)
const (
	CategoriaColetaDispersa = "coleta_dispersa"
	CategoriaAlfandegas     = "alfandegas"
	CategoriaCornelder      = "cornelder"
	CategoriaOutros         = "outros"
)

// Tipo da fatura emitida ao cliente final
const FaturaCliente = "client_invoice"

// Status de fase (projeção plana no Processo)
const (
	FaseRascunho    = "draft"
	FasePendente    = "pending"
	FaseEmAndamento = "in_progress"
	FaseConcluida   = "completed"
)

// Perfis de utilizador — separação de papéis no workflow de pagamentos
const (
	PerfilOperacoes = "operacoes"
	PerfilGestao    = "gestao"
	PerfilFinancas  = "financas"
	PerfilAdmin     = "admin"
)
