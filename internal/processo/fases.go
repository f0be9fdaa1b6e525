// internal/processo/fases.go
package processo

import (
	"github.com/BeiraCargo/api-despacho/internal/models"
)

// Fases operacionais de um processo de importação, na ordem usual. Várias
// podem correr em paralelo (legalização e alfândegas costumam sobrepor-se);
// os números servem de identificador, não de pipeline estrito.
const (
	FaseColetaDispersa = 1
	FaseLegalizacao    = 2
	FaseAlfandegas     = 3
	FaseCornelder      = 4
	FaseTaxacao        = 5
	FaseFaturacao      = 6
	FasePOD            = 7

	TotalFases = 7

	// Transporte nacional não tem fase alfandegária: são só 6 fases.
	TotalFasesTransporte = 6
)

// NomesFasesImportacao dá o rótulo humano de cada fase de importação.
var NomesFasesImportacao = map[int]string{
	FaseColetaDispersa: "Coleta dispersa",
	FaseLegalizacao:    "Legalização",
	FaseAlfandegas:     "Alfândegas",
	FaseCornelder:      "Cornelder",
	FaseTaxacao:        "Taxação",
	FaseFaturacao:      "Faturação",
	FasePOD:            "Prova de entrega",
}

// FasesImportacao é a projeção plana das fases de um processo de importação.
// A fase 1 tem três sub-sinais próprios (cotação, pagamento, recibo) que
// entram juntos na nota de progresso dessa fase.
type FasesImportacao struct {
	StatusCotacao   string `json:"statusCotacao"`
	StatusPagamento string `json:"statusPagamento"`
	StatusRecibo    string `json:"statusRecibo"`

	StatusColeta      string `json:"statusColeta"`
	StatusLegalizacao string `json:"statusLegalizacao"`
	StatusAlfandegas  string `json:"statusAlfandegas"`
	StatusCornelder   string `json:"statusCornelder"`
	StatusTaxacao     string `json:"statusTaxacao"`
	StatusFaturacao   string `json:"statusFaturacao"`
	StatusPOD         string `json:"statusPod"`
}

func NovasFasesImportacao() *FasesImportacao {
	return &FasesImportacao{
		StatusCotacao:     models.FaseRascunho,
		StatusPagamento:   models.FasePendente,
		StatusRecibo:      models.FasePendente,
		StatusColeta:      models.FasePendente,
		StatusLegalizacao: models.FasePendente,
		StatusAlfandegas:  models.FasePendente,
		StatusCornelder:   models.FasePendente,
		StatusTaxacao:     models.FasePendente,
		StatusFaturacao:   models.FasePendente,
		StatusPOD:         models.FasePendente,
	}
}

// AtualizarFase escreve o status da fase dada na projeção de importação.
func (f *FasesImportacao) AtualizarFase(fase int, status string) {
	switch fase {
	case FaseColetaDispersa:
		f.StatusColeta = status
	case FaseLegalizacao:
		f.StatusLegalizacao = status
	case FaseAlfandegas:
		f.StatusAlfandegas = status
	case FaseCornelder:
		f.StatusCornelder = status
	case FaseTaxacao:
		f.StatusTaxacao = status
	case FaseFaturacao:
		f.StatusFaturacao = status
	case FasePOD:
		f.StatusPOD = status
	}
}

// StatusDaFase lê o status da fase dada.
func (f *FasesImportacao) StatusDaFase(fase int) string {
	switch fase {
	case FaseColetaDispersa:
		return f.StatusColeta
	case FaseLegalizacao:
		return f.StatusLegalizacao
	case FaseAlfandegas:
		return f.StatusAlfandegas
	case FaseCornelder:
		return f.StatusCornelder
	case FaseTaxacao:
		return f.StatusTaxacao
	case FaseFaturacao:
		return f.StatusFaturacao
	case FasePOD:
		return f.StatusPOD
	}
	return ""
}

// NomesFasesExportacao dá o rótulo humano de cada fase de exportação.
var NomesFasesExportacao = map[int]string{
	1: "Booking",
	2: "Coleta",
	3: "Alfândegas",
	4: "Embarque",
	5: "Documentação",
	6: "Faturação",
	7: "Prova de entrega",
}

// FasesExportacao é a projeção plana de um processo de exportação.
type FasesExportacao struct {
	StatusBooking      string `json:"statusBooking"`
	StatusColeta       string `json:"statusColeta"`
	StatusAlfandegas   string `json:"statusAlfandegas"`
	StatusEmbarque     string `json:"statusEmbarque"`
	StatusDocumentacao string `json:"statusDocumentacao"`
	StatusFaturacao    string `json:"statusFaturacao"`
	StatusPOD          string `json:"statusPod"`
}

func NovasFasesExportacao() *FasesExportacao {
	return &FasesExportacao{
		StatusBooking:      models.FasePendente,
		StatusColeta:       models.FasePendente,
		StatusAlfandegas:   models.FasePendente,
		StatusEmbarque:     models.FasePendente,
		StatusDocumentacao: models.FasePendente,
		StatusFaturacao:    models.FasePendente,
		StatusPOD:          models.FasePendente,
	}
}

func (f *FasesExportacao) AtualizarFase(fase int, status string) {
	campos := []*string{
		&f.StatusBooking, &f.StatusColeta, &f.StatusAlfandegas,
		&f.StatusEmbarque, &f.StatusDocumentacao, &f.StatusFaturacao,
		&f.StatusPOD,
	}
	if fase >= 1 && fase <= len(campos) {
		*campos[fase-1] = status
	}
}

// NomesFasesTransito dá o rótulo humano de cada fase de trânsito.
var NomesFasesTransito = map[int]string{
	1: "Documentação de entrada",
	2: "Alfândegas",
	3: "Escolta",
	4: "Fronteira",
	5: "Entrega",
	6: "Faturação",
	7: "Prova de entrega",
}

// FasesTransito é a projeção plana de um processo de trânsito.
type FasesTransito struct {
	StatusDocEntrada string `json:"statusDocEntrada"`
	StatusAlfandegas string `json:"statusAlfandegas"`
	StatusEscolta    string `json:"statusEscolta"`
	StatusFronteira  string `json:"statusFronteira"`
	StatusEntrega    string `json:"statusEntrega"`
	StatusFaturacao  string `json:"statusFaturacao"`
	StatusPOD        string `json:"statusPod"`
}

func NovasFasesTransito() *FasesTransito {
	return &FasesTransito{
		StatusDocEntrada: models.FasePendente,
		StatusAlfandegas: models.FasePendente,
		StatusEscolta:    models.FasePendente,
		StatusFronteira:  models.FasePendente,
		StatusEntrega:    models.FasePendente,
		StatusFaturacao:  models.FasePendente,
		StatusPOD:        models.FasePendente,
	}
}

func (f *FasesTransito) AtualizarFase(fase int, status string) {
	campos := []*string{
		&f.StatusDocEntrada, &f.StatusAlfandegas, &f.StatusEscolta,
		&f.StatusFronteira, &f.StatusEntrega, &f.StatusFaturacao,
		&f.StatusPOD,
	}
	if fase >= 1 && fase <= len(campos) {
		*campos[fase-1] = status
	}
}

// NomesFasesTransporte dá o rótulo humano de cada fase de transporte
// nacional. Note a ausência de fase 7.
var NomesFasesTransporte = map[int]string{
	1: "Alocação de viatura",
	2: "Carregamento",
	3: "Trânsito",
	4: "Entrega",
	5: "Faturação",
	6: "Prova de entrega",
}

// FasesTransporte é a projeção plana de um processo de transporte nacional.
type FasesTransporte struct {
	StatusAlocacao     string `json:"statusAlocacao"`
	StatusCarregamento string `json:"statusCarregamento"`
	StatusTransito     string `json:"statusTransito"`
	StatusEntrega      string `json:"statusEntrega"`
	StatusFaturacao    string `json:"statusFaturacao"`
	StatusPOD          string `json:"statusPod"`
}

func NovasFasesTransporte() *FasesTransporte {
	return &FasesTransporte{
		StatusAlocacao:     models.FasePendente,
		StatusCarregamento: models.FasePendente,
		StatusTransito:     models.FasePendente,
		StatusEntrega:      models.FasePendente,
		StatusFaturacao:    models.FasePendente,
		StatusPOD:          models.FasePendente,
	}
}

func (f *FasesTransporte) AtualizarFase(fase int, status string) {
	campos := []*string{
		&f.StatusAlocacao, &f.StatusCarregamento, &f.StatusTransito,
		&f.StatusEntrega, &f.StatusFaturacao, &f.StatusPOD,
	}
	if fase >= 1 && fase <= len(campos) {
		*campos[fase-1] = status
	}
}

var nomesFasesPorTipo = map[string]map[int]string{
	models.ProcessoImportacao: NomesFasesImportacao,
	models.ProcessoExportacao: NomesFasesExportacao,
	models.ProcessoTransito:   NomesFasesTransito,
	models.ProcessoTransporte: NomesFasesTransporte,
}

// NomeFase dá o rótulo da fase segundo o tipo do processo.
func (p *Processo) NomeFase(fase int) string {
	if nomes, ok := nomesFasesPorTipo[p.Tipo]; ok {
		return nomes[fase]
	}
	return NomesFasesImportacao[fase]
}

// UltimaFase dá o número da última fase do tipo do processo.
func (p *Processo) UltimaFase() int {
	if p.Tipo == models.ProcessoTransporte {
		return TotalFasesTransporte
	}
	return TotalFases
}

// FaseValida diz se a fase existe para o tipo do processo.
func (p *Processo) FaseValida(fase int) bool {
	return fase >= 1 && fase <= p.UltimaFase()
}

// AtualizarFase escreve o status na projeção do tipo do processo.
func (p *Processo) AtualizarFase(fase int, status string) {
	switch {
	case p.FasesImportacao != nil:
		p.FasesImportacao.AtualizarFase(fase, status)
	case p.FasesExportacao != nil:
		p.FasesExportacao.AtualizarFase(fase, status)
	case p.FasesTransito != nil:
		p.FasesTransito.AtualizarFase(fase, status)
	case p.FasesTransporte != nil:
		p.FasesTransporte.AtualizarFase(fase, status)
	}
}
