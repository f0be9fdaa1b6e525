// internal/processo/progresso.go
package processo

import (
	"github.com/BeiraCargo/api-despacho/internal/models"
)

// notaStatus converte um status de fase numa nota 0..100.
func notaStatus(status string) float64 {
	switch status {
	case models.FaseConcluida:
		return 100
	case models.FaseEmAndamento:
		return 50
	default:
		// draft, pending e desconhecidos contam zero
		return 0
	}
}

// notaCotacao pontua o sub-sinal de cotação da fase 1.
func notaCotacao(status string) float64 {
	switch status {
	case "accepted":
		return 100
	case "sent":
		return 50
	default:
		return 0
	}
}

// CalcularProgresso devolve o progresso agregado do processo em percentagem:
// a média aritmética das notas das sete fases. A fase 1 de importação mistura
// os seus três sub-sinais (cotação, pagamento, recibo) numa nota própria.
func (p *Processo) CalcularProgresso() float64 {
	switch {
	case p.FasesImportacao != nil:
		return progressoImportacao(p.FasesImportacao)
	case p.FasesExportacao != nil:
		return media(
			notaStatus(p.FasesExportacao.StatusBooking),
			notaStatus(p.FasesExportacao.StatusColeta),
			notaStatus(p.FasesExportacao.StatusAlfandegas),
			notaStatus(p.FasesExportacao.StatusEmbarque),
			notaStatus(p.FasesExportacao.StatusDocumentacao),
			notaStatus(p.FasesExportacao.StatusFaturacao),
			notaStatus(p.FasesExportacao.StatusPOD),
		)
	case p.FasesTransito != nil:
		return media(
			notaStatus(p.FasesTransito.StatusDocEntrada),
			notaStatus(p.FasesTransito.StatusAlfandegas),
			notaStatus(p.FasesTransito.StatusEscolta),
			notaStatus(p.FasesTransito.StatusFronteira),
			notaStatus(p.FasesTransito.StatusEntrega),
			notaStatus(p.FasesTransito.StatusFaturacao),
			notaStatus(p.FasesTransito.StatusPOD),
		)
	case p.FasesTransporte != nil:
		return media(
			notaStatus(p.FasesTransporte.StatusAlocacao),
			notaStatus(p.FasesTransporte.StatusCarregamento),
			notaStatus(p.FasesTransporte.StatusTransito),
			notaStatus(p.FasesTransporte.StatusEntrega),
			notaStatus(p.FasesTransporte.StatusFaturacao),
			notaStatus(p.FasesTransporte.StatusPOD),
		)
	}
	return 0
}

func progressoImportacao(f *FasesImportacao) float64 {
	fase1 := media(
		notaCotacao(f.StatusCotacao),
		notaStatus(f.StatusPagamento),
		notaStatus(f.StatusRecibo),
	)
	return media(
		fase1,
		notaStatus(f.StatusLegalizacao),
		notaStatus(f.StatusAlfandegas),
		notaStatus(f.StatusCornelder),
		notaStatus(f.StatusTaxacao),
		notaStatus(f.StatusFaturacao),
		notaStatus(f.StatusPOD),
	)
}

func media(notas ...float64) float64 {
	if len(notas) == 0 {
		return 0
	}
	var soma float64
	for _, n := range notas {
		soma += n
	}
	return soma / float64(len(notas))
}
