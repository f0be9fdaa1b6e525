// models/resultado.go
package models

// ResultadoTransicao é o retorno das transições de workflow. Mantém a
// semântica barata de verificar (nada de exceções para transição ilegal),
// mas com motivo tipado em vez de um booleano seco.
type ResultadoTransicao struct {
	OK     bool   `json:"ok"`
	Motivo string `json:"motivo,omitempty"`
}

func TransicaoOK() ResultadoTransicao {
	return ResultadoTransicao{OK: true}
}

func TransicaoInvalida(motivo string) ResultadoTransicao {
	return ResultadoTransicao{OK: false, Motivo: motivo}
}

// ResultadoValidacao é o resultado estruturado de validações de faturação.
// Erros bloqueiam; avisos apenas informam.
type ResultadoValidacao struct {
	PodeGerar bool     `json:"podeGerar"`
	Erros     []string `json:"erros"`
	Avisos    []string `json:"avisos"`
}

func (r *ResultadoValidacao) AdicionarErro(msg string) {
	r.Erros = append(r.Erros, msg)
	r.PodeGerar = false
}

func (r *ResultadoValidacao) AdicionarAviso(msg string) {
	r.Avisos = append(r.Avisos, msg)
}
