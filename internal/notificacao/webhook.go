package notificacao

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/BeiraCargo/api-despacho/internal/pedidopagamento"
)

// Webhook envia eventos do workflow financeiro para o endpoint configurado
// em WEBHOOK_ALERTAS_URL. Fire-and-forget: falha de entrega só gera log,
// nunca desfaz a transição que a originou.
type Webhook struct {
	URL    string
	Client *http.Client
}

func NewWebhook() *Webhook {
	return &Webhook{
		URL:    os.Getenv("WEBHOOK_ALERTAS_URL"),
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

var _ pedidopagamento.Notificador = (*Webhook)(nil)

func (wh *Webhook) NotificarEvento(evento string, pedido *pedidopagamento.PedidoPagamento) {
	if wh.URL == "" {
		return
	}
	go wh.enviar(evento, pedido)
}

func (wh *Webhook) enviar(evento string, pedido *pedidopagamento.PedidoPagamento) {
	payload := map[string]any{
		"evento":       evento,
		"pedidoId":     pedido.ID,
		"processoId":   pedido.ProcessoID,
		"fase":         pedido.Fase,
		"tipo":         pedido.Tipo,
		"beneficiario": pedido.Beneficiario,
		"valor":        pedido.Valor.StringFixed(2),
		"moeda":        pedido.Moeda,
		"status":       pedido.Status,
	}
	body, _ := json.Marshal(payload)

	resp, err := wh.Client.Post(wh.URL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		log.Printf("Erro ao enviar webhook de %s: %v", evento, err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		log.Printf("Webhook de %s respondeu %d", evento, resp.StatusCode)
	}
}
