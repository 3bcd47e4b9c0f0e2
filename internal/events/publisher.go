// Publicador de eventos de venta hacia RabbitMQ. Es opcional: sin broker
// configurado el POS funciona igual, sólo deja de emitir para reportes.
package events

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/sfrestrepo/bookshop-pos/internal/pos"
)

type Publisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

func NewPublisher(url, queue string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, ch: ch, queue: queue}, nil
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

type saleCommitted struct {
	SaleID      string              `json:"sale_id"`
	CreatedUnix int64               `json:"created_unix"`
	TotalCents  int64               `json:"total_cents"`
	Items       []saleCommittedItem `json:"items"`
}

type saleCommittedItem struct {
	BookID string `json:"book_id"`
	Qty    int64  `json:"qty"`
}

// SaleCommitted publica la venta confirmada. Un broker caído no tumba el
// checkout: la venta ya quedó en la base, acá sólo se registra el fallo.
func (p *Publisher) SaleCommitted(ctx context.Context, s *pos.Sale) {
	if p == nil {
		return
	}
	msg := saleCommitted{
		SaleID:      s.ID,
		CreatedUnix: s.CreatedUnix,
		TotalCents:  s.TotalCents,
	}
	for _, l := range s.Lines {
		msg.Items = append(msg.Items, saleCommittedItem{BookID: l.BookID, Qty: l.Qty})
	}
	body, _ := json.Marshal(msg)
	err := p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		log.Error().Err(err).Str("sale", s.ID).Msg("publish sale.committed")
	}
}
