package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/VanshikaVirmani12/flewid-sub000/internal/domain"
)

// MessageType это тип сообщения в очереди.
type MessageType string

// Типы сообщений.
const (
	MessageTypeRunRequested MessageType = "run.requested"
	MessageTypeRunFinished  MessageType = "run.finished"
)

// Message это конверт любого сообщения flewid.
type Message struct {
	ID        string      `json:"id"`
	Type      MessageType `json:"type"`
	Payload   any         `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// RunRequestedPayload это запрос на выполнение workflow.
// Документ workflow передаётся целиком, worker не читает файлы.
type RunRequestedPayload struct {
	RunID    uuid.UUID       `json:"run_id"`
	Workflow domain.Workflow `json:"workflow"`
}

// RunFinishedPayload это итог выполнения run.
type RunFinishedPayload struct {
	RunID      uuid.UUID        `json:"run_id"`
	WorkflowID string           `json:"workflow_id"`
	Status     domain.RunStatus `json:"status"`
	StepCount  int              `json:"step_count"`
	DurationMs int64            `json:"duration_ms"`
	FailedNode string           `json:"failed_node,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// NewRunFinishedPayload собирает payload из завершённого run.
func NewRunFinishedPayload(run *domain.Run) RunFinishedPayload {
	payload := RunFinishedPayload{
		RunID:      run.ID,
		WorkflowID: run.WorkflowID,
		Status:     run.Status,
		StepCount:  len(run.Results),
		DurationMs: run.Duration().Milliseconds(),
		Error:      run.Error,
	}
	if failed, ok := run.FailedStep(); ok {
		payload.FailedNode = failed.NodeID
	}
	return payload
}

// Publisher публикует сообщения в RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// newMessage создаёт конверт с новым ID.
func newMessage(msgType MessageType, payload any) *Message {
	return &Message{
		ID:        uuid.New().String(),
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// Publish публикует сообщение в exchange с routing key.
func (p *Publisher) Publish(ctx context.Context, exchange Exchange, routingKey RoutingKey, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(exchange),
			string(routingKey),
			false, // mandatory
			false, // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    msg.ID,
				Type:         string(msg.Type),
				Timestamp:    msg.Timestamp,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
		}

		p.logger.Debug("published message",
			"exchange", exchange,
			"routing_key", routingKey,
			"message_id", msg.ID,
			"type", msg.Type,
		)
		return nil
	})
}

// PublishRunRequested ставит workflow в очередь на выполнение.
func (p *Publisher) PublishRunRequested(ctx context.Context, runID uuid.UUID, wf *domain.Workflow) error {
	if wf == nil {
		return fmt.Errorf("publish run requested: nil workflow")
	}
	msg := newMessage(MessageTypeRunRequested, RunRequestedPayload{RunID: runID, Workflow: *wf})
	return p.Publish(ctx, ExchangeRuns, RoutingKeyRequested, msg)
}

// PublishRunFinished публикует итог run.
func (p *Publisher) PublishRunFinished(ctx context.Context, payload RunFinishedPayload) error {
	msg := newMessage(MessageTypeRunFinished, payload)
	return p.Publish(ctx, ExchangeRuns, RoutingKeyFinished, msg)
}

// NotifyRunFinished реализует orchestrator.RunNotifier.
func (p *Publisher) NotifyRunFinished(ctx context.Context, run *domain.Run) error {
	return p.PublishRunFinished(ctx, NewRunFinishedPayload(run))
}
