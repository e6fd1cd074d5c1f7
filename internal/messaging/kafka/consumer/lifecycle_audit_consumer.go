package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"go-ems/internal/bootstrap"
	"go-ems/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// ConsumeLifecycleAudit turns employee and leave lifecycle events into audit
// entries. Undecodable messages are committed and skipped.
func ConsumeLifecycleAudit(
	ctx context.Context,
	reader MessageReader,
	audit bootstrap.AuditLogger,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.lifecycle_audit")
	log.Info("lifecycle audit consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("lifecycle audit consumer stopped")
				return
			}
			log.Error("fetch lifecycle message failed", zap.Error(err))
			continue
		}

		entry, err := toAuditLog(msg)
		if err != nil {
			log.Warn("skip lifecycle message",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		} else {
			audit.Log(ctx, entry)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit lifecycle message failed", zap.Error(err))
		}
	}
}

func toAuditLog(msg kafkago.Message) (bootstrap.AuditLog, error) {
	requestID := header(msg, "request_id")

	switch header(msg, "event_type") {
	case events.EventLeaveRequested:
		var e events.LeaveRequestedEvent
		if err := json.Unmarshal(msg.Value, &e); err != nil {
			return bootstrap.AuditLog{}, fmt.Errorf("decode %s: %w", events.EventLeaveRequested, err)
		}
		return bootstrap.AuditLog{
			Action:    "LEAVE_REQUESTED",
			Message:   "leave request submitted",
			RequestID: requestID,
			Meta: map[string]any{
				"leave_id":     e.LeaveID,
				"requester_id": e.RequesterID,
				"leave_type":   e.LeaveType,
				"start_date":   e.StartDate,
				"end_date":     e.EndDate,
			},
		}, nil

	case events.EventLeaveStatusChanged:
		var e events.LeaveStatusChangedEvent
		if err := json.Unmarshal(msg.Value, &e); err != nil {
			return bootstrap.AuditLog{}, fmt.Errorf("decode %s: %w", events.EventLeaveStatusChanged, err)
		}
		return bootstrap.AuditLog{
			Action:    "LEAVE_" + normalizeStatus(e.Status),
			Message:   "leave request decided",
			RequestID: requestID,
			Meta: map[string]any{
				"leave_id":        e.LeaveID,
				"requester_id":    e.RequesterID,
				"processed_by_id": e.ProcessedByID,
				"comments":        e.Comments,
			},
		}, nil

	case events.EventEmployeeCreated:
		var e events.EmployeeCreatedEvent
		if err := json.Unmarshal(msg.Value, &e); err != nil {
			return bootstrap.AuditLog{}, fmt.Errorf("decode %s: %w", events.EventEmployeeCreated, err)
		}
		return bootstrap.AuditLog{
			Action:    "EMPLOYEE_CREATED",
			Message:   "employee provisioned",
			RequestID: requestID,
			Meta: map[string]any{
				"employee_id":     e.EmployeeID,
				"user_id":         e.UserID,
				"employee_number": e.EmployeeNumber,
			},
		}, nil

	default:
		return bootstrap.AuditLog{}, fmt.Errorf("unknown event type %q", header(msg, "event_type"))
	}
}

func header(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func normalizeStatus(status string) string {
	switch status {
	case "Approved":
		return "APPROVED"
	case "Rejected":
		return "REJECTED"
	default:
		return "STATUS_CHANGED"
	}
}
