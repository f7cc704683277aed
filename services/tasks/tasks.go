package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"agendly/models"
)

// Task type names routed by the asynq worker.
const (
	TypeBookingConfirmation = "booking:confirmation"
	TypeBookingCancellation = "booking:cancellation"
	TypeBookingReschedule   = "booking:reschedule"
	TypeBookingReminder     = "booking:reminder"
	TypeReviewRequest       = "booking:review_request"
)

// Queue names, highest priority first.
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

func NewBookingConfirmationTask(p models.BookingNoticePayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeBookingConfirmation, payload, asynq.Queue(QueueCritical)), nil
}

func NewBookingCancellationTask(p models.CancellationPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeBookingCancellation, payload, asynq.Queue(QueueCritical)), nil
}

func NewBookingRescheduleTask(p models.ReschedulePayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeBookingReschedule, payload, asynq.Queue(QueueDefault)), nil
}

func NewBookingReminderTask(p models.ReminderPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeBookingReminder, payload,
		asynq.Queue(QueueDefault), asynq.ProcessAt(p.FireAt)), nil
}

func NewReviewRequestTask(p models.BookingNoticePayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeReviewRequest, payload, asynq.Queue(QueueLow)), nil
}
