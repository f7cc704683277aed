package tasks

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"agendly/models"
	"agendly/utils"
)

// reminderLead is how long before the booking start the reminder fires.
const reminderLead = 24 * time.Hour

// taskClient is the slice of asynq.Client the enqueuer uses.
type taskClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Enqueuer hands notification work off to the asynq queues. Enqueue
// failures are logged and swallowed: a booking must never fail because the
// notification queue is down.
type Enqueuer struct {
	client taskClient
}

// NewEnqueuer wraps an asynq client.
func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}

func (e *Enqueuer) enqueue(ctx context.Context, task *asynq.Task, err error, bookingID string) {
	logger := utils.GetLogger().With(
		zap.String("booking_id", bookingID))
	if err != nil {
		logger.Error("failed to build notification task", zap.Error(err))
		return
	}
	info, err := e.client.EnqueueContext(ctx, task)
	if err != nil {
		logger.Error("failed to enqueue notification task",
			zap.String("type", task.Type()), zap.Error(err))
		return
	}
	logger.Debug("notification task enqueued",
		zap.String("type", task.Type()), zap.String("task_id", info.ID))
}

// BookingCreated enqueues the confirmation notice and schedules the
// pre-appointment reminder.
func (e *Enqueuer) BookingCreated(ctx context.Context, p models.BookingNoticePayload) {
	task, err := NewBookingConfirmationTask(p)
	e.enqueue(ctx, task, err, p.BookingID)

	fireAt := p.Datetime.Add(-reminderLead)
	if fireAt.After(time.Now()) {
		reminder, err := NewBookingReminderTask(models.ReminderPayload{
			BookingNoticePayload: p,
			FireAt:               fireAt,
		})
		e.enqueue(ctx, reminder, err, p.BookingID)
	}
}

// BookingConfirmed enqueues the confirmation notice alone. The reminder
// was already scheduled when the booking was created.
func (e *Enqueuer) BookingConfirmed(ctx context.Context, p models.BookingNoticePayload) {
	task, err := NewBookingConfirmationTask(p)
	e.enqueue(ctx, task, err, p.BookingID)
}

// BookingCancelled enqueues the cancellation notice.
func (e *Enqueuer) BookingCancelled(ctx context.Context, p models.CancellationPayload) {
	task, err := NewBookingCancellationTask(p)
	e.enqueue(ctx, task, err, p.BookingID)
}

// BookingRescheduled enqueues the reschedule notice.
func (e *Enqueuer) BookingRescheduled(ctx context.Context, p models.ReschedulePayload) {
	task, err := NewBookingRescheduleTask(p)
	e.enqueue(ctx, task, err, p.BookingID)
}

// BookingCompleted enqueues the review request.
func (e *Enqueuer) BookingCompleted(ctx context.Context, p models.BookingNoticePayload) {
	task, err := NewReviewRequestTask(p)
	e.enqueue(ctx, task, err, p.BookingID)
}

// NoticePayload builds the shared notification payload from a booking.
func NoticePayload(b *models.Booking) models.BookingNoticePayload {
	return models.BookingNoticePayload{
		BookingID:    b.ID,
		ProviderID:   b.ProviderID,
		ServiceName:  b.ServiceName,
		MemberName:   b.MemberName,
		LocationName: b.LocationName,
		Datetime:     b.Datetime,
		EndDatetime:  b.EndDatetime,
		PriceMinor:   b.PriceMinor,
		ClientID:     b.ClientID,
		ClientInfo:   b.ClientInfo,
	}
}
