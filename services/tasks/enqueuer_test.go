package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"

	"agendly/models"
)

// fakeTaskClient records enqueued task types instead of talking to redis.
type fakeTaskClient struct {
	types []string
}

func (f *fakeTaskClient) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	f.types = append(f.types, task.Type())
	return &asynq.TaskInfo{ID: "t1"}, nil
}

func noticeAt(start time.Time) models.BookingNoticePayload {
	return models.BookingNoticePayload{
		BookingID:   "b1",
		ProviderID:  "p1",
		ServiceName: "Cut",
		Datetime:    start,
		EndDatetime: start.Add(time.Hour),
	}
}

func TestBookingCreatedSchedulesConfirmationAndReminder(t *testing.T) {
	client := &fakeTaskClient{}
	e := &Enqueuer{client: client}

	e.BookingCreated(context.Background(), noticeAt(time.Now().Add(72*time.Hour)))
	assert.Equal(t, []string{TypeBookingConfirmation, TypeBookingReminder}, client.types)
}

func TestBookingCreatedSkipsPastReminder(t *testing.T) {
	client := &fakeTaskClient{}
	e := &Enqueuer{client: client}

	// Under the reminder lead there is nothing left to schedule.
	e.BookingCreated(context.Background(), noticeAt(time.Now().Add(2*time.Hour)))
	assert.Equal(t, []string{TypeBookingConfirmation}, client.types)
}

func TestBookingConfirmedEnqueuesConfirmationOnly(t *testing.T) {
	client := &fakeTaskClient{}
	e := &Enqueuer{client: client}

	e.BookingConfirmed(context.Background(), noticeAt(time.Now().Add(72*time.Hour)))
	assert.Equal(t, []string{TypeBookingConfirmation}, client.types)
}
