package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/nvoss/slack-archive-backend/internal/domain"
	"github.com/nvoss/slack-archive-backend/internal/queue"
	"github.com/nvoss/slack-archive-backend/internal/repo"
	"github.com/nvoss/slack-archive-backend/internal/slack"
)

// maxDrainBatch bounds one drain run so a hot queue cannot starve the
// scheduler tick that invoked it.
const maxDrainBatch = 500

// DrainService processes queued webhook tasks one at a time: pop, enrich,
// insert a single row. A task is removed from the queue before it is
// processed, so a failed task is lost to the push path; the next poll pass
// picks it up instead.
type DrainService struct {
	DB    *gorm.DB
	Slack *slack.Client
	Lock  *repo.RowLock
	Queue *queue.TaskQueue
}

// ProcessTasks drains the queue until it is empty or the batch bound is hit.
// Per-task failures are logged and do not stop the run; only context
// cancellation aborts early. Returns the number of rows written.
func (s *DrainService) ProcessTasks(ctx context.Context) (int, error) {
	tr := otel.Tracer("services/DrainService")
	ctx, span := tr.Start(ctx, "ProcessTasks")
	defer span.End()

	inserted := 0
	for i := 0; i < maxDrainBatch; i++ {
		if err := ctx.Err(); err != nil {
			return inserted, err
		}

		task, err := s.Queue.Pop(ctx)
		if err != nil {
			span.SetAttributes(attribute.Int("inserted", inserted))
			return inserted, err
		}
		if task == nil {
			break
		}

		switch err := s.processTask(ctx, task); {
		case err == nil:
			inserted++
			tasksDrained.WithLabelValues("ok").Inc()
		case errors.Is(err, repo.ErrAlreadyRecorded):
			tasksDrained.WithLabelValues("duplicate").Inc()
		default:
			tasksDrained.WithLabelValues("error").Inc()
			log.Error().Err(err).Str("kind", string(task.Kind)).
				Msg("dropping failed webhook task")
		}
	}

	span.SetAttributes(attribute.Int("inserted", inserted))
	return inserted, nil
}

func (s *DrainService) processTask(ctx context.Context, task *domain.Task) error {
	switch task.Kind {
	case domain.TaskMessage:
		if task.Message == nil {
			return ErrEmptyTask
		}
		rec, err := enrichMessage(ctx, s.Slack, *task.Message)
		if err != nil {
			return err
		}
		if err := repo.InsertMessageRecord(ctx, s.DB, s.Lock, rec); err != nil {
			return err
		}
		recordsInserted.WithLabelValues("messages", "drain").Inc()
		return nil
	case domain.TaskMember:
		if task.Member == nil {
			return ErrEmptyTask
		}
		if err := repo.InsertMemberRecord(ctx, s.DB, s.Lock, enrichMember(*task.Member)); err != nil {
			return err
		}
		recordsInserted.WithLabelValues("members", "drain").Inc()
		return nil
	default:
		return ErrUnknownTask
	}
}
