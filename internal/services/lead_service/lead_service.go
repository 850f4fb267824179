package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"devmart/internal/clientstate"
	"devmart/internal/domain/models"
	"devmart/internal/lib/logger/sl"
	"devmart/internal/lib/validate"
	"devmart/internal/metrics"
	"devmart/internal/notify/events"
	"devmart/internal/repository"

	"github.com/go-playground/validator/v10"
)

const notifyTimeout = 30 * time.Second

type LeadNotifier interface {
	NotifyLead(ctx context.Context, lead models.Lead) error
}

type LeadService struct {
	log      *slog.Logger
	repo     repository.LeadRepository
	validate *validator.Validate
	cooldown *Cooldown
	notifier LeadNotifier
	events   events.Publisher

	wg sync.WaitGroup
}

// NewLeadService builds the service. notifier may be nil when no email
// endpoint is configured.
func NewLeadService(
	log *slog.Logger,
	repo repository.LeadRepository,
	v *validator.Validate,
	cooldown *Cooldown,
	notifier LeadNotifier,
	publisher events.Publisher,
) *LeadService {
	if publisher == nil {
		publisher = events.Noop{}
	}

	return &LeadService{
		log:      log,
		repo:     repo,
		validate: v,
		cooldown: cooldown,
		notifier: notifier,
		events:   publisher,
	}
}

// Submit creates a lead on behalf of an anonymous visitor. Validation and
// the cooldown are checked before the store is contacted. Notifications are
// sent in the background and never fail the submission.
func (s *LeadService) Submit(ctx context.Context, client clientstate.Store, in models.LeadInput) (*models.Lead, error) {
	const op = "lead_service.Submit"

	log := s.log.With(slog.String("op", op))

	if err := validate.Struct(s.validate, in); err != nil {
		metrics.LeadsTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cooldown.Check(client); err != nil {
		var limited *RateLimitedError
		if errors.As(err, &limited) {
			metrics.LeadsTotal.WithLabelValues("rate_limited").Inc()
			log.Info("submission rate limited", slog.Duration("remaining", limited.Remaining))
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lead, err := s.repo.Create(ctx, in)
	if err != nil {
		metrics.LeadsTotal.WithLabelValues("failed").Inc()
		log.Error("failed to create lead", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.LeadsTotal.WithLabelValues("created").Inc()
	log.Info("lead created", slog.String("lead_id", lead.ID))

	if err := s.cooldown.Mark(client); err != nil {
		log.Warn("failed to record submission time", sl.Err(err))
	}

	s.notify(*lead)

	return lead, nil
}

func (s *LeadService) notify(lead models.Lead) {
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		log := s.log.With(slog.String("op", "lead_service.notify"), slog.String("lead_id", lead.ID))

		if s.notifier != nil {
			if err := s.notifier.NotifyLead(ctx, lead); err != nil {
				metrics.NotificationsTotal.WithLabelValues("email", "error").Inc()
				log.Error("failed to send lead email", sl.Err(err))
			} else {
				metrics.NotificationsTotal.WithLabelValues("email", "ok").Inc()
			}
		}

		subject := ""
		if lead.Subject != nil {
			subject = *lead.Subject
		}

		err := s.events.PublishLeadCreated(ctx, events.LeadCreated{
			ID:        lead.ID,
			Name:      lead.Name,
			Email:     lead.Email,
			Subject:   subject,
			Source:    lead.Source,
			CreatedAt: lead.CreatedAt,
		})
		if err != nil {
			metrics.NotificationsTotal.WithLabelValues("event", "error").Inc()
			log.Error("failed to publish lead event", sl.Err(err))
			return
		}
		metrics.NotificationsTotal.WithLabelValues("event", "ok").Inc()
	}()
}

// Wait blocks until background notifications have finished.
func (s *LeadService) Wait() {
	s.wg.Wait()
}

func (s *LeadService) List(ctx context.Context, f models.LeadFilter) ([]models.Lead, int, error) {
	const op = "lead_service.List"

	leads, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return leads, total, nil
}

func (s *LeadService) Get(ctx context.Context, id string) (*models.Lead, error) {
	const op = "lead_service.Get"

	lead, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return lead, nil
}

func (s *LeadService) UpdateStatus(ctx context.Context, id string, in models.LeadStatusInput) (*models.Lead, error) {
	const op = "lead_service.UpdateStatus"

	if err := validate.Struct(s.validate, in); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lead, err := s.repo.UpdateStatus(ctx, id, in.Status)
	if err != nil {
		s.log.Error("failed to update lead status", slog.String("op", op), slog.String("lead_id", id), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("lead status updated", slog.String("op", op), slog.String("lead_id", id), slog.String("status", string(in.Status)))

	return lead, nil
}

func (s *LeadService) Delete(ctx context.Context, id string) error {
	const op = "lead_service.Delete"

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
