package ticket

import (
	"context"
	"errors"
	"strings"

	"github.com/linnemanlabs/go-core/log"
	"github.com/oklog/ulid/v2"
)

// ErrEmptyTicket is returned when a ticket has no text. The transport layer
// maps it to a 400; the engine precondition of non-empty ticket text holds
// for any caller that goes through the Service.
var ErrEmptyTicket = errors.New("ticket_text is required")

// Notifier receives completed triage results, e.g. for posting to a support
// channel.
type Notifier interface {
	Send(ctx context.Context, runID string, res *Result) error
}

// Service is the business boundary for triage operations: input validation,
// run identity, and result notification around the engine.
type Service struct {
	engine   *Engine
	logger   log.Logger
	metrics  *Metrics
	notifier Notifier
}

// NewService creates a new triage service. metrics and notifier may be nil.
func NewService(engine *Engine, logger log.Logger, metrics *Metrics, notifier Notifier) *Service {
	if logger == nil {
		logger = log.Nop()
	}
	return &Service{
		engine:   engine,
		logger:   logger,
		metrics:  metrics,
		notifier: notifier,
	}
}

// Triage runs one synchronous triage for the given ticket.
func (s *Service) Triage(ctx context.Context, t *Ticket) (*Result, error) {
	if strings.TrimSpace(t.Text) == "" {
		s.countRequest("rejected")
		return nil, ErrEmptyTicket
	}

	runID := ulid.Make().String()
	L := s.logger.With("run_id", runID)
	L.Info(ctx, "triage run started",
		"order_id_hint", t.OrderID,
		"has_query", t.Query != "",
	)

	res, err := s.engine.Run(log.WithContext(ctx, L), t)
	if err != nil {
		s.countRequest("failed")
		L.Error(ctx, err, "triage run failed")
		return nil, err
	}
	s.countRequest("completed")

	if s.notifier != nil {
		// Notification is best-effort and must not hold up or cancel with
		// the request.
		go func(res Result) {
			nctx := context.WithoutCancel(ctx)
			if err := s.notifier.Send(nctx, runID, &res); err != nil {
				L.Warn(nctx, "triage notification failed", "error", err)
			}
		}(*res)
	}

	return res, nil
}

func (s *Service) countRequest(outcome string) {
	if s.metrics != nil {
		s.metrics.RequestsTotal.WithLabelValues(outcome).Inc()
	}
}
