package ticket

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/helpdesk/internal/order"
)

// ResponseTokens caps the size of a single model response.
const ResponseTokens = 1024

// node is an enumerated state of the triage graph.
type node string

const (
	nodeIngest     node = "ingest"
	nodeClassify   node = "classify"
	nodeFetchOrder node = "fetch_order"
	nodeDraft      node = "draft"
	nodeDone       node = "done"
)

// runState is the working memory of one triage run. It is owned exclusively
// by the engine for the duration of the run and discarded afterwards; nodes
// never share it across runs.
type runState struct {
	turns          []Turn
	ticketText     string
	query          string
	orderID        *string
	issueType      IssueType
	evidence       *string
	recommendation *string
	reply          *string
	callTool       bool
	toolResult     *order.Snapshot
}

func newRunState(t *Ticket) *runState {
	s := &runState{ticketText: t.Text, query: t.Query}
	if t.OrderID != "" {
		id := t.OrderID
		s.orderID = &id
	}
	return s
}

// EngineHooks receives engine events for instrumentation. Any field may be
// nil.
type EngineHooks struct {
	OnLLMCall      func(stage string, inputTokens, outputTokens int, duration float64)
	OnParseFailure func(stage string)
	OnLookup       func(found bool, duration float64)
	OnComplete     func(e *CompleteEvent)
}

// CompleteEvent summarizes a finished triage run.
type CompleteEvent struct {
	IssueType  IssueType
	ToolCalled bool
	Duration   float64
	TokensIn   int
	TokensOut  int
}

// Engine executes the triage state machine:
//
//	ingest -> classify -> (fetch_order | ε) -> draft -> done
//
// Each node runs at most once per run, strictly sequentially, with no
// retries. The engine is safe for concurrent use; every run owns an
// independent state.
type Engine struct {
	provider Provider
	orders   order.Store
	logger   log.Logger
	hooks    EngineHooks
}

// NewEngine creates a triage engine with the given dependencies.
func NewEngine(provider Provider, orders order.Store, logger log.Logger, hooks EngineHooks) *Engine {
	if logger == nil {
		logger = log.Nop()
	}
	return &Engine{
		provider: provider,
		orders:   orders,
		logger:   logger,
		hooks:    hooks,
	}
}

// Run triages one ticket and returns the five-field result. Malformed model
// output, unknown classifications, and missing orders all degrade to
// defaults; the only errors returned are provider transport failures and
// context cancellation.
func (e *Engine) Run(ctx context.Context, t *Ticket) (*Result, error) {
	start := time.Now()
	s := newRunState(t)

	var tokensIn, tokensOut int
	account := func(u Usage) {
		tokensIn += u.InputTokens
		tokensOut += u.OutputTokens
	}

	current := nodeIngest
	for current != nodeDone {
		switch current {
		case nodeIngest:
			e.ingest(s)
			current = nodeClassify

		case nodeClassify:
			usage, err := e.classify(ctx, s)
			if err != nil {
				return nil, fmt.Errorf("classify: %w", err)
			}
			account(usage)
			current = routeAfterClassify(s)

		case nodeFetchOrder:
			e.fetchOrder(ctx, s)
			current = nodeDraft

		case nodeDraft:
			usage, err := e.draft(ctx, s)
			if err != nil {
				return nil, fmt.Errorf("draft: %w", err)
			}
			account(usage)
			current = nodeDone
		}
	}

	if e.hooks.OnComplete != nil {
		e.hooks.OnComplete(&CompleteEvent{
			IssueType:  s.issueType,
			ToolCalled: s.toolResult != nil,
			Duration:   time.Since(start).Seconds(),
			TokensIn:   tokensIn,
			TokensOut:  tokensOut,
		})
	}

	e.logger.Info(ctx, "triage run complete",
		"issue_type", s.issueType,
		"tool_called", s.toolResult != nil,
		"duration", time.Since(start).Seconds(),
		"tokens_in", tokensIn,
		"tokens_out", tokensOut,
	)

	return &Result{
		Reply:          s.reply,
		IssueType:      s.issueType,
		OrderID:        s.orderID,
		Evidence:       s.evidence,
		Recommendation: s.recommendation,
	}, nil
}

// ingest seeds the transcript from the ticket input.
func (e *Engine) ingest(s *runState) {
	s.turns = append(s.turns, Turn{Role: RoleUser, Text: s.ticketText})
	if s.query != "" {
		s.turns = append(s.turns, Turn{Role: RoleUser, Text: "Customer query: " + s.query})
	}
	if s.orderID != nil {
		s.turns = append(s.turns, Turn{Role: RoleUser, Text: "Provided order_id: " + *s.orderID})
	}
}

// routeAfterClassify is the only branch point in the graph. Retrieval is
// skipped when the classifier judged no order data is needed, or when there
// is no id to look up.
func routeAfterClassify(s *runState) node {
	if s.callTool && s.orderID != nil && *s.orderID != "" {
		return nodeFetchOrder
	}
	return nodeDraft
}

// fetchOrder attaches the order snapshot to state for the drafter. A missing
// order is a normal outcome; a store failure is logged and shaped the same
// way so drafting always continues.
func (e *Engine) fetchOrder(ctx context.Context, s *runState) {
	start := time.Now()
	snap, err := order.Lookup(ctx, e.orders, *s.orderID)
	if err != nil {
		e.logger.Error(ctx, err, "order lookup failed", "order_id", *s.orderID)
		snap = &order.Snapshot{Found: false, Error: fmt.Sprintf("Order %s not found", *s.orderID)}
	}

	if e.hooks.OnLookup != nil {
		e.hooks.OnLookup(snap.Found, time.Since(start).Seconds())
	}
	e.logger.Info(ctx, "order lookup", "order_id", *s.orderID, "found", snap.Found)

	s.toolResult = snap
}

// complete invokes the provider for one stage and reports usage to hooks.
func (e *Engine) complete(ctx context.Context, stage, system string, turns []Turn) (*Completion, error) {
	start := time.Now()
	resp, err := e.provider.Complete(ctx, &CompletionRequest{
		MaxTokens: ResponseTokens,
		System:    system,
		Turns:     turns,
	})
	if err != nil {
		return nil, err
	}

	if e.hooks.OnLLMCall != nil {
		e.hooks.OnLLMCall(stage, resp.Usage.InputTokens, resp.Usage.OutputTokens, time.Since(start).Seconds())
	}
	e.logger.Info(ctx, "llm response",
		"stage", stage,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
	)
	return resp, nil
}

// parseStage parses one stage's model output, recording parse failures. The
// returned map is always usable.
func (e *Engine) parseStage(ctx context.Context, stage, raw string) map[string]any {
	parsed, ok := parseObject(raw)
	if !ok {
		if e.hooks.OnParseFailure != nil {
			e.hooks.OnParseFailure(stage)
		}
		e.logger.Warn(ctx, "unparseable model output, using defaults", "stage", stage)
	}
	return parsed
}

func marshalSnapshot(snap *order.Snapshot) string {
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Sprintf("Order %s not found", snap.ID)
	}
	return string(b)
}
