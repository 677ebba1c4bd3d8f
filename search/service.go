package search

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/osintforge/intelx-mcp/intelx"
	"github.com/osintforge/intelx-mcp/metrics"
	"github.com/osintforge/intelx-mcp/poll"
	"github.com/osintforge/intelx-mcp/pseudonym"
)

// defaultMaxResults bounds a search whose caller did not ask for a count.
const defaultMaxResults = 100

// Options configures a Service.
type Options struct {
	// Client is the upstream API client. Required.
	Client *intelx.Client
	// IDs is the shared pseudonymization registry. Required.
	IDs *pseudonym.Registry
	// Logger defaults to zap.NewNop().
	Logger *zap.Logger
	// Metrics records session outcomes. Optional.
	Metrics *metrics.Metrics
	// PollInterval overrides the engine's round cadence (tests).
	PollInterval time.Duration
}

// Service exposes one entry point per search family plus the single-shot
// file, selector and capability operations. All returned trees are
// pseudonymized; raw upstream identifiers never leave this layer.
type Service struct {
	client       *intelx.Client
	ids          *pseudonym.Registry
	logger       *zap.Logger
	metrics      *metrics.Metrics
	pollInterval time.Duration

	capabilities singleflight.Group
}

// New creates a Service.
func New(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client:       opts.Client,
		ids:          opts.IDs,
		logger:       logger,
		metrics:      opts.Metrics,
		pollInterval: opts.PollInterval,
	}
}

// SearchQuery is a validated intelligent search request.
type SearchQuery struct {
	Term       string
	Buckets    []string
	MaxResults int
	// Timeout is the upstream request timeout in seconds, passed through
	// opaquely.
	Timeout  int
	DateFrom string
	DateTo   string
	Sort     int
	Media    int
}

// Search runs a full-text search session and returns the pseudonymized
// normalized records.
func (s *Service) Search(ctx context.Context, q SearchQuery) ([]map[string]any, error) {
	budget := q.MaxResults
	if budget <= 0 {
		budget = defaultMaxResults
	}
	logger := s.sessionLogger("search")

	res, err := poll.Run(ctx, poll.Bindings{
		Submit: func(ctx context.Context) (intelx.Handle, error) {
			return s.client.SubmitSearch(ctx, intelx.SearchRequest{
				Term:       q.Term,
				Buckets:    q.Buckets,
				MaxResults: budget,
				Timeout:    q.Timeout,
				DateFrom:   q.DateFrom,
				DateTo:     q.DateTo,
				Sort:       q.Sort,
				Media:      q.Media,
				Terminate:  []string{},
			})
		},
		Poll:      s.client.PollSearch,
		Terminate: s.client.TerminateSearch,
		Normalize: normalizeSearchRecords,
		Interval:  s.pollInterval,
		Logger:    logger,
	}, budget)
	if err != nil {
		s.metrics.ObserveSession("search", "error", 0, 0)
		return nil, err
	}

	s.metrics.ObserveSession("search", res.Cause.String(), len(res.Accumulated), res.RoundCount)
	return s.pseudonymizeRecords(res.Accumulated), nil
}

// PhonebookQuery is a validated phonebook (selector) search request.
type PhonebookQuery struct {
	Term       string
	Buckets    []string
	MaxResults int
	// Target filters the selector category: 0 all, 1 domains, 2 emails,
	// 3 urls.
	Target int
}

// Phonebook runs a phonebook session. Selector listings are kept one entry
// per poll round rather than flattened, so round boundaries stay visible
// to the caller.
func (s *Service) Phonebook(ctx context.Context, q PhonebookQuery) ([]map[string]any, error) {
	budget := q.MaxResults
	if budget <= 0 {
		budget = defaultMaxResults
	}
	logger := s.sessionLogger("phonebook")

	offset := 0
	res, err := poll.Run(ctx, poll.Bindings{
		Submit: func(ctx context.Context) (intelx.Handle, error) {
			return s.client.SubmitPhonebook(ctx, intelx.PhonebookRequest{
				SearchRequest: intelx.SearchRequest{
					Term:       q.Term,
					Buckets:    q.Buckets,
					MaxResults: budget,
					Terminate:  []string{},
				},
				Target: q.Target,
			})
		},
		Poll: func(ctx context.Context, h intelx.Handle, wanted int) (intelx.Outcome, error) {
			out, err := s.client.PollPhonebook(ctx, h, wanted, offset)
			if err == nil {
				offset += len(out.Records)
			}
			return out, err
		},
		Terminate:  s.client.TerminateSearch,
		KeepRounds: true,
		Interval:   s.pollInterval,
		Logger:     logger,
	}, budget)
	if err != nil {
		s.metrics.ObserveSession("phonebook", "error", 0, 0)
		return nil, err
	}

	listings := make([]map[string]any, 0, len(res.Rounds))
	for _, round := range res.Rounds {
		if len(round.Records) == 0 {
			continue
		}
		listings = append(listings, map[string]any{
			"selectors": anySlice(projectAll(round.Records, phonebookRecordFields)),
		})
	}

	s.metrics.ObserveSession("phonebook", res.Cause.String(), len(res.Accumulated), res.RoundCount)
	return s.pseudonymizeRecords(listings), nil
}

// IdentityQuery is a validated identity (breach) search request.
type IdentityQuery struct {
	Term       string
	Buckets    []string
	MaxResults int
	DateFrom   string
	DateTo     string
}

// Identity runs an identity session and returns records merged by storage
// identifier, pseudonymized.
func (s *Service) Identity(ctx context.Context, q IdentityQuery) ([]map[string]any, error) {
	budget := q.MaxResults
	if budget <= 0 {
		budget = defaultMaxResults
	}
	logger := s.sessionLogger("identity")

	res, err := poll.Run(ctx, poll.Bindings{
		Submit: func(ctx context.Context) (intelx.Handle, error) {
			return s.client.SubmitIdentity(ctx, intelx.IdentityRequest{
				Term:       q.Term,
				MaxResults: budget,
				Buckets:    q.Buckets,
				DateFrom:   q.DateFrom,
				DateTo:     q.DateTo,
				Terminate:  []string{},
			})
		},
		Poll:      s.client.PollIdentity,
		Terminate: s.client.TerminateIdentity,
		Normalize: normalizeIdentityRecords,
		Interval:  s.pollInterval,
		Logger:    logger,
	}, budget)
	if err != nil {
		s.metrics.ObserveSession("identity", "error", 0, 0)
		return nil, err
	}

	merged := mergeIdentityRecords(res.Accumulated)
	s.metrics.ObserveSession("identity", res.Cause.String(), len(merged), res.RoundCount)
	return s.pseudonymizeRecords(merged), nil
}

// ExportQuery is a validated account credential export request.
type ExportQuery struct {
	Selector string
	Bucket   string
	Limit    int
	DateFrom string
	DateTo   string
}

// ExportAccounts runs an account export session. Every poll round's raw
// outcome is retained, one entry per round, so per-round metadata survives.
func (s *Service) ExportAccounts(ctx context.Context, q ExportQuery) ([]map[string]any, error) {
	budget := q.Limit
	if budget <= 0 {
		budget = defaultMaxResults
	}
	logger := s.sessionLogger("export")

	res, err := poll.Run(ctx, poll.Bindings{
		Submit: func(ctx context.Context) (intelx.Handle, error) {
			return s.client.SubmitAccountExport(ctx, intelx.ExportRequest{
				Selector:  q.Selector,
				Bucket:    q.Bucket,
				Limit:     budget,
				DateFrom:  q.DateFrom,
				DateTo:    q.DateTo,
				Terminate: []string{},
			})
		},
		Poll:       s.client.PollIdentity,
		Terminate:  s.client.TerminateIdentity,
		KeepRounds: true,
		Interval:   s.pollInterval,
		Logger:     logger,
	}, budget)
	if err != nil {
		s.metrics.ObserveSession("export", "error", 0, 0)
		return nil, err
	}

	rounds := make([]map[string]any, 0, len(res.Rounds))
	for _, round := range res.Rounds {
		if len(round.Records) == 0 {
			continue
		}
		rounds = append(rounds, map[string]any{
			"state":   round.State.String(),
			"records": anySlice(round.Records),
		})
	}

	s.metrics.ObserveSession("export", res.Cause.String(), len(res.Accumulated), res.RoundCount)
	return s.pseudonymizeRecords(rounds), nil
}

func (s *Service) sessionLogger(family string) *zap.Logger {
	return s.logger.With(
		zap.String("session", uuid.NewString()),
		zap.String("family", family),
	)
}

// pseudonymizeRecords rewrites identifier fields across a record list.
func (s *Service) pseudonymizeRecords(records []map[string]any) []map[string]any {
	out := make([]map[string]any, len(records))
	for i, rec := range records {
		out[i] = s.ids.Normalize(rec).(map[string]any)
	}
	return out
}

// anySlice widens a record slice for the generic tree walk.
func anySlice(records []map[string]any) []any {
	out := make([]any, len(records))
	for i, r := range records {
		out[i] = r
	}
	return out
}

// resolve recovers the raw identifier behind a pseudonymized integer.
func (s *Service) resolve(field pseudonym.Field, n int) (string, error) {
	raw, ok := s.ids.Resolve(field, n)
	if !ok {
		return "", &UnknownIdentifierError{Field: field, Value: n}
	}
	return raw, nil
}
