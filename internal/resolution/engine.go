package resolution

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"beacon/internal/logging"
	"beacon/internal/match"
	"beacon/internal/merge"
	"beacon/internal/record"
	"beacon/internal/roster"
	"beacon/internal/services"
)

// CandidateLookup supplies the candidate pool for scoring. Implementations
// may return zero or many candidates; the engine only ranks what it is given.
type CandidateLookup interface {
	LookupCandidates(ctx context.Context, rec record.Record) ([]match.Candidate, error)
}

// IndividualReader refreshes a candidate's current record, used to detect
// staleness immediately before a merge commits.
type IndividualReader interface {
	GetIndividual(ctx context.Context, id string) (*roster.Individual, error)
}

// Persister owns the two terminal writes. Both must be atomic from the
// engine's point of view: fully applied or not applied at all.
type Persister interface {
	PersistMerge(ctx context.Context, id string, merged record.Record, danger []string) (*roster.Individual, error)
	PersistCreate(ctx context.Context, rec record.Record, danger []string) (*roster.Individual, error)
}

// PhotoUploader pushes a captured photo to storage. Upload failure is never
// fatal to a save.
type PhotoUploader interface {
	UploadPhoto(ctx context.Context, photoPath, individualID string) (string, error)
}

// UploadPolicy bounds photo upload retries.
type UploadPolicy struct {
	MaxAttempts int
	BackoffBase time.Duration
}

// DefaultUploadPolicy caps uploads at three attempts with increasing backoff.
func DefaultUploadPolicy() UploadPolicy {
	return UploadPolicy{MaxAttempts: 3, BackoffBase: 500 * time.Millisecond}
}

func (p UploadPolicy) normalized() UploadPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 3
	}
	if p.BackoffBase <= 0 {
		p.BackoffBase = 500 * time.Millisecond
	}
	return p
}

// Options carries the optional pieces of an engine.
type Options struct {
	Policy   match.Policy
	Uploads  UploadPolicy
	Uploader PhotoUploader
	Logger   *slog.Logger
}

// Engine drives one resolution pass at a time. It holds no mutable state;
// passes carry their own.
type Engine struct {
	lookup    CandidateLookup
	reader    IndividualReader
	persister Persister
	uploader  PhotoUploader
	policy    match.Policy
	uploads   UploadPolicy
	logger    *slog.Logger
}

// New builds an engine around its collaborators.
func New(lookup CandidateLookup, reader IndividualReader, persister Persister, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Engine{
		lookup:    lookup,
		reader:    reader,
		persister: persister,
		uploader:  opts.Uploader,
		policy:    opts.Policy,
		uploads:   opts.Uploads.normalized(),
		logger:    logging.NewComponentLogger(logger, "resolution"),
	}
}

// Action is the terminal disposition of a pass.
type Action string

const (
	ActionMerged  Action = "merged"
	ActionCreated Action = "created"
)

// Outcome reports a committed pass: what happened, to whom, and any
// degradations that occurred along the way.
type Outcome struct {
	Action     Action
	Individual *roster.Individual
	Confidence float64
	Tier       match.Tier
	PhotoURL   string
	Warnings   []services.UserFacing
}

// Pass is one in-flight resolution. It is created by Begin and consumed by
// exactly one of ConfirmMerge, CreateNew, or Cancel.
type Pass struct {
	ID       string
	Record   record.Record
	Danger   []string
	Matches  []match.PotentialMatch
	Decision match.Decision
	Merge    *merge.Decision
	Warnings []services.UserFacing

	candidate *roster.Individual
	done      bool
}

// Candidate returns the snapshot of the top candidate taken at scoring time,
// or nil for a no-match pass.
func (p *Pass) Candidate() *roster.Individual {
	return p.candidate
}

// Begin normalizes the observation, validates required fields, scores the
// candidate pool, and classifies the tier. A failed candidate lookup degrades
// to an empty pool rather than blocking the save; the degradation is recorded
// on the pass. A top candidate that cannot be loaded is treated as stale and
// the pass falls through to no-match.
func (e *Engine) Begin(ctx context.Context, raw record.RawObservation, danger []string) (*Pass, error) {
	rec := record.Normalize(raw)
	if ok, missing := rec.HasRequiredFields(); !ok {
		return nil, services.Wrap(services.ErrValidation, "resolution", "begin",
			fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")), nil)
	}

	pass := &Pass{ID: uuid.NewString(), Record: rec, Danger: danger}
	ctx = services.WithResolutionID(ctx, pass.ID)
	ctx = services.WithStage(ctx, "begin")
	logger := logging.WithContext(ctx, e.logger)

	candidates, err := e.lookup.LookupCandidates(ctx, rec)
	if err != nil {
		wrapped := services.Wrap(services.ErrLookup, "resolution", "lookup candidates",
			"candidate search failed", err)
		pass.Warnings = append(pass.Warnings, services.Describe(wrapped))
		logger.Warn("candidate lookup failed, continuing with empty pool", logging.Error(err))
		candidates = nil
	}

	pass.Matches = match.Score(rec, candidates, e.policy)
	pass.Decision = match.Classify(pass.Matches, e.policy)

	if pass.Decision.Tier != match.TierNoMatch {
		existing, err := e.reader.GetIndividual(ctx, pass.Decision.CandidateID)
		switch {
		case errors.Is(err, roster.ErrNotFound):
			wrapped := services.Wrap(services.ErrStaleCandidate, "resolution", "fetch candidate",
				"top candidate vanished before reconciliation", err)
			pass.Warnings = append(pass.Warnings, services.Describe(wrapped))
			logger.Warn("top candidate vanished, falling through to no match",
				logging.String(logging.FieldIndividualID, pass.Decision.CandidateID))
			pass.Decision = match.Decision{Tier: match.TierNoMatch}
		case err != nil:
			return nil, services.Wrap(services.ErrLookup, "resolution", "fetch candidate",
				"could not load top candidate", err)
		default:
			pass.candidate = existing
			pass.Merge = merge.NewDecision(rec, existing.Fields)
		}
	}

	logger.Info("resolution pass classified",
		logging.String(logging.FieldTier, string(pass.Decision.Tier)),
		logging.Float64(logging.FieldConfidence, pass.Decision.Confidence))
	return pass, nil
}

// ConfirmMerge commits the reconciled field map onto the candidate. The
// candidate is re-fetched immediately before the write; if it vanished or
// changed since scoring, the merge falls back to creating a new individual
// and the staleness is reported on the outcome. A failed persist leaves the
// pass open so the caller can retry without re-entering the observation.
func (e *Engine) ConfirmMerge(ctx context.Context, pass *Pass) (*Outcome, error) {
	if pass == nil || pass.Merge == nil || pass.candidate == nil {
		return nil, errors.New("resolution: confirm merge without a reconciliation")
	}
	if pass.done {
		return nil, errors.New("resolution: pass already completed")
	}
	ctx = services.WithResolutionID(ctx, pass.ID)
	ctx = services.WithStage(ctx, "confirm")

	current, err := e.reader.GetIndividual(ctx, pass.candidate.ID)
	if err != nil && !errors.Is(err, roster.ErrNotFound) {
		return nil, services.Wrap(services.ErrLookup, "resolution", "confirm merge",
			"could not refresh candidate", err)
	}
	if err != nil || current.Fields != pass.candidate.Fields {
		wrapped := services.Wrap(services.ErrStaleCandidate, "resolution", "confirm merge",
			"candidate changed between scoring and merge", err)
		pass.Warnings = append(pass.Warnings, services.Describe(wrapped))
		logging.WithContext(ctx, e.logger).Warn(
			"candidate went stale at merge time, creating new individual",
			logging.String(logging.FieldIndividualID, pass.candidate.ID),
			logging.Error(err))
		return e.commitCreate(ctx, pass)
	}

	merged := pass.Merge.Collapse()
	attachContext(&merged, pass.Record)
	ctx = services.WithIndividualID(ctx, current.ID)

	ind, err := e.persister.PersistMerge(ctx, current.ID, merged, pass.Danger)
	if err != nil {
		return nil, services.Wrap(services.ErrPersistence, "resolution", "persist merge",
			"merge write failed", err)
	}
	pass.done = true

	outcome := &Outcome{
		Action:     ActionMerged,
		Individual: ind,
		Confidence: pass.Decision.Confidence,
		Tier:       pass.Decision.Tier,
		Warnings:   pass.Warnings,
	}
	e.uploadPhoto(ctx, pass, outcome)
	logging.WithContext(ctx, e.logger).Info("merge committed")
	return outcome, nil
}

// CreateNew ignores any candidate and starts a brand-new individual from the
// pass's record. A failed persist leaves the pass open for retry.
func (e *Engine) CreateNew(ctx context.Context, pass *Pass) (*Outcome, error) {
	if pass == nil {
		return nil, errors.New("resolution: create without a pass")
	}
	if pass.done {
		return nil, errors.New("resolution: pass already completed")
	}
	ctx = services.WithResolutionID(ctx, pass.ID)
	ctx = services.WithStage(ctx, "create")
	return e.commitCreate(ctx, pass)
}

// Cancel discards the pending resolution. No collaborator is invoked and
// nothing is written; the pass simply cannot be committed afterwards.
func (e *Engine) Cancel(pass *Pass) {
	if pass == nil {
		return
	}
	pass.done = true
	e.logger.Info("resolution pass cancelled",
		logging.String(logging.FieldResolutionID, pass.ID))
}

func (e *Engine) commitCreate(ctx context.Context, pass *Pass) (*Outcome, error) {
	ind, err := e.persister.PersistCreate(ctx, pass.Record, pass.Danger)
	if err != nil {
		return nil, services.Wrap(services.ErrPersistence, "resolution", "persist create",
			"create write failed", err)
	}
	pass.done = true

	outcome := &Outcome{
		Action:     ActionCreated,
		Individual: ind,
		Confidence: pass.Decision.Confidence,
		Tier:       pass.Decision.Tier,
		Warnings:   pass.Warnings,
	}
	e.uploadPhoto(ctx, pass, outcome)
	logging.WithContext(ctx, e.logger).Info("new individual created",
		logging.String(logging.FieldIndividualID, ind.ID))
	return outcome, nil
}

// uploadPhoto pushes the captured photo with bounded retries. Exhausting the
// attempt cap degrades to saving without a photo; the failure is reported on
// the outcome, never as an error.
func (e *Engine) uploadPhoto(ctx context.Context, pass *Pass, outcome *Outcome) {
	if e.uploader == nil || pass.Record.PhotoPath == "" || outcome.Individual == nil {
		return
	}

	delay := e.uploads.BackoffBase
	var lastErr error
	for attempt := 1; attempt <= e.uploads.MaxAttempts; attempt++ {
		url, err := e.uploader.UploadPhoto(ctx, pass.Record.PhotoPath, outcome.Individual.ID)
		if err == nil {
			outcome.PhotoURL = url
			return
		}
		lastErr = err
		e.logger.Warn("photo upload attempt failed",
			logging.String(logging.FieldResolutionID, pass.ID),
			logging.Int("attempt", attempt),
			logging.Error(err))
		if attempt == e.uploads.MaxAttempts {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			lastErr = ctx.Err()
			attempt = e.uploads.MaxAttempts
		}
		delay *= 2
	}

	wrapped := services.Wrap(services.ErrUpload, "resolution", "upload photo",
		"photo upload failed after retries", lastErr)
	outcome.Warnings = append(outcome.Warnings, services.Describe(wrapped))
}

// attachContext carries the encounter context from the observation onto the
// merged identity fields so persistence records it on the new interaction.
func attachContext(merged *record.Record, observed record.Record) {
	merged.Location = observed.Location
	merged.Transcription = observed.Transcription
	merged.PhotoPath = observed.PhotoPath
	merged.WorkerID = observed.WorkerID
	merged.CapturedAt = observed.CapturedAt
}
