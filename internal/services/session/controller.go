package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mcoot/openplay-go/internal/dependencies/clock"
	"github.com/mcoot/openplay-go/internal/dependencies/random"
	"github.com/mcoot/openplay-go/internal/metrics"
	"github.com/mcoot/openplay-go/internal/model"
	"github.com/mcoot/openplay-go/internal/rotation"
	"github.com/mcoot/openplay-go/internal/storage"
)

const (
	// CodeLength is the length of generated session codes
	CodeLength = 6
	// CodeAlphabet is the characters used in session codes (avoid confusing chars)
	CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Notifier receives session events after they have been persisted
type Notifier interface {
	Publish(ctx context.Context, event model.Event)
}

// ConfigUpdate holds optional changes to a session's configuration
type ConfigUpdate struct {
	CourtCount *int
	MaxPlayers *int
	AutoFill   *bool
}

// Controller loads sessions, applies rotation operations, and saves them back.
// Mutations to one session are serialised.
type Controller struct {
	storage  storage.Storage
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger
	metrics  *metrics.Recorder
	notifier Notifier

	locksMu sync.Mutex
	locks   map[model.SessionCode]*sync.Mutex
}

// NewController creates a new session Controller. metrics and notifier may be nil.
func NewController(
	storage storage.Storage,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
	metrics *metrics.Recorder,
	notifier Notifier,
) *Controller {
	return &Controller{
		storage:  storage,
		clock:    clock,
		random:   random,
		logger:   logger.With(slog.String("component", "session-controller")),
		metrics:  metrics,
		notifier: notifier,
		locks:    make(map[model.SessionCode]*sync.Mutex),
	}
}

// CreateSession creates an empty session with a fresh code
func (c *Controller) CreateSession(ctx context.Context, config model.SessionConfig, organizerHash string) (*model.Session, error) {
	if err := config.Validate(); err != nil {
		c.metrics.RecordOperation("create_session", metrics.OutcomeRejected)
		return nil, err
	}

	// Generate unique session code
	var code model.SessionCode
	for {
		code = model.SessionCode(c.random.String(CodeLength, CodeAlphabet))
		exists, err := c.storage.SessionExists(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("check session code: %w", err)
		}
		if !exists {
			break
		}
	}

	session := model.NewSession(code, config, c.clock.Now())
	for i := range session.Courts {
		session.Courts[i] = model.Court{}
	}
	session.OrganizerHash = organizerHash

	if err := c.storage.SaveSession(ctx, session); err != nil {
		c.metrics.RecordOperation("create_session", metrics.OutcomeError)
		return nil, fmt.Errorf("save session: %w", err)
	}

	c.metrics.RecordOperation("create_session", metrics.OutcomeOK)
	c.metrics.SessionCreated()
	c.logger.Info("session created",
		slog.String("session_code", string(code)),
		slog.Int("court_count", config.CourtCount),
		slog.Int("max_players", config.MaxPlayers),
		slog.Bool("auto_fill", config.AutoFill),
		slog.Bool("protected", organizerHash != ""))
	c.publish(ctx, model.EventSessionUpdated, session.Code, session.Clone())
	return session, nil
}

// GetSession retrieves a session by code
func (c *Controller) GetSession(ctx context.Context, code model.SessionCode) (*model.Session, error) {
	return c.storage.GetSession(ctx, code)
}

// ListSessions returns the codes of every stored session
func (c *Controller) ListSessions(ctx context.Context) ([]model.SessionCode, error) {
	return c.storage.ListSessions(ctx)
}

// History returns up to limit of the latest match records, oldest first.
// A limit of zero or less returns the full history.
func (c *Controller) History(ctx context.Context, code model.SessionCode, limit int) ([]model.MatchRecord, error) {
	session, err := c.storage.GetSession(ctx, code)
	if err != nil {
		return nil, err
	}
	return rotation.NewHistory(&session.History).Recent(limit), nil
}

// DeleteSession removes a session
func (c *Controller) DeleteSession(ctx context.Context, code model.SessionCode) error {
	unlock := c.lock(code)
	defer unlock()

	exists, err := c.storage.SessionExists(ctx, code)
	if err != nil {
		return err
	}
	if !exists {
		c.metrics.RecordOperation("delete_session", metrics.OutcomeRejected)
		return model.ErrSessionNotFound
	}
	if err := c.storage.DeleteSession(ctx, code); err != nil {
		c.metrics.RecordOperation("delete_session", metrics.OutcomeError)
		return fmt.Errorf("delete session: %w", err)
	}

	c.metrics.RecordOperation("delete_session", metrics.OutcomeOK)
	c.metrics.SessionDeleted()
	c.logger.Info("session deleted", slog.String("session_code", string(code)))
	c.publish(ctx, model.EventSessionDeleted, code, nil)
	return nil
}

// UpdateConfig applies configuration changes. Changing the court count
// resizes the courts; the player cap cannot drop below the current roster.
func (c *Controller) UpdateConfig(ctx context.Context, code model.SessionCode, update ConfigUpdate) (*model.Session, error) {
	return c.mutate(ctx, code, "update_config", func(e *rotation.Engine) error {
		session := e.Session()
		config := session.Config
		if update.CourtCount != nil {
			config.CourtCount = *update.CourtCount
		}
		if update.MaxPlayers != nil {
			config.MaxPlayers = *update.MaxPlayers
		}
		if update.AutoFill != nil {
			config.AutoFill = *update.AutoFill
		}
		if err := config.Validate(); err != nil {
			return err
		}
		if config.MaxPlayers < len(session.Players) {
			return model.ErrInvalidConfig
		}

		if err := e.Resize(config.CourtCount); err != nil {
			return err
		}
		session.Config = config
		return nil
	})
}

// AddPlayers registers players and queues them. When the player cap cuts the
// list short the players already added are kept and ErrSessionFull is returned
// alongside the saved session.
func (c *Controller) AddPlayers(ctx context.Context, code model.SessionCode, names []string) (*model.Session, []model.PlayerID, error) {
	var added []model.PlayerID
	session, err := c.mutate(ctx, code, "add_players", func(e *rotation.Engine) error {
		var err error
		added, err = e.AddPlayers(names)
		return err
	})
	return session, added, err
}

// RemovePlayer removes a player from the session
func (c *Controller) RemovePlayer(ctx context.Context, code model.SessionCode, playerID model.PlayerID) (*model.Session, error) {
	return c.mutate(ctx, code, "remove_player", func(e *rotation.Engine) error {
		return e.RemovePlayer(playerID)
	})
}

// InitializeQueue clears the courts and shuffles every player into the queue
func (c *Controller) InitializeQueue(ctx context.Context, code model.SessionCode) (*model.Session, error) {
	return c.mutate(ctx, code, "initialize_queue", func(e *rotation.Engine) error {
		e.InitializeQueue()
		return nil
	})
}

// RefillCourt fills one court from the queue
func (c *Controller) RefillCourt(ctx context.Context, code model.SessionCode, courtIdx int) (*model.Session, error) {
	return c.mutate(ctx, code, "refill_court", func(e *rotation.Engine) error {
		return e.RefillCourt(courtIdx)
	})
}

// RefillAll fills every court from the queue
func (c *Controller) RefillAll(ctx context.Context, code model.SessionCode) (*model.Session, error) {
	return c.mutate(ctx, code, "refill_all", func(e *rotation.Engine) error {
		e.RefillAll()
		return nil
	})
}

// ResolveResult applies one court's result
func (c *Controller) ResolveResult(ctx context.Context, code model.SessionCode, courtIdx int, team model.Team) (*model.Session, *model.MatchRecord, error) {
	var record *model.MatchRecord
	session, err := c.mutate(ctx, code, "resolve_result", func(e *rotation.Engine) error {
		r, err := e.ResolveResult(courtIdx, team)
		if err != nil {
			return err
		}
		record = &r
		return nil
	})
	if err != nil {
		return session, nil, err
	}

	c.metrics.RecordMatches(1)
	c.publish(ctx, model.EventMatchRecorded, code, *record)
	return session, record, nil
}

// UpdateAllCourts resolves every selected court result in court order and
// then refills every court. Per-court rejections are reported in the
// outcomes and do not fail the call.
func (c *Controller) UpdateAllCourts(ctx context.Context, code model.SessionCode, pending map[int]model.Team) (*model.Session, []rotation.PendingOutcome, error) {
	var outcomes []rotation.PendingOutcome
	session, err := c.mutate(ctx, code, "update_all_courts", func(e *rotation.Engine) error {
		outcomes = e.ResolveAllPending(pending)
		e.RefillAll()
		return nil
	})
	if err != nil {
		return session, nil, err
	}

	recorded := 0
	for _, o := range outcomes {
		if o.Err != nil {
			c.logger.Warn("court result rejected",
				slog.String("session_code", string(code)),
				slog.Int("court", o.Court),
				slog.String("team", string(o.Team)),
				slog.Any("error", o.Err))
			continue
		}
		recorded++
		c.publish(ctx, model.EventMatchRecorded, code, *o.Record)
	}
	c.metrics.RecordMatches(recorded)
	return session, outcomes, nil
}

// ResetCourt sends a court's players back to the queue and refills the courts
func (c *Controller) ResetCourt(ctx context.Context, code model.SessionCode, courtIdx int) (*model.Session, error) {
	return c.mutate(ctx, code, "reset_court", func(e *rotation.Engine) error {
		if err := e.ResetCourt(courtIdx); err != nil {
			return err
		}
		e.RefillAll()
		return nil
	})
}

// ResetSession clears all players, courts and history but keeps the config
func (c *Controller) ResetSession(ctx context.Context, code model.SessionCode) (*model.Session, error) {
	return c.mutate(ctx, code, "reset_session", func(e *rotation.Engine) error {
		e.Reset()
		return nil
	})
}

// mutate runs fn against the stored session under the session's lock and
// saves the result. A rejected operation leaves the stored session as it was,
// except ErrSessionFull which reports a partially applied change.
func (c *Controller) mutate(ctx context.Context, code model.SessionCode, operation string, fn func(e *rotation.Engine) error) (*model.Session, error) {
	unlock := c.lock(code)
	defer unlock()

	logger := c.logger.With(
		slog.String("session_code", string(code)),
		slog.String("operation", operation))

	session, err := c.storage.GetSession(ctx, code)
	if err != nil {
		c.metrics.RecordOperation(operation, outcomeFor(err))
		return nil, err
	}

	engine := rotation.New(session, c.clock, c.random)
	opErr := fn(engine)
	if opErr != nil && !errors.Is(opErr, model.ErrSessionFull) {
		c.metrics.RecordOperation(operation, outcomeFor(opErr))
		logger.Info("session operation rejected", slog.Any("error", opErr))
		return nil, opErr
	}

	if session.Config.AutoFill {
		engine.RefillAll()
	}
	if err := engine.CheckInvariants(); err != nil {
		c.metrics.RecordOperation(operation, metrics.OutcomeError)
		logger.Error("session state inconsistent, not saving", slog.Any("error", err))
		return nil, err
	}

	session.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveSession(ctx, session); err != nil {
		c.metrics.RecordOperation(operation, metrics.OutcomeError)
		return nil, fmt.Errorf("save session: %w", err)
	}

	c.metrics.RecordOperation(operation, outcomeFor(opErr))
	c.metrics.ObserveQueueLength(len(session.Queue))
	logger.Info("session updated",
		slog.Int("players", len(session.Players)),
		slog.Int("queue_length", len(session.Queue)),
		slog.Int("matches", len(session.History)))
	if logger.Enabled(ctx, slog.LevelDebug) {
		for i, court := range session.Courts {
			logger.Debug("court state",
				slog.Int("court", i),
				slog.String("state", string(court.State())),
				slog.Any("players", court))
		}
	}

	c.publish(ctx, model.EventSessionUpdated, code, session.Clone())
	return session, opErr
}

// lock acquires the mutex for a session code and returns its release func
func (c *Controller) lock(code model.SessionCode) func() {
	c.locksMu.Lock()
	mu, ok := c.locks[code]
	if !ok {
		mu = &sync.Mutex{}
		c.locks[code] = mu
	}
	c.locksMu.Unlock()

	mu.Lock()
	return mu.Unlock
}

func (c *Controller) publish(ctx context.Context, eventType model.EventType, code model.SessionCode, payload any) {
	if c.notifier == nil {
		return
	}
	c.notifier.Publish(ctx, model.Event{
		Type:        eventType,
		Timestamp:   c.clock.Now(),
		SessionCode: code,
		Payload:     payload,
	})
}

// outcomeFor classifies an operation error for metrics
func outcomeFor(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, model.ErrSessionNotFound),
		errors.Is(err, model.ErrSessionFull),
		errors.Is(err, model.ErrInvalidConfig),
		errors.Is(err, model.ErrPlayerNotFound),
		errors.Is(err, model.ErrNoPlayers),
		errors.Is(err, model.ErrInvalidCourt),
		errors.Is(err, model.ErrCourtIncomplete),
		errors.Is(err, model.ErrInvalidTeam):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}
