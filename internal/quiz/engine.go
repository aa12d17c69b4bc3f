package quiz

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"vocab-exam/internal/vocab"
)

type State string

const (
	StateSetup         State = "setup"
	StateRunning       State = "running"
	StateConfirmSubmit State = "confirm_submit"
	StateResult        State = "result"
)

type SessionConfig struct {
	BookKey            vocab.BookKey `json:"bookKey"`
	ChapterID          string        `json:"chapterId"`
	SelectedTopics     []string      `json:"selectedTopics"`
	IncludeDerivatives bool          `json:"includeDerivatives"`
	ExamType           ExamType      `json:"examType"`
	QuestionCount      int           `json:"questionCount"`
	TimeLimitMinutes   float64       `json:"timeLimitMinutes"`
	ShuffleQuestions   bool          `json:"shuffleQuestions"`
}

func (c SessionConfig) clone() SessionConfig {
	c.SelectedTopics = append([]string{}, c.SelectedTopics...)
	return c
}

func (c SessionConfig) timeLimit() time.Duration {
	return time.Duration(c.TimeLimitMinutes * float64(time.Minute))
}

// normalizeConfig validates cfg and resolves it to the snapshot stored with
// the session: chapter only for books that have chapters, derivatives only
// for books that carry them, topics deduplicated and sorted.
func normalizeConfig(cfg SessionConfig) (SessionConfig, error) {
	book, err := vocab.ParseBookKey(string(cfg.BookKey))
	if err != nil {
		return cfg, err
	}
	if cfg.QuestionCount <= 0 {
		return cfg, ErrInvalidQuestionCount
	}
	if math.IsNaN(cfg.TimeLimitMinutes) || math.IsInf(cfg.TimeLimitMinutes, 0) || cfg.TimeLimitMinutes <= 0 {
		return cfg, ErrInvalidTimeLimit
	}

	cfg.BookKey = book
	cfg.ExamType = ParseExamType(string(cfg.ExamType))
	if book.HasChapters() {
		cfg.ChapterID = vocab.NormalizeText(cfg.ChapterID)
	} else {
		cfg.ChapterID = ""
	}
	if !book.SupportsDerivatives() {
		cfg.IncludeDerivatives = false
	}

	seen := make(map[string]struct{}, len(cfg.SelectedTopics))
	topics := make([]string, 0, len(cfg.SelectedTopics))
	for _, topic := range cfg.SelectedTopics {
		topic = vocab.NormalizeText(topic)
		if topic == "" {
			continue
		}
		if _, ok := seen[topic]; ok {
			continue
		}
		seen[topic] = struct{}{}
		topics = append(topics, topic)
	}
	cfg.SelectedTopics = vocab.SortTopics(topics)
	return cfg, nil
}

type session struct {
	id         string
	questions  []Question
	answers    []string
	index      int
	startedAt  time.Time
	timerEndAt time.Time
	config     SessionConfig
	submitting bool
}

// Snapshot is a read-only copy of the engine state for presentation.
type Snapshot struct {
	State      State
	SessionID  string
	Index      int
	Total      int
	Question   *Question
	Answer     string
	// SelectedIndex is the choice matching Answer, or -1.
	SelectedIndex int
	Answers       []string
	Unanswered    int
	StartedAt     time.Time
	TimerEndAt    time.Time
	Remaining     time.Duration
	Submitting    bool
	Result        *Result
	// HistoryErr is set when Result could not be saved to the history store.
	HistoryErr error
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithTickInterval sets how often the countdown checks the deadline. A
// non-positive interval disables the background countdown; Tick still works.
func WithTickInterval(interval time.Duration) Option {
	return func(e *Engine) { e.interval = interval }
}

func WithVerifier(v *Verifier) Option {
	return func(e *Engine) { e.verifier = v }
}

func WithHistory(h *History) Option {
	return func(e *Engine) { e.history = h }
}

type observer struct {
	id int
	fn func(Snapshot)
}

type Engine struct {
	pools    PoolSource
	history  *History
	verifier *Verifier
	now      func() time.Time
	interval time.Duration

	mu        sync.Mutex
	state     State
	setup     SessionConfig
	scopePool []vocab.WordEntry
	bookPool  []vocab.WordEntry
	session   *session
	result    *Result
	saveErr   error
	timer     *countdown

	observersMu  sync.Mutex
	observers    []observer
	nextObserver int
}

func NewEngine(pools PoolSource, opts ...Option) *Engine {
	e := &Engine{
		pools:    pools,
		now:      time.Now,
		interval: defaultTickInterval,
		state:    StateSetup,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.history == nil {
		e.history = NewHistory(nil)
	}
	if e.verifier == nil {
		e.verifier = NewVerifier(nil)
	}
	return e
}

// Start validates cfg, loads the pools and begins a session. On any error the
// engine stays in Setup.
func (e *Engine) Start(ctx context.Context, cfg SessionConfig) (Snapshot, error) {
	cfg, err := normalizeConfig(cfg)
	if err != nil {
		return e.Snapshot(), err
	}
	if e.currentState() != StateSetup {
		return e.Snapshot(), ErrInvalidTransition
	}

	scope, err := e.pools.ScopePool(ctx, vocab.Scope{
		BookKey:            cfg.BookKey,
		ChapterID:          cfg.ChapterID,
		Topics:             cfg.SelectedTopics,
		IncludeDerivatives: cfg.IncludeDerivatives,
	})
	if err != nil {
		return e.Snapshot(), err
	}
	if len(scope) == 0 {
		return e.Snapshot(), ErrEmptyScope
	}
	book, err := e.pools.AllPool(ctx, cfg.BookKey, cfg.IncludeDerivatives)
	if err != nil {
		return e.Snapshot(), err
	}
	cfg.QuestionCount = min(cfg.QuestionCount, len(scope))

	e.mu.Lock()
	if e.state != StateSetup {
		snap := e.snapshotLocked()
		e.mu.Unlock()
		return snap, ErrInvalidTransition
	}
	e.setup = cfg
	e.scopePool = scope
	e.bookPool = book
	err = e.beginLocked(scope, cfg.QuestionCount)
	snap := e.snapshotLocked()
	e.mu.Unlock()
	if err != nil {
		return snap, err
	}

	e.notify(snap)
	return snap, nil
}

func (e *Engine) beginLocked(pool []vocab.WordEntry, count int) error {
	questions, err := BuildQuestionSet(QuestionSetParams{
		ScopePool:     pool,
		BookPool:      e.bookPool,
		ExamType:      e.setup.ExamType,
		QuestionCount: count,
		Shuffle:       e.setup.ShuffleQuestions,
	})
	if err != nil {
		return err
	}

	e.timer.Stop()
	startedAt := e.now()
	cfg := e.setup.clone()
	cfg.QuestionCount = len(questions)

	sess := &session{
		id:         uuid.NewString(),
		questions:  questions,
		answers:    make([]string, len(questions)),
		startedAt:  startedAt,
		timerEndAt: startedAt.Add(cfg.timeLimit()),
		config:     cfg,
	}
	e.session = sess
	e.result = nil
	e.saveErr = nil
	e.state = StateRunning
	e.timer = nil
	if e.interval > 0 {
		e.timer = startCountdown(e.interval, func() {
			_, _ = e.expire(context.Background(), sess, e.now())
		})
	}
	return nil
}

// SelectChoice answers the current question with one of its choices.
func (e *Engine) SelectChoice(index int) (Snapshot, error) {
	return e.update(StateRunning, func(sess *session) error {
		question := sess.questions[sess.index]
		if index < 0 || index >= len(question.Choices) {
			return fmt.Errorf("%w: %d", ErrInvalidChoice, index)
		}
		sess.answers[sess.index] = vocab.NormalizeText(question.Choices[index].Text)
		return nil
	})
}

// SelectAnswer stores free text as the current answer.
func (e *Engine) SelectAnswer(text string) (Snapshot, error) {
	return e.update(StateRunning, func(sess *session) error {
		sess.answers[sess.index] = vocab.NormalizeText(text)
		return nil
	})
}

// Next moves to the following question, or to the submit confirmation from
// the last one.
func (e *Engine) Next() (Snapshot, error) {
	return e.update(StateRunning, func(sess *session) error {
		if sess.index < len(sess.questions)-1 {
			sess.index++
			return nil
		}
		e.state = StateConfirmSubmit
		return nil
	})
}

func (e *Engine) Cancel() (Snapshot, error) {
	return e.update(StateConfirmSubmit, func(*session) error {
		e.state = StateRunning
		return nil
	})
}

func (e *Engine) JumpToFirstUnanswered() (Snapshot, error) {
	return e.update(StateConfirmSubmit, func(sess *session) error {
		sess.index = 0
		for idx, answer := range sess.answers {
			if vocab.NormalizeText(answer) == "" {
				sess.index = idx
				break
			}
		}
		e.state = StateRunning
		return nil
	})
}

func (e *Engine) update(want State, fn func(sess *session) error) (Snapshot, error) {
	e.mu.Lock()
	sess := e.session
	if sess == nil || e.state != want {
		snap := e.snapshotLocked()
		e.mu.Unlock()
		return snap, ErrInvalidTransition
	}
	if sess.submitting {
		snap := e.snapshotLocked()
		e.mu.Unlock()
		return snap, ErrSubmitting
	}
	if err := fn(sess); err != nil {
		snap := e.snapshotLocked()
		e.mu.Unlock()
		return snap, err
	}
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.notify(snap)
	return snap, nil
}

// Submit scores the session from the confirmation view.
func (e *Engine) Submit(ctx context.Context) (Result, error) {
	return e.submit(ctx, nil, false, e.now())
}

// Tick auto-submits the current session once now reaches its deadline. It
// reports whether this call submitted.
func (e *Engine) Tick(ctx context.Context, now time.Time) (bool, error) {
	e.mu.Lock()
	sess := e.session
	e.mu.Unlock()
	return e.expire(ctx, sess, now)
}

func (e *Engine) expire(ctx context.Context, sess *session, now time.Time) (bool, error) {
	e.mu.Lock()
	if sess == nil || e.session != sess || sess.submitting {
		e.mu.Unlock()
		return false, nil
	}
	if e.state != StateRunning && e.state != StateConfirmSubmit {
		e.mu.Unlock()
		return false, nil
	}
	if now.Before(sess.timerEndAt) {
		snap := e.snapshotLocked()
		e.mu.Unlock()
		e.notify(snap)
		return false, nil
	}
	e.mu.Unlock()

	_, err := e.submit(ctx, sess, true, now)
	switch {
	case errors.Is(err, ErrSubmitting), errors.Is(err, ErrInvalidTransition):
		return false, nil
	default:
		return true, err
	}
}

// submit claims the session under the lock, scores it outside the lock and
// then publishes the result in one transition.
func (e *Engine) submit(ctx context.Context, expect *session, auto bool, finishedAt time.Time) (Result, error) {
	e.mu.Lock()
	sess := e.session
	switch {
	case sess == nil || (expect != nil && sess != expect):
		e.mu.Unlock()
		return Result{}, ErrInvalidTransition
	case auto && e.state != StateRunning && e.state != StateConfirmSubmit:
		e.mu.Unlock()
		return Result{}, ErrInvalidTransition
	case !auto && e.state != StateConfirmSubmit:
		e.mu.Unlock()
		return Result{}, ErrInvalidTransition
	case sess.submitting:
		e.mu.Unlock()
		return Result{}, ErrSubmitting
	}
	sess.submitting = true
	e.timer.Stop()
	e.timer = nil
	answers := append([]string(nil), sess.answers...)
	e.mu.Unlock()

	result := e.buildResult(sess, answers, finishedAt, auto)

	e.mu.Lock()
	if e.session != sess {
		e.mu.Unlock()
		return Result{}, ErrInvalidTransition
	}
	e.result = &result
	e.state = StateResult
	snap := e.snapshotLocked()
	e.mu.Unlock()

	err := e.history.Push(ctx, result.historyEntry(uuid.NewString()))
	if err != nil {
		err = fmt.Errorf("save history: %w", err)
		e.mu.Lock()
		if e.session == sess {
			e.saveErr = err
		}
		e.mu.Unlock()
		snap.HistoryErr = err
	}
	e.notify(snap)
	return result.clone(), err
}

// buildResult only reads fields of sess that never change after creation.
func (e *Engine) buildResult(sess *session, answers []string, finishedAt time.Time, auto bool) Result {
	items, correct := gradeSession(sess.questions, answers)
	total := len(sess.questions)
	spent := max(0, finishedAt.Sub(sess.startedAt))

	result := Result{
		SessionID:     sess.id,
		StartedAt:     sess.startedAt,
		FinishedAt:    finishedAt,
		Config:        sess.config.clone(),
		Correct:       correct,
		Total:         total,
		Accuracy:      accuracy(correct, total),
		TimeSpent:     spent,
		AutoSubmitted: auto,
		WrongCardIDs:  wrongCardIDs(items),
		Items:         items,
	}

	normalized := make([]string, len(answers))
	for idx, answer := range answers {
		normalized[idx] = vocab.NormalizeText(answer)
	}
	questions := make([]PayloadQuestion, 0, len(items))
	for _, item := range items {
		questions = append(questions, PayloadQuestion{
			CardID:    item.CardID,
			Direction: item.Direction,
			Prompt:    item.Prompt,
		})
	}
	result.Payload = VerificationPayload{
		FinishedAt: formatISO(finishedAt),
		Config:     sess.config.clone(),
		Questions:  questions,
		Answers:    normalized,
		Score: PayloadScore{
			Correct:     correct,
			Total:       total,
			Accuracy:    result.Accuracy,
			TimeSpentMs: spent.Milliseconds(),
		},
	}
	result.VerificationCode = e.verifier.Code(result.Payload)
	return result
}

// RetrySameScope starts a new session over the previous scope and settings.
func (e *Engine) RetrySameScope() (Snapshot, error) {
	e.mu.Lock()
	if e.state != StateResult {
		snap := e.snapshotLocked()
		e.mu.Unlock()
		return snap, ErrInvalidTransition
	}
	err := e.beginLocked(e.scopePool, e.setup.QuestionCount)
	snap := e.snapshotLocked()
	e.mu.Unlock()
	if err != nil {
		return snap, err
	}

	e.notify(snap)
	return snap, nil
}

// RetryWrongOnly starts a new session over the words missed in the last result.
func (e *Engine) RetryWrongOnly() (Snapshot, error) {
	e.mu.Lock()
	if e.state != StateResult || e.result == nil {
		snap := e.snapshotLocked()
		e.mu.Unlock()
		return snap, ErrInvalidTransition
	}

	wrong := make(map[string]struct{}, len(e.result.WrongCardIDs))
	for _, id := range e.result.WrongCardIDs {
		wrong[id] = struct{}{}
	}
	pool := make([]vocab.WordEntry, 0, len(wrong))
	for _, entry := range e.scopePool {
		if _, ok := wrong[entry.CardID]; ok {
			pool = append(pool, entry)
		}
	}
	if len(pool) == 0 {
		snap := e.snapshotLocked()
		e.mu.Unlock()
		return snap, ErrNothingToRetry
	}

	err := e.beginLocked(pool, min(e.setup.QuestionCount, len(pool)))
	snap := e.snapshotLocked()
	e.mu.Unlock()
	if err != nil {
		return snap, err
	}

	e.notify(snap)
	return snap, nil
}

// ReturnToSetup discards the session and result.
func (e *Engine) ReturnToSetup() Snapshot {
	e.mu.Lock()
	e.timer.Stop()
	e.timer = nil
	e.session = nil
	e.result = nil
	e.saveErr = nil
	e.scopePool = nil
	e.bookPool = nil
	e.state = StateSetup
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.notify(snap)
	return snap
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) History() []HistoryEntry {
	return e.history.Entries()
}

func (e *Engine) currentState() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) snapshotLocked() Snapshot {
	snap := Snapshot{State: e.state, SelectedIndex: -1}
	if e.result != nil {
		result := e.result.clone()
		snap.Result = &result
		snap.HistoryErr = e.saveErr
	}

	sess := e.session
	if sess == nil {
		return snap
	}
	snap.SessionID = sess.id
	snap.Index = sess.index
	snap.Total = len(sess.questions)
	snap.Answers = append([]string(nil), sess.answers...)
	snap.StartedAt = sess.startedAt
	snap.TimerEndAt = sess.timerEndAt
	snap.Submitting = sess.submitting
	if e.state != StateResult {
		snap.Remaining = max(0, sess.timerEndAt.Sub(e.now()))
	}
	for _, answer := range sess.answers {
		if answer == "" {
			snap.Unanswered++
		}
	}

	question := sess.questions[sess.index]
	question.Choices = append([]Choice(nil), question.Choices...)
	snap.Question = &question
	snap.Answer = sess.answers[sess.index]
	for _, choice := range question.Choices {
		if snap.Answer != "" && choice.Text == snap.Answer {
			snap.SelectedIndex = choice.Index
			break
		}
	}
	return snap
}

// OnChange registers fn to receive a snapshot after every transition and
// countdown tick. fn runs outside the engine lock. The returned func
// unregisters it.
func (e *Engine) OnChange(fn func(Snapshot)) func() {
	e.observersMu.Lock()
	defer e.observersMu.Unlock()
	e.nextObserver++
	id := e.nextObserver
	e.observers = append(e.observers, observer{id: id, fn: fn})

	return func() {
		e.observersMu.Lock()
		defer e.observersMu.Unlock()
		for idx, item := range e.observers {
			if item.id == id {
				e.observers = append(e.observers[:idx], e.observers[idx+1:]...)
				return
			}
		}
	}
}

func (e *Engine) notify(snap Snapshot) {
	e.observersMu.Lock()
	fns := make([]func(Snapshot), 0, len(e.observers))
	for _, item := range e.observers {
		fns = append(fns, item.fn)
	}
	e.observersMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
