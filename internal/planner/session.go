package planner

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"dayout/pkg/utils"
)

type State string

const (
	StateEditing    State = "editing"
	StateGenerating State = "generating"
	StateViewing    State = "viewing"
)

const (
	DefaultModel                 = "llama-3.3-70b-versatile"
	DefaultFullTemperature       = 0.7
	DefaultRegenerateTemperature = 0.8
	DefaultCallTimeout           = 45 * time.Second
)

type SessionOptions struct {
	Model                 string
	MaxTokens             int
	FullTemperature       float32
	RegenerateTemperature float32
	// CallTimeout bounds every chat call; zero means no bound beyond ctx.
	CallTimeout time.Duration
	// ClearUsedNamesOnBack makes Back forget the names shown so far.
	ClearUsedNamesOnBack bool
	// SupplementRounds is how many follow-up calls Generate may make when
	// fewer activities than hours were accepted.
	SupplementRounds int
}

func DefaultSessionOptions() SessionOptions {
	return SessionOptions{
		Model:                 DefaultModel,
		FullTemperature:       DefaultFullTemperature,
		RegenerateTemperature: DefaultRegenerateTemperature,
		CallTimeout:           DefaultCallTimeout,
	}
}

// Snapshot is a point-in-time copy of a session for rendering.
type Snapshot struct {
	ID            string      `json:"session_id"`
	State         State       `json:"state"`
	TripRequest   TripRequest `json:"trip_request"`
	Activities    []Activity  `json:"activities"`
	BusySlots     []int       `json:"busy_slots"`
	ActivityCount int         `json:"activity_count"`
	UsedNameCount int         `json:"used_name_count"`
}

// Session owns one user's trip request, itinerary and used-name set, and
// drives generation and per-slot regeneration through the chat client.
// Methods are safe for concurrent use; chat calls run outside the lock.
type Session struct {
	id   string
	chat utils.ChatClientInterface
	opts SessionOptions
	log  *zap.Logger

	mu         sync.Mutex
	state      State
	request    TripRequest
	activities []Activity
	used       *UsedNames
	busy       map[int]struct{}
	// epoch changes on Generate, Back and Reset; in-flight calls from an
	// older epoch are discarded.
	epoch uint64
}

func NewSession(id string, chat utils.ChatClientInterface, opts SessionOptions, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		id:      id,
		chat:    chat,
		opts:    opts,
		log:     log.With(zap.String("session_id", id)),
		state:   StateEditing,
		request: DefaultTripRequest(),
		used:    NewUsedNames(),
		busy:    make(map[int]struct{}),
	}
}

func (s *Session) ID() string { return s.id }

// Generate replaces the itinerary with a freshly generated one. On a chat
// failure the previous state is kept and an ErrLLMUnavailable error returned.
func (s *Session) Generate(ctx context.Context, req TripRequest) ([]Activity, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.state == StateGenerating || len(s.busy) > 0 {
		s.mu.Unlock()
		return nil, utils.ErrGenerationInFlight
	}
	prevState := s.state
	s.state = StateGenerating
	s.request = req
	s.epoch++
	epoch := s.epoch
	s.mu.Unlock()

	raw, err := s.complete(ctx, BuildPrompt(req, ModeFull, PromptContext{}), s.opts.FullTemperature)
	if err != nil {
		s.mu.Lock()
		if s.epoch == epoch {
			s.state = prevState
		}
		s.mu.Unlock()
		s.log.Warn("itinerary generation failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", utils.ErrLLMUnavailable, err)
	}

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return nil, utils.ErrStaleResult
	}
	pending := NewUsedNames()
	res := ParseDetailed(raw, unionSet{s.used, pending})
	s.mu.Unlock()
	s.logParse(ModeFull, res)

	accepted := res.Activities
	if !res.Failed {
		for _, a := range accepted {
			pending.Add(a.Name)
		}
		accepted = s.supplement(ctx, req, epoch, accepted, pending)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return nil, utils.ErrStaleResult
	}
	s.activities = accepted
	for _, a := range accepted {
		if !a.IsParseFailure() {
			s.used.Add(a.Name)
		}
	}
	s.state = StateViewing
	s.log.Info("itinerary generated",
		zap.Int("requested", req.DurationHours),
		zap.Int("accepted", len(accepted)),
		zap.Bool("parse_failed", res.Failed))
	return cloneActivities(accepted), nil
}

// supplement tops up a short itinerary with follow-up calls. Failures only
// stop the top-up; what was accepted so far is kept.
func (s *Session) supplement(ctx context.Context, req TripRequest, epoch uint64, accepted []Activity, pending *UsedNames) []Activity {
	for round := 0; round < s.opts.SupplementRounds && len(accepted) < req.DurationHours; round++ {
		s.mu.Lock()
		if s.epoch != epoch {
			s.mu.Unlock()
			return accepted
		}
		exclude := append(s.used.Names(), pending.Names()...)
		s.mu.Unlock()

		missing := req.DurationHours - len(accepted)
		prompt := BuildPrompt(req, ModeSupplement, PromptContext{ExcludeNames: exclude, Count: missing})
		raw, err := s.complete(ctx, prompt, s.opts.RegenerateTemperature)
		if err != nil {
			s.log.Warn("supplement request failed", zap.Int("round", round+1), zap.Error(err))
			return accepted
		}

		s.mu.Lock()
		res := ParseDetailed(raw, unionSet{s.used, pending})
		s.mu.Unlock()
		s.logParse(ModeSupplement, res)
		if res.Failed {
			continue
		}
		for _, a := range res.Activities {
			if len(accepted) == req.DurationHours {
				break
			}
			pending.Add(a.Name)
			accepted = append(accepted, a)
		}
	}
	return accepted
}

// Regenerate replaces the activity at index with a new one of the same
// category. On any failure the slot is left as it was and an error returned
// alongside the unchanged activity.
func (s *Session) Regenerate(ctx context.Context, index int) (Activity, error) {
	s.mu.Lock()
	switch s.state {
	case StateViewing:
	case StateGenerating:
		s.mu.Unlock()
		return Activity{}, utils.ErrGenerationInFlight
	default:
		s.mu.Unlock()
		return Activity{}, utils.ErrNoItinerary
	}
	if index < 0 || index >= len(s.activities) {
		s.mu.Unlock()
		return Activity{}, fmt.Errorf("%w: %d", utils.ErrIndexOutOfRange, index)
	}
	if _, busy := s.busy[index]; busy {
		s.mu.Unlock()
		return Activity{}, utils.ErrSlotBusy
	}
	s.busy[index] = struct{}{}
	current := s.activities[index]
	category := Classify(current)
	exclude := s.used.Except(current.Name)
	req := s.request
	epoch := s.epoch
	s.mu.Unlock()

	prompt := BuildPrompt(req, ModeRegenerate, PromptContext{Category: category, ExcludeNames: exclude})
	raw, err := s.complete(ctx, prompt, s.opts.RegenerateTemperature)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return current, utils.ErrStaleResult
	}
	delete(s.busy, index)

	if err != nil {
		s.log.Warn("activity regeneration failed", zap.Int("index", index), zap.Error(err))
		return current, fmt.Errorf("%w: %v", utils.ErrLLMUnavailable, err)
	}

	// Parsing against the live set here also rejects a name another slot
	// committed while this call was in flight.
	res := ParseDetailed(raw, s.used)
	s.logParse(ModeRegenerate, res)
	if res.Failed {
		return current, utils.ErrUnexpectedBehaviorOfAI
	}

	next := res.Activities[0]
	s.activities[index] = next
	s.used.Add(next.Name)
	s.log.Info("activity regenerated",
		zap.Int("index", index),
		zap.String("category", string(category)),
		zap.String("previous", current.Name),
		zap.String("name", next.Name))
	return next, nil
}

// Back returns to editing and drops the itinerary. The trip request is kept;
// used names are kept unless ClearUsedNamesOnBack is set.
func (s *Session) Back() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.state = StateEditing
	s.activities = nil
	s.busy = make(map[int]struct{})
	if s.opts.ClearUsedNamesOnBack {
		s.used.Clear()
	}
}

// Reset restores the default trip request and forgets everything else.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.state = StateEditing
	s.request = DefaultTripRequest()
	s.activities = nil
	s.busy = make(map[int]struct{})
	s.used.Clear()
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	busy := make([]int, 0, len(s.busy))
	for i := range s.busy {
		busy = append(busy, i)
	}
	sort.Ints(busy)

	return Snapshot{
		ID:            s.id,
		State:         s.state,
		TripRequest:   s.request,
		Activities:    cloneActivities(s.activities),
		BusySlots:     busy,
		ActivityCount: len(s.activities),
		UsedNameCount: s.used.Len(),
	}
}

// UsedNames returns the used names in the order they were first shown.
func (s *Session) UsedNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.used.Names()
}

func (s *Session) complete(ctx context.Context, prompt string, temperature float32) (string, error) {
	if s.opts.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.CallTimeout)
		defer cancel()
	}
	return s.chat.Complete(ctx, utils.ChatRequest{
		Model:       s.opts.Model,
		Prompt:      prompt,
		Temperature: temperature,
		MaxTokens:   s.opts.MaxTokens,
	})
}

func (s *Session) logParse(mode Mode, res ParseResult) {
	if len(res.Duplicates) > 0 {
		s.log.Debug("dropped duplicate activities", zap.Stringer("mode", mode), zap.Strings("names", res.Duplicates))
	}
	if res.Failed {
		s.log.Warn("model response yielded no activities",
			zap.Stringer("mode", mode),
			zap.Int("untitled_blocks", res.Untitled),
			zap.Error(res.Err))
	}
}

type unionSet []NameSet

func (u unionSet) Contains(name string) bool {
	for _, s := range u {
		if s.Contains(name) {
			return true
		}
	}
	return false
}

func cloneActivities(in []Activity) []Activity {
	if in == nil {
		return []Activity{}
	}
	out := make([]Activity, len(in))
	copy(out, in)
	return out
}
