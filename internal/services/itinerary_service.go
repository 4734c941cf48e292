package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dayout/internal/models/request_models"
	"dayout/internal/models/response_models"
	"dayout/internal/planner"
	mem "dayout/pkg/memcache"
	"dayout/pkg/utils"
)

type ItineraryServiceInterface interface {
	CreateSession(ctx context.Context) (*response_models.SessionCreatedResponse, error)
	GetSession(session *planner.Session) planner.Snapshot
	GenerateItinerary(ctx context.Context, session *planner.Session, body request_models.TripRequestBody) (planner.Snapshot, error)
	RegenerateActivity(ctx context.Context, session *planner.Session, index int) (*response_models.RegeneratedActivityResponse, error)
	Back(session *planner.Session) planner.Snapshot
	Reset(session *planner.Session) planner.Snapshot
}

type ItineraryService struct {
	store    mem.SessionStore
	chat     utils.ChatClientInterface
	opts     planner.SessionOptions
	secret   []byte
	tokenTTL time.Duration
	log      *zap.Logger
}

func NewItineraryService(
	store mem.SessionStore,
	chat utils.ChatClientInterface,
	opts planner.SessionOptions,
	secret []byte,
	tokenTTL time.Duration,
	log *zap.Logger,
) ItineraryServiceInterface {
	return &ItineraryService{
		store:    store,
		chat:     chat,
		opts:     opts,
		secret:   secret,
		tokenTTL: tokenTTL,
		log:      log,
	}
}

func (s *ItineraryService) CreateSession(ctx context.Context) (*response_models.SessionCreatedResponse, error) {
	id := uuid.NewString()
	token, err := utils.CreateSessionToken(s.secret, id, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	s.store.Put(planner.NewSession(id, s.chat, s.opts, s.log))
	s.log.Info("session created", zap.String("session_id", id))

	return &response_models.SessionCreatedResponse{
		SessionID: id,
		Token:     token,
		ExpiresIn: int64(s.tokenTTL.Seconds()),
	}, nil
}

func (s *ItineraryService) GetSession(session *planner.Session) planner.Snapshot {
	return session.Snapshot()
}

func (s *ItineraryService) GenerateItinerary(ctx context.Context, session *planner.Session, body request_models.TripRequestBody) (planner.Snapshot, error) {
	req := body.Apply(session.Snapshot().TripRequest)
	if _, err := session.Generate(ctx, req); err != nil {
		return planner.Snapshot{}, err
	}
	return session.Snapshot(), nil
}

func (s *ItineraryService) RegenerateActivity(ctx context.Context, session *planner.Session, index int) (*response_models.RegeneratedActivityResponse, error) {
	activity, err := session.Regenerate(ctx, index)
	if err != nil {
		return nil, err
	}
	return &response_models.RegeneratedActivityResponse{
		Index:    index,
		Category: string(planner.Classify(activity)),
		Activity: activity,
	}, nil
}

func (s *ItineraryService) Back(session *planner.Session) planner.Snapshot {
	session.Back()
	return session.Snapshot()
}

func (s *ItineraryService) Reset(session *planner.Session) planner.Snapshot {
	session.Reset()
	return session.Snapshot()
}
