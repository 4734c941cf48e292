package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"googlemaps.github.io/maps"

	"dayout/internal/api"
	"dayout/internal/api/controllers"
	"dayout/internal/planner"
	"dayout/internal/repositories"
	"dayout/internal/services"
	mem "dayout/pkg/memcache"
	"dayout/pkg/middleware"
	"dayout/pkg/utils"
)

type queuedChat struct {
	mu      sync.Mutex
	replies []string
}

func (q *queuedChat) Complete(context.Context, utils.ChatRequest) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.replies) == 0 {
		return "", errors.New("upstream timeout")
	}
	next := q.replies[0]
	q.replies = q.replies[1:]
	return next, nil
}

func activities(names ...string) string {
	var b strings.Builder
	for i, name := range names {
		fmt.Fprintf(&b, "%d. **Activity Title:** %s\n**Description:** Spend an hour at %s.\n**Duration:** 1 hour\n**Highlight:** Great views\n\n", i+1, name, name)
	}
	return b.String()
}

type envelope struct {
	Status  string          `json:"status"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	TraceID string          `json:"trace_id"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func newTestServer(t *testing.T, chat utils.ChatClientInterface, burst int) *testServer {
	t.Helper()
	return newTestServerWithPlaces(t, chat, nil, burst)
}

// newTestServerWithPlaces wires finder as the Places backend; nil disables lookups.
func newTestServerWithPlaces(t *testing.T, chat utils.ChatClientInterface, finder services.PlaceFinder, burst int) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zap.NewNop()
	secret := []byte("router-secret")
	store := mem.NewSessions(time.Minute)

	itinerary := services.NewItineraryService(store, chat, planner.DefaultSessionOptions(), secret, time.Minute, log)
	places := services.NewPlaceService(finder, repositories.NewMemoryPlaceCache(time.Minute), time.Minute, log)

	router := api.NewRouter(api.RouterConfig{
		CORSOrigins:   []string{"http://localhost:5173"},
		SessionSecret: secret,
		TokenTTL:      time.Minute,
		Sessions:      store,
		Limiter:       middleware.NewRateLimiter(0.01, burst),
		Log:           log,
	}, controllers.NewItineraryController(itinerary, log), controllers.NewPlacesController(places, log))

	return &testServer{t: t, router: router}
}

func (s *testServer) serve(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) do(method, path string, body any) (int, envelope) {
	s.t.Helper()
	rec := s.serve(method, path, body)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec.Code, env
}

func (s *testServer) startSession() {
	s.t.Helper()
	code, env := s.do(http.MethodPost, "/sessions", nil)
	require.Equal(s.t, http.StatusCreated, code)
	var created struct {
		SessionID string `json:"session_id"`
		Token     string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &created))
	require.NotEmpty(s.t, created.Token)
	s.token = created.Token
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t, &queuedChat{}, 5)

	code, env := s.do(http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "success", env.Status)
	require.NotEmpty(t, env.TraceID)
}

func TestRouter_SessionRequiresToken(t *testing.T) {
	s := newTestServer(t, &queuedChat{}, 5)

	code, env := s.do(http.MethodGet, "/sessions/current", nil)
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, "error", env.Status)

	s.token = "not-a-jwt"
	code, _ = s.do(http.MethodPost, "/sessions/current/back", nil)
	require.Equal(t, http.StatusUnauthorized, code)
}

func TestRouter_ItineraryFlow(t *testing.T) {
	chat := &queuedChat{replies: []string{
		activities("Zilker Park", "Blanton Museum of Art", "Franklin Barbecue"),
		activities("Umlauf Sculpture Garden"),
	}}
	s := newTestServer(t, chat, 10)
	s.startSession()

	code, env := s.do(http.MethodGet, "/sessions/current", nil)
	require.Equal(t, http.StatusOK, code)
	snap := decode[planner.Snapshot](t, env.Data)
	require.Equal(t, planner.StateEditing, snap.State)
	require.Equal(t, 4, snap.TripRequest.DurationHours)

	code, env = s.do(http.MethodPost, "/sessions/current/itinerary", map[string]any{
		"location":       "Austin, TX",
		"duration_hours": 3,
		"time_of_day":    "afternoon",
	})
	require.Equal(t, http.StatusOK, code, env.Message)
	snap = decode[planner.Snapshot](t, env.Data)
	require.Equal(t, planner.StateViewing, snap.State)
	require.Len(t, snap.Activities, 3)
	assert.Equal(t, "Zilker Park", snap.Activities[0].Name)
	assert.Equal(t, "1 hour", snap.Activities[0].DurationLabel)

	code, env = s.do(http.MethodPost, "/sessions/current/activities/0/regenerate", nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	regen := decode[struct {
		Index    int              `json:"index"`
		Category string           `json:"category"`
		Activity planner.Activity `json:"activity"`
	}](t, env.Data)
	assert.Equal(t, "Umlauf Sculpture Garden", regen.Activity.Name)
	assert.Equal(t, "outdoor", regen.Category)

	// Script exhausted: the chat call fails and the slot keeps its activity.
	code, _ = s.do(http.MethodPost, "/sessions/current/activities/1/regenerate", nil)
	require.Equal(t, http.StatusBadGateway, code)
	_, env = s.do(http.MethodGet, "/sessions/current", nil)
	snap = decode[planner.Snapshot](t, env.Data)
	assert.Equal(t, "Blanton Museum of Art", snap.Activities[1].Name)
	assert.Empty(t, snap.BusySlots)

	code, _ = s.do(http.MethodPost, "/sessions/current/activities/7/regenerate", nil)
	require.Equal(t, http.StatusNotFound, code)
	code, _ = s.do(http.MethodPost, "/sessions/current/activities/first/regenerate", nil)
	require.Equal(t, http.StatusUnprocessableEntity, code)

	code, env = s.do(http.MethodPost, "/sessions/current/back", nil)
	require.Equal(t, http.StatusOK, code)
	snap = decode[planner.Snapshot](t, env.Data)
	assert.Equal(t, planner.StateEditing, snap.State)
	assert.Equal(t, "Austin, TX", snap.TripRequest.Location)

	code, _ = s.do(http.MethodPost, "/sessions/current/activities/0/regenerate", nil)
	require.Equal(t, http.StatusConflict, code)

	code, env = s.do(http.MethodPost, "/sessions/current/reset", nil)
	require.Equal(t, http.StatusOK, code)
	snap = decode[planner.Snapshot](t, env.Data)
	assert.Equal(t, planner.DefaultTripRequest(), snap.TripRequest)
}

func TestRouter_GenerateValidation(t *testing.T) {
	s := newTestServer(t, &queuedChat{}, 10)
	s.startSession()

	code, env := s.do(http.MethodPost, "/sessions/current/itinerary", map[string]any{"age_min": 40, "age_max": 20})
	require.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, env.Message, "age")

	code, _ = s.do(http.MethodPost, "/sessions/current/itinerary", map[string]any{"duration_hours": "four"})
	require.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(http.MethodPost, "/sessions/current/itinerary", map[string]any{})
	require.Equal(t, http.StatusBadGateway, code)
}

func TestRouter_GenerateIsRateLimited(t *testing.T) {
	s := newTestServer(t, &queuedChat{}, 1)
	s.startSession()

	code, _ := s.do(http.MethodPost, "/sessions/current/itinerary", map[string]any{})
	require.Equal(t, http.StatusBadGateway, code)
	code, _ = s.do(http.MethodPost, "/sessions/current/itinerary", map[string]any{})
	require.Equal(t, http.StatusTooManyRequests, code)

	// Non-LLM endpoints are not limited.
	code, _ = s.do(http.MethodGet, "/sessions/current", nil)
	require.Equal(t, http.StatusOK, code)
}

func TestRouter_PlacesDisabled(t *testing.T) {
	s := newTestServer(t, &queuedChat{}, 5)

	code, _ := s.do(http.MethodGet, "/places?name=Zilker%20Park&location=Austin", nil)
	require.Equal(t, http.StatusServiceUnavailable, code)

	code, _ = s.do(http.MethodGet, "/places", nil)
	require.Equal(t, http.StatusBadRequest, code)
}

func TestRouter_SessionTokenIsRefreshed(t *testing.T) {
	s := newTestServer(t, &queuedChat{}, 5)
	s.startSession()

	rec := s.serve(http.MethodGet, "/sessions/current", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	refreshed := rec.Header().Get(middleware.SessionTokenHeader)
	require.NotEmpty(t, refreshed)

	s.token = refreshed
	code, _ := s.do(http.MethodPost, "/sessions/current/back", nil)
	require.Equal(t, http.StatusOK, code)
}

func TestRouter_HandlersWithoutSessionMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()
	itinerary := services.NewItineraryService(mem.NewSessions(time.Minute), &queuedChat{}, planner.DefaultSessionOptions(), []byte("k"), time.Minute, log)
	ctrl := controllers.NewItineraryController(itinerary, log)

	r := gin.New()
	r.GET("/current", ctrl.GetSessionHandler)
	r.POST("/back", ctrl.BackHandler)

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/current", nil),
		httptest.NewRequest(http.MethodPost, "/back", nil),
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNotFound, rec.Code)
	}
}

type stubFinder struct {
	mu     sync.Mutex
	photos int
}

func (f *stubFinder) FindPlaceFromText(context.Context, *maps.FindPlaceFromTextRequest) (maps.FindPlaceFromTextResponse, error) {
	return maps.FindPlaceFromTextResponse{Candidates: []maps.PlacesSearchResult{{
		PlaceID:          "ChIJzilker",
		Name:             "Zilker Metropolitan Park",
		FormattedAddress: "2100 Barton Springs Rd, Austin, TX",
		Rating:           4.7,
		Photos:           []maps.Photo{{PhotoReference: "zilker-photo"}},
	}}}, nil
}

func (f *stubFinder) PlacePhoto(_ context.Context, r *maps.PlacePhotoRequest) (maps.PlacePhotoResponse, error) {
	f.mu.Lock()
	f.photos++
	f.mu.Unlock()
	return maps.PlacePhotoResponse{
		ContentType: "image/png",
		Data:        io.NopCloser(strings.NewReader("png:" + r.PhotoReference)),
	}, nil
}

func TestRouter_PlacePhotoIsProxied(t *testing.T) {
	finder := &stubFinder{}
	s := newTestServerWithPlaces(t, &queuedChat{}, finder, 5)

	code, env := s.do(http.MethodGet, "/places?name=Zilker%20Park&location=Austin", nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	place := decode[struct {
		PhotoURL string `json:"photo_url"`
	}](t, env.Data)
	require.True(t, strings.HasPrefix(place.PhotoURL, services.PlacePhotoPath+"?"), place.PhotoURL)
	require.NotContains(t, place.PhotoURL, "key=")

	for i := 0; i < 2; i++ {
		rec := s.serve(http.MethodGet, place.PhotoURL, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		require.Equal(t, "png:zilker-photo", rec.Body.String())
	}
	require.Equal(t, 1, finder.photos)

	code, _ = s.do(http.MethodGet, services.PlacePhotoPath+"?ref=never-issued", nil)
	require.Equal(t, http.StatusNotFound, code)
	code, _ = s.do(http.MethodGet, services.PlacePhotoPath, nil)
	require.Equal(t, http.StatusUnprocessableEntity, code)
}

func TestRouter_PlacesIsRateLimited(t *testing.T) {
	s := newTestServer(t, &queuedChat{}, 1)

	code, _ := s.do(http.MethodGet, "/places?name=Zilker%20Park", nil)
	require.Equal(t, http.StatusServiceUnavailable, code)
	code, _ = s.do(http.MethodGet, "/places?name=Zilker%20Park", nil)
	require.Equal(t, http.StatusTooManyRequests, code)

	// Photos are gated by issued references, not the limiter.
	code, _ = s.do(http.MethodGet, services.PlacePhotoPath+"?ref=abc", nil)
	require.Equal(t, http.StatusServiceUnavailable, code)
}
