package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/jason-s-yu/gostop/internal/auth"
	"github.com/jason-s-yu/gostop/internal/card"
	"github.com/jason-s-yu/gostop/internal/game"
	"github.com/jason-s-yu/gostop/internal/match"
	"github.com/jason-s-yu/gostop/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stateBody struct {
	MatchID   uuid.UUID     `json:"matchId"`
	GameState game.SeatView `json:"gameState"`
	Version   int64         `json:"version"`
	Error     string        `json:"error"`
	Stale     bool          `json:"stale"`
	Type      string        `json:"type"`
}

type recordingUsers struct {
	created []models.User
}

func (u *recordingUsers) CreateUser(_ context.Context, user *models.User) error {
	u.created = append(u.created, *user)
	return nil
}

func setupServer(t *testing.T) (*httptest.Server, *recordingUsers) {
	t.Helper()
	require.NoError(t, auth.Init(time.Hour))

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	svc := match.NewService(match.NewMemoryStore(), logger)
	svc.Rand = func() game.Rand { return game.NewRand(11) }
	users := &recordingUsers{}

	ts := httptest.NewServer(NewServer(svc, users, logger).Routes([]string{"*"}))
	t.Cleanup(ts.Close)
	return ts, users
}

func tokenFor(t *testing.T, id uuid.UUID) string {
	t.Helper()
	tok, err := auth.CreateJWT(id)
	require.NoError(t, err)
	return tok
}

func do(t *testing.T, ts *httptest.Server, method, path, token string, body interface{}) (int, stateBody) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.URL+path, rd)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out stateBody
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func createMatch(t *testing.T, ts *httptest.Server, token string) stateBody {
	t.Helper()
	status, body := do(t, ts, http.MethodPost, "/match/create", token, map[string]string{"difficulty": "easy", "name": "kim"})
	require.Equal(t, http.StatusCreated, status, body.Error)
	return body
}

func cardNotIn(hand []card.ID) card.ID {
	held := map[card.ID]bool{}
	for _, id := range hand {
		held[id] = true
	}
	for id := card.ID(0); id < 48; id++ {
		if !held[id] {
			return id
		}
	}
	return -1
}

func TestGuestHandler(t *testing.T) {
	ts, users := setupServer(t)

	resp, err := http.Post(ts.URL+"/user/guest", "application/json", strings.NewReader(`{"username":"  kim "}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body guestResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "kim", body.User.Username)
	assert.True(t, body.User.IsEphemeral)

	id, err := auth.AuthenticateJWT(body.Token)
	require.NoError(t, err)
	assert.Equal(t, body.User.ID, id)

	require.Len(t, users.created, 1)
	assert.Equal(t, body.User.ID, users.created[0].ID)

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == auth.CookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, body.Token, cookie.Value)
}

func TestGuestHandlerDefaultsName(t *testing.T) {
	ts, _ := setupServer(t)
	resp, err := http.Post(ts.URL+"/user/guest", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body guestResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Guest", body.User.Username)
}

func TestCreateAndState(t *testing.T) {
	ts, _ := setupServer(t)
	user := uuid.New()
	token := tokenFor(t, user)

	created := createMatch(t, ts, token)
	assert.Equal(t, int64(1), created.Version)
	assert.Equal(t, game.PhasePlayHand, created.GameState.Phase)
	assert.Equal(t, game.Easy, created.GameState.Difficulty)
	require.Len(t, created.GameState.Players, 3)
	assert.Equal(t, "kim", created.GameState.Players[0].Name)
	assert.NotEmpty(t, created.GameState.Players[0].Hand)
	assert.Empty(t, created.GameState.Players[1].Hand)
	assert.True(t, created.GameState.Players[1].AI)

	status, body := do(t, ts, http.MethodGet, "/match/"+created.MatchID.String()+"/state", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(1), body.Version)
	assert.Equal(t, created.GameState.Players[0].Hand, body.GameState.Players[0].Hand)
	require.NotNil(t, body.GameState.DeadlineMs)
}

func TestCreateRejectsBadInput(t *testing.T) {
	ts, _ := setupServer(t)
	token := tokenFor(t, uuid.New())

	status, _ := do(t, ts, http.MethodPost, "/match/create", token, map[string]string{"difficulty": "expert"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = do(t, ts, http.MethodPost, "/match/create", "", map[string]string{"difficulty": "easy"})
	assert.Equal(t, http.StatusUnauthorized, status)

	other := uuid.New()
	status, _ = do(t, ts, http.MethodPost, "/match/create", token, createMatchRequest{
		Opponents: []opponent{{UserID: &other}, {UserID: &other}},
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestActionFlow(t *testing.T) {
	ts, _ := setupServer(t)
	token := tokenFor(t, uuid.New())
	created := createMatch(t, ts, token)
	path := "/match/" + created.MatchID.String() + "/action"
	hand := created.GameState.Players[0].Hand

	status, body := do(t, ts, http.MethodPost, path, token, models.ActionRequest{
		Action:  game.PlayCard(cardNotIn(hand)),
		Version: 1,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, body.Stale)

	status, body = do(t, ts, http.MethodPost, path, token, models.ActionRequest{
		Action:  game.PlayCard(hand[0]),
		Version: 1,
	})
	require.Equal(t, http.StatusOK, status, body.Error)
	assert.Equal(t, int64(2), body.Version)
	assert.NotContains(t, body.GameState.Players[0].Hand, hand[0])

	// Replaying against the old version is a conflict.
	status, body = do(t, ts, http.MethodPost, path, token, models.ActionRequest{
		Action:  game.PlayCard(hand[1]),
		Version: 1,
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.True(t, body.Stale)
}

func TestAccessErrors(t *testing.T) {
	ts, _ := setupServer(t)
	token := tokenFor(t, uuid.New())
	created := createMatch(t, ts, token)

	status, _ := do(t, ts, http.MethodGet, "/match/"+uuid.NewString()+"/state", token, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, ts, http.MethodGet, "/match/"+created.MatchID.String()+"/state", tokenFor(t, uuid.New()), nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = do(t, ts, http.MethodGet, "/match/"+created.MatchID.String()+"/state", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = do(t, ts, http.MethodGet, "/match/not-a-uuid/state", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err    error
		status int
		stale  bool
	}{
		{&match.ConflictError{Stale: true}, http.StatusConflict, true},
		{&match.ConflictError{}, http.StatusConflict, true},
		{&game.TransitionError{Op: "x", Err: game.ErrWrongPhase}, http.StatusBadRequest, false},
		{match.ErrNotSeated, http.StatusForbidden, false},
		{models.ErrMatchNotFound, http.StatusNotFound, false},
		{auth.ErrNoToken, http.StatusUnauthorized, false},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError, false},
	}
	for _, tc := range cases {
		status, stale := statusFor(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.stale, stale, tc.err.Error())
	}
}

func dialMatch(t *testing.T, ts *httptest.Server, matchID uuid.UUID, token string, protocols ...string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/match/ws/" + matchID.String()
	c, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		Subprotocols: protocols,
		HTTPHeader:   http.Header{"Authorization": {"Bearer " + token}},
	})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close(websocket.StatusNormalClosure, "") })
	return c
}

func TestMatchSocket(t *testing.T) {
	ts, _ := setupServer(t)
	token := tokenFor(t, uuid.New())
	created := createMatch(t, ts, token)
	c := dialMatch(t, ts, created.MatchID, token, Subprotocol)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var first stateBody
	require.NoError(t, wsjson.Read(ctx, c, &first))
	assert.Equal(t, "state", first.Type)
	assert.Equal(t, int64(1), first.Version)
	hand := first.GameState.Players[0].Hand
	require.NotEmpty(t, hand)

	require.NoError(t, wsjson.Write(ctx, c, models.ActionRequest{Action: game.PlayCard(hand[0]), Version: 1}))
	var next stateBody
	require.NoError(t, wsjson.Read(ctx, c, &next))
	assert.Equal(t, "state", next.Type)
	assert.Equal(t, int64(2), next.Version)

	require.NoError(t, wsjson.Write(ctx, c, models.ActionRequest{Action: game.PlayCard(hand[1]), Version: 1}))
	var rejected stateBody
	require.NoError(t, wsjson.Read(ctx, c, &rejected))
	assert.Equal(t, "error", rejected.Type)
	assert.True(t, rejected.Stale)
}

func TestMatchSocketRequiresSubprotocol(t *testing.T) {
	ts, _ := setupServer(t)
	token := tokenFor(t, uuid.New())
	created := createMatch(t, ts, token)
	c := dialMatch(t, ts, created.MatchID, token)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, _, err := c.Read(ctx)
	require.Error(t, err)
	assert.Equal(t, websocket.StatusCode(BadSubprotocolError), websocket.CloseStatus(err))
}

func TestMatchSocketRejectsStrangers(t *testing.T) {
	ts, _ := setupServer(t)
	created := createMatch(t, ts, tokenFor(t, uuid.New()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/match/ws/" + created.MatchID.String()
	_, resp, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		Subprotocols: []string{Subprotocol},
		HTTPHeader:   http.Header{"Authorization": {"Bearer " + tokenFor(t, uuid.New())}},
	})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
