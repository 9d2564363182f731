package httpadapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tvonment/tarot-backend/internal/adapters/llm"
	"github.com/tvonment/tarot-backend/internal/adapters/storage/memory"
	"github.com/tvonment/tarot-backend/internal/app/oracle"
	"github.com/tvonment/tarot-backend/internal/app/session"
)

type stubBlobs struct{}

func (stubBlobs) CardImageURL(_ context.Context, fileName string) (string, error) {
	return "https://blobs.test/card-images/" + fileName, nil
}

func (stubBlobs) BlueprintURL(_ context.Context) (string, error) {
	return "https://blobs.test/blueprint-images/celtic-cross-spread.png", nil
}

func (stubBlobs) UploadCardImage(_ context.Context, fileName string, _ []byte) (string, error) {
	return "https://blobs.test/card-images/" + fileName, nil
}

func newTestServer() *echo.Echo {
	svc := session.NewService(
		memory.NewSessionStore(),
		stubBlobs{},
		oracle.NewTranslator(llm.NewMock()),
	)
	e := echo.New()
	NewHandler(svc).Register(e)
	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func createTestSession(t *testing.T, e *echo.Echo) string {
	t.Helper()
	rec := doJSON(e, http.MethodPost, "/sessions", `{"topic": "how does my career look?"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp["id"].(string)
}

func TestHealthz(t *testing.T) {
	rec := doJSON(newTestServer(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateSession(t *testing.T) {
	e := newTestServer()

	rec := doJSON(e, http.MethodPost, "/sessions", `{"topic": "how does my career look?"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["id"])
	assert.Equal(t, "Future Career", resp["topic"])
	assert.Equal(t, "created", resp["state"])
}

func TestCreateSession_MissingTopic(t *testing.T) {
	rec := doJSON(newTestServer(), http.MethodPost, "/sessions", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSession_NotFound(t *testing.T) {
	rec := doJSON(newTestServer(), http.MethodGet, "/sessions?sessionId=missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSession_MissingID(t *testing.T) {
	rec := doJSON(newTestServer(), http.MethodGet, "/sessions", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddCardsByFile(t *testing.T) {
	e := newTestServer()
	id := createTestSession(t, e)

	rec := doJSON(e, http.MethodPatch, "/sessions/cardsByFile",
		`{"sessionId": "`+id+`", "cardFileName": "spread.png"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	cards := resp["cards"].([]any)
	require.Len(t, cards, 3)
	assert.Equal(t, "The Fool", cards[0].(map[string]any)["name"])
	assert.Equal(t, "cards_resolving", resp["state"])
}

func TestCardByDescription(t *testing.T) {
	e := newTestServer()
	id := createTestSession(t, e)

	rec := doJSON(e, http.MethodPost, "/sessions/cardByDescription",
		`{"sessionId": "`+id+`", "position": 1, "conversation": [{"description": "a traveler at a cliff"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var card map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &card))
	assert.Equal(t, "The Fool", card["name"])
	assert.Equal(t, float64(1), card["position"])
}

func TestCardByDescription_InvalidPosition(t *testing.T) {
	e := newTestServer()
	id := createTestSession(t, e)

	rec := doJSON(e, http.MethodPost, "/sessions/cardByDescription",
		`{"sessionId": "`+id+`", "position": 11, "conversation": [{"description": "x"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCardByDescription_EmptyConversation(t *testing.T) {
	e := newTestServer()
	id := createTestSession(t, e)

	rec := doJSON(e, http.MethodPost, "/sessions/cardByDescription",
		`{"sessionId": "`+id+`", "position": 1, "conversation": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddFortune_WithoutCards(t *testing.T) {
	e := newTestServer()
	id := createTestSession(t, e)

	rec := doJSON(e, http.MethodPatch, "/sessions/fortune", `{"sessionId": "`+id+`"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAddFortune(t *testing.T) {
	e := newTestServer()
	id := createTestSession(t, e)

	rec := doJSON(e, http.MethodPatch, "/sessions/cardsByFile",
		`{"sessionId": "`+id+`", "cardFileName": "spread.png"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodPatch, "/sessions/fortune", `{"sessionId": "`+id+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	fortune := resp["fortune"].([]any)
	require.Len(t, fortune, 3)
	assert.Equal(t, "A hopeful reading about new beginnings.", resp["fortuneSummary"])
	assert.Equal(t, "fortune_ready", resp["state"])
}

func TestAnswerOpenQuestion(t *testing.T) {
	e := newTestServer()
	id := createTestSession(t, e)

	rec := doJSON(e, http.MethodPatch, "/sessions/answerOpenQuestion",
		`{"sessionId": "`+id+`", "question": "will it work out?"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "The cards whisper that patience will reward you.", resp["answer"])
}

func TestAnswerOpenQuestion_SessionMissing(t *testing.T) {
	rec := doJSON(newTestServer(), http.MethodPatch, "/sessions/answerOpenQuestion",
		`{"sessionId": "missing", "question": "anything?"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
