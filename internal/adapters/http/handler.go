// Package httpadapter maps the HTTP resource surface onto the session
// service. No business logic lives here; this layer validates input,
// delegates and maps errors to status codes.
package httpadapter

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tvonment/tarot-backend/internal/app/session"
	"github.com/tvonment/tarot-backend/internal/domain"
	"github.com/tvonment/tarot-backend/internal/observability"
)

type Handler struct {
	svc *session.Service
}

func NewHandler(svc *session.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)

	e.POST("/sessions", h.CreateSession)
	e.GET("/sessions", h.GetSession)
	e.PATCH("/sessions/cardsByFile", h.AddCardsByFile)
	e.POST("/sessions/cardByDescription", h.CardByDescription)
	e.PATCH("/sessions/fortune", h.AddFortune)
	e.PATCH("/sessions/answerOpenQuestion", h.AnswerOpenQuestion)

	e.POST("/cards/image", h.UploadCardImage)
}

func (h *Handler) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) CreateSession(c echo.Context) error {
	var req createSessionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	if strings.TrimSpace(req.Topic) == "" {
		return badRequest(c, "topic is required")
	}

	sess, err := h.svc.CreateSession(c.Request().Context(), req.Topic)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusCreated, toSessionResponse(sess))
}

func (h *Handler) GetSession(c echo.Context) error {
	id := c.QueryParam("sessionId")
	if id == "" {
		return badRequest(c, "sessionId is required")
	}

	sess, err := h.svc.GetSession(c.Request().Context(), domain.SessionID(id))
	if err != nil {
		return mapError(c, err)
	}
	if sess == nil {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "session not found"})
	}
	return c.JSON(http.StatusOK, toSessionResponse(sess))
}

func (h *Handler) AddCardsByFile(c echo.Context) error {
	var req cardsByFileRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	if req.SessionID == "" || req.CardFileName == "" {
		return badRequest(c, "sessionId and cardFileName are required")
	}

	sess, err := h.svc.AddCardsByFile(c.Request().Context(), domain.SessionID(req.SessionID), req.CardFileName)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResponse(sess))
}

// CardByDescription returns either the appended card or, when recognition
// could not commit, the legacy clarification sentinel: name "Unknown",
// position 0, the clarifying question as description.
func (h *Handler) CardByDescription(c echo.Context) error {
	var req cardByDescriptionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	if req.SessionID == "" {
		return badRequest(c, "sessionId is required")
	}
	if req.Position < 1 || req.Position > domain.SpreadSize {
		return badRequest(c, "position must be between 1 and 10")
	}
	if len(req.Conversation) == 0 {
		return badRequest(c, "conversation must not be empty")
	}

	card, err := h.svc.AddCardByDescription(
		c.Request().Context(),
		domain.SessionID(req.SessionID),
		req.Position,
		toConversation(req.Conversation),
	)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toCardResponse(card))
}

func (h *Handler) AddFortune(c echo.Context) error {
	var req fortuneRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	if req.SessionID == "" {
		return badRequest(c, "sessionId is required")
	}

	sess, err := h.svc.AddFortune(c.Request().Context(), domain.SessionID(req.SessionID))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResponse(sess))
}

func (h *Handler) AnswerOpenQuestion(c echo.Context) error {
	var req answerOpenQuestionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	if req.SessionID == "" {
		return badRequest(c, "sessionId is required")
	}
	if strings.TrimSpace(req.Question) == "" {
		return badRequest(c, "question is required")
	}

	answer, err := h.svc.AddOpenQuestion(c.Request().Context(), domain.SessionID(req.SessionID), req.Question)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, answerResponse{Answer: answer})
}

// UploadCardImage ingests a card photograph (multipart field "image").
func (h *Handler) UploadCardImage(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return badRequest(c, "image file is required")
	}

	src, err := file.Open()
	if err != nil {
		return mapError(c, err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return mapError(c, err)
	}

	url, err := h.svc.UploadCardImage(c.Request().Context(), file.Filename, data)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusCreated, uploadResponse{URL: url})
}

// ─────────────────────────────────────────────
// Error mapping
// ─────────────────────────────────────────────

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

func mapError(c echo.Context, err error) error {
	log := observability.LoggerFromContext(c.Request().Context())

	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNoCards), errors.Is(err, domain.ErrSessionExists):
		return c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrSchemaViolation), errors.Is(err, domain.ErrUpstream):
		log.Error("upstream failure", "error", err)
		return c.JSON(http.StatusBadGateway, errorResponse{Error: err.Error()})
	default:
		log.Error("internal error", "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
