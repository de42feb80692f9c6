package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/welldanyogia/mailstore/internal/api/response"
	apperrors "github.com/welldanyogia/mailstore/internal/errors"
	"github.com/welldanyogia/mailstore/internal/models"
	"github.com/welldanyogia/mailstore/internal/repository"
	"github.com/welldanyogia/mailstore/internal/validator"
)

const msgMailNotFound = "Mail not found"

// Notifier is told about every successful write
type Notifier interface {
	MailCreated(mail *models.Mail)
	MailUpdated(mail *models.Mail)
	MailDeleted(id int64)
}

// MailHandler handles mail-related HTTP requests
type MailHandler struct {
	repo          repository.MailRepository
	notifier      Notifier
	logger        *slog.Logger
	strictMethods bool
}

// MailHandlerConfig holds dependencies for MailHandler
type MailHandlerConfig struct {
	Repo repository.MailRepository
	// Notifier is optional
	Notifier Notifier
	Logger   *slog.Logger
	// StrictMethods answers unsupported methods with 405 instead of 400
	StrictMethods bool
}

// NewMailHandler creates a new MailHandler
func NewMailHandler(cfg MailHandlerConfig) *MailHandler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &MailHandler{
		repo:          cfg.Repo,
		notifier:      cfg.Notifier,
		logger:        logger,
		strictMethods: cfg.StrictMethods,
	}
}

// MailRequest represents the request body for creating or replacing a mail.
// Pointers distinguish a missing field from an empty one.
type MailRequest struct {
	Subject *string `json:"subject"`
	Body    *string `json:"body"`
}

// CreateMailResponse is returned by POST /mail
type CreateMailResponse struct {
	ID int64 `json:"id"`
}

// Collection dispatches requests to /mail
func (h *MailHandler) Collection(c echo.Context) error {
	switch c.Request().Method {
	case http.MethodGet:
		return h.List(c)
	case http.MethodPost:
		return h.Create(c)
	default:
		return response.MethodNotAllowed(c, h.strictMethods, http.MethodGet, http.MethodPost)
	}
}

// Item dispatches requests to /mail/{id}. The id is the last path segment;
// a trailing slash with no segment is the collection.
func (h *MailHandler) Item(c echo.Context) error {
	id, ok := itemID(c)
	if !ok {
		return h.Collection(c)
	}
	if err := validator.ValidateID(id); err != nil {
		return response.BadRequest(c, err.Error())
	}

	switch c.Request().Method {
	case http.MethodGet:
		return h.Get(c, id)
	case http.MethodPut:
		return h.Update(c, id)
	case http.MethodDelete:
		return h.Delete(c, id)
	default:
		return response.MethodNotAllowed(c, h.strictMethods, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// itemID returns the id addressed by an item request, read from the path as
// sent so percent-encoded digits do not count. ok is false for the collection.
func itemID(c echo.Context) (int64, bool) {
	if strings.Trim(c.Param("*"), "/") == "" {
		return 0, false
	}
	return validator.ParseID(c.Request().URL.EscapedPath()), true
}

// InvalidItemID reports item requests that are answered 400 without touching storage
func InvalidItemID(c echo.Context) bool {
	id, ok := itemID(c)
	return ok && validator.ValidateID(id) != nil
}

// List handles GET /mail
func (h *MailHandler) List(c echo.Context) error {
	mails, err := h.repo.GetAll(c.Request().Context())
	if err != nil {
		return h.storeError(c, "list mail", err)
	}
	if mails == nil {
		mails = []models.Mail{}
	}
	return response.OK(c, mails)
}

// Create handles POST /mail
func (h *MailHandler) Create(c echo.Context) error {
	req, err := decodeMailRequest(c.Request().Body)
	if err != nil {
		return response.Error(c, err, h.strictMethods)
	}

	id, err := h.repo.Create(c.Request().Context(), *req.Subject, *req.Body)
	if err != nil {
		return h.storeError(c, "create mail", err)
	}

	if h.notifier != nil {
		h.notifier.MailCreated(&models.Mail{ID: id, Subject: *req.Subject, Body: *req.Body})
	}

	return response.Created(c, CreateMailResponse{ID: id})
}

// Get handles GET /mail/{id}
func (h *MailHandler) Get(c echo.Context, id int64) error {
	mail, found, err := h.repo.Get(c.Request().Context(), id)
	if err != nil {
		return h.storeError(c, "get mail", err)
	}
	if !found {
		return response.NotFound(c, msgMailNotFound)
	}
	return response.OK(c, mail)
}

// Update handles PUT /mail/{id}. Existence is checked before the body is read,
// so a malformed body for an unknown id is a 404.
func (h *MailHandler) Update(c echo.Context, id int64) error {
	ctx := c.Request().Context()

	_, found, err := h.repo.Get(ctx, id)
	if err != nil {
		return h.storeError(c, "get mail", err)
	}
	if !found {
		return response.NotFound(c, msgMailNotFound)
	}

	req, err := decodeMailRequest(c.Request().Body)
	if err != nil {
		return response.Error(c, err, h.strictMethods)
	}

	updated, err := h.repo.Update(ctx, id, *req.Subject, *req.Body)
	if err != nil {
		return h.storeError(c, "update mail", err)
	}
	if !updated {
		return response.NotFound(c, msgMailNotFound)
	}

	mail, found, err := h.repo.Get(ctx, id)
	if err != nil {
		return h.storeError(c, "get mail", err)
	}
	if !found {
		// Deleted between the update and the re-read
		return response.NotFound(c, msgMailNotFound)
	}

	if h.notifier != nil {
		h.notifier.MailUpdated(mail)
	}

	return response.OK(c, mail)
}

// Delete handles DELETE /mail/{id}
func (h *MailHandler) Delete(c echo.Context, id int64) error {
	ctx := c.Request().Context()

	_, found, err := h.repo.Get(ctx, id)
	if err != nil {
		return h.storeError(c, "get mail", err)
	}
	if !found {
		return response.NotFound(c, msgMailNotFound)
	}

	deleted, err := h.repo.Delete(ctx, id)
	if err != nil {
		return h.storeError(c, "delete mail", err)
	}
	if !deleted {
		return response.NotFound(c, msgMailNotFound)
	}

	if h.notifier != nil {
		h.notifier.MailDeleted(id)
	}

	return response.Deleted(c)
}

func (h *MailHandler) storeError(c echo.Context, op string, err error) error {
	h.logger.Error("failed to "+op,
		slog.String("path", c.Request().URL.Path),
		slog.String("code", apperrors.GetErrorCode(err)),
		slog.Any("error", err),
	)
	return response.Error(c, err, h.strictMethods)
}

// decodeMailRequest reads exactly one JSON object with non-empty subject and body
func decodeMailRequest(r io.Reader) (*MailRequest, error) {
	var req MailRequest

	dec := json.NewDecoder(r)
	if err := dec.Decode(&req); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidInput, "request body must be a JSON object", apperrors.CodeInvalidInput)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidInput, "request body must be a single JSON object", apperrors.CodeInvalidInput)
	}

	if err := validator.ValidateMail(req.Subject, req.Body); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidInput, err.Error(), apperrors.CodeInvalidInput)
	}

	return &req, nil
}
