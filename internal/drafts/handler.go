package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dhukuti/internal/shared/middleware"
	"dhukuti/internal/shared/session"
	"dhukuti/internal/shared/utils/response"
	"dhukuti/internal/wizard"
	"dhukuti/pkg/logger"
	"dhukuti/pkg/metrics"
)

// Config wires one wizard kind to HTTP.
type Config[T any] struct {
	// Kind is the URL segment, e.g. "groups".
	Kind       string
	Definition *wizard.Definition[T]
	Initial    func() T
	// Submitter builds the submitter for the caller. Required.
	Submitter func(s session.Session) wizard.Submitter[T]

	// Tags points at the tag list of a form. Nil when the wizard has no tag input.
	Tags func(form *T) *wizard.Tags
}

// DraftResponse is the state of a draft as returned to clients.
type DraftResponse[T any] struct {
	DraftID string `json:"draftId"`
	Kind    string `json:"kind"`
	wizard.State[T]
}

type TagRequest struct {
	Action string `json:"action" binding:"required,oneof=add remove"`
	Tag    string `json:"tag" binding:"required"`
}

// Handler serves the draft endpoints of one wizard kind.
type Handler[T any] struct {
	cfg   Config[T]
	store Store
	log   *logger.Logger
}

func NewHandler[T any](cfg Config[T], store Store) *Handler[T] {
	return &Handler[T]{cfg: cfg, store: store, log: logger.GetDefault()}
}

func (h *Handler[T]) Register(router *gin.RouterGroup, auth gin.HandlerFunc, limit gin.HandlerFunc) {
	group := router.Group("/wizards/" + h.cfg.Kind)
	group.Use(auth)
	if limit != nil {
		group.Use(limit)
	}
	{
		group.POST("", h.Create)                                          // POST /api/v1/wizards/{kind}
		group.GET("/:draftId", h.Get)                                     // GET /api/v1/wizards/{kind}/:draftId
		group.PATCH("/:draftId/fields", h.UpdateFields)                   // PATCH /api/v1/wizards/{kind}/:draftId/fields
		group.POST("/:draftId/next", h.Next)                              // POST /api/v1/wizards/{kind}/:draftId/next
		group.POST("/:draftId/previous", h.Previous)                      // POST /api/v1/wizards/{kind}/:draftId/previous
		group.POST("/:draftId/submit", middleware.RejectDemo(), h.Submit) // POST /api/v1/wizards/{kind}/:draftId/submit
		group.DELETE("/:draftId", h.Delete)                               // DELETE /api/v1/wizards/{kind}/:draftId
		if h.cfg.Tags != nil {
			group.POST("/:draftId/tags", h.UpdateTags) // POST /api/v1/wizards/{kind}/:draftId/tags
		}
	}
}

func (h *Handler[T]) newController(sess session.Session) (*wizard.Controller[T], error) {
	return wizard.New(h.cfg.Definition, h.cfg.Initial(), h.cfg.Submitter(sess))
}

// load restores the draft named in the path. It writes the error response itself.
func (h *Handler[T]) load(c *gin.Context) (session.Session, string, *wizard.Controller[T], bool) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return sess, "", nil, false
	}
	draftID := c.Param("draftId")
	ctrl, ok := h.restore(c, sess, draftID)
	return sess, draftID, ctrl, ok
}

// restore reads draftID from the store and rebuilds its controller.
func (h *Handler[T]) restore(c *gin.Context, sess session.Session, draftID string) (*wizard.Controller[T], bool) {
	raw, err := h.store.Load(c.Request.Context(), h.cfg.Kind, sess.UserID, draftID)
	if err != nil {
		if errors.Is(err, ErrDraftNotFound) {
			response.Error(c, http.StatusNotFound, "Draft not found", nil)
		} else {
			h.log.WithError(err).Error("Failed to load draft", "kind", h.cfg.Kind, "draft_id", draftID)
			response.Error(c, http.StatusInternalServerError, "Failed to load draft", nil)
		}
		return nil, false
	}

	var state wizard.State[T]
	ctrl, err := h.newController(sess)
	if err == nil {
		err = json.Unmarshal(raw, &state)
	}
	if err == nil {
		err = ctrl.Restore(state)
	}
	if err != nil {
		h.log.WithError(err).Error("Corrupt draft", "kind", h.cfg.Kind, "draft_id", draftID)
		response.Error(c, http.StatusInternalServerError, "Failed to load draft", nil)
		return nil, false
	}
	return ctrl, true
}

func (h *Handler[T]) save(ctx context.Context, sess session.Session, draftID string, ctrl *wizard.Controller[T]) error {
	raw, err := json.Marshal(ctrl.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	return h.store.Save(ctx, h.cfg.Kind, sess.UserID, draftID, raw)
}

func (h *Handler[T]) view(draftID string, ctrl *wizard.Controller[T]) DraftResponse[T] {
	return DraftResponse[T]{DraftID: draftID, Kind: h.cfg.Kind, State: ctrl.Snapshot()}
}

// saveAndRespond persists the draft and writes it back with code.
func (h *Handler[T]) saveAndRespond(c *gin.Context, sess session.Session, draftID string, ctrl *wizard.Controller[T], code int, message string) {
	if err := h.save(c.Request.Context(), sess, draftID, ctrl); err != nil {
		h.log.WithError(err).Error("Failed to save draft", "kind", h.cfg.Kind, "draft_id", draftID)
		response.Error(c, http.StatusInternalServerError, "Failed to save draft", nil)
		return
	}
	response.Success(c, code, message, h.view(draftID, ctrl))
}

// applyFields sets each member of body in document order. It writes the error response
// and reports false on the first field that cannot be applied.
func (h *Handler[T]) applyFields(c *gin.Context, ctrl *wizard.Controller[T], body []byte) bool {
	updates, err := orderedFields(body)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return false
	}
	for _, u := range updates {
		if err := ctrl.UpdateField(u.Name, u.Value); err != nil {
			switch {
			case errors.Is(err, wizard.ErrUnknownField), errors.Is(err, wizard.ErrInvalidValue):
				response.Error(c, http.StatusBadRequest, "Invalid field value", map[string]string{u.Name: err.Error()})
			default:
				response.Error(c, http.StatusConflict, err.Error(), nil)
			}
			return false
		}
	}
	return true
}

func (h *Handler[T]) Create(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	ctrl, err := h.newController(sess)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to start wizard", nil)
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if len(strings.TrimSpace(string(body))) > 0 && !h.applyFields(c, ctrl, body) {
		return
	}

	h.saveAndRespond(c, sess, uuid.NewString(), ctrl, http.StatusCreated, "Draft created successfully")
}

func (h *Handler[T]) Get(c *gin.Context) {
	_, draftID, ctrl, ok := h.load(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, "Draft retrieved successfully", h.view(draftID, ctrl))
}

func (h *Handler[T]) UpdateFields(c *gin.Context) {
	sess, draftID, ctrl, ok := h.load(c)
	if !ok {
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if !h.applyFields(c, ctrl, body) {
		return
	}

	h.saveAndRespond(c, sess, draftID, ctrl, http.StatusOK, "Draft updated successfully")
}

func (h *Handler[T]) Next(c *gin.Context) {
	sess, draftID, ctrl, ok := h.load(c)
	if !ok {
		return
	}

	message := "Moved to the next step"
	if !ctrl.Next() {
		message = "Current step is incomplete"
	}
	h.saveAndRespond(c, sess, draftID, ctrl, http.StatusOK, message)
}

func (h *Handler[T]) Previous(c *gin.Context) {
	sess, draftID, ctrl, ok := h.load(c)
	if !ok {
		return
	}

	message := "Moved to the previous step"
	if !ctrl.Previous() {
		message = "Already on the first step"
	}
	h.saveAndRespond(c, sess, draftID, ctrl, http.StatusOK, message)
}

func (h *Handler[T]) UpdateTags(c *gin.Context) {
	sess, draftID, ctrl, ok := h.load(c)
	if !ok {
		return
	}

	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	err := ctrl.Update(func(form *T) {
		tags := h.cfg.Tags(form)
		if req.Action == "add" {
			*tags = tags.Add(req.Tag)
		} else {
			*tags = tags.Remove(strings.TrimSpace(req.Tag))
		}
	}, "tags")
	if err != nil {
		response.Error(c, http.StatusConflict, err.Error(), nil)
		return
	}

	h.saveAndRespond(c, sess, draftID, ctrl, http.StatusOK, "Tags updated successfully")
}

// Submit holds the draft's submit lock from before the draft is read until the
// outcome is stored, so a draft that another request already submitted reads as gone.
func (h *Handler[T]) Submit(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}
	draftID := c.Param("draftId")
	ctx := c.Request.Context()

	acquired, err := h.store.AcquireSubmit(ctx, h.cfg.Kind, sess.UserID, draftID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to submit draft", nil)
		return
	}
	if !acquired {
		response.Error(c, http.StatusConflict, wizard.ErrSubmitting.Error(), nil)
		return
	}
	defer func() {
		if err := h.store.ReleaseSubmit(context.WithoutCancel(ctx), h.cfg.Kind, sess.UserID, draftID); err != nil {
			h.log.WithError(err).Warn("Failed to release draft", "draft_id", draftID)
		}
	}()

	ctrl, ok := h.restore(c, sess, draftID)
	if !ok {
		return
	}

	res, err := ctrl.Submit(ctx)
	h.log.LogWizardSubmission(ctx, h.cfg.Kind, draftID, err)

	var verr *wizard.ValidationError
	var failure *wizard.SubmissionError
	switch {
	case err == nil:
		metrics.WizardSubmissions.WithLabelValues(h.cfg.Kind, "success").Inc()
		if err := h.store.Delete(ctx, h.cfg.Kind, sess.UserID, draftID); err != nil && !errors.Is(err, ErrDraftNotFound) {
			h.log.WithError(err).Warn("Failed to delete submitted draft", "draft_id", draftID)
		}
		response.Success(c, http.StatusCreated, "Submitted successfully", res)

	case errors.As(err, &verr):
		metrics.WizardSubmissions.WithLabelValues(h.cfg.Kind, "invalid").Inc()
		if saveErr := h.save(ctx, sess, draftID, ctrl); saveErr != nil {
			h.log.WithError(saveErr).Warn("Failed to save draft errors", "draft_id", draftID)
		}
		response.Error(c, http.StatusUnprocessableEntity, "Please correct the highlighted fields", verr.Fields)

	case errors.As(err, &failure):
		metrics.WizardSubmissions.WithLabelValues(h.cfg.Kind, "failure").Inc()
		if saveErr := h.save(ctx, sess, draftID, ctrl); saveErr != nil {
			h.log.WithError(saveErr).Warn("Failed to save draft", "draft_id", draftID)
		}
		response.Error(c, http.StatusBadRequest, failure.Message, nil)

	default:
		response.Error(c, http.StatusConflict, err.Error(), nil)
	}
}

func (h *Handler[T]) Delete(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	err := h.store.Delete(c.Request.Context(), h.cfg.Kind, sess.UserID, c.Param("draftId"))
	if err != nil {
		if errors.Is(err, ErrDraftNotFound) {
			response.Error(c, http.StatusNotFound, "Draft not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to discard draft", nil)
		return
	}

	response.Success(c, http.StatusOK, "Draft discarded", nil)
}
