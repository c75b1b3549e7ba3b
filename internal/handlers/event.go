package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/He-ro616/we4x-CO/internal/core"
	"github.com/He-ro616/we4x-CO/internal/middleware"
	"github.com/He-ro616/we4x-CO/internal/policy"
	"github.com/He-ro616/we4x-CO/internal/services"
	"github.com/He-ro616/we4x-CO/internal/templates"

	"github.com/gin-gonic/gin"
)

// datetimeLayout is the value format of <input type="datetime-local">.
const datetimeLayout = "2006-01-02T15:04"

type EventHandler struct {
	eventService *services.EventService
	storage      core.FileStorage
}

func NewEventHandler(es *services.EventService, storage core.FileStorage) *EventHandler {
	return &EventHandler{eventService: es, storage: storage}
}

func eventPath(id string) string {
	return "/events/event/" + id
}

// CreatePage renders an empty event form.
func (h *EventHandler) CreatePage(c *gin.Context) {
	templates.RenderTempl(c, http.StatusOK, templates.EventFormPage(templates.EventFormPageProps{
		BaseProps:   baseProps(c),
		NavbarProps: navProps(c, "events"),
	}))
}

// Create validates the form, stores the optional banner and creates the event.
// Rejected input re-renders the form with the submitted values.
func (h *EventHandler) Create(c *gin.Context) {
	form := templates.EventForm{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Start:       c.PostForm("start_datetime"),
		End:         c.PostForm("end_datetime"),
		Capacity:    c.PostForm("capacity"),
		MeetLink:    c.PostForm("meet_link"),
		EventType:   c.PostForm("event_type"),
	}

	in, err := parseEventForm(form)
	if err != nil {
		h.renderForm(c, form, err)
		return
	}

	banner, err := storeUpload(c, h.storage, "banner_image")
	if err != nil {
		h.renderForm(c, form, err)
		return
	}
	in.Banner = banner

	event, err := h.eventService.CreateEvent(c.Request.Context(), middleware.CurrentUser(c), in)
	if err != nil {
		discardUpload(c, h.storage, banner)
		if errors.Is(err, services.ErrUnauthorized) {
			failRedirect(c, err, dashboardPath)
			return
		}
		h.renderForm(c, form, err)
		return
	}

	log.Printf("[Event] %s created event %s", middleware.CurrentUser(c).Email, event.ID)
	flashRedirect(c, templates.FlashSuccess, "Event created.", eventPath(event.ID))
}

func (h *EventHandler) renderForm(c *gin.Context, form templates.EventForm, err error) {
	status := http.StatusBadRequest
	if !errors.Is(err, services.ErrValidationFailed) && !isUploadError(err) {
		status = http.StatusInternalServerError
	}
	templates.RenderTempl(c, status, templates.EventFormPage(templates.EventFormPageProps{
		BaseProps:   baseProps(c),
		NavbarProps: navProps(c, "events"),
		Form:        form,
		Error:       userMessage(err),
	}))
}

// parseEventForm converts the raw form. Empty times stay zero and are
// reported by the service.
func parseEventForm(form templates.EventForm) (services.EventInput, error) {
	in := services.EventInput{
		Title:       form.Title,
		Description: form.Description,
		MeetLink:    form.MeetLink,
		EventType:   form.EventType,
	}

	var err error
	if in.Start, err = parseDatetime("start_datetime", form.Start); err != nil {
		return in, err
	}
	if in.End, err = parseDatetime("end_datetime", form.End); err != nil {
		return in, err
	}

	if raw := strings.TrimSpace(form.Capacity); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return in, &services.ValidationError{Field: "capacity", Message: "must be a whole number"}
		}
		in.Capacity = &n
	}
	return in, nil
}

func parseDatetime(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(datetimeLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, &services.ValidationError{Field: field, Message: "is not a valid date and time"}
	}
	return t, nil
}

// View renders an event with its registration form.
func (h *EventHandler) View(c *gin.Context) {
	ctx := c.Request.Context()
	event, err := h.eventService.ViewEvent(ctx, c.Param("id"))
	if err != nil {
		renderLookupError(c, err)
		return
	}

	user := middleware.CurrentUser(c)
	attending := false
	if user != nil {
		attending, err = h.eventService.IsAttending(ctx, user.ID, event.ID)
		if err != nil {
			renderLookupError(c, err)
			return
		}
	}

	templates.RenderTempl(c, http.StatusOK, templates.EventPage(templates.EventPageProps{
		BaseProps:   baseProps(c),
		NavbarProps: navProps(c, "events"),
		Event:       event,
		Attending:   attending,
		CanDelete:   policy.CanActorDo(user, policy.DeleteEvent),
		Full:        event.IsFull(int64(len(event.Registrations))),
	}))
}

// Register signs up a visitor. No account is needed.
func (h *EventHandler) Register(c *gin.Context) {
	id := c.Param("id")
	_, err := h.eventService.Register(c.Request.Context(), id, c.PostForm("name"), c.PostForm("email"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			renderNotFound(c)
			return
		}
		failRedirect(c, err, eventPath(id))
		return
	}
	flashRedirect(c, templates.FlashSuccess, "You are registered for this event.", eventPath(id))
}

// Attend adds the signed-in actor to the attendee list.
func (h *EventHandler) Attend(c *gin.Context) {
	id := c.Param("id")
	if err := h.eventService.Attend(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			renderNotFound(c)
			return
		}
		failRedirect(c, err, eventPath(id))
		return
	}
	flashRedirect(c, templates.FlashSuccess, "You are attending this event.", eventPath(id))
}

// Delete removes an event and its registrations.
func (h *EventHandler) Delete(c *gin.Context) {
	err := h.eventService.DeleteEvent(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		failRedirect(c, err, dashboardPath)
		return
	}
	flashRedirect(c, templates.FlashSuccess, "Event deleted.", dashboardPath)
}
