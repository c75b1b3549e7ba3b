package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/He-ro616/we4x-CO/internal/core"
	"github.com/He-ro616/we4x-CO/internal/middleware"
	"github.com/He-ro616/we4x-CO/internal/services"
	"github.com/He-ro616/we4x-CO/internal/templates"
	"github.com/He-ro616/we4x-CO/internal/upload"

	"github.com/gin-gonic/gin"
)

const genericFailure = "Something went wrong. Please try again."

// baseProps collects the CSRF token and consumes pending notices.
func baseProps(c *gin.Context) templates.BaseProps {
	return templates.BaseProps{
		CSRFToken: middleware.GetCSRFToken(c),
		Flashes:   middleware.PopFlashes(c),
	}
}

func navProps(c *gin.Context, active string) templates.NavbarProps {
	return templates.NavbarProps{User: middleware.CurrentUser(c), ActiveLink: active}
}

func flashRedirect(c *gin.Context, category, message, location string) {
	middleware.AddFlash(c, category, message)
	c.Redirect(http.StatusFound, location)
}

// failRedirect reports a workflow error as a notice on a safe page.
func failRedirect(c *gin.Context, err error, location string) {
	flashRedirect(c, templates.FlashError, userMessage(err), location)
}

// userMessage maps workflow errors to text shown to the user. Unexpected
// errors are logged and reported generically.
func userMessage(err error) string {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return fieldLabel(verr.Field) + " " + verr.Message + "."
	case errors.Is(err, services.ErrUnauthorized):
		return "You are not allowed to do that."
	case errors.Is(err, services.ErrNotFound):
		return "The requested item does not exist."
	case errors.Is(err, services.ErrInvalidCredentials):
		return "Invalid email or password."
	case errors.Is(err, services.ErrEventFull):
		return "This event is full."
	case errors.Is(err, services.ErrAlreadyRegistered):
		return "This email is already registered for the event."
	case errors.Is(err, services.ErrConstraintViolation):
		return "That conflicts with existing data."
	case errors.Is(err, services.ErrOAuthStateMismatch):
		return "Your sign-in attempt could not be verified. Please try again."
	case errors.Is(err, services.ErrOAuthTokenExpired):
		return "The sign-in request expired. Please try again."
	case errors.Is(err, services.ErrMissingEmail):
		return "Your account has no verified email address."
	case errors.Is(err, services.ErrOAuthProviderError):
		return "The sign-in provider could not be reached. Please try again."
	case errors.Is(err, upload.ErrUnsupportedType):
		return "Only JPG, PNG and GIF images are allowed."
	case errors.Is(err, upload.ErrTooLarge):
		return "The uploaded file is too large."
	case errors.Is(err, upload.ErrEmptyFile):
		return "The uploaded file is empty."
	default:
		log.Printf("[Handler] Unexpected error: %v", err)
		return genericFailure
	}
}

func isUploadError(err error) bool {
	return errors.Is(err, upload.ErrUnsupportedType) ||
		errors.Is(err, upload.ErrTooLarge) ||
		errors.Is(err, upload.ErrEmptyFile)
}

func fieldLabel(field string) string {
	label := strings.ReplaceAll(field, "_", " ")
	if label == "" {
		return "Input"
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

func renderError(c *gin.Context, status int, title, message string) {
	templates.RenderTempl(c, status, templates.ErrorPage(templates.ErrorPageProps{
		BaseProps:   templates.BaseProps{CSRFToken: middleware.GetCSRFToken(c)},
		NavbarProps: navProps(c, ""),
		Error:       title,
		Message:     message,
	}))
}

func renderNotFound(c *gin.Context) {
	renderError(c, http.StatusNotFound, "Not found", "The page you are looking for does not exist.")
}

// renderLookupError shows a 404 for missing rows and a 500 otherwise.
func renderLookupError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrNotFound) {
		renderNotFound(c)
		return
	}
	log.Printf("[Handler] Lookup failed on %s: %v", c.Request.URL.Path, err)
	renderError(c, http.StatusInternalServerError, "Server error", genericFailure)
}

// storeUpload saves an optional file field and returns its reference, or ""
// when the form carried no file.
func storeUpload(c *gin.Context, storage core.FileStorage, field string) (string, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	return storage.Store(c.Request.Context(), f, fh.Filename)
}

// discardUpload removes a stored file whose owning write failed.
func discardUpload(c *gin.Context, storage core.FileStorage, ref string) {
	if ref == "" {
		return
	}
	if err := storage.Remove(c.Request.Context(), ref); err != nil {
		log.Printf("[Upload] Failed to remove %s: %v", ref, err)
	}
}
