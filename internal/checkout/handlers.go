package checkout

import (
	"encoding/json"
	"errors"
	"net/http"

	validator "github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/noah-isme/checkout-pricing/internal/common"
)

// DefaultMaxItems caps the number of scanned units per quote when Handler.MaxItems is unset.
const DefaultMaxItems = 1000

// QuoteRequest is the payload accepted by POST /api/v1/checkout/quote.
type QuoteRequest struct {
	Items []string `json:"items" validate:"dive,notblank,max=64"`
}

// NewValidator returns a validator with the tags used by checkout payloads registered.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// Handler exposes checkout endpoints.
type Handler struct {
	Svc       *Service
	Validator *validator.Validate
	// MaxItems caps the number of scanned units per quote; zero means DefaultMaxItems.
	MaxItems int
}

// Quote handles POST /api/v1/checkout/quote.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout service not configured", nil)
		return
	}
	var payload QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			common.WriteError(w, common.NewAppError("PAYLOAD_TOO_LARGE", "request entity too large", http.StatusRequestEntityTooLarge, err))
			return
		}
		common.WriteError(w, common.BadRequest("INVALID_JSON", "invalid payload", err))
		return
	}
	if err := h.validate(payload); err != nil {
		common.WriteError(w, err)
		return
	}
	quote, err := h.Svc.Quote(r.Context(), payload.Items)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": quote})
}

func (h *Handler) validate(payload QuoteRequest) error {
	limit := h.MaxItems
	if limit <= 0 {
		limit = DefaultMaxItems
	}
	if len(payload.Items) > limit {
		return common.BadRequest("VALIDATION_ERROR", "too many items", nil).
			WithDetails(map[string]int{"max": limit})
	}
	v := h.Validator
	if v == nil {
		v = NewValidator()
	}
	if err := v.Struct(payload); err != nil {
		var verrs validator.ValidationErrors
		details := map[string]string{}
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				details[fe.Namespace()] = fe.Tag()
			}
		}
		return common.BadRequest("VALIDATION_ERROR", "invalid quote request", err).WithDetails(details)
	}
	return nil
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var unknown *UnknownServiceError
	if errors.As(err, &unknown) {
		common.WriteError(w, common.Unprocessable("UNKNOWN_SERVICE", "cart contains unknown service codes", err).
			WithDetails(map[string]any{"codes": unknown.Codes}))
		return
	}
	common.WriteError(w, err)
}
