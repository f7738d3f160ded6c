package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"jcbcommunity/internal/apperr"
	"jcbcommunity/internal/config"
	"jcbcommunity/internal/middleware"
	"jcbcommunity/internal/service"
	"jcbcommunity/internal/validation"
)

// maxJSONBody bounds JSON bodies other than base64 uploads.
const maxJSONBody = 1 << 20

type Handlers struct {
	UserService     service.UserService
	AuthService     service.AuthService
	PostService     service.PostService
	ReactionService service.ReactionService
	UploadService   service.UploadService
	TablesService   service.TablesService
	Cfg             *config.Config
	Validate        *validator.Validate
	Logger          *zap.Logger
}

func NewHandlers(service *service.Service, config *config.Config, logger *zap.Logger) *Handlers {
	return &Handlers{
		UserService:     service.User,
		AuthService:     service.Auth,
		PostService:     service.Post,
		ReactionService: service.Reaction,
		UploadService:   service.Upload,
		TablesService:   service.Tables,
		Cfg:             config,
		Validate:        validation.New(),
		Logger:          logger,
	}
}

// decodeJSON reads at most limit bytes of r's body into dst. Service request
// types are validated by the services; handler-local bodies use h.validate.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.Validation("request body exceeds %d bytes", tooLarge.Limit)
		}
		return apperr.Validation("invalid request body")
	}
	return nil
}

func (h *Handlers) validate(dst interface{}) error {
	return validation.Struct(h.Validate, dst)
}

// currentUserID is only called behind RequireAuth.
func currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

func (h *Handlers) Hello(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, map[string]string{"greeting": h.PostService.Hello(r.URL.Query().Get("text"))}, http.StatusOK)
}
