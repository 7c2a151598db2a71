// Package handler はHTTP APIのルーティングとリクエスト・レスポンスの変換を行います。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aws/aws-xray-sdk-go/xray"
	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
	"github.com/uma-arai/sbcntr-stay/internal/model"
	"github.com/uma-arai/sbcntr-stay/internal/service"
)

type ListingService interface {
	Search(ctx context.Context, params map[string]string) ([]model.ListingSummary, error)
	Get(ctx context.Context, id int64) (*model.ListingDetail, error)
	Create(ctx context.Context, hostID int64, in model.CreateListingInput) (*model.ListingDetail, error)
}

type BookingService interface {
	CheckAvailability(ctx context.Context, listingID int64, checkIn, checkOut string) (bool, error)
	Create(ctx context.Context, guestID int64, in model.CreateBookingInput) (*model.BookingView, error)
	ListByGuest(ctx context.Context, guestID int64) ([]model.BookingView, error)
	ListByHost(ctx context.Context, hostID int64) ([]model.BookingView, error)
}

type AuthService interface {
	Register(ctx context.Context, in model.RegisterInput) (*service.AuthResult, error)
	Login(ctx context.Context, in model.LoginInput) (*service.AuthResult, error)
	Verify(ctx context.Context, token string) (model.Claims, error)
}

type SetupService interface {
	Setup(ctx context.Context, seed bool) (*service.SetupResult, error)
	Status(ctx context.Context) (bool, error)
}

// Handler はAPIの各エンドポイントを提供します
type Handler struct {
	listings ListingService
	bookings BookingService
	auth     AuthService
	setup    SetupService
}

func New(listings ListingService, bookings BookingService, auth AuthService, setup SetupService) *Handler {
	return &Handler{
		listings: listings,
		bookings: bookings,
		auth:     auth,
		setup:    setup,
	}
}

// Options はルーター全体に適用するミドルウェアの設定です
type Options struct {
	AllowedOrigins []string
	EnableTracing  bool
	TracingName    string
}

// Router はAPIのルーティングを設定したルーターを返します
func (h *Handler) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(requestIDMiddleware)
	router.HandleFunc("/healthz", h.Healthz).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/listings", h.SearchListings).Methods(http.MethodGet)
	api.HandleFunc("/listings/{id:[0-9]+}", h.GetListing).Methods(http.MethodGet)
	api.HandleFunc("/listings/{id:[0-9]+}/availability", h.CheckAvailability).Methods(http.MethodGet)
	api.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	api.HandleFunc("/setup", h.Setup).Methods(http.MethodPost)
	api.HandleFunc("/setup", h.SetupStatus).Methods(http.MethodGet)

	// 認証が必要なルート
	authenticated := api.NewRoute().Subrouter()
	authenticated.Use(h.authMiddleware)
	authenticated.HandleFunc("/listings", h.CreateListing).Methods(http.MethodPost)
	authenticated.HandleFunc("/bookings", h.CreateBooking).Methods(http.MethodPost)
	authenticated.HandleFunc("/bookings", h.ListGuestBookings).Methods(http.MethodGet)
	authenticated.HandleFunc("/host/bookings", h.ListHostBookings).Methods(http.MethodGet)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, messageResponse{Message: "not found"})
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, messageResponse{Message: "method not allowed"})
	})

	return router
}

// HTTPHandler はルーターにCORS・パニックからの復帰・アクセスログ・トレースを適用します
func (h *Handler) HTTPHandler(opts Options) http.Handler {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	var handler http.Handler = h.Router()
	handler = cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	}).Handler(handler)
	handler = gorillaHandlers.RecoveryHandler(
		gorillaHandlers.RecoveryLogger(log.StandardLogger()),
	)(handler)
	handler = gorillaHandlers.CombinedLoggingHandler(log.StandardLogger().Writer(), handler)

	if opts.EnableTracing {
		name := opts.TracingName
		if name == "" {
			name = "sbcntr-stay"
		}
		handler = xray.Handler(xray.NewFixedSegmentNamer(name), handler)
	}
	return handler
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("failed to encode response: %v", err)
	}
}

// statusFor はエラーの種別をHTTPステータスに変換します
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeError はエラーを{"message": ...}の形式で返します
// 500の場合は内部のエラー内容を返さずにログにのみ出力します
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		requestLogger(r).WithError(err).Errorf("%s %s failed", r.Method, r.URL.Path)
		message = "internal server error"
	}
	writeJSON(w, status, messageResponse{Message: message})
}

// decodeJSON はリクエストボディを読み込みます。形式が不正な場合はValidationErrorです
func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return model.NewValidationError("request body is required")
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return model.NewValidationError("invalid request body: %v", err)
	}
	return nil
}
