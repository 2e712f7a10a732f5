package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"retailpos/m/domain"
	"retailpos/m/internal/saga"
	"retailpos/m/internal/store"
)

type ctxKey string

const (
	ctxUserID ctxKey = "userID"
	ctxRole   ctxKey = "role"
)

const (
	roleManager = "manager"
	roleCashier = "cashier"
)

type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	ByEmail(ctx context.Context, email string) (*domain.User, error)
}

type SaleService interface {
	Execute(ctx context.Context, req *domain.SaleRequest) (*domain.Receipt, error)
	ConvertQuote(ctx context.Context, req *saga.ConvertRequest) (*domain.Receipt, error)
}

type ReceiptProjector interface {
	Project(ctx context.Context, saleID string) (*domain.Receipt, error)
}

type SellableLister interface {
	MergeForBranch(ctx context.Context, branchID string, codes ...string) ([]domain.SellableProduct, error)
}

type InventoryLedger interface {
	Adjust(ctx context.Context, code, branchID string, delta int64) (int64, error)
	Transfer(ctx context.Context, code, fromBranch, toBranch string, qty int64) error
}

// Deps are the services the HTTP layer exposes.
type Deps struct {
	Users     UserStore
	Sales     SaleService
	Receipts  ReceiptProjector
	Sellable  SellableLister
	Inventory InventoryLedger
	Logger    *zap.Logger
}

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	Deps
	secret string
}

// New constructs a Handler.
func New(secret string, deps Deps) *Handler {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Handler{Deps: deps, secret: secret}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(h.authMiddleware)

		pr.Route("/sales", func(r chi.Router) {
			r.Post("/", h.createSale)
			r.Post("/{id}/convert", h.convertQuote)
			r.Get("/{id}/receipt", h.saleReceipt)
		})

		pr.Route("/inventory", func(r chi.Router) {
			r.Get("/sellable", h.listSellable)
			r.Post("/adjust", h.adjustInventory)
			r.Post("/transfer", h.transferInventory)
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Authentication helpers

type authClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (h *Handler) generateToken(userID, role string) (string, error) {
	claims := authClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.secret))
}

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		tokenString := strings.TrimSpace(header[len("Bearer "):])
		token, err := jwt.ParseWithClaims(tokenString, &authClaims{}, func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(h.secret), nil
		})
		if err != nil || !token.Valid {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		claims, ok := token.Claims.(*authClaims)
		if !ok {
			respondError(w, http.StatusUnauthorized, "invalid token claims")
			return
		}
		ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID)
		ctx = context.WithValue(ctx, ctxRole, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) requireRole(w http.ResponseWriter, r *http.Request, allowed ...string) bool {
	current, _ := r.Context().Value(ctxRole).(string)
	if current == "" {
		respondError(w, http.StatusUnauthorized, "missing role")
		return false
	}
	for _, allowedRole := range allowed {
		if current == allowedRole {
			return true
		}
	}
	respondError(w, http.StatusForbidden, "insufficient permissions")
	return false
}

func userID(r *http.Request) string {
	id, _ := r.Context().Value(ctxUserID).(string)
	return id
}

// Auth Handlers

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		respondError(w, http.StatusBadRequest, "username, email, password and role are required")
		return
	}
	if req.Role != roleManager && req.Role != roleCashier {
		respondError(w, http.StatusBadRequest, "role must be manager or cashier")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to secure password")
		return
	}

	user := domain.User{
		ID:        uuid.New().String(),
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hashed),
		Role:      req.Role,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Users.Create(r.Context(), &user); err != nil {
		respondError(w, http.StatusConflict, "email already exists")
		return
	}

	token, err := h.generateToken(user.ID, user.Role)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to generate token")
		return
	}

	user.Password = ""
	respondJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.Users.ByEmail(r.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.Logger.Error("login lookup failed", zap.Error(err))
		}
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.generateToken(user.ID, user.Role)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to generate token")
		return
	}

	user.Password = ""
	respondJSON(w, http.StatusOK, authResponse{Token: token, User: *user})
}

// Helpers

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
