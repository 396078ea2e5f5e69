// Copyright (c) 2026 PortfolioHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/portfoliohub/internal/platform/constants"
	"github.com/taibuivan/portfoliohub/internal/platform/middleware"
	requestutil "github.com/taibuivan/portfoliohub/internal/platform/request"
	"github.com/taibuivan/portfoliohub/internal/platform/respond"
	"github.com/taibuivan/portfoliohub/internal/platform/sec"
	"github.com/taibuivan/portfoliohub/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the /auth HTTP endpoints.
type Handler struct {
	authService *Service
	cookie      *sec.SessionCookie
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, cookie *sec.SessionCookie) *Handler {
	return &Handler{authService: service, cookie: cookie}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /register : Creates an account and starts a session.
//   - POST /login    : Verifies credentials and starts a session.
//   - POST /logout   : Clears the session cookie.
//   - GET  /me       : Returns the current account (requires a session).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/logout", handler.logout)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.me)
	})

	return router
}

// # Payloads

type registerRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	Success bool `json:"success"`
	User    any  `json:"user"`
}

type successResponse struct {
	Success bool `json:"success"`
}

/*
register creates an account and signs the new user in.

POST /auth/register

Request:
  - Body: registerRequest (fullName, email, password)

Response:
  - 200: {success, user:{id,email,fullName,username}} + auth-token cookie
  - 400: First validation message, or "User already exists with this email"
  - 500: Internal server error
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	email := NormalizeEmail(input.Email)

	validator := &validate.Validator{}
	validator.
		Required(FieldFullName, input.FullName, "Full name is required").
		MaxLen(FieldFullName, strings.TrimSpace(input.FullName), MaxFullNameLength).
		Custom(FieldEmail, !validate.IsEmail(email) || len(email) > MaxEmailLength, "Valid email is required").
		Password(FieldPassword, input.Password)

	if err := validator.FirstErr(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		FullName: input.FullName,
		Email:    email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.cookie.Set(writer, request, user.ID, user.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, userResponse{Success: true, User: user.Public()})
}

/*
login verifies credentials and signs the user in.

POST /auth/login

Request:
  - Body: loginRequest (email, password)

Response:
  - 200: {success, user:{id,email,fullName,username}} + auth-token cookie
  - 400: "Valid email is required" / "Password is required"
  - 401: "Invalid email or password"
  - 429: Too many failed attempts for this email
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	email := NormalizeEmail(input.Email)

	validator := &validate.Validator{}
	validator.
		Email(FieldEmail, email, "Valid email is required").
		Custom(FieldPassword, input.Password == "", "Password is required")

	if err := validator.FirstErr(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.cookie.Set(writer, request, user.ID, user.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, userResponse{Success: true, User: user.Public()})
}

/*
logout clears the session cookie.

POST /auth/logout

Response:
  - 200: {success:true}
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	handler.cookie.Clear(writer, request)
	handler.authService.RecordLogout()

	respond.JSON(writer, http.StatusOK, successResponse{Success: true})
}

// me returns the resolved identity. GET /auth/me
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	writer.Header().Set("Cache-Control", "no-store")
	respond.JSON(writer, http.StatusOK, map[string]any{
		constants.FieldSuccess: true,
		FieldUser:              identity,
	})
}
