package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/storm-aslanbek/veridian/internal/auth"
	"github.com/storm-aslanbek/veridian/internal/domain"
	"github.com/storm-aslanbek/veridian/internal/logging"
	"github.com/storm-aslanbek/veridian/internal/service"
)

type userReader interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type registrar interface {
	Register(ctx context.Context, in service.RegisterInput) (*domain.User, error)
}

type AuthHandler struct {
	users      userReader
	onboarding registrar
	jwtSecret  string
	jwtExpiry  time.Duration
}

func NewAuthHandler(users userReader, onboarding registrar, jwtSecret string, jwtExpiry time.Duration) *AuthHandler {
	return &AuthHandler{
		users:      users,
		onboarding: onboarding,
		jwtSecret:  jwtSecret,
		jwtExpiry:  jwtExpiry,
	}
}

type userDTO struct {
	ID         uuid.UUID `json:"id"`
	FirstName  string    `json:"firstName"`
	Surname    string    `json:"surname"`
	Patronymic *string   `json:"patronymic"`
	IIN        string    `json:"iin"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	AvatarURL  *string   `json:"avatarUrl"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toUserDTO(u *domain.User) userDTO {
	return userDTO{
		ID:         u.ID,
		FirstName:  u.FirstName,
		Surname:    u.Surname,
		Patronymic: u.Patronymic,
		IIN:        u.IIN,
		Email:      u.Email,
		Phone:      u.Phone,
		AvatarURL:  u.AvatarURL,
		CreatedAt:  u.CreatedAt,
	}
}

type tokenResponse struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}

type registerRequest struct {
	FirstName  string  `json:"firstName"`
	Surname    string  `json:"surname"`
	Patronymic *string `json:"patronymic"`
	IIN        string  `json:"iin"`
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	Phone      string  `json:"phone"`
}

func (r registerRequest) Validate() []FieldError {
	var errs []FieldError
	if r.FirstName == "" {
		errs = append(errs, FieldError{Field: "firstName", Message: "required"})
	}
	if r.Surname == "" {
		errs = append(errs, FieldError{Field: "surname", Message: "required"})
	}
	if r.IIN == "" {
		errs = append(errs, FieldError{Field: "iin", Message: "required"})
	}
	if r.Email == "" {
		errs = append(errs, FieldError{Field: "email", Message: "required"})
	} else if _, err := mail.ParseAddress(r.Email); err != nil {
		errs = append(errs, FieldError{Field: "email", Message: "must be a valid email address"})
	}
	if r.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "required"})
	}
	if r.Phone == "" {
		errs = append(errs, FieldError{Field: "phone", Message: "required"})
	}
	return errs
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	user, err := h.onboarding.Register(r.Context(), service.RegisterInput{
		FirstName:  req.FirstName,
		Surname:    req.Surname,
		Patronymic: req.Patronymic,
		IIN:        req.IIN,
		Email:      req.Email,
		Password:   req.Password,
		Phone:      req.Phone,
	})
	if err != nil {
		logging.FromContext(r.Context()).Error("registration failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Email, h.jwtSecret, h.jwtExpiry)
	if err != nil {
		RespondAppError(w, ErrInternalError, nil)
		return
	}

	RespondSuccess(w, http.StatusCreated, tokenResponse{
		Token: token,
		User:  toUserDTO(user),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Email == "" {
		errs = append(errs, FieldError{Field: "email", Message: "required"})
	}
	if r.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "required"})
	}
	return errs
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			RespondAppError(w, ErrInvalidCredentials, nil)
			return
		}
		RespondDomainError(w, err)
		return
	}

	if !service.VerifyPassword(req.Password, user.PasswordHash) {
		RespondAppError(w, ErrInvalidCredentials, nil)
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Email, h.jwtSecret, h.jwtExpiry)
	if err != nil {
		RespondAppError(w, ErrInternalError, nil)
		return
	}

	RespondSuccess(w, http.StatusOK, tokenResponse{
		Token: token,
		User:  toUserDTO(user),
	})
}
