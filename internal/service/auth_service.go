package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/portfolio-backend/internal/logger"
	"github.com/iliyamo/portfolio-backend/internal/model"
	"github.com/iliyamo/portfolio-backend/internal/repository"
	"github.com/iliyamo/portfolio-backend/internal/utils"
	"github.com/iliyamo/portfolio-backend/internal/validator"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrWrongPassword is returned when an authenticated user supplies an
	// incorrect current password.
	ErrWrongPassword = errors.New("old password is incorrect")
	// ErrInvalidResetToken covers unknown, expired and already used tokens.
	ErrInvalidResetToken = errors.New("reset password token is invalid or has expired")
	// ErrMailDelivery wraps a failed outbound email.
	ErrMailDelivery = errors.New("mail delivery failed")
)

// AuthService owns credential checks, session issuance and the password
// reset lifecycle.
type AuthService struct {
	Users       repository.UserRepository
	Tokens      *utils.TokenService
	Mailer      Mailer
	BcryptCost  int
	ResetTTL    time.Duration
	FrontendURL string

	now    func() time.Time
	verify func(hash, plain string) bool

	dummyOnce sync.Once
	dummy     string
}

func NewAuthService(users repository.UserRepository, tokens *utils.TokenService, mailer Mailer, bcryptCost int, resetTTL time.Duration, frontendURL string) *AuthService {
	return &AuthService{
		Users:       users,
		Tokens:      tokens,
		Mailer:      mailer,
		BcryptCost:  bcryptCost,
		ResetTTL:    resetTTL,
		FrontendURL: strings.TrimRight(frontendURL, "/"),
		now:         time.Now,
		verify:      utils.VerifyPassword,
	}
}

// RegisterInput is a trimmed registration payload.  Avatar and Resume are
// already uploaded and are not validated.
type RegisterInput struct {
	FirstName   string      `json:"firstName" validate:"required,min=2,max=50" label:"First name"`
	LastName    string      `json:"lastName" validate:"required,min=2,max=50" label:"Last name"`
	Email       string      `json:"email" validate:"required,email" label:"Email"`
	Password    string      `json:"password" validate:"required,strongpw" label:"Password"`
	Gender      string      `json:"gender" validate:"omitempty,gender" label:"Gender"`
	Phone       string      `json:"phone" validate:"omitempty,phone" label:"Phone number"`
	AboutMe     string      `json:"aboutMe" validate:"omitempty,min=5" label:"About Me"`
	Portfolio   string      `json:"portfolio" validate:"omitempty,weburl" label:"Portfolio"`
	GithubURL   string      `json:"githubUrl" validate:"omitempty,weburl" label:"GitHub"`
	LinkedInURL string      `json:"linkedInUrl" validate:"omitempty,weburl" label:"LinkedIn"`
	Avatar      model.Media `json:"-"`
	Resume      model.Media `json:"-"`
}

type credentials struct {
	Email    string `json:"email" validate:"required" label:"Email"`
	Password string `json:"password" validate:"required" label:"Password"`
}

type passwordChange struct {
	OldPassword        string `json:"oldPassword" validate:"required" label:"Old password"`
	NewPassword        string `json:"newPassword" validate:"required,strongpw" label:"New password"`
	ConfirmNewPassword string `json:"confirmNewPassword" validate:"required,eqfield=NewPassword" label:"Password confirmation"`
}

type passwordReset struct {
	NewPassword        string `json:"newPassword" validate:"required,strongpw" label:"New password"`
	ConfirmNewPassword string `json:"confirmNewPassword" validate:"required,eqfield=NewPassword" label:"Password confirmation"`
}

type resetRequest struct {
	Email string `json:"email" validate:"required,email" label:"Email"`
}

// Register validates and stores a new user and opens a session for it.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, utils.SessionToken, error) {
	in.Email = model.NormalizeEmail(in.Email)
	if err := validator.Struct(&in); err != nil {
		return nil, utils.SessionToken{}, err
	}
	gender, _ := model.NormalizeGender(in.Gender)

	hash, err := utils.HashPassword(in.Password, s.BcryptCost)
	if err != nil {
		return nil, utils.SessionToken{}, validator.Fail("password", "Password is too long")
	}
	u := &model.User{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		Password:    hash,
		Gender:      gender,
		Phone:       in.Phone,
		AboutMe:     in.AboutMe,
		Portfolio:   in.Portfolio,
		GithubURL:   in.GithubURL,
		LinkedInURL: in.LinkedInURL,
		Avatar:      in.Avatar,
		Resume:      in.Resume,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, utils.SessionToken{}, err
	}
	tok, err := s.Tokens.IssueSession(u.ID.Hex())
	if err != nil {
		return nil, utils.SessionToken{}, fmt.Errorf("issue session: %w", err)
	}
	return u, tok, nil
}

// Login checks credentials and opens a session.  An unknown email still
// costs one bcrypt comparison so both failures take the same time.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, utils.SessionToken, error) {
	email = model.NormalizeEmail(email)
	if err := validator.Struct(&credentials{Email: email, Password: password}); err != nil {
		return nil, utils.SessionToken{}, err
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		s.verify(s.dummyHash(), password)
		return nil, utils.SessionToken{}, ErrInvalidCredentials
	}
	if err != nil {
		return nil, utils.SessionToken{}, err
	}
	if !s.verify(u.Password, password) {
		return nil, utils.SessionToken{}, ErrInvalidCredentials
	}
	tok, err := s.Tokens.IssueSession(u.ID.Hex())
	if err != nil {
		return nil, utils.SessionToken{}, fmt.Errorf("issue session: %w", err)
	}
	return u, tok, nil
}

// UpdatePassword changes the password of an authenticated user after
// checking the current one.
func (s *AuthService) UpdatePassword(ctx context.Context, u *model.User, oldPassword, newPassword, confirm string) error {
	if err := validator.Struct(&passwordChange{oldPassword, newPassword, confirm}); err != nil {
		return err
	}
	if !s.verify(u.Password, oldPassword) {
		return ErrWrongPassword
	}
	hash, err := utils.HashPassword(newPassword, s.BcryptCost)
	if err != nil {
		return validator.Fail("newPassword", "New password is too long")
	}
	return s.Users.UpdatePassword(ctx, u.ID.Hex(), hash)
}

// ForgotPassword stores a fresh reset token for the account and mails its
// link.  An unknown address is not an error and changes nothing, so callers
// cannot tell registered emails apart.  If the mail cannot be sent the token
// is cleared again and the account returns to having no reset pending.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = model.NormalizeEmail(email)
	if err := validator.Struct(&resetRequest{Email: email}); err != nil {
		return err
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		logger.Log.Debug("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return err
	}

	rt, err := utils.NewResetToken(s.ResetTTL)
	if err != nil {
		return fmt.Errorf("reset token: %w", err)
	}
	if err := s.Users.SetResetToken(ctx, u.ID.Hex(), rt.Hash, rt.Exp); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/password/reset/%s", s.FrontendURL, rt.Plain)
	body := "You requested a password reset. Click the link below to reset your password:\n\n" +
		link + "\n\nIf you did not request this, please ignore this email."
	if err := s.Mailer.Send(ctx, u.Email, "Password Reset Request", body); err != nil {
		if clearErr := s.Users.ClearResetToken(ctx, u.ID.Hex()); clearErr != nil {
			logger.Log.WithFields(logrus.Fields{"user_id": u.ID.Hex()}).
				WithError(clearErr).Error("reset token rollback failed")
		}
		return fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}
	return nil
}

// ResetPassword consumes a reset token and sets the new password in the same
// write.  The token is usable once.
func (s *AuthService) ResetPassword(ctx context.Context, plain, newPassword, confirm string) error {
	if err := validator.Struct(&passwordReset{newPassword, confirm}); err != nil {
		return err
	}
	plain = strings.TrimSpace(plain)
	if plain == "" {
		return ErrInvalidResetToken
	}
	hash, err := utils.HashPassword(newPassword, s.BcryptCost)
	if err != nil {
		return validator.Fail("newPassword", "New password is too long")
	}
	err = s.Users.ConsumeResetToken(ctx, utils.HashResetToken(plain), hash, s.now())
	if errors.Is(err, repository.ErrNotFound) {
		return ErrInvalidResetToken
	}
	return err
}

// dummyHash is compared against when no account matches, at the configured
// cost.
func (s *AuthService) dummyHash() string {
	s.dummyOnce.Do(func() {
		s.dummy, _ = utils.HashPassword("dummy-password", s.BcryptCost)
	})
	return s.dummy
}
