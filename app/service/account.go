package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pinpoint-app/ms-go-accounts/app/dto"
	"github.com/pinpoint-app/ms-go-accounts/app/entity"
	"github.com/pinpoint-app/ms-go-accounts/app/mailer"
	"github.com/pinpoint-app/ms-go-accounts/app/repository"
	"github.com/pinpoint-app/ms-go-accounts/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAccountExists      = errors.New("user already exists")
	ErrAccountNotFound    = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrMailDelivery       = errors.New("failed to send email for password reset")
	ErrWeakPassword       = errors.New("password does not meet policy requirements")
)

type Claims struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)
	FindByID(ctx context.Context, id bson.ObjectID) (*entity.Account, error)
	VerifyByToken(ctx context.Context, token string, now time.Time) (bool, error)
	SetPendingToken(ctx context.Context, id bson.ObjectID, token string, expiresAt time.Time) error
	UpdatePassword(ctx context.Context, id bson.ObjectID, passwordHash string) error
}

// AccountService orchestrates the credential lifecycle:
// register -> verify -> login -> forgot-password -> reset-password.
type AccountService struct {
	repo   AccountRepository
	mailer mailer.Mailer
	cfg    *config.Config
}

func NewAccountService(repo AccountRepository, m mailer.Mailer, cfg *config.Config) *AccountService {
	return &AccountService{repo: repo, mailer: m, cfg: cfg}
}

func (s *AccountService) Register(ctx context.Context, email, password string) (*dto.RegisterResult, error) {
	email = NormalizeEmail(email)

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAccountExists
	}

	if err := s.cfg.PasswordPolicy.Validate(password); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrWeakPassword, err.Error())
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	account := &entity.Account{
		Email:        email,
		PasswordHash: string(hashedPassword),
		IsVerified:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The unique index backstops the lookup above against concurrent
	// registrations of the same address.
	if err := s.repo.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrAccountExists
		}
		return nil, err
	}

	return &dto.RegisterResult{AccountID: account.ID.Hex()}, nil
}

func (s *AccountService) Login(ctx context.Context, email, password string) (*dto.LoginResult, error) {
	account, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// Verification status does not gate login.
	token, err := s.signToken(account, s.cfg.LoginTokenSecret, s.cfg.LoginTokenTTL)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResult{Token: token}, nil
}

// VerifyEmail honors a pending token by exact match against the stored
// value, provided its stored expiry is still in the future. The match,
// flag flip, and token clearing happen in one conditional store update.
func (s *AccountService) VerifyEmail(ctx context.Context, token string) error {
	matched, err := s.repo.VerifyByToken(ctx, token, time.Now())
	if err != nil {
		return err
	}
	if !matched {
		return ErrInvalidToken
	}
	return nil
}

// ForgotPassword issues a reset token, persists it on the account, and mails
// a reset link. A mail failure surfaces as ErrMailDelivery with the token
// left persisted: the account sits in a pending-reset state until the token
// expires.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) (*dto.ForgotPasswordResult, error) {
	account, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}

	token, err := s.signToken(account, s.cfg.ResetTokenSecret, s.cfg.ResetTokenTTL)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(s.cfg.ResetTokenTTL)
	if err := s.repo.SetPendingToken(ctx, account.ID, token, expiresAt); err != nil {
		return nil, err
	}

	link := strings.TrimRight(s.cfg.ResetLinkBase, "/") + "/" + token
	body := "Click the following link to reset your password: " + link
	if err := s.mailer.Send(ctx, account.Email, "Reset Password", body); err != nil {
		logrus.WithError(err).WithField("email", account.Email).Warn("Reset password mail delivery failed")
		return nil, fmt.Errorf("%w: %s", ErrMailDelivery, err.Error())
	}

	return &dto.ForgotPasswordResult{ResetToken: token}, nil
}

// ResetPassword accepts any token that verifies under the reset secret and
// is unexpired; the stored pending-token fields are not consulted. On
// success the new hash is written and the pending-token pair is cleared in
// the same update.
func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := parseToken(token, s.cfg.ResetTokenSecret)
	if err != nil {
		return ErrInvalidToken
	}

	id, err := bson.ObjectIDFromHex(claims.AccountID)
	if err != nil {
		return ErrInvalidToken
	}

	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrInvalidToken
	}

	if err := s.cfg.PasswordPolicy.Validate(newPassword); err != nil {
		return fmt.Errorf("%w: %s", ErrWeakPassword, err.Error())
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cfg.BcryptCost)
	if err != nil {
		return err
	}

	return s.repo.UpdatePassword(ctx, account.ID, string(hashedPassword))
}

// ValidateLoginToken checks a bearer token against the login secret.
func (s *AccountService) ValidateLoginToken(tokenString string) (*Claims, error) {
	return parseToken(tokenString, s.cfg.LoginTokenSecret)
}

// GetAccount resolves the account behind a validated token's identifier.
func (s *AccountService) GetAccount(ctx context.Context, accountID string) (*entity.Account, error) {
	id, err := bson.ObjectIDFromHex(accountID)
	if err != nil {
		return nil, ErrAccountNotFound
	}

	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

func (s *AccountService) signToken(account *entity.Account, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		AccountID: account.ID.Hex(),
		Email:     account.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   account.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func parseToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
