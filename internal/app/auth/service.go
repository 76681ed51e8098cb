package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"taskboard/internal/app/user"
	"taskboard/internal/middleware"
	"taskboard/internal/policy"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type Service interface {
	Register(req RegisterRequest) (*AuthResponse, error)
	Login(req LoginRequest) (*AuthResponse, error)
}

type service struct {
	userRepo user.Repository
	secret   string
	tokenTTL time.Duration
	logger   *zap.SugaredLogger
}

func NewService(userRepo user.Repository, secret string, tokenTTL time.Duration, logger *zap.Logger) Service {
	return &service{
		userRepo: userRepo,
		secret:   secret,
		tokenTTL: tokenTTL,
		logger:   logger.Sugar(),
	}
}

func (s *service) Register(req RegisterRequest) (*AuthResponse, error) {
	if _, err := s.userRepo.GetUserByEmail(req.Email); err == nil {
		return nil, fmt.Errorf("email %s is already registered", req.Email)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if _, err := s.userRepo.GetUserByUsername(req.Username); err == nil {
		return nil, fmt.Errorf("username %s is already taken", req.Username)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &user.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		DisplayName:  req.Username,
		Role:         policy.RoleUser,
	}
	if err := s.userRepo.CreateUser(u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Infow("User registered", "user_id", u.ID, "username", u.Username)

	return s.issueToken(u)
}

func (s *service) Login(req LoginRequest) (*AuthResponse, error) {
	u, err := s.userRepo.GetUserByEmail(req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueToken(u)
}

func (s *service) issueToken(u *user.User) (*AuthResponse, error) {
	now := time.Now()
	claims := middleware.Claims{
		UserID: u.ID,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			Subject:   u.Username,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &AuthResponse{Token: signed, User: u}, nil
}
