package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"afyalink/internal/config"
	"afyalink/internal/domain"
	"afyalink/internal/repository"
	"afyalink/internal/service/audit"
)

type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

type Service interface {
	Login(ctx context.Context, input domain.LoginInput, ip, userAgent *string) (*domain.TokenResponse, error)
	Logout(ctx context.Context, actor audit.Actor) error
	ValidateAccessToken(token string) (*Claims, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	CreateUser(ctx context.Context, actor audit.Actor, input domain.CreateUserInput) (*domain.User, error)
}

type service struct {
	userRepo repository.UserRepository
	sink     *audit.Sink
	cfg      *config.Config
}

func NewService(userRepo repository.UserRepository, sink *audit.Sink, cfg *config.Config) Service {
	return &service{
		userRepo: userRepo,
		sink:     sink,
		cfg:      cfg,
	}
}

func (s *service) Login(ctx context.Context, input domain.LoginInput, ip, userAgent *string) (*domain.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		s.sink.LoginFailed(input.Email, ip, userAgent)
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		s.sink.LoginFailed(input.Email, ip, userAgent)
		return nil, domain.ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		s.sink.LoginFailed(input.Email, ip, userAgent)
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.sink.LoginSucceeded(audit.Actor{
		ID:         user.ID,
		Role:       user.Role,
		Name:       user.FullName,
		IPAddress:  ip,
		UserAgent:  userAgent,
		FacilityID: user.FacilityID,
	})

	return &domain.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.cfg.JWTAccessExpiry.Seconds()),
		User:        user,
	}, nil
}

func (s *service) Logout(ctx context.Context, actor audit.Actor) error {
	s.sink.LoggedOut(actor)
	return nil
}

func (s *service) generateAccessToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTAccessExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *service) ValidateAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

func (s *service) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *service) CreateUser(ctx context.Context, actor audit.Actor, input domain.CreateUserInput) (*domain.User, error) {
	if !domain.UserRole(input.Role).IsValid() {
		return nil, fmt.Errorf("invalid role %q", input.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: string(hash),
		FullName:     input.FullName,
		Role:         input.Role,
		FacilityID:   input.FacilityID,
		Phone:        input.Phone,
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.sink.StaffCreated(actor, user)
	return user, nil
}
