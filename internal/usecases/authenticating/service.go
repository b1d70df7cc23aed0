package authenticating

//go:generate mockgen -source=service.go -destination=mocks/service_mock.go -package=mocks

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gouveiaesilva/dashmilo-api/internal/config"
	"github.com/gouveiaesilva/dashmilo-api/internal/domain"
	"github.com/gouveiaesilva/dashmilo-api/pkg/apiErrors"
	"github.com/sirupsen/logrus"
)

const (
	sessionTTL    = 24 * time.Hour
	adminSubject  = "admin"
	secretSubject = "static-secret"
	tokenIssuer   = "dashmilo-api"
)

type Authenticator interface {
	// Login troca o segredo administrativo por um token de sessão
	Login(secret string) (*Session, error)
	ValidateToken(tokenString string) (*domain.Claims, error)
	// ValidateSecret aceita o segredo estático enviado direto no cabeçalho
	ValidateSecret(secret string) (*domain.Claims, error)
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Service struct {
	cfg *config.Config
	now func() time.Time
}

func NewService(cfg *config.Config) *Service {
	return &Service{
		cfg: cfg,
		now: time.Now,
	}
}

func (s *Service) Login(secret string) (*Session, error) {
	if _, err := s.ValidateSecret(secret); err != nil {
		return nil, err
	}

	expiresAt := s.now().Add(sessionTTL)
	token, err := generateJWT(adminSubject, s.now(), expiresAt, s.cfg.SecretKey)
	if err != nil {
		logrus.WithError(err).Error("Erro ao gerar token de sessão")
		return nil, NewAuthError(ErrTokenIssue, apiErrors.ErrInternalServer, "Erro ao gerar token de autenticação")
	}

	return &Session{Token: token, ExpiresAt: expiresAt}, nil
}

func (s *Service) ValidateSecret(secret string) (*domain.Claims, error) {
	expected := s.cfg.Auth.Secret
	if expected == "" {
		return nil, NewAuthError(ErrAuthDisabled, apiErrors.ErrInvalidSecret, "AUTH_SECRET não configurado")
	}

	secret = strings.TrimSpace(secret)
	if secret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(expected)) != 1 {
		return nil, NewAuthError(ErrInvalidSecret, apiErrors.ErrInvalidSecret, "Segredo incorreto")
	}

	return &domain.Claims{Subject: secretSubject, Admin: true}, nil
}

func generateJWT(subject string, issuedAt, expiresAt time.Time, secretKey string) (string, error) {
	claims := domain.Claims{
		Subject: subject,
		Admin:   true,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secretKey))
}

func (s *Service) ValidateToken(tokenString string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.SecretKey), nil
	}, jwt.WithTimeFunc(s.now), jwt.WithIssuer(tokenIssuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, NewAuthError(ErrExpiredToken, apiErrors.ErrExpiredToken, "Sessão expirada")
		}
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, err.Error())
	}

	claims, ok := token.Claims.(*domain.Claims)
	if !ok || !token.Valid {
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, "Token inválido")
	}

	return claims, nil
}
