package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

const tokenTTL = 12 * time.Hour

type Service struct {
	DB     *pgxpool.Pool
	Secret string
}

func NewService(db *pgxpool.Pool, secret string) *Service {
	return &Service{DB: db, Secret: secret}
}

type LoginResult struct {
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	TenantID string `json:"tenantId"`
	Role     string `json:"role"`
}

func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var userID, tenantID, role, passwordHash string
	err := s.DB.QueryRow(ctx, `
    SELECT id, tenant_id, role, password_hash
    FROM users
    WHERE email = $1
  `, email).Scan(&userID, &tenantID, &role, &passwordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)) != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := IssueToken(s.Secret, userID, tenantID, role, tokenTTL)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Token: token, UserID: userID, TenantID: tenantID, Role: role}, nil
}
