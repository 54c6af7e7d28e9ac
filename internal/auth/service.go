package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/joeyShea/travel-map/internal/db"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour

	minPasswordLength = 8
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

var validAccountTypes = map[string]bool{"student": true, "traveler": true}

type Service struct {
	secret []byte
	db     db.Querier
}

type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

func NewService(secret string, db db.Querier) *Service {
	return &Service{
		secret: []byte(secret),
		db:     db,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (Traveler, TokenResponse, error) {
	if req.Email == "" || req.Name == "" {
		return Traveler{}, TokenResponse{}, errors.New("email and name required")
	}
	if len(req.Password) < minPasswordLength {
		return Traveler{}, TokenResponse{}, errors.New("password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return Traveler{}, TokenResponse{}, err
	}

	user := Traveler{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO travelers (id, email, name, password_hash)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at, updated_at
	`, user.ID, user.Email, user.Name, user.PasswordHash)
	if err := row.Scan(&user.CreatedAt, &user.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Traveler{}, TokenResponse{}, ErrEmailTaken
		}
		return Traveler{}, TokenResponse{}, err
	}

	tokens, err := s.GenerateTokens(ctx, user.ID)
	if err != nil {
		return Traveler{}, TokenResponse{}, err
	}
	return user, tokens, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (Traveler, TokenResponse, error) {
	user, err := s.travelerByEmail(ctx, req.Email)
	if err != nil {
		return Traveler{}, TokenResponse{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return Traveler{}, TokenResponse{}, ErrInvalidCredentials
	}

	tokens, err := s.GenerateTokens(ctx, user.ID)
	if err != nil {
		return Traveler{}, TokenResponse{}, err
	}
	return user, tokens, nil
}

// SetupProfile completes onboarding and marks the account verified.
func (s *Service) SetupProfile(ctx context.Context, userID string, req ProfileSetupRequest) (Traveler, error) {
	if !validAccountTypes[req.AccountType] {
		return Traveler{}, errors.New("account_type must be student or traveler")
	}
	if req.AccountType == "student" && req.College == "" {
		return Traveler{}, errors.New("students must name their college")
	}

	row := s.db.QueryRow(ctx, `
		UPDATE travelers
		SET account_type=$2, bio=$3, college=$4, profile_image_url=$5, verified=TRUE, updated_at=NOW()
		WHERE id=$1
		RETURNING id, email, name, bio, account_type, college, profile_image_url, verified, created_at, updated_at
	`, userID, req.AccountType, req.Bio, req.College, req.ProfileImageURL)

	var user Traveler
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &user.Bio, &user.AccountType,
		&user.College, &user.ProfileImageURL, &user.Verified, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return Traveler{}, err
	}
	return user, nil
}

func (s *Service) Profile(ctx context.Context, userID string) (Traveler, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, email, name, bio, account_type, college, profile_image_url, verified, created_at, updated_at
		FROM travelers WHERE id = $1
	`, userID)
	var user Traveler
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &user.Bio, &user.AccountType,
		&user.College, &user.ProfileImageURL, &user.Verified, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return Traveler{}, err
	}
	return user, nil
}

func (s *Service) GenerateTokens(ctx context.Context, userID string) (TokenResponse, error) {
	access, err := s.signToken(userID, accessTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}

	refresh, err := s.signToken(userID, refreshTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}

	if err := s.saveRefreshToken(ctx, refresh, userID, refreshTokenTTL); err != nil {
		return TokenResponse{}, err
	}

	return TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(accessTokenTTL.Seconds()),
	}, nil
}

func (s *Service) ValidateRefreshToken(ctx context.Context, token string) (string, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return "", err
	}

	userID, expiresAt, err := s.lookupRefreshToken(ctx, token)
	if err != nil || userID != claims.UserID || time.Now().After(expiresAt) {
		return "", errors.New("refresh token invalid")
	}
	return claims.UserID, nil
}

// RevokeRefreshToken invalidates one refresh token; used on logout.
func (s *Service) RevokeRefreshToken(ctx context.Context, token string) error {
	_, err := s.db.Exec(ctx, `
		UPDATE refresh_tokens SET revoked_at = NOW()
		WHERE token = $1 AND revoked_at IS NULL
	`, token)
	return err
}

func (s *Service) ValidateAccessToken(token string) (string, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

func (s *Service) travelerByEmail(ctx context.Context, email string) (Traveler, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, email, name, password_hash, bio, account_type, college, profile_image_url, verified, created_at, updated_at
		FROM travelers WHERE email = $1
	`, email)
	var user Traveler
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.Bio,
		&user.AccountType, &user.College, &user.ProfileImageURL, &user.Verified,
		&user.CreatedAt, &user.UpdatedAt); err != nil {
		return Traveler{}, err
	}
	return user, nil
}

func (s *Service) signToken(userID string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) parseToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("token invalid")
	}
	return claims, nil
}

func (s *Service) saveRefreshToken(ctx context.Context, token, userID string, ttl time.Duration) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO refresh_tokens (id, user_id, token, expires_at)
		VALUES ($1,$2,$3,$4)
	`, uuid.NewString(), userID, token, time.Now().Add(ttl))
	return err
}

func (s *Service) lookupRefreshToken(ctx context.Context, token string) (string, time.Time, error) {
	row := s.db.QueryRow(ctx, `
		SELECT user_id, expires_at
		FROM refresh_tokens
		WHERE token = $1 AND revoked_at IS NULL
	`, token)
	var userID string
	var expiresAt time.Time
	if err := row.Scan(&userID, &expiresAt); err != nil {
		return "", time.Time{}, err
	}
	return userID, expiresAt, nil
}
