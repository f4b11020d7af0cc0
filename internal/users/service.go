package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"jobboard-backend/internal/shared/auth"
	"jobboard-backend/internal/shared/server/middleware"
)

const minPasswordLen = 6

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Sign(claims auth.Claims) (string, error)
}

type Service struct {
	Repo     Repo
	Tokens   TokenIssuer
	HashCost int
}

func NewService(repo Repo, tokens TokenIssuer) *Service {
	return &Service{Repo: repo, Tokens: tokens, HashCost: bcrypt.DefaultCost}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Register creates a local account and returns it with a session token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, string, error) {
	user, err := s.create(ctx, in)
	if err != nil {
		return User{}, "", err
	}
	token, err := s.IssueToken(user)
	if err != nil {
		return User{}, "", err
	}
	return user, token, nil
}

func (s *Service) create(ctx context.Context, in RegisterInput) (User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = RoleJobSeeker
	}
	if name == "" || email == "" {
		return User{}, fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}
	if !SelfAssignable(role) {
		return User{}, fmt.Errorf("%w: role %q cannot be chosen", ErrInvalidInput, role)
	}
	if len(in.Password) < minPasswordLen {
		return User{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost())
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	user := User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	return s.Repo.GetByID(ctx, user.ID)
}

// Login checks the password and returns the user with a fresh token.
func (s *Service) Login(ctx context.Context, email, password string) (User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return User{}, "", ErrBadCredential
	}
	user, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, "", ErrBadCredential
		}
		return User{}, "", err
	}
	if user.PasswordHash == "" {
		return User{}, "", ErrBadCredential
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return User{}, "", ErrBadCredential
	}
	token, err := s.IssueToken(user)
	if err != nil {
		return User{}, "", err
	}
	return user, token, nil
}

// EnsureUser returns the account for in.Email, creating it when missing.
func (s *Service) EnsureUser(ctx context.Context, in RegisterInput) (User, error) {
	existing, err := s.Repo.GetByEmail(ctx, in.Email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}
	user, err := s.create(ctx, in)
	if errors.Is(err, ErrEmailTaken) {
		return s.Repo.GetByEmail(ctx, in.Email)
	}
	return user, err
}

// UpsertOAuth finds or creates a job seeker for an externally verified email.
func (s *Service) UpsertOAuth(ctx context.Context, email, name string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return User{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	existing, err := s.Repo.GetByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}
	if strings.TrimSpace(name) == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	user := User{
		ID:    uuid.NewString(),
		Name:  strings.TrimSpace(name),
		Email: email,
		Role:  RoleJobSeeker,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return s.Repo.GetByEmail(ctx, email)
		}
		return User{}, err
	}
	return s.Repo.GetByID(ctx, user.ID)
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if _, err := uuid.Parse(strings.TrimSpace(userID)); err != nil {
		return User{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, userID)
}

// ResolveIdentity loads the caller for RequireAuth.
func (s *Service) ResolveIdentity(ctx context.Context, userID string) (middleware.Identity, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return middleware.Identity{}, middleware.ErrUnknownUser
		}
		return middleware.Identity{}, err
	}
	return middleware.Identity{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}, nil
}

func (s *Service) IssueToken(user User) (string, error) {
	if s.Tokens == nil {
		return "", errors.New("token issuer not configured")
	}
	claims := auth.Claims{Role: user.Role, Email: user.Email, Name: user.Name}
	claims.Subject = user.ID
	return s.Tokens.Sign(claims)
}

func (s *Service) cost() int {
	if s.HashCost == 0 {
		return bcrypt.DefaultCost
	}
	return s.HashCost
}
