package service

import (
	"github.com/legendatm/lingoflow/internal/domain"
	"github.com/legendatm/lingoflow/internal/repository"
)

// AuthService handles authentication logic
type AuthService struct {
	userRepo    repository.UserRepository
	botPassword string
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, botPassword string) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		botPassword: botPassword,
	}
}

// CheckPassword verifies if provided password matches
func (s *AuthService) CheckPassword(password string) bool {
	return password == s.botPassword
}

// IsAuthorized checks if user is authorized
func (s *AuthService) IsAuthorized(userID int64) (bool, error) {
	return s.userRepo.IsAuthorized(userID)
}

// AuthorizeUser authorizes a user
func (s *AuthService) AuthorizeUser(userID int64) error {
	return s.userRepo.AuthorizeUser(userID)
}

// EnsureUserExists creates user record if doesn't exist
func (s *AuthService) EnsureUserExists(userID int64) error {
	return s.userRepo.EnsureUserExists(userID)
}

// GetStudyMode returns the user's preferred study mode
func (s *AuthService) GetStudyMode(userID int64) (domain.StudyMode, error) {
	return s.userRepo.GetStudyMode(userID)
}

// SetStudyMode stores the user's preferred study mode
func (s *AuthService) SetStudyMode(userID int64, mode domain.StudyMode) error {
	return s.userRepo.SetStudyMode(userID, mode)
}
