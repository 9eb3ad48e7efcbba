package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/yourusername/streak-quiz-api/internal/domain/entity"
	"github.com/yourusername/streak-quiz-api/internal/domain/repository"
	"github.com/yourusername/streak-quiz-api/internal/handler/dto"
	apperrors "github.com/yourusername/streak-quiz-api/internal/pkg/errors"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 50
	minPasswordLength = 6
	tokenTypeBearer   = "Bearer"
)

// errInvalidCredentials - одинаковый ответ для неизвестного имени и неверного пароля
var errInvalidCredentials = fmt.Errorf("%w: invalid username or password", apperrors.ErrUnauthorized)

// TokenIssuer выпускает access-токены
type TokenIssuer interface {
	GenerateToken(user *entity.User) (string, error)
}

// AuthService регистрирует и аутентифицирует игроков
type AuthService struct {
	userRepo  repository.UserRepository
	tokens    TokenIssuer
	expiresIn int64
}

// NewAuthService создает сервис аутентификации. expiresInSec попадает в ответ клиенту.
func NewAuthService(userRepo repository.UserRepository, tokens TokenIssuer, expiresInSec int64) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens, expiresIn: expiresInSec}
}

// Register создает пользователя и сразу выдаёт токен
func (s *AuthService) Register(username, password string) (*dto.AuthResponse, error) {
	username = strings.TrimSpace(username)
	if n := utf8.RuneCountInString(username); n < minUsernameLength || n > maxUsernameLength {
		return nil, fmt.Errorf("%w: username must be %d-%d characters", apperrors.ErrValidation, minUsernameLength, maxUsernameLength)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrValidation, minPasswordLength)
	}

	exists, err := s.userRepo.ExistsByUsername(username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: username %s already taken", apperrors.ErrConflict, username)
	}

	// Пароль хешируется в entity.User.BeforeSave
	user := &entity.User{Username: username, Password: password}
	if err := s.userRepo.Create(user); err != nil {
		log.Printf("[AuthService] Ошибка регистрации пользователя %s: %v", username, err)
		return nil, err
	}
	log.Printf("[AuthService] Зарегистрирован пользователь ID=%d (%s)", user.ID, user.Username)

	return s.issue(user)
}

// Login проверяет учётные данные и выдаёт токен
func (s *AuthService) Login(username, password string) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !user.CheckPassword(password) {
		log.Printf("[AuthService] Неверный пароль для пользователя ID=%d", user.ID)
		return nil, errInvalidCredentials
	}
	return s.issue(user)
}

// GetUserByID возвращает пользователя для /users/me
func (s *AuthService) GetUserByID(userID uint) (*entity.User, error) {
	return s.userRepo.GetByID(userID)
}

func (s *AuthService) issue(user *entity.User) (*dto.AuthResponse, error) {
	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		User:        dto.NewUserDTO(user),
		AccessToken: token,
		TokenType:   tokenTypeBearer,
		ExpiresIn:   s.expiresIn,
	}, nil
}
