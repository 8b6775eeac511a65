package usermanagement

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	jwthandling "github.com/todo-app/todo-backend/pkg/jwt-handling"
	"github.com/todo-app/todo-backend/pkg/user-management/pwhash"
	userTypes "github.com/todo-app/todo-backend/pkg/user-management/types"
	umUtils "github.com/todo-app/todo-backend/pkg/user-management/utils"
)

var (
	ErrEmailRequired   = errors.New("email is required")
	ErrInvalidPassword = errors.New("password is required and must be 6 characters minimum")
	ErrWrongPassword   = errors.New("invalid password")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrTitleRequired   = errors.New("title is required")
)

const (
	DefaultAccessTokenTTL  = 24 * time.Hour
	DefaultRefreshTokenTTL = 30 * 24 * time.Hour
)

// TodoUserDBConnector is the document store holding accounts with their embedded tasks
type TodoUserDBConnector interface {
	AddUser(user userTypes.User) (string, error)
	GetUser(userID string) (userTypes.User, error)
	GetUserByEmail(email string) (userTypes.User, error)
	UpdateLoginInfos(userID string, lastLogin int64, passwordHash string) error

	AddTask(userID string, task userTypes.Task) (userTypes.Task, error)
	UpdateTask(userID string, taskID string, upd userTypes.TaskUpdate) (userTypes.Task, error)
	DeleteTask(userID string, taskID string) (userTypes.Task, error)
	ToggleTask(userID string, taskID string) (userTypes.Task, error)
}

type TokenConfig struct {
	SignKey   string
	ExpiresIn time.Duration
}

type Config struct {
	AccessToken  TokenConfig
	RefreshToken TokenConfig
	PWHashing    pwhash.Params
}

type Service struct {
	userDBConn   TodoUserDBConnector
	hasher       *pwhash.Hasher
	accessToken  TokenConfig
	refreshToken TokenConfig
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
}

type LoginResult struct {
	User   userTypes.User
	Tokens TokenPair
}

func NewService(userDBConn TodoUserDBConnector, conf Config) *Service {
	if conf.AccessToken.ExpiresIn <= 0 {
		conf.AccessToken.ExpiresIn = DefaultAccessTokenTTL
	}
	if conf.RefreshToken.ExpiresIn <= 0 {
		conf.RefreshToken.ExpiresIn = DefaultRefreshTokenTTL
	}
	return &Service{
		userDBConn:   userDBConn,
		hasher:       pwhash.NewHasher(conf.PWHashing),
		accessToken:  conf.AccessToken,
		refreshToken: conf.RefreshToken,
	}
}

// Register creates a new account. The email pre-check gives a friendly error; the unique
// index of the store catches concurrent registrations with the same address.
func (s *Service) Register(name string, email string, password string) (userTypes.User, error) {
	email = umUtils.SanitizeEmail(email)
	if email == "" {
		return userTypes.User{}, ErrEmailRequired
	}
	if !umUtils.CheckPasswordFormat(password) {
		return userTypes.User{}, ErrInvalidPassword
	}

	_, err := s.userDBConn.GetUserByEmail(email)
	if err == nil {
		return userTypes.User{}, userTypes.ErrEmailTaken
	}
	if !errors.Is(err, userTypes.ErrUserNotFound) {
		return userTypes.User{}, fmt.Errorf("failed to check email: %w", err)
	}

	passwordHash, err := s.hasher.HashPassword(password)
	if err != nil {
		return userTypes.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser := umUtils.InitNewEmailUser(name, email, passwordHash)
	id, err := s.userDBConn.AddUser(newUser)
	if err != nil {
		if errors.Is(err, userTypes.ErrEmailTaken) {
			return userTypes.User{}, err
		}
		return userTypes.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	user, err := s.userDBConn.GetUser(id)
	if err != nil {
		return userTypes.User{}, fmt.Errorf("failed to read created user: %w", err)
	}
	slog.Info("signup successful", slog.String("subject", id), slog.String("email", umUtils.BlurEmailAddress(email)))
	return user, nil
}

func (s *Service) Login(email string, password string) (LoginResult, error) {
	email = umUtils.SanitizeEmail(email)
	if email == "" {
		return LoginResult{}, ErrEmailRequired
	}
	if !umUtils.CheckPasswordFormat(password) {
		return LoginResult{}, ErrInvalidPassword
	}

	user, err := s.userDBConn.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, userTypes.ErrUserNotFound) {
			slog.Warn("login attempt with unknown email address", slog.String("email", umUtils.BlurEmailAddress(email)))
			return LoginResult{}, err
		}
		return LoginResult{}, fmt.Errorf("failed to find user: %w", err)
	}

	match, err := s.hasher.ComparePasswordWithHash(user.Password, password)
	if err != nil || !match {
		if err == nil {
			err = errors.New("passwords do not match")
		}
		slog.Warn("login attempt with wrong password", slog.String("subject", user.ID.Hex()), slog.String("error", err.Error()))
		return LoginResult{}, ErrWrongPassword
	}

	userID := user.ID.Hex()
	tokens, err := s.generateTokens(userID, user.Email)
	if err != nil {
		return LoginResult{}, err
	}

	newHash := ""
	if s.hasher.NeedsRehash(user.Password) {
		if newHash, err = s.hasher.HashPassword(password); err != nil {
			slog.Error("failed to rehash password", slog.String("subject", userID), slog.String("error", err.Error()))
			newHash = ""
		}
	}
	if err := s.userDBConn.UpdateLoginInfos(userID, time.Now().Unix(), newHash); err != nil {
		slog.Error("failed to update login infos", slog.String("subject", userID), slog.String("error", err.Error()))
	}

	slog.Info("login successful", slog.String("subject", userID))
	return LoginResult{User: user, Tokens: tokens}, nil
}

func (s *Service) generateTokens(userID string, email string) (TokenPair, error) {
	accessToken, err := jwthandling.GenerateNewTodoUserToken(
		s.accessToken.ExpiresIn,
		userID,
		email,
		userTypes.ROLE_USER,
		s.accessToken.SignKey,
	)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := jwthandling.GenerateNewTodoUserToken(
		s.refreshToken.ExpiresIn,
		userID,
		email,
		userTypes.ROLE_USER,
		s.refreshToken.SignKey,
	)
	if err != nil {
		return TokenPair{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.accessToken.ExpiresIn,
	}, nil
}

// ValidateAccessToken resolves the claims of an access token
func (s *Service) ValidateAccessToken(token string) (*jwthandling.TodoUserClaims, error) {
	claims, valid, err := jwthandling.ValidateTodoUserToken(token, s.accessToken.SignKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	if !valid || claims == nil || claims.ID == "" {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

func (s *Service) CreateTask(userID string, title string) (userTypes.Task, error) {
	if userID == "" {
		return userTypes.Task{}, ErrUnauthorized
	}
	title = umUtils.SanitizeTitle(title)
	if title == "" {
		return userTypes.Task{}, ErrTitleRequired
	}
	return s.userDBConn.AddTask(userID, userTypes.NewTask(title))
}

func (s *Service) ListTasks(userID string) ([]userTypes.Task, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	user, err := s.userDBConn.GetUser(userID)
	if err != nil {
		return nil, err
	}
	if user.Tasks == nil {
		return []userTypes.Task{}, nil
	}
	return user.Tasks, nil
}

func (s *Service) UpdateTask(userID string, taskID string, upd userTypes.TaskUpdate) (userTypes.Task, error) {
	if userID == "" {
		return userTypes.Task{}, ErrUnauthorized
	}
	if upd.Title != nil {
		title := umUtils.SanitizeTitle(*upd.Title)
		upd.Title = &title
	}
	return s.userDBConn.UpdateTask(userID, taskID, upd)
}

func (s *Service) DeleteTask(userID string, taskID string) (userTypes.Task, error) {
	if userID == "" {
		return userTypes.Task{}, ErrUnauthorized
	}
	return s.userDBConn.DeleteTask(userID, taskID)
}

func (s *Service) ToggleTask(userID string, taskID string) (userTypes.Task, error) {
	if userID == "" {
		return userTypes.Task{}, ErrUnauthorized
	}
	return s.userDBConn.ToggleTask(userID, taskID)
}
