package usermanagement

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/todo-app/todo-backend/pkg/db/todo-user/memdb"
	jwthandling "github.com/todo-app/todo-backend/pkg/jwt-handling"
	"github.com/todo-app/todo-backend/pkg/user-management/pwhash"
	userTypes "github.com/todo-app/todo-backend/pkg/user-management/types"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessKey  = "access-secret"
	testRefreshKey = "refresh-secret"
)

func newTestService(t *testing.T) (*Service, *memdb.MemoryTodoUserDB) {
	t.Helper()
	store := memdb.New()
	s := NewService(store, Config{
		AccessToken:  TokenConfig{SignKey: testAccessKey},
		RefreshToken: TokenConfig{SignKey: testRefreshKey},
		PWHashing:    pwhash.Params{Memory: 8 * 1024, Iterations: 1, Parallelism: 1},
	})
	return s, store
}

func registerUser(t *testing.T, s *Service, email string) userTypes.User {
	t.Helper()
	u, err := s.Register("", email, "secret1")
	require.NoError(t, err)
	return u
}

func TestRegister(t *testing.T) {
	t.Run("with missing email", func(t *testing.T) {
		s, _ := newTestService(t)
		_, err := s.Register("", "  ", "secret1")
		assert.ErrorIs(t, err, ErrEmailRequired)
	})

	t.Run("with short passwords", func(t *testing.T) {
		s, store := newTestService(t)
		for _, pw := range []string{"", "1", "12345"} {
			_, err := s.Register("", "a@x.com", pw)
			assert.ErrorIs(t, err, ErrInvalidPassword)
		}
		_, err := store.GetUserByEmail("a@x.com")
		assert.ErrorIs(t, err, userTypes.ErrUserNotFound, "no account should be created")
	})

	t.Run("with long passwords", func(t *testing.T) {
		s, _ := newTestService(t)
		for i, n := range []int{512, 513, 4096} {
			_, err := s.Register("", fmt.Sprintf("long%d@x.com", i), strings.Repeat("a", n))
			assert.NoError(t, err, "length %d", n)
		}

		res, err := s.Login("long1@x.com", strings.Repeat("a", 513))
		require.NoError(t, err)
		assert.NotEmpty(t, res.Tokens.AccessToken)
	})

	t.Run("with emoji password", func(t *testing.T) {
		s, _ := newTestService(t)
		_, err := s.Register("", "emoji@x.com", "😀😀😀")
		assert.NoError(t, err)
	})

	t.Run("with valid input", func(t *testing.T) {
		s, _ := newTestService(t)
		u, err := s.Register("Anna", " A@x.com ", "secret1")
		require.NoError(t, err)
		assert.False(t, u.ID.IsZero())
		assert.Equal(t, "Anna", u.Name)
		assert.Equal(t, "a@x.com", u.Email)
		assert.Equal(t, userTypes.ROLE_USER, u.Role)
		assert.NotNil(t, u.Tasks)
		assert.Empty(t, u.Tasks)
		assert.NotEqual(t, "secret1", u.Password)
	})

	t.Run("with duplicate email", func(t *testing.T) {
		s, _ := newTestService(t)
		registerUser(t, s, "a@x.com")
		_, err := s.Register("", "A@X.com", "secret2")
		assert.ErrorIs(t, err, userTypes.ErrEmailTaken)
	})

	t.Run("with store failure", func(t *testing.T) {
		s, store := newTestService(t)
		store.Err = errors.New("db down")
		_, err := s.Register("", "a@x.com", "secret1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, userTypes.ErrEmailTaken)
	})
}

func TestLogin(t *testing.T) {
	t.Run("with missing fields", func(t *testing.T) {
		s, _ := newTestService(t)
		_, err := s.Login("", "secret1")
		assert.ErrorIs(t, err, ErrEmailRequired)
		_, err = s.Login("a@x.com", "123")
		assert.ErrorIs(t, err, ErrInvalidPassword)
	})

	t.Run("with unknown email", func(t *testing.T) {
		s, _ := newTestService(t)
		_, err := s.Login("nobody@x.com", "secret1")
		assert.ErrorIs(t, err, userTypes.ErrUserNotFound)
	})

	t.Run("with wrong password", func(t *testing.T) {
		s, _ := newTestService(t)
		registerUser(t, s, "a@x.com")
		res, err := s.Login("a@x.com", "wrong-password")
		assert.ErrorIs(t, err, ErrWrongPassword)
		assert.Empty(t, res.Tokens.AccessToken)
		assert.Empty(t, res.Tokens.RefreshToken)
	})

	t.Run("with correct credentials", func(t *testing.T) {
		s, store := newTestService(t)
		u := registerUser(t, s, "a@x.com")

		res, err := s.Login("a@x.com", "secret1")
		require.NoError(t, err)
		require.NotEmpty(t, res.Tokens.AccessToken)
		require.NotEmpty(t, res.Tokens.RefreshToken)
		assert.Equal(t, DefaultAccessTokenTTL, res.Tokens.ExpiresIn)

		claims, valid, err := jwthandling.ValidateTodoUserToken(res.Tokens.AccessToken, testAccessKey)
		require.NoError(t, err)
		require.True(t, valid)
		assert.Equal(t, u.ID.Hex(), claims.ID)
		assert.Equal(t, "a@x.com", claims.Email)
		assert.Equal(t, "user", claims.Role)
		assert.False(t, claims.ExpiresAt.Time.After(time.Now().Add(24*time.Hour)))

		refreshClaims, valid, err := jwthandling.ValidateTodoUserToken(res.Tokens.RefreshToken, testRefreshKey)
		require.NoError(t, err)
		require.True(t, valid)
		assert.True(t, refreshClaims.ExpiresAt.Time.After(time.Now().Add(29*24*time.Hour)))

		_, valid, _ = jwthandling.ValidateTodoUserToken(res.Tokens.RefreshToken, testAccessKey)
		assert.False(t, valid, "refresh token must not be accepted as access token")

		stored, err := store.GetUser(u.ID.Hex())
		require.NoError(t, err)
		assert.NotZero(t, stored.Timestamps.LastLogin)
	})

	t.Run("with legacy bcrypt hash", func(t *testing.T) {
		s, store := newTestService(t)
		u := registerUser(t, s, "a@x.com")
		legacy, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
		require.NoError(t, err)
		require.NoError(t, store.SetPasswordHash(u.ID.Hex(), string(legacy)))

		_, err = s.Login("a@x.com", "secret1")
		require.NoError(t, err)

		stored, err := store.GetUser(u.ID.Hex())
		require.NoError(t, err)
		assert.Contains(t, stored.Password, "$argon2id$", "password should be rehashed")

		_, err = s.Login("a@x.com", "secret1")
		assert.NoError(t, err)
	})
}

func TestValidateAccessToken(t *testing.T) {
	s, _ := newTestService(t)
	u := registerUser(t, s, "a@x.com")
	res, err := s.Login("a@x.com", "secret1")
	require.NoError(t, err)

	claims, err := s.ValidateAccessToken(res.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID.Hex(), claims.ID)

	_, err = s.ValidateAccessToken(res.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = s.ValidateAccessToken("garbage")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestTaskOperationsRequireUser(t *testing.T) {
	s, _ := newTestService(t)

	_, err := s.CreateTask("", "x")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = s.ListTasks("")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = s.UpdateTask("", "id", userTypes.TaskUpdate{})
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = s.DeleteTask("", "id")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = s.ToggleTask("", "id")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestTaskOperationsWithUnknownUser(t *testing.T) {
	s, _ := newTestService(t)
	unknown := "5f1d7f3e9d3e2a1b2c3d4e5f"

	_, err := s.CreateTask(unknown, "x")
	assert.ErrorIs(t, err, userTypes.ErrUserNotFound)
	_, err = s.ListTasks(unknown)
	assert.ErrorIs(t, err, userTypes.ErrUserNotFound)
	_, err = s.ToggleTask(unknown, unknown)
	assert.ErrorIs(t, err, userTypes.ErrUserNotFound)
}

func TestCreateAndListTasks(t *testing.T) {
	s, _ := newTestService(t)
	u := registerUser(t, s, "a@x.com")
	userID := u.ID.Hex()

	_, err := s.CreateTask(userID, "   ")
	assert.ErrorIs(t, err, ErrTitleRequired)

	task, err := s.CreateTask(userID, " buy milk ")
	require.NoError(t, err)
	assert.False(t, task.ID.IsZero())
	assert.Equal(t, "buy milk", task.Title)
	assert.False(t, task.Completed)

	_, err = s.CreateTask(userID, "walk dog")
	require.NoError(t, err)

	tasks, err := s.ListTasks(userID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "buy milk", tasks[0].Title)
	assert.Equal(t, "walk dog", tasks[1].Title)
}

func TestTaskIsolationBetweenAccounts(t *testing.T) {
	s, _ := newTestService(t)
	a := registerUser(t, s, "a@x.com")
	b := registerUser(t, s, "b@x.com")

	task, err := s.CreateTask(a.ID.Hex(), "secret plan")
	require.NoError(t, err)

	tasks, err := s.ListTasks(b.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, tasks)

	_, err = s.ToggleTask(b.ID.Hex(), task.ID.Hex())
	assert.ErrorIs(t, err, userTypes.ErrTaskNotFound)
	_, err = s.DeleteTask(b.ID.Hex(), task.ID.Hex())
	assert.ErrorIs(t, err, userTypes.ErrTaskNotFound)
}

func TestUpdateTask(t *testing.T) {
	s, _ := newTestService(t)
	u := registerUser(t, s, "a@x.com")
	userID := u.ID.Hex()
	task, err := s.CreateTask(userID, "buy milk")
	require.NoError(t, err)

	completed := true
	updated, err := s.UpdateTask(userID, task.ID.Hex(), userTypes.TaskUpdate{Completed: &completed})
	require.NoError(t, err)
	assert.Equal(t, "buy milk", updated.Title)
	assert.True(t, updated.Completed)

	title := "  buy oat milk "
	notCompleted := false
	updated, err = s.UpdateTask(userID, task.ID.Hex(), userTypes.TaskUpdate{Title: &title, Completed: &notCompleted})
	require.NoError(t, err)
	assert.Equal(t, "buy oat milk", updated.Title)
	assert.False(t, updated.Completed)

	blank := "   "
	updated, err = s.UpdateTask(userID, task.ID.Hex(), userTypes.TaskUpdate{Title: &blank})
	require.NoError(t, err)
	assert.Equal(t, "buy oat milk", updated.Title, "blank title leaves the title unchanged")

	_, err = s.UpdateTask(userID, "not-an-id", userTypes.TaskUpdate{Completed: &completed})
	assert.ErrorIs(t, err, userTypes.ErrTaskNotFound)
}

func TestDeleteTask(t *testing.T) {
	s, _ := newTestService(t)
	u := registerUser(t, s, "a@x.com")
	userID := u.ID.Hex()

	var created []userTypes.Task
	for _, title := range []string{"a", "b", "c"} {
		task, err := s.CreateTask(userID, title)
		require.NoError(t, err)
		created = append(created, task)
	}

	removed, err := s.DeleteTask(userID, created[1].ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, created[1].ID, removed.ID)

	tasks, err := s.ListTasks(userID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "a", tasks[0].Title)
	assert.Equal(t, "c", tasks[1].Title)

	_, err = s.DeleteTask(userID, created[1].ID.Hex())
	assert.ErrorIs(t, err, userTypes.ErrTaskNotFound)
}

func TestToggleTaskIsInvolutive(t *testing.T) {
	s, _ := newTestService(t)
	u := registerUser(t, s, "a@x.com")
	userID := u.ID.Hex()
	task, err := s.CreateTask(userID, "buy milk")
	require.NoError(t, err)

	toggled, err := s.ToggleTask(userID, task.ID.Hex())
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	toggled, err = s.ToggleTask(userID, task.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, task.Completed, toggled.Completed)
}
