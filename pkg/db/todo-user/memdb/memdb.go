// Package memdb keeps todo users in memory. It is meant for tests of the packages
// that depend on the todo user DB.
package memdb

import (
	"sync"

	userTypes "github.com/todo-app/todo-backend/pkg/user-management/types"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MemoryTodoUserDB struct {
	mu    sync.Mutex
	users []userTypes.User

	// Err is returned by every call when set
	Err error
}

func New() *MemoryTodoUserDB {
	return &MemoryTodoUserDB{}
}

func (m *MemoryTodoUserDB) find(userID string) (int, error) {
	for i, u := range m.users {
		if u.ID.Hex() == userID {
			return i, nil
		}
	}
	return -1, userTypes.ErrUserNotFound
}

func cloneUser(u userTypes.User) userTypes.User {
	if u.Tasks != nil {
		u.Tasks = append([]userTypes.Task{}, u.Tasks...)
	}
	return u
}

func (m *MemoryTodoUserDB) AddUser(user userTypes.User) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}

	for _, u := range m.users {
		if user.Email != "" && u.Email == user.Email {
			return "", userTypes.ErrEmailTaken
		}
	}
	user.ID = primitive.NewObjectID()
	if user.Tasks == nil {
		user.Tasks = []userTypes.Task{}
	}
	m.users = append(m.users, cloneUser(user))
	return user.ID.Hex(), nil
}

func (m *MemoryTodoUserDB) GetUser(userID string) (userTypes.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return userTypes.User{}, m.Err
	}

	i, err := m.find(userID)
	if err != nil {
		return userTypes.User{}, err
	}
	return cloneUser(m.users[i]), nil
}

func (m *MemoryTodoUserDB) GetUserByEmail(email string) (userTypes.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return userTypes.User{}, m.Err
	}

	for _, u := range m.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return userTypes.User{}, userTypes.ErrUserNotFound
}

func (m *MemoryTodoUserDB) UpdateLoginInfos(userID string, lastLogin int64, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	i, err := m.find(userID)
	if err != nil {
		return err
	}
	m.users[i].Timestamps.LastLogin = lastLogin
	if passwordHash != "" {
		m.users[i].Password = passwordHash
	}
	return nil
}

// SetPasswordHash replaces the stored hash, to simulate accounts written by older versions
func (m *MemoryTodoUserDB) SetPasswordHash(userID string, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, err := m.find(userID)
	if err != nil {
		return err
	}
	m.users[i].Password = passwordHash
	return nil
}

func (m *MemoryTodoUserDB) AddTask(userID string, task userTypes.Task) (userTypes.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return userTypes.Task{}, m.Err
	}

	i, err := m.find(userID)
	if err != nil {
		return userTypes.Task{}, err
	}
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	m.users[i].Tasks = append(m.users[i].Tasks, task)
	return task, nil
}

func (m *MemoryTodoUserDB) UpdateTask(userID string, taskID string, upd userTypes.TaskUpdate) (userTypes.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return userTypes.Task{}, m.Err
	}

	i, err := m.find(userID)
	if err != nil {
		return userTypes.Task{}, err
	}
	return m.users[i].ApplyTaskUpdate(taskID, upd)
}

func (m *MemoryTodoUserDB) DeleteTask(userID string, taskID string) (userTypes.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return userTypes.Task{}, m.Err
	}

	i, err := m.find(userID)
	if err != nil {
		return userTypes.Task{}, err
	}
	return m.users[i].RemoveTask(taskID)
}

func (m *MemoryTodoUserDB) ToggleTask(userID string, taskID string) (userTypes.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return userTypes.Task{}, m.Err
	}

	i, err := m.find(userID)
	if err != nil {
		return userTypes.Task{}, err
	}
	return m.users[i].ToggleTask(taskID)
}

// RemoveUser drops the account with the given id
func (m *MemoryTodoUserDB) RemoveUser(userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	i, err := m.find(userID)
	if err != nil {
		return err
	}
	m.users = append(m.users[:i], m.users[i+1:]...)
	return nil
}
