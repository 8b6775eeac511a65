package types

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const ROLE_USER = "user"

var (
	ErrUserNotFound = errors.New("user not found")
	ErrTaskNotFound = errors.New("task not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// User is the account document. Its embedded task list is the todo list of the user.
type User struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"_id"`

	Name     string `bson:"name,omitempty" json:"name,omitempty"`
	Email    string `bson:"email" json:"email"`
	Password string `bson:"password" json:"-"`
	Role     string `bson:"role" json:"role"`

	Tasks      []Task     `bson:"todo" json:"tasks"`
	Timestamps Timestamps `bson:"timestamps" json:"timestamps"`
}

type Timestamps struct {
	CreatedAt int64 `bson:"createdAt" json:"createdAt"`
	LastLogin int64 `bson:"lastLogin" json:"lastLogin"`
}

type Task struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	Title     string             `bson:"title" json:"title"`
	Completed bool               `bson:"completed" json:"completed"`
}

// TaskUpdate holds the optional fields of a partial task update
type TaskUpdate struct {
	Title     *string
	Completed *bool
}

func (u TaskUpdate) IsEmpty() bool {
	return (u.Title == nil || *u.Title == "") && u.Completed == nil
}

func NewTask(title string) Task {
	return Task{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Completed: false,
	}
}

func NewUser(name string, email string, passwordHash string) User {
	return User{
		Name:     name,
		Email:    email,
		Password: passwordHash,
		Role:     ROLE_USER,
		Tasks:    []Task{},
		Timestamps: Timestamps{
			CreatedAt: time.Now().Unix(),
		},
	}
}

// FindTask finds a task in the user's list
func (u User) FindTask(id string) (Task, error) {
	for _, t := range u.Tasks {
		if t.ID.Hex() == id {
			return t, nil
		}
	}
	return Task{}, ErrTaskNotFound
}

// ApplyTaskUpdate changes only the fields present in the update
func (u *User) ApplyTaskUpdate(id string, upd TaskUpdate) (Task, error) {
	for i, t := range u.Tasks {
		if t.ID.Hex() != id {
			continue
		}
		if upd.Title != nil && *upd.Title != "" {
			u.Tasks[i].Title = *upd.Title
		}
		if upd.Completed != nil {
			u.Tasks[i].Completed = *upd.Completed
		}
		return u.Tasks[i], nil
	}
	return Task{}, ErrTaskNotFound
}

// RemoveTask removes exactly one task and keeps the order of the others
func (u *User) RemoveTask(id string) (Task, error) {
	for i, t := range u.Tasks {
		if t.ID.Hex() == id {
			u.Tasks = append(u.Tasks[:i], u.Tasks[i+1:]...)
			return t, nil
		}
	}
	return Task{}, ErrTaskNotFound
}

// ToggleTask negates the completed flag of the task
func (u *User) ToggleTask(id string) (Task, error) {
	for i, t := range u.Tasks {
		if t.ID.Hex() == id {
			u.Tasks[i].Completed = !t.Completed
			return u.Tasks[i], nil
		}
	}
	return Task{}, ErrTaskNotFound
}
