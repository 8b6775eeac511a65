package types

import (
	"errors"
	"testing"
)

func newTestUser(titles ...string) User {
	u := NewUser("", "a@x.com", "hash")
	for _, title := range titles {
		u.Tasks = append(u.Tasks, NewTask(title))
	}
	return u
}

func TestNewUser(t *testing.T) {
	u := NewUser("Anna", "a@x.com", "hash")
	if u.Role != ROLE_USER {
		t.Errorf("unexpected role: %s", u.Role)
	}
	if u.Tasks == nil || len(u.Tasks) != 0 {
		t.Errorf("expected empty, non-nil task list, got %v", u.Tasks)
	}
	if u.Timestamps.CreatedAt == 0 {
		t.Error("createdAt should be set")
	}
}

func TestNewTask(t *testing.T) {
	task := NewTask("buy milk")
	if task.ID.IsZero() {
		t.Error("task id should be assigned")
	}
	if task.Completed {
		t.Error("new task should not be completed")
	}
}

func TestApplyTaskUpdate(t *testing.T) {
	t.Run("with unknown id", func(t *testing.T) {
		u := newTestUser("a")
		_, err := u.ApplyTaskUpdate("000000000000000000000000", TaskUpdate{})
		if !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("with title only", func(t *testing.T) {
		u := newTestUser("a")
		title := "b"
		task, err := u.ApplyTaskUpdate(u.Tasks[0].ID.Hex(), TaskUpdate{Title: &title})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if task.Title != "b" || task.Completed {
			t.Errorf("unexpected task: %+v", task)
		}
	})

	t.Run("with empty title and completed false", func(t *testing.T) {
		u := newTestUser("a")
		u.Tasks[0].Completed = true
		title := ""
		completed := false
		task, err := u.ApplyTaskUpdate(u.Tasks[0].ID.Hex(), TaskUpdate{Title: &title, Completed: &completed})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if task.Title != "a" {
			t.Errorf("title should be unchanged, got %s", task.Title)
		}
		if task.Completed {
			t.Error("completed should be false")
		}
		if u.Tasks[0].Completed {
			t.Error("change should be visible in the user")
		}
	})
}

func TestRemoveTask(t *testing.T) {
	u := newTestUser("a", "b", "c", "d")
	removed, err := u.RemoveTask(u.Tasks[1].ID.Hex())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed.Title != "b" {
		t.Errorf("unexpected removed task: %s", removed.Title)
	}
	if len(u.Tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(u.Tasks))
	}
	for i, title := range []string{"a", "c", "d"} {
		if u.Tasks[i].Title != title {
			t.Errorf("position %d: expected %s, got %s", i, title, u.Tasks[i].Title)
		}
	}

	if _, err := u.RemoveTask(removed.ID.Hex()); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestToggleTask(t *testing.T) {
	u := newTestUser("a")
	id := u.Tasks[0].ID.Hex()

	task, err := u.ToggleTask(id)
	if err != nil || !task.Completed {
		t.Fatalf("first toggle: %+v, %v", task, err)
	}
	task, err = u.ToggleTask(id)
	if err != nil || task.Completed {
		t.Fatalf("second toggle: %+v, %v", task, err)
	}
}

func TestTaskUpdateIsEmpty(t *testing.T) {
	empty := ""
	title := "x"
	completed := false
	tests := []struct {
		name     string
		upd      TaskUpdate
		expected bool
	}{
		{"nothing", TaskUpdate{}, true},
		{"empty title", TaskUpdate{Title: &empty}, true},
		{"title", TaskUpdate{Title: &title}, false},
		{"completed false", TaskUpdate{Completed: &completed}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.upd.IsEmpty() != tt.expected {
				t.Errorf("IsEmpty() = %v, want %v", tt.upd.IsEmpty(), tt.expected)
			}
		})
	}
}
