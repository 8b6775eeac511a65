package main

import (
	"log/slog"
	"os"
	"time"

	userTypes "github.com/todo-app/todo-backend/pkg/user-management/types"
	"gopkg.in/yaml.v2"
)

func main() {
	if todoUserDBService == nil {
		return
	}
	defer todoUserDBService.Close()

	dropIndexes()

	// data fixes run first so the unique email index can be built on clean data
	migrationTasks()

	createIndexes()

	getIndexes()

	count, err := todoUserDBService.CountUsers()
	if err != nil {
		slog.Error("Error counting accounts", slog.String("error", err.Error()))
		return
	}
	slog.Info("Todo user DB ready", slog.Int64("accounts", count))
}

func dropIndexes() {
	switch conf.TaskConfigs.DropIndexes {
	case DropIndexesModeAll:
		todoUserDBService.DropIndexes(true)
	case DropIndexesModeDefaults:
		todoUserDBService.DropIndexes(false)
	}
}

func createIndexes() {
	if conf.TaskConfigs.CreateIndexes {
		todoUserDBService.CreateDefaultIndexes()
	}
}

func getIndexes() {
	target := conf.TaskConfigs.GetIndexes
	if !shouldGetIndexes(target) {
		return
	}

	indexes, err := todoUserDBService.GetIndexes()
	if err != nil {
		slog.Error("Error getting indexes", slog.String("error", err.Error()))
		return
	}

	if target == "true" {
		for _, index := range indexes {
			slog.Info("index", slog.Any("definition", index))
		}
		return
	}

	out, err := yaml.Marshal(indexes)
	if err != nil {
		slog.Error("Error marshalling indexes", slog.String("error", err.Error()))
		return
	}
	if err := os.WriteFile(target, out, 0o644); err != nil {
		slog.Error("Error writing indexes", slog.String("file", target), slog.String("error", err.Error()))
		return
	}
	slog.Info("Indexes written", slog.String("file", target), slog.Int("count", len(indexes)))
}

func migrationTasks() {
	tasks := conf.TaskConfigs.MigrationTasks

	if tasks.FixMissingTaskLists {
		runMigration("fix missing task lists", todoUserDBService.FixMissingTaskLists)
	}

	if tasks.NormalizeEmails {
		runMigration("normalize emails", todoUserDBService.NormalizeEmails)
	}

	if tasks.FixMissingRoles {
		runMigration("fix missing roles", func() (int64, error) {
			return todoUserDBService.FixMissingRoles(userTypes.ROLE_USER)
		})
	}
}

func runMigration(name string, fn func() (int64, error)) {
	start := time.Now()
	slog.Info("Running migration task", slog.String("task", name))
	count, err := fn()
	if err != nil {
		slog.Error("Error running migration task", slog.String("task", name), slog.String("error", err.Error()))
		return
	}
	slog.Info("Migration task finished", slog.String("task", name), slog.Int64("modified", count), slog.String("duration", time.Since(start).String()))
}
