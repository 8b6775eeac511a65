package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/todo-app/todo-backend/pkg/db"
	"github.com/todo-app/todo-backend/pkg/utils"
	"gopkg.in/yaml.v2"

	todoUserDB "github.com/todo-app/todo-backend/pkg/db/todo-user"
)

// Environment variables
const (
	ENV_CONFIG_FILE_PATH = "CONFIG_FILE_PATH"

	// Variables to override "secrets" in the config file
	ENV_MONGODB_URI           = "MONGODB_URI"
	ENV_TODO_USER_DB_USERNAME = "TODO_USER_DB_USERNAME"
	ENV_TODO_USER_DB_PASSWORD = "TODO_USER_DB_PASSWORD"
)

type config struct {
	// Logging configs
	Logging utils.LoggerConfig `json:"logging" yaml:"logging"`

	// DB configs
	DBConfigs struct {
		TodoUserDB db.DBConfigYaml `json:"todo_user_db" yaml:"todo_user_db"`
	} `json:"db_configs" yaml:"db_configs"`

	// Task configurations
	TaskConfigs TaskConfigs `json:"task_configs" yaml:"task_configs"`
}

type TaskConfigs struct {
	DropIndexes    DropIndexesMode      `json:"drop_indexes" yaml:"drop_indexes"`
	CreateIndexes  bool                 `json:"create_indexes" yaml:"create_indexes"`
	GetIndexes     string               `json:"get_indexes" yaml:"get_indexes"` // "true" logs them, any other value is an output file
	MigrationTasks MigrationTasksConfig `json:"migration_tasks" yaml:"migration_tasks"`
}

type MigrationTasksConfig struct {
	FixMissingTaskLists bool `json:"fix_missing_task_lists" yaml:"fix_missing_task_lists"`
	NormalizeEmails     bool `json:"normalize_emails" yaml:"normalize_emails"`
	FixMissingRoles     bool `json:"fix_missing_roles" yaml:"fix_missing_roles"`
}

type DropIndexesMode string

const (
	DropIndexesModeAll      DropIndexesMode = "all"
	DropIndexesModeDefaults DropIndexesMode = "defaults"
	DropIndexesModeNone     DropIndexesMode = "none"
)

func (mode DropIndexesMode) IsValid() bool {
	switch mode {
	case DropIndexesModeAll, DropIndexesModeDefaults, DropIndexesModeNone, "":
		return true
	default:
		return false
	}
}

func (mc MigrationTasksConfig) enabled() bool {
	return mc.FixMissingTaskLists || mc.NormalizeEmails || mc.FixMissingRoles
}

var conf config

var todoUserDBService *todoUserDB.TodoUserDBService

func init() {
	// Read config from file
	yamlFile, err := os.ReadFile(os.Getenv(ENV_CONFIG_FILE_PATH))
	if err != nil {
		panic(err)
	}

	err = yaml.UnmarshalStrict(yamlFile, &conf)
	if err != nil {
		panic(err)
	}

	validateConfig()

	// Init logger:
	utils.InitLogger(conf.Logging)

	// Override secrets from environment variables
	secretsOverride()

	if !hasWork(conf.TaskConfigs) {
		slog.Info("no task configured, nothing to do")
		return
	}

	// init db
	initDBs()
}

func validateConfig() {
	if !conf.TaskConfigs.DropIndexes.IsValid() {
		panic(fmt.Sprintf(
			"invalid drop indexes mode for task_configs.drop_indexes: %q. Use one of: %v",
			conf.TaskConfigs.DropIndexes,
			[]DropIndexesMode{DropIndexesModeAll, DropIndexesModeDefaults, DropIndexesModeNone},
		))
	}
}

func secretsOverride() {
	if uri := os.Getenv(ENV_MONGODB_URI); uri != "" {
		conf.DBConfigs.TodoUserDB.URI = uri
	}

	if dbUsername := os.Getenv(ENV_TODO_USER_DB_USERNAME); dbUsername != "" {
		conf.DBConfigs.TodoUserDB.Username = dbUsername
	}

	if dbPassword := os.Getenv(ENV_TODO_USER_DB_PASSWORD); dbPassword != "" {
		conf.DBConfigs.TodoUserDB.Password = dbPassword
	}
}

func shouldGetIndexes(value string) bool {
	return value != "" && value != "false"
}

func hasWork(tc TaskConfigs) bool {
	return (tc.DropIndexes != "" && tc.DropIndexes != DropIndexesModeNone) ||
		tc.CreateIndexes ||
		shouldGetIndexes(tc.GetIndexes) ||
		tc.MigrationTasks.enabled()
}

func initDBs() {
	dbConf := db.DBConfigFromYamlObj(conf.DBConfigs.TodoUserDB)
	// indexes are handled by the tasks of this job
	dbConf.RunIndexCreation = false

	var err error
	todoUserDBService, err = todoUserDB.NewTodoUserDBService(dbConf)
	if err != nil {
		slog.Error("Error connecting to Todo User DB", slog.String("error", err.Error()))
		panic(err)
	}
	slog.Info("Database connection established", slog.Bool("todo_user_db", true))
}
