package main

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/todo-app/todo-backend/pkg/apihelpers"
	"github.com/todo-app/todo-backend/pkg/db"
	usermanagement "github.com/todo-app/todo-backend/pkg/user-management"
	"github.com/todo-app/todo-backend/pkg/user-management/pwhash"
	"github.com/todo-app/todo-backend/pkg/utils"
	"gopkg.in/yaml.v2"

	todoUserDB "github.com/todo-app/todo-backend/pkg/db/todo-user"
)

// Environment variables
const (
	ENV_CONFIG_FILE_PATH = "CONFIG_FILE_PATH"
	ENV_DOTENV_PATH      = "DOTENV_PATH"

	ENV_PORT            = "PORT"
	ENV_ALLOWED_ORIGINS = "ALLOWED_ORIGINS"
	ENV_GIN_DEBUG_MODE  = "GIN_DEBUG_MODE"

	// Variables to override "secrets" in the config file
	ENV_MONGODB_URI               = "MONGODB_URI"
	ENV_TODO_USER_DB_USERNAME     = "TODO_USER_DB_USERNAME"
	ENV_TODO_USER_DB_PASSWORD     = "TODO_USER_DB_PASSWORD"
	ENV_USER_JWT_SECRET           = "USER_JWT_SECRET"
	ENV_USER_REFRESH_TOKEN_SECRET = "USER_REFRESH_TOKEN_SECRET"

	ENV_USER_JWT_EXPIRES_IN           = "USER_JWT_EXPIRES_IN"
	ENV_USER_REFRESH_TOKEN_EXPIRES_IN = "USER_REFRESH_TOKEN_EXPIRES_IN"
)

const (
	defaultPort        = "3000"
	defaultRoutePrefix = "/api/v2"
)

var defaultAllowOrigins = []string{
	"https://todo-app-react-blond.vercel.app",
	"http://localhost:3000",
}

type TodoApiConfig struct {
	// Logging configs
	Logging utils.LoggerConfig `json:"logging" yaml:"logging"`

	// Gin configs
	GinConfig struct {
		DebugMode      bool     `json:"debug_mode" yaml:"debug_mode"`
		AllowOrigins   []string `json:"allow_origins" yaml:"allow_origins"`
		Port           string   `json:"port" yaml:"port"`
		RoutePrefix    string   `json:"route_prefix" yaml:"route_prefix"`
		InsecureCookie bool     `json:"insecure_cookie" yaml:"insecure_cookie"` // local plain HTTP only
		RoutesFile     string   `json:"routes_file" yaml:"routes_file"`

		// Mutual TLS configs
		MTLS struct {
			Use              bool                        `json:"use" yaml:"use"`
			CertificatePaths apihelpers.CertificatePaths `json:"certificate_paths" yaml:"certificate_paths"`
		} `json:"mtls" yaml:"mtls"`
	} `json:"gin_config" yaml:"gin_config"`

	// user management configs
	UserManagementConfig struct {
		PWHashing struct {
			Argon2Memory      uint32 `json:"argon2_memory" yaml:"argon2_memory"`
			Argon2Iterations  uint32 `json:"argon2_iterations" yaml:"argon2_iterations"`
			Argon2Parallelism uint8  `json:"argon2_parallelism" yaml:"argon2_parallelism"`
		} `json:"pw_hashing" yaml:"pw_hashing"`
		AccessTokenConfig struct {
			SignKey   string        `json:"sign_key" yaml:"sign_key"`
			ExpiresIn time.Duration `json:"expires_in" yaml:"expires_in"`
		} `json:"access_token_config" yaml:"access_token_config"`
		RefreshTokenConfig struct {
			SignKey   string        `json:"sign_key" yaml:"sign_key"`
			ExpiresIn time.Duration `json:"expires_in" yaml:"expires_in"`
		} `json:"refresh_token_config" yaml:"refresh_token_config"`
	} `json:"user_management_config" yaml:"user_management_config"`

	// DB configs
	DBConfigs struct {
		TodoUserDB db.DBConfigYaml `json:"todo_user_db" yaml:"todo_user_db"`
	} `json:"db_configs" yaml:"db_configs"`
}

var (
	conf                  TodoApiConfig
	todoUserDBService     *todoUserDB.TodoUserDBService
	userManagementService *usermanagement.Service
)

func init() {
	// .env is optional, the real environment wins
	dotenvPath := os.Getenv(ENV_DOTENV_PATH)
	if dotenvPath == "" {
		dotenvPath = ".env"
	}
	if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		panic(err)
	}

	var err error
	conf, err = readConfig(os.Getenv(ENV_CONFIG_FILE_PATH))
	if err != nil {
		panic(err)
	}

	// Init logger:
	utils.InitLogger(conf.Logging)

	if err := envOverride(&conf); err != nil {
		panic(err)
	}
	applyDefaults(&conf)
	if err := validateConfig(conf); err != nil {
		slog.Error("invalid config", slog.String("error", err.Error()))
		panic(err)
	}

	if !conf.GinConfig.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// Init DBs
	initDBs()

	// init user management
	initUserManagement()
}

// readConfig reads the YAML config file. Without a path the zero config is returned and
// everything comes from the environment.
func readConfig(path string) (TodoApiConfig, error) {
	var c TodoApiConfig
	if path == "" {
		return c, nil
	}

	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	err = yaml.UnmarshalStrict(yamlFile, &c)
	return c, err
}

func envOverride(c *TodoApiConfig) error {
	c.GinConfig.Port = utils.GetEnvString(ENV_PORT, c.GinConfig.Port)
	c.GinConfig.AllowOrigins = utils.GetEnvList(ENV_ALLOWED_ORIGINS, c.GinConfig.AllowOrigins)

	debugMode, err := utils.GetEnvBool(ENV_GIN_DEBUG_MODE, c.GinConfig.DebugMode)
	if err != nil {
		return err
	}
	c.GinConfig.DebugMode = debugMode

	c.DBConfigs.TodoUserDB.URI = utils.GetEnvString(ENV_MONGODB_URI, c.DBConfigs.TodoUserDB.URI)
	c.DBConfigs.TodoUserDB.Username = utils.GetEnvString(ENV_TODO_USER_DB_USERNAME, c.DBConfigs.TodoUserDB.Username)
	c.DBConfigs.TodoUserDB.Password = utils.GetEnvString(ENV_TODO_USER_DB_PASSWORD, c.DBConfigs.TodoUserDB.Password)

	c.UserManagementConfig.AccessTokenConfig.SignKey = utils.GetEnvString(ENV_USER_JWT_SECRET, c.UserManagementConfig.AccessTokenConfig.SignKey)
	c.UserManagementConfig.RefreshTokenConfig.SignKey = utils.GetEnvString(ENV_USER_REFRESH_TOKEN_SECRET, c.UserManagementConfig.RefreshTokenConfig.SignKey)

	accessTTL, err := utils.GetEnvDuration(ENV_USER_JWT_EXPIRES_IN, c.UserManagementConfig.AccessTokenConfig.ExpiresIn)
	if err != nil {
		return err
	}
	c.UserManagementConfig.AccessTokenConfig.ExpiresIn = accessTTL

	refreshTTL, err := utils.GetEnvDuration(ENV_USER_REFRESH_TOKEN_EXPIRES_IN, c.UserManagementConfig.RefreshTokenConfig.ExpiresIn)
	if err != nil {
		return err
	}
	c.UserManagementConfig.RefreshTokenConfig.ExpiresIn = refreshTTL
	return nil
}

func applyDefaults(c *TodoApiConfig) {
	if c.GinConfig.Port == "" {
		c.GinConfig.Port = defaultPort
	}
	if c.GinConfig.RoutePrefix == "" {
		c.GinConfig.RoutePrefix = defaultRoutePrefix
	}
	if len(c.GinConfig.AllowOrigins) == 0 {
		c.GinConfig.AllowOrigins = defaultAllowOrigins
	}
	if c.UserManagementConfig.AccessTokenConfig.ExpiresIn <= 0 {
		c.UserManagementConfig.AccessTokenConfig.ExpiresIn = usermanagement.DefaultAccessTokenTTL
	}
	if c.UserManagementConfig.RefreshTokenConfig.ExpiresIn <= 0 {
		c.UserManagementConfig.RefreshTokenConfig.ExpiresIn = usermanagement.DefaultRefreshTokenTTL
	}
	if c.DBConfigs.TodoUserDB.URI == "" && c.DBConfigs.TodoUserDB.ConnectionStr == "" {
		c.DBConfigs.TodoUserDB.URI = "mongodb://localhost:27017"
	}
}

func validateConfig(c TodoApiConfig) error {
	accessKey := c.UserManagementConfig.AccessTokenConfig.SignKey
	refreshKey := c.UserManagementConfig.RefreshTokenConfig.SignKey
	if accessKey == "" {
		return errors.New(ENV_USER_JWT_SECRET + " is not set")
	}
	if refreshKey == "" {
		return errors.New(ENV_USER_REFRESH_TOKEN_SECRET + " is not set")
	}
	if accessKey == refreshKey {
		return errors.New("access and refresh token secrets must differ")
	}
	if c.GinConfig.MTLS.Use && (c.GinConfig.MTLS.CertificatePaths.ServerCertPath == "" || c.GinConfig.MTLS.CertificatePaths.ServerKeyPath == "") {
		return errors.New("mtls enabled without server certificate")
	}
	return nil
}

func initDBs() {
	var err error
	todoUserDBService, err = todoUserDB.NewTodoUserDBService(db.DBConfigFromYamlObj(conf.DBConfigs.TodoUserDB))
	if err != nil {
		slog.Error("Error connecting to Todo User DB", slog.String("error", err.Error()))
		panic(err)
	}
}

func initUserManagement() {
	userManagementService = usermanagement.NewService(todoUserDBService, usermanagement.Config{
		AccessToken: usermanagement.TokenConfig{
			SignKey:   conf.UserManagementConfig.AccessTokenConfig.SignKey,
			ExpiresIn: conf.UserManagementConfig.AccessTokenConfig.ExpiresIn,
		},
		RefreshToken: usermanagement.TokenConfig{
			SignKey:   conf.UserManagementConfig.RefreshTokenConfig.SignKey,
			ExpiresIn: conf.UserManagementConfig.RefreshTokenConfig.ExpiresIn,
		},
		PWHashing: pwhash.Params{
			Memory:      conf.UserManagementConfig.PWHashing.Argon2Memory,
			Iterations:  conf.UserManagementConfig.PWHashing.Argon2Iterations,
			Parallelism: conf.UserManagementConfig.PWHashing.Argon2Parallelism,
		},
	})
}
