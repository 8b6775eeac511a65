package db

import (
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

const (
	defaultTimeout         = 30
	defaultIdleConnTimeout = 45
	defaultMaxPoolSize     = 8
)

func DBConfigFromYamlObj(yamlObj DBConfigYaml) DBConfig {
	URI := yamlObj.URI
	if URI == "" {
		if yamlObj.Username != "" {
			URI = fmt.Sprintf(`mongodb%s://%s:%s@%s`, yamlObj.ConnectionPrefix, yamlObj.Username, yamlObj.Password, yamlObj.ConnectionStr)
		} else {
			URI = fmt.Sprintf(`mongodb%s://%s`, yamlObj.ConnectionPrefix, yamlObj.ConnectionStr)
		}
	}

	timeout := yamlObj.Timeout
	if timeout <= 0 {
		slog.Debug("DB timeout not set, using default", slog.Int("timeout", defaultTimeout))
		timeout = defaultTimeout
	}

	idleConnTimeout := yamlObj.IdleConnTimeout
	if idleConnTimeout <= 0 {
		idleConnTimeout = defaultIdleConnTimeout
	}

	maxPoolSize := yamlObj.MaxPoolSize
	if maxPoolSize <= 0 {
		maxPoolSize = defaultMaxPoolSize
	}

	dbName := yamlObj.DBName
	if fromURI := databaseFromURI(URI); fromURI != "" {
		dbName = fromURI
	}

	return DBConfig{
		URI:              URI,
		DBName:           dbName,
		Timeout:          timeout,
		IdleConnTimeout:  idleConnTimeout,
		MaxPoolSize:      uint64(maxPoolSize),
		DBNamePrefix:     yamlObj.DBNamePrefix,
		RunIndexCreation: yamlObj.RunIndexCreation,
	}
}

// databaseFromURI returns the database path segment of a connection string.
// mongodb+srv URIs are resolved while parsing, so a lookup failure only logs and yields "".
func databaseFromURI(URI string) string {
	cs, err := connstring.ParseAndValidate(URI)
	if err != nil {
		slog.Warn("could not read database name from connection string", slog.String("error", err.Error()))
		return ""
	}
	return cs.Database
}
