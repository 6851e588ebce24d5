package persistence

import (
	"database/sql"
	"errors"
	"os"
	"strings"

	_ "github.com/go-sql-driver/mysql"
)

type DatabaseConfig struct {
	DriverType string
	DriverArgs string
}

// ParseDatabaseConfigFromEnv DATABASE_DRIVER, DATABASE_ARGS
// mysql args: user:pass@(host:port)/schema?charset=utf8mb4&parseTime=True
func ParseDatabaseConfigFromEnv() (*DatabaseConfig, error) {
	driver := os.Getenv("DATABASE_DRIVER")
	if driver == "" {
		driver = "mysql"
	}
	args := os.Getenv("DATABASE_ARGS")
	if args == "" {
		return nil, errors.New("DATABASE_ARGS is not set")
	}
	return &DatabaseConfig{DriverType: driver, DriverArgs: args}, nil
}

func PrepareMysqlDatabase(driverArgs string) error {
	idx := strings.LastIndex(driverArgs, "/")
	if idx < 0 {
		return errors.New("invalid mysql driver args")
	}
	schema := driverArgs[idx+1:]
	if q := strings.Index(schema, "?"); q >= 0 {
		schema = schema[:q]
	}
	if schema == "" {
		return errors.New("no schema in mysql driver args")
	}

	db, err := sql.Open("mysql", driverArgs[:idx+1])
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.Exec("CREATE DATABASE IF NOT EXISTS " + schema + " CHARACTER SET utf8mb4")
	return err
}
