package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/go-sql-driver/mysql"
)

var (
	dbClient  *sql.DB
	mySQLOnce sync.Once
)

const createSwapsTable = `
CREATE TABLE IF NOT EXISTS swaps (
	id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
	signature VARCHAR(128) NOT NULL,
	type VARCHAR(8) NOT NULL,
	classification_source VARCHAR(16) NOT NULL,
	swapper VARCHAR(64) NOT NULL,
	protocol VARCHAR(32) NOT NULL,
	buy_amount DECIMAL(36, 18) NOT NULL DEFAULT 0,
	sell_amount DECIMAL(36, 18) NOT NULL DEFAULT 0,
	buy_sol_amount DECIMAL(36, 18) NULL,
	sell_sol_amount DECIMAL(36, 18) NULL,
	token_in VARCHAR(64) NOT NULL,
	token_out VARCHAR(64) NOT NULL,
	ts TIMESTAMP NULL,
	PRIMARY KEY (id),
	UNIQUE KEY uniq_signature_type (signature, type)
)`

// InitMySQLClient opens the swap database and ensures the schema. The
// unique (signature, type) key is what makes a replayed split write safe.
func InitMySQLClient(dsn string) error {
	if dsn == "" {
		return errors.New("MySQL DSN is empty")
	}

	var initError error

	mySQLOnce.Do(func() {
		client, err := sql.Open("mysql", dsn)
		if err != nil {
			initError = fmt.Errorf("failed to connect to MySQL: %w", err)
			return
		}

		if err := client.Ping(); err != nil {
			initError = fmt.Errorf("failed to ping MySQL: %w", err)
			return
		}

		if _, err := client.Exec(createSwapsTable); err != nil {
			initError = fmt.Errorf("failed to create swaps table: %w", err)
			return
		}

		dbClient = client
	})

	return initError
}

func GetMySQLClient() (*sql.DB, error) {
	if dbClient == nil {
		return nil, errors.New("MySQL client is not initialized. call InitMySQLClient first")
	}
	return dbClient, nil
}
