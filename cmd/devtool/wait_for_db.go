package main

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type WaitDBCommand struct{}

func (c *WaitDBCommand) Name() string {
	return "wait-db"
}

func (c *WaitDBCommand) Description() string {
	return "Wait until the database accepts connections"
}

func (c *WaitDBCommand) Run(args []string) error {
	PrintHeader("Waiting for database...")

	dbURL := databaseURL()
	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("failed to open database handle: %w", err)
	}
	defer db.Close()

	const maxAttempts = 30
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := db.Ping(); err == nil {
			PrintSuccess("Database is ready")
			return nil
		}
		time.Sleep(time.Second)
	}

	return fmt.Errorf("database did not become ready after %d attempts", maxAttempts)
}
