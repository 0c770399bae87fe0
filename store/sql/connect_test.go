package sqlstore_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	sqlstore "github.com/goliatone/go-oauth-store/store/sql"
)

func TestConnectSQLite_OpensWorkingClient(t *testing.T) {
	ctx := context.Background()
	dsn := fmt.Sprintf("file:oauth-connect-test-%d?mode=memory&cache=shared&_foreign_keys=on", time.Now().UnixNano())

	client, err := sqlstore.ConnectSQLite(ctx, sqlstore.ConnectConfig{DSN: dsn})
	if err != nil {
		t.Fatalf("connect sqlite: %v", err)
	}
	defer client.Close()

	var one int
	if err := client.DB().NewRaw("SELECT 1").Scan(ctx, &one); err != nil {
		t.Fatalf("ping query: %v", err)
	}
	if one != 1 {
		t.Fatalf("expected ping value 1, got %d", one)
	}
}

func TestConnectPostgres_DSNFromEnv(t *testing.T) {
	dsn := os.Getenv("OAUTH_STORE_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("OAUTH_STORE_POSTGRES_DSN not set")
	}
	ctx := context.Background()

	client, err := sqlstore.ConnectPostgres(ctx, sqlstore.ConnectConfig{DSN: dsn, MaxConns: 2})
	if err != nil {
		t.Fatalf("connect postgres: %v", err)
	}
	defer client.Close()

	var one int
	if err := client.DB().NewRaw("SELECT 1").Scan(ctx, &one); err != nil {
		t.Fatalf("ping query: %v", err)
	}
	if one != 1 {
		t.Fatalf("expected ping value 1, got %d", one)
	}
}

func TestConnect_RequiresDSN(t *testing.T) {
	ctx := context.Background()

	if _, err := sqlstore.ConnectSQLite(ctx, sqlstore.ConnectConfig{}); err == nil {
		t.Fatalf("expected sqlite dsn requirement")
	}
	if _, err := sqlstore.ConnectPostgres(ctx, sqlstore.ConnectConfig{}); err == nil {
		t.Fatalf("expected postgres dsn requirement")
	}
}
