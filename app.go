package pressroom

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/nasermirzaei89/env"
	"github.com/nasermirzaei89/pressroom/authorization"
	"github.com/nasermirzaei89/pressroom/authorization/casbin"
	"github.com/nasermirzaei89/pressroom/clients"
	"github.com/nasermirzaei89/pressroom/db/sqlstore"
	"github.com/nasermirzaei89/pressroom/server"
	"github.com/nasermirzaei89/pressroom/web"
)

//go:embed policy.csv
var defaultAuthorizationPolicyContent string

const (
	policyStoreEmbedded = "embedded"
	policyStoreSQL      = "sql"
)

type UnknownPolicyStoreError struct {
	Store string
}

func (err UnknownPolicyStoreError) Error() string {
	return fmt.Sprintf("unknown authorization policy store %q", err.Store)
}

func newServer() *server.Server {
	server := &server.Server{
		Port: env.GetString("PORT", server.DefaultPort),
		Host: env.GetString("HOST", ""),
		TLS: server.ServerTLS{
			Enabled: env.GetBool("TLS_ENABLED", false),
			Mode:    env.GetString("TLS_MODE", server.DefaultTLSMode),
			AutoCert: &server.ServerTLSAutoCert{
				CacheDir: env.GetString("TLS_AUTOCERT_CACHE_DIR", "./cert-cache"),
				Domains:  env.GetStringSlice("TLS_AUTOCERT_DOMAINS", []string{}),
				Email:    env.GetString("TLS_AUTOCERT_EMAIL", ""),
			},
			CertFile: env.GetString("TLS_CERT_FILE", ""),
			KeyFile:  env.GetString("TLS_KEY_FILE", ""),
		},
	}

	return server
}

func newWebConfig() web.Config {
	return web.Config{
		AllowedOrigins: env.GetStringSlice("CORS_ALLOWED_ORIGINS", []string{}),
	}
}

// openDB connects to the service database and applies its migrations.
func openDB(ctx context.Context, set sqlstore.MigrationSet, defaultDSN string) (*sql.DB, sqlstore.Dialect, error) {
	dialect, err := sqlstore.ParseDialect(env.GetString("DB_DRIVER", string(sqlstore.DialectSQLite)))
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse database driver: %w", err)
	}

	db, err := sqlstore.NewDB(ctx, dialect, env.GetString("DB_DSN", defaultDSN))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create database connection: %w", err)
	}

	err = sqlstore.MigrateUp(ctx, db, dialect, set)
	if err != nil {
		_ = db.Close()

		return nil, "", fmt.Errorf("failed to run database migrations: %w", err)
	}

	return db, dialect, nil
}

func newAuthorizationClient(ctx context.Context, db *sql.DB, dialect sqlstore.Dialect) (*authorization.Client, error) {
	authzProvider, err := newAuthorizationProvider(ctx, db, dialect)
	if err != nil {
		return nil, fmt.Errorf("failed to create authorization provider: %w", err)
	}

	authzSvc, err := authorization.NewService(authzProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to create authorization service: %w", err)
	}

	return authorization.NewClient(authzSvc), nil
}

func newAuthorizationProvider(
	ctx context.Context,
	db *sql.DB,
	dialect sqlstore.Dialect,
) (*casbin.AuthorizationProvider, error) {
	policyContent, err := loadPolicyContent()
	if err != nil {
		return nil, fmt.Errorf("failed to load authorization policy content: %w", err)
	}

	store := env.GetString("AUTHORIZATION_POLICY_STORE", policyStoreEmbedded)

	switch store {
	case policyStoreEmbedded:
		provider, err := casbin.NewAuthorizationProvider(casbin.NewStringAdapter(policyContent))
		if err != nil {
			return nil, fmt.Errorf("failed to create authorization provider: %w", err)
		}

		return provider, nil
	case policyStoreSQL:
		adapter, err := casbin.NewSQLAdapter(db, casbinDBType(dialect), "casbin_rule")
		if err != nil {
			return nil, fmt.Errorf("failed to create authorization adapter: %w", err)
		}

		provider, err := casbin.NewAuthorizationProvider(adapter)
		if err != nil {
			return nil, fmt.Errorf("failed to create authorization provider: %w", err)
		}

		err = provider.AddPolicyFromCSV(ctx, policyContent)
		if err != nil {
			return nil, fmt.Errorf("failed to add authorization policy from csv: %w", err)
		}

		return provider, nil
	default:
		return nil, &UnknownPolicyStoreError{Store: store}
	}
}

func casbinDBType(dialect sqlstore.Dialect) string {
	if dialect == sqlstore.DialectSQLite {
		return "sqlite3"
	}

	return string(dialect)
}

func loadPolicyContent() (string, error) {
	policyFilePath := env.GetString("AUTHORIZATION_POLICY_FILE", "")

	if policyFilePath == "" {
		return defaultAuthorizationPolicyContent, nil
	}

	content, err := os.ReadFile(policyFilePath) // nolint:gosec
	if err != nil {
		return "", fmt.Errorf("failed to read policy file %q: %w", policyFilePath, err)
	}

	return string(content), nil
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: getDurationFromEnv("HTTP_CLIENT_TIMEOUT", clients.DefaultTimeout)}
}

func closeDB(ctx context.Context, db *sql.DB) {
	if db == nil {
		return
	}

	err := db.Close()
	if err != nil {
		slog.ErrorContext(ctx, "failed to close database", "error", err)
	}
}
