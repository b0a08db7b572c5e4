package gormdir

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/gatehouse-sec/gatehouse/pkg/directory"
)

// Ensure Directory implements directory.Directory
var _ directory.Directory = (*Directory)(nil)
var _ directory.HealthChecker = (*Directory)(nil)

// Directory is a PostgreSQL-backed principal directory. Roles are stored as
// a comma-joined text column to keep the schema to a single table.
type Directory struct {
	db *gorm.DB
}

// New creates a directory over an existing database handle.
func New(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

// Lookup resolves a login or API key to a principal. Returns (nil, nil)
// when no row matches.
func (d *Directory) Lookup(ctx context.Context, key string) (*directory.Principal, error) {
	if key == "" {
		return nil, nil
	}

	var (
		login      string
		apiKey     string
		secretHash []byte
		rolesRaw   string
	)
	row := d.db.WithContext(ctx).Raw(
		`SELECT login, COALESCE(api_key, ''), COALESCE(secret_hash, ''), COALESCE(roles, '')
		 FROM principals WHERE login = ? OR api_key = ? LIMIT 1`,
		key, key,
	).Row()
	if err := row.Scan(&login, &apiKey, &secretHash, &rolesRaw); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, nil
		}
		return nil, fmt.Errorf("principal lookup failed: %w", err)
	}

	return &directory.Principal{
		Login:      login,
		APIKey:     apiKey,
		Roles:      splitRoles(rolesRaw),
		SecretHash: secretHash,
	}, nil
}

// Create inserts a new principal row.
func (d *Directory) Create(ctx context.Context, p directory.Principal) error {
	if p.Login == "" {
		return errors.New("login is required")
	}
	tx := d.db.WithContext(ctx).Exec(
		`INSERT INTO principals (login, api_key, secret_hash, roles) VALUES (?, ?, ?, ?)`,
		p.Login, nullable(p.APIKey), p.SecretHash, nullable(joinRoles(p.Roles)),
	)
	if tx.Error != nil {
		return fmt.Errorf("failed to create principal %q: %w", p.Login, tx.Error)
	}
	return nil
}

// RotateAPIKey replaces the principal's API key.
func (d *Directory) RotateAPIKey(ctx context.Context, login, apiKey string) error {
	return d.update(ctx, login, "api_key", apiKey)
}

// SetSecretHash replaces the principal's password verification material.
func (d *Directory) SetSecretHash(ctx context.Context, login string, hash []byte) error {
	tx := d.db.WithContext(ctx).Exec(
		`UPDATE principals SET secret_hash = ? WHERE login = ?`, hash, login,
	)
	if tx.Error != nil {
		return fmt.Errorf("failed to update principal %q: %w", login, tx.Error)
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("principal %q not found", login)
	}
	return nil
}

// Delete removes a principal row.
func (d *Directory) Delete(ctx context.Context, login string) error {
	tx := d.db.WithContext(ctx).Exec(`DELETE FROM principals WHERE login = ?`, login)
	if tx.Error != nil {
		return fmt.Errorf("failed to delete principal %q: %w", login, tx.Error)
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("principal %q not found", login)
	}
	return nil
}

// CheckConnectivity verifies database connectivity.
func (d *Directory) CheckConnectivity() error {
	return d.db.Exec("SELECT 1").Error
}

func (d *Directory) update(ctx context.Context, login, column, value string) error {
	tx := d.db.WithContext(ctx).Exec(
		fmt.Sprintf(`UPDATE principals SET %s = ? WHERE login = ?`, column), value, login,
	)
	if tx.Error != nil {
		return fmt.Errorf("failed to update principal %q: %w", login, tx.Error)
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("principal %q not found", login)
	}
	return nil
}

func splitRoles(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	roles := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			roles = append(roles, p)
		}
	}
	return roles
}

func joinRoles(roles []string) string {
	return strings.Join(roles, ",")
}

// nullable maps the empty string to NULL so the partial unique index on
// api_key is not tripped by password-only principals.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
