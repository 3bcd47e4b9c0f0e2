package repository

import (
	"context"
	"database/sql"
	"errors"
)

type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Role         string
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, role FROM users WHERE email=?`, email).
		Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// EnsureUser crea el usuario si no existe; si el email ya está registrado
// no toca nada (se usa para sembrar el admin inicial).
func (s *Store) EnsureUser(ctx context.Context, u *User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users(email, name, password_hash, role)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(email) DO NOTHING`,
		u.Email, u.Name, u.PasswordHash, u.Role)
	return err
}
