package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// User is a registered account.
type User struct {
	ID      string
	Name    string
	Created time.Time
}

// ErrInvalidCredentials is returned when a name or password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository stores accounts with bcrypt-hashed passwords.
type UserRepository struct {
	db *DB
}

// NewUserRepository binds the repository to a database.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Register creates an account. Names are unique.
func (r *UserRepository) Register(ctx context.Context, name, password string) (*User, error) {
	if name == "" || password == "" {
		return nil, fmt.Errorf("name and password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &User{
		ID:      uuid.New().String(),
		Name:    name,
		Created: time.Now(),
	}
	const q = `INSERT INTO users (id, name, password_hash, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.pool.Exec(ctx, q, user.ID, user.Name, string(hash), user.Created); err != nil {
		return nil, fmt.Errorf("register user %q: %w", name, err)
	}
	return user, nil
}

// Authenticate checks a name and password pair.
func (r *UserRepository) Authenticate(ctx context.Context, name, password string) (*User, error) {
	const q = `SELECT id, name, password_hash, created_at FROM users WHERE name = $1`
	var (
		user User
		hash string
	)
	err := r.db.pool.QueryRow(ctx, q, name).Scan(&user.ID, &user.Name, &hash, &user.Created)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load user %q: %w", name, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// Get loads an account by id.
func (r *UserRepository) Get(ctx context.Context, id string) (*User, error) {
	const q = `SELECT id, name, created_at FROM users WHERE id = $1`
	var user User
	if err := r.db.pool.QueryRow(ctx, q, id).Scan(&user.ID, &user.Name, &user.Created); err != nil {
		return nil, fmt.Errorf("load user %s: %w", id, err)
	}
	return &user, nil
}
