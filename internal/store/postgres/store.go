package postgres

import (
	"context"
	"crypto/cipher"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"carechat-backend/internal/models"
	"carechat-backend/internal/store"
)

// Querier is the subset of pgxpool.Pool the store uses. Declared so tests
// can substitute a pgxmock pool.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Compile-time check to ensure PostgresStore implements store.Store
var _ store.Store = (*PostgresStore)(nil)

// PostgresStore persists all entities in PostgreSQL. Message content is
// sealed with the AEAD before insert and opened on read; everything else is
// stored in the clear.
type PostgresStore struct {
	db   Querier
	aead cipher.AEAD
}

// NewPostgresStore creates a store over the given pool. aead may be nil, in
// which case message content is stored as plaintext (local development only).
func NewPostgresStore(db Querier, aead cipher.AEAD) *PostgresStore {
	return &PostgresStore{db: db, aead: aead}
}

// --- User Methods ---

const getUserByEmail = `-- name: GetUserByEmail :one
SELECT id, email, hashed_password, role, created_at, updated_at
FROM users
WHERE email = $1;
`

// GetUserByEmail retrieves a user by their email address.
// Returns store.ErrNotFound if the user does not exist.
func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRow(ctx, getUserByEmail, email)

	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.HashedPassword,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("database error fetching user by email: %w", err)
	}

	return user, nil
}

const getUserByID = `-- name: GetUserByID :one
SELECT id, email, hashed_password, role, created_at, updated_at
FROM users
WHERE id = $1;
`

// GetUserByID retrieves a user by id.
func (s *PostgresStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	row := s.db.QueryRow(ctx, getUserByID, id)

	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.HashedPassword,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("database error fetching user by id: %w", err)
	}

	return user, nil
}

const createUser = `-- name: CreateUser :one
INSERT INTO users (email, hashed_password, role)
VALUES ($1, $2, $3)
RETURNING id, email, hashed_password, role, created_at, updated_at;
`

// CreateUser inserts a new user record into the database.
func (s *PostgresStore) CreateUser(ctx context.Context, email, hashedPassword, role string) (*models.User, error) {
	row := s.db.QueryRow(ctx, createUser, email, hashedPassword, role)

	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.HashedPassword,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("database error creating user: %w", err)
	}

	return user, nil
}
