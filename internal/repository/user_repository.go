package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"study-buddy/internal/domain"
	"study-buddy/internal/repository/models"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

// sqlxUserRepository implements domain.UserRepository using sqlx.
type sqlxUserRepository struct {
	db *sqlx.DB
}

// NewSQLXUserRepository creates a new instance of sqlxUserRepository.
func NewSQLXUserRepository(db *sqlx.DB) domain.UserRepository {
	return &sqlxUserRepository{db: db}
}

func toDomainUser(m *models.User) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		ID:           m.ID,
		Name:         m.Name.String,
		Email:        m.Email,
		PasswordHash: m.HashedPassword,
		CreatedAt:    m.CreatedAt,
	}
}

// CreateUser inserts user and sets its ID. A duplicate e-mail is a conflict.
func (r *sqlxUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO users (name, email, hashed_password, created_at) VALUES (?, ?, ?, ?)`
	res, err := executor(ctx, r.db).ExecContext(ctx, query,
		nullString(user.Name), user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflictError("Email already registered")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read user id: %w", err)
	}
	user.ID = id
	return nil
}

// GetUserByEmail retrieves a user by e-mail. It returns (nil, nil) when none exists.
func (r *sqlxUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user models.User
	query := `SELECT id, name, email, hashed_password, created_at FROM users WHERE email = ?`
	if err := executor(ctx, r.db).GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return toDomainUser(&user), nil
}

func (r *sqlxUserRepository) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	var user models.User
	query := `SELECT id, name, email, hashed_password, created_at FROM users WHERE id = ?`
	if err := executor(ctx, r.db).GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return toDomainUser(&user), nil
}

func (r *sqlxUserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := executor(ctx, r.db).ExecContext(ctx,
		`UPDATE users SET hashed_password = ? WHERE id = ?`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return domain.NewNotFoundError("User not found")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
