package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/flextrack/timetrack-be/internal/models"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetByID(ctx context.Context, id string) (models.User, error)
	Create(ctx context.Context, params CreateUserParams) (models.User, error)
	UpdateProfile(ctx context.Context, id string, patch ProfilePatch) (models.User, error)
	UpdatePassword(ctx context.Context, id, newPassword string) error
	Authenticate(ctx context.Context, username, password string) (models.User, error)
}

// CreateUserParams carries the fields required to register a user.
type CreateUserParams struct {
	Username   string
	Email      string
	Password   string
	Company    string
	Job        string
	TargetTime float64
}

// ProfilePatch is the explicit allow-list of updatable profile fields.
// A nil field is left unchanged.
type ProfilePatch struct {
	Username   *string
	Email      *string
	Company    *string
	Job        *string
	TargetTime *float64
}

// UserService provides business logic for user management.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

const userColumns = "id, username, email, password_hash, company, job, target_time"

func scanUser(row *sql.Row) (models.User, error) {
	var user models.User
	var company, job sql.NullString
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &company, &job, &user.TargetTime)
	if err != nil {
		return models.User{}, err
	}
	user.Company = company.String
	user.Job = job.String
	return user, nil
}

// GetByID retrieves a single user by their ID.
func (s *UserService) GetByID(ctx context.Context, id string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, notFoundErr("there is no user with given id")
		}
		return models.User{}, err
	}
	return user, nil
}

// Create registers a new user, hashing their password. Username and email
// must be unique across all users.
func (s *UserService) Create(ctx context.Context, params CreateUserParams) (models.User, error) {
	if strings.TrimSpace(params.Username) == "" || strings.TrimSpace(params.Email) == "" || params.Password == "" {
		return models.User{}, invalidErr("username, email and password are required")
	}
	if params.TargetTime < 0 || params.TargetTime > 24 {
		return models.User{}, invalidErr("please enter target time in a valid range (0 to 24)")
	}

	taken, err := s.identityTaken(ctx, params.Username, params.Email, "")
	if err != nil {
		return models.User{}, err
	}
	if taken {
		return models.User{}, conflictErr("please use a different username or email")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: string(hashedPassword),
		Company:      params.Company,
		Job:          params.Job,
		TargetTime:   params.TargetTime,
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users(id, username, email, password_hash, company, job, target_time) VALUES(?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.Username, user.Email, user.PasswordHash, user.Company, user.Job, user.TargetTime)
	if err != nil {
		return models.User{}, err
	}

	user.PasswordHash = ""
	return user, nil
}

// UpdateProfile applies a partial update to a user's profile. Username and
// email uniqueness is re-validated against all other users only, so keeping
// the current value is always allowed.
func (s *UserService) UpdateProfile(ctx context.Context, id string, patch ProfilePatch) (models.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}

	if patch.Username != nil {
		taken, err := s.columnTaken(ctx, "username", *patch.Username, id)
		if err != nil {
			return models.User{}, err
		}
		if taken {
			return models.User{}, conflictErr("given username is already taken, choose another one")
		}
		user.Username = *patch.Username
	}
	if patch.Email != nil {
		taken, err := s.columnTaken(ctx, "email", *patch.Email, id)
		if err != nil {
			return models.User{}, err
		}
		if taken {
			return models.User{}, conflictErr("given e-mail address is already taken, choose another one")
		}
		user.Email = *patch.Email
	}
	if patch.Company != nil {
		user.Company = *patch.Company
	}
	if patch.Job != nil {
		user.Job = *patch.Job
	}
	if patch.TargetTime != nil {
		if *patch.TargetTime < 0 || *patch.TargetTime > 24 {
			return models.User{}, invalidErr("please enter target time in a valid range (0 to 24)")
		}
		user.TargetTime = *patch.TargetTime
	}

	_, err = s.db.ExecContext(ctx,
		"UPDATE users SET username = ?, email = ?, company = ?, job = ?, target_time = ? WHERE id = ?",
		user.Username, user.Email, user.Company, user.Job, user.TargetTime, id)
	if err != nil {
		return models.User{}, err
	}

	user.PasswordHash = ""
	return user, nil
}

// UpdatePassword hashes and stores a new password, overwriting any prior hash.
func (s *UserService) UpdatePassword(ctx context.Context, id, newPassword string) error {
	if newPassword == "" {
		return invalidErr("password must not be empty")
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	res, err := s.db.ExecContext(ctx, "UPDATE users SET password_hash = ? WHERE id = ?", string(hashedPassword), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFoundErr("there is no user with given id")
	}
	return nil
}

// Authenticate verifies a user's credentials. An unknown username and a
// wrong password yield the same error.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE username = ?", username)
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, unauthorizedErr("username or password is wrong")
		}
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, unauthorizedErr("username or password is wrong")
	}

	user.PasswordHash = ""
	return user, nil
}

// identityTaken reports whether username or email is used by any user other
// than excludeID.
func (s *UserService) identityTaken(ctx context.Context, username, email, excludeID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE (username = ? OR email = ?) AND id != ?",
		username, email, excludeID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// columnTaken reports whether the given username or email value is used by
// any user other than excludeID. column is always a fixed identifier.
func (s *UserService) columnTaken(ctx context.Context, column, value, excludeID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE "+column+" = ? AND id != ?",
		value, excludeID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
