package services

import (
	"context"
	"database/sql"
	"math"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/flextrack/timetrack-be/internal/models"
)

// HoursServiceProvider defines the interface for the working-hours service.
// Every operation is scoped to the owning user; a record belonging to a
// different user behaves exactly like a missing one.
type HoursServiceProvider interface {
	List(ctx context.Context, userID string) ([]models.WorkingHours, error)
	ListByMonth(ctx context.Context, userID string, year, month int) ([]models.WorkingHours, error)
	Get(ctx context.Context, userID, id string) (models.WorkingHours, error)
	Create(ctx context.Context, userID string, date models.Date, hours float64, comment string) (models.WorkingHours, error)
	Update(ctx context.Context, userID, id string, hours *float64, comment *string) (models.WorkingHours, error)
	Delete(ctx context.Context, userID, id string) error
	Summarize(ctx context.Context, user models.User) (Summary, error)
}

// Summary aggregates a user's tracked time.
type Summary struct {
	WorkedDays  int     `json:"worked_days"`
	WorkedHours float64 `json:"worked_hours"`
	Flextime    float64 `json:"flextime"`
}

const maxCommentLength = 64

// HoursService provides business logic for working-hours records.
type HoursService struct {
	db *sql.DB
}

// NewHoursService creates a new HoursService.
func NewHoursService(db *sql.DB) *HoursService {
	return &HoursService{db: db}
}

const hoursColumns = "id, date, working_hours, comment, user_id"

func scanHours(scan func(dest ...any) error) (models.WorkingHours, error) {
	var entry models.WorkingHours
	var dateStr string
	var comment sql.NullString
	if err := scan(&entry.ID, &dateStr, &entry.Hours, &comment, &entry.UserID); err != nil {
		return models.WorkingHours{}, err
	}
	date, err := models.ParseDate(dateStr)
	if err != nil {
		return models.WorkingHours{}, err
	}
	entry.Date = date
	entry.Comment = comment.String
	return entry, nil
}

// List returns all entries of the given user, in no particular order.
func (s *HoursService) List(ctx context.Context, userID string) ([]models.WorkingHours, error) {
	return s.query(ctx, "SELECT "+hoursColumns+" FROM working_hours WHERE user_id = ?", userID)
}

// ListByMonth returns the user's entries within the given month, ascending
// by date. Month 12 rolls over into January of the following year.
func (s *HoursService) ListByMonth(ctx context.Context, userID string, year, month int) ([]models.WorkingHours, error) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)
	return s.query(ctx,
		"SELECT "+hoursColumns+" FROM working_hours WHERE user_id = ? AND date >= ? AND date < ? ORDER BY date ASC",
		userID, first.Format(models.DateLayout), next.Format(models.DateLayout))
}

func (s *HoursService) query(ctx context.Context, query string, args ...any) ([]models.WorkingHours, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.WorkingHours
	for rows.Next() {
		entry, err := scanHours(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, entry)
	}
	return list, rows.Err()
}

// Get retrieves one entry of the given user.
func (s *HoursService) Get(ctx context.Context, userID, id string) (models.WorkingHours, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+hoursColumns+" FROM working_hours WHERE user_id = ? AND id = ?", userID, id)
	entry, err := scanHours(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.WorkingHours{}, notFoundErr("there is no entry with given id")
		}
		return models.WorkingHours{}, err
	}
	return entry, nil
}

// Create stores a new entry. At most one entry may exist per user and date.
func (s *HoursService) Create(ctx context.Context, userID string, date models.Date, hours float64, comment string) (models.WorkingHours, error) {
	if hours < 0 || hours > 24 {
		return models.WorkingHours{}, invalidErr("working hours must be between 0 and 24")
	}
	if utf8.RuneCountInString(comment) > maxCommentLength {
		return models.WorkingHours{}, invalidErr("comment must not exceed 64 characters")
	}

	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM working_hours WHERE user_id = ? AND date = ?", userID, date.Key()).Scan(&n)
	if err != nil {
		return models.WorkingHours{}, err
	}
	if n > 0 {
		return models.WorkingHours{}, conflictErr("there is already an entry for given date")
	}

	entry := models.WorkingHours{
		ID:      uuid.New().String(),
		Date:    date,
		Hours:   hours,
		Comment: comment,
		UserID:  userID,
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO working_hours(id, date, working_hours, comment, user_id) VALUES(?, ?, ?, ?, ?)",
		entry.ID, entry.Date.Key(), entry.Hours, entry.Comment, entry.UserID)
	if err != nil {
		return models.WorkingHours{}, err
	}
	return entry, nil
}

// Update changes hours and/or comment of an existing entry. A nil field is
// left unchanged; date and owner are immutable. Out-of-range hours are
// rejected rather than silently dropped.
func (s *HoursService) Update(ctx context.Context, userID, id string, hours *float64, comment *string) (models.WorkingHours, error) {
	entry, err := s.Get(ctx, userID, id)
	if err != nil {
		return models.WorkingHours{}, err
	}

	if hours != nil {
		if *hours < 0 || *hours > 24 {
			return models.WorkingHours{}, invalidErr("working hours must be between 0 and 24")
		}
		entry.Hours = *hours
	}
	if comment != nil {
		if utf8.RuneCountInString(*comment) > maxCommentLength {
			return models.WorkingHours{}, invalidErr("comment must not exceed 64 characters")
		}
		entry.Comment = *comment
	}

	_, err = s.db.ExecContext(ctx,
		"UPDATE working_hours SET working_hours = ?, comment = ? WHERE user_id = ? AND id = ?",
		entry.Hours, entry.Comment, userID, id)
	if err != nil {
		return models.WorkingHours{}, err
	}
	return entry, nil
}

// Delete removes an entry. Deleting the same id twice yields not-found the
// second time.
func (s *HoursService) Delete(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM working_hours WHERE user_id = ? AND id = ?", userID, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFoundErr("there is no entry with given id")
	}
	return nil
}

// Summarize computes worked days, worked hours and the flextime balance for
// the user. A user without entries gets all zeroes.
func (s *HoursService) Summarize(ctx context.Context, user models.User) (Summary, error) {
	var days int
	var total float64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(date), COALESCE(SUM(working_hours), 0) FROM working_hours WHERE user_id = ?",
		user.ID).Scan(&days, &total)
	if err != nil {
		return Summary{}, err
	}

	// Flextime is derived from the already-rounded worked hours so the two
	// reported numbers stay consistent with each other.
	workedHours := round2(total)
	return Summary{
		WorkedDays:  days,
		WorkedHours: workedHours,
		Flextime:    round2(workedHours - float64(days)*user.TargetTime),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
