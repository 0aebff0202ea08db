package store

import (
	"database/sql"
	"fmt"

	"github.com/postsparkhq/postspark/internal/model"
)

// Match describes how a user record was located during reconciliation.
type Match int

const (
	// MatchNone means no existing user matched either key.
	MatchNone Match = iota
	// MatchClerkID means the user was found by Clerk user id.
	MatchClerkID
	// MatchEmail means the user was found by email only; the Clerk id
	// still needs to be attached.
	MatchEmail
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := scanner.Scan(&u.ID, &u.ClerkUserID, &u.Email, &u.Name, &u.Points, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

const userCols = `id, clerk_user_id, email, name, points, created_at, updated_at`

func (s *UserStore) Create(clerkUserID, email, name string, points int) (*model.User, error) {
	result, err := s.db.Exec(
		`INSERT INTO users (clerk_user_id, email, name, points) VALUES (?, ?, ?, ?)`,
		clerkUserID, email, name, points,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *UserStore) GetByID(id int64) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByClerkID(clerkUserID string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE clerk_user_id = ?`, clerkUserID)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by clerk id: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByEmail(email string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// Lookup resolves a user for webhook reconciliation: first by Clerk user id,
// then by email. The returned Match tells the caller which key hit.
func (s *UserStore) Lookup(clerkUserID, email string) (*model.User, Match, error) {
	u, err := s.GetByClerkID(clerkUserID)
	if err != nil {
		return nil, MatchNone, err
	}
	if u != nil {
		return u, MatchClerkID, nil
	}

	u, err = s.GetByEmail(email)
	if err != nil {
		return nil, MatchNone, err
	}
	if u != nil {
		return u, MatchEmail, nil
	}

	return nil, MatchNone, nil
}

// UpdateProfile refreshes name and email for a user already matched by
// Clerk id.
func (s *UserStore) UpdateProfile(id int64, email, name string) error {
	_, err := s.db.Exec(
		`UPDATE users SET email = ?, name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		email, name, id,
	)
	if err != nil {
		return fmt.Errorf("update user profile: %w", err)
	}
	return nil
}

// AttachClerkID links a Clerk user id to a user matched by email.
func (s *UserStore) AttachClerkID(id int64, clerkUserID, name string) error {
	_, err := s.db.Exec(
		`UPDATE users SET clerk_user_id = ?, name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		clerkUserID, name, id,
	)
	if err != nil {
		return fmt.Errorf("attach clerk id: %w", err)
	}
	return nil
}

// IncrementPoints adjusts the balance by delta (negative to debit) and
// returns the updated user, or nil if no user has the given Clerk id.
// The balance is only ever moved relatively, never set.
func (s *UserStore) IncrementPoints(clerkUserID string, delta int) (*model.User, error) {
	result, err := s.db.Exec(
		`UPDATE users SET points = points + ?, updated_at = CURRENT_TIMESTAMP WHERE clerk_user_id = ?`,
		delta, clerkUserID,
	)
	if err != nil {
		return nil, fmt.Errorf("increment points: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	return s.GetByClerkID(clerkUserID)
}

// GetPoints returns the balance for a Clerk user id, or 0 when the user does
// not exist yet.
func (s *UserStore) GetPoints(clerkUserID string) (int, error) {
	var points int
	err := s.db.QueryRow(`SELECT points FROM users WHERE clerk_user_id = ?`, clerkUserID).Scan(&points)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get points: %w", err)
	}
	return points, nil
}
