package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Users

func (s *PostgresStore) CreateUser(ctx context.Context, user User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, display_name, email, password_hash, is_superuser, is_staff)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, user.ID, user.DisplayName, user.Email, user.PasswordHash, user.IsSuperuser, user.IsStaff)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, userID string) (User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, display_name, email, password_hash, is_superuser, is_staff, created_at
		FROM users WHERE id = $1
	`, userID).Scan(&user.ID, &user.DisplayName, &user.Email, &user.PasswordHash, &user.IsSuperuser, &user.IsStaff, &user.CreatedAt)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, display_name, email, password_hash, is_superuser, is_staff, created_at
		FROM users WHERE email = $1
	`, email).Scan(&user.ID, &user.DisplayName, &user.Email, &user.PasswordHash, &user.IsSuperuser, &user.IsStaff, &user.CreatedAt)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *PostgresStore) UpdateUserPassword(ctx context.Context, userID, passwordHash string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET password_hash=$2 WHERE id=$1`, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// SetUserStaff flips the staff flag. Called as an explicit step when an
// assignment is created, so the role-implies-flag side effect stays visible.
func (s *PostgresStore) SetUserStaff(ctx context.Context, userID string, staff bool) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET is_staff=$2 WHERE id=$1`, userID, staff)
	if err != nil {
		return fmt.Errorf("set staff flag: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreatePasswordReset(ctx context.Context, userID, token string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO password_resets (token, user_id, expires_at)
		VALUES ($1, $2, $3)
	`, token, userID, expiresAt)
	if err != nil {
		return fmt.Errorf("create password reset: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetPasswordReset(ctx context.Context, token string) (string, error) {
	var userID string
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id FROM password_resets
		WHERE token = $1 AND used_at IS NULL AND expires_at > NOW()
	`, token).Scan(&userID)
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (s *PostgresStore) MarkPasswordResetUsed(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE password_resets SET used_at=NOW() WHERE token=$1`, token)
	if err != nil {
		return fmt.Errorf("mark reset used: %w", err)
	}
	return nil
}

// Categories

func (s *PostgresStore) InsertCategory(ctx context.Context, category Category) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, created_by)
		VALUES ($1, $2, $3)
	`, category.ID, category.Name, category.CreatedBy)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetOrCreateCategory returns the category with the given name, creating it
// when absent. The bool reports whether a row was created.
func (s *PostgresStore) GetOrCreateCategory(ctx context.Context, id, name string) (Category, bool, error) {
	var category Category
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, created_by, created_at FROM categories WHERE name = $1
	`, name).Scan(&category.ID, &category.Name, &category.CreatedBy, &category.CreatedAt)
	if err == nil {
		return category, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Category{}, false, fmt.Errorf("lookup category: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO categories (id, name)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, created_by, created_at
	`, id, name).Scan(&category.ID, &category.Name, &category.CreatedBy, &category.CreatedAt)
	if err != nil {
		return Category{}, false, fmt.Errorf("insert category: %w", err)
	}
	return category, true, nil
}

func (s *PostgresStore) GetCategory(ctx context.Context, categoryID string) (Category, error) {
	var category Category
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, created_by, created_at FROM categories WHERE id = $1
	`, categoryID).Scan(&category.ID, &category.Name, &category.CreatedBy, &category.CreatedAt)
	if err != nil {
		return Category{}, err
	}
	return category, nil
}

func (s *PostgresStore) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, created_by, created_at FROM categories ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []Category
	for rows.Next() {
		var category Category
		if err := rows.Scan(&category.ID, &category.Name, &category.CreatedBy, &category.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, category)
	}
	return items, rows.Err()
}

// Assignments

// ReplaceAssignment sets the full category set a user administers. The staff
// flag is not touched here; the caller flips it as its own step.
func (s *PostgresStore) ReplaceAssignment(ctx context.Context, userID string, categoryIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin assignment tx: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO category_admin_assignments (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`, userID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("upsert assignment: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM assignment_categories WHERE user_id=$1`, userID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear assignment categories: %w", err)
	}

	for _, categoryID := range categoryIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO assignment_categories (user_id, category_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, userID, categoryID); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert assignment category: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit assignment tx: %w", err)
	}
	return nil
}

// AssignedCategoryIDs returns the categories a user administers. An empty
// slice means the user holds no assignment.
func (s *PostgresStore) AssignedCategoryIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category_id FROM assignment_categories WHERE user_id=$1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list assigned categories: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan assigned category: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Suggestions

const suggestionColumns = `id, user_id, is_anonymous, category_id, title, content, status, sentiment, is_spam, auto_category, created_at, updated_at`

func (s *PostgresStore) InsertSuggestion(ctx context.Context, item Suggestion) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO suggestions (id, user_id, is_anonymous, category_id, title, content, status, sentiment, is_spam, auto_category)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, item.ID, item.UserID, item.IsAnonymous, item.CategoryID, item.Title, item.Content, item.Status, item.Sentiment, item.IsSpam, item.AutoCategory)
	if err != nil {
		return fmt.Errorf("insert suggestion: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetSuggestion(ctx context.Context, suggestionID string) (Suggestion, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+suggestionColumns+` FROM suggestions WHERE id = $1
	`, suggestionID)
	return scanSuggestionRow(row)
}

func (s *PostgresStore) ListSuggestions(ctx context.Context) ([]Suggestion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+suggestionColumns+` FROM suggestions ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	return scanSuggestions(rows)
}

func (s *PostgresStore) ListSuggestionsByCategories(ctx context.Context, categoryIDs []string) ([]Suggestion, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+suggestionColumns+` FROM suggestions
		WHERE category_id = ANY($1)
		ORDER BY created_at DESC
	`, categoryIDs)
	if err != nil {
		return nil, fmt.Errorf("list suggestions by categories: %w", err)
	}
	return scanSuggestions(rows)
}

func (s *PostgresStore) ListSuggestionsByAuthor(ctx context.Context, userID string) ([]Suggestion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+suggestionColumns+` FROM suggestions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list suggestions by author: %w", err)
	}
	return scanSuggestions(rows)
}

func (s *PostgresStore) UpdateSuggestionStatus(ctx context.Context, suggestionID, status string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE suggestions SET status=$2, updated_at=NOW() WHERE id=$1
	`, suggestionID, status)
	if err != nil {
		return fmt.Errorf("update suggestion status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update suggestion status: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanSuggestionRow(row *sql.Row) (Suggestion, error) {
	var item Suggestion
	err := row.Scan(&item.ID, &item.UserID, &item.IsAnonymous, &item.CategoryID, &item.Title, &item.Content,
		&item.Status, &item.Sentiment, &item.IsSpam, &item.AutoCategory, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return Suggestion{}, err
	}
	return item, nil
}

func scanSuggestions(rows *sql.Rows) ([]Suggestion, error) {
	defer rows.Close()
	var items []Suggestion
	for rows.Next() {
		var item Suggestion
		if err := rows.Scan(&item.ID, &item.UserID, &item.IsAnonymous, &item.CategoryID, &item.Title, &item.Content,
			&item.Status, &item.Sentiment, &item.IsSpam, &item.AutoCategory, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Replies

func (s *PostgresStore) InsertReply(ctx context.Context, reply Reply) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO replies (id, suggestion_id, admin_id, content)
		VALUES ($1, $2, $3, $4)
	`, reply.ID, reply.SuggestionID, reply.AdminID, reply.Content)
	if err != nil {
		return fmt.Errorf("insert reply: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListReplies(ctx context.Context, suggestionID string) ([]Reply, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.suggestion_id, r.admin_id, COALESCE(u.display_name, 'Admin'), r.content, r.created_at
		FROM replies r
		LEFT JOIN users u ON u.id = r.admin_id
		WHERE r.suggestion_id = $1
		ORDER BY r.created_at ASC
	`, suggestionID)
	if err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}
	defer rows.Close()

	var items []Reply
	for rows.Next() {
		var reply Reply
		if err := rows.Scan(&reply.ID, &reply.SuggestionID, &reply.AdminID, &reply.AdminName, &reply.Content, &reply.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reply: %w", err)
		}
		items = append(items, reply)
	}
	return items, rows.Err()
}

// Refresh sessions (Postgres fallback when Redis is not configured)

func (s *PostgresStore) SaveRefreshSession(ctx context.Context, tokenHash, userID string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO refresh_sessions (token_hash, user_id, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (token_hash) DO UPDATE SET user_id=EXCLUDED.user_id, expires_at=EXCLUDED.expires_at, revoked_at=NULL
	`, tokenHash, userID, expiresAt)
	if err != nil {
		return fmt.Errorf("save refresh session: %w", err)
	}
	return nil
}

func (s *PostgresStore) LookupRefreshSession(ctx context.Context, tokenHash string) (User, error) {
	const query = `
		SELECT u.id, u.display_name, u.email, u.is_superuser, u.is_staff
		FROM refresh_sessions rs
		JOIN users u ON u.id = rs.user_id
		WHERE rs.token_hash = $1
			AND rs.revoked_at IS NULL
			AND rs.expires_at > NOW()
	`
	var user User
	err := s.db.QueryRowContext(ctx, query, tokenHash).Scan(&user.ID, &user.DisplayName, &user.Email, &user.IsSuperuser, &user.IsStaff)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *PostgresStore) RevokeRefreshSession(ctx context.Context, tokenHash string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE refresh_sessions SET revoked_at=NOW() WHERE token_hash=$1`, tokenHash)
	if err != nil {
		return fmt.Errorf("revoke refresh session: %w", err)
	}
	return nil
}

func (s *PostgresStore) RevokeAccessToken(ctx context.Context, jti string, exp time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO revoked_access_tokens (jti, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (jti) DO NOTHING
	`, jti, exp)
	if err != nil {
		return fmt.Errorf("revoke access token: %w", err)
	}
	return nil
}

func (s *PostgresStore) IsAccessTokenRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM revoked_access_tokens WHERE jti=$1)`, jti).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return revoked, nil
}
