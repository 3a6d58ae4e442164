package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"blogapi/domain"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SQLite implements PostStore and UserStore on a local database file. It is
// meant for development; conditional writes are expressed as WHERE clauses.
type SQLite struct {
	db *sql.DB
}

func OpenSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	return &SQLite{db: db}, nil
}

// Migrate brings the schema to the latest version. An up-to-date schema is
// not an error.
func (s *SQLite) Migrate() error {
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}
	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) GetPost(ctx context.Context, id string) (domain.Post, error) {
	p := domain.Post{}
	row := s.db.QueryRowContext(ctx, "SELECT id, email, message, image_url FROM posts WHERE id = ?", id)
	if err := row.Scan(&p.ID, &p.Email, &p.Message, &p.ImageURL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, fmt.Errorf("post %q: %w", id, ErrNotFound)
		}
		return p, fmt.Errorf("get post %q: %w", id, err)
	}
	return p, nil
}

func (s *SQLite) PutPost(ctx context.Context, post domain.Post) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO posts (id, email, message, image_url) VALUES (?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET email = excluded.email, message = excluded.message, image_url = excluded.image_url`,
		post.ID, post.Email, post.Message, post.ImageURL)
	if err != nil {
		return fmt.Errorf("put post %q: %w", post.ID, err)
	}
	return nil
}

func (s *SQLite) ReplacePost(ctx context.Context, post domain.Post) error {
	result, err := s.db.ExecContext(ctx, "UPDATE posts SET message = ?, image_url = ? WHERE id = ? AND email = ?",
		post.Message, post.ImageURL, post.ID, post.Email)
	if err != nil {
		return fmt.Errorf("replace post %q: %w", post.ID, err)
	}
	return s.checkAffected(ctx, result, post.ID)
}

func (s *SQLite) DeletePost(ctx context.Context, id, owner string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM posts WHERE id = ? AND email = ?", id, owner)
	if err != nil {
		return fmt.Errorf("delete post %q: %w", id, err)
	}
	return s.checkAffected(ctx, result, id)
}

func (s *SQLite) ScanPosts(ctx context.Context) ([]domain.Post, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, email, message, image_url FROM posts ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("scan posts: %w", err)
	}
	defer rows.Close()
	posts := []domain.Post{}
	for rows.Next() {
		p := domain.Post{}
		if err := rows.Scan(&p.ID, &p.Email, &p.Message, &p.ImageURL); err != nil {
			return nil, fmt.Errorf("scan posts: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (s *SQLite) GetUser(ctx context.Context, email string) (domain.User, error) {
	u := domain.User{}
	row := s.db.QueryRowContext(ctx, "SELECT email, password FROM users WHERE email = ?", email)
	if err := row.Scan(&u.Email, &u.Password); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return u, fmt.Errorf("user %q: %w", email, ErrNotFound)
		}
		return u, fmt.Errorf("get user %q: %w", email, err)
	}
	return u, nil
}

func (s *SQLite) PutUser(ctx context.Context, user domain.User) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO users (email, password) VALUES (?, ?)
        ON CONFLICT(email) DO UPDATE SET password = excluded.password`, user.Email, user.Password)
	if err != nil {
		return fmt.Errorf("put user %q: %w", user.Email, err)
	}
	return nil
}

func (s *SQLite) CreateUser(ctx context.Context, user domain.User) error {
	result, err := s.db.ExecContext(ctx, "INSERT INTO users (email, password) VALUES (?, ?) ON CONFLICT(email) DO NOTHING",
		user.Email, user.Password)
	if err != nil {
		return fmt.Errorf("create user %q: %w", user.Email, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("user %q: %w", user.Email, ErrConflict)
	}
	return nil
}

// checkAffected turns a conditional write that touched no row into
// ErrNotFound or ErrConditionFailed.
func (s *SQLite) checkAffected(ctx context.Context, result sql.Result, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}
	if _, err := s.GetPost(ctx, id); err != nil {
		return err
	}
	return fmt.Errorf("post %q: %w", id, ErrConditionFailed)
}
