package actor

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v4/stdlib"

	"noticeboard/pkg/common"
	"noticeboard/pkg/role"
)

var (
	ErrInvalidCredentials = errors.New("actor: invalid credentials")
	ErrDuplicateIdentity  = errors.New("actor: username or email is already taken")
	ErrNotFound           = errors.New("actor: not found")
)

type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{
		db: db,
	}
}

// Add registers a new actor. The role defaults to the plain user role
// unless set by the caller (only seeding sets it).
func (r *Repo) Add(ctx context.Context, a *Actor) (int64, error) {
	if a.Role == "" {
		a.Role = role.User
	}

	taken, err := r.identityTaken(ctx, a.Username, a.Email)
	if err != nil {
		return 0, err
	}
	if taken {
		return 0, ErrDuplicateIdentity
	}

	row := r.db.QueryRowContext(ctx,
		`INSERT INTO actors(username, display_name, email, role, faculty, password)
		 VALUES($1, $2, $3, $4, $5, $6) RETURNING id`,
		a.Username, a.DisplayName, a.Email, a.Role, a.Faculty, a.Password)
	if err := row.Scan(&a.Id); err != nil {
		return 0, fmt.Errorf("actor/repo: actor wasn't added: %w", err)
	}
	return a.Id, nil
}

func (r *Repo) GetByUsernameAndPass(ctx context.Context, uname, pass string) (*Actor, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, username, display_name, email, role, faculty, password FROM actors WHERE username=$1", uname)
	a := new(Actor)
	err := row.Scan(&a.Id, &a.Username, &a.DisplayName, &a.Email, &a.Role, &a.Faculty, &a.Password)
	if err == sql.ErrNoRows {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("actor/repo: row scan failed: %w", err)
	}
	// Actor found by username, now check if passwords are the same
	salt := string(a.Password[0:8])
	if !bytes.Equal(common.HashPass(pass, salt), a.Password) {
		return nil, ErrInvalidCredentials
	}
	return a, nil
}

func (r *Repo) GetById(ctx context.Context, id int64) (*Actor, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, username, display_name, email, role, faculty FROM actors WHERE id=$1", id)
	a := new(Actor)
	err := row.Scan(&a.Id, &a.Username, &a.DisplayName, &a.Email, &a.Role, &a.Faculty)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("actor/repo: could not scan row: %w", err)
	}
	return a, nil
}

func (r *Repo) identityTaken(ctx context.Context, uname, email string) (bool, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id FROM actors WHERE username=$1 OR email=$2", uname, email)
	var id int64
	err := row.Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("actor/repo: could not scan row: %w", err)
	}
	return true, nil
}

func (r *Repo) GetAll(ctx context.Context) ([]*Actor, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, username, display_name, email, role, faculty FROM actors ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("actor/repo: failed executing query for getting all actors: %w", err)
	}
	defer rows.Close()

	actors := []*Actor{}
	for rows.Next() {
		a := new(Actor)
		err := rows.Scan(&a.Id, &a.Username, &a.DisplayName, &a.Email, &a.Role, &a.Faculty)
		if err != nil {
			return nil, fmt.Errorf("actor/repo: could not scan row: %w", err)
		}
		actors = append(actors, a)
	}

	return actors, nil
}

func (r *Repo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM actors WHERE id=$1", id)
	if err != nil {
		return fmt.Errorf("actor/repo: failed deleting actor: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("actor/repo: failed deleting actor: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
