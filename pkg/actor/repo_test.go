package actor

import (
	"context"
	"fmt"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	. "noticeboard/pkg/common"
	"noticeboard/pkg/role"
)

var (
	actorID    = int64(1)
	username   = "student1"
	password   = "student123"
	salt       = "12345678"
	hashedPass = HashPass(password, salt)
)

func TestGetById(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("cant create mock: %s", err)
	}
	defer db.Close()

	r := NewRepo(db)

	t.Run("should return actor", func(t *testing.T) {
		expect := &Actor{Id: actorID, Username: username, DisplayName: "John Doe",
			Email: "john@student.bdu.edu.et", Role: role.User, Faculty: "computing"}

		rows := sqlmock.NewRows([]string{"id", "username", "display_name", "email", "role", "faculty"})
		rows.AddRow(expect.Id, expect.Username, expect.DisplayName, expect.Email, string(expect.Role), expect.Faculty)

		mock.
			ExpectQuery("SELECT id, username, display_name, email, role, faculty FROM actors WHERE id").
			WithArgs(actorID).
			WillReturnRows(rows)

		gotActor, err := r.GetById(context.TODO(), actorID)
		if err != nil {
			t.Errorf("unexpected err: %s", err)
			return
		}
		assert.Equal(t, expect, gotActor)
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("expectations unfulfilled: %s", err)
			return
		}
	})

	t.Run("should return not found for missing id", func(t *testing.T) {
		mock.
			ExpectQuery("SELECT id, username, display_name, email, role, faculty FROM actors WHERE id").
			WithArgs(int64(404)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "display_name", "email", "role", "faculty"}))

		_, err := r.GetById(context.TODO(), 404)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("should return DB error", func(t *testing.T) {
		expectedErr := fmt.Errorf("mock_db_error")
		mock.
			ExpectQuery("SELECT id, username, display_name, email, role, faculty FROM actors WHERE id").
			WithArgs(actorID).
			WillReturnError(expectedErr)
		_, err = r.GetById(context.TODO(), actorID)
		assert.ErrorIs(t, err, expectedErr)
	})
}

func TestGetByUsernameAndPass(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("cant create mock: %s", err)
	}
	defer db.Close()

	r := NewRepo(db)

	fullRows := func() *sqlmock.Rows {
		rows := sqlmock.NewRows([]string{"id", "username", "display_name", "email", "role", "faculty", "password"})
		rows.AddRow(actorID, username, "John Doe", "john@student.bdu.edu.et", "user", "computing", hashedPass)
		return rows
	}

	t.Run("correct password", func(t *testing.T) {
		mock.
			ExpectQuery("SELECT id, username, display_name, email, role, faculty, password FROM actors WHERE username").
			WithArgs(username).
			WillReturnRows(fullRows())

		a, err := r.GetByUsernameAndPass(context.TODO(), username, password)
		assert.Nil(t, err)
		assert.Equal(t, actorID, a.Id)
		assert.Equal(t, role.User, a.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		mock.
			ExpectQuery("SELECT id, username, display_name, email, role, faculty, password FROM actors WHERE username").
			WithArgs(username).
			WillReturnRows(fullRows())

		_, err := r.GetByUsernameAndPass(context.TODO(), username, "letmein")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown username", func(t *testing.T) {
		mock.
			ExpectQuery("SELECT id, username, display_name, email, role, faculty, password FROM actors WHERE username").
			WithArgs("nobody").
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "display_name", "email", "role", "faculty", "password"}))

		_, err := r.GetByUsernameAndPass(context.TODO(), "nobody", "nevermind")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestRepoAdd(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("cant create mock: %s", err)
	}
	defer db.Close()
	repo := NewRepo(db)

	t.Run("should add new actor with default role", func(t *testing.T) {
		mock.
			ExpectQuery("SELECT id FROM actors WHERE username").
			WithArgs(username, "john@student.bdu.edu.et").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.
			ExpectQuery("INSERT INTO actors").
			WithArgs(username, "John Doe", "john@student.bdu.edu.et", "user", "computing", hashedPass).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

		a := &Actor{Username: username, DisplayName: "John Doe",
			Email: "john@student.bdu.edu.et", Faculty: "computing", Password: hashedPass}
		id, err := repo.Add(context.TODO(), a)
		assert.Nil(t, err)
		assert.Equal(t, int64(7), id)
		assert.Equal(t, role.User, a.Role)
	})

	t.Run("should reject taken identity", func(t *testing.T) {
		mock.
			ExpectQuery("SELECT id FROM actors WHERE username").
			WithArgs(username, "john@student.bdu.edu.et").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

		a := &Actor{Username: username, Email: "john@student.bdu.edu.et", Password: hashedPass}
		_, err := repo.Add(context.TODO(), a)
		assert.ErrorIs(t, err, ErrDuplicateIdentity)
	})
}

func TestRepoDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("cant create mock: %s", err)
	}
	defer db.Close()
	repo := NewRepo(db)

	t.Run("should delete actor", func(t *testing.T) {
		mock.
			ExpectExec("DELETE FROM actors WHERE id").
			WithArgs(actorID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.Nil(t, repo.Delete(context.TODO(), actorID))
	})

	t.Run("should report missing actor", func(t *testing.T) {
		mock.
			ExpectExec("DELETE FROM actors WHERE id").
			WithArgs(int64(404)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.TODO(), 404), ErrNotFound)
	})
}
