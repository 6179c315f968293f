package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	gomock "github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"noticeboard/pkg/actor"
	"noticeboard/pkg/common"
	"noticeboard/pkg/role"
)

var (
	actorID  = int64(4)
	username = "student1"
	password = "student123"
	jwtToken = "header.payload.signature"
)

func TestLogIn(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	existing := &actor.Actor{Id: actorID, Username: username, Role: role.User}
	mockRepo := NewMockActorRepo(ctrl)
	mockSm := NewMockSessionManager(ctrl)
	handler := NewActorHandler(mockRepo, mockSm)

	loginReq := func(un, pw string) *http.Request {
		body := strings.NewReader(`{"username": "` + un + `", "password": "` + pw + `"}`)
		return httptest.NewRequest("POST", "/api/login", body)
	}

	t.Run("login is OK", func(t *testing.T) {
		mockRepo.EXPECT().GetByUsernameAndPass(gomock.Any(), username, password).Return(existing, nil)
		mockSm.EXPECT().CleanupSessions(actorID).Return(nil)
		mockSm.EXPECT().CreateToken(existing).Return(jwtToken, nil)

		w := httptest.NewRecorder()
		handler.LogIn(w, loginReq(username, password))
		resp := w.Result()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, w.Body.String(), jwtToken)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		mockRepo.EXPECT().GetByUsernameAndPass(gomock.Any(), "notexists", "nevermind").
			Return(nil, actor.ErrInvalidCredentials)

		w := httptest.NewRecorder()
		handler.LogIn(w, loginReq("notexists", "nevermind"))
		assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
	})
}

func TestRegister(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := NewMockActorRepo(ctrl)
	mockSm := NewMockSessionManager(ctrl)
	handler := NewActorHandler(mockRepo, mockSm)

	signupReq := func(body string) *http.Request {
		return httptest.NewRequest("POST", "/api/register", strings.NewReader(body))
	}

	validBody := `{"username": "student3", "email": "amy@student.bdu.edu.et",
		"password": "student123", "name": "Amy Pond", "faculty": "computing"}`

	t.Run("signup is OK", func(t *testing.T) {
		mockRepo.EXPECT().Add(gomock.Any(), gomock.Any()).Return(int64(6), nil)
		mockSm.EXPECT().CreateToken(gomock.Any()).Return(jwtToken, nil)

		w := httptest.NewRecorder()
		handler.Register(w, signupReq(validBody))
		assert.Equal(t, http.StatusCreated, w.Result().StatusCode)
	})

	t.Run("bad fields never reach the repo", func(t *testing.T) {
		tests := []struct {
			name string
			body string
		}{
			{"short username", `{"username": "ab", "email": "a@b.et", "password": "student123", "name": "Amy"}`},
			{"username with spaces", `{"username": "not a handle", "email": "a@b.et", "password": "student123", "name": "Amy"}`},
			{"bad email", `{"username": "student3", "email": "nope", "password": "student123", "name": "Amy"}`},
			{"short password", `{"username": "student3", "email": "a@b.et", "password": "123", "name": "Amy"}`},
			{"missing name", `{"username": "student3", "email": "a@b.et", "password": "student123"}`},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				w := httptest.NewRecorder()
				handler.Register(w, signupReq(tt.body))
				assert.Equal(t, http.StatusUnprocessableEntity, w.Result().StatusCode)

				fields := common.FieldErrors{}
				assert.Nil(t, json.NewDecoder(w.Body).Decode(&fields))
				assert.NotEmpty(t, fields.Fields)
			})
		}
	})

	t.Run("duplicate identity", func(t *testing.T) {
		mockRepo.EXPECT().Add(gomock.Any(), gomock.Any()).Return(int64(0), actor.ErrDuplicateIdentity)

		w := httptest.NewRecorder()
		handler.Register(w, signupReq(validBody))
		assert.Equal(t, http.StatusConflict, w.Result().StatusCode)
	})
}
