package api

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"noticeboard/pkg/actor"
	"noticeboard/pkg/common"
	"noticeboard/pkg/logger"
)

type (
	ActorRepo interface {
		Add(context.Context, *actor.Actor) (int64, error)
		GetByUsernameAndPass(context.Context, string, string) (*actor.Actor, error)
		GetAll(context.Context) ([]*actor.Actor, error)
		Delete(context.Context, int64) error
	}

	SessionManager interface {
		CreateToken(*actor.Actor) (string, error)
		CleanupSessions(actorID int64) error
	}

	ActorHandler struct {
		Repo           ActorRepo
		SessionManager SessionManager
		validate       *validator.Validate
	}

	SignupForm struct {
		Username string `json:"username" validate:"required,min=3,max=30,handle"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
		Name     string `json:"name" validate:"required,min=2"`
		Faculty  string `json:"faculty" validate:"omitempty,lowercase"`
	}

	LoginForm struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
)

var handleRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

func NewActorHandler(r ActorRepo, sm SessionManager) *ActorHandler {
	v := validator.New()
	v.RegisterValidation("handle", func(fl validator.FieldLevel) bool {
		return handleRe.MatchString(fl.Field().String())
	})
	return &ActorHandler{
		Repo:           r,
		SessionManager: sm,
		validate:       v,
	}
}

func (ah *ActorHandler) LogIn(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	form := new(LoginForm)
	err := common.ParseReqBody(r.Body, form)
	if err != nil {
		logger.Log(r.Context()).Errorf("can't parse request body as login form: %v", err)
		common.WriteMsg(w, "bad request format", http.StatusBadRequest)
		return
	}

	a, err := ah.Repo.GetByUsernameAndPass(r.Context(), form.Username, form.Password)
	if errors.Is(err, actor.ErrInvalidCredentials) {
		common.WriteMsg(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if err != nil {
		logger.Log(r.Context()).Errorf("can't get the actor by username `%s`: %v", form.Username, err)
		common.WriteMsg(w, "login failed", http.StatusInternalServerError)
		return
	}

	// Remove expired actor sessions if there are any
	if err := ah.SessionManager.CleanupSessions(a.Id); err != nil {
		logger.Log(r.Context()).Errorf("actor/api: can't cleanup sessions for `%s`: %v", form.Username, err)
		common.WriteMsg(w, "failed managing actor sessions", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	ah.sendToken(w, a)
}

func (ah *ActorHandler) Register(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	form := new(SignupForm)
	err := common.ParseReqBody(r.Body, form)
	if err != nil {
		logger.Log(r.Context()).Errorf("can't parse request body as signup form: %v", err)
		common.WriteMsg(w, "bad request format", http.StatusBadRequest)
		return
	}

	if err := ah.validate.Struct(form); err != nil {
		common.WriteFieldErrors(w, fieldErrors(err), http.StatusUnprocessableEntity)
		return
	}

	salt := common.RandStringRunes(8)
	a := &actor.Actor{
		Username:    form.Username,
		DisplayName: form.Name,
		Email:       form.Email,
		Faculty:     form.Faculty,
		Password:    common.HashPass(form.Password, salt),
		// Role defaults to the plain user role in the repo,
		// nobody signs up as an admin.
	}

	id, err := ah.Repo.Add(r.Context(), a)
	if errors.Is(err, actor.ErrDuplicateIdentity) {
		common.WriteMsg(w, "username or email is already taken", http.StatusConflict)
		return
	}
	if err != nil {
		logger.Log(r.Context()).Errorf("can't add actor: %v", err)
		common.WriteMsg(w, "can't add actor", http.StatusInternalServerError)
		return
	}
	a.Id = id

	w.WriteHeader(http.StatusCreated)
	ah.sendToken(w, a)
}

// List returns the whole directory for the manage-users screen.
func (ah *ActorHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	actors, err := ah.Repo.GetAll(r.Context())
	if err != nil {
		logger.Log(r.Context()).Errorf("can't load actors from the repo: %v", err)
		common.WriteMsg(w, "failed loading actors", http.StatusInternalServerError)
		return
	}

	common.WriteRespJSON(w, actors)
}

func (ah *ActorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id, err := strconv.ParseInt(mux.Vars(r)["user_id"], 10, 64)
	if err != nil {
		common.WriteMsg(w, "bad actor id", http.StatusBadRequest)
		return
	}

	err = ah.Repo.Delete(r.Context(), id)
	if errors.Is(err, actor.ErrNotFound) {
		common.WriteMsg(w, "actor not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Log(r.Context()).Errorf("can't delete actor %d: %v", id, err)
		common.WriteMsg(w, "deleting actor failed", http.StatusInternalServerError)
		return
	}

	common.WriteMsg(w, "success", http.StatusOK)
}

func (ah *ActorHandler) sendToken(w http.ResponseWriter, a *actor.Actor) {
	token, err := ah.SessionManager.CreateToken(a)
	if err != nil {
		logger.Log(context.Background()).Errorf("can't create JWT token for actor: %v", err)
		common.WriteMsg(w, "actor authentication failed", http.StatusInternalServerError)
		return
	}

	tk := struct {
		Token string       `json:"token"`
		Actor *actor.Actor `json:"actor"`
	}{token, a}
	common.WriteRespJSON(w, tk)
}

func fieldErrors(err error) map[string]string {
	fields := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields["form"] = err.Error()
		return fields
	}
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	return fields
}
