package sessions

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/gomodule/redigo/redis"

	"noticeboard/pkg/actor"
	"noticeboard/pkg/common"
)

type (
	sessionKey string

	Manager struct {
		secret []byte
		redis  redis.Conn
	}

	jwtClaims struct {
		Actor actor.Actor `json:"actor"`
		jwt.StandardClaims
	}
)

const SessionKey sessionKey = "authenticatedActor"

const sessionTTL = 90 * 24 * time.Hour

var ErrNoAuth = errors.New("sessions: no session found")

func NewManager(secret string, conn redis.Conn) *Manager {
	return &Manager{
		secret: []byte(secret),
		redis:  conn,
	}
}

// TokenActor returns the logged in actor if the JWT token is valid and
// the session behind it is still alive in Redis.
func (sm *Manager) TokenActor(authHeader string) (*actor.Actor, error) {
	if authHeader == "" {
		return nil, errors.New("sessions: auth header not found")
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	token, err := jwt.ParseWithClaims(tokenString, &jwtClaims{},
		func(token *jwt.Token) (interface{}, error) {
			return []byte(sm.secret), nil
		})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*jwtClaims)
	if !ok {
		return nil, errors.New("sessions: can't cast token to claim")
	}
	if !token.Valid {
		return nil, errors.New("sessions: token is not valid")
	}

	_, redisErr := sm.CheckRedis(claims.Actor.Id, claims.Id)
	if redisErr != nil {
		return nil, fmt.Errorf("sessions/manager: Redis session is not valid: %v", redisErr)
	}

	return &claims.Actor, nil
}

// Goes through all actor sessions and removes expired ones.
func (sm *Manager) CleanupSessions(actorID int64) error {
	sessions, err := redis.StringMap(sm.redis.Do("HGETALL", sessionsRedisKey(actorID)))
	if err != nil {
		log.Println("sessions/manager: can't HGETALL actor sessions from Redis:", err)
		return err
	}

	nowTs := time.Now().Unix()
	for sessId, exp := range sessions {
		expTs, _ := strconv.ParseInt(exp, 10, 64)
		if nowTs > expTs {
			sm.redis.Do("HDEL", sessionsRedisKey(actorID), sessId)
			log.Printf("sessions/manager: session %s removed (expired at %s)\n", sessId, exp)
		}
	}

	return nil
}

func (sm *Manager) CheckRedis(actorID int64, sessionId string) (bool, error) {
	expirationData, err := redis.Bytes(sm.redis.Do("HGET", sessionsRedisKey(actorID), sessionId))
	if err != nil {
		log.Println("sessions/manager: can't HGET from Redis:", err)
		return false, err
	}

	// Check actor session for expiration
	expiredTs, _ := strconv.ParseInt(string(expirationData), 10, 64)
	nowTs := time.Now().Unix()
	if nowTs > expiredTs {
		return false, errors.New("session has been expired")
	}

	// Prolongate session expiration time if it expires in less than 24 hours
	// because we don't want to kick off the active actor.
	if expiredTs-nowTs < int64(time.Duration(24*time.Hour).Seconds()) {
		newExpDate := time.Now().Add(sessionTTL).Unix()
		err := sm.AddToRedis(actorID, sessionId, newExpDate)
		if err != nil {
			log.Println("sessions/manager: failed add to Redis", err)
			return false, err
		}
	}

	return true, nil
}

func (sm *Manager) AddToRedis(actorID int64, sessionId string, exp int64) error {
	_, err := sm.redis.Do("HSET", sessionsRedisKey(actorID), sessionId, exp)
	if err != nil {
		return fmt.Errorf("sessions/manager: failed HSET to Redis: %v", err)
	}
	return nil
}

func (sm *Manager) CreateToken(a *actor.Actor) (string, error) {
	sessionID := common.RandStringRunes(10)
	data := jwtClaims{
		Actor: *a,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(sessionTTL).Unix(),
			IssuedAt:  time.Now().Unix(),
			Id:        sessionID,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, data).SignedString(sm.secret)
	if err != nil {
		return "", err
	}

	redisErr := sm.AddToRedis(a.Id, sessionID, data.ExpiresAt)
	if redisErr != nil {
		log.Println("sessions/manager: failed add to redis", redisErr)
		return ``, redisErr
	}

	return token, nil
}

func sessionsRedisKey(actorID int64) string {
	return fmt.Sprintf("sessions:%d", actorID)
}

// GetAuthActor returns the actor the auth middleware has put into the
// request context, or ErrNoAuth for anonymous requests.
func GetAuthActor(ctx context.Context) (*actor.Actor, error) {
	a, ok := ctx.Value(SessionKey).(*actor.Actor)
	if !ok || a == nil {
		return nil, ErrNoAuth
	}
	return a, nil
}
