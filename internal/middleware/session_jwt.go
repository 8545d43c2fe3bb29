package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	SessionCookieName = "cart_session"
	CtxSessionIDKey   = "session_id" // string

	// localStorageと同じく長く残す
	defaultSessionTTL = 365 * 24 * time.Hour
)

var ErrInvalidSession = errors.New("invalid session")

// セッションcookie（HS256のJWT、subがセッションID）を発行・検証する
type SessionIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewSessionIssuer(secret string) *SessionIssuer {
	return &SessionIssuer{
		secret: []byte(secret),
		ttl:    defaultSessionTTL,
	}
}

func (i *SessionIssuer) Issue(sessionID string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.ttl)

	claims := jwt.MapClaims{
		"sub": sessionID,
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// 署名と期限を確認してセッションIDを返す
func (i *SessionIssuer) Parse(raw string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return "", ErrInvalidSession
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidSession
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return "", ErrInvalidSession
	}
	if _, err := uuid.Parse(sub); err != nil {
		return "", ErrInvalidSession
	}
	return sub, nil
}

// cookieからセッションIDを取り出す。無い・不正なら新しく発行する。
func Session(issuer *SessionIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if ck, err := c.Cookie(SessionCookieName); err == nil {
				if id, err := issuer.Parse(ck.Value); err == nil {
					c.Set(CtxSessionIDKey, id)
					return next(c)
				}
			}

			//新しいセッション
			id := uuid.NewString()
			signed, expiresAt, err := issuer.Issue(id, time.Now())
			if err != nil {
				return c.JSON(http.StatusInternalServerError, errorJSON("session error"))
			}

			c.SetCookie(&http.Cookie{
				Name:     SessionCookieName,
				Value:    signed,
				Path:     "/",
				Expires:  expiresAt,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			c.Set(CtxSessionIDKey, id)

			return next(c)
		}
	}
}

// handlerから使う
func SessionID(c echo.Context) (string, bool) {
	id, ok := c.Get(CtxSessionIDKey).(string)
	return id, ok && id != ""
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
