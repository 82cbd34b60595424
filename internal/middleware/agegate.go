package middleware

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"
)

const (
	ageCookieName    = "age_verified"
	ageCookieTTL     = 30 * 24 * time.Hour
	ageCookieSubject = "21+"
)

// AgeGate закрывает витрину от непроверенных посетителей по подписанному cookie.
// Подтверждение возраста выполняется один раз и запоминается в браузере.
type AgeGate struct {
	secretKey []byte
}

// NewAgeGate создаёт новый экземпляр AgeGate с указанным секретным ключом.
func NewAgeGate(secret string) *AgeGate {
	key := []byte(secret)
	if len(key) == 0 {
		randomKey := make([]byte, 32)
		if _, err := rand.Read(randomKey); err == nil {
			key = randomKey
		} else {
			key = []byte("default-secret-key")
		}
	}

	return &AgeGate{
		secretKey: key,
	}
}

// Middleware пропускает запрос дальше только при валидном cookie подтверждения возраста.
func (a *AgeGate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(ageCookieName)
		if err != nil || !a.verify(cookie.Value) {
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SetVerifiedCookie устанавливает подписанный cookie подтверждения возраста.
func (a *AgeGate) SetVerifiedCookie(w http.ResponseWriter) {
	cookie := &http.Cookie{
		Name:     ageCookieName,
		Value:    a.sign(),
		Path:     "/",
		Expires:  time.Now().Add(ageCookieTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	http.SetCookie(w, cookie)
}

func (a *AgeGate) sign() string {
	mac := hmac.New(sha256.New, a.secretKey)
	mac.Write([]byte(ageCookieSubject))
	return ageCookieSubject + "." + hex.EncodeToString(mac.Sum(nil))
}

func (a *AgeGate) verify(cookieValue string) bool {
	return hmac.Equal([]byte(cookieValue), []byte(a.sign()))
}
