package session

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CookieName = "photo_effects_flash"

	CategorySuccess = "success"
	CategoryError   = "error"

	pendingKey = "flash_pending"
	issuer     = "photo-effects"
)

// Message is a one-shot notice rendered on the next page view.
type Message struct {
	Category string `json:"category"`
	Text     string `json:"message"`
}

type flashClaims struct {
	Messages []Message `json:"messages"`
	jwt.RegisteredClaims
}

// FlashStore keeps flash messages in an HS256 signed cookie so nothing is
// held server side between the redirect and the next page view.
type FlashStore struct {
	secretKey []byte
	ttl       time.Duration
	secure    bool
}

func NewFlashStore(secretKey string, ttl time.Duration, secure bool) *FlashStore {
	return &FlashStore{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		secure:    secure,
	}
}

// Add queues a message for the next request. Messages added during the same
// request accumulate into one cookie.
func (s *FlashStore) Add(c *gin.Context, category, text string) error {
	var pending []Message
	if v, ok := c.Get(pendingKey); ok {
		pending, _ = v.([]Message)
	}
	pending = append(pending, Message{Category: category, Text: text})
	c.Set(pendingKey, pending)

	token, err := s.sign(pending)
	if err != nil {
		return err
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(s.ttl.Seconds()), "/", "", s.secure, true)
	return nil
}

// Pop returns and clears the messages carried by the request. A missing,
// expired or tampered cookie yields no messages.
func (s *FlashStore) Pop(c *gin.Context) []Message {
	token, err := c.Cookie(CookieName)
	if err != nil || token == "" {
		return nil
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", s.secure, true)

	messages, err := s.parse(token)
	if err != nil {
		return nil
	}
	return messages
}

func (s *FlashStore) sign(messages []Message) (string, error) {
	now := time.Now().UTC()
	claims := flashClaims{
		Messages: messages,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("signing flash: %w", err)
	}
	return tokenStr, nil
}

func (s *FlashStore) parse(tokenStr string) ([]Message, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &flashClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*flashClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid flash token")
	}
	return claims.Messages, nil
}
