package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"tutorium_backend/internals/configs"
	authModel "tutorium_backend/internals/features/users/auth/model"
	userModel "tutorium_backend/internals/features/users/user/model"
)

const (
	AccessTTL  = 24 * time.Hour
	RefreshTTL = 7 * 24 * time.Hour
)

func nowUTC() time.Time { return time.Now().UTC() }

func getJWTSecret() (string, error) {
	secret := strings.TrimSpace(configs.JWTSecret)
	if secret == "" {
		return "", errors.New("JWT_SECRET is not set")
	}
	return secret, nil
}

func getRefreshSecret() (string, error) {
	secret := strings.TrimSpace(configs.JWTRefreshSecret)
	if secret == "" {
		return "", errors.New("JWT_REFRESH_SECRET is not set")
	}
	return secret, nil
}

// accessClaims is the payload every handler authorizes against:
// {id, username, email, role, tutor_id?}.
func accessClaims(u *userModel.UserModel, now time.Time) jwt.MapClaims {
	claims := jwt.MapClaims{
		"id":       u.ID.String(),
		"username": u.Username,
		"email":    u.Email,
		"role":     u.Role,
		"iat":      now.Unix(),
		"exp":      now.Add(AccessTTL).Unix(),
	}
	if u.TutorID != nil {
		claims["tutor_id"] = u.TutorID.String()
	}
	return claims
}

func SignAccessToken(u *userModel.UserModel, now time.Time) (string, error) {
	secret, err := getJWTSecret()
	if err != nil {
		return "", err
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims(u, now))
	return token.SignedString([]byte(secret))
}

func SignRefreshToken(u *userModel.UserModel, now time.Time) (string, error) {
	secret, err := getRefreshSecret()
	if err != nil {
		return "", err
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  u.ID.String(),
		"iat": now.Unix(),
		"exp": now.Add(RefreshTTL).Unix(),
	})
	return token.SignedString([]byte(secret))
}

func ParseRefreshToken(raw string) (string, error) {
	secret, err := getRefreshSecret()
	if err != nil {
		return "", err
	}
	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	}); err != nil {
		return "", err
	}
	id, _ := claims["id"].(string)
	if id == "" {
		return "", errors.New("refresh token has no user id")
	}
	return id, nil
}

// ComputeRefreshHash: only the HMAC of the refresh token is persisted.
func ComputeRefreshHash(token string) ([]byte, error) {
	secret, err := getRefreshSecret()
	if err != nil {
		return nil, err
	}
	m := hmac.New(sha256.New, []byte(secret))
	_, _ = m.Write([]byte(token))
	return m.Sum(nil), nil
}

func StoreRefreshToken(db *gorm.DB, u *userModel.UserModel, refreshToken string, now time.Time) error {
	hash, err := ComputeRefreshHash(refreshToken)
	if err != nil {
		return err
	}
	return db.Create(&authModel.RefreshTokenModel{
		UserID:    u.ID,
		TokenHash: hash,
		ExpiresAt: now.Add(RefreshTTL),
	}).Error
}

func DeleteRefreshToken(db *gorm.DB, refreshToken string) error {
	hash, err := ComputeRefreshHash(refreshToken)
	if err != nil {
		return err
	}
	return db.Where("token_hash = ?", hash).Delete(&authModel.RefreshTokenModel{}).Error
}

func SetAuthCookies(c *fiber.Ctx, accessToken, refreshToken string, now time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
		Expires:  now.Add(AccessTTL),
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
		Expires:  now.Add(RefreshTTL),
	})
}

func ClearAuthCookies(c *fiber.Ctx) {
	expired := nowUTC().Add(-time.Hour)
	for _, name := range []string{"access_token", "refresh_token"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			HTTPOnly: true,
			Secure:   true,
			SameSite: "None",
			Path:     "/",
			Expires:  expired,
			MaxAge:   -1,
		})
	}
}

// BlacklistToken revokes an access token until its natural expiry.
func BlacklistToken(db *gorm.DB, token string) error {
	ttl := AccessTTL
	claims := jwt.MapClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true}
	if _, _, err := parser.ParseUnverified(token, claims); err == nil {
		if exp, ok := claims["exp"].(float64); ok {
			if until := time.Until(time.Unix(int64(exp), 0)); until > 0 {
				ttl = until
			}
		}
	}
	return db.Create(&authModel.TokenBlacklistModel{
		Token:     token,
		ExpiresAt: nowUTC().Add(ttl),
	}).Error
}
