package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"tutorium_backend/internals/configs"
	"tutorium_backend/internals/constants"
	userModel "tutorium_backend/internals/features/users/user/model"
)

func setTestSecrets(t *testing.T) {
	t.Helper()
	configs.JWTSecret = "test-access-secret"
	configs.JWTRefreshSecret = "test-refresh-secret"
	t.Cleanup(func() {
		configs.JWTSecret = ""
		configs.JWTRefreshSecret = ""
	})
}

func TestAccessTokenCarriesIdentityClaims(t *testing.T) {
	setTestSecrets(t)

	tutorID := uuid.New()
	user := userModel.UserModel{
		ID:       uuid.New(),
		Username: "student1",
		Email:    "student1@example.com",
		Role:     constants.RoleStudent,
		TutorID:  &tutorID,
	}

	now := time.Now().UTC()
	signed, err := SignAccessToken(&user, now)
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(signed, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(configs.JWTSecret), nil
	})
	require.NoError(t, err)

	require.Equal(t, user.ID.String(), claims["id"])
	require.Equal(t, "student1", claims["username"])
	require.Equal(t, "student1@example.com", claims["email"])
	require.Equal(t, constants.RoleStudent, claims["role"])
	require.Equal(t, tutorID.String(), claims["tutor_id"])

	exp, ok := claims["exp"].(float64)
	require.True(t, ok)
	require.InDelta(t, now.Add(AccessTTL).Unix(), int64(exp), 1)
}

func TestAccessTokenOmitsTutorForStaff(t *testing.T) {
	setTestSecrets(t)

	user := userModel.UserModel{
		ID:       uuid.New(),
		Username: "admin1",
		Email:    "admin1@example.com",
		Role:     constants.RoleAdmin,
	}
	signed, err := SignAccessToken(&user, time.Now().UTC())
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(signed, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(configs.JWTSecret), nil
	})
	require.NoError(t, err)
	_, present := claims["tutor_id"]
	require.False(t, present)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	setTestSecrets(t)

	user := userModel.UserModel{ID: uuid.New(), Username: "u", Email: "u@example.com"}
	signed, err := SignRefreshToken(&user, time.Now().UTC())
	require.NoError(t, err)

	id, err := ParseRefreshToken(signed)
	require.NoError(t, err)
	require.Equal(t, user.ID.String(), id)

	// An access token is not a valid refresh token (different secret).
	access, err := SignAccessToken(&user, time.Now().UTC())
	require.NoError(t, err)
	_, err = ParseRefreshToken(access)
	require.Error(t, err)
}

func TestComputeRefreshHashIsStable(t *testing.T) {
	setTestSecrets(t)

	h1, err := ComputeRefreshHash("token-a")
	require.NoError(t, err)
	h2, err := ComputeRefreshHash("token-a")
	require.NoError(t, err)
	h3, err := ComputeRefreshHash("token-b")
	require.NoError(t, err)

	require.Equal(t, h1, h2)
	require.NotEqual(t, h1, h3)
}

func TestSigningFailsWithoutSecret(t *testing.T) {
	configs.JWTSecret = ""
	configs.JWTRefreshSecret = ""

	user := userModel.UserModel{ID: uuid.New()}
	_, err := SignAccessToken(&user, time.Now().UTC())
	require.Error(t, err)
	_, err = SignRefreshToken(&user, time.Now().UTC())
	require.Error(t, err)
}
