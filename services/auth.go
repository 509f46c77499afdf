package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/webshop/backend/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	tokenLifetime     = 24 * time.Hour
	minPasswordLength = 5
)

// Claims carried by issued tokens. Role and username travel in the token so
// that authorization checks do not need a second database round-trip.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService handles registration, login and password changes
type AuthService struct {
	db     *gorm.DB
	secret []byte
}

// NewAuthService creates an auth service signing tokens with secret
func NewAuthService(db *gorm.DB, secret []byte) *AuthService {
	return &AuthService{db: db, secret: secret}
}

// Register creates a new user with the default role. The username must not be
// taken (exact match); the password is stored only as a bcrypt hash.
func (s *AuthService) Register(username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, ErrValidation
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, storeErr(err)
	}
	if count > 0 {
		return nil, ErrConflict
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	user := models.User{
		Username:     username,
		PasswordHash: string(hashed),
		Role:         models.RoleUser,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, storeErr(err)
	}
	return &user, nil
}

// Login verifies the password and issues a signed token. Lookup failure and a
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(username, password string) (string, *models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, storeErr(err)
		}
		return "", nil, ErrUnauthenticated
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrUnauthenticated
	}

	token, err := s.issueToken(&user)
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

// ChangePassword verifies the current password before storing a new hash.
// Only the hash is overwritten; no other field is touched.
func (s *AuthService) ChangePassword(userID, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return ErrValidation
	}

	user, err := s.UserByID(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrUnauthenticated
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if err := s.db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("password_hash", string(hashed)).Error; err != nil {
		return storeErr(err)
	}
	return nil
}

// UserByID loads a user by identity. The id is parsed before it is used as a
// key; a malformed id fails validation rather than hitting the store.
func (s *AuthService) UserByID(id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrValidation
	}

	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, storeErr(err)
	}
	return &user, nil
}

// issueToken signs an HS256 token carrying identity, username and role
func (s *AuthService) issueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return signed, nil
}

// ParseToken verifies a bearer token and returns its claims. Expired,
// malformed and badly signed tokens are all rejected as ErrUnauthenticated.
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthenticated
	}
	return claims, nil
}
