package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/cartshield/cartshield/internal/config"
	"github.com/cartshield/cartshield/internal/models"
)

const (
	maxFailedLogins = 5
	lockoutDuration = 15 * time.Minute
	tokenLifetime   = 24 * time.Hour
)

type AuthService struct {
	DB  *gorm.DB
	cfg config.Config
}

func NewAuthService(db *gorm.DB, cfg config.Config) *AuthService {
	return &AuthService{DB: db, cfg: cfg}
}

// Claims is the JWT payload issued on login.
type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Register creates a staff account. The first account becomes admin.
func (s *AuthService) Register(email, password, name string) (*models.User, error) {
	var count int64
	if err := s.DB.Model(&models.User{}).Count(&count).Error; err != nil {
		return nil, err
	}

	role := "user"
	if count == 0 {
		role = "admin"
	}

	user := &models.User{Email: email, Name: name, Role: role, Enabled: true}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}

	if err := s.DB.Create(user).Error; err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and returns a signed token. Repeated failures
// lock the account temporarily.
func (s *AuthService) Login(email, password string) (string, error) {
	var user models.User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return "", errors.New("invalid credentials")
	}

	if !user.Enabled {
		return "", errors.New("account disabled")
	}

	if user.LockedUntil != nil && user.LockedUntil.After(time.Now()) {
		return "", errors.New("account locked")
	}

	if !user.CheckPassword(password) {
		user.FailedLoginAttempts++
		if user.FailedLoginAttempts >= maxFailedLogins {
			lockedUntil := time.Now().Add(lockoutDuration)
			user.LockedUntil = &lockedUntil
		}
		s.DB.Save(&user)
		return "", errors.New("invalid credentials")
	}

	now := time.Now()
	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLogin = &now
	s.DB.Save(&user)

	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// ValidateToken parses and verifies a token issued by Login.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
