package utils

import (
	"time"

	"github.com/google/uuid"
	"github.com/sopra/user-service/shared/models"
	"golang.org/x/crypto/bcrypt"
)

// GenerateToken returns a random opaque session token.
func GenerateToken() string {
	return uuid.NewString()
}

// FormatCreationDate renders t in the fixed user creation-date layout.
func FormatCreationDate(t time.Time) string {
	return t.Format(models.CreationDateLayout)
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword checks if a password matches a hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
