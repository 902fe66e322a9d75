package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/sigescol/backend/internal/pkg/validation"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the password hashing cost
const BcryptCost = 12

// HashPassword hashes a plaintext password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword verifies a plaintext password against its hash.
// bcrypt's comparison is constant-time.
func CheckPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// Character classes for generated passwords. The special set is restricted to
// characters accepted by the password strength policy.
const (
	lowerChars   = "abcdefghijkmnopqrstuvwxyz"
	upperChars   = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	digitChars   = "23456789"
	specialChars = "@$!%*?&"
)

// GeneratedPasswordLength is the length of default passwords created during
// roster uploads.
const GeneratedPasswordLength = 12

// GenerateStrongPassword returns a random password containing at least one
// character from each class, suitable as a default credential for accounts
// created during roster reconciliation. The result always satisfies
// validation.ValidatePasswordStrength; the rare draw that trips the weak
// substring blacklist is redrawn.
func GenerateStrongPassword() (string, error) {
	for {
		password, err := generatePassword()
		if err != nil {
			return "", err
		}
		if validation.ValidatePasswordStrength(password) == nil {
			return password, nil
		}
	}
}

func generatePassword() (string, error) {
	all := lowerChars + upperChars + digitChars + specialChars

	// One guaranteed pick per class, the rest from the full alphabet
	picks := make([]byte, 0, GeneratedPasswordLength)
	for _, set := range []string{lowerChars, upperChars, digitChars, specialChars} {
		c, err := randomChar(set)
		if err != nil {
			return "", err
		}
		picks = append(picks, c)
	}
	for len(picks) < GeneratedPasswordLength {
		c, err := randomChar(all)
		if err != nil {
			return "", err
		}
		picks = append(picks, c)
	}

	// Fisher-Yates shuffle so class-guaranteed characters are not positional
	for i := len(picks) - 1; i > 0; i-- {
		j, err := randomInt(i + 1)
		if err != nil {
			return "", err
		}
		picks[i], picks[j] = picks[j], picks[i]
	}

	return string(picks), nil
}

func randomChar(set string) (byte, error) {
	idx, err := randomInt(len(set))
	if err != nil {
		return 0, err
	}
	return set[idx], nil
}

func randomInt(max int) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0, fmt.Errorf("failed to read random source: %w", err)
	}
	return int(n.Int64()), nil
}
