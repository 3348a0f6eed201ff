package helpers

import "golang.org/x/crypto/bcrypt"

// PasswordCost is the bcrypt work factor used for doctor credentials.
const PasswordCost = 10

// HashPassword hashes the plain text password using bcrypt at PasswordCost
func HashPassword(plain string) (string, error) {
	return HashPasswordWithCost(plain, PasswordCost)
}

// HashPasswordWithCost hashes with an explicit cost; out-of-range costs fall back to PasswordCost.
func HashPasswordWithCost(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = PasswordCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword compares a bcrypt hash with a plain password
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
