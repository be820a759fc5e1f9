package utils

import "golang.org/x/crypto/bcrypt"

const DefaultPasswordCost = 10

// PasswordHasher wraps bcrypt with a work factor fixed at startup.
type PasswordHasher struct {
	Cost int
}

func NewPasswordHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultPasswordCost
	}
	return PasswordHasher{Cost: cost}
}

func (h PasswordHasher) Hash(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), h.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify leaves the comparison to bcrypt, which does it in constant time.
func (h PasswordHasher) Verify(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
