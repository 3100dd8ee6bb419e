package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether password matches the stored hash.
// An empty hash never matches.
func CheckPassword(hashed, password string) bool {
	if hashed == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}

// dummyHash has the same cost as stored hashes so a miss takes as long as a wrong password.
var dummyHash = sync.OnceValue(func() string {
	hashed, _ := HashPassword("unknown-user-placeholder")
	return hashed
})

// CheckPasswordForUnknownUser burns one bcrypt comparison and always reports false.
// Call it when the account does not exist, so lookups cannot be told apart by timing.
func CheckPasswordForUnknownUser(password string) bool {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash()), []byte(password))
	return false
}
