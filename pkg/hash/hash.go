package hash

import "golang.org/x/crypto/bcrypt"

// ErrTooLong is returned for passwords over bcrypt's 72-byte limit.
var ErrTooLong = bcrypt.ErrPasswordTooLong

func HashPassword(password string) (string, error) {
	hashbytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashbytes), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
