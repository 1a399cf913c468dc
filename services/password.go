package services

import (
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

// ErrPasswordTooLong is returned for passwords bcrypt cannot hash (over 72 bytes).
var ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

// werkzeug's default when a pbkdf2 method string omits the iteration count
const legacyPBKDF2Iterations = 260000

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword verifies bcrypt hashes as well as the werkzeug
// "method$salt$hex" hashes of accounts imported from the previous site.
func CheckPassword(stored, password string) bool {
	if strings.HasPrefix(stored, "pbkdf2:") || strings.HasPrefix(stored, "scrypt:") {
		return checkWerkzeugHash(stored, password)
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

func checkWerkzeugHash(stored, password string) bool {
	parts := strings.SplitN(stored, "$", 3)
	if len(parts) != 3 {
		return false
	}
	method, salt, expectedHex := parts[0], parts[1], parts[2]

	expected, err := hex.DecodeString(expectedHex)
	if err != nil {
		return false
	}

	var actual []byte
	args := strings.Split(method, ":")
	switch args[0] {
	case "pbkdf2":
		if len(args) < 2 {
			return false
		}
		var newHash func() hash.Hash
		switch args[1] {
		case "sha256":
			newHash = sha256.New
		case "sha512":
			newHash = sha512.New
		default:
			return false
		}
		iterations := legacyPBKDF2Iterations
		if len(args) > 2 {
			if iterations, err = strconv.Atoi(args[2]); err != nil || iterations <= 0 {
				return false
			}
		}
		actual = pbkdf2.Key([]byte(password), []byte(salt), iterations, newHash().Size(), newHash)
	case "scrypt":
		n, r, p := 32768, 8, 1
		if len(args) == 4 {
			var errs [3]error
			n, errs[0] = strconv.Atoi(args[1])
			r, errs[1] = strconv.Atoi(args[2])
			p, errs[2] = strconv.Atoi(args[3])
			for _, e := range errs {
				if e != nil {
					return false
				}
			}
		}
		actual, err = scrypt.Key([]byte(password), []byte(salt), n, r, p, 64)
		if err != nil {
			return false
		}
	default:
		return false
	}

	return subtle.ConstantTimeCompare(actual, expected) == 1
}
