package crypto

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

func HashPasswordAsBcrypt(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

func CheckPasswordHash(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// PasswordVerifier 保存启动时配置的管理密码的 bcrypt 哈希，明文不在内存中长期保留
type PasswordVerifier struct {
	hash string
}

// NewPasswordVerifier 对配置的管理密码做一次哈希
func NewPasswordVerifier(password string) (*PasswordVerifier, error) {
	if password == "" {
		return nil, errors.New("admin password is empty")
	}
	hash, err := HashPasswordAsBcrypt(password)
	if err != nil {
		return nil, err
	}
	return &PasswordVerifier{hash: hash}, nil
}

// Verify 校验提交的密码
func (v *PasswordVerifier) Verify(candidate string) bool {
	if v == nil || candidate == "" {
		return false
	}
	return CheckPasswordHash(v.hash, candidate)
}
