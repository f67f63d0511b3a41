package util

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost bcrypt work factor used for stored passwords
// PasswordCost 存储密码使用的 bcrypt 代价
const PasswordCost = 10

// GeneratePasswordHash generates bcrypt hash of a password
// GeneratePasswordHash 生成密码的bcrypt哈希值
func GeneratePasswordHash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	return string(bytes), err
}

// CheckPasswordHash reports whether password matches the stored hash
// CheckPasswordHash 验证密码与哈希值是否匹配
func CheckPasswordHash(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
