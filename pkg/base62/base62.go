package base62

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// 62 进制字符表：数字在前，小写在中，大写在后
const Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

const base = 62

var bigBase = big.NewInt(base)

// Generate 生成指定长度的随机 62 进制字符串（crypto/rand，均匀分布）
func Generate(length int) string {
	if length <= 0 {
		length = 7
	}
	buf := make([]byte, length)
	for i := 0; i < length; i++ {
		idx, err := rand.Int(rand.Reader, bigBase)
		if err != nil {
			// crypto/rand 读取失败基本意味着系统熵源不可用
			panic(fmt.Sprintf("base62: rand failed: %v", err))
		}
		buf[i] = Alphabet[idx.Int64()]
	}
	return string(buf)
}

// Encode 将非负整数编码为 62 进制字符串，高位在前
func Encode(num uint64) string {
	if num == 0 {
		return string(Alphabet[0])
	}
	var buf [11]byte // 11 个字符可以覆盖 uint64 全范围
	i := len(buf)
	for num > 0 {
		i--
		buf[i] = Alphabet[num%base]
		num /= base
	}
	return string(buf[i:])
}

// Decode 将 62 进制字符串解码回整数
func Decode(s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("base62: empty string")
	}
	var num uint64
	for _, c := range []byte(s) {
		v := indexOf(c)
		if v < 0 {
			return 0, fmt.Errorf("base62: invalid character %q", c)
		}
		num = num*base + uint64(v)
	}
	return num, nil
}

// IsValidAlphabet 校验字符串是否只包含 62 进制字符
func IsValidAlphabet(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range []byte(s) {
		if indexOf(c) < 0 {
			return false
		}
	}
	return true
}

func indexOf(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 36
	default:
		return -1
	}
}
