package crypto

import (
	"encoding/base64"
	"errors"
	"fmt"
)

var errEmptyKey = errors.New("encryption key is empty")

// EncryptReversible 对明文做循环密钥异或并以base64编码
// 注意:这只是可逆混淆,不是认证加密
func EncryptReversible(text, key string) (string, error) {
	if key == "" {
		return "", errEmptyKey
	}

	keyBytes := []byte(key)
	textBytes := []byte(text)
	encrypted := make([]byte, len(textBytes))

	for i := range textBytes {
		encrypted[i] = textBytes[i] ^ keyBytes[i%len(keyBytes)]
	}

	return base64.StdEncoding.EncodeToString(encrypted), nil
}

// DecryptReversible 解码base64并用相同密钥异或还原明文
func DecryptReversible(encoded, key string) (string, error) {
	if key == "" {
		return "", errEmptyKey
	}

	encrypted, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode ciphertext: %w", err)
	}

	keyBytes := []byte(key)
	decrypted := make([]byte, len(encrypted))

	for i := range encrypted {
		decrypted[i] = encrypted[i] ^ keyBytes[i%len(keyBytes)]
	}

	return string(decrypted), nil
}
