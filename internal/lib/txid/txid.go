// Package txid генерирует случайные идентификаторы транзакций,
// связывающие подписку, счет-фактуру и запись об оплате.
package txid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// New возвращает случайный идентификатор из n байт в верхнем hex-регистре.
func New(n int) (string, error) {
	const op = "txid.New"
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}
