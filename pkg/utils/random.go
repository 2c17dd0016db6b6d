// Package utils - мелкие общие помощники без собственной доменной логики.
package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateID выдает короткий случайный идентификатор: 8 байт из
// crypto/rand в hex-виде, итого 16 символов. Такого объема хватает
// на любую разумную партию, а криптографический источник избавляет
// от забот о сидировании.
func GenerateID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		panic("utils: random source unavailable: " + err.Error())
	}
	return hex.EncodeToString(buf)
}
