// Пакет certid — генерация публичных идентификаторов сертификатов.
// Алфавит исключает визуально похожие символы (0/O, 1/l/I).
package certid

import (
	"crypto/rand"
	"fmt"
	"sync"
)

// Alphabet — допустимые символы публичного идентификатора.
const Alphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz"

// DefaultLength — длина идентификатора по умолчанию.
const DefaultLength = 12

// Generator выдаёт новые публичные идентификаторы.
type Generator interface {
	New() (string, error)
}

// Random — криптостойкий генератор идентификаторов фиксированной длины.
type Random struct {
	Length int
}

// NewRandom создаёт генератор с длиной DefaultLength.
func NewRandom() *Random {
	return &Random{Length: DefaultLength}
}

// New возвращает случайный идентификатор.
// Байты вне диапазона, кратного размеру алфавита, отбрасываются,
// чтобы распределение символов оставалось равномерным.
func (g *Random) New() (string, error) {
	n := g.Length
	if n <= 0 {
		n = DefaultLength
	}

	const limit = 256 - 256%len(Alphabet)
	out := make([]byte, 0, n)
	buf := make([]byte, n*2)
	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("ошибка чтения crypto/rand: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, Alphabet[int(b)%len(Alphabet)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}

// Sequence — детерминированный генератор для тестов.
// Выдаёт значения по порядку; после исчерпания возвращает ошибку.
type Sequence struct {
	mu  sync.Mutex
	ids []string
	pos int
}

// NewSequence создаёт генератор, выдающий ids по порядку.
func NewSequence(ids ...string) *Sequence {
	return &Sequence{ids: ids}
}

// New возвращает следующий идентификатор последовательности.
func (s *Sequence) New() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pos >= len(s.ids) {
		return "", fmt.Errorf("последовательность идентификаторов исчерпана")
	}
	id := s.ids[s.pos]
	s.pos++
	return id, nil
}
