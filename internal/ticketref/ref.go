package ticketref

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
)

const TAG_PREFIX = "#ref"

var ErrKeyspaceExhausted = errors.New("ticketref: keyspace exhausted")

// первый #ref с 4-10 цифрами, регистр не важен
var refRe = regexp.MustCompile(`(?i)#ref([0-9]{4,10})`)

// Generator выдает случайные номера обращений фиксированной ширины.
type Generator struct {
	Digits      int
	MaxAttempts int

	// источник случайных чисел, nil - глобальный
	Rand *rand.Rand
}

func New(digits, maxAttempts int) *Generator {
	return &Generator{Digits: digits, MaxAttempts: maxAttempts}
}

// Generate перебирает случайные номера, пока exists не скажет, что номер свободен.
func (g *Generator) Generate(ctx context.Context, exists func(ctx context.Context, ref string) (bool, error)) (string, error) {
	low, high := bounds(g.Digits)

	for attempt := 0; attempt < g.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		ref := strconv.FormatInt(low+g.int64n(high-low+1), 10)

		taken, err := exists(ctx, ref)
		if err != nil {
			return "", fmt.Errorf("check reference %s: %w", ref, err)
		}
		if !taken {
			return ref, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts", ErrKeyspaceExhausted, g.MaxAttempts)
}

func (g *Generator) int64n(n int64) int64 {
	if g.Rand != nil {
		return g.Rand.Int64N(n)
	}
	return rand.Int64N(n)
}

func bounds(digits int) (int64, int64) {
	if digits < 1 {
		digits = 1
	}
	low := int64(1)
	for i := 1; i < digits; i++ {
		low *= 10
	}
	return low, low*10 - 1
}

// Tag - вид номера в тексте сообщений.
func Tag(ref string) string {
	return TAG_PREFIX + ref
}

// Extract достает номер обращения из текста.
func Extract(text string) (string, bool) {
	m := refRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}
