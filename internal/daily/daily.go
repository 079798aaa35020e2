package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/rs/zerolog"

	"github.com/robalobadob/battleship/internal/game"
	"github.com/robalobadob/battleship/internal/random"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed derives a deterministic seed for a date from HMAC(salt, YYYY-MM-DD).
func Seed(date time.Time, salt string) uint64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes are plenty for a PRNG seed
	return binary.BigEndian.Uint64(sum[:8])
}

// Generator returns a field generator that produces the same field for
// everyone on the given date.
func Generator(date time.Time, salt string, size int, ships []game.ShipSpec, logger zerolog.Logger) *game.Generator {
	return &game.Generator{
		Size:  size,
		Ships: ships,
		Rand:  random.New(Seed(date, salt)),
		Log:   logger,
	}
}
