package passwordutil

import (
	"github.com/mazen160/go-random"
)

const DefaultLength = 12

// Generate returns a random alphanumeric password. A non-positive
// length falls back to DefaultLength.
func Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}
	return random.String(length)
}
