package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// ProjectIDPrefix prefixes every project id, e.g. "mk-12345-6789".
const ProjectIDPrefix = "mk"

// NewProjectID generates a human-readable project id. Ids are short enough to
// collide occasionally; stores retry on a unique violation.
func NewProjectID() (string, error) {
	a, err := randInt(10000, 99999)
	if err != nil {
		return "", err
	}
	b, err := randInt(1000, 9999)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%05d-%04d", ProjectIDPrefix, a, b), nil
}

func randInt(min, max int64) (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(max-min+1))
	if err != nil {
		return 0, err
	}
	return min + n.Int64(), nil
}
