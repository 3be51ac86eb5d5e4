package quiz

import (
	"math/rand/v2"
	"slices"

	"quiz-drill/internal/domain"
)

// samplePool shuffles a copy of the bank with Fisher-Yates and keeps the
// first k questions, which is a uniform sample without replacement.
func samplePool(rng *rand.Rand, questions []domain.Question, k int) []domain.Question {
	shuffled := slices.Clone(questions)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := intN(rng, i+1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled[:k:k]
}

func intN(rng *rand.Rand, n int) int {
	if rng == nil {
		return rand.IntN(n)
	}
	return rng.IntN(n)
}
