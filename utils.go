package unobot

import (
	"fmt"
	"math/rand"
)

// ShuffleIntRange returns the integers [start, end) in uniformly random
// order, Fisher-Yates style.
func ShuffleIntRange(start, end int) []int {
	if end < start {
		panic(fmt.Errorf("end > start (%d > %d)", end, start))
	}

	count := end - start

	slice := make([]int, count)

	for i := 0; i < count; i++ {
		slice[i] = i
	}

	for end := len(slice); end > 0; end-- {
		randomIndex := rand.Intn(end)
		slice[randomIndex], slice[end-1] = slice[end-1], slice[randomIndex]
	}

	return slice
}
