package engine

import "fmt"

const anonymousIDSpace = 10000

// AnonymousID derives a deterministic display label from a guide's internal
// ID using a rolling hash over its bytes. Display obfuscation only: the 10k
// slot space is trivially brute-forceable and must never be treated as a
// privacy guarantee.
func AnonymousID(studentID string) string {
	hash := 0

	for _, char := range studentID {
		hash = (hash*31 + int(char)) % anonymousIDSpace
	}

	return fmt.Sprintf("Guide #%04d", hash)
}
