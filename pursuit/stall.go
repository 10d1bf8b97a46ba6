package pursuit

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// planSignature computes a deterministic signature for a plan's action
// token. Tokens that encode identically are considered the same action.
func planSignature(token interface{}) string {
	raw, err := json.Marshal(token)
	if err != nil {
		raw = []byte(fmt.Sprintf("%v", token))
	}
	h := sha256.Sum256(raw)
	return fmt.Sprintf("%x", h[:8])
}

// detectStall checks whether the last window signatures follow a
// repeating pattern of length 1, 2, or 3. Fewer than window signatures
// is never a stall.
func detectStall(sigs []string, window int) bool {
	if window <= 0 || len(sigs) < window {
		return false
	}
	recent := sigs[len(sigs)-window:]

	for patternLen := 1; patternLen <= 3; patternLen++ {
		if window%patternLen != 0 {
			continue
		}
		pattern := recent[:patternLen]
		allMatch := true
		for i := patternLen; i < window && allMatch; i += patternLen {
			for j := 0; j < patternLen; j++ {
				if recent[i+j] != pattern[j] {
					allMatch = false
					break
				}
			}
		}
		if allMatch {
			return true
		}
	}

	return false
}
