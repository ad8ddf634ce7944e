package model

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewSurveyID generates the survey identifier used as the idempotency key
// for local storage and remote upserts: SURV-<millis base36>-<5 rand>.
func NewSurveyID() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)

	suffix := make([]byte, 5)
	for i := range suffix {
		suffix[i] = idAlphabet[rand.Intn(len(idAlphabet))]
	}

	return strings.ToUpper("SURV-" + ts + "-" + string(suffix))
}

// Sanitize trims free-text input, strips angle brackets and caps the
// length, matching what the capture form accepts.
func Sanitize(input string) string {
	s := strings.TrimSpace(input)
	s = strings.NewReplacer("<", "", ">", "").Replace(s)
	if len(s) > 1000 {
		s = s[:1000]
	}
	return s
}
