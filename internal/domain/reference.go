package domain

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

const defaultReferencePrefix = "FB"

// ReferenceGenerator builds booking references of the form
// <airline prefix><YYMMDD><8 hex chars>, e.g. IB251015A1B2C3D4.
type ReferenceGenerator struct {
	now    func() time.Time
	random func() string
}

func NewReferenceGenerator(now func() time.Time) *ReferenceGenerator {
	if now == nil {
		now = time.Now
	}
	return &ReferenceGenerator{now: now, random: randomSuffix}
}

func (g *ReferenceGenerator) Generate(airlineName string) string {
	return referencePrefix(airlineName) + g.now().UTC().Format("060102") + g.random()
}

func referencePrefix(airlineName string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(airlineName) {
		if r > unicode.MaxASCII || !unicode.IsLetter(r) {
			continue
		}
		b.WriteRune(r)
		if b.Len() == 2 {
			return b.String()
		}
	}
	return defaultReferencePrefix
}

func randomSuffix() string {
	id := uuid.New()
	return strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
}
