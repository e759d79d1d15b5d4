package validation

import (
	"errors"
	"testing"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name   string  `json:"name" binding:"required,max=5"`
	Email  string  `json:"email" binding:"required,email"`
	Kind   string  `json:"kind" binding:"required,oneof=client enterprise"`
	Seats  *int    `json:"seats,omitempty" binding:"omitnil,min=1"`
	Code   string  `json:"-" binding:"omitempty,len=3,alpha"`
	Nested *string `binding:"omitnil,max=2"`
}

func TestStruct(t *testing.T) {
	zero, long := 0, "abc"
	valid := sample{Name: "Ana", Email: "ana@mail.test", Kind: "client"}

	require.NoError(t, Struct(valid))

	tests := []struct {
		name   string
		mutate func(*sample)
		field  string
		reason string
	}{
		{"missing name", func(s *sample) { s.Name = "" }, "name", "is required"},
		{"long name", func(s *sample) { s.Name = "Anabel" }, "name", "must be at most 5 characters"},
		{"bad email", func(s *sample) { s.Email = "nope" }, "email", "must be a valid email address"},
		{"bad kind", func(s *sample) { s.Kind = "admin" }, "kind", "must be one of client, enterprise"},
		{"zero seats", func(s *sample) { s.Seats = &zero }, "seats", "must be at least 1"},
		{"no json name", func(s *sample) { s.Code = "M4D" }, "Code", "must contain only letters"},
		{"untagged field", func(s *sample) { s.Nested = &long }, "Nested", "must be at most 2 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)

			err := Struct(in)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.reason, verr.Reason)
		})
	}
}

func TestVar(t *testing.T) {
	require.NoError(t, Var("id", "MAD", "required,len=3,alpha"))

	err := Var("id", "MADR", "required,len=3,alpha")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "id", verr.Field)
	assert.Equal(t, "must be exactly 3 characters", verr.Reason)
}

func TestTranslate_PassesOtherErrors(t *testing.T) {
	plain := errors.New("boom")
	assert.Same(t, plain, Translate(plain))
	assert.NoError(t, Translate(nil))
}
