package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Électronique Démo!", "electronique-demo"},
		{"  Maison & Jardin  ", "maison-jardin"},
		{"--Déjà---Vu--", "deja-vu"},
		{"Ça coûte 100€", "ca-coute-100"},
		{"already-normal", "already-normal"},
		{"UPPER_case", "upper-case"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, in := range []string{"Électronique Démo!", "a--b", "Über Straße", "x"} {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), in)
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("electronique-demo"))
	assert.False(t, Valid("Electronique"))
	assert.False(t, Valid("-lead"))
	assert.False(t, Valid(""))
}
