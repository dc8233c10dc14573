package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSanitizePhone - regras do formato canônico brasileiro
func TestSanitizePhone(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"celular com nono dígito", "11988887777", "+5511988887777"},
		{"fixo de 10 dígitos", "1133334444", "+551133334444"},
		{"já canônico", "+5511988887777", "+5511988887777"},
		{"formatado com máscara", "(11) 98888-7777", "+5511988887777"},
		{"com código do país sem +", "5511988887777", "+5511988887777"},
		{"vazio", "", ""},
		{"só lixo", "abc-.()", ""},
		{"comprimento estranho", "12345", "+12345"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SanitizePhone(tc.raw))
		})
	}
}

// TestSanitizePhoneIdempotent - aplicar duas vezes dá o mesmo resultado
func TestSanitizePhoneIdempotent(t *testing.T) {
	inputs := []string{"11988887777", "(11) 98888-7777", "5511988887777", ""}

	for _, raw := range inputs {
		once := SanitizePhone(raw)
		assert.Equal(t, once, SanitizePhone(once))
	}
}

// TestSplitName - primeiro token vira primeiro nome, resto vira sobrenome
func TestSplitName(t *testing.T) {
	first, last := SplitName("João da Silva Sauro")
	assert.Equal(t, "João", first)
	assert.Equal(t, "da Silva Sauro", last)

	first, last = SplitName("Maria")
	assert.Equal(t, "Maria", first)
	assert.Equal(t, "", last)

	first, last = SplitName("   ")
	assert.Equal(t, "", first)
	assert.Equal(t, "", last)
}
