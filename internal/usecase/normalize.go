package usecase

import (
	"regexp"
	"strings"
)

var nonDigits = regexp.MustCompile(`\D`)

// SanitizePhone normaliza telefone brasileiro de texto livre para o
// formato canônico +55DDDNÚMERO. É pura e total: roda sobre entrada
// não confiável e nunca falha.
//
// Regras:
//   - remove tudo que não é dígito; vazio continua vazio
//   - já começa com 55 → só prefixa o "+"
//   - 10 ou 11 dígitos (fixo ou celular com o nono dígito) → prefixa 55
//   - qualquer outro comprimento → prefixa "+" no que sobrou
func SanitizePhone(raw string) string {
	digits := nonDigits.ReplaceAllString(raw, "")
	if digits == "" {
		return ""
	}

	if strings.HasPrefix(digits, "55") {
		return "+" + digits
	}

	if len(digits) == 10 || len(digits) == 11 {
		return "+55" + digits
	}

	return "+" + digits
}

// SplitName separa nome completo em primeiro nome e sobrenome:
// primeiro token é o primeiro nome, o resto vira sobrenome.
func SplitName(fullName string) (first, last string) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
