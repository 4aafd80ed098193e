package usecase

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// foldText pliega mayúsculas. Un cases.Caser guarda estado y no se comparte
// entre goroutines, así que se construye en cada llamada.
func foldText(s string) string {
	return cases.Fold().String(s)
}

// validEmail aplica la regla laxa del formulario: algo@algo.algo sin espacios.
func validEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// normalizeEmail clave de comparación para emails (sin espacios, sin mayúsculas).
func normalizeEmail(s string) string {
	return foldText(strings.TrimSpace(s))
}

// sameText compara textos ignorando mayúsculas y espacios extremos.
func sameText(a, b string) bool {
	return foldText(strings.TrimSpace(a)) == foldText(strings.TrimSpace(b))
}

// containsFold indica si needle aparece en haystack ignorando mayúsculas.
func containsFold(haystack, needle string) bool {
	return strings.Contains(foldText(haystack), foldText(needle))
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
