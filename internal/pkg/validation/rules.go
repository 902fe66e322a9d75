package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// Field format patterns, one per roster/account field
var (
	UsernamePattern  = `^[a-zA-Z0-9_]{3,20}$`
	EmailPattern     = `^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`
	DNIPattern       = `^\d{7,8}$`
	MatriculaPattern = `^[A-Z0-9-]{5,20}$`
	NombrePattern    = `^[a-zA-ZáéíóúÁÉÍÓÚñÑ\s]{2,50}$`
	GradoPattern     = `^[1-6]$`
	SeccionPattern   = `^[A-Z]$`
	TurnoPattern     = `^(Mañana|Tarde|Noche)$`
)

// CompiledPatterns caches compiled regex patterns keyed by field name
var CompiledPatterns = map[string]*regexp.Regexp{
	"username":  regexp.MustCompile(UsernamePattern),
	"email":     regexp.MustCompile(EmailPattern),
	"dni":       regexp.MustCompile(DNIPattern),
	"matricula": regexp.MustCompile(MatriculaPattern),
	"nombre":    regexp.MustCompile(NombrePattern),
	"apellido":  regexp.MustCompile(NombrePattern),
	"grado":     regexp.MustCompile(GradoPattern),
	"seccion":   regexp.MustCompile(SeccionPattern),
	"turno":     regexp.MustCompile(TurnoPattern),
}

// ValidateField validates a named field against its registered pattern.
// Fields without a registered pattern pass.
func ValidateField(fieldName, value string) error {
	pattern, ok := CompiledPatterns[fieldName]
	if !ok {
		return nil
	}
	if !pattern.MatchString(value) {
		return fmt.Errorf("el campo %s no tiene un formato válido", fieldName)
	}
	return nil
}

var (
	lowerRe   = regexp.MustCompile(`[a-z]`)
	upperRe   = regexp.MustCompile(`[A-Z]`)
	digitRe   = regexp.MustCompile(`\d`)
	specialRe = regexp.MustCompile(`[@$!%*?&#._\-]`)
)

// weakSubstrings are rejected anywhere inside a password, case-insensitively
var weakSubstrings = []string{"123", "abc", "password", "qwerty", "111", "000"}

// ValidatePasswordStrength enforces the account password policy: minimum
// 8 characters with upper, lower, digit and special classes, and none of the
// common weak substrings.
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("la contraseña debe tener al menos 8 caracteres")
	}
	if !lowerRe.MatchString(password) {
		return fmt.Errorf("la contraseña debe contener al menos una letra minúscula")
	}
	if !upperRe.MatchString(password) {
		return fmt.Errorf("la contraseña debe contener al menos una letra mayúscula")
	}
	if !digitRe.MatchString(password) {
		return fmt.Errorf("la contraseña debe contener al menos un número")
	}
	if !specialRe.MatchString(password) {
		return fmt.Errorf("la contraseña debe contener al menos un carácter especial")
	}

	lowered := strings.ToLower(password)
	for _, weak := range weakSubstrings {
		if strings.Contains(lowered, weak) {
			return fmt.Errorf("la contraseña no puede contener patrones comunes como '%s'", weak)
		}
	}

	return nil
}
