package validation

import "testing"

func TestValidateField(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   string
		wantErr bool
	}{
		{"valid username", "username", "jperez_01", false},
		{"username too short", "username", "jp", true},
		{"username with space", "username", "j perez", true},
		{"valid email", "email", "jperez@colegio.edu.pe", false},
		{"email missing domain", "email", "jperez@", true},
		{"valid dni 8 digits", "dni", "12345678", false},
		{"valid dni 7 digits", "dni", "1234567", false},
		{"dni with letters", "dni", "1234567a", true},
		{"dni too long", "dni", "123456789", true},
		{"valid matricula", "matricula", "MAT-2024-01", false},
		{"matricula lowercase", "matricula", "mat-2024", true},
		{"matricula too short", "matricula", "M-1", true},
		{"valid nombre with accents", "nombre", "José María", false},
		{"nombre with digits", "nombre", "Jose2", true},
		{"valid grado", "grado", "3", false},
		{"grado out of range", "grado", "7", true},
		{"valid seccion", "seccion", "B", false},
		{"seccion lowercase", "seccion", "b", true},
		{"valid turno", "turno", "Mañana", false},
		{"invalid turno", "turno", "Madrugada", true},
		{"unregistered field passes", "telefono", "whatever", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateField(tt.field, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateField(%q, %q) error = %v, wantErr %v", tt.field, tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid password", "Segura#2847", false},
		{"too short", "Ab1!", true},
		{"no uppercase", "segura#2847", true},
		{"no lowercase", "SEGURA#2847", true},
		{"no digit", "Segura#hola", true},
		{"no special", "Segura2847x", true},
		{"contains 123", "Segura#123x", true},
		{"contains abc", "SeguraAbc#9", true},
		{"contains password", "MyPassword#9", true},
		{"contains qwerty", "Qwerty#2847", true},
		{"contains repeated ones", "Segura#1118", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePasswordStrength(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePasswordStrength(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
			}
		})
	}
}
