package validator

import "testing"

func rulesOf(errs ValidationErrors) map[string]bool {
	rules := make(map[string]bool, len(errs))
	for _, e := range errs {
		rules[e.Rule] = true
	}
	return rules
}

func TestCheckPasswordAccepts(t *testing.T) {
	for _, password := range []string{
		"Str0ng!pass",
		"Aa1!aaaa",
		"C0mpl3x,Phrase",
	} {
		if errs := CheckPassword(password); len(errs) > 0 {
			t.Errorf("CheckPassword(%q) = %v, want no errors", password, errs)
		}
	}
}

func TestCheckPasswordRules(t *testing.T) {
	tests := []struct {
		name     string
		password string
		rule     string
	}{
		{"too short", "Aa1!", "min_length"},
		{"no uppercase", "weak1!pass", "uppercase"},
		{"no lowercase", "WEAK1!PASS", "lowercase"},
		{"no digit", "Weakest!pass", "digit"},
		{"no symbol", "Weak1passs", "symbol"},
		{"leading space", " Str0ng!pass", "no_whitespace"},
		{"trailing space", "Str0ng!pass ", "no_whitespace"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := CheckPassword(tt.password)
			if !rulesOf(errs)[tt.rule] {
				t.Errorf("CheckPassword(%q) missing rule %s, got %v", tt.password, tt.rule, errs)
			}
		})
	}
}

func TestCheckPasswordReportsEveryViolation(t *testing.T) {
	errs := CheckPassword("aaa")
	rules := rulesOf(errs)

	for _, rule := range []string{"min_length", "uppercase", "digit", "symbol"} {
		if !rules[rule] {
			t.Errorf("expected rule %s to be reported, got %v", rule, errs)
		}
	}
	if rules["lowercase"] {
		t.Error("lowercase rule should not fire for an all-lowercase password")
	}
}

func TestCheckPasswordErrorsNameTheField(t *testing.T) {
	for _, e := range CheckPassword("bad") {
		if e.Field != "password" {
			t.Errorf("error field = %s, want password", e.Field)
		}
	}
}
