package utils

import "testing"

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		name     string
		password string
		valid    bool
	}{
		{"acceptable", "Passw0rd!", true},
		{"symbols from the fixed set", "Aa1@$!%*?&", true},
		{"exactly eight chars", "Abcdef1!", true},
		{"seven chars", "short1!", false},
		{"no uppercase", "alllowercase1!", false},
		{"no lowercase", "ALLUPPERCASE1!", false},
		{"no digit", "NoDigits!!", false},
		{"no symbol", "NoSymbol11", false},
		{"symbol outside the set", "Passw0rd#", false},
		{"empty", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := ValidatePassword(tc.password)
			if tc.valid && msg != "" {
				t.Errorf("expected %q to pass, got %q", tc.password, msg)
			}
			if !tc.valid && msg == "" {
				t.Errorf("expected %q to fail", tc.password)
			}
		})
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Passw0rd!")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "Passw0rd!" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !CheckPassword(hash, "Passw0rd!") {
		t.Error("correct password must verify")
	}
	if CheckPassword(hash, "Wrong1!pw") {
		t.Error("wrong password must not verify")
	}
}
