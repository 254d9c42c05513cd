package tokens

import (
	"reflect"
	"testing"

	"github.com/patmonardo/graphcore/pkg/schema"
)

func TestNodeLabelToken_States(t *testing.T) {
	tests := []struct {
		name    string
		token   NodeLabelToken
		empty   bool
		invalid bool
		valid   bool
		size    int
	}{
		{"empty", EmptyToken(), true, false, true, 0},
		{"invalid", InvalidToken(), false, true, false, 0},
		{"single", TokenOf(schema.Label("User")), false, false, true, 1},
		{"multi", TokenOf(schema.Label("User"), schema.Label("Admin")), false, false, true, 2},
		{"of_nothing", TokenOf(), true, false, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.token.IsEmpty(); got != tt.empty {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.empty)
			}
			if got := tt.token.IsInvalid(); got != tt.invalid {
				t.Errorf("IsInvalid() = %v, want %v", got, tt.invalid)
			}
			if got := tt.token.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
			if got := tt.token.Size(); got != tt.size {
				t.Errorf("Size() = %d, want %d", got, tt.size)
			}
		})
	}
}

func TestNodeLabelToken_StringRoundTrip(t *testing.T) {
	names := []string{"User", "Admin", "Device"}
	token := TokenFromStrings(names)

	if !token.IsValid() {
		t.Fatal("token from valid names should be valid")
	}
	if got := token.Strings(); !reflect.DeepEqual(got, names) {
		t.Errorf("Strings() = %v, want %v (order must be preserved)", got, names)
	}

	again := TokenFromStrings(token.Strings())
	if !TokensEqual(token, again) {
		t.Error("round-trip through strings changed the token")
	}
}

func TestTokenFromStrings_BlankNameIsInvalid(t *testing.T) {
	token := TokenFromStrings([]string{"User", "  "})
	if !token.IsInvalid() {
		t.Error("blank label name should make the token invalid")
	}
}

func TestTokenFromStrings_NilIsEmpty(t *testing.T) {
	token := TokenFromStrings(nil)
	if !token.IsEmpty() {
		t.Error("nil names should yield the empty token")
	}
}

func TestTokensEqual_OrderMatters(t *testing.T) {
	a := TokenOf(schema.Label("A"), schema.Label("B"))
	b := TokenOf(schema.Label("B"), schema.Label("A"))
	if TokensEqual(a, b) {
		t.Error("tokens with different label order must not be equal")
	}
	if !TokensEqual(a, TokenOf(schema.Label("A"), schema.Label("B"))) {
		t.Error("tokens with identical label order must be equal")
	}
}

func TestTokensEqual_Invalid(t *testing.T) {
	if !TokensEqual(InvalidToken(), InvalidToken()) {
		t.Error("invalid tokens compare equal to each other")
	}
	if TokensEqual(InvalidToken(), EmptyToken()) {
		t.Error("invalid token must not equal the empty token")
	}
}
