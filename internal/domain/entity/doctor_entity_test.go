package entity

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDefaultPassword(t *testing.T) {
	cases := []struct {
		fname, lname, want string
	}{
		{"Jane", "Doe", "J.DOE"},
		{"amir", "o'neil", "A.O'NEIL"},
		{"Émile", "Zola", "É.ZOLA"},
		{"", "Doe", ".DOE"},
	}
	for _, tc := range cases {
		if got := DefaultPassword(tc.fname, tc.lname); got != tc.want {
			t.Errorf("DefaultPassword(%q, %q) = %q, want %q", tc.fname, tc.lname, got, tc.want)
		}
	}
}

func TestDoctorJSONHidesPassword(t *testing.T) {
	d := Doctor{ID: "1", Email: "j@clinic.test", Password: "$2a$10$hash"}
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(b), "password") || strings.Contains(string(b), "$2a$") {
		t.Fatalf("password leaked: %s", b)
	}
}

func TestAddressOmitsAbsentParts(t *testing.T) {
	street, city := "1 Main", "Kingston"
	b, _ := json.Marshal(Address{Street: &street, City: &city})
	if strings.Contains(string(b), "parish") {
		t.Fatalf("absent parish serialised: %s", b)
	}
}
