package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "0"},
		{"empty", "", "0"},
		{"whitespace", "   ", "0"},
		{"leading and trailing zeros", "00012.500", "12.5"},
		{"negative zero keeps sign", "-0.00", "-0"},
		{"int", 42, "42"},
		{"int64", int64(-7), "-7"},
		{"uint64", uint64(18446744073709551615), "18446744073709551615"},
		{"float", 12.5, "12.5"},
		{"float integral", 15000.0, "15000"},
		{"json number keeps precision", json.Number("123456789012345678901234.120"), "123456789012345678901234.12"},
		{"plus sign", "+5.10", "5.1"},
		{"bare fraction", ".5", "0.5"},
		{"bare trailing dot", "7.", "7"},
		{"zero fraction", "100.000", "100"},
		{"exponent", "1.5e3", "1500"},
		{"exponent with sign", "2E+2", "200"},
		{"negative exponent", json.Number("125e-2"), "1.25"},
		{"negative zero exponent keeps sign", "-0e0", "-0"},
		{"huge exponent", json.Number("1e1000000"), "0"},
		{"huge negative exponent", "1e-100000000", "0"},
		{"exponent without digits", "1e", "0"},
		{"decimal huge exponent", decimal.New(1, 100000), "0"},
		{"garbage", "abc", "0"},
		{"thousand separators", "1,000", "0"},
		{"double dot", "1.2.3", "0"},
		{"sign only", "-", "0"},
		{"bool", true, "0"},
		{"decimal", decimal.RequireFromString("2.50"), "2.5"},
		{"amount", Amount("0010"), "10"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Canonicalize(tc.in); got != tc.want {
				t.Fatalf("Canonicalize(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCanonicalizeIdempotent(t *testing.T) {
	inputs := []string{"", "0", "-0.00", "00012.500", "1e2", "-0e0", "1e99999", "abc", "999999999999999999999.000001", "-3.14"}
	for _, in := range inputs {
		once := Canonicalize(in)
		if twice := Canonicalize(once); twice != once {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestFormatRupiah(t *testing.T) {
	tests := map[string]string{
		"1234567.5":   "Rp 1.234.567,5",
		"0":           "Rp 0",
		"":            "Rp 0",
		"999":         "Rp 999",
		"1000":        "Rp 1.000",
		"-25000.75":   "Rp -25.000,75",
		"000150000.0": "Rp 150.000",
	}
	for in, want := range tests {
		if got := FormatRupiah(in); got != want {
			t.Errorf("FormatRupiah(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMul(t *testing.T) {
	tests := []struct {
		qty   int64
		price string
		want  string
	}{
		{2, "5000", "10000"},
		{3, "0.1", "0.3"},
		{0, "12500", "0"},
		{4, "garbage", "0"},
		{1, "99999999999999999999.99", "99999999999999999999.99"},
	}
	for _, tc := range tests {
		if got := Mul(tc.qty, tc.price); got != tc.want {
			t.Errorf("Mul(%d, %q) = %q, want %q", tc.qty, tc.price, got, tc.want)
		}
	}
}

func TestIsZero(t *testing.T) {
	for _, in := range []string{"0", "-0", "0.000", "", "x"} {
		if !IsZero(in) {
			t.Errorf("expected IsZero(%q)", in)
		}
	}
	if IsZero("0.01") {
		t.Error("expected 0.01 to be non-zero")
	}
}

func TestAmountUnmarshalJSON(t *testing.T) {
	var v struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
		C Amount `json:"c"`
		D Amount `json:"d"`
	}
	data := `{"a":"0015000.00","b":12345678901234567890.50,"c":null,"d":"n/a"}`
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.A != "15000" || v.B != "12345678901234567890.5" || v.C != "0" || v.D != "0" {
		t.Fatalf("unexpected amounts: %+v", v)
	}
	if v.A.Display() != "Rp 15.000" {
		t.Errorf("Display: got %q", v.A.Display())
	}

	out, err := json.Marshal(v.A)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"15000"` {
		t.Errorf("expected amounts to encode as strings, got: %s", out)
	}
}
