package order

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kiwari-pos/dashboard/internal/enum"
)

func TestAllowedTransitions(t *testing.T) {
	tests := []struct {
		status string
		want   []string
	}{
		{enum.OrderStatusMenunggu, []string{enum.OrderStatusDiproses, enum.OrderStatusDibatalkan}},
		{enum.OrderStatusDiproses, []string{enum.OrderStatusSelesai, enum.OrderStatusDibatalkan}},
		{enum.OrderStatusSelesai, []string{}},
		{enum.OrderStatusDibatalkan, []string{}},
		{"archived", []string{}},
		{"", []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.status, func(t *testing.T) {
			got := AllowedTransitions(tc.status)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("AllowedTransitions(%q) mismatch (-want +got):\n%s", tc.status, diff)
			}
		})
	}
}

func TestAllowedTransitionsReturnsCopy(t *testing.T) {
	got := AllowedTransitions(enum.OrderStatusMenunggu)
	got[0] = "tampered"
	if AllowedTransitions(enum.OrderStatusMenunggu)[0] != enum.OrderStatusDiproses {
		t.Fatal("mutating the result changed the transition table")
	}
}

func TestValidateTransition(t *testing.T) {
	tests := []struct {
		from, to string
		wantErr  bool
	}{
		{enum.OrderStatusMenunggu, enum.OrderStatusDiproses, false},
		{enum.OrderStatusMenunggu, enum.OrderStatusDibatalkan, false},
		{enum.OrderStatusDiproses, enum.OrderStatusSelesai, false},
		{enum.OrderStatusMenunggu, enum.OrderStatusSelesai, true},
		{enum.OrderStatusDiproses, enum.OrderStatusMenunggu, true},
		{enum.OrderStatusSelesai, enum.OrderStatusMenunggu, true},
		{enum.OrderStatusDibatalkan, enum.OrderStatusDiproses, true},
		{enum.OrderStatusMenunggu, enum.OrderStatusMenunggu, true},
		{"archived", enum.OrderStatusMenunggu, false},
	}

	for _, tc := range tests {
		t.Run(tc.from+"->"+tc.to, func(t *testing.T) {
			err := ValidateTransition(tc.from, tc.to)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ValidateTransition(%q, %q) error = %v, wantErr %v", tc.from, tc.to, err, tc.wantErr)
			}
			if err == nil {
				return
			}
			if !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("expected ErrInvalidTransition, got: %v", err)
			}
			var ite *InvalidTransitionError
			if !errors.As(err, &ite) || ite.From != tc.from || ite.To != tc.to {
				t.Fatalf("unexpected error detail: %#v", err)
			}
		})
	}
}

func TestTerminalAndKnown(t *testing.T) {
	if !IsTerminal(enum.OrderStatusSelesai) || !IsTerminal(enum.OrderStatusDibatalkan) {
		t.Error("selesai and dibatalkan must be terminal")
	}
	if IsTerminal(enum.OrderStatusMenunggu) || IsTerminal("archived") {
		t.Error("menunggu and unknown statuses are not terminal")
	}
	if IsKnownStatus("archived") || !IsKnownStatus(enum.OrderStatusDiproses) {
		t.Error("IsKnownStatus mismatch")
	}
	if !CanTransition(enum.OrderStatusMenunggu, enum.OrderStatusDiproses) || CanTransition(enum.OrderStatusSelesai, enum.OrderStatusMenunggu) {
		t.Error("CanTransition mismatch")
	}
}

func TestInvalidTransitionErrorMessage(t *testing.T) {
	err := &InvalidTransitionError{From: "selesai", To: "menunggu"}
	if err.Error() != "transisi status tidak valid: selesai -> menunggu" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}
