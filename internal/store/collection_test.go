package store

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kiwari-pos/dashboard/internal/api"
	"github.com/kiwari-pos/dashboard/internal/enum"
	"github.com/kiwari-pos/dashboard/internal/money"
)

func TestCollectionFetch(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bare array", `[{"id":1,"nomor_meja":"A1","kapasitas":4,"status":"tersedia"},{"id":2,"nomor_meja":"A2","kapasitas":2}]`},
		{"data envelope", `{"data":[{"id":1,"nomor_meja":"A1","kapasitas":4,"status":"tersedia"},{"id":2,"nomor_meja":"A2","kapasitas":2}]}`},
		{"undecodable entry skipped", `[{"id":1,"nomor_meja":"A1","kapasitas":4,"status":"tersedia"},{"id":"x"},{"id":2,"nomor_meja":"A2","kapasitas":2}]`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := &mockRequester{doFn: func(ctx context.Context, method, path string, body any) (*api.Response, error) {
				if method != http.MethodGet || path != "/meja" {
					t.Fatalf("unexpected call %s %s", method, path)
				}
				return respond(t, tc.body), nil
			}}
			pub := &mockPublisher{}
			c := NewCollection[Meja, MejaInput]("meja", "/meja", req, nil, pub, nil)

			if err := c.Fetch(context.Background()); err != nil {
				t.Fatalf("Fetch: %v", err)
			}
			want := []Meja{
				{ID: 1, NomorMeja: "A1", Kapasitas: 4, Status: "tersedia"},
				{ID: 2, NomorMeja: "A2", Kapasitas: 2},
			}
			if diff := cmp.Diff(want, c.List()); diff != "" {
				t.Fatalf("items mismatch (-want +got):\n%s", diff)
			}
			if c.IsLoading() {
				t.Error("loading flag left set")
			}
			if diff := cmp.Diff([]string{"meja.list"}, pub.Types()); diff != "" {
				t.Errorf("events mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCollectionFetchFailureKeepsItems(t *testing.T) {
	calls := 0
	req := &mockRequester{doFn: func(ctx context.Context, method, path string, body any) (*api.Response, error) {
		calls++
		if calls == 1 {
			return respond(t, `[{"id":1,"nama":"Minuman"}]`), nil
		}
		return nil, api.ErrUnavailable
	}}
	c := NewCollection[Kategori, KategoriInput]("kategori", "/kategori-menu", req, nil, nil, nil)

	if err := c.Fetch(context.Background()); err != nil {
		t.Fatalf("first Fetch: %v", err)
	}
	if err := c.Fetch(context.Background()); !errors.Is(err, api.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got: %v", err)
	}
	if got := c.List(); len(got) != 1 || got[0].Nama != "Minuman" {
		t.Fatalf("items changed on failure: %+v", got)
	}
}

func TestCollectionCreateAppends(t *testing.T) {
	req := &mockRequester{doFn: func(ctx context.Context, method, path string, body any) (*api.Response, error) {
		switch method {
		case http.MethodGet:
			return respond(t, `[{"id":1,"nama":"Budi","jabatan":"waiter"}]`), nil
		case http.MethodPost:
			if path != "/pegawai" {
				t.Fatalf("unexpected path %s", path)
			}
			return respond(t, `{"data":{"id":2,"nama":"Sari","jabatan":"koki"}}`), nil
		}
		t.Fatalf("unexpected method %s", method)
		return nil, nil
	}}
	c := NewCollection[Staff, StaffInput]("staff", "/pegawai", req, nil, nil, nil)
	if err := c.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	created, err := c.Create(context.Background(), StaffInput{Nama: "Sari", Jabatan: enum.JabatanKoki})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != 2 || created.Jabatan != enum.JabatanKoki {
		t.Fatalf("unexpected created: %+v", created)
	}
	list := c.List()
	if len(list) != 2 || list[1].ID != 2 {
		t.Fatalf("expected created staff appended, got %+v", list)
	}
	if got, ok := c.Get(2); !ok || got.Nama != "Sari" {
		t.Fatalf("Get(2) = %+v, %v", got, ok)
	}
}

func TestCollectionCreateMalformedResponse(t *testing.T) {
	req := &mockRequester{doFn: func(ctx context.Context, method, path string, body any) (*api.Response, error) {
		return respond(t, `{"id":"not-a-number"}`), nil
	}}
	c := NewCollection[Kategori, KategoriInput]("kategori", "/kategori-menu", req, nil, nil, nil)

	_, err := c.Create(context.Background(), KategoriInput{Nama: "Makanan"})
	if !errors.Is(err, api.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got: %v", err)
	}
	if len(c.List()) != 0 {
		t.Fatal("nothing should be cached")
	}
}

func TestCollectionUpdate(t *testing.T) {
	req := &mockRequester{doFn: func(ctx context.Context, method, path string, body any) (*api.Response, error) {
		switch method {
		case http.MethodGet:
			return respond(t, `[{"id":1,"username":"admin","role":"admin"},{"id":2,"username":"kasir","role":"user"}]`), nil
		case http.MethodPatch:
			if path == "/user/2" {
				return respond(t, `{"id":2,"username":"kasir","role":"pegawai"}`), nil
			}
			return respond(t, `{"id":9,"username":"ghost","role":"user"}`), nil
		}
		t.Fatalf("unexpected method %s", method)
		return nil, nil
	}}
	c := NewCollection[User]("users", "/user", req, nil, nil, prepareUser)
	if err := c.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if _, err := c.Update(context.Background(), 2, UserInput{Username: "kasir", Role: enum.UserRolePegawai}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got, _ := c.Get(2); got.Role != enum.UserRolePegawai {
		t.Fatalf("expected role replaced, got %+v", got)
	}

	// An entity that is not cached is not added.
	if _, err := c.Update(context.Background(), 9, UserInput{Username: "ghost"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(c.List()) != 2 {
		t.Fatalf("expected 2 users, got %d", len(c.List()))
	}
}

func TestCollectionDelete(t *testing.T) {
	failing := false
	req := &mockRequester{doFn: func(ctx context.Context, method, path string, body any) (*api.Response, error) {
		if method == http.MethodGet {
			return respond(t, `[{"id":1,"nomor_meja":"A1"},{"id":2,"nomor_meja":"A2"}]`), nil
		}
		if failing {
			return nil, &api.Error{Status: http.StatusConflict, Message: "Meja masih dipakai"}
		}
		return &api.Response{Status: http.StatusNoContent}, nil
	}}
	c := NewCollection[Meja, MejaInput]("meja", "/meja", req, nil, nil, nil)
	if err := c.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if err := c.Delete(context.Background(), 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := c.Get(1); ok {
		t.Fatal("expected meja 1 removed")
	}

	failing = true
	if err := c.Delete(context.Background(), 2); api.StatusOf(err) != http.StatusConflict {
		t.Fatalf("expected 409 error, got: %v", err)
	}
	if _, ok := c.Get(2); !ok {
		t.Fatal("meja 2 removed despite failure")
	}
}

func TestCollectionPrepareBodies(t *testing.T) {
	var sent []any
	req := &mockRequester{doFn: func(ctx context.Context, method, path string, body any) (*api.Response, error) {
		sent = append(sent, body)
		return respond(t, `{"id":1}`), nil
	}}
	stores := New(req, nil, nil)
	ctx := context.Background()

	if _, err := stores.Menu.Create(ctx, MenuInput{Nama: "Nasi Goreng", Harga: json.Number("25000.00")}); err != nil {
		t.Fatalf("menu: %v", err)
	}
	if _, err := stores.Payments.Create(ctx, PaymentInput{OrderID: 1, Method: enum.PaymentMethodQRIS, Amount: "0030000.50"}); err != nil {
		t.Fatalf("payment: %v", err)
	}
	if _, err := stores.Users.Update(ctx, 1, UserInput{Username: "admin", Password: "   "}); err != nil {
		t.Fatalf("user: %v", err)
	}
	if _, err := stores.Staff.Create(ctx, StaffInput{Nama: "Budi", Jabatan: enum.JabatanWaiter}); err != nil {
		t.Fatalf("staff: %v", err)
	}

	if got := sent[0].(MenuInput).Harga; got != "25000" {
		t.Errorf("menu harga: got %q", got)
	}
	if got := sent[1].(PaymentInput).Amount; got != "30000.5" {
		t.Errorf("payment amount: got %q", got)
	}
	if got := sent[3].(StaffInput).Status; got != enum.StaffStatusAktif {
		t.Errorf("staff status: got %q", got)
	}
	encoded, err := json.Marshal(sent[2])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(encoded, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := fields["password"]; ok {
		t.Errorf("blank password should be omitted, got %s", encoded)
	}
}

func TestCollectionAmountsCanonicalOnRead(t *testing.T) {
	req := &mockRequester{doFn: func(ctx context.Context, method, path string, body any) (*api.Response, error) {
		return respond(t, `[{"id":1,"nama":"Es Jeruk","harga":12000.00,"kategori":{"id":3,"nama":"Minuman"}},{"id":2,"nama":"Kopi","harga":"8000.50"}]`), nil
	}}
	c := NewCollection[Menu]("menu", "/menu", req, nil, nil, prepareMenu)
	if err := c.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	list := c.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 menus, got %d", len(list))
	}
	if list[0].Harga != money.Amount("12000") || list[1].Harga != money.Amount("8000.5") {
		t.Fatalf("unexpected prices: %q %q", list[0].Harga, list[1].Harga)
	}
	if list[0].Kategori == nil || list[0].Kategori.Nama != "Minuman" {
		t.Fatalf("expected nested kategori, got %+v", list[0].Kategori)
	}
}

func TestStaffInputValidate(t *testing.T) {
	for _, status := range []string{"", enum.StaffStatusAktif, enum.StaffStatusTidakAktif} {
		if err := (StaffInput{Status: status}).Validate(); err != nil {
			t.Errorf("status %q: unexpected error: %v", status, err)
		}
	}
	if err := (StaffInput{Status: "cuti"}).Validate(); !errors.Is(err, ErrInvalidStaffStatus) {
		t.Fatalf("expected ErrInvalidStaffStatus, got: %v", err)
	}
}
