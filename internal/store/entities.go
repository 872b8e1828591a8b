package store

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/kiwari-pos/dashboard/internal/enum"
	"github.com/kiwari-pos/dashboard/internal/money"
)

// ErrInvalidStaffStatus is returned for a staff status outside aktif/tidak_aktif.
var ErrInvalidStaffStatus = errors.New("status must be aktif or tidak_aktif")

// Entity is anything a Collection can key by ID.
type Entity interface {
	EntityID() int64
}

// --- Meja ---

type Meja struct {
	ID        int64  `json:"id"`
	NomorMeja string `json:"nomor_meja"`
	Kapasitas int64  `json:"kapasitas"`
	Status    string `json:"status"`
}

func (m Meja) EntityID() int64 { return m.ID }

type MejaInput struct {
	NomorMeja string `json:"nomor_meja"`
	Kapasitas int64  `json:"kapasitas"`
	Status    string `json:"status,omitempty"`
}

// --- Kategori ---

type Kategori struct {
	ID        int64  `json:"id"`
	Nama      string `json:"nama"`
	Deskripsi string `json:"deskripsi"`
}

func (k Kategori) EntityID() int64 { return k.ID }

type KategoriInput struct {
	Nama      string `json:"nama"`
	Deskripsi string `json:"deskripsi,omitempty"`
}

// --- Menu ---

type Menu struct {
	ID         int64        `json:"id"`
	Nama       string       `json:"nama"`
	Deskripsi  string       `json:"deskripsi"`
	Harga      money.Amount `json:"harga"`
	KategoriID int64        `json:"kategori_id"`
	Tersedia   bool         `json:"tersedia"`
	Kategori   *Kategori    `json:"kategori,omitempty"`
}

func (m Menu) EntityID() int64 { return m.ID }

// MenuInput carries Harga as a JSON number, the form the backend accepts.
type MenuInput struct {
	Nama       string      `json:"nama"`
	Deskripsi  string      `json:"deskripsi,omitempty"`
	Harga      json.Number `json:"harga"`
	KategoriID int64       `json:"kategori_id"`
	Tersedia   *bool       `json:"tersedia,omitempty"`
}

func prepareMenu(in MenuInput) MenuInput {
	in.Harga = json.Number(money.Canonicalize(in.Harga))
	return in
}

// --- Staff ---

type Staff struct {
	ID      int64  `json:"id"`
	Nama    string `json:"nama"`
	Jabatan string `json:"jabatan"`
	NoHP    string `json:"no_hp"`
	Status  string `json:"status"`
	UserID  *int64 `json:"user_id"`
}

func (s Staff) EntityID() int64 { return s.ID }

type StaffInput struct {
	Nama    string `json:"nama"`
	Jabatan string `json:"jabatan"`
	NoHP    string `json:"no_hp,omitempty"`
	Status  string `json:"status,omitempty"`
	UserID  *int64 `json:"user_id,omitempty"`
}

// Validate accepts an empty status, which prepareStaff turns into aktif.
func (in StaffInput) Validate() error {
	switch in.Status {
	case "", enum.StaffStatusAktif, enum.StaffStatusTidakAktif:
		return nil
	}
	return ErrInvalidStaffStatus
}

func prepareStaff(in StaffInput) StaffInput {
	if in.Status == "" {
		in.Status = enum.StaffStatusAktif
	}
	return in
}

// --- User ---

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (u User) EntityID() int64 { return u.ID }

// UserInput omits Password when it is empty so an edit keeps the old one.
type UserInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password,omitempty"`
}

func prepareUser(in UserInput) UserInput {
	in.Password = strings.TrimSpace(in.Password)
	return in
}

// --- Payment ---

type Payment struct {
	ID      int64        `json:"id"`
	OrderID int64        `json:"order_id"`
	Method  string       `json:"method"`
	Amount  money.Amount `json:"amount"`
	PaidAt  string       `json:"paid_at"`
}

func (p Payment) EntityID() int64 { return p.ID }

type PaymentInput struct {
	OrderID int64        `json:"order_id"`
	Method  string       `json:"method"`
	Amount  money.Amount `json:"amount"`
}

func preparePayment(in PaymentInput) PaymentInput {
	in.Amount = money.Amount(money.Canonicalize(string(in.Amount)))
	return in
}
