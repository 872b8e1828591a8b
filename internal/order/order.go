// Package order turns backend order payloads of unknown shape into canonical
// orders and guards status changes.
package order

import "github.com/kiwari-pos/dashboard/internal/rawjson"

// Meja is the table an order is served at.
type Meja struct {
	ID        int64  `json:"id"`
	NomorMeja string `json:"nomor_meja"`
	Kapasitas int64  `json:"kapasitas"`
}

// Waiter is the staff member handling an order.
type Waiter struct {
	ID      int64  `json:"id"`
	Nama    string `json:"nama"`
	Jabatan string `json:"jabatan"`
}

// Item is a canonical order line.
// Subtotal is the backend's explicit subtotal when one was sent, otherwise
// Qty * Harga computed in the decimal domain.
type Item struct {
	ID       *int64          `json:"id"`
	MenuID   *int64          `json:"menu_id"`
	MenuName string          `json:"menu_name"`
	Qty      int64           `json:"qty"`
	Harga    string          `json:"harga"`
	Subtotal string          `json:"subtotal"`
	Catatan  *string         `json:"catatan"`
	Raw      *rawjson.Record `json:"-"` // diagnostic only, never sent to views
}

// Payment is the settlement attached to a paid order.
type Payment struct {
	ID     int64  `json:"id"`
	Method string `json:"method"`
	Amount string `json:"amount"`
	PaidAt string `json:"paid_at"`
}

// Order is the list projection of an order: everything except lines and payment.
type Order struct {
	ID           int64   `json:"id"`
	OrderNumber  string  `json:"order_number"`
	MejaID       int64   `json:"meja_id"`
	WaiterID     int64   `json:"waiter_id"`
	TipeOrder    string  `json:"tipe_order"`
	Status       string  `json:"status"`
	TotalHarga   string  `json:"total_harga"`
	CreatedAt    string  `json:"created_at"`
	WaktuSelesai *string `json:"waktu_selesai"`
	Meja         *Meja   `json:"meja"`
	Waiter       *Waiter `json:"waiter"`
}

// Detail is a fully loaded order.
type Detail struct {
	Order
	Items   []Item   `json:"items"`
	Payment *Payment `json:"payment"`
}

// DetailFromOrder promotes a list entry to a detail with no lines and no payment.
func DetailFromOrder(o Order) Detail {
	return Detail{Order: o, Items: []Item{}}
}

// CreateItem is one line of a create request.
type CreateItem struct {
	MenuID  int64  `json:"menu_id"`
	Jumlah  int64  `json:"jumlah"`
	Catatan string `json:"catatan,omitempty"`
}

// CreateRequest is the body of POST /order.
type CreateRequest struct {
	MejaID    int64        `json:"meja_id"`
	WaiterID  int64        `json:"waiter_id"`
	TipeOrder string       `json:"tipe_order"`
	Items     []CreateItem `json:"items"`
	Status    string       `json:"status,omitempty"`
}

// UpdateRequest is the body of PATCH /order/{id}. Nil fields are not sent.
type UpdateRequest struct {
	MejaID    *int64  `json:"meja_id,omitempty"`
	WaiterID  *int64  `json:"waiter_id,omitempty"`
	TipeOrder *string `json:"tipe_order,omitempty"`
	Status    *string `json:"status,omitempty"`
}
