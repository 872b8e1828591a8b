package order

import (
	"strings"

	"github.com/kiwari-pos/dashboard/internal/extract"
	"github.com/kiwari-pos/dashboard/internal/money"
	"github.com/kiwari-pos/dashboard/internal/rawjson"
)

// DefaultItemName labels lines whose name could not be found.
const DefaultItemName = "Item"

var (
	menuKeys     = []string{"menu", "menu_item", "item_menu", "menuData", "menu_detail"}
	qtyKeys      = []string{"qty", "quantity", "jumlah", "count"}
	priceKeys    = []string{"harga_at_time", "harga", "price", "harga_satuan", "unit_price", "unitPrice"}
	subtotalKeys = []string{"subtotal", "total_harga", "total", "line_total", "lineTotal", "amount"}
	menuIDKeys   = []string{"menu_id", "id_menu", "menuId"}
	nameKeys     = []string{"menu_name", "nama_menu", "menu_nama", "nama", "name"}
	noteKeys     = []string{"catatan", "notes", "note"}
	itemsKeys    = []string{"items", "order_items", "orderItems", "detail", "order_detail"}
	nestedKeys   = []string{"items", "data"}
	listKeys     = []string{"data", "orders"}
)

// NormalizeItem builds a canonical line from a record, or a JSON string
// encoding one, of unknown shape. It never fails: unusable input produces
// a zero-quantity line named DefaultItemName.
func NormalizeItem(raw any) Item {
	rec := asRecord(raw)
	menu := asRecord(nil)
	if v, ok := firstPresent(rec, menuKeys...); ok {
		menu = asRecord(v)
	}

	qtyRaw, _ := extract.FindFirstValue(rec, qtyKeys, extract.DefaultDepth)
	qty := asInt(qtyRaw)

	var harga string
	if v, ok := firstPresent(rec, "harga_at_time", "harga"); ok {
		harga = money.Canonicalize(v)
	} else if v, ok := firstPresent(menu, "harga"); ok {
		harga = money.Canonicalize(v)
	} else {
		v, _ := extract.FindFirstValue(rec, priceKeys, extract.DefaultDepth)
		harga = money.Canonicalize(v)
	}

	subtotal := money.Mul(qty, harga)
	if v, ok := extract.FindFirstValue(rec, subtotalKeys, extract.DefaultDepth); ok {
		subtotal = money.Canonicalize(v)
	}

	id := asInt(field(rec, "id"))
	if id == 0 {
		v, _ := extract.FindFirstValue(rec, []string{"id"}, extract.DefaultDepth)
		id = asInt(v)
	}

	menuID := asInt(field(rec, "menu_id"))
	if menuID == 0 {
		menuID = asInt(field(menu, "id"))
	}
	if menuID == 0 {
		v, _ := extract.FindFirstValue(rec, menuIDKeys, extract.DefaultDepth)
		menuID = asInt(v)
	}

	return Item{
		ID:       optionalID(id),
		MenuID:   optionalID(menuID),
		MenuName: itemName(rec, menu),
		Qty:      qty,
		Harga:    harga,
		Subtotal: subtotal,
		Catatan:  optionalText(rec, noteKeys...),
		Raw:      rec,
	}
}

func itemName(rec, menu *rawjson.Record) string {
	var name string
	if v, ok := firstPresent(rec, "nama_menu"); ok {
		name = asText(v)
	} else if v, ok := firstPresent(menu, "nama"); ok {
		name = asText(v)
	} else {
		v, _ := extract.FindFirstValue(rec, nameKeys, extract.DefaultDepth)
		name = asText(v)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultItemName
	}
	return name
}

// NormalizeBase builds the list projection of an order.
func NormalizeBase(raw any) Order {
	rec := asRecord(raw)
	return Order{
		ID:           asInt(field(rec, "id")),
		OrderNumber:  asText(field(rec, "order_number")),
		MejaID:       asInt(field(rec, "meja_id")),
		WaiterID:     asInt(field(rec, "waiter_id")),
		TipeOrder:    asText(field(rec, "tipe_order")),
		Status:       asText(field(rec, "status")),
		TotalHarga:   money.Canonicalize(field(rec, "total_harga")),
		CreatedAt:    asText(field(rec, "created_at")),
		WaktuSelesai: optionalText(rec, "waktu_selesai"),
		Meja:         toMeja(field(rec, "meja")),
		Waiter:       toWaiter(field(rec, "waiter")),
	}
}

// NormalizeDetail builds a fully loaded order. Lines that cannot be located
// or decoded leave Items empty; the order itself is always returned.
func NormalizeDetail(raw any) Detail {
	rec := asRecord(raw)
	return Detail{
		Order:   NormalizeBase(rec),
		Items:   decodeItems(rec),
		Payment: toPayment(field(rec, "payment")),
	}
}

// NormalizeList normalizes a GET /order payload. Besides a bare array it
// accepts an envelope holding the array under "data" or "orders".
func NormalizeList(raw any) []Order {
	list, ok := raw.([]any)
	if !ok {
		if rec, isRec := rawjson.AsRecord(raw); isRec {
			v, _ := firstPresent(rec, listKeys...)
			list, _ = v.([]any)
		}
	}

	out := make([]Order, 0, len(list))
	for _, v := range list {
		out = append(out, NormalizeBase(v))
	}
	return out
}

// decodeItems resolves the item collection, which the backend sends as one
// of: an array, a JSON string (of an array or of an envelope), an envelope
// record with "items" or "data", or nothing.
func decodeItems(rec *rawjson.Record) []Item {
	v, _ := firstPresent(rec, itemsKeys...)

	switch src := v.(type) {
	case []any:
		return normalizeItems(src)
	case string:
		parsed, err := rawjson.Decode([]byte(src))
		if err != nil {
			return []Item{}
		}
		if arr, ok := parsed.([]any); ok {
			return normalizeItems(arr)
		}
		if env, ok := rawjson.AsRecord(parsed); ok {
			return envelopeItems(env)
		}
	case *rawjson.Record:
		if src != nil {
			return envelopeItems(src)
		}
	}
	return []Item{}
}

func envelopeItems(env *rawjson.Record) []Item {
	v, _ := firstPresent(env, nestedKeys...)
	arr, ok := v.([]any)
	if !ok {
		return []Item{}
	}
	return normalizeItems(arr)
}

func normalizeItems(arr []any) []Item {
	items := make([]Item, len(arr))
	for i, v := range arr {
		items[i] = NormalizeItem(v)
	}
	return items
}

func toMeja(v any) *Meja {
	rec, ok := rawjson.AsRecord(v)
	if !ok {
		return nil
	}
	return &Meja{
		ID:        asInt(field(rec, "id")),
		NomorMeja: asText(field(rec, "nomor_meja")),
		Kapasitas: asInt(field(rec, "kapasitas")),
	}
}

func toWaiter(v any) *Waiter {
	rec, ok := rawjson.AsRecord(v)
	if !ok {
		return nil
	}
	return &Waiter{
		ID:      asInt(field(rec, "id")),
		Nama:    asText(field(rec, "nama")),
		Jabatan: asText(field(rec, "jabatan")),
	}
}

func toPayment(v any) *Payment {
	rec, ok := rawjson.AsRecord(v)
	if !ok {
		return nil
	}
	return &Payment{
		ID:     asInt(field(rec, "id")),
		Method: asText(field(rec, "method")),
		Amount: money.Canonicalize(field(rec, "amount")),
		PaidAt: asText(field(rec, "paid_at")),
	}
}
