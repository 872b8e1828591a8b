package enum

// ── Group A: State machines (enforced before any status PATCH) ──

const (
	OrderStatusMenunggu   = "menunggu"
	OrderStatusDiproses   = "diproses"
	OrderStatusSelesai    = "selesai"
	OrderStatusDibatalkan = "dibatalkan"
)

// ── Group B: Configurable labels (backend may add more; passed through) ──

const (
	OrderTypeDineIn   = "dine_in"
	OrderTypeTakeaway = "takeaway"
	OrderTypeDelivery = "delivery"
)

const (
	PaymentMethodCash   = "cash"
	PaymentMethodQRIS   = "qris"
	PaymentMethodDebit  = "debit"
	PaymentMethodKredit = "kredit"
)

const (
	JabatanManager = "manager"
	JabatanWaiter  = "waiter"
	JabatanKoki    = "koki"
	JabatanPelayan = "pelayan"
)

const (
	StaffStatusAktif      = "aktif"
	StaffStatusTidakAktif = "tidak_aktif"
)

// ── Group C: Roles ──

const (
	UserRoleAdmin   = "admin"
	UserRoleUser    = "user"
	UserRolePegawai = "pegawai"
)
