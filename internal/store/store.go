package store

import (
	"github.com/kiwari-pos/dashboard/internal/api"
	"go.uber.org/zap"
)

// Stores is every cache a dashboard session holds.
type Stores struct {
	Orders    *Orders
	Meja      *Collection[Meja, MejaInput]
	Menu      *Collection[Menu, MenuInput]
	Kategori  *Collection[Kategori, KategoriInput]
	Staff     *Collection[Staff, StaffInput]
	Users     *Collection[User, UserInput]
	Payments  *Collection[Payment, PaymentInput]
	Dashboard *Dashboard
}

// New wires every store to one requester and one event publisher.
func New(requester api.Requester, logger *zap.Logger, events Publisher) *Stores {
	return &Stores{
		Orders:    NewOrders(requester, logger, events),
		Meja:      NewCollection[Meja, MejaInput]("meja", "/meja", requester, logger, events, nil),
		Menu:      NewCollection[Menu]("menu", "/menu", requester, logger, events, prepareMenu),
		Kategori:  NewCollection[Kategori, KategoriInput]("kategori", "/kategori-menu", requester, logger, events, nil),
		Staff:     NewCollection[Staff]("staff", "/pegawai", requester, logger, events, prepareStaff),
		Users:     NewCollection[User]("users", "/user", requester, logger, events, prepareUser),
		Payments:  NewCollection[Payment]("payments", "/payment", requester, logger, events, preparePayment),
		Dashboard: NewDashboard(requester, logger, events),
	}
}
