package store

// Event types published after successful store changes.
const (
	EventOrderList     = "order.list"
	EventOrderSelected = "order.selected"
	EventOrderDeleted  = "order.deleted"
	EventDashboard     = "dashboard.summary"
)

// Publisher receives store change events. Satisfied by the ws hub adapter.
type Publisher interface {
	Publish(eventType string, payload any)
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, any) {}

func orNop(p Publisher) Publisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}

// listEvent is the event type for a collection's list changing.
func listEvent(name string) string {
	return name + ".list"
}
