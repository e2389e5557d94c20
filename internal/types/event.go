package types

// EventName identifies a domain event published when a record changes
type EventName string

const (
	EventInvoiceCreated       EventName = "invoice.created"
	EventInvoiceUpdated       EventName = "invoice.updated"
	EventInvoiceStatusChanged EventName = "invoice.status_changed"
	EventInvoiceDeleted       EventName = "invoice.deleted"

	EventCustomerCreated EventName = "customer.created"
	EventCustomerUpdated EventName = "customer.updated"
	EventCustomerDeleted EventName = "customer.deleted"

	EventSubscriptionCreated   EventName = "subscription.created"
	EventSubscriptionUpdated   EventName = "subscription.updated"
	EventSubscriptionPaused    EventName = "subscription.paused"
	EventSubscriptionResumed   EventName = "subscription.resumed"
	EventSubscriptionCancelled EventName = "subscription.cancelled"
)

func (e EventName) String() string {
	return string(e)
}
