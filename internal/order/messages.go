package order

import "github.com/Beka01247/brewline/internal/domain"

const MessageOutForDelivery = "out_for_delivery"

type Message struct {
	Title string
	Body  string
}

var statusMessages = map[string]Message{
	string(domain.OrderPending):   {"Order received", "We have received your order and will start on it shortly."},
	string(domain.OrderPreparing): {"Preparing your order", "Our baristas are preparing your order."},
	string(domain.OrderReady):     {"Ready for pickup", "Your order is ready. See you at the counter!"},
	MessageOutForDelivery:         {"On its way", "Your order is out for delivery."},
	string(domain.OrderDelivered): {"Delivered", "Your order has been delivered. Enjoy!"},
	string(domain.OrderCompleted): {"Order complete", "Your order is complete."},
	string(domain.OrderCancelled): {"Order cancelled", "Your order has been cancelled."},
}

// MessageFor returns the customer-facing message for a status or message key.
func MessageFor(key string) (Message, bool) {
	m, ok := statusMessages[key]
	return m, ok
}
