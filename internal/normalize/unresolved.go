package normalize

import "strings"

// Unresolved - набор полей *_details, заполненных только заглушкой последней
// надежды (без единой подсказки от API).
type Unresolved uint8

const (
	ListingDetails Unresolved = 1 << iota
	BuyerDetails
	SellerDetails
	SenderDetails
	ReceiverDetails
)

var fieldNames = []struct {
	f    Unresolved
	name string
}{
	{ListingDetails, "listing_details"},
	{BuyerDetails, "buyer_details"},
	{SellerDetails, "seller_details"},
	{SenderDetails, "sender_details"},
	{ReceiverDetails, "receiver_details"},
}

func (u Unresolved) Has(f Unresolved) bool {
	return u&f != 0
}

func (u Unresolved) Empty() bool {
	return u == 0
}

// Fields возвращает имена неразрешённых полей в стабильном порядке.
func (u Unresolved) Fields() []string {
	var out []string
	for _, fn := range fieldNames {
		if u.Has(fn.f) {
			out = append(out, fn.name)
		}
	}
	return out
}

func (u Unresolved) String() string {
	if u.Empty() {
		return "none"
	}
	return strings.Join(u.Fields(), ",")
}
