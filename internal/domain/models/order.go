package models

import "time"

// Order - заказ покупателя на объявление.
// listing, buyer и seller приходят либо id, либо объектом; *_details могут
// независимо содержать тот же объект.
type Order struct {
	ID              int64            `json:"id"`
	Listing         Ref[Listing]     `json:"listing"`
	ListingDetails  *Listing         `json:"listing_details,omitempty"`
	ListingTitle    string           `json:"listing_title,omitempty"`
	Buyer           Ref[UserProfile] `json:"buyer"`
	BuyerDetails    *UserProfile     `json:"buyer_details,omitempty"`
	BuyerUsername   string           `json:"buyer_username,omitempty"`
	Seller          Ref[UserProfile] `json:"seller"`
	SellerDetails   *UserProfile     `json:"seller_details,omitempty"`
	Quantity        Amount           `json:"quantity"`
	TotalPrice      Amount           `json:"total_price"`
	Status          OrderStatus      `json:"status"`
	Notes           string           `json:"notes,omitempty"`
	ShippingAddress string           `json:"shipping_address,omitempty"`
	ShippingMethod  string           `json:"shipping_method,omitempty"`
	PaymentMethod   string           `json:"payment_method,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// Clone делает глубокую копию заказа.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	c.Listing = o.Listing.Clone((*Listing).Clone)
	c.ListingDetails = o.ListingDetails.Clone()
	c.Buyer = o.Buyer.Clone((*UserProfile).Clone)
	c.BuyerDetails = o.BuyerDetails.Clone()
	c.Seller = o.Seller.Clone((*UserProfile).Clone)
	c.SellerDetails = o.SellerDetails.Clone()
	return &c
}

// ListingID возвращает id объявления из любой доступной формы.
func (o *Order) ListingID() (int64, bool) {
	if id, ok := o.Listing.ID(); ok {
		return id, true
	}
	if !o.ListingDetails.IsEmpty() && o.ListingDetails.ID != 0 {
		return o.ListingDetails.ID, true
	}
	return 0, false
}

// SellerID возвращает id продавца, если он известен.
func (o *Order) SellerID() (int64, bool) {
	if id, ok := o.Seller.ID(); ok {
		return id, true
	}
	if !o.SellerDetails.IsEmpty() && o.SellerDetails.ID != 0 {
		return o.SellerDetails.ID, true
	}
	return 0, false
}

// UpdateOrderStatusRequest - тело POST /orders/{id}/update_status/.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

// CreateOrderRequest - тело POST /orders/. Покупателя и total_price
// upstream выставляет сам.
type CreateOrderRequest struct {
	Listing         int64  `json:"listing" validate:"required,gt=0"`
	Quantity        Amount `json:"quantity" validate:"required,positive_amount"`
	ShippingAddress string `json:"shipping_address" validate:"required,max=1000"`
	ShippingMethod  string `json:"shipping_method,omitempty" validate:"max=50"`
	PaymentMethod   string `json:"payment_method,omitempty" validate:"max=50"`
	Notes           string `json:"notes,omitempty" validate:"max=1000"`
}
