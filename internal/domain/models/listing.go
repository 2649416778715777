package models

import "time"

// ListingImage - изображение объявления.
type ListingImage struct {
	ID        int64  `json:"id"`
	ImageURL  string `json:"image_url"`
	IsPrimary bool   `json:"is_primary,omitempty"`
}

// Listing - объявление о продаже отходов. Поле seller приходит то id, то объектом.
type Listing struct {
	ID             int64            `json:"id"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	Price          Amount           `json:"price"`
	Currency       string           `json:"currency,omitempty"`
	Quantity       Amount           `json:"quantity"`
	Unit           string           `json:"unit,omitempty"`
	WasteType      Ref[WasteType]   `json:"waste_type"`
	WasteTypeName  string           `json:"waste_type_name,omitempty"`
	Seller         Ref[UserProfile] `json:"seller"`
	SellerDetails  *UserProfile     `json:"seller_details,omitempty"`
	SellerUsername string           `json:"seller_username,omitempty"`
	Location       string           `json:"location"`
	Country        string           `json:"country"`
	Status         string           `json:"status,omitempty"`
	IsActive       bool             `json:"is_active"`
	Featured       bool             `json:"featured,omitempty"`
	Images         []ListingImage   `json:"images,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

func (l Listing) GetID() int64 { return l.ID }

func (l *Listing) IsEmpty() bool {
	return l == nil || (l.ID == 0 && l.Title == "")
}

// Clone делает глубокую копию объявления.
func (l *Listing) Clone() *Listing {
	if l == nil {
		return nil
	}
	c := *l
	c.WasteType = l.WasteType.Clone(func(w *WasteType) *WasteType {
		cp := *w
		return &cp
	})
	c.Seller = l.Seller.Clone((*UserProfile).Clone)
	c.SellerDetails = l.SellerDetails.Clone()
	if l.Images != nil {
		c.Images = make([]ListingImage, len(l.Images))
		copy(c.Images, l.Images)
	}
	return &c
}

// SellerObject возвращает продавца, если он известен объектом.
func (l *Listing) SellerObject() (*UserProfile, bool) {
	if l == nil {
		return nil, false
	}
	if !l.SellerDetails.IsEmpty() {
		return l.SellerDetails, true
	}
	if s, ok := l.Seller.Object(); ok && !s.IsEmpty() {
		return s, true
	}
	return nil, false
}

// ListingRequest - тело POST /listings/. Продавца upstream берёт из токена.
type ListingRequest struct {
	WasteType      int64  `json:"waste_type" validate:"required,gt=0"`
	Title          string `json:"title" validate:"required,max=255"`
	Description    string `json:"description" validate:"required"`
	Quantity       Amount `json:"quantity" validate:"required,positive_amount"`
	Unit           string `json:"unit" validate:"required,oneof=KG TON CUBIC_M LITER UNIT"`
	Price          Amount `json:"price" validate:"required,positive_amount"`
	Currency       string `json:"currency,omitempty" validate:"omitempty,oneof=TND LYD DZD"`
	Location       string `json:"location" validate:"required,max=255"`
	Country        string `json:"country,omitempty" validate:"omitempty,oneof=TN LY DZ"`
	AvailableFrom  string `json:"available_from" validate:"required,datetime=2006-01-02"`
	AvailableUntil string `json:"available_until,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// ListingPatch - тело PATCH /listings/{id}/: уходят только заданные поля.
type ListingPatch struct {
	WasteType      *int64  `json:"waste_type,omitempty" validate:"omitempty,gt=0"`
	Title          *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Description    *string `json:"description,omitempty" validate:"omitempty,min=1"`
	Quantity       *Amount `json:"quantity,omitempty" validate:"omitempty,positive_amount"`
	Unit           *string `json:"unit,omitempty" validate:"omitempty,oneof=KG TON CUBIC_M LITER UNIT"`
	Price          *Amount `json:"price,omitempty" validate:"omitempty,positive_amount"`
	Currency       *string `json:"currency,omitempty" validate:"omitempty,oneof=TND LYD DZD"`
	Location       *string `json:"location,omitempty" validate:"omitempty,min=1,max=255"`
	Country        *string `json:"country,omitempty" validate:"omitempty,oneof=TN LY DZ"`
	AvailableFrom  *string `json:"available_from,omitempty" validate:"omitempty,datetime=2006-01-02"`
	AvailableUntil *string `json:"available_until,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Status         *string `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE SOLD EXPIRED PAUSED"`
	Featured       *bool   `json:"featured,omitempty"`
}

// IsEmpty - в патче нет ни одного поля.
func (p ListingPatch) IsEmpty() bool {
	return p == ListingPatch{}
}
