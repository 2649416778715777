// Package normalize приводит неполные ответы маркетплейса к форме, которую
// можно отдавать клиенту без проверок на nil: каждое поле *_details
// заполняется настоящим объектом, заглушкой по подсказке или заглушкой
// последней надежды. Пакет не делает запросов в сеть.
package normalize

import (
	"strconv"

	"github.com/linemk/agri-market/internal/domain/models"
)

const (
	RoleSeller   = "seller"
	RoleBuyer    = "buyer"
	RoleSender   = "sender"
	RoleReceiver = "receiver"
)

var roleLabels = map[string]string{
	RoleSeller:   "Vendeur",
	RoleBuyer:    "Acheteur",
	RoleSender:   "Expéditeur",
	RoleReceiver: "Destinataire",
}

// RoleLabel возвращает подпись роли для заглушек.
func RoleLabel(role string) string {
	if l, ok := roleLabels[role]; ok {
		return l
	}
	return role
}

// FromUsername строит минимальный профиль по известному имени пользователя.
func FromUsername(id int64, username, role string) *models.UserProfile {
	first := username
	if first == "" {
		first = RoleLabel(role)
	}
	return &models.UserProfile{
		ID:        id,
		Username:  username,
		FirstName: first,
		UserType:  role,
	}
}

// Placeholder - заглушка, когда кроме id (или даже без него) ничего не известно.
func Placeholder(id int64, role string) *models.UserProfile {
	ref := "inconnu"
	if id != 0 {
		ref = strconv.FormatInt(id, 10)
	}
	return &models.UserProfile{
		ID:        id,
		Username:  "User #" + ref,
		FirstName: RoleLabel(role),
		UserType:  role,
	}
}

// PlaceholderListing - заглушка объявления; title пустой, если подсказки нет.
func PlaceholderListing(id int64, title string, price models.Amount) *models.Listing {
	if title == "" {
		title = "Détails indisponibles"
	}
	return &models.Listing{
		ID:          id,
		Title:       title,
		Description: "Description indisponible",
		Price:       price,
		Country:     "Pays non spécifié",
		Location:    "Localisation non spécifiée",
		Seller:      models.MissingRef[models.UserProfile](),
	}
}

// Order возвращает нормализованную копию заказа и набор полей, оставшихся
// неразрешёнными. Вход не изменяется.
func Order(in *models.Order) (*models.Order, Unresolved) {
	if in == nil {
		return nil, 0
	}
	o := in.Clone()

	var u Unresolved
	// объявление первым: из него берётся продавец
	if !resolveListing(o) {
		u |= ListingDetails
	}
	if !resolveParticipant(&o.BuyerDetails, o.Buyer, o.BuyerUsername, RoleBuyer) {
		u |= BuyerDetails
	}
	if !resolveSeller(o) {
		u |= SellerDetails
	}
	return o, u
}

// Orders нормализует список заказов.
func Orders(in []*models.Order) []*models.Order {
	out := make([]*models.Order, 0, len(in))
	for _, o := range in {
		n, _ := Order(o)
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// Message нормализует отправителя, получателя и вложенное объявление.
// Объявление не синтезируется: сообщение без него допустимо.
func Message(in *models.Message) (*models.Message, Unresolved) {
	if in == nil {
		return nil, 0
	}
	m := in.Clone()

	var u Unresolved
	if !resolveParticipant(&m.SenderDetails, m.Sender, m.SenderUsername, RoleSender) {
		u |= SenderDetails
	}
	if !resolveParticipant(&m.ReceiverDetails, m.Receiver, m.ReceiverUsername, RoleReceiver) {
		u |= ReceiverDetails
	}
	if m.ListingDetails.IsEmpty() {
		if l, ok := m.Listing.Object(); ok && !l.IsEmpty() {
			m.ListingDetails = l.Clone()
		}
	}
	return m, u
}

func Messages(in []*models.Message) []*models.Message {
	out := make([]*models.Message, 0, len(in))
	for _, m := range in {
		n, _ := Message(m)
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// Listing заполняет seller_details объявления.
func Listing(in *models.Listing) (*models.Listing, Unresolved) {
	if in == nil {
		return nil, 0
	}
	l := in.Clone()

	var u Unresolved
	if !resolveParticipant(&l.SellerDetails, l.Seller, l.SellerUsername, RoleSeller) {
		u |= SellerDetails
	}
	return l, u
}

func Listings(in []*models.Listing) []*models.Listing {
	out := make([]*models.Listing, 0, len(in))
	for _, l := range in {
		n, _ := Listing(l)
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// resolveParticipant: продвижение объекта, затем подсказка по имени, затем заглушка.
// Возвращает false, если пришлось использовать заглушку последней надежды.
func resolveParticipant(details **models.UserProfile, ref models.Ref[models.UserProfile], username, role string) bool {
	if !(*details).IsEmpty() {
		return true
	}
	if obj, ok := ref.Object(); ok && !obj.IsEmpty() {
		*details = obj.Clone()
		return true
	}

	id, _ := ref.ID()
	if username != "" {
		*details = FromUsername(id, username, role)
		return true
	}
	*details = Placeholder(id, role)
	return false
}

func resolveListing(o *models.Order) bool {
	if !o.ListingDetails.IsEmpty() {
		return true
	}
	if l, ok := o.Listing.Object(); ok && !l.IsEmpty() {
		o.ListingDetails = l.Clone()
		return true
	}

	id, _ := o.Listing.ID()
	if o.ListingTitle != "" {
		o.ListingDetails = PlaceholderListing(id, o.ListingTitle, o.TotalPrice)
		return true
	}
	o.ListingDetails = PlaceholderListing(id, "", o.TotalPrice)
	return false
}

// resolveSeller ищет продавца в самом заказе, затем в объявлении
// (объект seller, потом seller_username), и только потом ставит заглушку.
func resolveSeller(o *models.Order) bool {
	if !o.SellerDetails.IsEmpty() {
		return true
	}
	if s, ok := o.Seller.Object(); ok && !s.IsEmpty() {
		o.SellerDetails = s.Clone()
		return true
	}

	sellerID, known := o.Seller.ID()
	candidates := listingCandidates(o)

	for _, l := range candidates {
		s, ok := l.SellerObject()
		if !ok || (known && s.ID != sellerID) {
			continue
		}
		o.SellerDetails = s.Clone()
		if !o.Seller.IsResolved() && s.ID != 0 {
			o.Seller = models.IDRef[models.UserProfile](s.ID)
		}
		return true
	}

	for _, l := range candidates {
		if l.SellerUsername == "" {
			continue
		}
		listingSellerID, ok := l.Seller.ID()
		if known && ok && listingSellerID != sellerID {
			continue
		}
		id := sellerID
		if !known {
			id = listingSellerID
		}
		o.SellerDetails = FromUsername(id, l.SellerUsername, RoleSeller)
		if !known && id != 0 {
			o.Seller = models.IDRef[models.UserProfile](id)
		}
		return true
	}

	o.SellerDetails = Placeholder(sellerID, RoleSeller)
	return false
}

func listingCandidates(o *models.Order) []*models.Listing {
	var out []*models.Listing
	if !o.ListingDetails.IsEmpty() {
		out = append(out, o.ListingDetails)
	}
	if l, ok := o.Listing.Object(); ok && l != o.ListingDetails {
		out = append(out, l)
	}
	return out
}
