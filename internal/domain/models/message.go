package models

import (
	"encoding/json"
	"time"
)

// Message - сообщение между пользователями, опционально привязанное к объявлению.
type Message struct {
	ID               int64            `json:"id"`
	Sender           Ref[UserProfile] `json:"sender"`
	SenderDetails    *UserProfile     `json:"sender_details,omitempty"`
	SenderUsername   string           `json:"sender_username,omitempty"`
	Receiver         Ref[UserProfile] `json:"receiver"`
	ReceiverDetails  *UserProfile     `json:"receiver_details,omitempty"`
	ReceiverUsername string           `json:"receiver_username,omitempty"`
	Listing          Ref[Listing]     `json:"listing"`
	ListingDetails   *Listing         `json:"listing_details,omitempty"`
	ParentMessage    *int64           `json:"parent_message,omitempty"`
	Subject          string           `json:"subject"`
	Content          string           `json:"content"`
	Read             bool             `json:"read"`
	CreatedAt        time.Time        `json:"created_at"`
}

// UnmarshalJSON принимает и receiver, и устаревшее recipient.
func (m *Message) UnmarshalJSON(data []byte) error {
	type plain Message
	aux := struct {
		*plain
		Recipient        Ref[UserProfile] `json:"recipient"`
		RecipientDetails *UserProfile     `json:"recipient_details"`
	}{plain: (*plain)(m)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if m.Receiver.IsMissing() {
		m.Receiver = aux.Recipient
	}
	if m.ReceiverDetails == nil {
		m.ReceiverDetails = aux.RecipientDetails
	}
	return nil
}

func (m *Message) Clone() *Message {
	if m == nil {
		return nil
	}
	c := *m
	c.Sender = m.Sender.Clone((*UserProfile).Clone)
	c.SenderDetails = m.SenderDetails.Clone()
	c.Receiver = m.Receiver.Clone((*UserProfile).Clone)
	c.ReceiverDetails = m.ReceiverDetails.Clone()
	c.Listing = m.Listing.Clone((*Listing).Clone)
	c.ListingDetails = m.ListingDetails.Clone()
	if m.ParentMessage != nil {
		p := *m.ParentMessage
		c.ParentMessage = &p
	}
	return &c
}

// SendMessageRequest - тело POST /messages/.
type SendMessageRequest struct {
	Receiver      int64  `json:"receiver" validate:"required,gt=0"`
	Subject       string `json:"subject" validate:"required,max=255"`
	Content       string `json:"content" validate:"required"`
	Listing       *int64 `json:"listing,omitempty" validate:"omitempty,gt=0"`
	ParentMessage *int64 `json:"parent_message,omitempty" validate:"omitempty,gt=0"`
}
