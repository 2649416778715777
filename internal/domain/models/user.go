package models

// UserProfile - публичный профиль пользователя маркетплейса
type UserProfile struct {
	ID               int64  `json:"id"`
	Username         string `json:"username"`
	Email            string `json:"email"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	UserType         string `json:"user_type,omitempty"`
	OrganizationName string `json:"organization_name,omitempty"`
	ProfileImage     string `json:"profile_image"`
}

func (u UserProfile) GetID() int64 { return u.ID }

// IsEmpty - true для nil и для пустого объекта {}.
func (u *UserProfile) IsEmpty() bool {
	return u == nil || *u == UserProfile{}
}

func (u *UserProfile) Clone() *UserProfile {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
