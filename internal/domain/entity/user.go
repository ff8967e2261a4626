package entity

// UserProfile is the "users" document of an account. Business owners carry
// IsPyme plus the id of the pyme they run.
type UserProfile struct {
	UID         string   `json:"uid" firestore:"-"`
	DisplayName string   `json:"display_name" firestore:"display_name"`
	Email       string   `json:"email" firestore:"email"`
	PhotoURL    string   `json:"photo_url,omitempty" firestore:"photo_url,omitempty"`
	PhoneNumber string   `json:"phone_number,omitempty" firestore:"phone_number,omitempty"`
	IsPyme      bool     `json:"isPyme" firestore:"isPyme"`
	PymeID      string   `json:"pyme,omitempty" firestore:"pyme,omitempty"`
	Tokens      []string `json:"tokens,omitempty" firestore:"tokens,omitempty"`
}

// BusinessID returns the linked pyme only for accounts flagged as business owners.
func (u *UserProfile) BusinessID() string {
	if u == nil || !u.IsPyme || u.PymeID == "" {
		return ""
	}
	return u.PymeID
}
