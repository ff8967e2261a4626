package entity

import "time"

// UnreadRole names the per-role unread counter field on a chat document.
type UnreadRole string

const (
	UnreadRoleUser UnreadRole = "unreadCountUser"
	UnreadRolePyme UnreadRole = "unreadCountPyme"
)

// ParseUnreadRole maps "unreadCountPyme" to the business counter and anything else to the user counter.
func ParseUnreadRole(role string) UnreadRole {
	if role == string(UnreadRolePyme) {
		return UnreadRolePyme
	}
	return UnreadRoleUser
}

func (r UnreadRole) Field() string {
	return string(r)
}

// Other returns the counter belonging to the opposite side of the chat.
func (r UnreadRole) Other() UnreadRole {
	if r == UnreadRolePyme {
		return UnreadRoleUser
	}
	return UnreadRolePyme
}

type Chat struct {
	ID                 string    `json:"id" firestore:"-"`
	UserID             string    `json:"id_user" firestore:"idUser"`
	PymeID             string    `json:"id_pyme" firestore:"idPyme"`
	UnreadCountUser    int       `json:"unread_count_user" firestore:"unreadCountUser"`
	UnreadCountPyme    int       `json:"unread_count_pyme" firestore:"unreadCountPyme"`
	DefaultMessageSent bool      `json:"mensaje_enviado" firestore:"mensajeEnviado"`
	CreatedAt          time.Time `json:"creado_en" firestore:"creadoEn"`

	// Summary of the latest message, read by the chat list.
	LastMessage   string    `json:"ultimo_mensaje,omitempty" firestore:"ultimoMensaje,omitempty"`
	LastMessageAt time.Time `json:"hora,omitempty" firestore:"hora,omitempty"`
	LastSenderID  string    `json:"user,omitempty" firestore:"user,omitempty"`
}

// ChatID is the identifier the new-chat entry point derives for a (user, pyme) pair.
func ChatID(userID, pymeID string) string {
	return userID + "-" + pymeID
}

func (c *Chat) Unread(role UnreadRole) int {
	if role == UnreadRolePyme {
		return c.UnreadCountPyme
	}
	return c.UnreadCountUser
}

func (c *Chat) HasLastMessage() bool {
	return c.LastMessage != "" && !c.LastMessageAt.IsZero()
}

type ChatSummary struct {
	LastMessage   string
	LastMessageAt time.Time
	LastSenderID  string
}

// ChatListItem is a chat as seen by one of its participants.
type ChatListItem struct {
	*Chat
	Role   UnreadRole `json:"role"`
	Unread int        `json:"unread"`
}
