package entity

import "time"

type Participant struct {
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	UserPhoto string `json:"userPhoto,omitempty"`
}

type Conversation struct {
	ID           string        `json:"id"`
	Participants []Participant `json:"participants"`

	// PublicationID is set when the conversation was started from a listing.
	PublicationID string `json:"publicationId,omitempty"`

	LastMessage   string     `json:"lastMessage,omitempty"`
	LastMessageAt *time.Time `json:"lastMessageAt,omitempty"`

	// UnreadCount is written at creation and not maintained afterwards.
	UnreadCount int `json:"unreadCount"`
}

func (c *Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// IsBetween reports whether the conversation is exactly the unordered pair {a, b}.
func (c *Conversation) IsBetween(a, b string) bool {
	if len(c.Participants) != 2 {
		return false
	}
	p0, p1 := c.Participants[0].UserID, c.Participants[1].UserID
	return (p0 == a && p1 == b) || (p0 == b && p1 == a)
}

// Other returns the participant that is not userID.
func (c *Conversation) Other(userID string) (Participant, bool) {
	for _, p := range c.Participants {
		if p.UserID != userID {
			return p, true
		}
	}
	return Participant{}, false
}
