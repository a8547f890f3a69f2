package responses

import "time"

type ChatParty struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Photo string `json:"photo,omitempty"`
}

type ChatSummary struct {
	ID            string     `json:"id"`
	User          *ChatParty `json:"user,omitempty"`
	Nurse         *ChatParty `json:"nurse,omitempty"`
	LastMessageAt *time.Time `json:"lastMessageAt,omitempty"`
}
