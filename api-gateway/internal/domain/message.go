package domain

import "sort"

const MessageStatusPending = "pending"

// Message is a contact form entry or a manual-payment order.
type Message struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Message string `json:"message"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Status  string `json:"status"`
	Read    bool   `json:"read"`
}

type MessageStats struct {
	Total  int `json:"total"`
	Unread int `json:"unread"`
	Read   int `json:"read"`
}

// MessagePatch carries the fields an admin may change on a message.
type MessagePatch struct {
	Read   *bool   `json:"read"`
	Status *string `json:"status"`
}

func (p MessagePatch) Apply(m *Message) {
	if p.Read != nil {
		m.Read = *p.Read
	}
	if p.Status != nil && *p.Status != "" {
		m.Status = *p.Status
	}
}

// SortMessagesNewestFirst orders by date, then time, then id, all descending.
func SortMessagesNewestFirst(msgs []Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		a, b := msgs[i], msgs[j]
		if a.Date != b.Date {
			return a.Date > b.Date
		}
		if a.Time != b.Time {
			return a.Time > b.Time
		}
		return a.ID > b.ID
	})
}

func ComputeMessageStats(msgs []Message) MessageStats {
	stats := MessageStats{Total: len(msgs)}
	for _, m := range msgs {
		if !m.Read {
			stats.Unread++
		}
	}
	stats.Read = stats.Total - stats.Unread
	return stats
}
