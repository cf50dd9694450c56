// Package model содержит доменные структуры внеклассных занятий и их участников.
package model

// Activity описывает внеклассное занятие: описание, расписание, заявленную вместимость
// и список участников (email) в порядке записи.
type Activity struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// Clone возвращает глубокую копию занятия. Список участников никогда не бывает nil,
// чтобы в JSON он сериализовался как [].
func (a Activity) Clone() Activity {
	participants := make([]string, len(a.Participants))
	copy(participants, a.Participants)
	a.Participants = participants
	return a
}

// HasParticipant проверяет, записан ли email на занятие (точное совпадение).
func (a Activity) HasParticipant(email string) bool {
	for _, p := range a.Participants {
		if p == email {
			return true
		}
	}
	return false
}
