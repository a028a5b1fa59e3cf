package cache

type (
	// набор данных привязываемый к пользователю бота
	Chat struct {
		// предыдущий экран
		PreviousState string `json:"prev_state"`
		// текущий экран
		CurrentState string `json:"curr_state"`
		// следующее текстовое сообщение - обращение к админу
		AwaitingTicket bool `json:"awaiting_ticket"`
	}
)
