package bot

// Button is one pressable menu entry; Action is the token sent back by the
// transport when the button is pressed.
type Button struct {
	Label  string `json:"label"`
	Action string `json:"action"`
}

// Menu is a rendered keyboard: rows of buttons, for the transport layer to
// draw however it likes.
type Menu struct {
	Rows [][]Button `json:"rows"`
}

// Menu action tokens. today/week/month map to report windows of 1/7/30
// days.
const (
	ActionAdd          = "add"
	ActionIncome       = "income"
	ActionToday        = "today"
	ActionWeek         = "week"
	ActionMonth        = "month"
	ActionCredits      = "credits"
	ActionCreditAdd    = "credit_add"
	ActionCreditDelete = "credit_delete"
	ActionBack         = "back"
)

// MainMenu is the initial and default menu state.
func MainMenu() Menu {
	return Menu{Rows: [][]Button{
		{
			{Label: "➕ Расход", Action: ActionAdd},
			{Label: "💰 Доход", Action: ActionIncome},
		},
		{
			{Label: "📊 Сегодня", Action: ActionToday},
			{Label: "📅 Неделя", Action: ActionWeek},
			{Label: "📆 Месяц", Action: ActionMonth},
		},
		{
			{Label: "🏦 Кредиты", Action: ActionCredits},
		},
	}}
}

// CreditsMenu is entered via the credits action and left via back.
func CreditsMenu() Menu {
	return Menu{Rows: [][]Button{
		{{Label: "➕ Добавить кредит", Action: ActionCreditAdd}},
		{{Label: "🗑 Удалить кредит", Action: ActionCreditDelete}},
		{{Label: "⬅️ Назад", Action: ActionBack}},
	}}
}
