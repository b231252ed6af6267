// Package bot implements the conversation controller: one parse-and-respond
// turn per inbound message or menu action, no state held between turns
// beyond what the store persists.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"kopilka/internal/core"
	"kopilka/internal/parser"
	"kopilka/internal/report"
)

// Ledger is the write side the controller needs.
type Ledger interface {
	RegisterUser(ctx context.Context, id int64) error
	AddExpense(ctx context.Context, userID, amount int64, category string) (int64, error)
	AddIncome(ctx context.Context, userID, amount int64) (int64, error)
	AddCredit(ctx context.Context, userID int64, name string, amount int64, payDay int) (int64, error)
	RemoveCredit(ctx context.Context, userID int64, name string) (int64, error)
	Credits(ctx context.Context, userID int64) ([]core.Credit, error)
}

// Reporter is the read side.
type Reporter interface {
	Summary(ctx context.Context, userID int64, w report.Window) (report.Summary, error)
}

// Response is what the transport renders: reply text plus the menu to
// re-attach. Every turn carries a menu so the keyboard never disappears.
type Response struct {
	Text string `json:"text"`
	Menu Menu   `json:"menu"`
}

type Controller struct {
	ledger  Ledger
	reports Reporter
}

func New(ledger Ledger, reports Reporter) *Controller {
	return &Controller{ledger: ledger, reports: reports}
}

const usageText = "Примеры:\n" +
	"`500 еда`\n" +
	"`5000 доход`\n" +
	"`кредит ипотека 25000 15`"

// Greet registers the user and returns the welcome message.
func (c *Controller) Greet(ctx context.Context, userID int64) (Response, error) {
	if err := c.ledger.RegisterUser(ctx, userID); err != nil {
		return Response{}, fmt.Errorf("register user: %w", err)
	}
	return Response{
		Text: "💰 *Финансовый помощник*\n\n" + usageText,
		Menu: MainMenu(),
	}, nil
}

// HandleText runs one free-text turn. Parse and validation problems come
// back as user-facing responses with a nil error; only storage failures
// propagate.
func (c *Controller) HandleText(ctx context.Context, userID int64, text string) (Response, error) {
	cmd, err := parser.Parse(text)
	if err != nil {
		return parseFailureResponse(ctx, err), nil
	}

	switch cmd := cmd.(type) {
	case parser.AddExpense:
		_, err = c.ledger.AddExpense(ctx, userID, cmd.Amount, cmd.Category)
		return c.writeOutcome(ctx, "Расход добавлен", err)

	case parser.AddIncome:
		_, err = c.ledger.AddIncome(ctx, userID, cmd.Amount)
		return c.writeOutcome(ctx, "Доход добавлен", err)

	case parser.AddCredit:
		_, err = c.ledger.AddCredit(ctx, userID, cmd.Name, cmd.Amount, cmd.PayDay)
		return c.writeOutcome(ctx, "Кредит добавлен", err)

	case parser.DeleteCredit:
		_, err = c.ledger.RemoveCredit(ctx, userID, cmd.Name)
		return c.writeOutcome(ctx, "Кредит удалён", err)
	}

	return parseFailureResponse(ctx, parser.ErrUnrecognized), nil
}

// HandleAction runs one menu turn. Unknown tokens get the usage hint; the
// same stored data always produces the same class of response.
func (c *Controller) HandleAction(ctx context.Context, userID int64, action string) (Response, error) {
	switch action {
	case ActionAdd:
		return Response{Text: "Введите расход:\n`500 еда`", Menu: MainMenu()}, nil

	case ActionIncome:
		return Response{Text: "Введите доход:\n`5000 доход`", Menu: MainMenu()}, nil

	case ActionToday, ActionWeek, ActionMonth:
		return c.statsResponse(ctx, userID, windowFor(action))

	case ActionCredits:
		return c.creditsResponse(ctx, userID)

	case ActionCreditAdd:
		return Response{Text: "`кредит <название> <сумма> <день>`", Menu: CreditsMenu()}, nil

	case ActionCreditDelete:
		return Response{Text: "`удалить <название>`", Menu: CreditsMenu()}, nil

	case ActionBack:
		return Response{Text: "Главное меню", Menu: MainMenu()}, nil
	}

	slog.WarnContext(ctx, "Unknown menu action", "action", action, "user_id", userID)
	return Response{Text: "Не понял команду.\n\n" + usageText, Menu: MainMenu()}, nil
}

func windowFor(action string) report.Window {
	switch action {
	case ActionWeek:
		return report.WindowWeek
	case ActionMonth:
		return report.WindowMonth
	default:
		return report.WindowToday
	}
}

func (c *Controller) statsResponse(ctx context.Context, userID int64, w report.Window) (Response, error) {
	s, err := c.reports.Summary(ctx, userID, w)
	if err != nil {
		return Response{}, fmt.Errorf("summary: %w", err)
	}

	sign := "🟢"
	if s.Balance < 0 {
		sign = "🔴"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*Статистика*\n\n")
	fmt.Fprintf(&b, "💰 Доходы: %d ₽\n", s.Incomes)
	fmt.Fprintf(&b, "💸 Расходы: %d ₽\n", s.Expenses)
	fmt.Fprintf(&b, "%s Баланс: %d ₽\n\n", sign, s.Balance)
	for _, row := range s.ByCategory {
		fmt.Fprintf(&b, "%s — %d ₽\n", core.CategoryLabel(row.Key), row.Amount)
	}

	return Response{Text: b.String(), Menu: MainMenu()}, nil
}

func (c *Controller) creditsResponse(ctx context.Context, userID int64) (Response, error) {
	credits, err := c.ledger.Credits(ctx, userID)
	if err != nil {
		return Response{}, fmt.Errorf("list credits: %w", err)
	}

	if len(credits) == 0 {
		return Response{Text: "Кредитов нет", Menu: CreditsMenu()}, nil
	}

	var b strings.Builder
	b.WriteString("*Ваши кредиты:*\n\n")
	for _, cr := range credits {
		fmt.Fprintf(&b, "%s: %d ₽, день %d\n", cr.Name, cr.Amount, cr.PayDay)
	}

	return Response{Text: b.String(), Menu: CreditsMenu()}, nil
}

// writeOutcome maps a write result to a reply: validation errors become
// correction hints, storage errors propagate.
func (c *Controller) writeOutcome(ctx context.Context, successText string, err error) (Response, error) {
	if err == nil {
		return Response{Text: successText, Menu: MainMenu()}, nil
	}
	if msg, ok := validationMessage(err); ok {
		return Response{Text: msg, Menu: MainMenu()}, nil
	}
	return Response{}, err
}

func validationMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		return "Сумма должна быть больше нуля", true
	case errors.Is(err, core.ErrInvalidPayDay):
		return "День платежа должен быть от 1 до 31", true
	case errors.Is(err, core.ErrUnknownCategory):
		return "Неизвестная категория", true
	case errors.Is(err, core.ErrEmptyName):
		return "Укажите название кредита", true
	}
	return "", false
}

func parseFailureResponse(ctx context.Context, err error) Response {
	var numErr *parser.InvalidNumberError
	if errors.As(err, &numErr) {
		return Response{
			Text: fmt.Sprintf("«%s» не похоже на число", numErr.Token),
			Menu: MainMenu(),
		}
	}

	slog.DebugContext(ctx, "Unrecognized command", "error", err)
	return Response{Text: "Не понял команду.\n\n" + usageText, Menu: MainMenu()}
}
