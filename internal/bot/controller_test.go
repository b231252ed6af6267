package bot_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kopilka/internal/bot"
	"kopilka/internal/report"
	"kopilka/internal/services"
	"kopilka/internal/storage"
)

// newController wires a real store, ledger and report engine so a turn runs
// the same path it does in the binary, minus the event stream.
func newController(t *testing.T) (*bot.Controller, *report.Engine) {
	t.Helper()

	store, err := storage.New(filepath.Join(t.TempDir(), "kopilka.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	engine := report.NewEngine(store)
	ledger := services.NewLedger(store, nil, engine)
	return bot.New(ledger, engine), engine
}

func TestGreetRegistersAndShowsMainMenu(t *testing.T) {
	c, _ := newController(t)

	resp, err := c.Greet(context.Background(), 1)
	require.NoError(t, err)

	assert.Contains(t, resp.Text, "Финансовый помощник")
	assert.Contains(t, resp.Text, "500 еда")
	assert.Equal(t, bot.MainMenu(), resp.Menu)
}

func TestExpenseTurnThenStats(t *testing.T) {
	c, _ := newController(t)
	ctx := context.Background()

	_, err := c.Greet(ctx, 1)
	require.NoError(t, err)

	resp, err := c.HandleText(ctx, 1, "500 еда")
	require.NoError(t, err)
	assert.Equal(t, "Расход добавлен", resp.Text)
	assert.Equal(t, bot.MainMenu(), resp.Menu)

	resp, err = c.HandleAction(ctx, 1, bot.ActionToday)
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "💸 Расходы: 500 ₽")
	assert.Contains(t, resp.Text, "🍔 Еда — 500 ₽")
	assert.Contains(t, resp.Text, "🔴 Баланс: -500 ₽")
}

func TestIncomeTurnThenBalance(t *testing.T) {
	c, _ := newController(t)
	ctx := context.Background()

	_, err := c.Greet(ctx, 1)
	require.NoError(t, err)

	resp, err := c.HandleText(ctx, 1, "5000 доход")
	require.NoError(t, err)
	assert.Equal(t, "Доход добавлен", resp.Text)

	resp, err = c.HandleAction(ctx, 1, bot.ActionWeek)
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "💰 Доходы: 5000 ₽")
	assert.Contains(t, resp.Text, "🟢 Баланс: 5000 ₽")
}

func TestStatsReflectWritesImmediately(t *testing.T) {
	// Each write invalidates the cached summary, so a stats turn right
	// after never serves stale numbers.
	c, _ := newController(t)
	ctx := context.Background()

	_, err := c.Greet(ctx, 1)
	require.NoError(t, err)

	resp, err := c.HandleAction(ctx, 1, bot.ActionMonth)
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "💸 Расходы: 0 ₽")

	_, err = c.HandleText(ctx, 1, "300 такси")
	require.NoError(t, err)

	resp, err = c.HandleAction(ctx, 1, bot.ActionMonth)
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "💸 Расходы: 300 ₽")
	assert.Contains(t, resp.Text, "🚕 Транспорт — 300 ₽")
}

func TestCreditLifecycleThroughTurns(t *testing.T) {
	c, _ := newController(t)
	ctx := context.Background()

	_, err := c.Greet(ctx, 1)
	require.NoError(t, err)

	resp, err := c.HandleAction(ctx, 1, bot.ActionCredits)
	require.NoError(t, err)
	assert.Equal(t, "Кредитов нет", resp.Text)
	assert.Equal(t, bot.CreditsMenu(), resp.Menu)

	resp, err = c.HandleText(ctx, 1, "кредит ипотека 25000 15")
	require.NoError(t, err)
	assert.Equal(t, "Кредит добавлен", resp.Text)

	resp, err = c.HandleAction(ctx, 1, bot.ActionCredits)
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "ипотека: 25000 ₽, день 15")

	resp, err = c.HandleText(ctx, 1, "удалить ипотека")
	require.NoError(t, err)
	assert.Equal(t, "Кредит удалён", resp.Text)

	resp, err = c.HandleAction(ctx, 1, bot.ActionCredits)
	require.NoError(t, err)
	assert.Equal(t, "Кредитов нет", resp.Text)
}

func TestDeleteMissingCreditStillConfirms(t *testing.T) {
	c, _ := newController(t)
	ctx := context.Background()

	_, err := c.Greet(ctx, 1)
	require.NoError(t, err)

	resp, err := c.HandleText(ctx, 1, "удалить нет-такого")
	require.NoError(t, err)
	assert.Equal(t, "Кредит удалён", resp.Text)
}

func TestGarbageInputGetsUsageHintNotError(t *testing.T) {
	c, _ := newController(t)
	ctx := context.Background()

	_, err := c.Greet(ctx, 1)
	require.NoError(t, err)

	for _, text := range []string{"abc xyz", "", "привет", "500"} {
		resp, err := c.HandleText(ctx, 1, text)
		require.NoError(t, err, "input %q", text)
		assert.Contains(t, resp.Text, "Примеры:", "input %q", text)
		assert.Equal(t, bot.MainMenu(), resp.Menu)
	}
}

func TestBadNumberGetsPointedHint(t *testing.T) {
	c, _ := newController(t)
	ctx := context.Background()

	_, err := c.Greet(ctx, 1)
	require.NoError(t, err)

	resp, err := c.HandleText(ctx, 1, "кредит ипотека много 15")
	require.NoError(t, err)
	assert.Equal(t, "«много» не похоже на число", resp.Text)
}

func TestValidationFailureBecomesHint(t *testing.T) {
	c, _ := newController(t)
	ctx := context.Background()

	_, err := c.Greet(ctx, 1)
	require.NoError(t, err)

	resp, err := c.HandleText(ctx, 1, "кредит ипотека 25000 40")
	require.NoError(t, err)
	assert.Equal(t, "День платежа должен быть от 1 до 31", resp.Text)
}

func TestMenuPromptsAndNavigation(t *testing.T) {
	c, _ := newController(t)
	ctx := context.Background()

	_, err := c.Greet(ctx, 1)
	require.NoError(t, err)

	cases := []struct {
		action   string
		wantText string
		wantMenu bot.Menu
	}{
		{bot.ActionAdd, "Введите расход:\n`500 еда`", bot.MainMenu()},
		{bot.ActionIncome, "Введите доход:\n`5000 доход`", bot.MainMenu()},
		{bot.ActionCreditAdd, "`кредит <название> <сумма> <день>`", bot.CreditsMenu()},
		{bot.ActionCreditDelete, "`удалить <название>`", bot.CreditsMenu()},
		{bot.ActionBack, "Главное меню", bot.MainMenu()},
	}
	for _, tc := range cases {
		resp, err := c.HandleAction(ctx, 1, tc.action)
		require.NoError(t, err, "action %q", tc.action)
		assert.Equal(t, tc.wantText, resp.Text, "action %q", tc.action)
		assert.Equal(t, tc.wantMenu, resp.Menu, "action %q", tc.action)
	}
}

func TestUnknownActionGetsUsageHint(t *testing.T) {
	c, _ := newController(t)
	ctx := context.Background()

	_, err := c.Greet(ctx, 1)
	require.NoError(t, err)

	resp, err := c.HandleAction(ctx, 1, "selfdestruct")
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "Не понял команду")
	assert.Equal(t, bot.MainMenu(), resp.Menu)
}

func TestUsersAreIsolated(t *testing.T) {
	c, _ := newController(t)
	ctx := context.Background()

	_, err := c.Greet(ctx, 1)
	require.NoError(t, err)
	_, err = c.Greet(ctx, 2)
	require.NoError(t, err)

	_, err = c.HandleText(ctx, 1, "500 еда")
	require.NoError(t, err)

	resp, err := c.HandleAction(ctx, 2, bot.ActionToday)
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "💸 Расходы: 0 ₽")
}
