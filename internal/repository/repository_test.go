package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/ayo6706/remittance-core/internal/commission"
	"github.com/ayo6706/remittance-core/internal/fx"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *Repository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewRepository(mock)
}

var currencyRowColumns = []string{"code", "name", "price_type", "exchange_rate", "buying_price", "selling_price"}

func TestListCurrencies(t *testing.T) {
	mock, repo := newMock(t)

	rows := pgxmock.NewRows(currencyRowColumns).
		AddRow("KES", "Kenyan shilling", "percentage", ptr("1.2"), ptr("5"), (*string)(nil)).
		AddRow("USD", "US dollar", "fixed", (*string)(nil), ptr("1300"), ptr("1320"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM currencies ORDER BY code")).WillReturnRows(rows)

	got, err := repo.ListCurrencies(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "KES", got[0].Code)
	assert.Equal(t, fx.Percentage, got[0].PriceType)
	assert.Equal(t, fx.Price("1.2"), got[0].ExchangeRate)
	assert.False(t, got[0].SellingPrice.Present())

	assert.Equal(t, fx.Price("1320"), got[1].SellingPrice)
	assert.False(t, got[1].ExchangeRate.Present())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCurrency_NotFound(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE UPPER(code) = UPPER($1)")).
		WithArgs("xyz").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetCurrency(context.Background(), "xyz")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertCurrency_StoresAbsentPricesAsNull(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO currencies")).
		WithArgs("USD", "US dollar", "fixed", (*string)(nil), ptr("1300"), (*string)(nil)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.UpsertCurrency(context.Background(), fx.Currency{
		Code:        "USD",
		Name:        "US dollar",
		BuyingPrice: "1300",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCurrency_Missing(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM currencies")).
		WithArgs("EUR").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.DeleteCurrency(context.Background(), "EUR")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPairRates_KeepsCreationOrder(t *testing.T) {
	mock, repo := newMock(t)
	first, second := uuid.New(), uuid.New()
	rows := pgxmock.NewRows([]string{"id", "from_code", "to_code", "price_type", "buying_price", "selling_price"}).
		AddRow(first, "USD", "KES", "fixed", ptr("130"), ptr("131")).
		AddRow(second, "USD", "KES", "fixed", ptr("999"), ptr("999"))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at, id")).WillReturnRows(rows)

	got, err := repo.ListPairRates(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first.String(), got[0].ID)
	assert.Equal(t, fx.Price("130"), got[0].BuyingPrice)
	assert.Equal(t, second.String(), got[1].ID)
}

func TestDeletePairRate_Missing(t *testing.T) {
	mock, repo := newMock(t)
	id := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM pair_rates")).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.DeletePairRate(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListTiers(t *testing.T) {
	mock, repo := newMock(t)
	rows := pgxmock.NewRows([]string{"min_amount", "agent_percent", "company_percent"}).
		AddRow(0.0, 1.0, 1.0).
		AddRow(100.0, 1.5, 0.5)
	mock.ExpectQuery(regexp.QuoteMeta("FROM commission_tiers")).
		WithArgs("withdrawal").
		WillReturnRows(rows)

	got, err := repo.ListTiers(context.Background(), commission.KindWithdrawal)
	require.NoError(t, err)
	assert.Equal(t, []commission.Tier{
		{MinAmount: 0, AgentPercent: 1, CompanyPercent: 1},
		{MinAmount: 100, AgentPercent: 1.5, CompanyPercent: 0.5},
	}, got)
}

func TestReplaceTiers_InTransaction(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM commission_tiers")).
		WithArgs("send").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO commission_tiers")).
		WithArgs("send", 0.0, 0.0, 2.0).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO commission_tiers")).
		WithArgs("send", 500.0, 0.0, 1.5).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := repo.RunInTx(context.Background(), func(tx *Repository) error {
		return tx.ReplaceTiers(context.Background(), commission.KindSend, []commission.Tier{
			{MinAmount: 0, CompanyPercent: 2},
			{MinAmount: 500, CompanyPercent: 1.5},
		})
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTx_RollsBackOnError(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := repo.RunInTx(context.Background(), func(tx *Repository) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertAuditLog(t *testing.T) {
	mock, repo := newMock(t)
	next := `{"code":"USD"}`
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO audit_log")).
		WithArgs("currency", "USD", (*uuid.UUID)(nil), "upsert", (*string)(nil), &next, []byte(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

	id, err := repo.InsertAuditLog(context.Background(), InsertAuditLogParams{
		EntityType: "currency",
		EntityID:   "USD",
		Action:     "upsert",
		NextState:  &next,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestReserveIdempotencyKey_Conflict(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (idempotency_key) DO NOTHING")).
		WithArgs("k1", "h1", "PUT", "/v1/admin/currencies/USD").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.ReserveIdempotencyKey(context.Background(), ReserveIdempotencyKeyParams{
		IdempotencyKey: "k1",
		RequestHash:    "h1",
		Method:         "PUT",
		Path:           "/v1/admin/currencies/USD",
	})
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestReleaseIdempotencyKey_OnlyInProgress(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM idempotency_keys")).
		WithArgs("k1", "h1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, repo.ReleaseIdempotencyKey(context.Background(), "k1", "h1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
