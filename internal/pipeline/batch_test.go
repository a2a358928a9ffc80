package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/fintide/internal/fields"
	"github.com/sells-group/fintide/internal/model"
	"github.com/sells-group/fintide/internal/statement"
)

func newMockLoader(t *testing.T) (*statement.Loader, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return statement.NewLoader(mock, statement.IncomeDefinition(fields.IncomeSpecs)), mock
}

func TestRunBatch_EmptyUniverse(t *testing.T) {
	o := newOrchestrator(&fakeStore{}, nil)

	summary, err := o.RunBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, summary.RunID)
	assert.Zero(t, summary.Processed)
}

func TestRunBatch_IsolatesCompanyFailures(t *testing.T) {
	loader, mock := newMockLoader(t)

	// Company 2's only pending record is empty and gets rejected by the
	// loader; no database work happens for it.
	src := &fakeSource{records: map[int64][]StatementRecord{
		2: {{Type: model.StatementIncome, Record: model.RawRecord{}, PeriodDate: fixedNow}},
	}}

	fs := &fakeStore{}
	o := newOrchestrator(fs, []*statement.Loader{loader}).WithSource(src)

	summary, err := o.RunBatch(context.Background(), []int64{1, 2, 3})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Processed)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)

	var failedIDs []int64
	for _, st := range summary.Companies {
		if st.Err != "" {
			failedIDs = append(failedIDs, st.CompanyID)
		}
	}
	assert.Equal(t, []int64{2}, failedIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunBatch_BadRecordSkippedGoodRecordLoaded(t *testing.T) {
	loader, mock := newMockLoader(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO financial_statements`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(21)))
	mock.ExpectExec(`INSERT INTO "income_details"`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	src := &fakeSource{records: map[int64][]StatementRecord{
		1: {
			{Type: model.StatementIncome, Record: model.RawRecord{}, PeriodDate: fixedNow},
			{Type: model.StatementIncome, Record: model.RawRecord{"revenue": 100.0}, PeriodDate: fixedNow},
		},
	}}

	fs := &fakeStore{}
	o := newOrchestrator(fs, []*statement.Loader{loader}).WithSource(src)

	summary, err := o.RunBatch(context.Background(), []int64{1})
	require.NoError(t, err)
	require.Len(t, summary.Companies, 1)

	st := summary.Companies[0]
	assert.Empty(t, st.Err)
	assert.Equal(t, 1, st.StatementsLoaded)
	assert.Equal(t, 1, st.StatementsSkipped)
	assert.Equal(t, 1, summary.Succeeded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunBatch_FullPipelineForOneCompany(t *testing.T) {
	loader, mock := newMockLoader(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO financial_statements`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectExec(`INSERT INTO "income_details"`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	fs := fullFixture()
	fs.history = bars(250, 100, 0)

	src := &fakeSource{records: map[int64][]StatementRecord{
		1: {{
			Type:       model.StatementIncome,
			Record:     model.RawRecord{"revenue": 2000000.0, "netIncome": 400000.0},
			PeriodDate: time.Date(2024, time.September, 30, 0, 0, 0, 0, time.UTC),
		}},
	}}

	o := newOrchestrator(fs, []*statement.Loader{loader}).WithSource(src)

	summary, err := o.RunBatch(context.Background(), []int64{1})
	require.NoError(t, err)
	require.Len(t, summary.Companies, 1)

	st := summary.Companies[0]
	assert.Empty(t, st.Err)
	assert.Equal(t, 1, st.StatementsLoaded)
	assert.True(t, st.ValuationComputed)
	assert.Equal(t, 3, st.Forecasts)

	assert.Len(t, fs.savedValuations, 1)
	assert.Len(t, fs.savedForecasts, 3)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunBatch_SourceErrorFailsCompany(t *testing.T) {
	src := &fakeSource{err: errors.New("feed unreachable")}
	o := newOrchestrator(&fakeStore{}, nil).WithSource(src)

	summary, err := o.RunBatch(context.Background(), []int64{1})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
	assert.Contains(t, summary.Companies[0].Err, "pending statements")
}

func TestRunBatch_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := newOrchestrator(&fakeStore{}, nil)

	summary, err := o.RunBatch(ctx, []int64{1, 2, 3})
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, summary)
	assert.Empty(t, summary.Companies)
}

func TestRunBatch_ParallelismRunsAllCompanies(t *testing.T) {
	o := newOrchestrator(&fakeStore{}, nil)
	o.cfg.Parallelism = 4

	summary, err := o.RunBatch(context.Background(), []int64{1, 2, 3, 4, 5, 6, 7, 8})
	require.NoError(t, err)
	assert.Equal(t, 8, summary.Processed)
	assert.Equal(t, 8, summary.Succeeded)
}
