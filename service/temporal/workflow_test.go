package temporal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.temporal.io/sdk/testsuite"
)

func TestBurnReportWorkflow(t *testing.T) {
	testWallet := "TestWa11et11111111111111111111111111111"
	testMint := "TestMint111111111111111111111111111111"

	tests := []struct {
		name           string
		input          BurnReportInput
		mockActivities func(scanMock, priceMock *testsuite.MockCallWrapper)
		expectedError  bool
		validateResult func(*testing.T, *BurnReportResult)
	}{
		{
			name: "successful run with burns",
			input: BurnReportInput{
				WalletAddress: testWallet,
				TokenMint:     testMint,
				BatchLimit:    100,
				MaxPages:      20,
			},
			mockActivities: func(scanMock, priceMock *testsuite.MockCallWrapper) {
				scanMock.Return(&ScanBurnsResult{
					Count:   3,
					TotalUI: "1234.5",
				}, nil)
				priceMock.Return(&ReportPriceResult{
					PriceUSD:     0.025,
					Provider:     "jupiter",
					BurnTotalUSD: 30.8625,
				}, nil)
			},
			expectedError: false,
			validateResult: func(t *testing.T, result *BurnReportResult) {
				assert.Equal(t, 3, result.BurnCount)
				assert.Equal(t, "1234.5", result.BurnTotalUI)
				assert.Equal(t, 0.025, result.PriceUSD)
				assert.Equal(t, "jupiter", result.Provider)
				assert.Equal(t, 30.8625, result.BurnTotalUSD)
				assert.Nil(t, result.Error)
			},
		},
		{
			name: "successful run with no burns",
			input: BurnReportInput{
				WalletAddress: testWallet,
				TokenMint:     testMint,
			},
			mockActivities: func(scanMock, priceMock *testsuite.MockCallWrapper) {
				scanMock.Return(&ScanBurnsResult{
					Count:   0,
					TotalUI: "0",
				}, nil)
				priceMock.Return(&ReportPriceResult{
					PriceUSD:     0.025,
					Provider:     "dexscreener",
					BurnTotalUSD: 0,
				}, nil)
			},
			expectedError: false,
			validateResult: func(t *testing.T, result *BurnReportResult) {
				assert.Equal(t, 0, result.BurnCount)
				assert.Equal(t, "0", result.BurnTotalUI)
				assert.Equal(t, "dexscreener", result.Provider)
				assert.Nil(t, result.Error)
			},
		},
		{
			name: "burn scan fails",
			input: BurnReportInput{
				WalletAddress: testWallet,
				TokenMint:     testMint,
			},
			mockActivities: func(scanMock, priceMock *testsuite.MockCallWrapper) {
				scanMock.Return(nil, errors.New("solana RPC error"))
				// ReportPrice must not run when the scan fails.
			},
			expectedError: true,
			validateResult: func(t *testing.T, result *BurnReportResult) {
				// The workflow records what it can before failing; the
				// error itself is checked separately.
			},
		},
		{
			name: "price report fails",
			input: BurnReportInput{
				WalletAddress: testWallet,
				TokenMint:     testMint,
			},
			mockActivities: func(scanMock, priceMock *testsuite.MockCallWrapper) {
				scanMock.Return(&ScanBurnsResult{
					Count:   1,
					TotalUI: "0.75",
				}, nil)
				priceMock.Return(nil, errors.New("all price sources failed"))
			},
			expectedError: true,
			validateResult: func(t *testing.T, result *BurnReportResult) {
				// Scan results are still captured before the failure.
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testSuite := &testsuite.WorkflowTestSuite{}
			env := testSuite.NewTestWorkflowEnvironment()

			// Register activities first (before mocking)
			activities := &Activities{}
			env.RegisterActivity(activities.ScanBurns)
			env.RegisterActivity(activities.ReportPrice)

			scanMock := env.OnActivity(activities.ScanBurns, mock.Anything, mock.Anything)
			priceMock := env.OnActivity(activities.ReportPrice, mock.Anything, mock.Anything)

			tt.mockActivities(scanMock, priceMock)

			env.ExecuteWorkflow(BurnReportWorkflow, tt.input)

			if tt.expectedError {
				assert.Error(t, env.GetWorkflowError())

				var result BurnReportResult
				env.GetWorkflowResult(&result)
				tt.validateResult(t, &result)
			} else {
				assert.NoError(t, env.GetWorkflowError())

				var result BurnReportResult
				err := env.GetWorkflowResult(&result)
				assert.NoError(t, err)
				tt.validateResult(t, &result)
			}
		})
	}
}

func TestBurnReportWorkflow_ActivityRetries(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()

	activities := &Activities{}
	env.RegisterActivity(activities.ScanBurns)
	env.RegisterActivity(activities.ReportPrice)

	// ScanBurns fails twice, then succeeds. Temporal retries on panics.
	callCount := 0
	env.OnActivity(activities.ScanBurns, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		callCount++
		if callCount < 3 {
			panic("transient error")
		}
	}).Return(&ScanBurnsResult{
		Count:   2,
		TotalUI: "10",
	}, nil)

	env.OnActivity(activities.ReportPrice, mock.Anything, mock.Anything).
		Return(&ReportPriceResult{
			PriceUSD:     1.5,
			Provider:     "jupiter",
			BurnTotalUSD: 15,
		}, nil)

	env.ExecuteWorkflow(BurnReportWorkflow, BurnReportInput{
		WalletAddress: "TestWa11et11111111111111111111111111111",
		TokenMint:     "TestMint111111111111111111111111111111",
	})

	assert.NoError(t, env.GetWorkflowError())

	var result BurnReportResult
	err := env.GetWorkflowResult(&result)
	assert.NoError(t, err)
	assert.Equal(t, 2, result.BurnCount)
	assert.Equal(t, "10", result.BurnTotalUI)

	// Two failures plus the success.
	assert.Equal(t, 3, callCount)
}

func TestBurnReportWorkflow_RunsActivitiesInOrder(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()

	activities := &Activities{}
	env.RegisterActivity(activities.ScanBurns)
	env.RegisterActivity(activities.ReportPrice)

	var order []string
	env.OnActivity(activities.ScanBurns, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		order = append(order, "scan")
	}).Return(&ScanBurnsResult{Count: 0, TotalUI: "0"}, nil)

	env.OnActivity(activities.ReportPrice, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		order = append(order, "price")
	}).Return(&ReportPriceResult{PriceUSD: 1, Provider: "jupiter"}, nil)

	env.ExecuteWorkflow(BurnReportWorkflow, BurnReportInput{
		WalletAddress: "TestWa11et11111111111111111111111111111",
		TokenMint:     "TestMint111111111111111111111111111111",
	})

	assert.NoError(t, env.GetWorkflowError())
	assert.Equal(t, []string{"scan", "price"}, order)
}
