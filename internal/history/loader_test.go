package history

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	csv := `account_number,month,usage_kwh,generation_kwh,net_usage_kwh,usage_cost,generation_credit,amount_due
1234567890,2024-01,512.3,420.1,92.2,$102.45,$84.00,22.57
1234567890,2024-02,480,"510.5",-30.5,"1,096.00",84,-17.02
,2024-03,1,1,1,1,1,1
`
	bills, err := Load(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, bills, 2, "rows with an empty account number are skipped")

	assert.Equal(t, "1234567890", bills[0].AccountNumber)
	assert.Equal(t, "2024-01", bills[0].Month)
	assert.Equal(t, 512.3, bills[0].UsageKWH)
	assert.Equal(t, 102.45, bills[0].UsageCost)
	assert.Equal(t, 22.57, bills[0].AmountDue)

	assert.Equal(t, -30.5, bills[1].NetUsageKWH)
	assert.Equal(t, 1096.0, bills[1].UsageCost, "commas and quotes are tolerated")
	assert.Equal(t, -17.02, bills[1].AmountDue)
}

func TestLoad_BlankAmountsDefaultToZero(t *testing.T) {
	csv := `account_number,month,usage_kwh,generation_kwh,net_usage_kwh,usage_cost,generation_credit,amount_due
999,2024-05,,,,,,
`
	bills, err := Load(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, bills, 1)
	assert.Zero(t, bills[0].UsageKWH)
	assert.Zero(t, bills[0].AmountDue)
}

func TestLoad_BadHeader(t *testing.T) {
	csv := `account,month,usage_kwh,generation_kwh,net_usage_kwh,usage_cost,generation_credit,amount_due
1,2024-01,1,1,1,1,1,1
`
	_, err := Load(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header column")
}

func TestLoad_BadAmount(t *testing.T) {
	csv := `account_number,month,usage_kwh,generation_kwh,net_usage_kwh,usage_cost,generation_credit,amount_due
1,2024-01,abc,1,1,1,1,1
`
	_, err := Load(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usage_kwh")
}

func TestLoad_EmptyInput(t *testing.T) {
	_, err := Load(strings.NewReader(""))
	require.Error(t, err)
}
