package parser

// SystemPrompt steers the model toward bill parsing before the extraction
// instructions arrive.
const SystemPrompt = "You are a utility bill parsing assistant. Extract structured data from energy bills accurately."

// BuildBillPrompt returns the structured-extraction prompt for a bill's
// text. The charge-type list is representative, not exhaustive; the model
// is told to include any other charges it finds.
func BuildBillPrompt(text string) string {
	return `Extract the following information from this energy bill text. Return the data in JSON format.

For the bill summary, extract:
- Account number
- Billing period
- Previous balance
- Payment received
- Credit balance
- Current charges
- Total amount due

For the charges breakdown, extract all charges mentioned in the bill, such as:
- Electricity used (in kWh)
- Electricity delivery charges
- Non-bypassable charges
- Wildfire fund charge
- Electricity generation charges
- Electricity generation credit
- Baseline adjustment credit
- Other adjustments
- Minimum charge adjustment
- Taxes & fees
- NEM credits
- And any other charges mentioned

Format the response as a JSON object with two main sections:
1. "bill_summary" - containing the summary fields
2. "charges_breakdown" - an array of objects with "charge_type" and "amount" fields

Here's the bill text:
` + text
}
