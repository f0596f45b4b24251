package behavioral

// Insight threshold bands. The wording is a product concern; the bands are
// the contract.
const (
	lowBand  = 30.0
	highBand = 60.0
)

// buildInsights generates human-readable observations from the sub-scores
func buildInsights(panicScore, recencyScore, riskScore, liquidityScore float64) []string {
	var insights []string

	switch {
	case panicScore < lowBand:
		insights = append(insights, "You stay disciplined during market dips and rarely sell into losses.")
	case panicScore < highBand:
		insights = append(insights, "Some of your sells cluster around down days. Consider waiting 48 hours before selling after a dip.")
	default:
		insights = append(insights, "A large share of your sells happen right after losses. Panic selling tends to lock in losses.")
	}

	switch {
	case recencyScore < lowBand:
		insights = append(insights, "Your portfolio is not tilted toward recent winners.")
	case recencyScore < highBand:
		insights = append(insights, "Your portfolio leans somewhat toward assets that recently performed well.")
	default:
		insights = append(insights, "Your portfolio is heavily concentrated in recent winners. Recent performance rarely persists.")
	}

	if riskScore > highBand {
		insights = append(insights, "Your holdings carry substantially more volatility than a balanced baseline. Make sure this matches your risk tolerance.")
	}

	switch {
	case liquidityScore < lowBand:
		insights = append(insights, "Your portfolio comfortably covers your spending needs.")
	case liquidityScore < highBand:
		insights = append(insights, "Your liquidity cushion is moderate. A larger buffer would reduce the chance of forced selling.")
	default:
		insights = append(insights, "Your portfolio covers only a few months of spending. Forced selling risk is elevated.")
	}

	return insights
}
