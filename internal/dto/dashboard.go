package dto

// TurnoutCounts is the total/voted/percentage triple used everywhere the
// dashboard slices the voter list.
type TurnoutCounts struct {
	Total      int `json:"total"`
	Voted      int `json:"voted"`
	Pending    int `json:"pending"`
	Percentage int `json:"percentage"`
}

// GroupTurnout is TurnoutCounts for a named group (island or party).
type GroupTurnout struct {
	Name string `json:"name"`
	TurnoutCounts
}

// TurnoutSummary aggregates turnout across the whole registry plus the
// campaign slices and the island/party groupings.
type TurnoutSummary struct {
	Overall  TurnoutCounts  `json:"overall"`
	Sheema   TurnoutCounts  `json:"sheema"`
	Sadiq    TurnoutCounts  `json:"sadiq"`
	ByIsland []GroupTurnout `json:"by_island"`
	ByParty  []GroupTurnout `json:"by_party"`
}

// ElectionCountdown carries the election window for countdown timers.
type ElectionCountdown struct {
	StartMillis     int64 `json:"start_millis"`
	EndMillis       int64 `json:"end_millis"`
	RemainingMillis int64 `json:"remaining_millis"`
	Started         bool  `json:"started"`
	Ended           bool  `json:"ended"`
}

// DashboardResponse is the composed dashboard payload.
type DashboardResponse struct {
	Turnout   TurnoutSummary     `json:"turnout"`
	Countdown *ElectionCountdown `json:"countdown,omitempty"`
}
