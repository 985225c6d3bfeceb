package checkout

import "time"

// DirectiveNavigator is the transport-facing Navigator. The server has no
// browsing context of its own; OpenTab reports a live handle and the
// transport ships the resulting two-step plan to the web client, which
// performs the real navigation under the same fallback rules.
type DirectiveNavigator struct{}

func (DirectiveNavigator) OpenTab(url string) (Handle, error) {
	return directiveHandle{}, nil
}

func (DirectiveNavigator) Replace(url string) error {
	return nil
}

type directiveHandle struct{}

func (directiveHandle) Closed() (closed, known bool) {
	return false, true
}

// PlanStep is one navigation directive for the client.
type PlanStep struct {
	Action string `json:"action"`
	URL    string `json:"url"`
}

const (
	PlanActionOpenTab = "open_tab"
	PlanActionReplace = "replace"
)

// DeliveryPlan tells the client how to hand the message URL to the channel:
// try the primary step, and when its context never materializes run the
// fallback step after the delay. The replace step keeps history clean so the
// back button does not land on a dead checkout page.
type DeliveryPlan struct {
	Primary         PlanStep `json:"primary"`
	Fallback        PlanStep `json:"fallback"`
	FallbackDelayMS int64    `json:"fallback_delay_ms"`
	UsedFallback    bool     `json:"used_fallback"`
}

// NewDeliveryPlan builds the plan for a validated channel URL.
func NewDeliveryPlan(url string, outcome Outcome, fallbackDelay time.Duration) DeliveryPlan {
	return DeliveryPlan{
		Primary:         PlanStep{Action: PlanActionOpenTab, URL: url},
		Fallback:        PlanStep{Action: PlanActionReplace, URL: url},
		FallbackDelayMS: fallbackDelay.Milliseconds(),
		UsedFallback:    outcome.UsedFallback,
	}
}
