package domain

import "testing"

func TestOrderStatusCanTransitionTo(t *testing.T) {
	all := []OrderStatus{
		OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusRejected,
		OrderStatusCancelled,
	}

	allowed := map[OrderStatus][]OrderStatus{
		OrderStatusPending:   {OrderStatusConfirmed, OrderStatusRejected, OrderStatusCancelled},
		OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
		OrderStatusShipped:   {OrderStatusDelivered},
		OrderStatusDelivered: {},
		OrderStatusRejected:  {},
		OrderStatusCancelled: {},
	}

	for _, from := range all {
		want := map[OrderStatus]bool{}
		for _, to := range allowed[from] {
			want[to] = true
		}
		for _, to := range all {
			if got := from.CanTransitionTo(to); got != want[to] {
				t.Errorf("%s -> %s: got %v, want %v", from, to, got, want[to])
			}
		}
	}
}

func TestOrderStatusTerminalStatesAreClosed(t *testing.T) {
	for _, terminal := range []OrderStatus{OrderStatusDelivered, OrderStatusRejected, OrderStatusCancelled} {
		for _, to := range []OrderStatus{
			OrderStatusPending,
			OrderStatusConfirmed,
			OrderStatusShipped,
			OrderStatusDelivered,
			OrderStatusRejected,
			OrderStatusCancelled,
		} {
			if terminal.CanTransitionTo(to) {
				t.Errorf("terminal %s must not transition to %s", terminal, to)
			}
		}
	}
}

func TestOrderStatusUnknownFromIsRejected(t *testing.T) {
	if OrderStatus("ARCHIVED").CanTransitionTo(OrderStatusConfirmed) {
		t.Error("unknown status must not transition anywhere")
	}
}
