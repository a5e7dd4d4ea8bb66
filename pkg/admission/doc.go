// Package admission computes the load-adaptive admission threshold and owns
// the freeze/defer state machine.
//
// The controller keeps a bounded ring of load samples, predicts the load
// trend with a linear slope estimate, and derives the threshold from load,
// context risk, and historical score averages. When load crosses the high
// water mark the policy vector is frozen and incoming requests are diverted
// to a deferred queue; the controller unfreezes only after load falls below
// half the mark, so the transition cannot flap. The queue drains by
// descending score, which deliberately ignores arrival order.
package admission
