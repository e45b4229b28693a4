// Package analyzer flags resources that look like waste.
package analyzer

import "github.com/relicscan/relic/pkg/inventory"

// Compute and volume lifecycle states that indicate idle spend.
const (
	stateStopped   = "stopped"
	stateAvailable = "available"
)

// Waste groups resources matching the idle-spend predicates. Slices keep
// session discovery order.
type Waste struct {
	StoppedCompute  []inventory.Resource
	DetachedVolumes []inventory.Resource
	UnassociatedIPs []inventory.Resource
}

// Empty reports whether no waste was found.
func (w Waste) Empty() bool {
	return len(w.StoppedCompute) == 0 && len(w.DetachedVolumes) == 0 && len(w.UnassociatedIPs) == 0
}

// Classify derives waste flags from a completed session. Purely derived;
// the session is not modified.
func Classify(session *inventory.Session) Waste {
	var waste Waste

	for _, r := range session.Collection(inventory.KindCompute) {
		if r.Compute != nil && r.Compute.State == stateStopped {
			waste.StoppedCompute = append(waste.StoppedCompute, r)
		}
	}
	for _, r := range session.Collection(inventory.KindBlockVolume) {
		if r.Volume != nil && r.Volume.State == stateAvailable {
			waste.DetachedVolumes = append(waste.DetachedVolumes, r)
		}
	}
	for _, r := range session.Collection(inventory.KindFloatingIP) {
		if r.Address != nil && !r.Address.Associated {
			waste.UnassociatedIPs = append(waste.UnassociatedIPs, r)
		}
	}

	return waste
}
