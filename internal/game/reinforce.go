package game

// Reinforce places amount units from p's pool on t. It succeeds only if p owns
// t, amount is positive and the pool covers it; otherwise nothing changes and
// false is returned.
func (c *Controller) Reinforce(amount int, t *Territory, p *Player) bool {
	if !c.isRegistered(p) || !c.arena.holds(t) {
		return false
	}
	if amount <= 0 || !t.OwnedBy(p) || p.reinforcements < amount {
		return false
	}
	t.units += amount
	p.reinforcements -= amount
	return true
}

// PlanEvenReinforcement splits pool over n territories: every territory gets
// pool/n units and the first pool%n get one more.
func PlanEvenReinforcement(pool, n int) []int {
	if n <= 0 {
		return nil
	}
	plan := make([]int, n)
	share, rem := pool/n, pool%n
	for i := range plan {
		plan[i] = share
		if i < rem {
			plan[i]++
		}
	}
	return plan
}

// ReinforceEvenly spends p's whole pool across its territories in scan order
// following PlanEvenReinforcement. It returns the number of units placed.
func (c *Controller) ReinforceEvenly(p *Player) (int, error) {
	if p == nil {
		return 0, ErrNilPlayer
	}
	owned := c.OwnedTerritories(p)
	if len(owned) == 0 {
		return 0, ErrNoTerritories
	}

	placed := 0
	for i, units := range PlanEvenReinforcement(p.reinforcements, len(owned)) {
		if units > 0 && c.Reinforce(units, owned[i], p) {
			placed += units
		}
	}
	return placed, nil
}
