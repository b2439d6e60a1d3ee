package billing

// Mode is the deployment-level billing switch. It is built once from
// configuration and handed to every component that checks plans or seats.
type Mode struct {
	enforced bool
}

func NewMode(enforced bool) Mode {
	return Mode{enforced: enforced}
}

var (
	ModeEnforced = Mode{enforced: true}
	ModeDisabled = Mode{enforced: false}
)

// Enforced reports whether plan and seat checks apply. Self-hosted
// deployments run with enforcement off and skip every billing call.
func (m Mode) Enforced() bool {
	return m.enforced
}

func (m Mode) String() string {
	if m.enforced {
		return "enforced"
	}
	return "disabled"
}
