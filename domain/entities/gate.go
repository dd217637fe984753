package entities

// GateOutcome is the terminal state of a session check
type GateOutcome string

const (
	GateReady         GateOutcome = "ready"
	GateRedirectLogin GateOutcome = "redirect_login"
	GateRedirectHome  GateOutcome = "redirect_home"
)

const (
	LoginPath = "/login"
	HomePath  = "/"
)

// GateResult is what a screen gets back from the session gate. Redirects are
// navigation directives, not errors.
type GateResult struct {
	Outcome  GateOutcome
	Identity *Identity // Set when Outcome is GateReady or GateRedirectHome
}

// Ready reports whether the caller may proceed
func (g GateResult) Ready() bool {
	return g.Outcome == GateReady
}

// RedirectTo returns the navigation target for redirect outcomes
func (g GateResult) RedirectTo() string {
	switch g.Outcome {
	case GateRedirectLogin:
		return LoginPath
	case GateRedirectHome:
		return HomePath
	default:
		return ""
	}
}

// ResultRow is a played match with the viewer's prediction, if any
type ResultRow struct {
	Match      Match
	Prediction *Score
}
