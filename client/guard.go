package client

type GuardAction int

const (
	// GuardPending: session resolution has not finished; render a neutral
	// loading state and make no redirect decision yet.
	GuardPending GuardAction = iota
	GuardAllow
	GuardRedirect
)

// SignInRoute is where unauthenticated visitors are sent.
const SignInRoute = "/login"

type GuardDecision struct {
	Action GuardAction
	// RedirectTo is set on GuardRedirect.
	RedirectTo string
	// From preserves the originally requested location so the caller can
	// return there after a successful sign-in.
	From string
}

// Guard gates an authenticated-only screen. Redirecting before the session
// resolves would bounce an authenticated user on reload, so a loading
// session always yields GuardPending.
func Guard(s *Session, requested string) GuardDecision {
	if s.Loading() {
		return GuardDecision{Action: GuardPending, From: requested}
	}
	if s.IsAuthenticated() {
		return GuardDecision{Action: GuardAllow, From: requested}
	}
	return GuardDecision{Action: GuardRedirect, RedirectTo: SignInRoute, From: requested}
}
