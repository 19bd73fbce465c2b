package sessions

import "github.com/jrsteele09/go-jobportal-client/users"

// Session is the client's view of who is logged in. It is created empty at startup,
// hydrated from the token store, replaced by login/signup/refresh and emptied by logout
// or by a failed refresh.
type Session struct {
	AccessToken  string      // Short-lived bearer credential, sent verbatim
	RefreshToken string      // Exchanged for a new pair when the access token is rejected
	User         *users.User // Identity returned by login/signup
}

// Empty is the logged-out session
var Empty = Session{}

// IsAuthenticated reports whether requests can carry a bearer token for a known user
func (s Session) IsAuthenticated() bool {
	return s.AccessToken != "" && s.User != nil
}

func (s Session) IsEmpty() bool {
	return s.AccessToken == "" && s.RefreshToken == "" && s.User == nil
}

