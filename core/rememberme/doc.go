// Package rememberme restores a user identity across sessions from a
// long-lived cookie.
//
// The token is base64("<user id>::<secret>"). Recover yields one of three
// outcomes: NoOp when the session already has a user or no cookie exists,
// Recovered with the decoded id and secret, or Corrupted when the cookie is
// malformed. A corrupted cookie is deleted before Recover returns.
//
//	rm := rememberme.New(cookies, rememberme.WithSigned(true))
//	_ = rm.Set(ctx, user.ID, secret)
//
//	res, err := rm.Recover(ctx, sess)
//	if err == nil && res.Status == rememberme.Recovered {
//		// look up res.UserID and verify res.Secret
//	}
package rememberme
