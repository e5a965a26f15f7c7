// Package cookie reads and writes HTTP cookies with secure defaults
// (Path=/, HttpOnly, SameSite=Lax), HMAC signing with key rotation and a size
// limit check.
//
//	m, err := cookie.New([]string{os.Getenv("COOKIE_SECRET")})
//	if err != nil {
//		return err
//	}
//	_ = m.SetSigned(w, "sid", sessionID, cookie.WithMaxAge(86400))
//	id, err := m.GetSigned(r, "sid")
//
// Jar packs several short values into one long-lived application cookie:
//
//	jar := cookie.NewJar(m, "")
//	_ = jar.Set(w, r, "lang", "en")
//	lang, _ := jar.Get(w, r, "lang")
//
// Writing the same cookie twice during one response replaces the earlier
// Set-Cookie header, and Jar reads see values written earlier in the response.
package cookie
