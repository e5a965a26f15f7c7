// Package controller dispatches HTTP requests to controller actions through
// a fixed pipeline.
//
// Actions are registered explicitly with a kind that never changes:
//
//	home := controller.New("home", "/",
//		controller.WithBeforeAction(requireLocale),
//	)
//	home.Render("index", index, controller.WebPage())
//	home.Async("stats", stats, controller.Cached(store))
//	home.Async("admin", admin, controller.AdminOnly())
//
//	router := controller.NewRouter(
//		controller.WithSessions(sessions),
//		controller.WithRememberMe(rememberMe),
//		controller.WithRenderer(engine),
//		controller.WithDefaultSessionRecovery(auth),
//	)
//	router.MustRegister(home)
//	http.ListenAndServe(":8080", router)
//
// Every call first attempts remember-me session recovery once per request.
// Render and async actions then get normalized arguments, the before hook,
// the body and the after hook, with their duration logged at debug level.
// Async bodies answer with an Envelope: any error that is not a
// response.HTTPError, panics included, becomes {"success": false, "error": ...}.
// HTTP errors, built with Abort or taken from response, always propagate
// and are rendered with their status.
//
// Requests map to "/<controller path>/<action>"; a bare controller path
// serves its "index" action. Router.Forward and Context.Forward dispatch to
// another action inside the same process.
package controller
