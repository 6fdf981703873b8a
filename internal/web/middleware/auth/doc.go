// Package auth provides the page-load authentication middleware. It redirects
// unauthenticated sessions to the login page before any guarded page is
// reached; the permission guards themselves never redirect.
package auth
