// Package platform wraps the hosting platform's REST API behind a small
// account-scoped client. Transport failures are translated into a typed
// error taxonomy, rate limited calls are retried once after the advertised
// delay, and every operation observes a bounded timeout. Credentials never
// appear in logs or error text.
package platform
