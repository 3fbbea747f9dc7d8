// internal is the internal packages of check_http.
//
// The packages form a pipeline: config turns flags and files into a
// probe.Plan, probe drives one request through transport and holds the
// response against the checks package, and output renders the report.
// All of them speak in terms of the lib-check types.
//
// The testutil package is shared by the tests of every layer.
package internal
